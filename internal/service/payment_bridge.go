package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/payment"
	"github.com/iliyamo/camp-registration/internal/repository"
)

// AmountInSmallestUnit converts a fee in a two-decimal currency to its
// smallest unit by multiplying by 100 and truncating.  The tiny epsilon only
// absorbs binary floating point error (19.99*100 is 1998.9999999999998);
// it never rounds a genuine fraction of a cent up.
func AmountInSmallestUnit(fees float64) int64 {
	return int64(fees*100 + 1e-6)
}

// PaymentBridge asks the processor to reserve a camp's fee.  It keeps no
// state and never retries: one request, one processor call at most.
type PaymentBridge struct {
	camps     repository.CampRepository
	processor payment.Processor
	currency  string
}

// NewPaymentBridge wires a bridge charging in currency (e.g. "usd").
func NewPaymentBridge(camps repository.CampRepository, processor payment.Processor, currency string) *PaymentBridge {
	if camps == nil || processor == nil {
		panic("nil dependency passed to NewPaymentBridge")
	}
	if currency == "" {
		currency = "usd"
	}
	return &PaymentBridge{camps: camps, processor: processor, currency: strings.ToLower(currency)}
}

// CreateIntent resolves the camp, converts its fee and returns the client
// secret of a new payment intent.  Unknown camps fail with ErrNotFound
// before the processor is contacted.
func (b *PaymentBridge) CreateIntent(ctx context.Context, campID, email string) (string, error) {
	campID = strings.TrimSpace(campID)
	email = strings.TrimSpace(email)
	if campID == "" {
		return "", validationf("campId is required")
	}
	if err := validateEmail(email, "email"); err != nil {
		return "", err
	}

	camp, err := b.camps.GetByID(ctx, campID)
	if err != nil {
		return "", storeErr(err, "camp", "load camp")
	}
	// rows written outside Camps can still carry an out of range fee
	if math.IsNaN(camp.CampFees) || camp.CampFees > model.MaxCampFees {
		return "", validationf("camp %s fee is not payable", campID)
	}
	amount := AmountInSmallestUnit(camp.CampFees)
	if amount <= 0 {
		return "", validationf("camp %s has no fee to pay", campID)
	}

	secret, err := b.processor.CreateIntent(ctx, payment.IntentRequest{
		Amount:       amount,
		Currency:     b.currency,
		ReceiptEmail: email,
		Metadata:     map[string]string{"campId": camp.ID},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProcessor, err)
	}
	return secret, nil
}
