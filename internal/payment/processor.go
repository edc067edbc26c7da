// Package payment talks to the external payment processor.  The rest of the
// application only sees the Processor interface; StripeProcessor is the
// production implementation.
package payment

import "context"

// IntentRequest describes a charge to reserve.  Amount is in the smallest
// currency unit (cents for USD).
type IntentRequest struct {
	Amount       int64
	Currency     string
	ReceiptEmail string
	Metadata     map[string]string
}

// Processor creates payment intents and returns the client secret the
// browser needs to confirm the payment.
type Processor interface {
	CreateIntent(ctx context.Context, req IntentRequest) (string, error)
}
