package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeProcessor creates card payment intents through the Stripe API.
// Network retries are disabled: a failed call is reported to the caller,
// who decides what to do next.
type StripeProcessor struct {
	api *client.API
}

// NewStripeProcessor builds a processor for secretKey.  timeout bounds each
// HTTP call to Stripe; zero means no client-side timeout.
func NewStripeProcessor(secretKey string, timeout time.Duration) *StripeProcessor {
	cfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		HTTPClient:        &http.Client{Timeout: timeout},
	}
	api := &client.API{}
	api.Init(secretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	})
	return &StripeProcessor{api: api}
}

// CreateIntent reserves req.Amount and returns only the client secret.
func (p *StripeProcessor) CreateIntent(ctx context.Context, req IntentRequest) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) {
			return "", fmt.Errorf("stripe %s: %s", se.Code, se.Msg)
		}
		return "", err
	}
	if pi.ClientSecret == "" {
		return "", errors.New("stripe returned an empty client secret")
	}
	return pi.ClientSecret, nil
}
