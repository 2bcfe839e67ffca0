// Package payments wraps the external card-processing provider behind
// a narrow charge-intent interface; the provider protocol itself stays
// inside its SDK.
package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// ChargeIntentCreator creates a provider-side charge object and
// returns the client secret the browser needs to complete the card
// payment.
type ChargeIntentCreator interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (clientSecret string, err error)
}

// StripeCreator implements ChargeIntentCreator with Stripe
// PaymentIntents, card method only.
type StripeCreator struct{}

func NewStripeCreator(secretKey string) *StripeCreator {
	stripe.Key = secretKey
	return &StripeCreator{}
}

func (s *StripeCreator) CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinorUnits),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("creating payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}
