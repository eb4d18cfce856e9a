package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

type StripeConfig struct {
	SecretKey     string // sk_xxx
	WebhookSecret string // whsec_xxx, signs webhook payloads
}

type stripeProvider struct {
	cfg StripeConfig
	api *client.API
}

// NewStripeProvider builds the Stripe-backed Provider. An empty secret key is
// allowed; every call then fails with ErrNotConfigured so the HTTP layer can
// answer 503 instead of the process refusing to boot.
func NewStripeProvider(cfg StripeConfig) Provider {
	api := &client.API{}
	httpClient := &http.Client{Timeout: 15 * time.Second}
	api.Init(cfg.SecretKey, stripe.NewBackends(httpClient))

	return &stripeProvider{cfg: cfg, api: api}
}

func (s *stripeProvider) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	if s.cfg.SecretKey == "" {
		return nil, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.AmountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create session: %w", err)
	}

	return fromStripeSession(sess), nil
}

func (s *stripeProvider) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	if s.cfg.SecretKey == "" {
		return nil, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe retrieve session %s: %w", sessionID, err)
	}

	return fromStripeSession(sess), nil
}

func (s *stripeProvider) VerifyWebhook(payload []byte, signatureHeader string) (*CheckoutSession, error) {
	if s.cfg.SecretKey == "" || s.cfg.WebhookSecret == "" {
		return nil, ErrNotConfigured
	}

	event, err := webhook.ConstructEvent(payload, signatureHeader, s.cfg.WebhookSecret)
	if err != nil {
		return nil, ErrInvalidSignature
	}

	if event.Type != "checkout.session.completed" {
		return nil, ErrIgnoredEvent
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("stripe webhook payload: %w", err)
	}

	return fromStripeSession(&sess), nil
}

func fromStripeSession(sess *stripe.CheckoutSession) *CheckoutSession {
	paid := sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
		sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired

	return &CheckoutSession{
		ID:          sess.ID,
		URL:         sess.URL,
		Paid:        paid,
		AmountMinor: sess.AmountTotal,
		Currency:    string(sess.Currency),
		Metadata:    sess.Metadata,
	}
}
