// Package payments defines the capability consumed from the external payment
// provider: create a checkout session, retrieve one by id, verify a webhook.
// The rest of the system never talks to a vendor SDK directly.
package payments

import (
	"context"
	"errors"
)

type CheckoutPurpose string

const (
	PurposeRegistration CheckoutPurpose = "registration"
	PurposeTransfer     CheckoutPurpose = "transfer"
)

// Metadata keys carried on every checkout session. They must be enough to
// rebuild a PaymentConfirmation on either confirmation path.
const (
	MetaPurpose           = "purpose"
	MetaUserID            = "user_id"
	MetaTransferRequestID = "transfer_request_id"
	MetaToUserID          = "to_user_id"
)

var (
	ErrNotConfigured    = errors.New("payments: provider not configured")
	ErrInvalidSignature = errors.New("payments: invalid webhook signature")
	// ErrIgnoredEvent marks webhook events that are valid but carry no
	// completed checkout (e.g. session expiration); callers ack them.
	ErrIgnoredEvent = errors.New("payments: event not relevant")
)

type CheckoutParams struct {
	AmountMinor int64
	Currency    string
	SuccessURL  string
	CancelURL   string
	Description string
	Metadata    map[string]string
}

// CheckoutSession is the provider-neutral view of a session. ID doubles as
// the external payment reference stored on credits and transfer payments.
type CheckoutSession struct {
	ID          string
	URL         string
	Paid        bool
	AmountMinor int64
	Currency    string
	Metadata    map[string]string
}

type Provider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)

	// VerifyWebhook authenticates the raw payload against the signature
	// header and returns the completed checkout session it describes.
	VerifyWebhook(payload []byte, signatureHeader string) (*CheckoutSession, error)
}
