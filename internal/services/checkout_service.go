package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"petregistry/internal/payments"
	"petregistry/internal/repositories"
	"petregistry/pkg/utils"
)

type CheckoutConfig struct {
	RegistrationFeeMinor int64
	TransferFeeMinor     int64
	Currency             string

	RegistrationSuccessURL string
	RegistrationCancelURL  string
	TransferSuccessURL     string
	TransferCancelURL      string
}

// CheckoutService owns both ends of the payment provider round trip: it
// creates checkout sessions and turns confirmed sessions, from either
// path, into PaymentConfirmations for the reconciler.
type CheckoutService interface {
	CreateRegistrationCheckout(ctx context.Context, userID uuid.UUID) (string, error)
	ConfirmRegistrationSession(ctx context.Context, userID uuid.UUID, sessionID string) (int64, error)
	CreateTransferCheckout(ctx context.Context, userID uuid.UUID, transferID uuid.UUID) (string, error)
	ConfirmTransferSession(ctx context.Context, userID uuid.UUID, sessionID string) error
	HandleWebhookEvent(ctx context.Context, payload []byte, signatureHeader string) error
}

type checkoutService struct {
	provider     payments.Provider
	reconciler   ReconcileService
	creditRepo   repositories.CreditRepository
	transferRepo repositories.TransferRepository
	cfg          CheckoutConfig
}

func NewCheckoutService(
	provider payments.Provider,
	reconciler ReconcileService,
	creditRepo repositories.CreditRepository,
	transferRepo repositories.TransferRepository,
	cfg CheckoutConfig) CheckoutService {
	return &checkoutService{
		provider:     provider,
		reconciler:   reconciler,
		creditRepo:   creditRepo,
		transferRepo: transferRepo,
		cfg:          cfg,
	}
}

func (s *checkoutService) CreateRegistrationCheckout(ctx context.Context, userID uuid.UUID) (string, error) {
	sess, err := s.provider.CreateCheckoutSession(ctx, payments.CheckoutParams{
		AmountMinor: s.cfg.RegistrationFeeMinor,
		Currency:    s.cfg.Currency,
		SuccessURL:  s.cfg.RegistrationSuccessURL,
		CancelURL:   s.cfg.RegistrationCancelURL,
		Description: "Microchip registration credit",
		Metadata: map[string]string{
			payments.MetaPurpose: string(payments.PurposeRegistration),
			payments.MetaUserID:  userID.String(),
		},
	})
	if err != nil {
		return "", mapProviderError(err)
	}
	return sess.URL, nil
}

func (s *checkoutService) ConfirmRegistrationSession(ctx context.Context, userID uuid.UUID, sessionID string) (int64, error) {
	sess, err := s.provider.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		return 0, mapProviderError(err)
	}

	if sess.Metadata[payments.MetaPurpose] != string(payments.PurposeRegistration) {
		return 0, utils.ErrSessionWrongPurpose
	}
	// The session token is attacker-observable, so the caller must match
	// the account the session was created for.
	if sess.Metadata[payments.MetaUserID] != userID.String() {
		return 0, utils.ErrSessionOwnerMismatch
	}
	if !sess.Paid {
		return 0, utils.ErrSessionNotPaid
	}

	conf, err := confirmationFromSession(sess)
	if err != nil {
		return 0, err
	}
	if err := s.reconciler.Apply(ctx, conf); err != nil {
		return 0, err
	}

	return s.creditRepo.CountAvailable(ctx, userID)
}

func (s *checkoutService) CreateTransferCheckout(ctx context.Context, userID uuid.UUID, transferID uuid.UUID) (string, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return "", err
	}
	if transfer == nil {
		return "", utils.ErrTransferNotFound
	}
	if transfer.ToUserID != userID {
		return "", utils.ErrNotTransferRecipient
	}
	if !transfer.Pending() {
		return "", utils.ErrTransferNotPending
	}

	paid, err := s.transferRepo.HasPayment(ctx, transfer.ID)
	if err != nil {
		return "", err
	}
	if paid {
		return "", utils.ErrTransferAlreadyPaid
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, payments.CheckoutParams{
		AmountMinor: s.cfg.TransferFeeMinor,
		Currency:    s.cfg.Currency,
		SuccessURL:  s.cfg.TransferSuccessURL,
		CancelURL:   s.cfg.TransferCancelURL,
		Description: "Pet ownership transfer",
		Metadata: map[string]string{
			payments.MetaPurpose:           string(payments.PurposeTransfer),
			payments.MetaTransferRequestID: transfer.ID.String(),
			payments.MetaToUserID:          transfer.ToUserID.String(),
		},
	})
	if err != nil {
		return "", mapProviderError(err)
	}
	return sess.URL, nil
}

func (s *checkoutService) ConfirmTransferSession(ctx context.Context, userID uuid.UUID, sessionID string) error {
	sess, err := s.provider.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		return mapProviderError(err)
	}

	if sess.Metadata[payments.MetaPurpose] != string(payments.PurposeTransfer) {
		return utils.ErrSessionWrongPurpose
	}
	if sess.Metadata[payments.MetaToUserID] != userID.String() {
		return utils.ErrSessionOwnerMismatch
	}
	if !sess.Paid {
		return utils.ErrSessionNotPaid
	}

	conf, err := confirmationFromSession(sess)
	if err != nil {
		return err
	}
	return s.reconciler.Apply(ctx, conf)
}

func (s *checkoutService) HandleWebhookEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	sess, err := s.provider.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		if errors.Is(err, payments.ErrIgnoredEvent) {
			return nil
		}
		if errors.Is(err, payments.ErrInvalidSignature) {
			return utils.ErrInvalidWebhook
		}
		return mapProviderError(err)
	}

	// A completion event for an unpaid session mutates nothing.
	if !sess.Paid {
		return nil
	}

	conf, err := confirmationFromSession(sess)
	if err != nil {
		return utils.ErrInvalidWebhook
	}

	err = s.reconciler.Apply(ctx, conf)
	if errors.Is(err, utils.ErrTransferNotFound) {
		// Unknown transfer: ack so the provider stops retrying, but keep
		// a trail for investigation.
		log.Printf("webhook: no transfer request for reference %s", conf.Reference)
		return nil
	}
	return err
}

// confirmationFromSession rebuilds the internal confirmation message from
// session metadata. Both confirmation paths funnel through here so their
// view of the event cannot drift apart.
func confirmationFromSession(sess *payments.CheckoutSession) (PaymentConfirmation, error) {
	conf := PaymentConfirmation{
		Reference:   sess.ID,
		Purpose:     payments.CheckoutPurpose(sess.Metadata[payments.MetaPurpose]),
		AmountMinor: sess.AmountMinor,
		Currency:    sess.Currency,
		Metadata:    sess.Metadata,
	}

	switch conf.Purpose {
	case payments.PurposeRegistration:
		userID, err := uuid.Parse(sess.Metadata[payments.MetaUserID])
		if err != nil {
			return PaymentConfirmation{}, fmt.Errorf("checkout session %s: bad user id metadata: %w", sess.ID, err)
		}
		conf.UserID = userID
	case payments.PurposeTransfer:
		transferID, err := uuid.Parse(sess.Metadata[payments.MetaTransferRequestID])
		if err != nil {
			return PaymentConfirmation{}, fmt.Errorf("checkout session %s: bad transfer id metadata: %w", sess.ID, err)
		}
		conf.TransferRequestID = transferID
	default:
		return PaymentConfirmation{}, fmt.Errorf("checkout session %s: unknown purpose %q", sess.ID, conf.Purpose)
	}

	return conf, nil
}

func mapProviderError(err error) error {
	if errors.Is(err, payments.ErrNotConfigured) {
		return utils.ErrProviderUnavailable
	}
	return err
}
