package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"petregistry/internal/models/db_models"
	"petregistry/internal/payments"
	"petregistry/internal/repositories"
	"petregistry/pkg/utils"
)

// PaymentConfirmation is the single internal message both confirmation
// paths (synchronous return and asynchronous webhook) reduce to. Whoever
// applies it first performs the mutation; the loser observes a dedup
// collision and exits as a no-op.
type PaymentConfirmation struct {
	Reference         string
	Purpose           payments.CheckoutPurpose
	UserID            uuid.UUID
	TransferRequestID uuid.UUID
	AmountMinor       int64
	Currency          string
	Metadata          map[string]string
}

type ReconcileService interface {
	Apply(ctx context.Context, conf PaymentConfirmation) error
}

type reconcileService struct {
	creditRepo   repositories.CreditRepository
	transferRepo repositories.TransferRepository
}

func NewReconcileService(
	creditRepo repositories.CreditRepository,
	transferRepo repositories.TransferRepository) ReconcileService {
	return &reconcileService{
		creditRepo:   creditRepo,
		transferRepo: transferRepo,
	}
}

func (s *reconcileService) Apply(ctx context.Context, conf PaymentConfirmation) error {
	switch conf.Purpose {
	case payments.PurposeRegistration:
		return s.applyRegistration(ctx, conf)
	case payments.PurposeTransfer:
		return s.applyTransfer(ctx, conf)
	default:
		return fmt.Errorf("reconcile: unknown purpose %q", conf.Purpose)
	}
}

func (s *reconcileService) applyRegistration(ctx context.Context, conf PaymentConfirmation) error {
	credit := &db_models.RegistrationCredit{
		OwnerUserID:              conf.UserID,
		ExternalPaymentReference: conf.Reference,
		AmountMinor:              conf.AmountMinor,
		Currency:                 conf.Currency,
		Status:                   db_models.CreditStatusAvailable,
		Metadata:                 jsonRaw(conf.Metadata),
	}

	err := s.creditRepo.Insert(ctx, credit)
	if errors.Is(err, utils.ErrDuplicateReference) {
		// The other confirmation path already minted this credit.
		log.Printf("reconcile: credit for %s already exists, no-op", conf.Reference)
		return nil
	}
	return err
}

func (s *reconcileService) applyTransfer(ctx context.Context, conf PaymentConfirmation) error {
	payment := &db_models.TransferPayment{
		TransferRequestID:        conf.TransferRequestID,
		ExternalPaymentReference: conf.Reference,
		AmountMinor:              conf.AmountMinor,
		Currency:                 conf.Currency,
		Metadata:                 jsonRaw(conf.Metadata),
	}

	// Complete treats every already-settled shape as a clean no-op.
	return s.transferRepo.Complete(ctx, payment)
}

// jsonRaw snapshots provider metadata into the jsonb column; nil keeps the
// column's default.
func jsonRaw(v map[string]string) datatypes.JSON {
	if len(v) == 0 {
		return nil
	}
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}
