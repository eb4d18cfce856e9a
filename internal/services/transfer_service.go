package services

import (
	"context"

	"github.com/google/uuid"

	"petregistry/internal/models/db_models"
	"petregistry/internal/repositories"
	"petregistry/pkg/utils"
)

type TransferService interface {
	// CreateTransfer opens a pending ownership transfer from the pet's
	// current owner to the account behind recipientEmail.
	CreateTransfer(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID, recipientEmail string) (*db_models.TransferRequest, error)
	// RejectTransfer is the recipient declining; terminal.
	RejectTransfer(ctx context.Context, userID uuid.UUID, transferID uuid.UUID) error
	// AcceptTransfer never flips the state itself: acceptance and payment
	// are the same event, so it always comes back ErrTransferNeedsPayment
	// and the real transition happens in the reconciler.
	AcceptTransfer(ctx context.Context, userID uuid.UUID, transferID uuid.UUID) error
	ListTransfers(ctx context.Context, userID uuid.UUID) ([]db_models.TransferRequest, error)
}

type transferService struct {
	transferRepo repositories.TransferRepository
	petRepo      repositories.PetRepository
	accountRepo  repositories.AccountRepository
}

func NewTransferService(
	transferRepo repositories.TransferRepository,
	petRepo repositories.PetRepository,
	accountRepo repositories.AccountRepository) TransferService {
	return &transferService{
		transferRepo: transferRepo,
		petRepo:      petRepo,
		accountRepo:  accountRepo,
	}
}

func (s *transferService) CreateTransfer(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID, recipientEmail string) (*db_models.TransferRequest, error) {

	pet, err := s.petRepo.FindByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	// Non-owners get the same 404 as a missing pet.
	if pet == nil || pet.OwnerUserID != ownerID {
		return nil, utils.ErrPetNotFound
	}

	recipient, err := s.accountRepo.FindByEmail(ctx, recipientEmail)
	if err != nil {
		return nil, err
	}
	if recipient == nil || !recipient.Eligible() {
		return nil, utils.ErrRecipientNotEligible
	}
	if recipient.ID == ownerID {
		return nil, utils.ErrSelfTransfer
	}

	transfer := &db_models.TransferRequest{
		PetID:      pet.ID,
		FromUserID: ownerID,
		ToUserID:   recipient.ID,
	}

	// The pending-unique index closes the race between two simultaneous
	// creations; no pre-check needed.
	if err := s.transferRepo.CreatePending(ctx, transfer); err != nil {
		return nil, err
	}

	return transfer, nil
}

func (s *transferService) RejectTransfer(ctx context.Context, userID uuid.UUID, transferID uuid.UUID) error {
	transfer, err := s.loadForRecipient(ctx, userID, transferID)
	if err != nil {
		return err
	}
	return s.transferRepo.Reject(ctx, transfer.ID)
}

func (s *transferService) AcceptTransfer(ctx context.Context, userID uuid.UUID, transferID uuid.UUID) error {
	if _, err := s.loadForRecipient(ctx, userID, transferID); err != nil {
		return err
	}
	return utils.ErrTransferNeedsPayment
}

func (s *transferService) ListTransfers(ctx context.Context, userID uuid.UUID) ([]db_models.TransferRequest, error) {
	return s.transferRepo.ListByUser(ctx, userID)
}

func (s *transferService) loadForRecipient(ctx context.Context, userID uuid.UUID, transferID uuid.UUID) (*db_models.TransferRequest, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, utils.ErrTransferNotFound
	}
	if transfer.ToUserID != userID {
		return nil, utils.ErrNotTransferRecipient
	}
	if !transfer.Pending() {
		return nil, utils.ErrTransferNotPending
	}
	return transfer, nil
}
