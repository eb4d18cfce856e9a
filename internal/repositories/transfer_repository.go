package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"petregistry/internal/models/db_models"
	"petregistry/pkg/utils"
)

// errAlreadySettled aborts the completion transaction when the other
// confirmation path won the race. It never leaves this package; callers see
// a clean no-op.
var errAlreadySettled = errors.New("transfer already settled")

type TransferRepository interface {
	// CreatePending relies on the pending-only unique index per pet;
	// a second pending request comes back as utils.ErrTransferAlreadyPending.
	CreatePending(ctx context.Context, transfer *db_models.TransferRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.TransferRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.TransferRequest, error)
	HasPayment(ctx context.Context, transferRequestID uuid.UUID) (bool, error)
	// Reject flips pending → rejected; utils.ErrTransferNotPending if the
	// request has already left the pending state.
	Reject(ctx context.Context, id uuid.UUID) error
	// Complete records the payment, accepts the request and reassigns the
	// pet, as one transaction. Every already-settled shape (not pending,
	// payment row exists, payment reference collides) is a successful no-op
	// that writes nothing.
	Complete(ctx context.Context, payment *db_models.TransferPayment) error
}

type transferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) TransferRepository {
	return &transferRepository{
		db: db,
	}
}

func (r *transferRepository) CreatePending(ctx context.Context, transfer *db_models.TransferRequest) error {
	transfer.Status = db_models.TransferStatusPending
	err := r.db.WithContext(ctx).Create(transfer).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrTransferAlreadyPending
	}
	return err
}

func (r *transferRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.TransferRequest, error) {
	var transfer db_models.TransferRequest
	err := r.db.WithContext(ctx).First(&transfer, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &transfer, nil
}

func (r *transferRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.TransferRequest, error) {
	var transfers []db_models.TransferRequest
	err := r.db.WithContext(ctx).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&transfers).Error
	return transfers, err
}

func (r *transferRepository) HasPayment(ctx context.Context, transferRequestID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.TransferPayment{}).
		Where("transfer_request_id = ?", transferRequestID).
		Count(&count).Error
	return count > 0, err
}

func (r *transferRepository) Reject(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&db_models.TransferRequest{}).
		Where("id = ? AND status = ?", id, db_models.TransferStatusPending).
		Update("status", db_models.TransferStatusRejected)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrTransferNotPending
	}
	return nil
}

func (r *transferRepository) Complete(ctx context.Context, payment *db_models.TransferPayment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var transfer db_models.TransferRequest

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&transfer, "id = ?", payment.TransferRequestID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrTransferNotFound
			}
			return err
		}

		if !transfer.Pending() {
			return errAlreadySettled
		}

		if err := tx.Create(payment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadySettled
			}
			return err
		}

		err = tx.Model(&db_models.TransferRequest{}).
			Where("id = ?", transfer.ID).
			Update("status", db_models.TransferStatusAccepted).Error
		if err != nil {
			return err
		}

		return tx.Model(&db_models.Pet{}).
			Where("id = ?", transfer.PetID).
			Update("owner_user_id", transfer.ToUserID).Error
	})

	if errors.Is(err, errAlreadySettled) {
		return nil
	}
	return err
}
