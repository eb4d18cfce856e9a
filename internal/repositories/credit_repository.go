package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"petregistry/internal/models/db_models"
	"petregistry/pkg/utils"
)

// CreditRepository is the durable credit ledger. There is no in-process
// locking anywhere above it: the unique index on external_payment_reference
// is the dedup primitive every confirmation path relies on.
type CreditRepository interface {
	CountAvailable(ctx context.Context, userID uuid.UUID) (int64, error)
	// Insert returns utils.ErrDuplicateReference when the payment reference
	// already minted a credit. Callers treat that as success.
	Insert(ctx context.Context, credit *db_models.RegistrationCredit) error
}

type creditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{
		db: db,
	}
}

func (r *creditRepository) CountAvailable(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.RegistrationCredit{}).
		Where("owner_user_id = ? AND status = ?", userID, db_models.CreditStatusAvailable).
		Count(&count).Error
	return count, err
}

func (r *creditRepository) Insert(ctx context.Context, credit *db_models.RegistrationCredit) error {
	err := r.db.WithContext(ctx).Create(credit).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrDuplicateReference
	}
	return err
}
