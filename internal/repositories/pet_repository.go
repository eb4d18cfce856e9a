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

type PetRepository interface {
	// CreateWithCredit consumes the caller's oldest available credit and
	// creates the pet, atomically. utils.ErrPaymentRequired when no credit
	// is available (nothing written), utils.ErrDuplicateChip on a chip
	// collision (credit not consumed).
	CreateWithCredit(ctx context.Context, pet *db_models.Pet) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Pet, error)
	FindByChipNumber(ctx context.Context, chipNumber string) (*db_models.Pet, error)
	ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]db_models.Pet, error)
}

type petRepository struct {
	db *gorm.DB
}

func NewPetRepository(db *gorm.DB) PetRepository {
	return &petRepository{
		db: db,
	}
}

func (r *petRepository) CreateWithCredit(ctx context.Context, pet *db_models.Pet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var credit db_models.RegistrationCredit

		// Oldest available credit first, row-locked so two concurrent
		// registrations cannot consume the same credit.
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_user_id = ? AND status = ?", pet.OwnerUserID, db_models.CreditStatusAvailable).
			Order("created_at ASC, id ASC").
			First(&credit).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrPaymentRequired
			}
			return err
		}

		if err := tx.Create(pet).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ErrDuplicateChip
			}
			return err
		}

		return tx.Model(&credit).Updates(map[string]interface{}{
			"status":             db_models.CreditStatusConsumed,
			"consumed_by_pet_id": pet.ID,
		}).Error
	})
}

func (r *petRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Pet, error) {
	var pet db_models.Pet
	err := r.db.WithContext(ctx).First(&pet, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &pet, nil
}

func (r *petRepository) FindByChipNumber(ctx context.Context, chipNumber string) (*db_models.Pet, error) {
	var pet db_models.Pet
	err := r.db.WithContext(ctx).First(&pet, "chip_number = ?", chipNumber).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &pet, nil
}

func (r *petRepository) ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]db_models.Pet, error) {
	var pets []db_models.Pet
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at ASC").
		Find(&pets).Error
	return pets, err
}
