package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"petregistry/internal/models/db_models"
	"petregistry/pkg/utils"
)

type PromoRepository interface {
	// Redeem increments the usage counter and mints the credit as one
	// transaction; a partially-applied redemption can never be observed.
	// The code must already be normalized by the caller.
	Redeem(ctx context.Context, code string, credit *db_models.RegistrationCredit) (int64, error)
	Insert(ctx context.Context, promo *db_models.PromoCode) error
}

type promoRepository struct {
	db *gorm.DB
}

func NewPromoRepository(db *gorm.DB) PromoRepository {
	return &promoRepository{
		db: db,
	}
}

func (r *promoRepository) Redeem(ctx context.Context, code string, credit *db_models.RegistrationCredit) (int64, error) {
	var newUsedCount int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var promo db_models.PromoCode

		// Row lock so two racing redemptions serialize on the counter.
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&promo, "code = ?", code).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrPromoNotFound
			}
			return err
		}

		if promo.Exhausted() {
			return utils.ErrPromoLimitReached
		}

		newUsedCount = promo.UsedCount + 1
		if err := tx.Model(&promo).Update("used_count", newUsedCount).Error; err != nil {
			return err
		}

		if err := tx.Create(credit).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ErrDuplicateReference
			}
			return err
		}

		return nil
	})

	if err != nil {
		return 0, err
	}
	return newUsedCount, nil
}

func (r *promoRepository) Insert(ctx context.Context, promo *db_models.PromoCode) error {
	err := r.db.WithContext(ctx).Create(promo).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrDuplicateReference
	}
	return err
}
