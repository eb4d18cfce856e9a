package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"petregistry/internal/models/db_models"
	"petregistry/internal/repositories"
)

type CreditService interface {
	CountAvailable(ctx context.Context, userID uuid.UUID) (int64, error)
	// RedeemPromo mints a free credit from a promo code and returns the
	// caller's new available-credit count.
	RedeemPromo(ctx context.Context, userID uuid.UUID, code string) (int64, error)
}

type creditService struct {
	creditRepo repositories.CreditRepository
	promoRepo  repositories.PromoRepository
}

func NewCreditService(creditRepo repositories.CreditRepository, promoRepo repositories.PromoRepository) CreditService {
	return &creditService{
		creditRepo: creditRepo,
		promoRepo:  promoRepo,
	}
}

func (s *creditService) CountAvailable(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.creditRepo.CountAvailable(ctx, userID)
}

func (s *creditService) RedeemPromo(ctx context.Context, userID uuid.UUID, code string) (int64, error) {
	normalized := NormalizePromoCode(code)

	// Synthetic reference keeps promo credits inside the same dedup
	// machinery as paid ones, no external payment needed.
	credit := &db_models.RegistrationCredit{
		OwnerUserID:              userID,
		ExternalPaymentReference: fmt.Sprintf("promo:%s:%s", normalized, uuid.New()),
		AmountMinor:              0,
		Currency:                 "",
		Status:                   db_models.CreditStatusAvailable,
		Metadata:                 jsonRaw(map[string]string{"promo_code": normalized}),
	}

	if _, err := s.promoRepo.Redeem(ctx, normalized, credit); err != nil {
		return 0, err
	}

	return s.creditRepo.CountAvailable(ctx, userID)
}

func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
