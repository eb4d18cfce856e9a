package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CreditStatus string

const (
	CreditStatusAvailable CreditStatus = "available"
	CreditStatusConsumed  CreditStatus = "consumed"
)

// RegistrationCredit is one paid (or promo-granted) right to register a
// microchip. ExternalPaymentReference is the dedup key: the storage-level
// unique index on it is what collapses the two racing payment-confirmation
// paths into a single credit.
type RegistrationCredit struct {
	BaseModel
	OwnerUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	// Checkout session id for paid credits, "promo:<CODE>:<uuid>" for
	// promo-granted ones. Unique across both kinds.
	ExternalPaymentReference string `gorm:"uniqueIndex;not null"`

	AmountMinor int64
	Currency    string `gorm:"size:3"`

	// A credit is available until it is consumed; consumption is terminal.
	Status          CreditStatus `gorm:"index;default:'available'"`
	ConsumedByPetID *uuid.UUID   `gorm:"type:uuid"`

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Owner Account `gorm:"foreignKey:OwnerUserID"`
}

func (c *RegistrationCredit) Available() bool {
	return c.Status == CreditStatusAvailable
}
