package db_models

import (
	"github.com/google/uuid"
)

// Pet ownership is reassigned only by transfer completion, never by a
// direct update.
type Pet struct {
	BaseModel
	OwnerUserID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null"`
	Species     string    `gorm:"not null"`
	Breed       string

	// ISO 11784/11785 microchip number, 15 digits, globally unique.
	ChipNumber string `gorm:"uniqueIndex;not null"`

	Owner Account `gorm:"foreignKey:OwnerUserID"`
}
