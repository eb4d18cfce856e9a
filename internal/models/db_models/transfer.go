package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TransferStatus string

const (
	TransferStatusPending  TransferStatus = "pending"
	TransferStatusAccepted TransferStatus = "accepted"
	TransferStatusRejected TransferStatus = "rejected"
)

// TransferRequest models a pending change of ownership. The partial unique
// index keeps at most one pending request per pet, closing the race between
// two simultaneous create calls without an application-level check-then-act.
type TransferRequest struct {
	BaseModel
	PetID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uniq_pending_transfer_per_pet,where:status = 'pending'"`
	FromUserID uuid.UUID      `gorm:"type:uuid;index;not null"`
	ToUserID   uuid.UUID      `gorm:"type:uuid;index;not null"`
	Status     TransferStatus `gorm:"index;default:'pending'"`

	Pet      Pet     `gorm:"foreignKey:PetID"`
	FromUser Account `gorm:"foreignKey:FromUserID"`
	ToUser   Account `gorm:"foreignKey:ToUserID"`
}

func (t *TransferRequest) Pending() bool {
	return t.Status == TransferStatusPending
}

// TransferPayment exists iff its transfer request is accepted and the pet
// reassigned; all three facts are written in one transaction. Both unique
// indexes are load-bearing: TransferRequestID caps one payment per transfer,
// ExternalPaymentReference dedups the two confirmation paths.
type TransferPayment struct {
	BaseModel
	TransferRequestID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ExternalPaymentReference string    `gorm:"uniqueIndex;not null"`
	AmountMinor              int64
	Currency                 string `gorm:"size:3"`

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	TransferRequest TransferRequest `gorm:"foreignKey:TransferRequestID"`
}
