package utils

import "errors"

var (
	// account / auth
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// credits & promo
	ErrDuplicateReference = errors.New("payment reference already recorded")
	ErrPaymentRequired    = errors.New("no registration credit available")
	ErrPromoNotFound      = errors.New("promo code not found")
	ErrPromoLimitReached  = errors.New("promo code usage limit reached")

	// pets
	ErrPetNotFound        = errors.New("pet not found")
	ErrInvalidPet         = errors.New("invalid pet attributes")
	ErrInvalidChipNumber  = errors.New("invalid chip number")
	ErrDuplicateChip      = errors.New("chip number already registered")

	// transfers
	ErrTransferNotFound       = errors.New("transfer request not found")
	ErrSelfTransfer           = errors.New("cannot transfer a pet to its current owner")
	ErrRecipientNotEligible   = errors.New("recipient account is not eligible")
	ErrTransferAlreadyPending = errors.New("pet already has a pending transfer")
	ErrNotTransferRecipient   = errors.New("caller is not the transfer recipient")
	ErrTransferNotPending     = errors.New("transfer request is not pending")
	ErrTransferNeedsPayment   = errors.New("transfer acceptance requires payment")
	ErrTransferAlreadyPaid    = errors.New("transfer already has a payment")

	// payments
	ErrProviderUnavailable   = errors.New("payment provider not configured")
	ErrSessionNotPaid        = errors.New("checkout session is not paid")
	ErrSessionOwnerMismatch  = errors.New("checkout session belongs to another account")
	ErrSessionWrongPurpose   = errors.New("checkout session has a different purpose")
	ErrInvalidWebhook        = errors.New("webhook signature or payload invalid")

	ErrDatabaseError = errors.New("database error")
)
