package utils

import (
	"errors"
	"github.com/gin-gonic/gin"
	"log"
	"net/http"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	id, _ := c.Get("trace_id")
	s, _ := id.(string)
	return s
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// RespondErrorData is for failure responses that must carry machine-readable
// structure, e.g. 402 {code: PAYMENT_REQUIRED} or the accept-needs-payment
// reply.
func RespondErrorData(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

// HandleServiceError maps service sentinels to HTTP statuses. Anything not
// listed is an unexpected fault and comes back as a bare 500.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")

	case errors.Is(err, ErrPaymentRequired):
		RespondErrorData(c, http.StatusPaymentRequired,
			gin.H{"code": "PAYMENT_REQUIRED"}, "No registration credit available")
	case errors.Is(err, ErrPromoNotFound):
		RespondError(c, http.StatusBadRequest, "Invalid promo code")
	case errors.Is(err, ErrPromoLimitReached):
		RespondError(c, http.StatusBadRequest, "Promo code usage limit reached")

	case errors.Is(err, ErrPetNotFound):
		RespondError(c, http.StatusNotFound, "Pet not found")
	case errors.Is(err, ErrInvalidPet):
		RespondError(c, http.StatusBadRequest, "Invalid pet attributes")
	case errors.Is(err, ErrInvalidChipNumber):
		RespondError(c, http.StatusBadRequest, "Chip number must be 15 digits")
	case errors.Is(err, ErrDuplicateChip):
		RespondError(c, http.StatusConflict, "Chip number already registered")

	case errors.Is(err, ErrTransferNotFound):
		RespondError(c, http.StatusNotFound, "Transfer request not found")
	case errors.Is(err, ErrSelfTransfer):
		RespondError(c, http.StatusBadRequest, "Cannot transfer a pet to yourself")
	case errors.Is(err, ErrRecipientNotEligible):
		RespondError(c, http.StatusBadRequest, "Recipient account is not eligible")
	case errors.Is(err, ErrTransferAlreadyPending):
		RespondError(c, http.StatusConflict, "Pet already has a pending transfer")
	case errors.Is(err, ErrNotTransferRecipient):
		RespondError(c, http.StatusForbidden, "Only the recipient may do this")
	case errors.Is(err, ErrTransferNotPending):
		RespondError(c, http.StatusBadRequest, "Transfer request is not pending")
	case errors.Is(err, ErrTransferAlreadyPaid):
		RespondError(c, http.StatusBadRequest, "Transfer already paid")

	case errors.Is(err, ErrProviderUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "Payment provider not configured")
	case errors.Is(err, ErrSessionNotPaid):
		RespondError(c, http.StatusBadRequest, "Checkout session not paid")
	case errors.Is(err, ErrSessionOwnerMismatch):
		RespondError(c, http.StatusForbidden, "Checkout session belongs to another account")
	case errors.Is(err, ErrSessionWrongPurpose):
		RespondError(c, http.StatusBadRequest, "Checkout session purpose mismatch")
	case errors.Is(err, ErrInvalidWebhook):
		RespondError(c, http.StatusBadRequest, "Invalid webhook")

	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
