package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"io"
	"log"
	"net/http"

	"petregistry/internal/models/request_models"
	"petregistry/internal/models/response_models"
	"petregistry/internal/services"
	"petregistry/pkg/utils"
)

type PaymentController struct {
	checkoutService services.CheckoutService
}

func NewPaymentController(checkoutService services.CheckoutService) *PaymentController {
	return &PaymentController{
		checkoutService: checkoutService,
	}
}

// CreateCheckoutSession godoc
// @Summary Start a checkout for one registration credit
// @Tags Payments
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/create-checkout-session [post]
func (p *PaymentController) CreateCheckoutSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	url, err := p.checkoutService.CreateRegistrationCheckout(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.CreateCheckoutResponse{URL: url}, "Checkout session created")
}

// ConfirmSession godoc
// @Summary Confirm a registration checkout on return from the provider
// @Description The session id alone proves nothing; the provider is asked
// @Description whether the session was actually paid before any credit is
// @Description granted.
// @Tags Payments
// @Produce json
// @Param session_id query string true "Checkout session id"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/confirm-session [get]
func (p *PaymentController) ConfirmSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		utils.RespondError(c, http.StatusBadRequest, "session_id is required")
		return
	}

	credits, err := p.checkoutService.ConfirmRegistrationSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c,
		response_models.ConfirmRegistrationResponse{Credited: true, Credits: credits},
		"Registration credit confirmed")
}

// CreateTransferCheckoutSession godoc
// @Summary Start a checkout for accepting a pet transfer
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreateTransferCheckoutRequest true "Transfer checkout payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/create-transfer-checkout-session [post]
func (p *PaymentController) CreateTransferCheckoutSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.CreateTransferCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	transferID, err := uuid.Parse(req.TransferRequestID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid transfer_request_id")
		return
	}

	url, err := p.checkoutService.CreateTransferCheckout(c.Request.Context(), userID, transferID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.CreateCheckoutResponse{URL: url}, "Checkout session created")
}

// ConfirmTransferSession godoc
// @Summary Confirm a transfer checkout on return from the provider
// @Tags Payments
// @Produce json
// @Param session_id query string true "Checkout session id"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/confirm-transfer-session [get]
func (p *PaymentController) ConfirmTransferSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		utils.RespondError(c, http.StatusBadRequest, "session_id is required")
		return
	}

	err := p.checkoutService.ConfirmTransferSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.ConfirmTransferResponse{Completed: true}, "Transfer completed")
}

// HandleWebhook godoc
// @Summary Payment provider webhook
// @Description Signature-verified; duplicate deliveries are acknowledged
// @Description without effect.
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /payments/webhook [post]
func (p *PaymentController) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("webhook: reading body: %v", err)
		utils.RespondError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	err = p.checkoutService.HandleWebhookEvent(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"received": true}, "")
}
