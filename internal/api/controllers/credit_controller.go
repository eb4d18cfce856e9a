package controllers

import (
	"github.com/gin-gonic/gin"
	"net/http"

	"petregistry/internal/models/request_models"
	"petregistry/internal/models/response_models"
	"petregistry/internal/services"
	"petregistry/pkg/utils"
)

type CreditController struct {
	creditService services.CreditService
}

func NewCreditController(creditService services.CreditService) *CreditController {
	return &CreditController{
		creditService: creditService,
	}
}

// GetCredits godoc
// @Summary Get available registration credits
// @Description Number of unconsumed registration credits for the caller
// @Tags Credits
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /credits [get]
func (ct *CreditController) GetCredits(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := ct.creditService.CountAvailable(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.CreditBalanceResponse{Credits: count}, "Credits fetched")
}

// RedeemPromo godoc
// @Summary Redeem a promo code for a free registration credit
// @Tags Credits
// @Accept json
// @Produce json
// @Param request body request_models.RedeemPromoRequest true "Promo payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /credits/redeem-promo [post]
func (ct *CreditController) RedeemPromo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.RedeemPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	count, err := ct.creditService.RedeemPromo(c.Request.Context(), userID, req.Code)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.CreditBalanceResponse{Credits: count}, "Promo code redeemed")
}
