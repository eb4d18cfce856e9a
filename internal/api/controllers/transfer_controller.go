package controllers

import (
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"net/http"

	"petregistry/internal/models/request_models"
	"petregistry/internal/models/response_models"
	"petregistry/internal/services"
	"petregistry/pkg/utils"
)

type TransferController struct {
	transferService services.TransferService
}

func NewTransferController(transferService services.TransferService) *TransferController {
	return &TransferController{
		transferService: transferService,
	}
}

// ListTransfers godoc
// @Summary List transfer requests involving the caller
// @Tags Transfers
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /transfers [get]
func (t *TransferController) ListTransfers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	transfers, err := t.transferService.ListTransfers(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	out := make([]response_models.TransferResponse, 0, len(transfers))
	for i := range transfers {
		out = append(out, response_models.TransferFromModel(&transfers[i]))
	}
	utils.RespondSuccess(c, out, "Transfers fetched")
}

// ResolveTransfer godoc
// @Summary Accept or reject a pending transfer
// @Description Reject is terminal. Accept never flips the state directly:
// @Description the response instructs the recipient to pay, and the
// @Description transition happens on payment confirmation.
// @Tags Transfers
// @Accept json
// @Produce json
// @Param id path string true "Transfer request id"
// @Param request body request_models.ResolveTransferRequest true "accept or reject"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /transfers/{id} [patch]
func (t *TransferController) ResolveTransfer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, "Transfer request not found")
		return
	}

	var req request_models.ResolveTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	switch req.Action {
	case "reject":
		if err := t.transferService.RejectTransfer(c.Request.Context(), userID, transferID); err != nil {
			utils.HandleServiceError(c, err)
			return
		}
		utils.RespondSuccess(c, nil, "Transfer rejected")

	case "accept":
		err := t.transferService.AcceptTransfer(c.Request.Context(), userID, transferID)
		if errors.Is(err, utils.ErrTransferNeedsPayment) {
			utils.RespondErrorData(c, http.StatusBadRequest,
				gin.H{"needPayment": true, "transferRequestId": transferID},
				"Acceptance requires payment")
			return
		}
		if err != nil {
			utils.HandleServiceError(c, err)
			return
		}
		// AcceptTransfer always demands payment; reaching here means the
		// service contract changed under us.
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")

	default:
		utils.RespondError(c, http.StatusBadRequest, "Action must be accept or reject")
	}
}
