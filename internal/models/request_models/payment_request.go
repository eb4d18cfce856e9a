package request_models

type RedeemPromoRequest struct {
	Code string `json:"code" binding:"required"`
}

type CreateTransferCheckoutRequest struct {
	TransferRequestID string `json:"transfer_request_id" binding:"required,uuid"`
}
