package request_models

type RegisterPetRequest struct {
	Name       string `json:"name" binding:"required"`
	Species    string `json:"species" binding:"required"`
	Breed      string `json:"breed"`
	ChipNumber string `json:"chip_number" binding:"required"`
}

type CreateTransferRequest struct {
	RecipientEmail string `json:"recipient_email" binding:"required,email"`
}

type ResolveTransferRequest struct {
	// "accept" or "reject"
	Action string `json:"action" binding:"required"`
}
