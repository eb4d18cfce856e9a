package response_models

type CreateCheckoutResponse struct {
	URL string `json:"url"`
}

type ConfirmRegistrationResponse struct {
	Credited bool  `json:"credited"`
	Credits  int64 `json:"credits"`
}

type ConfirmTransferResponse struct {
	Completed bool `json:"completed"`
}

type CreditBalanceResponse struct {
	Credits int64 `json:"credits"`
}
