package response_models

import (
	"github.com/google/uuid"

	"petregistry/internal/models/db_models"
)

type PetResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerUserID uuid.UUID `json:"owner_user_id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed,omitempty"`
	ChipNumber  string    `json:"chip_number"`
	CreatedAt   int64     `json:"created_at"`
}

func PetFromModel(pet *db_models.Pet) PetResponse {
	return PetResponse{
		ID:          pet.ID,
		OwnerUserID: pet.OwnerUserID,
		Name:        pet.Name,
		Species:     pet.Species,
		Breed:       pet.Breed,
		ChipNumber:  pet.ChipNumber,
		CreatedAt:   pet.CreatedAt,
	}
}

type TransferResponse struct {
	ID         uuid.UUID `json:"id"`
	PetID      uuid.UUID `json:"pet_id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	Status     string    `json:"status"`
	CreatedAt  int64     `json:"created_at"`
	UpdatedAt  int64     `json:"updated_at"`
}

func TransferFromModel(tr *db_models.TransferRequest) TransferResponse {
	return TransferResponse{
		ID:         tr.ID,
		PetID:      tr.PetID,
		FromUserID: tr.FromUserID,
		ToUserID:   tr.ToUserID,
		Status:     string(tr.Status),
		CreatedAt:  tr.CreatedAt,
		UpdatedAt:  tr.UpdatedAt,
	}
}
