package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"net/http"

	"petregistry/internal/models/request_models"
	"petregistry/internal/models/response_models"
	"petregistry/internal/services"
	"petregistry/pkg/utils"
)

type PetController struct {
	petService      services.PetService
	transferService services.TransferService
}

func NewPetController(petService services.PetService, transferService services.TransferService) *PetController {
	return &PetController{
		petService:      petService,
		transferService: transferService,
	}
}

// RegisterPet godoc
// @Summary Register a microchipped pet
// @Description Consumes one registration credit and creates the pet
// @Tags Pets
// @Accept json
// @Produce json
// @Param request body request_models.RegisterPetRequest true "Pet payload"
// @Success 201 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /pets [post]
func (p *PetController) RegisterPet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.RegisterPetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	pet, err := p.petService.RegisterPet(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, response_models.PetFromModel(pet), "Pet registered")
}

// ListPets godoc
// @Summary List the caller's pets
// @Tags Pets
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /pets [get]
func (p *PetController) ListPets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	pets, err := p.petService.ListPets(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	out := make([]response_models.PetResponse, 0, len(pets))
	for i := range pets {
		out = append(out, response_models.PetFromModel(&pets[i]))
	}
	utils.RespondSuccess(c, out, "Pets fetched")
}

// GetPet godoc
// @Summary Get a pet by id
// @Tags Pets
// @Produce json
// @Param id path string true "Pet id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /pets/{id} [get]
func (p *PetController) GetPet(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, "Pet not found")
		return
	}

	pet, err := p.petService.GetPet(c.Request.Context(), petID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.PetFromModel(pet), "Pet fetched")
}

// CreateTransfer godoc
// @Summary Open an ownership transfer for a pet
// @Tags Transfers
// @Accept json
// @Produce json
// @Param id path string true "Pet id"
// @Param request body request_models.CreateTransferRequest true "Transfer payload"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /pets/{id}/transfer [post]
func (p *PetController) CreateTransfer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, "Pet not found")
		return
	}

	var req request_models.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	transfer, err := p.transferService.CreateTransfer(c.Request.Context(), userID, petID, req.RecipientEmail)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"transferId": transfer.ID}, "Transfer request created")
}
