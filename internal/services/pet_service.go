package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"petregistry/internal/models/db_models"
	"petregistry/internal/models/request_models"
	"petregistry/internal/repositories"
	"petregistry/pkg/utils"
)

// ISO 11784/11785 microchips are 15 decimal digits.
var chipNumberPattern = regexp.MustCompile(`^[0-9]{15}$`)

type PetService interface {
	RegisterPet(ctx context.Context, userID uuid.UUID, request request_models.RegisterPetRequest) (*db_models.Pet, error)
	GetPet(ctx context.Context, petID uuid.UUID) (*db_models.Pet, error)
	ListPets(ctx context.Context, userID uuid.UUID) ([]db_models.Pet, error)
}

type petService struct {
	petRepo repositories.PetRepository
}

func NewPetService(petRepo repositories.PetRepository) PetService {
	return &petService{
		petRepo: petRepo,
	}
}

func (s *petService) RegisterPet(ctx context.Context, userID uuid.UUID, request request_models.RegisterPetRequest) (*db_models.Pet, error) {

	name := strings.TrimSpace(request.Name)
	species := strings.TrimSpace(request.Species)
	chip := strings.TrimSpace(request.ChipNumber)

	// All checks before any write, so a doomed request never consumes a
	// credit.
	if name == "" || species == "" {
		return nil, utils.ErrInvalidPet
	}
	if !chipNumberPattern.MatchString(chip) {
		return nil, utils.ErrInvalidChipNumber
	}

	existing, err := s.petRepo.FindByChipNumber(ctx, chip)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrDuplicateChip
	}

	pet := &db_models.Pet{
		OwnerUserID: userID,
		Name:        name,
		Species:     species,
		Breed:       strings.TrimSpace(request.Breed),
		ChipNumber:  chip,
	}

	// The unique chip index still guards the race two requests slipping
	// past the pre-check; the credit stays unconsumed on rollback.
	if err := s.petRepo.CreateWithCredit(ctx, pet); err != nil {
		return nil, err
	}

	return pet, nil
}

func (s *petService) GetPet(ctx context.Context, petID uuid.UUID) (*db_models.Pet, error) {
	pet, err := s.petRepo.FindByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, utils.ErrPetNotFound
	}
	return pet, nil
}

func (s *petService) ListPets(ctx context.Context, userID uuid.UUID) ([]db_models.Pet, error) {
	return s.petRepo.ListByOwner(ctx, userID)
}
