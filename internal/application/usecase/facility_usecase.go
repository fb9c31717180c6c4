package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/petcare-pos/internal/application/dto"
	"github.com/tu-usuario/petcare-pos/internal/domain"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
)

// FacilityUseCase administración de sedes (tenants).
type FacilityUseCase struct {
	facilityRepo repository.FacilityRepository
}

// NewFacilityUseCase construye el caso de uso.
func NewFacilityUseCase(facilityRepo repository.FacilityRepository) *FacilityUseCase {
	return &FacilityUseCase{facilityRepo: facilityRepo}
}

// Create registra una nueva facility.
func (uc *FacilityUseCase) Create(ctx context.Context, in dto.CreateFacilityRequest) (*dto.FacilityResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	facility := &entity.Facility{
		ID:        uuid.New().String(),
		Name:      in.Name,
		LegalName: in.LegalName,
		TaxID:     in.TaxID,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Timezone:  in.Timezone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.facilityRepo.Create(facility); err != nil {
		return nil, err
	}
	return toFacilityResponse(facility), nil
}

// GetByID obtiene una facility.
func (uc *FacilityUseCase) GetByID(ctx context.Context, id string) (*dto.FacilityResponse, error) {
	facility, err := uc.facilityRepo.GetByID(id)
	if err != nil || facility == nil {
		return nil, domain.ErrNotFound
	}
	return toFacilityResponse(facility), nil
}

// List lista facilities.
func (uc *FacilityUseCase) List(ctx context.Context, limit, offset int) ([]dto.FacilityResponse, error) {
	list, err := uc.facilityRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FacilityResponse, 0, len(list))
	for _, f := range list {
		out = append(out, *toFacilityResponse(f))
	}
	return out, nil
}

func toFacilityResponse(f *entity.Facility) *dto.FacilityResponse {
	return &dto.FacilityResponse{
		ID:       f.ID,
		Name:     f.Name,
		TaxID:    f.TaxID,
		Address:  f.Address,
		Phone:    f.Phone,
		Timezone: f.Timezone,
	}
}
