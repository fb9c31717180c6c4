package pos

import (
	"context"

	"github.com/tu-usuario/petcare-pos/internal/domain"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
)

// ReceiptUseCase genera el recibo PDF de una venta.
type ReceiptUseCase struct {
	saleRepo     repository.SaleRepository
	facilityRepo repository.FacilityRepository
	generator    ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	facilityRepo repository.FacilityRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:     saleRepo,
		facilityRepo: facilityRepo,
		generator:    generator,
	}
}

// GetReceiptPDF devuelve los bytes del PDF del recibo de la venta.
func (uc *ReceiptUseCase) GetReceiptPDF(ctx context.Context, facilityID, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil || sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.FacilityID != facilityID {
		return nil, domain.ErrForbidden
	}
	facility, err := uc.facilityRepo.GetByID(facilityID)
	if err != nil || facility == nil {
		return nil, domain.ErrNotFound
	}
	return uc.generator.GenerateReceiptPDF(ctx, sale, facility)
}
