package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/petcare-pos/internal/application/dto"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
	"github.com/tu-usuario/petcare-pos/internal/domain/retail"
)

// StockQueryUseCase lecturas agregadas del inventario: stock bajo, valoración
// y consulta del ledger. Toma un snapshot del catálogo y delega el cálculo a
// los servicios puros de dominio (retail).
type StockQueryUseCase struct {
	stockRepo repository.StockRepository
	movRepo   repository.MovementRepository
}

// NewStockQueryUseCase construye el caso de uso de lecturas.
func NewStockQueryUseCase(stockRepo repository.StockRepository, movRepo repository.MovementRepository) *StockQueryUseCase {
	return &StockQueryUseCase{stockRepo: stockRepo, movRepo: movRepo}
}

// GetLowStockUnits devuelve las unidades en o bajo su mínimo. Para productos con
// variantes solo evalúa variantes; el producto padre nunca aparece.
func (uc *StockQueryUseCase) GetLowStockUnits(ctx context.Context, facilityID string) ([]dto.LowStockUnitDTO, error) {
	units, err := uc.stockRepo.ListUnitStocks(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	low := retail.LowStockUnits(units)
	out := make([]dto.LowStockUnitDTO, 0, len(low))
	for _, u := range low {
		out = append(out, dto.LowStockUnitDTO{
			ProductID:   u.ProductID,
			VariantID:   u.VariantID,
			SKU:         u.SKU,
			ProductName: u.ProductName,
			VariantDesc: u.VariantDesc,
			Stock:       u.Stock,
			MinStock:    u.MinStock,
		})
	}
	return out, nil
}

// GetInventoryValue devuelve la valoración a costo y a retail del inventario
// de la facility. Sin doble conteo: el snapshot trae variantes O producto, nunca ambos.
func (uc *StockQueryUseCase) GetInventoryValue(ctx context.Context, facilityID string) (*dto.InventoryValueResponse, error) {
	units, err := uc.stockRepo.ListUnitStocks(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	v := retail.ComputeInventoryValue(units)
	return &dto.InventoryValueResponse{Cost: v.Cost, Retail: v.Retail}, nil
}

// ListMovements lista el ledger de la facility, opcionalmente filtrado por unidad y fechas.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, facilityID, productID, variantID string, from, to *time.Time, limit, offset int) ([]dto.MovementResponse, error) {
	list, err := func() ([]*entity.InventoryMovement, error) {
		if productID != "" {
			return uc.movRepo.ListByUnit(facilityID, productID, variantID, from, to, limit, offset)
		}
		return uc.movRepo.ListByFacility(facilityID, from, to, limit, offset)
	}()
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:            m.ID,
			ProductID:     m.ProductID,
			VariantID:     m.VariantID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			PreviousStock: m.PreviousStock,
			NewStock:      m.NewStock,
			Reason:        m.Reason,
			ReferenceType: m.ReferenceType,
			ReferenceID:   m.ReferenceID,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
			CreatedBy:     m.CreatedBy,
		})
	}
	return out, nil
}
