package pos

import (
	"context"
	"time"

	"github.com/tu-usuario/petcare-pos/internal/application/dto"
	appinventory "github.com/tu-usuario/petcare-pos/internal/application/inventory"
	"github.com/tu-usuario/petcare-pos/internal/domain"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
)

// ReverseSaleUseCase reversa ventas: refund (devolución del cliente) y void
// (anulación por error de caja). Ambas reponen el stock con movimientos return
// por línea, en la misma transacción que el cambio de estado.
type ReverseSaleUseCase struct {
	txRunner SaleTxRunner
	saleRepo repository.SaleRepository
}

// NewReverseSaleUseCase construye el caso de uso.
func NewReverseSaleUseCase(txRunner SaleTxRunner, saleRepo repository.SaleRepository) *ReverseSaleUseCase {
	return &ReverseSaleUseCase{txRunner: txRunner, saleRepo: saleRepo}
}

// RefundSale reversa una venta completada. Solo completed -> refunded es válido;
// reversar una venta ya reversada falla con ErrConflict.
func (uc *ReverseSaleUseCase) RefundSale(ctx context.Context, facilityID, userID, saleID, reason string) (*dto.SaleResponse, error) {
	return uc.reverse(ctx, facilityID, userID, saleID, reason, entity.SaleStatusRefunded)
}

// VoidSale anula una venta completada. Solo completed -> voided es válido.
func (uc *ReverseSaleUseCase) VoidSale(ctx context.Context, facilityID, userID, saleID, reason string) (*dto.SaleResponse, error) {
	return uc.reverse(ctx, facilityID, userID, saleID, reason, entity.SaleStatusVoided)
}

func (uc *ReverseSaleUseCase) reverse(ctx context.Context, facilityID, userID, saleID, reason, newStatus string) (*dto.SaleResponse, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil || sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.FacilityID != facilityID {
		return nil, domain.ErrForbidden
	}
	if sale.Status != entity.SaleStatusCompleted {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	err = uc.txRunner.RunSale(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		saleRepo repository.SaleRepository,
	) error {
		// Movimiento return por cada línea, referenciando la venta original
		for _, it := range sale.Items {
			if _, err := appinventory.ApplyDeltaInTx(movRepo, stockRepo, appinventory.DeltaInput{
				FacilityID:    facilityID,
				ProductID:     it.ProductID,
				VariantID:     it.VariantID,
				Type:          entity.MovementTypeReturn,
				Quantity:      it.Quantity,
				Reason:        reason,
				ReferenceType: entity.ReferenceTypeSale,
				ReferenceID:   sale.ID,
				UserID:        userID,
				Now:           now,
			}); err != nil {
				return err
			}
		}
		return saleRepo.UpdateStatus(sale.ID, newStatus, now)
	})
	if err != nil {
		return nil, err
	}

	sale.Status = newStatus
	sale.UpdatedAt = now
	return toSaleResponse(sale), nil
}
