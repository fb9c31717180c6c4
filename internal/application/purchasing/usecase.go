package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/petcare-pos/internal/application/dto"
	appinventory "github.com/tu-usuario/petcare-pos/internal/application/inventory"
	"github.com/tu-usuario/petcare-pos/internal/domain"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
	"github.com/tu-usuario/petcare-pos/internal/domain/retail"
)

// PurchaseOrderUseCase maneja el ciclo de vida de órdenes de compra:
// creación, transiciones de estado y recepción de mercadería. Recibir es el
// único camino que genera movimientos purchase en el ledger.
type PurchaseOrderUseCase struct {
	txRunner     PurchaseTxRunner
	poRepo       repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	variantRepo  repository.VariantRepository
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(
	txRunner PurchaseTxRunner,
	poRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{
		txRunner:     txRunner,
		poRepo:       poRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		variantRepo:  variantRepo,
	}
}

// CreatePurchaseOrder crea la orden en estado pending con número PO-YYYYMMDD-NNN.
// No toca el inventario: el stock solo cambia al recibir.
func (uc *PurchaseOrderUseCase) CreatePurchaseOrder(ctx context.Context, facilityID, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil || supplier == nil {
		return nil, domain.ErrNotFound
	}
	if supplier.FacilityID != facilityID {
		return nil, domain.ErrForbidden
	}

	var expectedDate *time.Time
	if in.ExpectedDate != "" {
		d, err := time.Parse("2006-01-02", in.ExpectedDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		expectedDate = &d
	}

	now := time.Now()
	poID := uuid.New().String()
	order := &entity.PurchaseOrder{
		ID:           poID,
		FacilityID:   facilityID,
		SupplierID:   in.SupplierID,
		Status:       entity.PurchaseOrderStatusPending,
		Subtotal:     decimal.Zero,
		ExpectedDate: expectedDate,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    userID,
	}
	for _, item := range in.Items {
		if !item.Quantity.GreaterThan(decimal.Zero) || item.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if err := uc.validateUnit(facilityID, item.ProductID, item.VariantID); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, entity.PurchaseOrderItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: poID,
			ProductID:       item.ProductID,
			VariantID:       item.VariantID,
			Quantity:        item.Quantity,
			UnitCost:        item.UnitCost,
		})
		order.Subtotal = order.Subtotal.Add(item.Quantity.Mul(item.UnitCost))
	}
	order.Subtotal = order.Subtotal.Round(2)

	// Numerar y persistir dentro de una transacción: el candado diario serializa
	// el conteo, sin él dos órdenes concurrentes leerían el mismo consecutivo.
	err = uc.txRunner.RunPurchase(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockRepository,
		poRepo repository.PurchaseOrderRepository,
	) error {
		if err := poRepo.LockDailySequence(facilityID, now); err != nil {
			return err
		}
		dayStart, dayEnd := retail.DayRange(now)
		count, err := poRepo.CountByDateRange(facilityID, dayStart, dayEnd)
		if err != nil {
			return err
		}
		order.Number = retail.FormatPurchaseOrderNumber(now, count+1)
		return poRepo.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(order), nil
}

// MarkOrdered transiciona pending -> ordered.
func (uc *PurchaseOrderUseCase) MarkOrdered(ctx context.Context, facilityID, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, facilityID, id, entity.PurchaseOrderStatusOrdered, []string{entity.PurchaseOrderStatusPending})
}

// MarkShipped transiciona ordered -> shipped.
func (uc *PurchaseOrderUseCase) MarkShipped(ctx context.Context, facilityID, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, facilityID, id, entity.PurchaseOrderStatusShipped, []string{entity.PurchaseOrderStatusOrdered})
}

// Cancel cancela la orden. Una orden received ya movió inventario y no se cancela.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, facilityID, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, facilityID, id, entity.PurchaseOrderStatusCancelled, []string{
		entity.PurchaseOrderStatusPending,
		entity.PurchaseOrderStatusOrdered,
		entity.PurchaseOrderStatusShipped,
	})
}

func (uc *PurchaseOrderUseCase) transition(ctx context.Context, facilityID, id, newStatus string, validFrom []string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.getOwned(facilityID, id)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, s := range validFrom {
		if order.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, domain.ErrConflict
	}
	now := time.Now()
	if err := uc.poRepo.UpdateStatus(order.ID, newStatus, now); err != nil {
		return nil, err
	}
	order.Status = newStatus
	order.UpdatedAt = now
	return toPurchaseOrderResponse(order), nil
}

// ReceivePurchaseOrder registra una recepción (parcial o total) de mercadería:
// acumula cantidades recibidas, genera un movimiento purchase por ítem recibido
// y, solo cuando toda la orden está reconciliada, la pasa a received. Todo en
// una transacción: o entra toda la recepción o no entra nada.
func (uc *PurchaseOrderUseCase) ReceivePurchaseOrder(ctx context.Context, facilityID, userID, id string, in dto.ReceivePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.getOwned(facilityID, id)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case entity.PurchaseOrderStatusOrdered, entity.PurchaseOrderStatusShipped:
		// se puede recibir
	default:
		return nil, domain.ErrConflict
	}

	// Validar cada línea contra la orden: el ítem existe y lo acumulado no supera
	// lo pedido. El acumulado incluye las líneas repetidas de la misma petición:
	// dos líneas del mismo ítem se validan por su suma, no una a una.
	itemsByID := make(map[string]*entity.PurchaseOrderItem, len(order.Items))
	for i := range order.Items {
		itemsByID[order.Items[i].ID] = &order.Items[i]
	}
	requested := make(map[string]decimal.Decimal, len(in.Items))
	for _, rec := range in.Items {
		item, ok := itemsByID[rec.ItemID]
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		if !rec.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		total := requested[rec.ItemID].Add(rec.Quantity)
		if item.ReceivedQuantity.Add(total).GreaterThan(item.Quantity) {
			return nil, domain.ErrInvalidInput
		}
		requested[rec.ItemID] = total
	}

	now := time.Now()
	err = uc.txRunner.RunPurchase(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		poRepo repository.PurchaseOrderRepository,
	) error {
		for _, rec := range in.Items {
			item := itemsByID[rec.ItemID]
			if _, err := appinventory.ApplyDeltaInTx(movRepo, stockRepo, appinventory.DeltaInput{
				FacilityID:    facilityID,
				ProductID:     item.ProductID,
				VariantID:     item.VariantID,
				Type:          entity.MovementTypePurchase,
				Quantity:      rec.Quantity,
				Reason:        "recepción orden " + order.Number,
				ReferenceType: entity.ReferenceTypePurchaseOrder,
				ReferenceID:   order.ID,
				UserID:        userID,
				Now:           now,
			}); err != nil {
				return err
			}
			item.ReceivedQuantity = item.ReceivedQuantity.Add(rec.Quantity)
		}

		order.ReceivedBy = userID
		order.ReceivedAt = &now
		order.UpdatedAt = now
		if order.FullyReceived() {
			order.Status = entity.PurchaseOrderStatusReceived
		}
		return poRepo.UpdateReceipt(order)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(order), nil
}

// GetPurchaseOrder obtiene una orden con sus ítems.
func (uc *PurchaseOrderUseCase) GetPurchaseOrder(ctx context.Context, facilityID, id string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.getOwned(facilityID, id)
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(order), nil
}

// ListPurchaseOrders lista órdenes de la facility.
func (uc *PurchaseOrderUseCase) ListPurchaseOrders(ctx context.Context, facilityID string, limit, offset int) ([]dto.PurchaseOrderResponse, error) {
	orders, err := uc.poRepo.ListByFacility(facilityID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, *toPurchaseOrderResponse(o))
	}
	return out, nil
}

func (uc *PurchaseOrderUseCase) getOwned(facilityID, id string) (*entity.PurchaseOrder, error) {
	order, err := uc.poRepo.GetByID(id)
	if err != nil || order == nil {
		return nil, domain.ErrNotFound
	}
	if order.FacilityID != facilityID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (uc *PurchaseOrderUseCase) validateUnit(facilityID, productID, variantID string) error {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	if product.FacilityID != facilityID {
		return domain.ErrForbidden
	}
	if product.HasVariants != (variantID != "") {
		return domain.ErrInvalidInput
	}
	if variantID != "" {
		variant, err := uc.variantRepo.GetByID(variantID)
		if err != nil || variant == nil {
			return domain.ErrNotFound
		}
		if variant.ProductID != product.ID {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func toPurchaseOrderResponse(order *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	resp := &dto.PurchaseOrderResponse{
		ID:         order.ID,
		Number:     order.Number,
		SupplierID: order.SupplierID,
		Status:     order.Status,
		Subtotal:   order.Subtotal,
		ReceivedBy: order.ReceivedBy,
		CreatedAt:  order.CreatedAt.Format(time.RFC3339),
	}
	if order.ExpectedDate != nil {
		resp.ExpectedDate = order.ExpectedDate.Format("2006-01-02")
	}
	if order.ReceivedAt != nil {
		resp.ReceivedAt = order.ReceivedAt.Format(time.RFC3339)
	}
	for _, it := range order.Items {
		resp.Items = append(resp.Items, dto.PurchaseOrderItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			VariantID:        it.VariantID,
			Quantity:         it.Quantity,
			ReceivedQuantity: it.ReceivedQuantity,
			UnitCost:         it.UnitCost,
		})
	}
	return resp
}
