package pos

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

// CreateSaleUseCase registra una venta POS y descuenta el inventario en una sola
// transacción: por cada línea un movimiento sale (con verificación de stock bajo
// bloqueo de fila), el consecutivo diario TXN-YYYYMMDD-NNN y la persistencia de
// la venta con ítems y pagos.
type CreateSaleUseCase struct {
	txRunner    SaleTxRunner
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner SaleTxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:    txRunner,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// resolvedLine línea del carrito con snapshot de catálogo ya resuelto.
type resolvedLine struct {
	product   *entity.Product
	variant   *entity.ProductVariant
	quantity  decimal.Decimal
	unitPrice decimal.Decimal
	discount  decimal.Decimal
	taxRate   decimal.Decimal
	lineTotal decimal.Decimal
}

// CreateSale valida carrito y pagos, y persiste la venta de forma atómica.
// Si cualquier línea dejaría stock negativo, toda la venta se revierte con
// ErrInsufficientStock. Si la suma de pagos no es exactamente el total,
// falla con ErrPaymentMismatch antes de abrir la transacción.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, facilityID, cashierID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 || len(in.Payments) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Resolver unidades y precios (solo lectura, fuera de la tx)
	lines := make([]resolvedLine, 0, len(in.Items))
	for _, item := range in.Items {
		line, err := uc.resolveLine(facilityID, item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	// Totales: Subtotal - DiscountTotal + TaxTotal = Total (redondeo a 2 decimales)
	subtotal, discountTotal, taxTotal := decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range lines {
		gross := l.quantity.Mul(l.unitPrice)
		subtotal = subtotal.Add(gross)
		discountTotal = discountTotal.Add(l.discount)
		taxTotal = taxTotal.Add(l.lineTotal.Mul(l.taxRate))
	}
	subtotal = subtotal.Round(2)
	discountTotal = discountTotal.Round(2)
	taxTotal = taxTotal.Round(2)
	total := subtotal.Sub(discountTotal).Add(taxTotal)

	// La suma de pagos debe ser exactamente el total
	paid := decimal.Zero
	for _, p := range in.Payments {
		if !p.Amount.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		paid = paid.Add(p.Amount)
	}
	if !paid.Round(2).Equal(total) {
		return nil, domain.ErrPaymentMismatch
	}

	now := time.Now()
	saleID := uuid.New().String()
	sale := &entity.Sale{
		ID:            saleID,
		FacilityID:    facilityID,
		Subtotal:      subtotal,
		DiscountTotal: discountTotal,
		TaxTotal:      taxTotal,
		Total:         total,
		CustomerName:  in.CustomerName,
		CashierID:     cashierID,
		Status:        entity.SaleStatusCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, l := range lines {
		variantID := ""
		desc := l.product.Name
		if l.variant != nil {
			variantID = l.variant.ID
			desc = l.product.Name + " " + l.variant.VariantValue
		}
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:          uuid.New().String(),
			SaleID:      saleID,
			ProductID:   l.product.ID,
			VariantID:   variantID,
			Description: desc,
			Quantity:    l.quantity,
			UnitPrice:   l.unitPrice,
			Discount:    l.discount,
			TaxRate:     l.taxRate,
			LineTotal:   l.lineTotal,
		})
	}
	for _, p := range in.Payments {
		sale.Payments = append(sale.Payments, entity.Payment{
			ID:     uuid.New().String(),
			SaleID: saleID,
			Method: p.Method,
			Amount: p.Amount,
		})
	}

	err := uc.txRunner.RunSale(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		saleRepo repository.SaleRepository,
	) error {
		// 1) Un movimiento sale por línea. Los bloqueos de fila serializan las ventas
		// concurrentes del mismo SKU; sin stock suficiente se revierte todo.
		for _, it := range sale.Items {
			if _, err := appinventory.ApplyDeltaInTx(movRepo, stockRepo, appinventory.DeltaInput{
				FacilityID:    facilityID,
				ProductID:     it.ProductID,
				VariantID:     it.VariantID,
				Type:          entity.MovementTypeSale,
				Quantity:      it.Quantity.Neg(),
				Reason:        "venta POS",
				ReferenceType: entity.ReferenceTypeSale,
				ReferenceID:   saleID,
				UserID:        cashierID,
				Now:           now,
			}); err != nil {
				return err
			}
		}

		// 2) Consecutivo diario bajo el candado de secuencia. Los bloqueos de fila
		// del paso 1 solo serializan ventas que comparten SKU; dos carritos
		// disjuntos necesitan este candado para no leer el mismo conteo.
		if err := saleRepo.LockDailySequence(facilityID, now); err != nil {
			return err
		}
		dayStart, dayEnd := retail.DayRange(now)
		count, err := saleRepo.CountByDateRange(facilityID, dayStart, dayEnd)
		if err != nil {
			return err
		}
		sale.Number = retail.FormatSaleNumber(now, count+1)

		// 3) Persistir venta + ítems + pagos
		return saleRepo.Create(sale)
	})
	if err != nil {
		return nil, err
	}

	return toSaleResponse(sale), nil
}

// resolveLine valida la línea contra el catálogo y congela precio/impuesto.
func (uc *CreateSaleUseCase) resolveLine(facilityID string, item dto.SaleItemRequest) (resolvedLine, error) {
	var line resolvedLine
	if item.ProductID == "" || !item.Quantity.GreaterThan(decimal.Zero) {
		return line, domain.ErrInvalidInput
	}
	if item.Discount.LessThan(decimal.Zero) {
		return line, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(item.ProductID)
	if err != nil || product == nil {
		return line, domain.ErrNotFound
	}
	if product.FacilityID != facilityID {
		return line, domain.ErrForbidden
	}
	if !product.IsSellable() {
		return line, domain.ErrInvalidInput
	}

	price := product.Price
	var variant *entity.ProductVariant
	if product.HasVariants {
		if item.VariantID == "" {
			return line, domain.ErrInvalidInput
		}
		variant, err = uc.variantRepo.GetByID(item.VariantID)
		if err != nil || variant == nil {
			return line, domain.ErrNotFound
		}
		if variant.ProductID != product.ID {
			return line, domain.ErrInvalidInput
		}
		if variant.Status != entity.ProductStatusActive {
			return line, domain.ErrInvalidInput
		}
		price = variant.Price
	} else if item.VariantID != "" {
		return line, domain.ErrInvalidInput
	}

	if item.UnitPrice != nil {
		if item.UnitPrice.LessThan(decimal.Zero) {
			return line, domain.ErrInvalidInput
		}
		if !item.UnitPrice.IsZero() {
			price = *item.UnitPrice
		}
	}

	taxRate := decimal.Zero
	if product.Taxable {
		taxRate = product.TaxRate
	}

	lineTotal := item.Quantity.Mul(price).Sub(item.Discount)
	if lineTotal.LessThan(decimal.Zero) {
		return line, domain.ErrInvalidInput
	}

	return resolvedLine{
		product:   product,
		variant:   variant,
		quantity:  item.Quantity,
		unitPrice: price,
		discount:  item.Discount,
		taxRate:   taxRate,
		lineTotal: lineTotal,
	}, nil
}

// GetSale obtiene una venta por ID con ítems y pagos.
func (uc *CreateSaleUseCase) GetSale(ctx context.Context, facilityID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil || sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.FacilityID != facilityID {
		return nil, domain.ErrForbidden
	}
	return toSaleResponse(sale), nil
}

// ListSales lista ventas de la facility por rango de fechas.
func (uc *CreateSaleUseCase) ListSales(ctx context.Context, facilityID string, from, to *time.Time, limit, offset int) ([]dto.SaleResponse, error) {
	sales, err := uc.saleRepo.ListByFacility(facilityID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, *toSaleResponse(s))
	}
	return out, nil
}

func toSaleResponse(sale *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            sale.ID,
		Number:        sale.Number,
		Subtotal:      sale.Subtotal,
		DiscountTotal: sale.DiscountTotal,
		TaxTotal:      sale.TaxTotal,
		Total:         sale.Total,
		CustomerName:  sale.CustomerName,
		CashierID:     sale.CashierID,
		Status:        sale.Status,
		CreatedAt:     sale.CreatedAt.Format(time.RFC3339),
	}
	for _, it := range sale.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			TaxRate:     it.TaxRate,
			LineTotal:   it.LineTotal,
		})
	}
	for _, p := range sale.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{Method: p.Method, Amount: p.Amount})
	}
	return resp
}
