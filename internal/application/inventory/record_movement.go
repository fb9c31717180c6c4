package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/petcare-pos/internal/domain"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
)

// RecordMovementUseCase registra movimientos de inventario de forma transaccional
// (purchase, adjustment, return, transfer) con bloqueo de fila (SELECT FOR UPDATE)
// y Commit/Rollback. Las ventas (sale) solo entran por el caso de uso POS.
type RecordMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
}

// NewRecordMovementUseCase construye el caso de uso.
func NewRecordMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
) *RecordMovementUseCase {
	return &RecordMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// MovementInput entrada para registrar un movimiento.
// Para purchase/adjustment/return: ProductID (+VariantID si aplica), Type, Quantity, Reason.
// Para transfer: además ToFacilityID; el origen es la facility del usuario.
type MovementInput struct {
	FacilityID   string
	UserID       string
	ProductID    string
	VariantID    string
	Type         string
	Quantity     decimal.Decimal
	Reason       string
	ToFacilityID string
}

// RegisterMovement valida la entrada, inicia una transacción, bloquea la fila de stock
// de la unidad y aplica el delta. Un delta que dejaría el stock negativo falla con
// ErrInsufficientStock y revierte todo.
func (uc *RecordMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.InventoryMovement, error) {
	switch input.Type {
	case entity.MovementTypePurchase, entity.MovementTypeReturn:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementTypeAdjustment:
		if input.Quantity.IsZero() {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementTypeTransfer:
		if input.ToFacilityID == "" || input.ToFacilityID == input.FacilityID || !input.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	default:
		// sale no se registra por aquí
		return nil, domain.ErrInvalidInput
	}
	if input.ProductID == "" || input.Reason == "" {
		return nil, domain.ErrInvalidInput
	}

	product, variant, err := uc.resolveUnit(input.FacilityID, input.ProductID, input.VariantID)
	if err != nil {
		return nil, err
	}

	if input.Type == entity.MovementTypeTransfer {
		return uc.doTransfer(ctx, product, variant, input)
	}

	now := time.Now()
	var mov *entity.InventoryMovement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
	) error {
		var txErr error
		mov, txErr = ApplyDeltaInTx(movRepo, stockRepo, DeltaInput{
			FacilityID:    input.FacilityID,
			ProductID:     input.ProductID,
			VariantID:     input.VariantID,
			Type:          input.Type,
			Quantity:      input.Quantity,
			Reason:        input.Reason,
			ReferenceType: entity.ReferenceTypeManual,
			UserID:        input.UserID,
			Now:           now,
		})
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// resolveUnit valida que el producto exista, pertenezca a la facility y que la variante
// (si se indica) pertenezca al producto. Un producto con variantes exige VariantID.
func (uc *RecordMovementUseCase) resolveUnit(facilityID, productID, variantID string) (*entity.Product, *entity.ProductVariant, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return nil, nil, domain.ErrNotFound
	}
	if product.FacilityID != facilityID {
		return nil, nil, domain.ErrForbidden
	}
	if product.HasVariants && variantID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if !product.HasVariants && variantID != "" {
		return nil, nil, domain.ErrInvalidInput
	}
	var variant *entity.ProductVariant
	if variantID != "" {
		variant, err = uc.variantRepo.GetByID(variantID)
		if err != nil || variant == nil {
			return nil, nil, domain.ErrNotFound
		}
		if variant.ProductID != product.ID {
			return nil, nil, domain.ErrInvalidInput
		}
	}
	return product, variant, nil
}

// doTransfer resta en la facility origen y suma en la destino dentro de la misma
// transacción, con dos entradas de ledger referenciadas entre sí por ReferenceID.
// La unidad destino se resuelve por SKU (mismo artículo en la otra sede).
func (uc *RecordMovementUseCase) doTransfer(ctx context.Context, product *entity.Product, variant *entity.ProductVariant, input MovementInput) (*entity.InventoryMovement, error) {
	destProduct, err := uc.productRepo.GetByFacilityAndSKU(input.ToFacilityID, product.SKU)
	if err != nil || destProduct == nil {
		return nil, domain.ErrNotFound
	}
	destVariantID := ""
	if variant != nil {
		destVariants, err := uc.variantRepo.ListByProduct(destProduct.ID)
		if err != nil {
			return nil, err
		}
		for _, dv := range destVariants {
			if dv.SKU == variant.SKU {
				destVariantID = dv.ID
				break
			}
		}
		if destVariantID == "" {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	transferID := uuid.New().String()
	var outMov *entity.InventoryMovement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
	) error {
		var txErr error
		// Salida en origen
		outMov, txErr = ApplyDeltaInTx(movRepo, stockRepo, DeltaInput{
			FacilityID:    input.FacilityID,
			ProductID:     product.ID,
			VariantID:     input.VariantID,
			Type:          entity.MovementTypeTransfer,
			Quantity:      input.Quantity.Neg(),
			Reason:        input.Reason,
			ReferenceType: entity.ReferenceTypeManual,
			ReferenceID:   transferID,
			UserID:        input.UserID,
			Now:           now,
		})
		if txErr != nil {
			return txErr
		}
		// Entrada en destino
		_, txErr = ApplyDeltaInTx(movRepo, stockRepo, DeltaInput{
			FacilityID:    input.ToFacilityID,
			ProductID:     destProduct.ID,
			VariantID:     destVariantID,
			Type:          entity.MovementTypeTransfer,
			Quantity:      input.Quantity,
			Reason:        input.Reason,
			ReferenceType: entity.ReferenceTypeManual,
			ReferenceID:   transferID,
			UserID:        input.UserID,
			Now:           now,
		})
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return outMov, nil
}

// DeltaInput parámetros del primitivo transaccional del ledger.
type DeltaInput struct {
	FacilityID    string
	ProductID     string
	VariantID     string
	Type          string
	Quantity      decimal.Decimal // delta con signo
	Reason        string
	ReferenceType string
	ReferenceID   string
	UserID        string
	Now           time.Time
}

// ApplyDeltaInTx es el primitivo del ledger, ejecutado SIEMPRE dentro de una transacción
// del caller (POS, compras o este caso de uso): bloquea la fila de stock (SELECT FOR UPDATE),
// calcula NewStock = PreviousStock + Quantity, rechaza stock negativo con ErrInsufficientStock,
// actualiza el stock y agrega la entrada inmutable con snapshot antes/después.
// El bloqueo de fila serializa los escritores por unidad: el NewStock de una entrada
// es el PreviousStock de la siguiente.
func ApplyDeltaInTx(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	in DeltaInput,
) (*entity.InventoryMovement, error) {
	level, err := stockRepo.GetForUpdate(in.FacilityID, in.ProductID, in.VariantID)
	if err != nil {
		return nil, err
	}
	previous := level.Quantity
	next := previous.Add(in.Quantity)
	if next.LessThan(decimal.Zero) {
		return nil, domain.ErrInsufficientStock
	}

	level.Quantity = next
	level.UpdatedAt = in.Now
	if err := stockRepo.Upsert(level); err != nil {
		return nil, err
	}

	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		FacilityID:    in.FacilityID,
		ProductID:     in.ProductID,
		VariantID:     in.VariantID,
		Type:          in.Type,
		Quantity:      in.Quantity,
		PreviousStock: previous,
		NewStock:      next,
		Reason:        in.Reason,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		CreatedAt:     in.Now,
		CreatedBy:     in.UserID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
