package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/petcare-pos/internal/application/inventory"
	"github.com/tu-usuario/petcare-pos/internal/domain"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
	"github.com/tu-usuario/petcare-pos/internal/domain/retail"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del motor de movimientos sobre fakes en memoria. El fakeTxRunner imita
// el contrato transaccional real: si la función falla, el estado de stock y el
// libro de movimientos quedan como antes (rollback).
// ──────────────────────────────────────────────────────────────────────────────

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func unitKey(facilityID, productID, variantID string) string {
	return facilityID + "|" + productID + "|" + variantID
}

// fakeStockRepo guarda niveles de stock en un mapa. Como el fake corre en un
// solo goroutine no necesita bloqueo real; GetForUpdate se comporta como Get.
type fakeStockRepo struct {
	levels map[string]*entity.StockLevel
	units  []retail.UnitStock
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{levels: make(map[string]*entity.StockLevel)}
}

func (r *fakeStockRepo) Get(facilityID, productID, variantID string) (*entity.StockLevel, error) {
	if lvl, ok := r.levels[unitKey(facilityID, productID, variantID)]; ok {
		cp := *lvl
		return &cp, nil
	}
	return &entity.StockLevel{
		FacilityID: facilityID,
		ProductID:  productID,
		VariantID:  variantID,
		Quantity:   decimal.Zero,
	}, nil
}

func (r *fakeStockRepo) GetForUpdate(facilityID, productID, variantID string) (*entity.StockLevel, error) {
	return r.Get(facilityID, productID, variantID)
}

func (r *fakeStockRepo) Upsert(level *entity.StockLevel) error {
	cp := *level
	r.levels[unitKey(level.FacilityID, level.ProductID, level.VariantID)] = &cp
	return nil
}

func (r *fakeStockRepo) ListUnitStocks(_ context.Context, _ string) ([]retail.UnitStock, error) {
	return r.units, nil
}

func (r *fakeStockRepo) stockOf(facilityID, productID, variantID string) decimal.Decimal {
	lvl, _ := r.Get(facilityID, productID, variantID)
	return lvl.Quantity
}

// fakeMovementRepo libro de movimientos en memoria, solo append.
type fakeMovementRepo struct {
	movements []*entity.InventoryMovement
}

func (r *fakeMovementRepo) Create(m *entity.InventoryMovement) error {
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeMovementRepo) ListByUnit(facilityID, productID, variantID string, _, _ *time.Time, _, _ int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.movements {
		if m.FacilityID == facilityID && m.ProductID == productID && m.VariantID == variantID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByFacility(facilityID string, _, _ *time.Time, _, _ int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.movements {
		if m.FacilityID == facilityID {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeTxRunner ejecuta la función con los fakes y revierte stock y ledger si falla.
type fakeTxRunner struct {
	movRepo   *fakeMovementRepo
	stockRepo *fakeStockRepo
}

func (tr *fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
) error) error {
	stockBefore := make(map[string]*entity.StockLevel, len(tr.stockRepo.levels))
	for k, v := range tr.stockRepo.levels {
		cp := *v
		stockBefore[k] = &cp
	}
	movsBefore := len(tr.movRepo.movements)

	if err := fn(tr.movRepo, tr.stockRepo); err != nil {
		tr.stockRepo.levels = stockBefore
		tr.movRepo.movements = tr.movRepo.movements[:movsBefore]
		return err
	}
	return nil
}

// fakeProductRepo catálogo en memoria.
type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}
func (r *fakeProductRepo) GetByFacilityAndSKU(facilityID, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.FacilityID == facilityID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) ListByFacility(string, int, int) ([]*entity.Product, error) {
	panic("no usado en estos tests")
}

type fakeVariantRepo struct {
	variants map[string]*entity.ProductVariant
}

func (r *fakeVariantRepo) Create(v *entity.ProductVariant) error { r.variants[v.ID] = v; return nil }
func (r *fakeVariantRepo) GetByID(id string) (*entity.ProductVariant, error) {
	if v, ok := r.variants[id]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}
func (r *fakeVariantRepo) ListByProduct(productID string) ([]*entity.ProductVariant, error) {
	var out []*entity.ProductVariant
	for _, v := range r.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}
func (r *fakeVariantRepo) Update(v *entity.ProductVariant) error { r.variants[v.ID] = v; return nil }

// ── fixture ───────────────────────────────────────────────────────────────────

type movementFixture struct {
	uc        *inventory.RecordMovementUseCase
	stockRepo *fakeStockRepo
	movRepo   *fakeMovementRepo
	products  *fakeProductRepo
	variants  *fakeVariantRepo
}

func newMovementFixture() *movementFixture {
	stockRepo := newFakeStockRepo()
	movRepo := &fakeMovementRepo{}
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", FacilityID: "fac-1", SKU: "DOG-FOOD-001", Name: "Alimento perro adulto", Status: entity.ProductStatusActive},
	}}
	variants := &fakeVariantRepo{variants: map[string]*entity.ProductVariant{}}
	uc := inventory.NewRecordMovementUseCase(
		&fakeTxRunner{movRepo: movRepo, stockRepo: stockRepo},
		products, variants,
	)
	return &movementFixture{uc: uc, stockRepo: stockRepo, movRepo: movRepo, products: products, variants: variants}
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestRegisterMovement_PurchaseCreaFilaDeStock(t *testing.T) {
	f := newMovementFixture()

	mov, err := f.uc.RegisterMovement(context.Background(), inventory.MovementInput{
		FacilityID: "fac-1",
		UserID:     "user-1",
		ProductID:  "prod-1",
		Type:       entity.MovementTypePurchase,
		Quantity:   dec(10),
		Reason:     "compra inicial",
	})

	require.NoError(t, err)
	assert.True(t, mov.PreviousStock.IsZero(), "una unidad sin fila de stock arranca en 0")
	assert.True(t, dec(10).Equal(mov.NewStock))
	assert.Equal(t, entity.ReferenceTypeManual, mov.ReferenceType)
	assert.True(t, dec(10).Equal(f.stockRepo.stockOf("fac-1", "prod-1", "")))
}

// TestRegisterMovement_CadenaDelLedger verifica el invariante del libro:
// NewStock = PreviousStock + Quantity, y el NewStock de una entrada es el
// PreviousStock de la siguiente para la misma unidad.
func TestRegisterMovement_CadenaDelLedger(t *testing.T) {
	f := newMovementFixture()
	ctx := context.Background()

	inputs := []inventory.MovementInput{
		{FacilityID: "fac-1", UserID: "u", ProductID: "prod-1", Type: entity.MovementTypePurchase, Quantity: dec(20), Reason: "compra"},
		{FacilityID: "fac-1", UserID: "u", ProductID: "prod-1", Type: entity.MovementTypeAdjustment, Quantity: dec(-3), Reason: "merma"},
		{FacilityID: "fac-1", UserID: "u", ProductID: "prod-1", Type: entity.MovementTypeReturn, Quantity: dec(1), Reason: "devolución cliente"},
	}
	for _, in := range inputs {
		_, err := f.uc.RegisterMovement(ctx, in)
		require.NoError(t, err)
	}

	require.Len(t, f.movRepo.movements, 3)
	for i, m := range f.movRepo.movements {
		assert.True(t, m.NewStock.Equal(m.PreviousStock.Add(m.Quantity)),
			"entrada %d: NewStock debe ser PreviousStock + Quantity", i)
		if i > 0 {
			prev := f.movRepo.movements[i-1]
			assert.True(t, m.PreviousStock.Equal(prev.NewStock),
				"entrada %d: el PreviousStock debe encadenar con el NewStock anterior", i)
		}
	}
	assert.True(t, dec(18).Equal(f.stockRepo.stockOf("fac-1", "prod-1", "")))
}

func TestRegisterMovement_StockInsuficienteRevierte(t *testing.T) {
	f := newMovementFixture()
	ctx := context.Background()

	_, err := f.uc.RegisterMovement(ctx, inventory.MovementInput{
		FacilityID: "fac-1", UserID: "u", ProductID: "prod-1",
		Type: entity.MovementTypePurchase, Quantity: dec(5), Reason: "compra",
	})
	require.NoError(t, err)

	_, err = f.uc.RegisterMovement(ctx, inventory.MovementInput{
		FacilityID: "fac-1", UserID: "u", ProductID: "prod-1",
		Type: entity.MovementTypeAdjustment, Quantity: dec(-8), Reason: "conteo físico",
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, dec(5).Equal(f.stockRepo.stockOf("fac-1", "prod-1", "")),
		"el stock no debe cambiar cuando la transacción revierte")
	assert.Len(t, f.movRepo.movements, 1, "el movimiento rechazado no debe quedar en el libro")
}

func TestRegisterMovement_ValidacionDeEntrada(t *testing.T) {
	f := newMovementFixture()
	ctx := context.Background()

	cases := []struct {
		name  string
		input inventory.MovementInput
	}{
		{"venta no entra por aquí", inventory.MovementInput{FacilityID: "fac-1", ProductID: "prod-1", Type: entity.MovementTypeSale, Quantity: dec(-1), Reason: "x"}},
		{"purchase con cantidad negativa", inventory.MovementInput{FacilityID: "fac-1", ProductID: "prod-1", Type: entity.MovementTypePurchase, Quantity: dec(-1), Reason: "x"}},
		{"adjustment con cantidad cero", inventory.MovementInput{FacilityID: "fac-1", ProductID: "prod-1", Type: entity.MovementTypeAdjustment, Quantity: decimal.Zero, Reason: "x"}},
		{"sin razón", inventory.MovementInput{FacilityID: "fac-1", ProductID: "prod-1", Type: entity.MovementTypePurchase, Quantity: dec(1)}},
		{"transfer a la misma sede", inventory.MovementInput{FacilityID: "fac-1", ProductID: "prod-1", Type: entity.MovementTypeTransfer, Quantity: dec(1), Reason: "x", ToFacilityID: "fac-1"}},
		{"tipo desconocido", inventory.MovementInput{FacilityID: "fac-1", ProductID: "prod-1", Type: "teleport", Quantity: dec(1), Reason: "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.RegisterMovement(ctx, tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, f.movRepo.movements)
}

func TestRegisterMovement_ProductoDeOtraSede(t *testing.T) {
	f := newMovementFixture()

	_, err := f.uc.RegisterMovement(context.Background(), inventory.MovementInput{
		FacilityID: "fac-2", UserID: "u", ProductID: "prod-1",
		Type: entity.MovementTypePurchase, Quantity: dec(1), Reason: "compra",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegisterMovement_ProductoConVariantesExigeVariante(t *testing.T) {
	f := newMovementFixture()
	f.products.products["prod-1"].HasVariants = true

	_, err := f.uc.RegisterMovement(context.Background(), inventory.MovementInput{
		FacilityID: "fac-1", UserID: "u", ProductID: "prod-1",
		Type: entity.MovementTypePurchase, Quantity: dec(1), Reason: "compra",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestRegisterMovement_TransferParEntreSedes verifica el traslado: salida en
// origen y entrada en destino en la misma transacción, con el mismo
// ReferenceID para poder auditar el par.
func TestRegisterMovement_TransferParEntreSedes(t *testing.T) {
	f := newMovementFixture()
	ctx := context.Background()

	// mismo artículo (SKU) en la sede destino
	f.products.products["prod-2"] = &entity.Product{
		ID: "prod-2", FacilityID: "fac-2", SKU: "DOG-FOOD-001",
		Name: "Alimento perro adulto", Status: entity.ProductStatusActive,
	}
	_, err := f.uc.RegisterMovement(ctx, inventory.MovementInput{
		FacilityID: "fac-1", UserID: "u", ProductID: "prod-1",
		Type: entity.MovementTypePurchase, Quantity: dec(10), Reason: "compra",
	})
	require.NoError(t, err)

	out, err := f.uc.RegisterMovement(ctx, inventory.MovementInput{
		FacilityID: "fac-1", UserID: "u", ProductID: "prod-1",
		Type: entity.MovementTypeTransfer, Quantity: dec(4), Reason: "reabastecer sucursal",
		ToFacilityID: "fac-2",
	})
	require.NoError(t, err)

	assert.True(t, dec(6).Equal(f.stockRepo.stockOf("fac-1", "prod-1", "")))
	assert.True(t, dec(4).Equal(f.stockRepo.stockOf("fac-2", "prod-2", "")))

	require.Len(t, f.movRepo.movements, 3) // compra + par de transfer
	salida, entrada := f.movRepo.movements[1], f.movRepo.movements[2]
	assert.True(t, salida.Quantity.Equal(dec(-4)))
	assert.True(t, entrada.Quantity.Equal(dec(4)))
	assert.Equal(t, salida.ReferenceID, entrada.ReferenceID,
		"las dos entradas del traslado deben compartir ReferenceID")
	assert.Equal(t, out.ID, salida.ID, "el caso de uso retorna el movimiento de salida")
}

func TestRegisterMovement_TransferSinStockRevierteAmbasSedes(t *testing.T) {
	f := newMovementFixture()
	f.products.products["prod-2"] = &entity.Product{
		ID: "prod-2", FacilityID: "fac-2", SKU: "DOG-FOOD-001",
		Name: "Alimento perro adulto", Status: entity.ProductStatusActive,
	}

	_, err := f.uc.RegisterMovement(context.Background(), inventory.MovementInput{
		FacilityID: "fac-1", UserID: "u", ProductID: "prod-1",
		Type: entity.MovementTypeTransfer, Quantity: dec(4), Reason: "reabastecer",
		ToFacilityID: "fac-2",
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stockRepo.stockOf("fac-1", "prod-1", "").IsZero())
	assert.True(t, f.stockRepo.stockOf("fac-2", "prod-2", "").IsZero())
	assert.Empty(t, f.movRepo.movements)
}
