package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/petcare-pos/internal/application/dto"
	"github.com/tu-usuario/petcare-pos/internal/application/purchasing"
	"github.com/tu-usuario/petcare-pos/internal/domain"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
	"github.com/tu-usuario/petcare-pos/internal/domain/retail"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del ciclo de órdenes de compra sobre fakes en memoria: creación,
// transiciones de estado y recepción parcial/total con entrada al ledger.
// ──────────────────────────────────────────────────────────────────────────────

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func unitKey(facilityID, productID, variantID string) string {
	return facilityID + "|" + productID + "|" + variantID
}

type fakeStockRepo struct {
	levels map[string]*entity.StockLevel
}

func (r *fakeStockRepo) Get(facilityID, productID, variantID string) (*entity.StockLevel, error) {
	if lvl, ok := r.levels[unitKey(facilityID, productID, variantID)]; ok {
		cp := *lvl
		return &cp, nil
	}
	return &entity.StockLevel{FacilityID: facilityID, ProductID: productID, VariantID: variantID, Quantity: decimal.Zero}, nil
}
func (r *fakeStockRepo) GetForUpdate(facilityID, productID, variantID string) (*entity.StockLevel, error) {
	return r.Get(facilityID, productID, variantID)
}
func (r *fakeStockRepo) Upsert(level *entity.StockLevel) error {
	cp := *level
	r.levels[unitKey(level.FacilityID, level.ProductID, level.VariantID)] = &cp
	return nil
}
func (r *fakeStockRepo) ListUnitStocks(context.Context, string) ([]retail.UnitStock, error) {
	return nil, nil
}
func (r *fakeStockRepo) stockOf(facilityID, productID, variantID string) decimal.Decimal {
	lvl, _ := r.Get(facilityID, productID, variantID)
	return lvl.Quantity
}

type fakeMovementRepo struct {
	movements []*entity.InventoryMovement
}

func (r *fakeMovementRepo) Create(m *entity.InventoryMovement) error {
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}
func (r *fakeMovementRepo) GetByID(string) (*entity.InventoryMovement, error) {
	return nil, domain.ErrNotFound
}
func (r *fakeMovementRepo) ListByUnit(string, string, string, *time.Time, *time.Time, int, int) ([]*entity.InventoryMovement, error) {
	return r.movements, nil
}
func (r *fakeMovementRepo) ListByFacility(string, *time.Time, *time.Time, int, int) ([]*entity.InventoryMovement, error) {
	return r.movements, nil
}

type fakePORepo struct {
	orders map[string]*entity.PurchaseOrder
	// calls registra el orden lock/count/create para verificar que el
	// consecutivo se deriva bajo el candado de secuencia
	calls []string
}

func clonePO(o *entity.PurchaseOrder) *entity.PurchaseOrder {
	cp := *o
	cp.Items = append([]entity.PurchaseOrderItem(nil), o.Items...)
	return &cp
}

func (r *fakePORepo) Create(o *entity.PurchaseOrder) error {
	r.calls = append(r.calls, "create")
	r.orders[o.ID] = clonePO(o)
	return nil
}
func (r *fakePORepo) LockDailySequence(facilityID string, _ time.Time) error {
	r.calls = append(r.calls, "lock:"+facilityID)
	return nil
}
func (r *fakePORepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	if o, ok := r.orders[id]; ok {
		return clonePO(o), nil
	}
	return nil, domain.ErrNotFound
}
func (r *fakePORepo) CountByDateRange(facilityID string, from, to time.Time) (int, error) {
	r.calls = append(r.calls, "count")
	n := 0
	for _, o := range r.orders {
		if o.FacilityID == facilityID && !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}
func (r *fakePORepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	return nil
}
func (r *fakePORepo) UpdateReceipt(o *entity.PurchaseOrder) error {
	if _, ok := r.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	r.orders[o.ID] = clonePO(o)
	return nil
}
func (r *fakePORepo) ListByFacility(facilityID string, _, _ int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, o := range r.orders {
		if o.FacilityID == facilityID {
			out = append(out, clonePO(o))
		}
	}
	return out, nil
}

type fakeSupplierRepo struct {
	suppliers map[string]*entity.Supplier
}

func (r *fakeSupplierRepo) Create(s *entity.Supplier) error { r.suppliers[s.ID] = s; return nil }
func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	if s, ok := r.suppliers[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}
func (r *fakeSupplierRepo) ListByFacility(string, int, int) ([]*entity.Supplier, error) {
	return nil, nil
}
func (r *fakeSupplierRepo) Update(s *entity.Supplier) error { r.suppliers[s.ID] = s; return nil }

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
func (r *fakeProductRepo) GetByFacilityAndSKU(string, string) (*entity.Product, error) {
	return nil, domain.ErrNotFound
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) ListByFacility(string, int, int) ([]*entity.Product, error) {
	return nil, nil
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
func (r *fakeVariantRepo) ListByProduct(string) ([]*entity.ProductVariant, error) { return nil, nil }
func (r *fakeVariantRepo) Update(v *entity.ProductVariant) error                  { r.variants[v.ID] = v; return nil }

// fakePurchaseTxRunner ejecuta la función con los fakes; revierte stock y
// ledger si falla (el fakePORepo persiste solo vía UpdateReceipt, que no llega
// a ejecutarse cuando una línea falla antes).
type fakePurchaseTxRunner struct {
	movRepo   *fakeMovementRepo
	stockRepo *fakeStockRepo
	poRepo    *fakePORepo
}

func (tr *fakePurchaseTxRunner) RunPurchase(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	poRepo repository.PurchaseOrderRepository,
) error) error {
	stockBefore := make(map[string]*entity.StockLevel, len(tr.stockRepo.levels))
	for k, v := range tr.stockRepo.levels {
		cp := *v
		stockBefore[k] = &cp
	}
	ordersBefore := make(map[string]*entity.PurchaseOrder, len(tr.poRepo.orders))
	for k, v := range tr.poRepo.orders {
		ordersBefore[k] = clonePO(v)
	}
	movsBefore := len(tr.movRepo.movements)

	if err := fn(tr.movRepo, tr.stockRepo, tr.poRepo); err != nil {
		tr.stockRepo.levels = stockBefore
		tr.poRepo.orders = ordersBefore
		tr.movRepo.movements = tr.movRepo.movements[:movsBefore]
		return err
	}
	return nil
}

// ── fixture ───────────────────────────────────────────────────────────────────

type purchasingFixture struct {
	uc        *purchasing.PurchaseOrderUseCase
	stockRepo *fakeStockRepo
	movRepo   *fakeMovementRepo
	poRepo    *fakePORepo
}

func newPurchasingFixture() *purchasingFixture {
	stockRepo := &fakeStockRepo{levels: make(map[string]*entity.StockLevel)}
	movRepo := &fakeMovementRepo{}
	poRepo := &fakePORepo{orders: make(map[string]*entity.PurchaseOrder)}
	suppliers := &fakeSupplierRepo{suppliers: map[string]*entity.Supplier{
		"sup-1": {ID: "sup-1", FacilityID: "fac-1", Name: "Distribuidora Canina", Status: "active"},
	}}
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", FacilityID: "fac-1", SKU: "CAT-LITTER-01", Name: "Arena para gato", Status: entity.ProductStatusActive},
	}}
	variants := &fakeVariantRepo{variants: map[string]*entity.ProductVariant{}}
	txRunner := &fakePurchaseTxRunner{movRepo: movRepo, stockRepo: stockRepo, poRepo: poRepo}

	return &purchasingFixture{
		uc:        purchasing.NewPurchaseOrderUseCase(txRunner, poRepo, suppliers, products, variants),
		stockRepo: stockRepo,
		movRepo:   movRepo,
		poRepo:    poRepo,
	}
}

func (f *purchasingFixture) createOrder(t *testing.T, qty, cost float64) *dto.PurchaseOrderResponse {
	t.Helper()
	order, err := f.uc.CreatePurchaseOrder(context.Background(), "fac-1", "buyer-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1",
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: "prod-1", Quantity: dec(qty), UnitCost: dec(cost)},
		},
	})
	require.NoError(t, err)
	return order
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestCreatePurchaseOrder_PendingSinTocarStock(t *testing.T) {
	f := newPurchasingFixture()

	order := f.createOrder(t, 20, 4.75)

	assert.Equal(t, entity.PurchaseOrderStatusPending, order.Status)
	assert.True(t, dec(95.00).Equal(order.Subtotal), "subtotal 20 * 4.75 = 95.00")
	assert.Equal(t, retail.FormatPurchaseOrderNumber(time.Now(), 1), order.Number)
	assert.True(t, f.stockRepo.stockOf("fac-1", "prod-1", "").IsZero(),
		"crear la orden no debe mover inventario")
	assert.Empty(t, f.movRepo.movements)
}

func TestCreatePurchaseOrder_Validaciones(t *testing.T) {
	f := newPurchasingFixture()
	ctx := context.Background()

	cases := []struct {
		name    string
		req     dto.CreatePurchaseOrderRequest
		wantErr error
	}{
		{"sin ítems", dto.CreatePurchaseOrderRequest{SupplierID: "sup-1"}, domain.ErrInvalidInput},
		{"proveedor inexistente", dto.CreatePurchaseOrderRequest{
			SupplierID: "ghost",
			Items:      []dto.PurchaseOrderItemRequest{{ProductID: "prod-1", Quantity: dec(1), UnitCost: dec(1)}},
		}, domain.ErrNotFound},
		{"cantidad cero", dto.CreatePurchaseOrderRequest{
			SupplierID: "sup-1",
			Items:      []dto.PurchaseOrderItemRequest{{ProductID: "prod-1", UnitCost: dec(1)}},
		}, domain.ErrInvalidInput},
		{"costo negativo", dto.CreatePurchaseOrderRequest{
			SupplierID: "sup-1",
			Items:      []dto.PurchaseOrderItemRequest{{ProductID: "prod-1", Quantity: dec(1), UnitCost: dec(-1)}},
		}, domain.ErrInvalidInput},
		{"fecha esperada malformada", dto.CreatePurchaseOrderRequest{
			SupplierID:   "sup-1",
			ExpectedDate: "15/03/2026",
			Items:        []dto.PurchaseOrderItemRequest{{ProductID: "prod-1", Quantity: dec(1), UnitCost: dec(1)}},
		}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.CreatePurchaseOrder(ctx, "fac-1", "buyer-1", tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestPurchaseOrder_TransicionesDeEstado(t *testing.T) {
	f := newPurchasingFixture()
	ctx := context.Background()
	order := f.createOrder(t, 10, 2)

	// pending → shipped no es válido (falta ordered)
	_, err := f.uc.MarkShipped(ctx, "fac-1", order.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	ordered, err := f.uc.MarkOrdered(ctx, "fac-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusOrdered, ordered.Status)

	// ordered → ordered tampoco
	_, err = f.uc.MarkOrdered(ctx, "fac-1", order.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	shipped, err := f.uc.MarkShipped(ctx, "fac-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusShipped, shipped.Status)

	cancelled, err := f.uc.Cancel(ctx, "fac-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusCancelled, cancelled.Status)

	// cancelada no se recibe
	_, err = f.uc.ReceivePurchaseOrder(ctx, "fac-1", "u", order.ID, dto.ReceivePurchaseOrderRequest{
		Items: []dto.ReceiveItemRequest{{ItemID: order.Items[0].ID, Quantity: dec(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReceivePurchaseOrder_ParcialYLuegoTotal(t *testing.T) {
	f := newPurchasingFixture()
	ctx := context.Background()
	order := f.createOrder(t, 20, 4.75)
	_, err := f.uc.MarkOrdered(ctx, "fac-1", order.ID)
	require.NoError(t, err)

	// primera recepción: 12 de 20 → la orden sigue sin estar received
	partial, err := f.uc.ReceivePurchaseOrder(ctx, "fac-1", "receiver-1", order.ID, dto.ReceivePurchaseOrderRequest{
		Items: []dto.ReceiveItemRequest{{ItemID: order.Items[0].ID, Quantity: dec(12)}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseOrderStatusOrdered, partial.Status,
		"recepción parcial no debe cerrar la orden")
	assert.True(t, dec(12).Equal(partial.Items[0].ReceivedQuantity))
	assert.True(t, dec(12).Equal(f.stockRepo.stockOf("fac-1", "prod-1", "")))

	require.Len(t, f.movRepo.movements, 1)
	mov := f.movRepo.movements[0]
	assert.Equal(t, entity.MovementTypePurchase, mov.Type)
	assert.Equal(t, entity.ReferenceTypePurchaseOrder, mov.ReferenceType)
	assert.Equal(t, order.ID, mov.ReferenceID)
	assert.Contains(t, mov.Reason, order.Number)

	// segunda recepción: los 8 restantes → received
	full, err := f.uc.ReceivePurchaseOrder(ctx, "fac-1", "receiver-1", order.ID, dto.ReceivePurchaseOrderRequest{
		Items: []dto.ReceiveItemRequest{{ItemID: order.Items[0].ID, Quantity: dec(8)}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseOrderStatusReceived, full.Status)
	assert.True(t, dec(20).Equal(full.Items[0].ReceivedQuantity))
	assert.Equal(t, "receiver-1", full.ReceivedBy)
	assert.NotEmpty(t, full.ReceivedAt)
	assert.True(t, dec(20).Equal(f.stockRepo.stockOf("fac-1", "prod-1", "")))
}

func TestReceivePurchaseOrder_NoPermiteRecibirDeMas(t *testing.T) {
	f := newPurchasingFixture()
	ctx := context.Background()
	order := f.createOrder(t, 10, 1)
	_, err := f.uc.MarkOrdered(ctx, "fac-1", order.ID)
	require.NoError(t, err)

	_, err = f.uc.ReceivePurchaseOrder(ctx, "fac-1", "u", order.ID, dto.ReceivePurchaseOrderRequest{
		Items: []dto.ReceiveItemRequest{{ItemID: order.Items[0].ID, Quantity: dec(7)}},
	})
	require.NoError(t, err)

	// 7 recibidas + 4 ahora = 11 > 10 pedidas
	_, err = f.uc.ReceivePurchaseOrder(ctx, "fac-1", "u", order.ID, dto.ReceivePurchaseOrderRequest{
		Items: []dto.ReceiveItemRequest{{ItemID: order.Items[0].ID, Quantity: dec(4)}},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, dec(7).Equal(f.stockRepo.stockOf("fac-1", "prod-1", "")),
		"la recepción rechazada no debe mover stock")
	assert.Len(t, f.movRepo.movements, 1)
}

// TestReceivePurchaseOrder_LineasRepetidasNoSuperanElTope cubre la petición que
// repite el mismo ítem en varias líneas: el tope se valida sobre la suma, no
// línea a línea, así que 6 + 6 contra 10 pedidas se rechaza completa.
func TestReceivePurchaseOrder_LineasRepetidasNoSuperanElTope(t *testing.T) {
	f := newPurchasingFixture()
	ctx := context.Background()
	order := f.createOrder(t, 10, 1)
	_, err := f.uc.MarkOrdered(ctx, "fac-1", order.ID)
	require.NoError(t, err)

	_, err = f.uc.ReceivePurchaseOrder(ctx, "fac-1", "u", order.ID, dto.ReceivePurchaseOrderRequest{
		Items: []dto.ReceiveItemRequest{
			{ItemID: order.Items[0].ID, Quantity: dec(6)},
			{ItemID: order.Items[0].ID, Quantity: dec(6)},
		},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.stockRepo.stockOf("fac-1", "prod-1", "").IsZero(),
		"la recepción rechazada no debe mover stock")
	assert.Empty(t, f.movRepo.movements)

	reloaded, err := f.uc.GetPurchaseOrder(ctx, "fac-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusOrdered, reloaded.Status,
		"la orden no debe cerrarse por una recepción que supera lo pedido")
	assert.True(t, reloaded.Items[0].ReceivedQuantity.IsZero())

	// líneas repetidas que sí caben en el tope se aceptan por su suma
	full, err := f.uc.ReceivePurchaseOrder(ctx, "fac-1", "u", order.ID, dto.ReceivePurchaseOrderRequest{
		Items: []dto.ReceiveItemRequest{
			{ItemID: order.Items[0].ID, Quantity: dec(6)},
			{ItemID: order.Items[0].ID, Quantity: dec(4)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusReceived, full.Status)
	assert.True(t, dec(10).Equal(full.Items[0].ReceivedQuantity))
	assert.True(t, dec(10).Equal(f.stockRepo.stockOf("fac-1", "prod-1", "")))
}

func TestReceivePurchaseOrder_ItemAjeno(t *testing.T) {
	f := newPurchasingFixture()
	ctx := context.Background()
	order := f.createOrder(t, 10, 1)
	_, err := f.uc.MarkOrdered(ctx, "fac-1", order.ID)
	require.NoError(t, err)

	_, err = f.uc.ReceivePurchaseOrder(ctx, "fac-1", "u", order.ID, dto.ReceivePurchaseOrderRequest{
		Items: []dto.ReceiveItemRequest{{ItemID: "no-es-de-esta-orden", Quantity: dec(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchaseOrder_PropiedadPorSede(t *testing.T) {
	f := newPurchasingFixture()
	order := f.createOrder(t, 5, 1)

	_, err := f.uc.GetPurchaseOrder(context.Background(), "fac-2", order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPurchaseOrder_ConsecutivoDiario(t *testing.T) {
	f := newPurchasingFixture()

	first := f.createOrder(t, 1, 1)
	second := f.createOrder(t, 2, 1)

	now := time.Now()
	assert.Equal(t, retail.FormatPurchaseOrderNumber(now, 1), first.Number)
	assert.Equal(t, retail.FormatPurchaseOrderNumber(now, 2), second.Number)
}

// TestCreatePurchaseOrder_ConsecutivoBajoCandadoDiario verifica que el número
// se deriva dentro de la transacción y bajo el candado de secuencia: contar
// fuera de la tx dejaría que dos órdenes concurrentes lean el mismo conteo.
func TestCreatePurchaseOrder_ConsecutivoBajoCandadoDiario(t *testing.T) {
	f := newPurchasingFixture()

	f.createOrder(t, 5, 1)

	assert.Equal(t, []string{"lock:fac-1", "count", "create"}, f.poRepo.calls,
		"el candado diario debe tomarse antes de contar y persistir")
}
