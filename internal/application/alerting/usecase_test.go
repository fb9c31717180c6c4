package alerting_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/petcare-pos/internal/application/alerting"
	"github.com/tu-usuario/petcare-pos/internal/domain"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/retail"
	"github.com/tu-usuario/petcare-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de alertas de stock bajo sobre fakes en memoria: evaluación idempotente,
// deduplicación por unidad y ciclo pending → acknowledged → resolved.
// ──────────────────────────────────────────────────────────────────────────────

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// fakeStockRepo solo sirve el snapshot de unidades; el resto no se usa aquí.
type fakeStockRepo struct {
	units []retail.UnitStock
}

func (r *fakeStockRepo) Get(facilityID, productID, variantID string) (*entity.StockLevel, error) {
	return &entity.StockLevel{FacilityID: facilityID, ProductID: productID, VariantID: variantID, Quantity: decimal.Zero}, nil
}
func (r *fakeStockRepo) GetForUpdate(facilityID, productID, variantID string) (*entity.StockLevel, error) {
	return r.Get(facilityID, productID, variantID)
}
func (r *fakeStockRepo) Upsert(*entity.StockLevel) error { return nil }
func (r *fakeStockRepo) ListUnitStocks(context.Context, string) ([]retail.UnitStock, error) {
	return r.units, nil
}

type fakeAlertRepo struct {
	alerts map[string]*entity.LowStockAlert
}

func (r *fakeAlertRepo) Create(a *entity.LowStockAlert) error {
	cp := *a
	r.alerts[a.ID] = &cp
	return nil
}
func (r *fakeAlertRepo) GetByID(id string) (*entity.LowStockAlert, error) {
	if a, ok := r.alerts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}
func (r *fakeAlertRepo) GetOpenByUnit(facilityID, productID, variantID string) (*entity.LowStockAlert, error) {
	for _, a := range r.alerts {
		if a.FacilityID == facilityID && a.ProductID == productID && a.VariantID == variantID && a.IsOpen() {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *fakeAlertRepo) Update(a *entity.LowStockAlert) error {
	if _, ok := r.alerts[a.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *a
	r.alerts[a.ID] = &cp
	return nil
}
func (r *fakeAlertRepo) ListByFacility(facilityID, status string, _, _ int) ([]*entity.LowStockAlert, error) {
	var out []*entity.LowStockAlert
	for _, a := range r.alerts {
		if a.FacilityID == facilityID && (status == "" || a.Status == status) {
			out = append(out, a)
		}
	}
	return out, nil
}

// ── fixture ───────────────────────────────────────────────────────────────────

func lowUnit(sku, productID, variantID string, stock, minStock float64) retail.UnitStock {
	return retail.UnitStock{
		ProductID: productID,
		VariantID: variantID,
		SKU:       sku,
		Status:    "active",
		Stock:     dec(stock),
		MinStock:  dec(minStock),
	}
}

type alertFixture struct {
	uc        *alerting.AlertUseCase
	stockRepo *fakeStockRepo
	alertRepo *fakeAlertRepo
}

func newAlertFixture() *alertFixture {
	stockRepo := &fakeStockRepo{}
	alertRepo := &fakeAlertRepo{alerts: make(map[string]*entity.LowStockAlert)}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return &alertFixture{
		uc:        alerting.NewAlertUseCase(stockRepo, alertRepo, log),
		stockRepo: stockRepo,
		alertRepo: alertRepo,
	}
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestEvaluate_CreaAlertasSoloParaStockBajo(t *testing.T) {
	f := newAlertFixture()
	f.stockRepo.units = []retail.UnitStock{
		lowUnit("A-001", "prod-1", "", 2, 5),        // alerta
		lowUnit("A-002", "prod-2", "var-1", 10, 5),  // sin alerta
		lowUnit("A-003", "prod-2", "var-2", 5, 5),   // alerta (umbral inclusivo)
	}

	created, err := f.uc.Evaluate(context.Background(), "fac-1")
	require.NoError(t, err)

	require.Len(t, created, 2)
	assert.Equal(t, entity.AlertStatusPending, created[0].Status)
	assert.True(t, dec(2).Equal(created[0].CurrentStock), "la alerta guarda snapshot del stock al crearla")
	assert.True(t, dec(5).Equal(created[0].MinStock))
}

// TestEvaluate_IdempotentePorUnidad verifica la deduplicación: mientras exista
// una alerta abierta (pending o acknowledged) para la unidad, evaluar de nuevo
// no crea otra.
func TestEvaluate_IdempotentePorUnidad(t *testing.T) {
	f := newAlertFixture()
	f.stockRepo.units = []retail.UnitStock{lowUnit("B-001", "prod-1", "", 1, 5)}
	ctx := context.Background()

	first, err := f.uc.Evaluate(ctx, "fac-1")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := f.uc.Evaluate(ctx, "fac-1")
	require.NoError(t, err)
	assert.Empty(t, second, "la segunda evaluación no debe duplicar la alerta abierta")

	// acknowledged sigue siendo abierta: tampoco duplica
	_, err = f.uc.Acknowledge(ctx, "fac-1", "user-1", first[0].ID)
	require.NoError(t, err)
	third, err := f.uc.Evaluate(ctx, "fac-1")
	require.NoError(t, err)
	assert.Empty(t, third)

	// resuelta deja de bloquear: si el stock sigue bajo, nace una alerta nueva
	_, err = f.uc.Resolve(ctx, "fac-1", "user-1", first[0].ID)
	require.NoError(t, err)
	fourth, err := f.uc.Evaluate(ctx, "fac-1")
	require.NoError(t, err)
	require.Len(t, fourth, 1)
	assert.NotEqual(t, first[0].ID, fourth[0].ID)
}

// TestEvaluate_NoSeCierraSola documenta que la recuperación del stock NO
// resuelve la alerta: sigue abierta hasta que alguien la cierre a mano.
func TestEvaluate_NoSeCierraSola(t *testing.T) {
	f := newAlertFixture()
	f.stockRepo.units = []retail.UnitStock{lowUnit("C-001", "prod-1", "", 1, 5)}
	ctx := context.Background()

	created, err := f.uc.Evaluate(ctx, "fac-1")
	require.NoError(t, err)
	require.Len(t, created, 1)

	// llega mercadería: el stock se recupera
	f.stockRepo.units = []retail.UnitStock{lowUnit("C-001", "prod-1", "", 20, 5)}
	_, err = f.uc.Evaluate(ctx, "fac-1")
	require.NoError(t, err)

	open, err := f.alertRepo.GetOpenByUnit("fac-1", "prod-1", "")
	require.NoError(t, err)
	require.NotNil(t, open, "la alerta debe seguir abierta aunque el stock se recuperó")
	assert.Equal(t, entity.AlertStatusPending, open.Status)
}

func TestAcknowledge_SoloPending(t *testing.T) {
	f := newAlertFixture()
	f.stockRepo.units = []retail.UnitStock{lowUnit("D-001", "prod-1", "", 0, 5)}
	ctx := context.Background()

	created, err := f.uc.Evaluate(ctx, "fac-1")
	require.NoError(t, err)

	ack, err := f.uc.Acknowledge(ctx, "fac-1", "user-1", created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusAcknowledged, ack.Status)
	assert.Equal(t, "user-1", ack.AcknowledgedBy)
	assert.NotEmpty(t, ack.AcknowledgedAt)

	_, err = f.uc.Acknowledge(ctx, "fac-1", "user-2", created[0].ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "acknowledged no se puede volver a reconocer")
}

func TestResolve_CierraDefinitivamente(t *testing.T) {
	f := newAlertFixture()
	f.stockRepo.units = []retail.UnitStock{lowUnit("E-001", "prod-1", "", 0, 5)}
	ctx := context.Background()

	created, err := f.uc.Evaluate(ctx, "fac-1")
	require.NoError(t, err)

	resolved, err := f.uc.Resolve(ctx, "fac-1", "manager-1", created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusResolved, resolved.Status)
	assert.Equal(t, "manager-1", resolved.ResolvedBy)

	_, err = f.uc.Resolve(ctx, "fac-1", "manager-1", created[0].ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAlerts_PropiedadPorSede(t *testing.T) {
	f := newAlertFixture()
	f.stockRepo.units = []retail.UnitStock{lowUnit("F-001", "prod-1", "", 0, 5)}

	created, err := f.uc.Evaluate(context.Background(), "fac-1")
	require.NoError(t, err)

	_, err = f.uc.Acknowledge(context.Background(), "fac-2", "user-1", created[0].ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListAlerts_FiltroDeEstado(t *testing.T) {
	f := newAlertFixture()
	f.stockRepo.units = []retail.UnitStock{
		lowUnit("G-001", "prod-1", "", 0, 5),
		lowUnit("G-002", "prod-2", "", 1, 5),
	}
	ctx := context.Background()

	created, err := f.uc.Evaluate(ctx, "fac-1")
	require.NoError(t, err)
	require.Len(t, created, 2)
	_, err = f.uc.Acknowledge(ctx, "fac-1", "u", created[0].ID)
	require.NoError(t, err)

	pending, err := f.uc.ListAlerts(ctx, "fac-1", entity.AlertStatusPending, 50, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	all, err := f.uc.ListAlerts(ctx, "fac-1", "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.uc.ListAlerts(ctx, "fac-1", "weird", 50, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
