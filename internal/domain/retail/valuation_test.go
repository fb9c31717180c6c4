package retail_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/petcare-pos/internal/domain/retail"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de los servicios puros de agregación de stock: alerta de stock bajo y
// valoración de inventario. Operan sobre un snapshot []UnitStock, así que se
// ejercitan sin base de datos.
// ──────────────────────────────────────────────────────────────────────────────

func unit(sku string, stock, minStock, price, cost float64) retail.UnitStock {
	return retail.UnitStock{
		ProductID: "prod-" + sku,
		SKU:       sku,
		Status:    "active",
		Stock:     decimal.NewFromFloat(stock),
		MinStock:  decimal.NewFromFloat(minStock),
		Price:     decimal.NewFromFloat(price),
		Cost:      decimal.NewFromFloat(cost),
	}
}

func TestLowStockUnits_UmbralInclusivo(t *testing.T) {
	snapshot := []retail.UnitStock{
		unit("A-001", 3, 5, 10, 6),  // bajo el mínimo → alerta
		unit("A-002", 5, 5, 10, 6),  // exactamente en el mínimo → alerta
		unit("A-003", 6, 5, 10, 6),  // sobre el mínimo → no alerta
		unit("A-004", 0, 0, 10, 6),  // stock 0 con mínimo 0 → alerta (0 <= 0)
	}

	low := retail.LowStockUnits(snapshot)

	require.Len(t, low, 3, "deben alertar las unidades con stock <= mínimo")
	assert.Equal(t, "A-001", low[0].SKU)
	assert.Equal(t, "A-002", low[1].SKU)
	assert.Equal(t, "A-004", low[2].SKU)
}

func TestLowStockUnits_IgnoraInactivas(t *testing.T) {
	discontinued := unit("B-001", 0, 5, 10, 6)
	discontinued.Status = "discontinued"
	inactive := unit("B-002", 0, 5, 10, 6)
	inactive.Status = "inactive"

	low := retail.LowStockUnits([]retail.UnitStock{discontinued, inactive})
	assert.Empty(t, low, "unidades discontinuadas o inactivas no deben alertar")
}

// TestLowStockUnits_Idempotente verifica que evaluar el mismo snapshot dos
// veces produce el mismo resultado, en el mismo orden.
func TestLowStockUnits_Idempotente(t *testing.T) {
	snapshot := []retail.UnitStock{
		unit("C-003", 1, 5, 10, 6),
		unit("C-001", 2, 5, 10, 6),
		unit("C-002", 0, 5, 10, 6),
	}

	first := retail.LowStockUnits(snapshot)
	second := retail.LowStockUnits(snapshot)

	assert.Equal(t, first, second, "el mismo snapshot siempre produce el mismo resultado")
	require.Len(t, first, 3)
	assert.Equal(t, "C-001", first[0].SKU, "la salida debe venir ordenada por SKU")
}

// TestLowStockUnits_RecuperacionDeStock recorre el ciclo típico: una unidad
// con mínimo 5 cae a stock 3 (alerta), recibe una compra de +10 y deja de
// alertar en la siguiente evaluación.
func TestLowStockUnits_RecuperacionDeStock(t *testing.T) {
	u := unit("D-001", 3, 5, 10, 6)
	require.Len(t, retail.LowStockUnits([]retail.UnitStock{u}), 1,
		"con stock 3 y mínimo 5 la unidad debe alertar")

	u.Stock = u.Stock.Add(decimal.NewFromInt(10)) // recepción de compra
	assert.Empty(t, retail.LowStockUnits([]retail.UnitStock{u}),
		"con stock 13 y mínimo 5 la unidad ya no debe alertar")
}

func TestComputeInventoryValue_SumaCostoYPrecio(t *testing.T) {
	snapshot := []retail.UnitStock{
		unit("E-001", 10, 0, 24.99, 14.50), // 249.90 / 145.00
		unit("E-002", 3, 0, 8.00, 5.25),    // 24.00 / 15.75
	}

	v := retail.ComputeInventoryValue(snapshot)

	assert.True(t, decimal.NewFromFloat(160.75).Equal(v.Cost),
		"valor a costo esperado 160.75, obtenido %s", v.Cost)
	assert.True(t, decimal.NewFromFloat(273.90).Equal(v.Retail),
		"valor a precio esperado 273.90, obtenido %s", v.Retail)
}

func TestComputeInventoryValue_SnapshotVacio(t *testing.T) {
	v := retail.ComputeInventoryValue(nil)
	assert.True(t, v.Cost.IsZero())
	assert.True(t, v.Retail.IsZero())
}

// TestComputeInventoryValue_VariantesNoDuplican refleja el contrato del
// snapshot: un producto con variantes aporta SOLO sus filas de variante, por
// lo que la valoración es la suma de las variantes y nada más.
func TestComputeInventoryValue_VariantesNoDuplican(t *testing.T) {
	v15 := unit("F-001-15KG", 4, 2, 30, 18)
	v15.VariantID = "var-15"
	v15.VariantDesc = "size 15kg"
	v3 := unit("F-001-3KG", 7, 2, 12, 7)
	v3.VariantID = "var-3"
	v3.VariantDesc = "size 3kg"

	v := retail.ComputeInventoryValue([]retail.UnitStock{v15, v3})

	// 4*18 + 7*7 = 121 a costo; 4*30 + 7*12 = 204 a precio
	assert.True(t, decimal.NewFromInt(121).Equal(v.Cost))
	assert.True(t, decimal.NewFromInt(204).Equal(v.Retail))
	assert.True(t, v15.IsVariant())
}
