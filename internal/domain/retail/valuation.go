package retail

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Servicios de dominio puros sobre un snapshot de catálogo ([]UnitStock).
// Determinísticos e idempotentes: el mismo snapshot produce el mismo resultado.

// LowStockUnits devuelve las unidades activas cuyo stock está en o por debajo
// de su mínimo (Stock <= MinStock), ordenadas por SKU para salida estable.
// Unidades discontinuadas o inactivas no alertan. Un producto con variantes
// nunca aparece como tal: el snapshot solo contiene sus variantes.
func LowStockUnits(units []UnitStock) []UnitStock {
	var out []UnitStock
	for _, u := range units {
		if u.Status != "active" {
			continue
		}
		if u.Stock.LessThanOrEqual(u.MinStock) {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// InventoryValue es la valoración del inventario a costo y a precio de venta.
type InventoryValue struct {
	Cost   decimal.Decimal
	Retail decimal.Decimal
}

// ComputeInventoryValue acumula stock*costo y stock*precio sobre las unidades.
// Suma conmutativa en decimal de punto fijo, sin deriva binaria. Las unidades
// con stock negativo no pueden existir (el ledger lo impide), pero se suman
// tal cual por si el snapshot viene de datos históricos.
func ComputeInventoryValue(units []UnitStock) InventoryValue {
	v := InventoryValue{Cost: decimal.Zero, Retail: decimal.Zero}
	for _, u := range units {
		v.Cost = v.Cost.Add(u.Stock.Mul(u.Cost))
		v.Retail = v.Retail.Add(u.Stock.Mul(u.Price))
	}
	return v
}
