package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel es la cantidad actual de una unidad vendible en una facility.
// VariantID vacío = fila a nivel de producto (solo productos sin variantes).
// Solo el motor de movimientos la muta; nunca se escribe directo desde handlers.
type StockLevel struct {
	FacilityID string
	ProductID  string
	VariantID  string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
