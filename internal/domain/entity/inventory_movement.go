package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeSale       = "sale"       // venta POS (delta negativo)
	MovementTypePurchase   = "purchase"   // recepción de orden de compra (delta positivo)
	MovementTypeAdjustment = "adjustment" // ajuste manual (cualquier signo)
	MovementTypeReturn     = "return"     // devolución / reverso de venta (delta positivo)
	MovementTypeTransfer   = "transfer"   // traslado entre facilities (par -/+)
)

// Tipos de referencia del movimiento hacia el documento que lo originó.
const (
	ReferenceTypeSale          = "sale"
	ReferenceTypePurchaseOrder = "purchase_order"
	ReferenceTypeManual        = "manual"
)

// InventoryMovement es una entrada inmutable del libro de movimientos de stock.
// Invariante: NewStock = PreviousStock + Quantity. Para las entradas de una misma
// unidad en orden cronológico, el NewStock de la entrada N es el PreviousStock de la N+1.
type InventoryMovement struct {
	ID            string
	FacilityID    string
	ProductID     string
	VariantID     string // vacío = movimiento a nivel de producto
	Type          string
	Quantity      decimal.Decimal // delta con signo
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	Reason        string
	ReferenceType string // sale | purchase_order | manual
	ReferenceID   string // ID de la venta u orden de compra que lo originó
	CreatedAt     time.Time
	CreatedBy     string
}
