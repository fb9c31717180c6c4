package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta POS.
const (
	SaleStatusCompleted = "completed"
	SaleStatusRefunded  = "refunded"
	SaleStatusVoided    = "voided"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCredit   = "credit"
)

// Sale es una venta POS completada (o reversada). Invariantes:
// Subtotal - DiscountTotal + TaxTotal = Total, y la suma de Payments = Total.
// Number es consecutivo por facility y por día: TXN-YYYYMMDD-NNN.
type Sale struct {
	ID            string
	FacilityID    string
	Number        string
	Items         []SaleItem
	Payments      []Payment
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	Total         decimal.Decimal
	CustomerName  string // opcional: dueño de la mascota
	CashierID     string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleItem es una línea de la venta con snapshot de precio y descripción al momento de vender.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	VariantID   string // vacío = producto sin variantes
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal // monto absoluto sobre la línea
	TaxRate     decimal.Decimal
	LineTotal   decimal.Decimal // Quantity*UnitPrice - Discount
}

// Payment es una porción del pago de la venta (pago dividido).
type Payment struct {
	ID     string
	SaleID string
	Method string // cash | card | transfer | credit
	Amount decimal.Decimal
}
