package dto

import "github.com/shopspring/decimal"

// SaleItemRequest línea del carrito.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	VariantID string           `json:"variant_id,omitempty"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"` // nil = precio de catálogo
	Discount  decimal.Decimal  `json:"discount"`             // monto absoluto por línea
}

// PaymentRequest una porción del pago dividido.
type PaymentRequest struct {
	Method string          `json:"method" validate:"required,oneof=cash card transfer credit"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Items        []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Payments     []PaymentRequest  `json:"payments" validate:"required,min=1,dive"`
	CustomerName string            `json:"customer_name,omitempty"`
}

// RefundSaleRequest body para POST /api/sales/:id/refund (y void).
type RefundSaleRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// SaleItemResponse línea de la venta en respuestas.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// PaymentResponse porción de pago en respuestas.
type PaymentResponse struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleResponse venta POS en respuestas.
type SaleResponse struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	Items         []SaleItemResponse `json:"items"`
	Payments      []PaymentResponse  `json:"payments"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	DiscountTotal decimal.Decimal    `json:"discount_total"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	Total         decimal.Decimal    `json:"total"`
	CustomerName  string             `json:"customer_name,omitempty"`
	CashierID     string             `json:"cashier_id"`
	Status        string             `json:"status"`
	CreatedAt     string             `json:"created_at"`
}
