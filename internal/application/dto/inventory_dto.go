package dto

import "github.com/shopspring/decimal"

// RegisterMovementRequest body para POST /api/inventory/movements.
// Para transfer: FromFacilityID/ToFacilityID en vez de la facility del token.
type RegisterMovementRequest struct {
	ProductID      string          `json:"product_id" validate:"required"`
	VariantID      string          `json:"variant_id,omitempty"`
	Type           string          `json:"type" validate:"required,oneof=purchase adjustment return transfer"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reason         string          `json:"reason" validate:"required"`
	FromFacilityID string          `json:"from_facility_id,omitempty"`
	ToFacilityID   string          `json:"to_facility_id,omitempty"`
}

// AdjustmentRequest body para POST /api/inventory/adjustments (corrección manual).
type AdjustmentRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	VariantID string          `json:"variant_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"` // delta con signo
	Reason    string          `json:"reason" validate:"required"`
}

// MovementResponse entrada del ledger en respuestas.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	VariantID     string          `json:"variant_id,omitempty"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	Reason        string          `json:"reason,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	CreatedAt     string          `json:"created_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// LowStockUnitDTO unidad en o bajo su mínimo.
type LowStockUnitDTO struct {
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id,omitempty"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	VariantDesc string          `json:"variant_desc,omitempty"`
	Stock       decimal.Decimal `json:"stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
}

// InventoryValueResponse valoración del inventario a costo y a retail.
type InventoryValueResponse struct {
	Cost   decimal.Decimal `json:"cost"`
	Retail decimal.Decimal `json:"retail"`
}
