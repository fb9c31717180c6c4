package dto

import "github.com/shopspring/decimal"

// AlertResponse alerta de stock bajo en respuestas.
type AlertResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	VariantID      string          `json:"variant_id,omitempty"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	MinStock       decimal.Decimal `json:"min_stock"`
	Status         string          `json:"status"`
	AcknowledgedBy string          `json:"acknowledged_by,omitempty"`
	AcknowledgedAt string          `json:"acknowledged_at,omitempty"`
	ResolvedBy     string          `json:"resolved_by,omitempty"`
	ResolvedAt     string          `json:"resolved_at,omitempty"`
	CreatedAt      string          `json:"created_at"`
}
