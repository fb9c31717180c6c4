package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una alerta de stock bajo: pending → acknowledged → resolved.
// La resolución es manual: la alerta NO se cierra sola cuando el stock se recupera.
const (
	AlertStatusPending      = "pending"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusResolved     = "resolved"
)

// LowStockAlert marca que una unidad (producto o variante) cayó a o por debajo
// de su stock mínimo. Como máximo existe una alerta abierta (pending/acknowledged)
// por unidad; la evaluación repetida no duplica.
type LowStockAlert struct {
	ID             string
	FacilityID     string
	ProductID      string
	VariantID      string // vacío = alerta a nivel de producto
	CurrentStock   decimal.Decimal // snapshot al crearla
	MinStock       decimal.Decimal // umbral vigente al crearla
	Status         string
	AcknowledgedBy string
	AcknowledgedAt *time.Time
	ResolvedBy     string
	ResolvedAt     *time.Time
	CreatedAt      time.Time
}

// IsOpen indica si la alerta sigue activa para efectos de deduplicación.
func (a *LowStockAlert) IsOpen() bool {
	return a.Status == AlertStatusPending || a.Status == AlertStatusAcknowledged
}
