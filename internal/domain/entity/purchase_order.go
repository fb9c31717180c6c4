package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra: pending → ordered → shipped → received, o cancelled.
const (
	PurchaseOrderStatusPending   = "pending"
	PurchaseOrderStatusOrdered   = "ordered"
	PurchaseOrderStatusShipped   = "shipped"
	PurchaseOrderStatusReceived  = "received"
	PurchaseOrderStatusCancelled = "cancelled"
)

// PurchaseOrder es una orden a un proveedor. Invariantes: por ítem
// ReceivedQuantity <= Quantity; estado received implica todos los ítems reconciliados.
// Recibir mercadería es el evento que genera movimientos tipo purchase.
type PurchaseOrder struct {
	ID           string
	FacilityID   string
	Number       string // PO-YYYYMMDD-NNN
	SupplierID   string
	Status       string
	Items        []PurchaseOrderItem
	Subtotal     decimal.Decimal // suma de Quantity*UnitCost
	ExpectedDate *time.Time
	ReceivedAt   *time.Time
	ReceivedBy   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreatedBy    string
}

// PurchaseOrderItem es una línea de la orden con cantidad pedida vs recibida.
type PurchaseOrderItem struct {
	ID               string
	PurchaseOrderID  string
	ProductID        string
	VariantID        string // vacío = producto sin variantes
	Quantity         decimal.Decimal
	ReceivedQuantity decimal.Decimal
	UnitCost         decimal.Decimal
}

// FullyReceived indica si todos los ítems llegaron completos.
func (po *PurchaseOrder) FullyReceived() bool {
	for _, it := range po.Items {
		if it.ReceivedQuantity.LessThan(it.Quantity) {
			return false
		}
	}
	return len(po.Items) > 0
}
