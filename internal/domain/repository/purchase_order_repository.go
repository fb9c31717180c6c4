package repository

import (
	"time"

	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	// Create persiste la orden con sus ítems.
	Create(order *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	// LockDailySequence serializa el consecutivo diario de órdenes de la facility;
	// se toma dentro de la transacción de creación, antes de contar.
	LockDailySequence(facilityID string, day time.Time) error
	CountByDateRange(facilityID string, from, to time.Time) (int, error)
	UpdateStatus(id, status string, updatedAt time.Time) error
	// UpdateReceipt actualiza cantidades recibidas por ítem, estado y datos de recepción.
	UpdateReceipt(order *entity.PurchaseOrder) error
	ListByFacility(facilityID string, limit, offset int) ([]*entity.PurchaseOrder, error)
}
