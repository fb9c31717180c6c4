package repository

import (
	"time"

	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas POS.
type SaleRepository interface {
	// Create persiste la venta con sus ítems y pagos.
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	// LockDailySequence serializa el consecutivo diario de la facility. Debe
	// llamarse dentro de la transacción de creación, antes de contar: dos ventas
	// concurrentes con carritos disjuntos no comparten bloqueos de fila y sin
	// este candado leerían el mismo conteo.
	LockDailySequence(facilityID string, day time.Time) error
	// CountByDateRange cuenta ventas de la facility en [from, to). Ejecutado dentro
	// de la transacción de creación para derivar el consecutivo diario.
	CountByDateRange(facilityID string, from, to time.Time) (int, error)
	UpdateStatus(id, status string, updatedAt time.Time) error
	ListByFacility(facilityID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
}
