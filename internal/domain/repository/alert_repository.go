package repository

import "github.com/tu-usuario/petcare-pos/internal/domain/entity"

// AlertRepository define el puerto de persistencia para alertas de stock bajo.
type AlertRepository interface {
	Create(alert *entity.LowStockAlert) error
	GetByID(id string) (*entity.LowStockAlert, error)
	// GetOpenByUnit devuelve la alerta pending/acknowledged de la unidad, o nil.
	// Sostiene la deduplicación: una sola alerta abierta por unidad.
	GetOpenByUnit(facilityID, productID, variantID string) (*entity.LowStockAlert, error)
	Update(alert *entity.LowStockAlert) error
	// ListByFacility lista alertas; status vacío = todas.
	ListByFacility(facilityID, status string, limit, offset int) ([]*entity.LowStockAlert, error)
}
