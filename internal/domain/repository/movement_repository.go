package repository

import (
	"time"

	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de movimientos.
// Solo inserta y lee: las entradas son inmutables (no hay Update ni Delete).
type MovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	GetByID(id string) (*entity.InventoryMovement, error)
	ListByUnit(facilityID, productID, variantID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByFacility(facilityID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
}
