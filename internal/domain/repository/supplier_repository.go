package repository

import "github.com/tu-usuario/petcare-pos/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	ListByFacility(facilityID string, limit, offset int) ([]*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
}
