package repository

import "github.com/tu-usuario/petcare-pos/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// No hay Delete: el retiro de catálogo es la transición de Status a discontinued.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByFacilityAndSKU(facilityID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByFacility(facilityID string, limit, offset int) ([]*entity.Product, error)
}

// VariantRepository define el puerto de persistencia para ProductVariant.
type VariantRepository interface {
	Create(variant *entity.ProductVariant) error
	GetByID(id string) (*entity.ProductVariant, error)
	ListByProduct(productID string) ([]*entity.ProductVariant, error)
	Update(variant *entity.ProductVariant) error
}
