package repository

import (
	"context"

	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/retail"
)

// StockRepository define el puerto para consultar/actualizar stock por unidad
// (facility + producto + variante). Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(facilityID, productID, variantID string) (*entity.StockLevel, error)
	Upsert(level *entity.StockLevel) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(facilityID, productID, variantID string) (*entity.StockLevel, error)

	// ListUnitStocks devuelve el snapshot plano de unidades vendibles de la facility:
	// una fila por variante para productos con variantes, una fila por producto si no.
	// Es el insumo de retail.LowStockUnits y retail.ComputeInventoryValue.
	ListUnitStocks(ctx context.Context, facilityID string) ([]retail.UnitStock, error)
}
