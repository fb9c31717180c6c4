package retail

import "github.com/shopspring/decimal"

// UnitStock es la vista plana de una unidad vendible (producto sin variantes,
// o variante) con su stock actual. Es el insumo de la agregación de stock:
// para productos con variantes el snapshot trae SOLO las filas de variante,
// nunca una fila del producto padre, así la valoración no puede duplicar.
type UnitStock struct {
	ProductID   string
	VariantID   string // vacío = unidad a nivel de producto
	ProductName string
	SKU         string // SKU de la unidad (del producto o de la variante)
	VariantDesc string // "size 15kg", vacío para unidades de producto
	Status      string // estado de la unidad (producto o variante)
	Stock       decimal.Decimal
	MinStock    decimal.Decimal
	Price       decimal.Decimal
	Cost        decimal.Decimal
}

// IsVariant indica si la unidad corresponde a una variante.
func (u UnitStock) IsVariant() bool { return u.VariantID != "" }
