package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto. Nunca se elimina físicamente: el retiro es la transición a discontinued.
const (
	ProductStatusActive       = "active"
	ProductStatusInactive     = "inactive"
	ProductStatusDiscontinued = "discontinued"
)

// Product representa un artículo del catálogo retail (alimento, juguete, accesorio).
// Si HasVariants es true el producto NO tiene fila de stock propia: su stock agregado
// es siempre la suma de las filas de sus variantes (derivado, nunca almacenado).
type Product struct {
	ID            string
	FacilityID    string
	SKU           string // código único por facility
	Barcode       string
	Name          string
	Description   string
	Category      string
	Brand         string
	Price         decimal.Decimal // precio de venta
	Cost          decimal.Decimal // costo unitario
	Taxable       bool
	TaxRate       decimal.Decimal // fracción: 0.19 = 19%
	Status        string
	HasVariants   bool
	MinStock      decimal.Decimal // umbral de alerta de stock bajo (solo sin variantes)
	MaxStock      decimal.Decimal
	VisibleOnline bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsSellable indica si el producto admite ventas.
func (p *Product) IsSellable() bool {
	return p.Status == ProductStatusActive
}
