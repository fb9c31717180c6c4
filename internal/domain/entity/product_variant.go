package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de variante soportados.
const (
	VariantTypeSize   = "size"
	VariantTypeColor  = "color"
	VariantTypeFlavor = "flavor"
	VariantTypeWeight = "weight"
)

// ProductVariant es un SKU concreto de un producto (talla/color/sabor/peso),
// con su propio precio, costo y umbrales de stock. Pertenece exclusivamente a su Product.
type ProductVariant struct {
	ID           string
	ProductID    string
	FacilityID   string
	SKU          string
	Barcode      string
	VariantType  string // size | color | flavor | weight
	VariantValue string // "15kg", "Rojo", "Salmón"...
	Price        decimal.Decimal
	Cost         decimal.Decimal
	MinStock     decimal.Decimal
	MaxStock     decimal.Decimal
	Status       string // active | inactive | discontinued
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
