package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products.
// InitialStock (opcional) entra al ledger como movimiento adjustment, nunca como escritura directa.
type CreateProductRequest struct {
	SKU           string           `json:"sku" validate:"required"`
	Barcode       string           `json:"barcode,omitempty"`
	Name          string           `json:"name" validate:"required"`
	Description   string           `json:"description,omitempty"`
	Category      string           `json:"category,omitempty"`
	Brand         string           `json:"brand,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	Cost          decimal.Decimal  `json:"cost"`
	Taxable       bool             `json:"taxable"`
	TaxRate       decimal.Decimal  `json:"tax_rate"`
	MinStock      decimal.Decimal  `json:"min_stock"`
	MaxStock      decimal.Decimal  `json:"max_stock"`
	VisibleOnline bool             `json:"visible_online"`
	InitialStock  *decimal.Decimal `json:"initial_stock,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id.
// Status admite active | inactive | discontinued; el stock no se toca por aquí.
type UpdateProductRequest struct {
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category,omitempty"`
	Brand         string          `json:"brand,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Taxable       bool            `json:"taxable"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	MinStock      decimal.Decimal `json:"min_stock"`
	MaxStock      decimal.Decimal `json:"max_stock"`
	Status        string          `json:"status" validate:"omitempty,oneof=active inactive discontinued"`
	VisibleOnline bool            `json:"visible_online"`
}

// CreateVariantRequest body para POST /api/products/:id/variants.
type CreateVariantRequest struct {
	SKU          string           `json:"sku" validate:"required"`
	Barcode      string           `json:"barcode,omitempty"`
	VariantType  string           `json:"variant_type" validate:"required,oneof=size color flavor weight"`
	VariantValue string           `json:"variant_value" validate:"required"`
	Price        decimal.Decimal  `json:"price"`
	Cost         decimal.Decimal  `json:"cost"`
	MinStock     decimal.Decimal  `json:"min_stock"`
	MaxStock     decimal.Decimal  `json:"max_stock"`
	InitialStock *decimal.Decimal `json:"initial_stock,omitempty"`
}

// VariantResponse variante en respuestas.
type VariantResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode,omitempty"`
	VariantType  string          `json:"variant_type"`
	VariantValue string          `json:"variant_value"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	MinStock     decimal.Decimal `json:"min_stock"`
	MaxStock     decimal.Decimal `json:"max_stock"`
	Status       string          `json:"status"`
}

// ProductResponse producto en respuestas; Stock es el agregado derivado
// (suma de variantes cuando has_variants, fila propia si no).
type ProductResponse struct {
	ID            string            `json:"id"`
	SKU           string            `json:"sku"`
	Barcode       string            `json:"barcode,omitempty"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Category      string            `json:"category,omitempty"`
	Brand         string            `json:"brand,omitempty"`
	Price         decimal.Decimal   `json:"price"`
	Cost          decimal.Decimal   `json:"cost"`
	Taxable       bool              `json:"taxable"`
	TaxRate       decimal.Decimal   `json:"tax_rate"`
	Status        string            `json:"status"`
	HasVariants   bool              `json:"has_variants"`
	Stock         decimal.Decimal   `json:"stock"`
	MinStock      decimal.Decimal   `json:"min_stock"`
	MaxStock      decimal.Decimal   `json:"max_stock"`
	VisibleOnline bool              `json:"visible_online"`
	Variants      []VariantResponse `json:"variants,omitempty"`
}
