package entity

import "time"

// Supplier representa un proveedor de mercadería. Ciclo de vida independiente;
// las órdenes de compra lo referencian por ID.
type Supplier struct {
	ID          string
	FacilityID  string
	Name        string
	ContactName string
	Phone       string
	Email       string
	Status      string // active | inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
