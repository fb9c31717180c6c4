package entity

import "time"

// Facility representa una sede de cuidado de mascotas (tenant).
// Todos los registros de catálogo, stock y ventas pertenecen a una facility.
type Facility struct {
	ID        string
	Name      string
	LegalName string
	TaxID     string
	Address   string
	Phone     string
	Email     string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
