package entity

import "time"

// Roles de staff.
const (
	RoleAdmin   = "admin"
	RoleGerente = "gerente"
	RoleCajero  = "cajero"
)

// User representa un usuario de staff de una facility.
type User struct {
	ID           string
	FacilityID   string
	Email        string
	PasswordHash string
	Name         string
	Role         string // admin | gerente | cajero
	Status       string // active | inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
