package repository

import "github.com/tu-usuario/petcare-pos/internal/domain/entity"

// UserRepository define el puerto de persistencia para usuarios de staff.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndFacility(email, facilityID string) (*entity.User, error)
}
