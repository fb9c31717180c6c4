package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/petcare-pos/internal/application/dto"
	"github.com/tu-usuario/petcare-pos/internal/domain"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
	"github.com/tu-usuario/petcare-pos/pkg/config"
	"github.com/tu-usuario/petcare-pos/pkg/jwt"
)

// AuthUseCase registro y autenticación de usuarios de staff.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	facilityRepo repository.FacilityRepository
	jwtCfg       config.JWTConfig
}

// NewAuthUseCase construye el caso de uso.
func NewAuthUseCase(userRepo repository.UserRepository, facilityRepo repository.FacilityRepository, jwtCfg config.JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, facilityRepo: facilityRepo, jwtCfg: jwtCfg}
}

// Register crea un usuario de staff en la facility. El email es único por
// facility; duplicado falla con ErrEmailAlreadyExists. Sin rol explícito se
// asigna cajero.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	facility, err := uc.facilityRepo.GetByID(in.FacilityID)
	if err != nil || facility == nil {
		return nil, domain.ErrNotFound
	}

	existing, err := uc.userRepo.GetByEmailAndFacility(in.Email, in.FacilityID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	role := in.Role
	if role == "" {
		role = entity.RoleCajero
	}
	switch role {
	case entity.RoleAdmin, entity.RoleGerente, entity.RoleCajero:
	default:
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		FacilityID:   in.FacilityID,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica credenciales y emite el JWT con user, facility y rol.
// Credenciales inválidas y usuario inactivo responden igual: ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.FacilityID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.Expiration)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

func toUserResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:         user.ID,
		FacilityID: user.FacilityID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		Status:     user.Status,
	}
}
