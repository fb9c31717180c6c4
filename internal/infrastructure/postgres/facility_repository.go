package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
)

var _ repository.FacilityRepository = (*FacilityRepo)(nil)

// FacilityRepo implementación de FacilityRepository sobre PostgreSQL (usable con pool o tx).
type FacilityRepo struct {
	q Querier
}

// NewFacilityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFacilityRepository(q Querier) *FacilityRepo {
	return &FacilityRepo{q: q}
}

// Create persiste una facility.
func (r *FacilityRepo) Create(facility *entity.Facility) error {
	query := `
		INSERT INTO facilities (id, name, legal_name, tax_id, address, phone, email, timezone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		facility.ID, facility.Name, facility.LegalName, facility.TaxID, facility.Address,
		facility.Phone, facility.Email, facility.Timezone, facility.CreatedAt, facility.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert facility: %w", err)
	}
	return nil
}

// GetByID obtiene una facility por ID.
func (r *FacilityRepo) GetByID(id string) (*entity.Facility, error) {
	query := `
		SELECT id, name, legal_name, tax_id, address, phone, email, timezone, created_at, updated_at
		FROM facilities WHERE id = $1`
	var f entity.Facility
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&f.ID, &f.Name, &f.LegalName, &f.TaxID, &f.Address, &f.Phone, &f.Email,
		&f.Timezone, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get facility: %w", err)
	}
	return &f, nil
}

// List lista facilities con paginación.
func (r *FacilityRepo) List(limit, offset int) ([]*entity.Facility, error) {
	query := `
		SELECT id, name, legal_name, tax_id, address, phone, email, timezone, created_at, updated_at
		FROM facilities ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	defer rows.Close()
	var list []*entity.Facility
	for rows.Next() {
		var f entity.Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.LegalName, &f.TaxID, &f.Address, &f.Phone,
			&f.Email, &f.Timezone, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan facility: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}
