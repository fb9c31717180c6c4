package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `id, facility_id, product_id, variant_id, current_stock, min_stock,
	status, acknowledged_by, acknowledged_at, resolved_by, resolved_at, created_at`

// Create persiste una alerta.
func (r *AlertRepo) Create(alert *entity.LowStockAlert) error {
	query := `
		INSERT INTO low_stock_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.FacilityID, alert.ProductID, alert.VariantID,
		alert.CurrentStock, alert.MinStock, alert.Status,
		nullIfEmpty(alert.AcknowledgedBy), alert.AcknowledgedAt,
		nullIfEmpty(alert.ResolvedBy), alert.ResolvedAt, alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID.
func (r *AlertRepo) GetByID(id string) (*entity.LowStockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM low_stock_alerts WHERE id = $1`
	a, err := scanAlert(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// GetOpenByUnit devuelve la alerta pending/acknowledged de la unidad, o nil.
func (r *AlertRepo) GetOpenByUnit(facilityID, productID, variantID string) (*entity.LowStockAlert, error) {
	query := `SELECT ` + alertColumns + `
		FROM low_stock_alerts
		WHERE facility_id = $1 AND product_id = $2 AND variant_id = $3
		  AND status IN ('pending', 'acknowledged')
		LIMIT 1`
	a, err := scanAlert(r.q.QueryRow(context.Background(), query, facilityID, productID, variantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open alert: %w", err)
	}
	return a, nil
}

// Update actualiza estado y marcas de ack/resolución.
func (r *AlertRepo) Update(alert *entity.LowStockAlert) error {
	query := `
		UPDATE low_stock_alerts SET status = $2, acknowledged_by = $3, acknowledged_at = $4,
			resolved_by = $5, resolved_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.Status, nullIfEmpty(alert.AcknowledgedBy), alert.AcknowledgedAt,
		nullIfEmpty(alert.ResolvedBy), alert.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	return nil
}

// ListByFacility lista alertas; status vacío = todas.
func (r *AlertRepo) ListByFacility(facilityID, status string, limit, offset int) ([]*entity.LowStockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM low_stock_alerts WHERE facility_id = $1`
	args := []any{facilityID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.LowStockAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAlert(row pgx.Row) (*entity.LowStockAlert, error) {
	var a entity.LowStockAlert
	var ackBy, resBy *string
	err := row.Scan(
		&a.ID, &a.FacilityID, &a.ProductID, &a.VariantID, &a.CurrentStock, &a.MinStock,
		&a.Status, &ackBy, &a.AcknowledgedAt, &resBy, &a.ResolvedAt, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if ackBy != nil {
		a.AcknowledgedBy = *ackBy
	}
	if resBy != nil {
		a.ResolvedBy = *resBy
	}
	return &a, nil
}
