package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta con sus ítems y pagos. Llamado siempre dentro de la
// transacción de CreateSale.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, facility_id, number, subtotal, discount_total, tax_total, total,
			customer_name, cashier_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		sale.ID, sale.FacilityID, sale.Number, sale.Subtotal, sale.DiscountTotal,
		sale.TaxTotal, sale.Total, sale.CustomerName, sale.CashierID, sale.Status,
		sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, it := range sale.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, variant_id, description,
				quantity, unit_price, discount, tax_rate, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			it.ID, it.SaleID, it.ProductID, it.VariantID, it.Description,
			it.Quantity, it.UnitPrice, it.Discount, it.TaxRate, it.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	for _, p := range sale.Payments {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_payments (id, sale_id, method, amount)
			VALUES ($1, $2, $3, $4)`,
			p.ID, p.SaleID, p.Method, p.Amount,
		)
		if err != nil {
			return fmt.Errorf("insert sale payment: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta con ítems y pagos.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	ctx := context.Background()
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		SELECT id, facility_id, number, subtotal, discount_total, tax_total, total,
			customer_name, cashier_id, status, created_at, updated_at
		FROM sales WHERE id = $1`, id).Scan(
		&s.ID, &s.FacilityID, &s.Number, &s.Subtotal, &s.DiscountTotal, &s.TaxTotal,
		&s.Total, &s.CustomerName, &s.CashierID, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(ctx, &s); err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LockDailySequence toma un advisory lock de transacción sobre el consecutivo
// diario de la facility. Se libera solo al terminar la tx, así el conteo y el
// insert del número ocurren sin otra venta numerándose en medio.
func (r *SaleRepo) LockDailySequence(facilityID string, day time.Time) error {
	key := "sales:" + facilityID + ":" + day.Format("20060102")
	_, err := r.q.Exec(context.Background(),
		`SELECT pg_advisory_xact_lock(hashtext($1))`, key)
	if err != nil {
		return fmt.Errorf("lock daily sale sequence: %w", err)
	}
	return nil
}

// CountByDateRange cuenta ventas de la facility en [from, to).
func (r *SaleRepo) CountByDateRange(facilityID string, from, to time.Time) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM sales
		WHERE facility_id = $1 AND created_at >= $2 AND created_at < $3`,
		facilityID, from, to,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return count, nil
}

// UpdateStatus cambia el estado de la venta (refund/void).
func (r *SaleRepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sales SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	return nil
}

// ListByFacility lista ventas de la facility, sin ítems ni pagos (solo cabecera).
func (r *SaleRepo) ListByFacility(facilityID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT id, facility_id, number, subtotal, discount_total, tax_total, total,
			customer_name, cashier_id, status, created_at, updated_at
		FROM sales WHERE facility_id = $1`
	args := []any{facilityID}
	query, args = appendDateRange(query, args, from, to)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.FacilityID, &s.Number, &s.Subtotal, &s.DiscountTotal,
			&s.TaxTotal, &s.Total, &s.CustomerName, &s.CashierID, &s.Status,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *SaleRepo) loadItems(ctx context.Context, sale *entity.Sale) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, variant_id, description, quantity,
			unit_price, discount, tax_rate, line_total
		FROM sale_items WHERE sale_id = $1 ORDER BY id`, sale.ID)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.VariantID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.Discount, &it.TaxRate, &it.LineTotal); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		sale.Items = append(sale.Items, it)
	}
	return rows.Err()
}

func (r *SaleRepo) loadPayments(ctx context.Context, sale *entity.Sale) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, method, amount
		FROM sale_payments WHERE sale_id = $1 ORDER BY id`, sale.ID)
	if err != nil {
		return fmt.Errorf("list sale payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount); err != nil {
			return fmt.Errorf("scan sale payment: %w", err)
		}
		sale.Payments = append(sale.Payments, p)
	}
	return rows.Err()
}
