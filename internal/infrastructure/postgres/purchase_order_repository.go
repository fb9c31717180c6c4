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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL
// (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la orden con sus ítems.
func (r *PurchaseOrderRepo) Create(order *entity.PurchaseOrder) error {
	ctx := context.Background()
	createdBy := (*string)(nil)
	if order.CreatedBy != "" {
		createdBy = &order.CreatedBy
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (id, facility_id, number, supplier_id, status, subtotal,
			expected_date, received_at, received_by, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		order.ID, order.FacilityID, order.Number, order.SupplierID, order.Status,
		order.Subtotal, order.ExpectedDate, order.ReceivedAt, nullIfEmpty(order.ReceivedBy),
		order.CreatedAt, order.UpdatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for _, it := range order.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_items (id, purchase_order_id, product_id, variant_id,
				quantity, received_quantity, unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, it.PurchaseOrderID, it.ProductID, it.VariantID,
			it.Quantity, it.ReceivedQuantity, it.UnitCost,
		)
		if err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden con sus ítems.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	ctx := context.Background()
	var o entity.PurchaseOrder
	var receivedBy, createdBy *string
	err := r.q.QueryRow(ctx, `
		SELECT id, facility_id, number, supplier_id, status, subtotal,
			expected_date, received_at, received_by, created_at, updated_at, created_by
		FROM purchase_orders WHERE id = $1`, id).Scan(
		&o.ID, &o.FacilityID, &o.Number, &o.SupplierID, &o.Status, &o.Subtotal,
		&o.ExpectedDate, &o.ReceivedAt, &receivedBy, &o.CreatedAt, &o.UpdatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if receivedBy != nil {
		o.ReceivedBy = *receivedBy
	}
	if createdBy != nil {
		o.CreatedBy = *createdBy
	}
	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// LockDailySequence toma un advisory lock de transacción sobre el consecutivo
// diario de órdenes de la facility; se libera al terminar la tx.
func (r *PurchaseOrderRepo) LockDailySequence(facilityID string, day time.Time) error {
	key := "purchase_orders:" + facilityID + ":" + day.Format("20060102")
	_, err := r.q.Exec(context.Background(),
		`SELECT pg_advisory_xact_lock(hashtext($1))`, key)
	if err != nil {
		return fmt.Errorf("lock daily purchase order sequence: %w", err)
	}
	return nil
}

// CountByDateRange cuenta órdenes de la facility en [from, to).
func (r *PurchaseOrderRepo) CountByDateRange(facilityID string, from, to time.Time) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM purchase_orders
		WHERE facility_id = $1 AND created_at >= $2 AND created_at < $3`,
		facilityID, from, to,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count purchase orders: %w", err)
	}
	return count, nil
}

// UpdateStatus cambia el estado de la orden.
func (r *PurchaseOrderRepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchase_orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	return nil
}

// UpdateReceipt persiste cantidades recibidas por ítem más estado y datos de
// recepción. Llamado dentro de la transacción de ReceivePurchaseOrder.
func (r *PurchaseOrderRepo) UpdateReceipt(order *entity.PurchaseOrder) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET status = $2, received_at = $3, received_by = $4, updated_at = $5
		WHERE id = $1`,
		order.ID, order.Status, order.ReceivedAt, nullIfEmpty(order.ReceivedBy), order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order receipt: %w", err)
	}
	for _, it := range order.Items {
		_, err := r.q.Exec(ctx,
			`UPDATE purchase_order_items SET received_quantity = $2 WHERE id = $1`,
			it.ID, it.ReceivedQuantity,
		)
		if err != nil {
			return fmt.Errorf("update purchase order item: %w", err)
		}
	}
	return nil
}

// ListByFacility lista órdenes de la facility con sus ítems.
func (r *PurchaseOrderRepo) ListByFacility(facilityID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	ctx := context.Background()
	rows, err := r.q.Query(ctx, `
		SELECT id, facility_id, number, supplier_id, status, subtotal,
			expected_date, received_at, received_by, created_at, updated_at, created_by
		FROM purchase_orders WHERE facility_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		facilityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var o entity.PurchaseOrder
		var receivedBy, createdBy *string
		if err := rows.Scan(&o.ID, &o.FacilityID, &o.Number, &o.SupplierID, &o.Status,
			&o.Subtotal, &o.ExpectedDate, &o.ReceivedAt, &receivedBy,
			&o.CreatedAt, &o.UpdatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		if receivedBy != nil {
			o.ReceivedBy = *receivedBy
		}
		if createdBy != nil {
			o.CreatedBy = *createdBy
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *PurchaseOrderRepo) loadItems(ctx context.Context, order *entity.PurchaseOrder) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, product_id, variant_id, quantity, received_quantity, unit_cost
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY id`, order.ID)
	if err != nil {
		return fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.VariantID,
			&it.Quantity, &it.ReceivedQuantity, &it.UnitCost); err != nil {
			return fmt.Errorf("scan purchase order item: %w", err)
		}
		order.Items = append(order.Items, it)
	}
	return rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
