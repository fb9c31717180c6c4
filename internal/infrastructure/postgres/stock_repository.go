package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
	"github.com/tu-usuario/petcare-pos/internal/domain/retail"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// La clave es (facility_id, product_id, variant_id), con variant_id = '' para
// productos sin variantes.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de una unidad. Sin fila devuelve cantidad cero.
func (r *StockRepo) Get(facilityID, productID, variantID string) (*entity.StockLevel, error) {
	query := `
		SELECT facility_id, product_id, variant_id, quantity, updated_at
		FROM stock_levels WHERE facility_id = $1 AND product_id = $2 AND variant_id = $3`
	var s entity.StockLevel
	err := r.q.QueryRow(context.Background(), query, facilityID, productID, variantID).Scan(
		&s.FacilityID, &s.ProductID, &s.VariantID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLevel{FacilityID: facilityID, ProductID: productID, VariantID: variantID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad de la unidad.
func (r *StockRepo) Upsert(level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (facility_id, product_id, variant_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (facility_id, product_id, variant_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, level.FacilityID, level.ProductID, level.VariantID, level.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE). Sin fila
// devuelve cantidad cero; el primer Upsert la crea dentro de la misma tx.
func (r *StockRepo) GetForUpdate(facilityID, productID, variantID string) (*entity.StockLevel, error) {
	query := `
		SELECT facility_id, product_id, variant_id, quantity, updated_at
		FROM stock_levels WHERE facility_id = $1 AND product_id = $2 AND variant_id = $3
		FOR UPDATE`
	var s entity.StockLevel
	err := r.q.QueryRow(context.Background(), query, facilityID, productID, variantID).Scan(
		&s.FacilityID, &s.ProductID, &s.VariantID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLevel{FacilityID: facilityID, ProductID: productID, VariantID: variantID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// ListUnitStocks devuelve el snapshot plano de unidades vendibles de la facility:
// filas de variante para productos con variantes, fila de producto para el resto.
// El producto padre de un producto con variantes nunca aparece (evita doble conteo).
func (r *StockRepo) ListUnitStocks(ctx context.Context, facilityID string) ([]retail.UnitStock, error) {
	query := `
		SELECT p.id, v.id, p.name, v.sku, v.variant_type || ' ' || v.variant_value, v.status,
		       COALESCE(s.quantity, 0), v.min_stock, v.price, v.cost
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		LEFT JOIN stock_levels s ON s.facility_id = $1 AND s.product_id = p.id AND s.variant_id = v.id
		WHERE p.facility_id = $1 AND p.has_variants = true
		UNION ALL
		SELECT p.id, '', p.name, p.sku, '', p.status,
		       COALESCE(s.quantity, 0), p.min_stock, p.price, p.cost
		FROM products p
		LEFT JOIN stock_levels s ON s.facility_id = $1 AND s.product_id = p.id AND s.variant_id = ''
		WHERE p.facility_id = $1 AND p.has_variants = false`
	rows, err := r.q.Query(ctx, query, facilityID)
	if err != nil {
		return nil, fmt.Errorf("list unit stocks: %w", err)
	}
	defer rows.Close()
	var units []retail.UnitStock
	for rows.Next() {
		var u retail.UnitStock
		if err := rows.Scan(&u.ProductID, &u.VariantID, &u.ProductName, &u.SKU, &u.VariantDesc,
			&u.Status, &u.Stock, &u.MinStock, &u.Price, &u.Cost); err != nil {
			return nil, fmt.Errorf("scan unit stock: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}
