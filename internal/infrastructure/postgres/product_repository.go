package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/petcare-pos/internal/domain"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, facility_id, sku, barcode, name, description, category, brand,
	price, cost, taxable, tax_rate, status, has_variants, min_stock, max_stock,
	visible_online, created_at, updated_at`

// Create persiste un nuevo producto. SKU único por facility.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.FacilityID, product.SKU, product.Barcode, product.Name,
		product.Description, product.Category, product.Brand, product.Price, product.Cost,
		product.Taxable, product.TaxRate, product.Status, product.HasVariants,
		product.MinStock, product.MaxStock, product.VisibleOnline,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByFacilityAndSKU obtiene un producto por facility y SKU.
func (r *ProductRepo) GetByFacilityAndSKU(facilityID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE facility_id = $1 AND sku = $2`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, facilityID, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update actualiza datos de catálogo. El stock no vive en esta tabla.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, category = $4, brand = $5,
			price = $6, taxable = $7, tax_rate = $8, status = $9, has_variants = $10,
			min_stock = $11, max_stock = $12, visible_online = $13, updated_at = $14
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.Category, product.Brand,
		product.Price, product.Taxable, product.TaxRate, product.Status, product.HasVariants,
		product.MinStock, product.MaxStock, product.VisibleOnline, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// ListByFacility lista productos de una facility con paginación.
func (r *ProductRepo) ListByFacility(facilityID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE facility_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, facilityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.FacilityID, &p.SKU, &p.Barcode, &p.Name, &p.Description, &p.Category,
		&p.Brand, &p.Price, &p.Cost, &p.Taxable, &p.TaxRate, &p.Status, &p.HasVariants,
		&p.MinStock, &p.MaxStock, &p.VisibleOnline, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
