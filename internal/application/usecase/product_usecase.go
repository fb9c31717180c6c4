package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/petcare-pos/internal/application/dto"
	appinventory "github.com/tu-usuario/petcare-pos/internal/application/inventory"
	"github.com/tu-usuario/petcare-pos/internal/domain"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
)

// ProductUseCase administración del catálogo: productos y variantes.
// El stock inicial entra por el ledger (movimiento adjustment), nunca como
// escritura directa a la tabla de stock.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	stockRepo   repository.StockRepository
	txRunner    appinventory.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	stockRepo repository.StockRepository,
	txRunner appinventory.TxRunner,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		variantRepo: variantRepo,
		stockRepo:   stockRepo,
		txRunner:    txRunner,
	}
}

// Create registra un producto; SKU único por facility (ErrDuplicate).
// Si viene InitialStock, se asienta como adjustment con referencia manual.
func (uc *ProductUseCase) Create(ctx context.Context, facilityID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Price.LessThan(decimal.Zero) || in.Cost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.productRepo.GetByFacilityAndSKU(facilityID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		FacilityID:    facilityID,
		SKU:           in.SKU,
		Barcode:       in.Barcode,
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		Brand:         in.Brand,
		Price:         in.Price,
		Cost:          in.Cost,
		Taxable:       in.Taxable,
		TaxRate:       in.TaxRate,
		Status:        entity.ProductStatusActive,
		MinStock:      in.MinStock,
		MaxStock:      in.MaxStock,
		VisibleOnline: in.VisibleOnline,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}

	stock := decimal.Zero
	if in.InitialStock != nil && in.InitialStock.GreaterThan(decimal.Zero) {
		if err := uc.seedStock(ctx, facilityID, userID, product.ID, "", *in.InitialStock); err != nil {
			return nil, err
		}
		stock = *in.InitialStock
	}
	return toProductResponse(product, stock, nil), nil
}

// Update modifica datos de catálogo. El stock nunca se toca por aquí.
func (uc *ProductUseCase) Update(ctx context.Context, facilityID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(facilityID, id)
	if err != nil {
		return nil, err
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Category = in.Category
	product.Brand = in.Brand
	product.Price = in.Price
	product.Taxable = in.Taxable
	product.TaxRate = in.TaxRate
	product.MinStock = in.MinStock
	product.MaxStock = in.MaxStock
	product.VisibleOnline = in.VisibleOnline
	if in.Status != "" {
		product.Status = in.Status
	}
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	stock, variants, err := uc.derivedStock(product)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, stock, variants), nil
}

// GetByID devuelve el producto con su stock derivado y sus variantes.
func (uc *ProductUseCase) GetByID(ctx context.Context, facilityID, id string) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(facilityID, id)
	if err != nil {
		return nil, err
	}
	stock, variants, err := uc.derivedStock(product)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, stock, variants), nil
}

// List lista el catálogo de la facility con stock derivado por producto.
// Un solo snapshot de stock para evitar una consulta por producto.
func (uc *ProductUseCase) List(ctx context.Context, facilityID string, limit, offset int) ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.ListByFacility(facilityID, limit, offset)
	if err != nil {
		return nil, err
	}
	units, err := uc.stockRepo.ListUnitStocks(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	stockByProduct := make(map[string]decimal.Decimal, len(units))
	for _, u := range units {
		stockByProduct[u.ProductID] = stockByProduct[u.ProductID].Add(u.Stock)
	}

	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p, stockByProduct[p.ID], nil))
	}
	return out, nil
}

// CreateVariant agrega una variante al producto y lo marca has_variants.
// Un producto con stock propio no nulo no puede pasar a variantes: primero
// hay que ajustar su stock a cero.
func (uc *ProductUseCase) CreateVariant(ctx context.Context, facilityID, userID, productID string, in dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	product, err := uc.getOwned(facilityID, productID)
	if err != nil {
		return nil, err
	}
	if in.Price.LessThan(decimal.Zero) || in.Cost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	if !product.HasVariants {
		level, err := uc.stockRepo.Get(facilityID, productID, "")
		if err != nil {
			return nil, err
		}
		if level != nil && !level.Quantity.IsZero() {
			return nil, domain.ErrConflict
		}
	}

	siblings, err := uc.variantRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	for _, s := range siblings {
		if s.SKU == in.SKU {
			return nil, domain.ErrDuplicate
		}
	}

	now := time.Now()
	variant := &entity.ProductVariant{
		ID:           uuid.New().String(),
		ProductID:    productID,
		FacilityID:   facilityID,
		SKU:          in.SKU,
		Barcode:      in.Barcode,
		VariantType:  in.VariantType,
		VariantValue: in.VariantValue,
		Price:        in.Price,
		Cost:         in.Cost,
		MinStock:     in.MinStock,
		MaxStock:     in.MaxStock,
		Status:       entity.ProductStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.variantRepo.Create(variant); err != nil {
		return nil, err
	}

	if !product.HasVariants {
		product.HasVariants = true
		product.UpdatedAt = now
		if err := uc.productRepo.Update(product); err != nil {
			return nil, err
		}
	}

	if in.InitialStock != nil && in.InitialStock.GreaterThan(decimal.Zero) {
		if err := uc.seedStock(ctx, facilityID, userID, productID, variant.ID, *in.InitialStock); err != nil {
			return nil, err
		}
	}
	return toVariantResponse(variant), nil
}

// ListVariants lista las variantes de un producto.
func (uc *ProductUseCase) ListVariants(ctx context.Context, facilityID, productID string) ([]dto.VariantResponse, error) {
	if _, err := uc.getOwned(facilityID, productID); err != nil {
		return nil, err
	}
	variants, err := uc.variantRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VariantResponse, 0, len(variants))
	for _, v := range variants {
		out = append(out, *toVariantResponse(v))
	}
	return out, nil
}

// seedStock asienta el stock inicial como movimiento adjustment en el ledger.
func (uc *ProductUseCase) seedStock(ctx context.Context, facilityID, userID, productID, variantID string, qty decimal.Decimal) error {
	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
	) error {
		_, err := appinventory.ApplyDeltaInTx(movRepo, stockRepo, appinventory.DeltaInput{
			FacilityID:    facilityID,
			ProductID:     productID,
			VariantID:     variantID,
			Type:          entity.MovementTypeAdjustment,
			Quantity:      qty,
			Reason:        "stock inicial",
			ReferenceType: entity.ReferenceTypeManual,
			UserID:        userID,
			Now:           time.Now(),
		})
		return err
	})
}

func (uc *ProductUseCase) getOwned(facilityID, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	if product.FacilityID != facilityID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

// derivedStock calcula el stock agregado del producto: suma de las filas de sus
// variantes si has_variants, su propia fila si no. Nunca se lee un agregado almacenado.
func (uc *ProductUseCase) derivedStock(product *entity.Product) (decimal.Decimal, []*entity.ProductVariant, error) {
	if !product.HasVariants {
		level, err := uc.stockRepo.Get(product.FacilityID, product.ID, "")
		if err != nil {
			return decimal.Zero, nil, err
		}
		if level == nil {
			return decimal.Zero, nil, nil
		}
		return level.Quantity, nil, nil
	}

	variants, err := uc.variantRepo.ListByProduct(product.ID)
	if err != nil {
		return decimal.Zero, nil, err
	}
	total := decimal.Zero
	for _, v := range variants {
		level, err := uc.stockRepo.Get(product.FacilityID, product.ID, v.ID)
		if err != nil {
			return decimal.Zero, nil, err
		}
		if level != nil {
			total = total.Add(level.Quantity)
		}
	}
	return total, variants, nil
}

func toProductResponse(p *entity.Product, stock decimal.Decimal, variants []*entity.ProductVariant) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Barcode:       p.Barcode,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Brand:         p.Brand,
		Price:         p.Price,
		Cost:          p.Cost,
		Taxable:       p.Taxable,
		TaxRate:       p.TaxRate,
		Status:        p.Status,
		HasVariants:   p.HasVariants,
		Stock:         stock,
		MinStock:      p.MinStock,
		MaxStock:      p.MaxStock,
		VisibleOnline: p.VisibleOnline,
	}
	for _, v := range variants {
		resp.Variants = append(resp.Variants, *toVariantResponse(v))
	}
	return resp
}

func toVariantResponse(v *entity.ProductVariant) *dto.VariantResponse {
	return &dto.VariantResponse{
		ID:           v.ID,
		ProductID:    v.ProductID,
		SKU:          v.SKU,
		Barcode:      v.Barcode,
		VariantType:  v.VariantType,
		VariantValue: v.VariantValue,
		Price:        v.Price,
		Cost:         v.Cost,
		MinStock:     v.MinStock,
		MaxStock:     v.MaxStock,
		Status:       v.Status,
	}
}
