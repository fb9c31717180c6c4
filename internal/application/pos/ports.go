package pos

import (
	"context"

	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
)

// SaleTxRunner ejecuta una función dentro de una transacción con los repositorios
// de ventas e inventario atados a esa tx. La venta, sus movimientos de ledger y
// las mutaciones de stock se confirman o revierten juntos.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// ReceiptGenerator genera la representación PDF del recibo de una venta.
type ReceiptGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, facility *entity.Facility) ([]byte, error)
}
