package purchasing

import (
	"context"

	"github.com/tu-usuario/petcare-pos/internal/domain/repository"
)

// PurchaseTxRunner ejecuta una función dentro de una transacción con los
// repositorios de compras e inventario atados a esa tx. La recepción de
// mercadería (cantidades recibidas + movimientos purchase + stock) es atómica.
type PurchaseTxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		poRepo repository.PurchaseOrderRepository,
	) error) error
}
