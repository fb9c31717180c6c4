package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/petcare-pos/internal/application/alerting"
	"github.com/tu-usuario/petcare-pos/internal/application/auth"
	"github.com/tu-usuario/petcare-pos/internal/application/inventory"
	"github.com/tu-usuario/petcare-pos/internal/application/pos"
	"github.com/tu-usuario/petcare-pos/internal/application/purchasing"
	"github.com/tu-usuario/petcare-pos/internal/application/usecase"
	"github.com/tu-usuario/petcare-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	FacilityUC       *usecase.FacilityUseCase
	ProductUC        *usecase.ProductUseCase
	SupplierUC       *usecase.SupplierUseCase
	RecordMovement   *inventory.RecordMovementUseCase
	StockQuery       *inventory.StockQueryUseCase
	CreateSale       *pos.CreateSaleUseCase
	ReverseSale      *pos.ReverseSaleUseCase
	Receipt          *pos.ReceiptUseCase
	PurchaseOrderUC  *purchasing.PurchaseOrderUseCase
	AlertUC          *alerting.AlertUseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Facilities (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	facilities := api.Group("/facilities")
	facilityHandler := NewFacilityHandler(deps.FacilityUC)
	facilities.Get("/", facilityHandler.List)
	facilities.Post("/", facilityHandler.Create)
	facilities.Get("/:id", facilityHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	manager := RequireRole(entity.RoleAdmin, entity.RoleGerente)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.RecordMovement, deps.StockQuery)
	products.Post("/", manager, productHandler.Create)
	products.Get("/", productHandler.List)
	// Registrada antes de /:id para que Fiber no la capture como id
	products.Get("/low-stock", inventoryHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", manager, productHandler.Update)
	products.Post("/:id/variants", manager, productHandler.CreateVariant)
	products.Get("/:id/variants", productHandler.ListVariants)

	// Inventory (protegido; ajustes y movimientos manuales solo admin/gerente)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/movements", manager, inventoryHandler.RegisterMovement)
	invGroup.Post("/adjustments", manager, inventoryHandler.Adjust)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/value", inventoryHandler.InventoryValue)

	// Sales (protegido; cualquier rol vende, reversos solo admin/gerente)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.ReverseSale, deps.Receipt)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Get("/:id/receipt", saleHandler.Receipt)
	sales.Post("/:id/refund", manager, saleHandler.Refund)
	sales.Post("/:id/void", manager, saleHandler.Void)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", manager, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Purchase orders (protegido; recepción solo admin/gerente)
	orders := protected.Group("/purchase-orders")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseOrderUC)
	orders.Post("/", manager, purchaseHandler.Create)
	orders.Get("/", purchaseHandler.List)
	orders.Get("/:id", purchaseHandler.GetByID)
	orders.Post("/:id/order", manager, purchaseHandler.MarkOrdered)
	orders.Post("/:id/ship", manager, purchaseHandler.MarkShipped)
	orders.Post("/:id/cancel", manager, purchaseHandler.Cancel)
	orders.Post("/:id/receive", manager, purchaseHandler.Receive)

	// Alerts (protegido)
	alerts := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alerts.Post("/evaluate", alertHandler.Evaluate)
	alerts.Get("/", alertHandler.List)
	alerts.Post("/:id/acknowledge", alertHandler.Acknowledge)
	alerts.Post("/:id/resolve", alertHandler.Resolve)
}
