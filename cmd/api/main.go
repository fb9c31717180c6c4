package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/petcare-pos/internal/application/alerting"
	"github.com/tu-usuario/petcare-pos/internal/application/auth"
	"github.com/tu-usuario/petcare-pos/internal/application/inventory"
	"github.com/tu-usuario/petcare-pos/internal/application/pos"
	"github.com/tu-usuario/petcare-pos/internal/application/purchasing"
	"github.com/tu-usuario/petcare-pos/internal/application/usecase"
	infrapdf "github.com/tu-usuario/petcare-pos/internal/infrastructure/pdf"
	"github.com/tu-usuario/petcare-pos/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/petcare-pos/internal/interfaces/http"
	"github.com/tu-usuario/petcare-pos/pkg/config"
	"github.com/tu-usuario/petcare-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (los casos de uso transaccionales reciben
	// repos atados a la tx vía TxRunner)
	facilityRepo := postgres.NewFacilityRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Casos de uso
	recordMovementUC := inventory.NewRecordMovementUseCase(txRunner, productRepo, variantRepo)
	stockQueryUC := inventory.NewStockQueryUseCase(stockRepo, movementRepo)
	productUC := usecase.NewProductUseCase(productRepo, variantRepo, stockRepo, txRunner)
	facilityUC := usecase.NewFacilityUseCase(facilityRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	createSaleUC := pos.NewCreateSaleUseCase(txRunner, saleRepo, productRepo, variantRepo)
	reverseSaleUC := pos.NewReverseSaleUseCase(txRunner, saleRepo)
	receiptUC := pos.NewReceiptUseCase(saleRepo, facilityRepo, infrapdf.NewMarotoReceiptGenerator())
	purchaseOrderUC := purchasing.NewPurchaseOrderUseCase(txRunner, poRepo, supplierRepo, productRepo, variantRepo)
	alertUC := alerting.NewAlertUseCase(stockRepo, alertRepo, log)
	authUC := auth.NewAuthUseCase(userRepo, facilityRepo, cfg.JWT)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PetCare POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		FacilityUC:      facilityUC,
		ProductUC:       productUC,
		SupplierUC:      supplierUC,
		RecordMovement:  recordMovementUC,
		StockQuery:      stockQueryUC,
		CreateSale:      createSaleUC,
		ReverseSale:     reverseSaleUC,
		Receipt:         receiptUC,
		PurchaseOrderUC: purchaseOrderUC,
		AlertUC:         alertUC,
		AuthUC:          authUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
