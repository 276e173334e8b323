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

	"github.com/jhoicas/Mayorista-api/internal/application/analytics"
	"github.com/jhoicas/Mayorista-api/internal/application/catalog"
	"github.com/jhoicas/Mayorista-api/internal/application/ingestion"
	"github.com/jhoicas/Mayorista-api/internal/application/sales"
	infrapdf "github.com/jhoicas/Mayorista-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Mayorista-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Mayorista-api/internal/interfaces/http"
	"github.com/jhoicas/Mayorista-api/pkg/clock"
	"github.com/jhoicas/Mayorista-api/pkg/config"
	"github.com/jhoicas/Mayorista-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	productRepo := postgres.NewProductRepository(pool)
	historyRepo := postgres.NewPriceHistoryRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	clk := clock.System{}

	catalogUC := catalog.NewUseCase(txRunner, productRepo, historyRepo, clk, cfg.Pricing.LowStockFloor)
	ingestionUC := ingestion.NewUseCase(txRunner, orderRepo, productRepo, clk, cfg.Pricing.DefaultMarkupPct)
	createSaleUC := sales.NewCreateSaleUseCase(txRunner, clk, cfg.Pricing.LowStockFloor)
	reversalUC := sales.NewReversalUseCase(txRunner, saleRepo, clk, cfg.Pricing.LowStockFloor)
	saleQueryUC := sales.NewQueryUseCase(saleRepo)
	receiptUC := sales.NewReceiptUseCase(saleRepo, infrapdf.NewMarotoReceiptGenerator())
	analyticsUC := analytics.NewUseCase(analyticsRepo, productRepo, historyRepo, clk)

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
		Title:    "Mayorista API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:   catalogUC,
		IngestionUC: ingestionUC,
		CreateSale:  createSaleUC,
		Reversal:    reversalUC,
		SaleQuery:   saleQueryUC,
		Receipt:     receiptUC,
		AnalyticsUC: analyticsUC,
		JWTSecret:   cfg.JWT.Secret,
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
