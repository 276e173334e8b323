package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mayorista-api/internal/application/analytics"
	"github.com/jhoicas/Mayorista-api/internal/application/catalog"
	"github.com/jhoicas/Mayorista-api/internal/application/ingestion"
	"github.com/jhoicas/Mayorista-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC   *catalog.UseCase
	IngestionUC *ingestion.UseCase
	CreateSale  *sales.CreateSaleUseCase
	Reversal    *sales.ReversalUseCase
	SaleQuery   *sales.QueryUseCase
	Receipt     *sales.ReceiptUseCase
	AnalyticsUC *analytics.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todo el motor opera sobre el stock del
// mayorista autenticado, así que no hay rutas públicas más allá de /health.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo y ledger de precios
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id/price", productHandler.UpdatePrice)
	products.Get("/:id/price-history", productHandler.GetPriceHistory)

	// Ingesta de pedidos certificados
	ingestionGroup := protected.Group("/ingestion")
	ingestionHandler := NewIngestionHandler(deps.IngestionUC)
	ingestionGroup.Get("/orders", ingestionHandler.ListCertified)
	ingestionGroup.Post("/orders/bulk", ingestionHandler.BulkAddToStock)
	ingestionGroup.Post("/orders/:orderId", ingestionHandler.AddToStock)
	ingestionGroup.Get("/orders/:orderId/status", ingestionHandler.StockStatus)

	// Ventas
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.Reversal, deps.SaleQuery, deps.Receipt)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)
	salesGroup.Delete("/:id", saleHandler.Delete)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Analytics (solo lectura)
	analyticsGroup := protected.Group("/analytics")
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	analyticsGroup.Get("/summary", analyticsHandler.Summary)
	analyticsGroup.Get("/low-stock", analyticsHandler.LowStock)
	analyticsGroup.Get("/products/:id/trend", analyticsHandler.ProductTrend)
}
