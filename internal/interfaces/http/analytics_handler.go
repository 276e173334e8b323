package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mayorista-api/internal/application/analytics"
	"github.com/jhoicas/Mayorista-api/internal/application/dto"
)

// AnalyticsHandler lado de lectura: reportes de rentabilidad y stock (protegido).
type AnalyticsHandler struct {
	uc *analytics.UseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.UseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen de rentabilidad del período
// @Description  Ingreso bruto, costo, utilidad, margen y ranking de productos. Sin fechas = últimos 30 días.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Fecha inicial YYYY-MM-DD"
// @Param        end_date    query  string  false  "Fecha final YYYY-MM-DD"
// @Param        top_n       query  int     false  "Tamaño del ranking"  default(10)
// @Success      200  {object}  dto.SummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	wholesalerID := GetWholesalerID(c)
	if wholesalerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "wholesaler_id requerido"})
	}
	var req dto.SummaryRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	out, err := h.uc.GetSummary(c.Context(), wholesalerID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos en alerta de stock bajo
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.LowStockListResponse
// @Router       /api/analytics/low-stock [get]
func (h *AnalyticsHandler) LowStock(c *fiber.Ctx) error {
	wholesalerID := GetWholesalerID(c)
	if wholesalerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "wholesaler_id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.uc.ListLowStock(wholesalerID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ProductTrend godoc
// @Summary      Tendencia de precio de un producto
// @Description  Compara las dos entradas más recientes del historial: increases, decreases o stable.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductTrendResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/analytics/products/{id}/trend [get]
func (h *AnalyticsHandler) ProductTrend(c *fiber.Ctx) error {
	wholesalerID := GetWholesalerID(c)
	if wholesalerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "wholesaler_id requerido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetProductTrend(wholesalerID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
