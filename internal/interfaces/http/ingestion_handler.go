package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mayorista-api/internal/application/dto"
	"github.com/jhoicas/Mayorista-api/internal/application/ingestion"
)

// IngestionHandler convierte pedidos certificados en stock propio (protegido).
type IngestionHandler struct {
	uc *ingestion.UseCase
}

// NewIngestionHandler construye el handler.
func NewIngestionHandler(uc *ingestion.UseCase) *IngestionHandler {
	return &IngestionHandler{uc: uc}
}

// AddToStock godoc
// @Summary      Ingresar pedido certificado al stock
// @Description  Convierte cada línea del pedido en un producto propio. Operación única por pedido: un segundo intento responde 409.
// @Tags         ingestion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orderId  path  string  true  "ID del pedido certificado"
// @Param        body     body  dto.IngestOrderRequest  false  "Precios de venta opcionales por línea"
// @Success      201  {object}  dto.IngestOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ingestion/orders/{orderId} [post]
func (h *IngestionHandler) AddToStock(c *fiber.Ctx) error {
	wholesalerID := GetWholesalerID(c)
	if wholesalerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "wholesaler_id requerido"})
	}
	orderID := c.Params("orderId")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "orderId es requerido"})
	}
	var in dto.IngestOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.uc.AddCertifiedOrderToStock(c.Context(), wholesalerID, GetUserID(c), orderID, in.SellingPrices)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// BulkAddToStock godoc
// @Summary      Ingesta masiva de pedidos certificados
// @Description  Procesa cada pedido de forma independiente; el fallo de uno no aborta el resto.
// @Tags         ingestion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkIngestRequest  true  "IDs de pedidos y precios opcionales"
// @Success      200   {object}  dto.BulkIngestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ingestion/orders/bulk [post]
func (h *IngestionHandler) BulkAddToStock(c *fiber.Ctx) error {
	wholesalerID := GetWholesalerID(c)
	if wholesalerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "wholesaler_id requerido"})
	}
	var in dto.BulkIngestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.OrderIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "order_ids es requerido"})
	}
	out, err := h.uc.BulkAddToStock(c.Context(), wholesalerID, GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// StockStatus godoc
// @Summary      Estado de ingesta de un pedido
// @Description  Indica si el pedido ya fue convertido en stock y qué productos generó.
// @Tags         ingestion
// @Security     Bearer
// @Produce      json
// @Param        orderId  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderStockStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ingestion/orders/{orderId}/status [get]
func (h *IngestionHandler) StockStatus(c *fiber.Ctx) error {
	wholesalerID := GetWholesalerID(c)
	if wholesalerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "wholesaler_id requerido"})
	}
	orderID := c.Params("orderId")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "orderId es requerido"})
	}
	out, err := h.uc.CheckOrderStockStatus(wholesalerID, orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListCertified godoc
// @Summary      Pedidos certificados elegibles para ingesta
// @Description  Incluye precio de venta sugerido (costo + recargo por defecto) y si ya fueron ingresados.
// @Tags         ingestion
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Término de búsqueda (proveedor o producto)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.CertifiedOrderListResponse
// @Router       /api/ingestion/orders [get]
func (h *IngestionHandler) ListCertified(c *fiber.Ctx) error {
	wholesalerID := GetWholesalerID(c)
	if wholesalerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "wholesaler_id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.uc.ListCertifiedForIngestion(wholesalerID, c.Query("search"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
