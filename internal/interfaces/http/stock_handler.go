package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-notifier/internal/application/dto"
	"github.com/jhoicas/stock-notifier/internal/application/ports"
	"github.com/jhoicas/stock-notifier/internal/application/stock"
)

// StockHandler expone el stock actual (público, solo lectura).
type StockHandler struct {
	query  *stock.QueryService
	report ports.StockReportGenerator
	now    func() time.Time
}

// NewStockHandler construye el handler. report puede ser nil (el reporte PDF responde 503).
func NewStockHandler(query *stock.QueryService, report ports.StockReportGenerator, now func() time.Time) *StockHandler {
	if now == nil {
		now = time.Now
	}
	return &StockHandler{query: query, report: report, now: now}
}

// List godoc
// @Summary      Stock actual
// @Description  Arreglo ordenado de artículos rastreados con su cantidad.
// @Description  Con Accept: text/plain devuelve el mismo texto que envía el bot, una línea por artículo.
// @Tags         stock
// @Produce      json
// @Produce      plain
// @Success      200  {array}   dto.StockItemDTO
// @Failure      429  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	// JSON es el formato por defecto (sin Accept o con */*).
	if c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextPlain) == fiber.MIMETextPlain {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(h.query.FetchFormatted())
	}
	snap, err := h.query.Snapshot(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToStockItemDTOs(snap))
}

// Report godoc
// @Summary      Reporte PDF del stock actual
// @Tags         stock
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      429  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /stock/report.pdf [get]
func (h *StockHandler) Report(c *fiber.Ctx) error {
	if h.report == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code: "REPORT_UNAVAILABLE", Message: "el reporte PDF no está configurado",
		})
	}
	snap, err := h.query.Snapshot(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	pdfBytes, err := h.report.GenerateStockReport(c.Context(), snap, h.now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_ERROR", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="stock.pdf"`)
	return c.Send(pdfBytes)
}
