package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/stock-notifier/internal/application/dto"
	"github.com/jhoicas/stock-notifier/internal/application/ports"
	"github.com/jhoicas/stock-notifier/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName     string
	StockQuery  *stock.QueryService
	StockReport ports.StockReportGenerator
	// RateLimitMax peticiones por ventana y por IP en /stock; 0 desactiva el límite.
	RateLimitMax    int
	RateLimitWindow time.Duration
	CORSOrigins     string
	// Now reloj para la fecha de corte del reporte; nil usa time.Now.
	Now func() time.Time
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: deps.CORSOrigins,
			AllowMethods: "GET,HEAD,OPTIONS",
		}))
	}

	healthHandler := NewHealthHandler(deps.AppName)
	app.Get("/health", healthHandler.Get)

	stockGroup := app.Group("/stock")
	if deps.RateLimitMax > 0 {
		stockGroup.Use(RateLimit(deps.RateLimitMax, deps.RateLimitWindow))
	}
	stockHandler := NewStockHandler(deps.StockQuery, deps.StockReport, deps.Now)
	stockGroup.Get("/", stockHandler.List)
	stockGroup.Get("/report.pdf", stockHandler.Report)
}

// RateLimit limita por IP. Al exceder el límite responde 429 con dto.ErrorResponse.
func RateLimit(maxRequests int, window time.Duration) fiber.Handler {
	if window <= 0 {
		window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code: "RATE_LIMITED", Message: "demasiadas peticiones, intente más tarde",
			})
		},
	})
}
