package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/recepcion-activa/internal/application/billing"
	"github.com/jhoicas/recepcion-activa/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InvoiceUC  *billing.InvoiceUseCase
	InvoicePDF *billing.PDFUseCase
	Register   *billing.RegisterUseCase
	JWTSecret  string
	Logger     *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogos y NIF (público)
	catalogHandler := NewCatalogHandler()
	api.Get("/catalogos", catalogHandler.Catalogos)
	api.Get("/nif/:nif", catalogHandler.NIF)

	// Facturas (requieren Bearer Token)
	facturas := api.Group("/facturas", AuthMiddleware(deps.JWTSecret))
	h := NewFacturaHandler(deps.InvoiceUC, deps.InvoicePDF, deps.Register, deps.Logger)
	facturas.Post("/calcular", h.Calcular)
	facturas.Post("/", h.Create)
	facturas.Get("/", h.List)
	facturas.Get("/libro.xlsx", h.LibroRegistro)
	facturas.Get("/:id", h.GetByID)
	facturas.Put("/:id", h.Update)
	facturas.Patch("/:id/status", h.UpdateStatus)
	facturas.Delete("/:id", h.Delete)
	facturas.Get("/:id/pdf", h.DownloadPDF)
}
