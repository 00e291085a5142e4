package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/recepcion-activa/internal/application/dto"
	"github.com/jhoicas/recepcion-activa/pkg/aeat"
)

// CatalogHandler catálogos AEAT y comprobación de NIF (público).
type CatalogHandler struct {
	catalogos dto.CatalogosResponse
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{catalogos: dto.NewCatalogosResponse()}
}

// Catalogos godoc
// @Summary      Catálogos de facturación
// @Tags         catalogos
// @Produce      json
// @Success      200  {object}  dto.CatalogosResponse
// @Router       /api/catalogos [get]
func (h *CatalogHandler) Catalogos(c *fiber.Ctx) error {
	return c.JSON(h.catalogos)
}

// NIF godoc
// @Summary      Comprobar formato de NIF
// @Description  DNI, NIE o CIF; si no encaja, se prueba la forma de NIF-IVA comunitario.
// @Tags         catalogos
// @Produce      json
// @Param        nif  path  string  true  "NIF"
// @Success      200  {object}  dto.NIFResponse
// @Router       /api/nif/{nif} [get]
func (h *CatalogHandler) NIF(c *fiber.Ctx) error {
	nif := strings.ToUpper(strings.TrimSpace(c.Params("nif")))
	clase := aeat.ClasificarNIFIVA(nif)
	return c.JSON(dto.NIFResponse{
		NIF:              nif,
		Valido:           clase != aeat.NIFDesconocido,
		Clase:            string(clase),
		Intracomunitario: clase == aeat.NIFIntracomunitario,
	})
}
