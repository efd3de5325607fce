package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

// ImportHandler entrada del colaborador de importación.
type ImportHandler struct {
	uc *catalog.ImportUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *catalog.ImportUseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

// Entities godoc
// @Summary      Importar entidades de proveedor
// @Tags         import
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportEntitiesRequest  true  "Lote de entidades"
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/import/entities [post]
func (h *ImportHandler) Entities(c *fiber.Ctx) error {
	var in dto.ImportEntitiesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if len(in.Entities) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entities vacío"})
	}
	out, err := h.uc.ImportEntities(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Prices godoc
// @Summary      Importar precios
// @Tags         import
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportPricesRequest  true  "Lote de precios"
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/import/prices [post]
func (h *ImportHandler) Prices(c *fiber.Ctx) error {
	var in dto.ImportPricesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if len(in.Prices) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "prices vacío"})
	}
	out, err := h.uc.ImportPrices(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
