package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

// LinkHandler vínculos entidad de proveedor -> entrada.
type LinkHandler struct {
	uc *catalog.LinkUseCase
}

// NewLinkHandler construye el handler.
func NewLinkHandler(uc *catalog.LinkUseCase) *LinkHandler {
	return &LinkHandler{uc: uc}
}

// Link godoc
// @Summary      Vincular entidad a entrada
// @Tags         links
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LinkRequest  true  "Vínculo"
// @Success      201   {object}  dto.LinkResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/links [post]
func (h *LinkHandler) Link(c *fiber.Ctx) error {
	var in dto.LinkRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.EntryID == "" || in.SupplierEntityID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entry_id y supplier_entity_id son requeridos"})
	}
	out, err := h.uc.Link(c.UserContext(), GetOperatorID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Relink godoc
// @Summary      Mover entidad a otra entrada
// @Tags         links
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        entityId  path  string            true  "ID de la entidad"
// @Param        body      body  dto.LinkRequest   true  "Solo entry_id"
// @Success      200       {object}  dto.LinkResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/links/{entityId} [put]
func (h *LinkHandler) Relink(c *fiber.Ctx) error {
	var in dto.LinkRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.EntryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entry_id es requerido"})
	}
	out, err := h.uc.Relink(c.UserContext(), GetOperatorID(c), c.Params("entityId"), in.EntryID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Unlink godoc
// @Summary      Desvincular entidad
// @Tags         links
// @Security     Bearer
// @Param        entityId  path  string  true  "ID de la entidad"
// @Success      204
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/links/{entityId} [delete]
func (h *LinkHandler) Unlink(c *fiber.Ctx) error {
	if err := h.uc.Unlink(c.UserContext(), c.Params("entityId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetPrimary godoc
// @Summary      Marcar vínculo como primario
// @Tags         links
// @Security     Bearer
// @Produce      json
// @Param        entityId  path  string  true  "ID de la entidad"
// @Success      200       {object}  dto.LinkResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/links/{entityId}/primary [put]
func (h *LinkHandler) SetPrimary(c *fiber.Ctx) error {
	out, err := h.uc.SetPrimary(c.UserContext(), c.Params("entityId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
