package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

// DictionaryHandler diccionario global de atributos.
type DictionaryHandler struct {
	uc *catalog.DictionaryUseCase
}

// NewDictionaryHandler construye el handler.
func NewDictionaryHandler(uc *catalog.DictionaryUseCase) *DictionaryHandler {
	return &DictionaryHandler{uc: uc}
}

// Create godoc
// @Summary      Crear atributo
// @Tags         attributes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAttributeRequest  true  "Definición del atributo"
// @Success      201   {object}  dto.AttributeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/attributes [post]
func (h *DictionaryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAttributeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar atributos
// @Tags         attributes
// @Produce      json
// @Success      200  {array}  dto.AttributeResponse
// @Router       /api/attributes [get]
func (h *DictionaryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener atributo
// @Tags         attributes
// @Produce      json
// @Param        id   path  string  true  "ID del atributo"
// @Success      200  {object}  dto.AttributeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/attributes/{id} [get]
func (h *DictionaryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar atributo (solo si nada lo referencia)
// @Tags         attributes
// @Security     Bearer
// @Param        id   path  string  true  "ID del atributo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/attributes/{id} [delete]
func (h *DictionaryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
