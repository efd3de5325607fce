package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

// CategoryHandler árbol de categorías y bindings de atributos.
type CategoryHandler struct {
	uc *catalog.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *catalog.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
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
// @Summary      Listar categorías
// @Tags         categories
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Move godoc
// @Summary      Mover categoría bajo otro padre
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la categoría"
// @Param        body  body  dto.MoveCategoryRequest  true  "Nuevo padre (vacío = raíz)"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/parent [put]
func (h *CategoryHandler) Move(c *fiber.Ctx) error {
	var in dto.MoveCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Move(c.UserContext(), c.Params("id"), in.ParentID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetBinding godoc
// @Summary      Vincular o sobrescribir atributo en la categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id           path  string              true  "ID de la categoría"
// @Param        attributeId  path  string              true  "ID del atributo"
// @Param        body         body  dto.BindingRequest  true  "Campos (nulos heredan)"
// @Success      200          {object}  dto.BindingResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/bindings/{attributeId} [put]
func (h *CategoryHandler) SetBinding(c *fiber.Ctx) error {
	var in dto.BindingRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.SetBinding(c.UserContext(), c.Params("id"), c.Params("attributeId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DisableBinding godoc
// @Summary      Deshabilitar atributo en la categoría y sus descendientes
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id           path  string  true  "ID de la categoría"
// @Param        attributeId  path  string  true  "ID del atributo"
// @Success      200          {object}  dto.BindingResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/bindings/{attributeId} [delete]
func (h *CategoryHandler) DisableBinding(c *fiber.Ctx) error {
	out, err := h.uc.DisableBinding(c.UserContext(), c.Params("id"), c.Params("attributeId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Schema godoc
// @Summary      Esquema resuelto de la categoría
// @Tags         categories
// @Produce      json
// @Param        id      path   string  true   "ID de la categoría"
// @Param        locale  query  string  false  "Locale para nombres y orden"
// @Success      200     {object}  dto.SchemaResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/schema [get]
func (h *CategoryHandler) Schema(c *fiber.Ctx) error {
	out, err := h.uc.ResolveSchema(c.UserContext(), c.Params("id"), c.Query("locale"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
