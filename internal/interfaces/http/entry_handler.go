package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// EntryHandler entradas del catálogo, conflictos y overrides manuales.
type EntryHandler struct {
	uc    *catalog.EntryUseCase
	links *catalog.LinkUseCase
}

// NewEntryHandler construye el handler.
func NewEntryHandler(uc *catalog.EntryUseCase, links *catalog.LinkUseCase) *EntryHandler {
	return &EntryHandler{uc: uc, links: links}
}

// Create godoc
// @Summary      Crear entrada
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEntryRequest  true  "Campos manuales"
// @Success      201   {object}  dto.EntryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/entries [post]
func (h *EntryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEntryRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateFromEntity godoc
// @Summary      Crear entrada a partir de una entidad de proveedor
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        entityId  path  string  true  "ID de la entidad de proveedor"
// @Success      201       {object}  dto.EntryResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Failure      409       {object}  dto.ErrorResponse
// @Router       /api/entries/from-entity/{entityId} [post]
func (h *EntryHandler) CreateFromEntity(c *fiber.Ctx) error {
	out, err := h.links.CreateEntryFromEntity(c.UserContext(), GetOperatorID(c), c.Params("entityId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar campos manuales de la entrada
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la entrada"
// @Param        body  body  dto.UpdateEntryRequest  true  "Campos manuales"
// @Success      200   {object}  dto.EntryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/entries/{id} [patch]
func (h *EntryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener entrada con vínculos y valores
// @Tags         entries
// @Produce      json
// @Param        id      path   string  true   "ID de la entrada"
// @Param        locale  query  string  false  "Locale de los mensajes"
// @Success      200     {object}  dto.EntryResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/entries/{id} [get]
func (h *EntryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"), c.Query("locale"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar entradas
// @Tags         entries
// @Produce      json
// @Param        category_id  query  string  false  "Categoría resuelta"
// @Param        ready        query  bool    false  "Solo publicables / no publicables"
// @Param        status       query  string  false  "fresh|pending|failed"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.EntryListResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/entries [get]
func (h *EntryHandler) List(c *fiber.Ctx) error {
	f := repository.EntryFilter{CategoryID: c.Query("category_id"), Status: c.Query("status")}
	if s := c.Query("ready"); s != "" {
		ready, err := strconv.ParseBool(s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ready debe ser true o false"})
		}
		f.Ready = &ready
	}
	out, err := h.uc.List(c.UserContext(), f, pageFromQuery(c), c.Query("locale"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Conflict godoc
// @Summary      Detalle de resolución de un atributo
// @Tags         entries
// @Produce      json
// @Param        id           path  string  true  "ID de la entrada"
// @Param        attributeId  path  string  true  "ID del atributo"
// @Success      200          {object}  dto.ConflictResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/entries/{id}/attributes/{attributeId}/conflict [get]
func (h *EntryHandler) Conflict(c *fiber.Ctx) error {
	out, err := h.uc.Conflict(c.UserContext(), c.Params("id"), c.Params("attributeId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetOverride godoc
// @Summary      Fijar override manual
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id           path  string               true  "ID de la entrada"
// @Param        attributeId  path  string               true  "ID del atributo"
// @Param        body         body  dto.OverrideRequest  true  "Valor crudo"
// @Success      200          {object}  dto.ValueResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/entries/{id}/attributes/{attributeId}/override [put]
func (h *EntryHandler) SetOverride(c *fiber.Ctx) error {
	var in dto.OverrideRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetOverride(c.UserContext(), GetOperatorID(c), c.Params("id"), c.Params("attributeId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ClearOverride godoc
// @Summary      Quitar override manual
// @Tags         entries
// @Security     Bearer
// @Param        id           path  string  true  "ID de la entrada"
// @Param        attributeId  path  string  true  "ID del atributo"
// @Success      204
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/entries/{id}/attributes/{attributeId}/override [delete]
func (h *EntryHandler) ClearOverride(c *fiber.Ctx) error {
	if err := h.uc.ClearOverride(c.UserContext(), c.Params("id"), c.Params("attributeId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecomputeAll godoc
// @Summary      Encolar la recomputación de todo el catálogo
// @Tags         maintenance
// @Security     Bearer
// @Produce      json
// @Success      202  {object}  dto.ScheduledResponse
// @Router       /api/maintenance/recompute [post]
func (h *EntryHandler) RecomputeAll(c *fiber.Ctx) error {
	n, err := h.uc.RecomputeAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.ScheduledResponse{Scheduled: n})
}
