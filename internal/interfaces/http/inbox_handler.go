package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

// InboxHandler triage de etiquetas no reconocidas.
type InboxHandler struct {
	uc *catalog.MappingUseCase
}

// NewInboxHandler construye el handler.
func NewInboxHandler(uc *catalog.MappingUseCase) *InboxHandler {
	return &InboxHandler{uc: uc}
}

// List godoc
// @Summary      Listar inbox
// @Tags         inbox
// @Produce      json
// @Param        status  query  string  false  "new|linked|created|ignored"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.InboxListResponse
// @Router       /api/inbox [get]
func (h *InboxHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListInbox(c.UserContext(), c.Query("status"), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Decide godoc
// @Summary      Decidir elemento del inbox (link, create, ignore)
// @Tags         inbox
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del elemento"
// @Param        body  body  dto.InboxDecisionRequest  true  "Decisión"
// @Success      200   {object}  dto.InboxDecisionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inbox/{id}/decision [post]
func (h *InboxHandler) Decide(c *fiber.Ctx) error {
	var in dto.InboxDecisionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Decide(c.UserContext(), GetOperatorID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
