package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
)

const internalErrorMessage = "error interno del servidor"

// writeError traduce los errores de dominio a status HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrAlreadyLinked):
		status, code = fiber.StatusConflict, "ALREADY_LINKED"
	case errors.Is(err, domain.ErrCycle):
		status, code = fiber.StatusConflict, "CYCLE"
	case errors.Is(err, domain.ErrInUse):
		status, code = fiber.StatusConflict, "IN_USE"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrNotPending):
		status, code = fiber.StatusConflict, "NOT_PENDING"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	default:
		// El detalle queda en el log; al cliente solo llega un mensaje genérico.
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno en la API")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: internalErrorMessage})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}
