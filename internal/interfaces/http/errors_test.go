package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
)

func responderError(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error { return writeError(c, err) })
	resp, e := app.Test(httptest.NewRequest(fiber.MethodGet, "/x", nil), -1)
	require.NoError(t, e)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestWriteError_InternoNoExponeDetalle(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	status, body := responderError(t, errors.New("dial tcp 10.0.0.5:5432: password authentication failed for user catalog"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.Equal(t, internalErrorMessage, body.Message)
	assert.NotContains(t, body.Message, "5432")
	assert.Contains(t, buf.String(), "password authentication failed", "el detalle queda en el log")
}

func TestWriteError_DominioConservaMensaje(t *testing.T) {
	status, body := responderError(t, fmt.Errorf("categoría x: %w", domain.ErrNotFound))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "categoría x: recurso no encontrado", body.Message)

	status, body = responderError(t, domain.ErrCycle)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CYCLE", body.Code)
}
