package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/catalogo-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/catalogo-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testOperatorID = "00000000-0000-0000-0000-000000000001"
	testIssuer     = "catalogo-api-test"
	testExpMin     = 60
)

// buildAuthApp aplicación mínima con AuthMiddleware y un handler que devuelve el operador.
func buildAuthApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret, testIssuer), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "operator_id": apphttp.GetOperatorID(c)})
	})
	return app
}

func bearer(t *testing.T, operatorID string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, operatorID, testIssuer, expMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doGet(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenValido_GuardaOperador(t *testing.T) {
	resp := doGet(t, buildAuthApp(), bearer(t, testOperatorID, testExpMin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, testOperatorID, body["operator_id"])
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	otherSecret, err := pkgjwt.Generate("otro-secret-completamente-distinto", testOperatorID, testIssuer, testExpMin)
	require.NoError(t, err)
	otherIssuer, err := pkgjwt.Generate(testJWTSecret, testOperatorID, "otro-emisor", testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"token expirado", bearer(t, testOperatorID, -1), "INVALID_TOKEN"},
		{"secret incorrecto", "Bearer " + otherSecret, "INVALID_TOKEN"},
		{"emisor distinto", "Bearer " + otherIssuer, "INVALID_TOKEN"},
	}
	app := buildAuthApp()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doGet(t, app, tc.header)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tc.code)
		})
	}
}

func TestGetOperatorID_SinMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/open", func(c *fiber.Ctx) error {
		return c.SendString(apphttp.GetOperatorID(c))
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, string(body))
}
