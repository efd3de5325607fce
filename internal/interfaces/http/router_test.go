package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/container"
	apphttp "github.com/jhoicas/catalogo-api/internal/interfaces/http"
	"github.com/jhoicas/catalogo-api/pkg/config"
)

type apiEnv struct {
	app   *fiber.App
	c     *container.Container
	token string
}

// newAPI router completo sobre almacenamiento y cola en memoria.
func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	cfg := &config.Config{
		App:       config.AppConfig{Env: "test", StorageDriver: "memory", QueueDriver: "memory"},
		JWT:       config.JWTConfig{Secret: testJWTSecret, Issuer: testIssuer},
		Recompute: config.RecomputeConfig{Workers: 2, MaxAttempts: 2},
		Catalog: config.CatalogConfig{
			Locales:                 []string{"es"},
			DefaultLocale:           "es",
			MappingAutoAccept:       0.7,
			LinkSimilarityThreshold: 0.6,
			DefaultPriority:         50,
		},
	}
	c, err := container.New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		DictionaryUC: c.Dictionary,
		CategoryUC:   c.Categories,
		MappingUC:    c.Mapping,
		ImportUC:     c.Import,
		LinkUC:       c.Links,
		EntryUC:      c.Entries,
		JWTSecret:    testJWTSecret,
		JWTIssuer:    testIssuer,
	})
	return &apiEnv{app: app, c: c, token: bearer(t, testOperatorID, testExpMin)}
}

// call envía la petición; auth agrega el Bearer token. out puede ser nil.
func (e *apiEnv) call(t *testing.T, method, path string, body any, auth bool, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", e.token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *apiEnv) drain(t *testing.T) {
	t.Helper()
	_, err := e.c.Dispatcher.Drain(context.Background())
	require.NoError(t, err)
}

func TestRouter_EscriturasRequierenToken(t *testing.T) {
	api := newAPI(t)
	req := dto.CreateAttributeRequest{Code: "weight", ValueType: "number", Names: map[string]string{"es": "Peso"}}

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, api.call(t, http.MethodPost, "/api/attributes", req, false, &errBody))
	assert.Equal(t, "MISSING_TOKEN", errBody.Code)

	var attr dto.AttributeResponse
	assert.Equal(t, http.StatusCreated, api.call(t, http.MethodPost, "/api/attributes", req, true, &attr))
	assert.Equal(t, "weight", attr.Code)

	var list []dto.AttributeResponse
	assert.Equal(t, http.StatusOK, api.call(t, http.MethodGet, "/api/attributes", nil, false, &list), "lectura pública")
	assert.Len(t, list, 1)
}

func TestRouter_MapeoDeErrores(t *testing.T) {
	api := newAPI(t)
	attr := dto.CreateAttributeRequest{Code: "weight", ValueType: "number", Names: map[string]string{"es": "Peso"}}
	require.Equal(t, http.StatusCreated, api.call(t, http.MethodPost, "/api/attributes", attr, true, nil))

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, api.call(t, http.MethodPost, "/api/attributes", attr, true, &errBody))
	assert.Equal(t, "DUPLICATE", errBody.Code)

	assert.Equal(t, http.StatusNotFound, api.call(t, http.MethodGet, "/api/entries/no-existe", nil, false, &errBody))
	assert.Equal(t, "NOT_FOUND", errBody.Code)

	assert.Equal(t, http.StatusBadRequest, api.call(t, http.MethodPost, "/api/import/entities", dto.ImportEntitiesRequest{}, true, &errBody))
	assert.Equal(t, "VALIDATION", errBody.Code)

	assert.Equal(t, http.StatusBadRequest, api.call(t, http.MethodGet, "/api/entries?ready=quizas", nil, false, &errBody))

	cat := dto.CreateCategoryRequest{ID: "tools", Names: map[string]string{"es": "Herramientas"}}
	require.Equal(t, http.StatusCreated, api.call(t, http.MethodPost, "/api/categories", cat, true, nil))
	child := dto.CreateCategoryRequest{ID: "drills", ParentID: "tools", Names: map[string]string{"es": "Taladros"}}
	require.Equal(t, http.StatusCreated, api.call(t, http.MethodPost, "/api/categories", child, true, nil))

	assert.Equal(t, http.StatusConflict, api.call(t, http.MethodPut, "/api/categories/tools/parent", dto.MoveCategoryRequest{ParentID: "drills"}, true, &errBody))
	assert.Equal(t, "CYCLE", errBody.Code)
}

func TestRouter_FlujoImportacionYEntrada(t *testing.T) {
	api := newAPI(t)
	require.Equal(t, http.StatusCreated, api.call(t, http.MethodPost, "/api/categories",
		dto.CreateCategoryRequest{ID: "tools", Names: map[string]string{"es": "Herramientas"}}, true, nil))

	batch := dto.ImportEntitiesRequest{Entities: []dto.ImportEntityRequest{{
		SupplierID:  "acme",
		ExternalID:  "A-1",
		CategoryID:  "tools",
		Names:       map[string]string{"es": "Taladro percutor"},
		Brand:       "Bosch",
		PrimaryCode: "7701234567890",
		Stock:       5,
		Attributes:  map[string]string{"Material": "acero"},
	}}}
	var imported dto.ImportResponse
	require.Equal(t, http.StatusOK, api.call(t, http.MethodPost, "/api/import/entities", batch, true, &imported))
	require.Empty(t, imported.Errors)
	require.Len(t, imported.Results, 1)
	assert.Equal(t, 1, imported.Results[0].Unmapped)

	var inbox dto.InboxListResponse
	require.Equal(t, http.StatusOK, api.call(t, http.MethodGet, "/api/inbox?status=new", nil, false, &inbox))
	require.Len(t, inbox.Items, 1)
	assert.Equal(t, "Material", inbox.Items[0].RawLabel)

	var entry dto.EntryResponse
	require.Equal(t, http.StatusCreated, api.call(t, http.MethodPost, "/api/entries/from-entity/"+imported.Results[0].EntityID, nil, true, &entry))
	api.drain(t)

	var got dto.EntryResponse
	require.Equal(t, http.StatusOK, api.call(t, http.MethodGet, "/api/entries/"+entry.ID, nil, false, &got))
	assert.Equal(t, "Bosch", got.Brand)
	assert.Equal(t, "tools", got.CategoryID)
	assert.Equal(t, int64(5), got.Stock)
	assert.Equal(t, "fresh", got.RecomputeStatus)
	assert.False(t, got.IsReady, "sin precios no es publicable")
	require.Len(t, got.Links, 1)
	assert.True(t, got.Links[0].IsPrimary)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, api.call(t, http.MethodPost, "/api/entries/from-entity/"+imported.Results[0].EntityID, nil, true, &errBody))
	assert.Equal(t, "ALREADY_LINKED", errBody.Code)
}
