package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DictionaryUC *catalog.DictionaryUseCase
	CategoryUC   *catalog.CategoryUseCase
	MappingUC    *catalog.MappingUseCase
	ImportUC     *catalog.ImportUseCase
	LinkUC       *catalog.LinkUseCase
	EntryUC      *catalog.EntryUseCase
	JWTSecret    string
	JWTIssuer    string
}

// Router registra las rutas de la API. Las lecturas son públicas; las escrituras
// requieren Bearer Token (el operador queda registrado en overrides y decisiones).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	auth := AuthMiddleware(deps.JWTSecret, deps.JWTIssuer)

	// Importación
	importHandler := NewImportHandler(deps.ImportUC)
	imports := api.Group("/import", auth)
	imports.Post("/entities", importHandler.Entities)
	imports.Post("/prices", importHandler.Prices)

	// Diccionario
	dictionaryHandler := NewDictionaryHandler(deps.DictionaryUC)
	attributes := api.Group("/attributes")
	attributes.Get("/", dictionaryHandler.List)
	attributes.Get("/:id", dictionaryHandler.GetByID)
	attributes.Post("/", auth, dictionaryHandler.Create)
	attributes.Delete("/:id", auth, dictionaryHandler.Delete)

	// Categorías
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id/schema", categoryHandler.Schema)
	categories.Post("/", auth, categoryHandler.Create)
	categories.Put("/:id/parent", auth, categoryHandler.Move)
	categories.Put("/:id/bindings/:attributeId", auth, categoryHandler.SetBinding)
	categories.Delete("/:id/bindings/:attributeId", auth, categoryHandler.DisableBinding)

	// Inbox
	inboxHandler := NewInboxHandler(deps.MappingUC)
	inbox := api.Group("/inbox")
	inbox.Get("/", inboxHandler.List)
	inbox.Post("/:id/decision", auth, inboxHandler.Decide)

	// Entradas
	entryHandler := NewEntryHandler(deps.EntryUC, deps.LinkUC)
	entries := api.Group("/entries")
	entries.Get("/", entryHandler.List)
	entries.Get("/:id", entryHandler.GetByID)
	entries.Get("/:id/attributes/:attributeId/conflict", entryHandler.Conflict)
	entries.Post("/", auth, entryHandler.Create)
	entries.Post("/from-entity/:entityId", auth, entryHandler.CreateFromEntity)
	entries.Patch("/:id", auth, entryHandler.Update)
	entries.Put("/:id/attributes/:attributeId/override", auth, entryHandler.SetOverride)
	entries.Delete("/:id/attributes/:attributeId/override", auth, entryHandler.ClearOverride)

	// Vínculos
	linkHandler := NewLinkHandler(deps.LinkUC)
	links := api.Group("/links", auth)
	links.Post("/", linkHandler.Link)
	links.Put("/:entityId", linkHandler.Relink)
	links.Delete("/:entityId", linkHandler.Unlink)
	links.Put("/:entityId/primary", linkHandler.SetPrimary)

	// Mantenimiento
	api.Post("/maintenance/recompute", auth, entryHandler.RecomputeAll)
}
