package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"flexone-api/internal/handlers"
	"flexone-api/internal/knowledge"
	"flexone-api/internal/service"
	"flexone-api/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	RelayService   service.RelayService
	KnowledgeStore *knowledge.Store
	UsageStore     storage.UsageStore
	Version        string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Add CORS and request-scoped logger middleware
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	chatHandler := handlers.NewChatHandler(deps.RelayService, deps.UsageStore)
	kbHandler := handlers.NewKnowledgeHandler(deps.KnowledgeStore)

	r.Method(http.MethodGet, "/", handlers.NewRootHandler(deps.KnowledgeStore, deps.Version))
	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.KnowledgeStore))
	r.Method(http.MethodGet, "/stats", handlers.NewStatsHandler(deps.UsageStore))
	r.Method(http.MethodGet, "/ui", handlers.NewUIHandler())

	r.Route("/knowledge-base", func(r chi.Router) {
		r.Get("/", kbHandler.Summary)
		r.Get("/category/{name}", kbHandler.Category)
		r.Post("/reload", kbHandler.Reload)
	})

	r.Route("/chat", func(r chi.Router) {
		r.Post("/", chatHandler.Chat)
		r.Post("/details", chatHandler.ChatDetails)
		r.Post("/kb", chatHandler.ChatKB)
		r.Post("/simple", chatHandler.ChatSimple)
	})

	return r
}
