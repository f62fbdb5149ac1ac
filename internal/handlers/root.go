package handlers

import (
	"net/http"

	"flexone-api/internal/knowledge"
)

// RootHandler serves service metadata at the API root.
type RootHandler struct {
	store   *knowledge.Store
	version string
}

// NewRootHandler creates a new RootHandler.
func NewRootHandler(store *knowledge.Store, version string) *RootHandler {
	return &RootHandler{store: store, version: version}
}

// RootResponse describes the service and its routes.
type RootResponse struct {
	Message             string            `json:"message"`
	Version             string            `json:"version"`
	KnowledgeBaseLoaded bool              `json:"knowledge_base_loaded"`
	Endpoints           map[string]string `json:"endpoints"`
}

// ServeHTTP handles GET /.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message:             "FlexOne API",
		Version:             h.version,
		KnowledgeBaseLoaded: h.store.IsLoaded(),
		Endpoints: map[string]string{
			"/health":                         "GET - Check API health",
			"/knowledge-base":                 "GET - Knowledge base summary",
			"/knowledge-base/category/{name}": "GET - One knowledge base category",
			"/knowledge-base/reload":          "POST - Reload the knowledge base file",
			"/chat":                           "POST - Multi-turn chat, knowledge base auto-injected",
			"/chat/details":                   "POST - Multi-turn chat with usage details",
			"/chat/kb":                        "POST - Single-turn chat, always knowledge-base grounded",
			"/chat/simple":                    "POST - Single-turn chat",
			"/stats":                          "GET - Aggregate usage totals",
			"/ui":                             "GET - Browser chat page",
		},
	})
}
