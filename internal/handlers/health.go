package handlers

import (
	"net/http"

	"flexone-api/internal/knowledge"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	store *knowledge.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store *knowledge.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status              string `json:"status"`
	KnowledgeBaseLoaded bool   `json:"knowledge_base_loaded"`
}

// ServeHTTP handles GET /health. The service is live as long as it can
// answer; an unloaded knowledge base is reported but is not a failure.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:              "ok",
		KnowledgeBaseLoaded: h.store.IsLoaded(),
	})
}
