package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"flexone-api/internal/contextutil"
	"flexone-api/internal/knowledge"
)

// KnowledgeHandler handles HTTP requests for the knowledge base.
type KnowledgeHandler struct {
	store *knowledge.Store
}

// NewKnowledgeHandler creates a new KnowledgeHandler.
func NewKnowledgeHandler(store *knowledge.Store) *KnowledgeHandler {
	return &KnowledgeHandler{store: store}
}

// KnowledgeSummaryResponse describes the loaded knowledge base.
type KnowledgeSummaryResponse struct {
	Loaded        bool     `json:"loaded"`
	ProductName   string   `json:"product_name,omitempty"`
	Version       string   `json:"version,omitempty"`
	Categories    []string `json:"categories"`
	CommonQueries []string `json:"common_queries"`
}

// CategoryResponse carries one category's raw data.
type CategoryResponse struct {
	Category string          `json:"category"`
	Data     json.RawMessage `json:"data"`
}

// CategoryNotFoundResponse lists the valid categories alongside the error.
type CategoryNotFoundResponse struct {
	Error      string   `json:"error"`
	Categories []string `json:"categories"`
}

// ReloadResponse reports the result of a reload trigger.
type ReloadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Summary handles GET /knowledge-base.
func (h *KnowledgeHandler) Summary(w http.ResponseWriter, r *http.Request) {
	resp := KnowledgeSummaryResponse{
		Loaded:        h.store.IsLoaded(),
		Categories:    []string{},
		CommonQueries: []string{},
	}
	if resp.Loaded {
		resp.ProductName = h.store.ProductName()
		resp.Version = h.store.Version()
		if names := h.store.CategoryNames(); names != nil {
			resp.Categories = names
		}
		if queries := h.store.CommonQueries(); queries != nil {
			resp.CommonQueries = queries
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Category handles GET /knowledge-base/category/{name}.
// Returns 503 when the store is not loaded and 404, with the list of valid
// categories, when the name is unknown.
func (h *KnowledgeHandler) Category(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if !h.store.IsLoaded() {
		writeError(w, http.StatusServiceUnavailable, "Knowledge base not loaded")
		return
	}

	data, ok := h.store.Category(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, CategoryNotFoundResponse{
			Error:      fmt.Sprintf("Category %q not found", name),
			Categories: h.store.CategoryNames(),
		})
		return
	}

	writeJSON(w, http.StatusOK, CategoryResponse{Category: name, Data: data})
}

// Reload handles POST /knowledge-base/reload. A failed reload keeps the
// previous document; the parse detail goes to the log, not the caller.
func (h *KnowledgeHandler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if err := h.store.Reload(); err != nil {
		logger.ErrorContext(ctx, "knowledge base reload failed", "error", err)
		writeJSON(w, http.StatusOK, ReloadResponse{
			Success: false,
			Message: "Knowledge base reload failed; previous state kept. See server logs.",
		})
		return
	}

	logger.InfoContext(ctx, "knowledge base reloaded", "categories", len(h.store.CategoryNames()))
	writeJSON(w, http.StatusOK, ReloadResponse{
		Success: true,
		Message: "Knowledge base reloaded",
	})
}
