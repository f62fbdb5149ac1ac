package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flexone-api/internal/knowledge"
	"flexone-api/internal/service"
	"flexone-api/internal/service/mocks"
	"flexone-api/internal/storage"
	storagemocks "flexone-api/internal/storage/mocks"

	"go.uber.org/mock/gomock"
)

func testDeps(t *testing.T, ctrl *gomock.Controller) *Deps {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kb.json")
	doc := `{"product_name": "FlexOne", "categories": {"setup": {}}}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	store := knowledge.NewStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	return &Deps{
		RelayService:   mocks.NewMockRelayService(ctrl),
		KnowledgeStore: store,
		UsageStore:     storagemocks.NewMockUsageStore(ctrl),
		Version:        "test",
	}
}

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	if router := NewRouter(testDeps(t, ctrl)); router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := testDeps(t, ctrl)
	relay := deps.RelayService.(*mocks.MockRelayService)
	relay.EXPECT().
		Relay(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(service.Outcome{ResponseText: "ok", ModelUsed: "gpt-3.5-turbo"}, nil).
		AnyTimes()
	usage := deps.UsageStore.(*storagemocks.MockUsageStore)
	usage.EXPECT().Totals(gomock.Any()).Return(storage.UsageTotals{}, nil).AnyTimes()

	router := NewRouter(deps)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "root metadata", method: http.MethodGet, path: "/", wantStatus: http.StatusOK},
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "stats", method: http.MethodGet, path: "/stats", wantStatus: http.StatusOK},
		{name: "chat ui", method: http.MethodGet, path: "/ui", wantStatus: http.StatusOK},
		{name: "kb summary", method: http.MethodGet, path: "/knowledge-base", wantStatus: http.StatusOK},
		{name: "kb category", method: http.MethodGet, path: "/knowledge-base/category/setup", wantStatus: http.StatusOK},
		{name: "kb reload", method: http.MethodPost, path: "/knowledge-base/reload", wantStatus: http.StatusOK},
		{
			name: "chat", method: http.MethodPost, path: "/chat",
			body: `{"messages": [{"role": "user", "content": "hi"}]}`, wantStatus: http.StatusOK,
		},
		{
			name: "chat details", method: http.MethodPost, path: "/chat/details",
			body: `{"messages": [{"role": "user", "content": "hi"}]}`, wantStatus: http.StatusOK,
		},
		{
			name: "chat kb", method: http.MethodPost, path: "/chat/kb",
			body: `{"message": "hi"}`, wantStatus: http.StatusOK,
		},
		{
			name: "chat simple", method: http.MethodPost, path: "/chat/simple",
			body: `{"message": "hi"}`, wantStatus: http.StatusOK,
		},
		{name: "unknown route", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
		{name: "wrong method on chat", method: http.MethodGet, path: "/chat", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}
