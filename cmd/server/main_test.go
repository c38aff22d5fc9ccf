package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dennypradipta/n8n-chat-history/internal/config"
	"github.com/dennypradipta/n8n-chat-history/internal/models"
	"github.com/dennypradipta/n8n-chat-history/internal/store"
)

const frontend = "https://chat.example"

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Chat{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	chat := models.Chat{
		ID:          "seed-1",
		SessionID:   "session-1",
		UserMessage: "question",
		AIMessage:   "answer",
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&chat).Error; err != nil {
		t.Fatalf("seed chat: %v", err)
	}

	cfg := &config.Config{
		ChatURL:      frontend,
		QueryTimeout: 5 * time.Second,
	}
	return setupRouter(store.New(db), cfg)
}

func TestHealthNeedsNoOrigin(t *testing.T) {
	r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestAPIAllowsConfiguredOrigin(t *testing.T) {
	r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/chats", nil)
	req.Header.Set("Origin", frontend)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "\"pagination\"") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != frontend {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
	if got := resp.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("unexpected Access-Control-Allow-Credentials: %q", got)
	}
}

func TestAPIRejectsForeignOrigin(t *testing.T) {
	r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/chats", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "question") {
		t.Fatal("response body leaked chat data")
	}
}

func TestAPIRejectsSameHostOrigin(t *testing.T) {
	r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/chats", nil)
	// cors treats an Origin equal to the request host as same-origin and
	// passes it through unchecked; the origin gate must still reject it
	// with the JSON error body.
	req.Header.Set("Origin", "http://"+req.Host)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Forbidden") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
	if strings.Contains(resp.Body.String(), "question") {
		t.Fatal("response body leaked chat data")
	}
}

func TestAPIRejectsRefererHostExtension(t *testing.T) {
	r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/chats", nil)
	req.Header.Set("Referer", frontend+".evil.com/lure")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "question") {
		t.Fatal("response body leaked chat data")
	}
}

func TestAPIAllowsRefererFallback(t *testing.T) {
	r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Referer", frontend+"/dashboard")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestAPIRejectsMissingOrigin(t *testing.T) {
	r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/chats", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	r := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chats", nil)
	req.Header.Set("Origin", frontend)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Method not allowed") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	req.Header.Set("Origin", frontend)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestPreflightAllowed(t *testing.T) {
	r := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/chats", nil)
	req.Header.Set("Origin", frontend)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != frontend {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
}
