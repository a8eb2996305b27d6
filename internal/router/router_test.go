package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/internal/config"
	"github.com/inkpress/internal/db"
	"github.com/inkpress/internal/handler"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouterTest(t *testing.T) (*gin.Engine, string, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.User{}, &db.Category{}, &db.Post{}, &db.Comment{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	uploadDir := t.TempDir()
	cfg := config.AppConfig{
		SessionSecret:      "test-session-secret",
		Environment:        "development",
		UploadDir:          uploadDir,
		UploadURLPath:      "/uploads",
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	}

	engine := SetupRouter(cfg, handler.NewAPI(gdb, uploadDir, "/uploads"))

	return engine, uploadDir, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func TestMutatingRoutesRequireSession(t *testing.T) {
	engine, _, cleanup := setupRouterTest(t)
	defer cleanup()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/posts"},
		{http.MethodPut, "/api/posts/1"},
		{http.MethodDelete, "/api/posts/1"},
		{http.MethodPost, "/api/categories"},
		{http.MethodPost, "/api/upload"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", w.Code)
			}
		})
	}
}

func TestReadRoutesAreOpen(t *testing.T) {
	engine, _, cleanup := setupRouterTest(t)
	defer cleanup()

	for _, path := range []string{"/api/posts", "/api/categories"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("GET %s: expected status 200, got %d", path, w.Code)
		}
	}
}

func TestSetupRouterServesUploads(t *testing.T) {
	engine, uploadDir, cleanup := setupRouterTest(t)
	defer cleanup()

	if err := os.WriteFile(filepath.Join(uploadDir, "cover.jpg"), []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("write upload fixture: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/uploads/cover.jpg", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "jpeg-bytes" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	engine, _, cleanup := setupRouterTest(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin header %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials to be allowed, got %q", got)
	}
}
