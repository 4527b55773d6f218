package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/emilythestrangee/elden-builds/backend/internal/config"
	"github.com/emilythestrangee/elden-builds/backend/internal/handlers"
)

type fakeDB struct {
	stats map[string]string
}

func (f fakeDB) Health(context.Context) map[string]string {
	return f.stats
}

func newTestServer(stats map[string]string) *Server {
	gin.SetMode(gin.TestMode)
	return &Server{
		cfg: &config.Config{
			JWT:  config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "elden-builds"},
			CORS: config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
		},
		db:      fakeDB{stats: stats},
		handler: handlers.NewHandler(nil, nil, nil, nil, nil),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestHealth(t *testing.T) {
	t.Run("should report ok when the database is up", func(t *testing.T) {
		r := newTestServer(map[string]string{"status": "up"}).RegisterRoutes()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"up"}`, w.Body.String())
	})

	t.Run("should report unavailable when the database is down", func(t *testing.T) {
		r := newTestServer(map[string]string{"status": "down"}).RegisterRoutes()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestServer(map[string]string{"status": "up"}).RegisterRoutes()

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/comments/1/vote/upvote"},
		{http.MethodPost, "/api/builds/1/like"},
		{http.MethodGet, "/api/notifications"},
		{http.MethodPost, "/api/notifications/read"},
		{http.MethodDelete, "/api/notifications/1"},
		{http.MethodPut, "/api/me/preferences"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
