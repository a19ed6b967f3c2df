package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/config"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/system"
)

type stubController struct {
	registered bool
}

func (s *stubController) BasePath() string { return "stub" }

func (s *stubController) Handlers() []gin.HandlerFunc { return nil }

func (s *stubController) Register(rg *gin.RouterGroup) error {
	s.registered = true
	rg.GET("ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{}
	cfg.Defaults()
	return NewServer(system.NewTestZapLogger(), cfg, false)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	server.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, system.Version, resp.Version)
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	server.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRegisterAllMountsControllersUnderAPI(t *testing.T) {
	server := newTestServer(t)

	stub := &stubController{}
	require.NoError(t, server.RegisterAll([]APIController{stub}))
	assert.True(t, stub.registered)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stub/ping", nil)
	server.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRequestLoggerStashesReqLogger(t *testing.T) {
	server := newTestServer(t)
	server.Engine().GET("check", func(c *gin.Context) {
		_, ok := c.Get(system.ReqLoggerKey)
		assert.True(t, ok)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/check", nil)
	server.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
}
