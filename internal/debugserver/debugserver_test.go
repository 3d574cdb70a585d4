package debugserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/hamr-launcher/hamrd/internal/index"
	"github.com/hamr-launcher/hamrd/internal/pluginmgr"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	idx := index.New()
	plugins := pluginmgr.NewManager(t.TempDir(), "", true)

	s := New("", plugins, idx)
	r := gin.New()
	r.GET("/healthz", s.handleHealthz)
	r.GET("/stats", s.handleStats)
	r.GET("/plugins", s.handlePlugins)
	return r
}

func TestHealthzReturnsOK(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestStatsReturnsIndexStats(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "totalPlugins")
}

func TestPluginsReturnsEmptyListWhenNoneDiscovered(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/plugins", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestStartIsNoOpWithEmptyAddr(t *testing.T) {
	idx := index.New()
	plugins := pluginmgr.NewManager(t.TempDir(), "", true)
	s := New("", plugins, idx)
	s.Start()
	assert.Nil(t, s.http, "no listener should be created when addr is empty")
}
