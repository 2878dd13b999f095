package limiter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(rps, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Limit(rps, burst, time.Minute))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return router
}

func TestLimit_RejectsWithEnvelope(t *testing.T) {
	router := newRouter(1, 1)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var body struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Success)
	assert.False(t, *body.Success)
	assert.Equal(t, tooManyRequestsMessage, body.Message)
}

func TestLimit_SeparateBucketPerIP(t *testing.T) {
	router := newRouter(1, 1)

	for _, addr := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code, addr)
	}
}

func TestRateLimiter_CleanupDropsIdleVisitors(t *testing.T) {
	l := newRateLimiter(1, 1, time.Minute)
	l.getVisitor("10.0.0.1")

	l.cleanup(time.Now().Add(2 * time.Minute))

	assert.Empty(t, l.visitors)
}
