package httpkit

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"roofing_crm_backend/platform/apperr"
	"roofing_crm_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorMapsDomainKinds(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", apperr.NotFound("lead not found"), http.StatusNotFound, `{"error":"lead not found"}`},
		{"wrapped", fmt.Errorf("get: %w", apperr.NotFound("contact not found")), http.StatusNotFound, `{"error":"contact not found"}`},
		{"unavailable", apperr.Unavailable("failed to generate tasks"), http.StatusServiceUnavailable, `{"error":"failed to generate tasks"}`},
		{"untyped", errors.New("pq: connection refused"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			handled := HandleError(c, tc.err)

			assert.True(t, handled)
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func TestHandleErrorNil(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	assert.False(t, HandleError(c, nil))
}

func TestRateLimitRejectsAfterBurst(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0), 1, logger.NewWithWriter("production", io.Discard))

	engine := gin.New()
	engine.Use(limiter.RateLimit())
	engine.GET("/draft", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/draft", nil))
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/draft", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRequestIDEchoesInboundHeader(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestIDKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "req-123", w.Body.String())
}
