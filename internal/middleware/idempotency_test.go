package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/charge", IdempotencyKey(), func(c *gin.Context) {
		*seen = c.GetString(IdempotencyKeyContextKey)
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestIdempotencyKeyMissing(t *testing.T) {
	var seen string
	r := newEngine(&seen)

	for _, header := range []string{"", "   "} {
		req := httptest.NewRequest(http.MethodPost, "/charge", nil)
		if header != "" {
			req.Header.Set(IdempotencyKeyHeader, header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"code":"VALIDATION_ERROR","message":"Missing Idempotency-Key header"}`, w.Body.String())
	}
	assert.Empty(t, seen, "handler must not run")
}

func TestIdempotencyKeyPassedToHandler(t *testing.T) {
	var seen string
	r := newEngine(&seen)

	req := httptest.NewRequest(http.MethodPost, "/charge", nil)
	req.Header.Set("idempotency-key", " order-42-attempt ")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "order-42-attempt", seen)
}
