package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	newRouter := func(seen *string) *gin.Engine {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			*seen = c.GetString(RequestIDKey)
			c.Status(http.StatusNoContent)
		})
		return router
	}

	t.Run("generates an id", func(t *testing.T) {
		var seen string
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		newRouter(&seen).ServeHTTP(w, req)

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, seen)
	})

	t.Run("keeps a valid inbound id", func(t *testing.T) {
		var seen string
		inbound := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, inbound)
		newRouter(&seen).ServeHTTP(w, req)

		assert.Equal(t, inbound, w.Header().Get(RequestIDHeader))
		assert.Equal(t, inbound, seen)
	})

	t.Run("replaces a malformed inbound id", func(t *testing.T) {
		var seen string
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "<script>alert(1)</script>")
		newRouter(&seen).ServeHTTP(w, req)

		assert.NotEqual(t, "<script>alert(1)</script>", seen)
		assert.Len(t, seen, 36)
	})
}
