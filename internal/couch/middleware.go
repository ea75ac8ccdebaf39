package couch

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/NexusGPU/couchgo/internal/errors"
	"github.com/gin-gonic/gin"
)

// ContextKey is the gin context key the extension is stored under
const ContextKey = ExtensionName

// Middleware makes the extension available to handlers through FromContext
func (e *Extension) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKey, e)
		c.Next()
	}
}

// FromContext returns the extension set by Middleware
func FromContext(c *gin.Context) (*Extension, bool) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil, false
	}
	e, ok := v.(*Extension)
	return e, ok
}

// DocumentHandler serves GET /docs/*id from the application database.
// "?remote=true" bypasses the document cache.
func DocumentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		e, ok := FromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "couch extension not installed"})
			return
		}
		db := e.DB()
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
			return
		}

		id := strings.TrimPrefix(c.Param("id"), "/")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "document id is required"})
			return
		}

		var opts []GetOption
		if remote, _ := strconv.ParseBool(c.Query("remote")); remote {
			opts = append(opts, WithRemote())
		}

		doc, err := db.Get(c.Request.Context(), id, opts...)
		if err != nil {
			c.JSON(statusCode(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, doc.Fields)
	}
}

// HealthHandler reports whether the server answers /_up
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		e, ok := FromContext(c)
		if !ok || e.Client() == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "disconnected"})
			return
		}
		up, err := e.Client().Server().Up(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": up.Status})
	}
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errors.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
