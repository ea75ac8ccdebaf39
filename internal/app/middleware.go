package app

import (
	"time"

	"github.com/NexusGPU/couchgo/internal/log"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per handled request
func RequestLogger(l *log.Logger) gin.HandlerFunc {
	l = l.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := l.Info
		if status >= 500 {
			level = l.Error
		}
		level().Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
