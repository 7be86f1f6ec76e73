package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmgilman/bookworm/internal/slogger"
)

// requestLogger logs each request through slog and puts the logger in the
// request context, so controller calls made by handlers log to it too.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(slogger.WithLogger(c.Request.Context(), logger))

		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
