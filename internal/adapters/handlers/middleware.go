package handlers

import (
	"net/http"
	"time"

	"github.com/iwtcode/bambuService/internal/middleware/logging"

	"github.com/gin-gonic/gin"
)

func LoggingMiddleware(parentLogger *logging.Logger) gin.HandlerFunc {
	logger := parentLogger.WithPrefix("HTTP")

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		logger.Info("Request started",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote_addr", c.Request.RemoteAddr,
		)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		// Сбои принтера и его файлового хранилища всплывают как 5xx
		logFn := logger.Info
		if status >= http.StatusInternalServerError {
			logFn = logger.Warn
		}
		logFn("Request completed",
			"status", status,
			"latency", latency,
			"client_ip", c.ClientIP(),
		)
	}
}
