package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs every request once it has been served.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		logger.Debug("request",
			"method", c.Request.Method,
			"path", path,
			"addr", c.ClientIP())

		c.Next()

		size := c.Writer.Size()
		if size < 0 {
			size = 0
		}
		elapsed := time.Since(start)

		args := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"bytes", humanize.Bytes(uint64(size)),
			"time", elapsed,
		}
		if id, ok := GetAccountID(c); ok {
			args = append(args, "account", id)
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}

		if c.Writer.Status() >= 500 {
			logger.Error("response", args...)
			return
		}
		logger.Info("response", args...)
	}
}
