package logger

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const loggerKey = "logger"

// FromContext retrieves the request-scoped logger from the gin context
func FromContext(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(loggerKey); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	return GetLogger()
}

// WithContext stores a request-scoped logger in the gin context
func WithContext(c *gin.Context, l *zap.Logger) {
	c.Set(loggerKey, l)
}
