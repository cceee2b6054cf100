package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/horvbalint/recet/internal/types"
)

// ErrorHandler recovers panics and turns errors attached with c.Error into a
// JSON error response when the handler did not write one itself.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic while handling request", "path", c.Request.URL.Path, "panic", rec)
				c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{Error: "internal server error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last()
		logger.Error("request failed", "path", c.Request.URL.Path, "error", last.Err)
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "internal server error"})
		}
	}
}
