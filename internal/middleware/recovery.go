package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apierrors "github.com/yukikurage/task-analytics-api/internal/errors"
)

// Recovery turns a panic into a 500 error envelope and logs it.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				zerolog.Ctx(c.Request.Context()).Error().
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Msg("recovered from panic")
				apierrors.InternalError(c, "")
			}
		}()
		c.Next()
	}
}
