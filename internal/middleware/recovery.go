package middleware

import (
	"net/http"

	"github.com/devhub-platform/portal/internal/constants"
	"github.com/devhub-platform/portal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Recovery converts panics into 500 responses instead of dropped connections
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.LogPanic(recovered)
				c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse(constants.MsgInternalError, nil))
				c.Abort()
			}
		}()

		c.Next()
	}
}
