package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/delivery-demand/pkg/common"
	"github.com/richxcame/delivery-demand/pkg/logger"
	"go.uber.org/zap"
)

// Recovery middleware recovers from panics and answers with a 500 envelope
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.WithContext(c.Request.Context()).Error("Panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.Stack("stack"),
				)

				if !c.Writer.Written() {
					common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
				}
				c.Abort()
			}
		}()

		c.Next()
	}
}
