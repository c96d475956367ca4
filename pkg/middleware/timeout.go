package middleware

import (
	"time"

	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/richxcame/delivery-demand/pkg/common"
)

// Timeout answers 503 when a handler runs longer than d
func Timeout(d time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(d),
		timeout.WithResponse(func(c *gin.Context) {
			common.AppErrorResponse(c, common.NewServiceUnavailableError("request timed out"))
		}),
	)
}
