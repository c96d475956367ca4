package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/delivery-demand/pkg/common"
)

// MaxBodySize limits the request body size
func MaxBodySize(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				common.ErrorResponse(c, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("request body exceeds %d bytes", maxSize))
			} else {
				common.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
			}
			c.Abort()
			return
		}

		// Restore the body so downstream handlers can read it.
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		c.Next()
	}
}

// ValidateContentType ensures POST, PUT and PATCH requests have the given content type
func ValidateContentType(contentType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		if c.ContentType() != contentType {
			common.ErrorResponse(c, http.StatusUnsupportedMediaType,
				fmt.Sprintf("unsupported content type %q, expected %q", c.ContentType(), contentType))
			c.Abort()
			return
		}
		c.Next()
	}
}

// ValidateJSONContentType ensures request has application/json content type
func ValidateJSONContentType() gin.HandlerFunc {
	return ValidateContentType("application/json")
}
