package monitoring

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/richxcame/delivery-demand/pkg/config"
	"github.com/richxcame/delivery-demand/pkg/logger"
	"go.uber.org/zap"
)

// InitSentry configures the global Sentry client. It returns false without error
// when no DSN is configured, in which case capturing is a no-op.
func InitSentry(cfg config.SentryConfig, environment, release string) (bool, error) {
	if cfg.DSN == "" {
		logger.Info("Sentry disabled: SENTRY_DSN not set")
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      environment,
		Release:          release,
		SampleRate:       cfg.SampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return false, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	logger.Info("Sentry initialized", zap.String("environment", environment), zap.String("release", release))
	return true, nil
}

// Middleware attaches a request-scoped hub. Panics are re-raised for middleware.Recovery.
func Middleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// CaptureError reports a server-side fault on the request's hub
func CaptureError(c *gin.Context, err error) {
	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		if id := logger.CorrelationIDFromContext(c.Request.Context()); id != "" {
			scope.SetTag("correlation_id", id)
		}
		scope.SetTag("endpoint", c.FullPath())
		hub.CaptureException(err)
	})
}

// Flush waits for buffered events to be sent
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
