package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/richxcame/delivery-demand/pkg/config"
	"github.com/richxcame/delivery-demand/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (r *eventRecorder) beforeSend(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	// Dropping the event keeps the test offline
	return nil
}

func bindRecordingClient(t *testing.T) *eventRecorder {
	t.Helper()
	rec := &eventRecorder{}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:        "https://public@sentry.example.com/1",
		BeforeSend: rec.beforeSend,
	})
	require.NoError(t, err)

	previous := sentry.CurrentHub().Client()
	sentry.CurrentHub().BindClient(client)
	t.Cleanup(func() { sentry.CurrentHub().BindClient(previous) })
	return rec
}

func TestInitSentry_Disabled(t *testing.T) {
	enabled, err := InitSentry(config.SentryConfig{}, "test", "1.0")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestInitSentry_BadDSN(t *testing.T) {
	enabled, err := InitSentry(config.SentryConfig{DSN: "not a dsn", SampleRate: 1}, "test", "1.0")
	assert.Error(t, err)
	assert.False(t, enabled)
}

func TestCaptureError_TagsRequest(t *testing.T) {
	rec := bindRecordingClient(t)

	router := gin.New()
	router.Use(Middleware())
	router.GET("/boom", func(c *gin.Context) {
		ctx := logger.ContextWithCorrelationID(c.Request.Context(), "req-42")
		c.Request = c.Request.WithContext(ctx)
		CaptureError(c, errors.New("code tables out of sync"))
		c.Status(http.StatusUnprocessableEntity)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.events, 1)
	assert.Equal(t, "req-42", rec.events[0].Tags["correlation_id"])
	assert.Equal(t, "/boom", rec.events[0].Tags["endpoint"])
	require.NotEmpty(t, rec.events[0].Exception)
	assert.Equal(t, "code tables out of sync", rec.events[0].Exception[0].Value)
}

func TestCaptureError_WithoutMiddleware(t *testing.T) {
	rec := bindRecordingClient(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/predict", nil)

	CaptureError(c, errors.New("inference failed"))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Len(t, rec.events, 1)
}
