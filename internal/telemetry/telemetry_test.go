package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/saas-factory/api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestOtlpEndpoint(t *testing.T) {
	assert.Equal(t, "collector:4317", otlpEndpoint("http://collector:4317/"))
	assert.Equal(t, "collector:4317", otlpEndpoint("https://collector:4317"))
	assert.Equal(t, "collector:4317", otlpEndpoint("collector:4317"))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(0).Description())
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(3).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestSetupDisabled(t *testing.T) {
	cfg := &config.Config{}
	tp, err := SetupTracing(cfg)
	require.NoError(t, err)
	assert.Nil(t, tp)

	mp, err := SetupMetrics(cfg)
	require.NoError(t, err)
	assert.Nil(t, mp)

	assert.NoError(t, Shutdown(context.Background()))
	assert.NoError(t, ShutdownMetrics(context.Background()))
}

func TestRecordersAreNoopsBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordGenerationSuccess(context.Background(), "demo", 12, 3)
		RecordGenerationError(context.Background(), "demo", "timeout", 12)
		RecordDeployment(context.Background(), "s3", false)
	})
	require.NoError(t, InitGenerationMetrics())
	assert.NotPanics(t, func() {
		RecordGenerationSuccess(context.Background(), "demo", 12, 3)
	})
}

func TestGinMiddleware_SkipsNonAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware("test"), TraceIDMiddleware())
	r.GET("/health", func(c *gin.Context) {
		_, ok := c.Get(TraceIDKey)
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Trace-Id"))
}
