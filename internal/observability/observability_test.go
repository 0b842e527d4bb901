package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "json", slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("series loaded", "provider", "dwd-forecast", "steps", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "series loaded", line["msg"])
	assert.Equal(t, "dwd-forecast", line["provider"])
	assert.Equal(t, "weather-series-etl", line["service"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "text", slog.LevelDebug)

	logger.Debug("window selected", "start", 4)

	assert.Contains(t, buf.String(), "window selected")
	assert.Contains(t, buf.String(), "start")
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.IconFallbacks.WithLabelValues("named").Add(2)
	a.TransformErrors.WithLabelValues("type_mismatch").Inc()

	assert.InDelta(t, 2.0, testutil.ToFloat64(a.IconFallbacks.WithLabelValues("named")), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(a.TransformErrors.WithLabelValues("type_mismatch")), 0)
	assert.InDelta(t, 0.0, testutil.ToFloat64(b.IconFallbacks.WithLabelValues("named")), 0)
}
