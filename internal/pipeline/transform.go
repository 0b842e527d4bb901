package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-series-etl/internal/domain"
	"github.com/couchcryptid/weather-series-etl/internal/observability"
)

// SeriesTransformer implements Transformer by normalizing the payload for the
// provider named in the message header.
type SeriesTransformer struct {
	clock      clockwork.Clock
	location   *time.Location
	windowSize int
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewTransformer creates a SeriesTransformer. The clock decides which step is
// valid now and stamps ProcessedAt. A nil location means UTC.
func NewTransformer(clock clockwork.Clock, location *time.Location, windowSize int, metrics *observability.Metrics, logger *slog.Logger) *SeriesTransformer {
	if location == nil {
		location = time.UTC
	}
	return &SeriesTransformer{
		clock:      clock,
		location:   location,
		windowSize: windowSize,
		metrics:    metrics,
		logger:     logger,
	}
}

func (t *SeriesTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.SeriesEvent, error) {
	provider := raw.Provider()
	out, err := domain.Normalize(provider, raw.Value)
	if err != nil {
		return domain.SeriesEvent{}, err
	}

	t.metrics.SeriesSteps.WithLabelValues(provider).Observe(float64(out.Stats.Steps))
	if out.Stats.LegacyFallbacks > 0 {
		t.metrics.IconFallbacks.WithLabelValues("legacy").Add(float64(out.Stats.LegacyFallbacks))
	}
	if out.Stats.NamedFallbacks > 0 {
		t.metrics.IconFallbacks.WithLabelValues("named").Add(float64(out.Stats.NamedFallbacks))
	}

	now := t.clock.Now()
	window := out.Series.Window(now, t.windowSize)
	if len(window) > 0 {
		first := window[0]
		t.logger.Debug("series normalized",
			"provider", provider,
			"steps", out.Series.Len(),
			"window", len(window),
			"valid_at", first.Step.Time(),
			"icon", first.IconNameIn(t.location),
		)
	}

	return domain.SeriesEvent{
		ID:          seriesID(provider, out.Series),
		Provider:    provider,
		IssuedAt:    out.Series.IssuedAt(),
		Steps:       out.Series.Entries(),
		Window:      window,
		Current:     out.Current,
		CurrentIcon: out.CurrentIcon,
		ProcessedAt: now.UTC(),
	}, nil
}

// seriesID hashes the provider, issue time and step range so a replayed
// payload produces the same ID.
func seriesID(provider string, series domain.CanonicalSeries) string {
	var first, last int64
	if series.Len() > 0 {
		first = series.At(0).Step.TimestampMillis
		last = series.At(series.Len() - 1).Step.TimestampMillis
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s",
		provider,
		series.IssuedAt().Format(time.RFC3339),
		strconv.FormatInt(first, 10),
		strconv.FormatInt(last, 10),
	)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
