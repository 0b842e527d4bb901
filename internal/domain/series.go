package domain

import (
	"context"
	"errors"
	"math"
	"time"
)

var (
	// ErrTypeMismatch is returned when a payload cannot be read as the expected shape.
	ErrTypeMismatch = errors.New("payload type mismatch")

	// ErrUnknownProvider is returned for a provider name with no normalizer.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Provider names as carried in the "provider" message header.
const (
	ProviderForecast = "dwd-forecast"
	ProviderReport   = "dwd-report"
)

// DefaultWeatherCode stands in for a missing or unknown weather code.
const DefaultWeatherCode = 1

// UnmatchedWeatherCode replaces samples that cannot be a weather code. No
// forecast band or station table entry matches it, so each vocabulary falls
// back to its default.
const UnmatchedWeatherCode = math.MaxInt32

// HourlyWindow is the number of steps shown in the hourly display.
const HourlyWindow = 24

// RawColumnSeries maps a field name to its samples. Fields are index aligned
// but may differ in length. A nil sample is an explicit null.
type RawColumnSeries map[string][]*float64

// Row is one index of a transposed RawColumnSeries. A missing key means the
// field had no sample at that index.
type Row map[string]*float64

// CanonicalStep is one provider-independent weather step.
type CanonicalStep struct {
	TimestampMillis        int64   `json:"timestamp"`
	TemperatureKelvin      float64 `json:"temperature_k"`
	PrecipitationMm        float64 `json:"precipitation_mm"`
	SignificantWeatherCode int     `json:"weather_code"`
	CloudCoverPercent      float64 `json:"cloud_cover_pct"`
}

// Time returns the step timestamp as UTC time.
func (s CanonicalStep) Time() time.Time {
	return time.UnixMilli(s.TimestampMillis).UTC()
}

// SeriesEntry pairs a step with its icon.
type SeriesEntry struct {
	Step CanonicalStep `json:"step"`
	Icon IconSelection `json:"icon"`
}

// IconNameIn returns the named icon for this entry using the local hour in loc.
func (e SeriesEntry) IconNameIn(loc *time.Location) IconName {
	return e.Icon.Named(IsNightHour(e.Step.Time().In(loc).Hour()))
}

// RawEvent is an unprocessed provider payload read from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Provider returns the provider header of the raw event.
func (r RawEvent) Provider() string {
	return r.Headers["provider"]
}

// SeriesEvent is the normalized output of one payload, destined for the sink
// topic and the last-good store.
type SeriesEvent struct {
	ID          string            `json:"id"`
	Provider    string            `json:"provider"`
	IssuedAt    time.Time         `json:"issued_at"`
	Steps       []SeriesEntry     `json:"steps"`
	Window      []SeriesEntry     `json:"window"`
	Current     *StationReportRow `json:"current,omitempty"`
	CurrentIcon *IconSelection    `json:"current_icon,omitempty"`
	ProcessedAt time.Time         `json:"processed_at"`
}
