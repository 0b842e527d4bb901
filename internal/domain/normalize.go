package domain

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// kelvinOffset converts degrees Celsius to Kelvin.
const kelvinOffset = 273.15

// NormalizeStats counts what happened while normalizing one payload.
type NormalizeStats struct {
	Steps           int
	LegacyFallbacks int // steps whose code matched no legacy band or table entry
	NamedFallbacks  int // steps whose code matched no named band or table entry
}

func (s *NormalizeStats) record(legacyFallback, namedFallback bool) {
	s.Steps++
	if legacyFallback {
		s.LegacyFallbacks++
	}
	if namedFallback {
		s.NamedFallbacks++
	}
}

// Normalized is the provider-independent result of one payload.
type Normalized struct {
	Provider string
	Series   CanonicalSeries
	// Current is the most recent observation. Only set for station reports.
	Current     *StationReportRow
	CurrentIcon *IconSelection
	Stats       NormalizeStats
}

// Normalize decodes a raw payload for the named provider and normalizes it.
// It fails only with ErrUnknownProvider or ErrTypeMismatch.
func Normalize(provider string, payload []byte) (Normalized, error) {
	switch provider {
	case ProviderForecast:
		p, err := DecodeForecast(payload)
		if err != nil {
			return Normalized{}, err
		}
		series, stats, err := NormalizeForecast(p)
		if err != nil {
			return Normalized{}, err
		}
		return Normalized{Provider: provider, Series: series, Stats: stats}, nil
	case ProviderReport:
		p, err := DecodeReport(payload)
		if err != nil {
			return Normalized{}, err
		}
		report, stats := NormalizeReport(p)
		out := Normalized{Provider: provider, Series: report.Series(), Stats: stats}
		if row, icon, ok := report.Current(); ok {
			out.Current = &row
			out.CurrentIcon = &icon
		}
		return out, nil
	default:
		return Normalized{}, fmt.Errorf("normalize %q: %w", provider, ErrUnknownProvider)
	}
}

// DecodeForecast parses a forecast payload.
func DecodeForecast(data []byte) (ForecastPayload, error) {
	var p ForecastPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ForecastPayload{}, fmt.Errorf("decode forecast payload: %w: %w", ErrTypeMismatch, err)
	}
	return p, nil
}

// DecodeReport parses a station report payload.
func DecodeReport(data []byte) (ReportPayload, error) {
	var p ReportPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ReportPayload{}, fmt.Errorf("decode report payload: %w: %w", ErrTypeMismatch, err)
	}
	return p, nil
}

// NormalizeForecast converts a forecast payload into a canonical series, one
// step per time step. Missing temperature, precipitation and cloud cover
// become 0. A missing code becomes DefaultWeatherCode.
func NormalizeForecast(p ForecastPayload) (CanonicalSeries, NormalizeStats, error) {
	issuedAt, err := parseIssueTime(p.IssueTime)
	if err != nil {
		return CanonicalSeries{}, NormalizeStats{}, err
	}

	var stats NormalizeStats
	rows := Transpose(p.Data.columns())
	entries := make([]SeriesEntry, 0, len(p.Data.TimeSteps))
	for i, ts := range p.Data.TimeSteps {
		var row Row
		if i < len(rows) {
			row = rows[i]
		}
		step := CanonicalStep{
			TimestampMillis:        ts,
			TemperatureKelvin:      row.Float(fieldTemp),
			PrecipitationMm:        row.Float(fieldPrecipitation),
			SignificantWeatherCode: row.Code(fieldSignificantWeather),
			CloudCoverPercent:      row.Float(fieldTotalCloudCover),
		}
		icon, legacyFallback, namedFallback := classifyForecast(step.SignificantWeatherCode, cloudFraction(step.CloudCoverPercent))
		stats.record(legacyFallback, namedFallback)
		entries = append(entries, SeriesEntry{Step: step, Icon: icon})
	}
	return NewCanonicalSeries(entries, issuedAt), stats, nil
}

// parseIssueTime accepts an empty string as unknown.
func parseIssueTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse issue_time %q: %w: %w", s, ErrTypeMismatch, err)
	}
	return t.UTC(), nil
}

// cloudFraction converts a 0..100 percentage to a fraction clamped to [0, 1].
func cloudFraction(percent float64) float64 {
	return min(max(percent/100, 0), 1)
}

// ReportSeries is a station report sorted ascending by timestamp.
type ReportSeries struct {
	rows   []StationReportRow
	series CanonicalSeries
}

// Series returns the canonical view of the report.
func (r ReportSeries) Series() CanonicalSeries { return r.series }

// Rows returns a copy of the sorted observation rows.
func (r ReportSeries) Rows() []StationReportRow { return slices.Clone(r.rows) }

// Current returns the most recent observation and its icon.
func (r ReportSeries) Current() (StationReportRow, IconSelection, bool) {
	if len(r.rows) == 0 {
		return StationReportRow{}, IconSelection{}, false
	}
	last := r.rows[len(r.rows)-1].Clone()
	return last, MapPresentWeather(last.PresentWeatherCode()), true
}

// NormalizeReport stable-sorts report rows by timestamp and builds the
// canonical series. Station temperatures are converted from Celsius to Kelvin
// after null-coalescing.
func NormalizeReport(p ReportPayload) (ReportSeries, NormalizeStats) {
	rows := slices.Clone(p.Data)
	slices.SortStableFunc(rows, func(a, b StationReportRow) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})

	var stats NormalizeStats
	entries := make([]SeriesEntry, 0, len(rows))
	for _, row := range rows {
		code := row.PresentWeatherCode()
		icon, legacyFallback, namedFallback := mapPresentWeather(code)
		stats.record(legacyFallback, namedFallback)
		entries = append(entries, SeriesEntry{
			Step: CanonicalStep{
				TimestampMillis:        row.Timestamp,
				TemperatureKelvin:      valueOrZero(row.DryBulbTemperatureAt2m) + kelvinOffset,
				PrecipitationMm:        valueOrZero(row.PrecipitationLastHour),
				SignificantWeatherCode: code,
				CloudCoverPercent:      valueOrZero(row.CloudCoverTotal),
			},
			Icon: icon,
		})
	}

	var issuedAt time.Time
	if len(rows) > 0 {
		issuedAt = time.UnixMilli(rows[len(rows)-1].Timestamp).UTC()
	}
	return ReportSeries{rows: rows, series: NewCanonicalSeries(entries, issuedAt)}, stats
}
