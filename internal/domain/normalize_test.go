package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forecastJSON = `{
  "issue_time": "2025-01-10T09:00:00Z",
  "data": {
    "time_steps": [1736510400000, 1736514000000, 1736517600000],
    "temp": [280.15, 281.15, null],
    "precipitation_1h_significant_weather": [0, 0.4],
    "total_cloud_cover": [10, 50, null],
    "significant_weather": [0, 46, null]
  }
}`

const reportJSON = `{
  "units": {"dry_bulb_temperature_at_2_meter_above_ground": "C"},
  "data": [
    {"timestamp": 1736517600000, "present_weather": 27, "dry_bulb_temperature_at_2_meter_above_ground": 5.5, "cloud_cover_total": 90},
    {"timestamp": 1736510400000, "present_weather": 1, "dry_bulb_temperature_at_2_meter_above_ground": 3.0, "precipitation_amount_last_hour": 0.2},
    {"timestamp": 1736514000000}
  ]
}`

func TestNormalize_Forecast(t *testing.T) {
	out, err := Normalize(ProviderForecast, []byte(forecastJSON))
	require.NoError(t, err)

	assert.Equal(t, ProviderForecast, out.Provider)
	assert.Nil(t, out.Current)
	assert.Equal(t, time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC), out.Series.IssuedAt())
	require.Equal(t, 3, out.Series.Len())

	want := []CanonicalStep{
		{TimestampMillis: 1736510400000, TemperatureKelvin: 280.15, PrecipitationMm: 0, SignificantWeatherCode: 0, CloudCoverPercent: 10},
		{TimestampMillis: 1736514000000, TemperatureKelvin: 281.15, PrecipitationMm: 0.4, SignificantWeatherCode: 46, CloudCoverPercent: 50},
		{TimestampMillis: 1736517600000, TemperatureKelvin: 0, PrecipitationMm: 0, SignificantWeatherCode: 1, CloudCoverPercent: 0},
	}
	var got []CanonicalStep
	var ids []int
	for _, e := range out.Series.Entries() {
		got = append(got, e.Step)
		ids = append(ids, e.Icon.PrimaryID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{1, 17, 1}, ids)
	assert.Equal(t, NormalizeStats{Steps: 3}, out.Stats)
}

func TestNormalizeForecast_TimeStepsDriveLength(t *testing.T) {
	p := ForecastPayload{Data: ForecastColumns{
		TimeSteps:          []int64{1, 2},
		Temp:               []*float64{f(1), f(2), f(3), f(4)},
		SignificantWeather: []*float64{f(95)},
	}}

	series, stats, err := NormalizeForecast(p)
	require.NoError(t, err)

	assert.Equal(t, 2, series.Len())
	assert.Equal(t, 2, stats.Steps)
	assert.Equal(t, 95, series.At(0).Step.SignificantWeatherCode)
	assert.Equal(t, DefaultWeatherCode, series.At(1).Step.SignificantWeatherCode)
	assert.True(t, series.IssuedAt().IsZero())
}

func TestNormalizeForecast_ClampsCloudFraction(t *testing.T) {
	p := ForecastPayload{Data: ForecastColumns{
		TimeSteps:          []int64{1, 2},
		TotalCloudCover:    []*float64{f(250), f(-20)},
		SignificantWeather: []*float64{f(95), f(95)},
	}}

	series, _, err := NormalizeForecast(p)
	require.NoError(t, err)

	assert.Equal(t, 14, series.At(0).Icon.PrimaryID)
	assert.Equal(t, 23, series.At(1).Icon.PrimaryID)
	assert.Equal(t, 250.0, series.At(0).Step.CloudCoverPercent, "step keeps the raw percentage")
}

func TestNormalizeForecast_CountsFallbacks(t *testing.T) {
	p := ForecastPayload{Data: ForecastColumns{
		TimeSteps:          []int64{1, 2, 3},
		SignificantWeather: []*float64{f(200), f(58), f(61)},
	}}

	_, stats, err := NormalizeForecast(p)
	require.NoError(t, err)

	assert.Equal(t, NormalizeStats{Steps: 3, LegacyFallbacks: 1, NamedFallbacks: 2}, stats)
}

func TestNormalize_Report(t *testing.T) {
	out, err := Normalize(ProviderReport, []byte(reportJSON))
	require.NoError(t, err)

	require.Equal(t, 3, out.Series.Len())
	assert.Equal(t, []int64{1736510400000, 1736514000000, 1736517600000}, out.Series.Timestamps())
	assert.Equal(t, time.UnixMilli(1736517600000).UTC(), out.Series.IssuedAt())

	first := out.Series.At(0).Step
	assert.InDelta(t, 276.15, first.TemperatureKelvin, 1e-9)
	assert.Equal(t, 0.2, first.PrecipitationMm)
	assert.Equal(t, 1, first.SignificantWeatherCode)

	empty := out.Series.At(1)
	assert.InDelta(t, 273.15, empty.Step.TemperatureKelvin, 1e-9, "missing temperature coalesces to 0 C")
	assert.Equal(t, DefaultWeatherCode, empty.Step.SignificantWeatherCode)
	assert.Equal(t, MapPresentWeather(1), empty.Icon)

	require.NotNil(t, out.Current)
	require.NotNil(t, out.CurrentIcon)
	assert.Equal(t, int64(1736517600000), out.Current.Timestamp)
	assert.Equal(t, 14, out.CurrentIcon.PrimaryID)
	assert.Equal(t, N240TstormsV2, out.CurrentIcon.Named(true))
}

func TestNormalizeReport_StableSort(t *testing.T) {
	p := ReportPayload{Data: []StationReportRow{
		{Timestamp: 20, PresentWeather: f(4)},
		{Timestamp: 10, PresentWeather: f(5)},
		{Timestamp: 20, PresentWeather: f(7)},
	}}

	report, _ := NormalizeReport(p)

	rows := report.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, 5.0, *rows[0].PresentWeather)
	assert.Equal(t, 4.0, *rows[1].PresentWeather, "equal timestamps keep input order")
	assert.Equal(t, 7.0, *rows[2].PresentWeather)

	current, icon, ok := report.Current()
	require.True(t, ok)
	assert.Equal(t, 7.0, *current.PresentWeather)
	assert.Equal(t, 20, icon.PrimaryID)
}

func TestNormalize_OddCodesDegradeToDefaults(t *testing.T) {
	t.Run("forecast code beyond int range is cloudy", func(t *testing.T) {
		out, err := Normalize(ProviderForecast, []byte(`{"data": {"time_steps": [1, 2], "significant_weather": [1e19, -1e19]}}`))
		require.NoError(t, err)

		for _, e := range out.Series.Entries() {
			assert.Equal(t, UnmatchedWeatherCode, e.Step.SignificantWeatherCode)
			assert.Equal(t, 4, e.Icon.PrimaryID)
			assert.Equal(t, CloudyV3, e.Icon.Named(false))
		}
		assert.Equal(t, NormalizeStats{Steps: 2, LegacyFallbacks: 2, NamedFallbacks: 2}, out.Stats)
	})

	t.Run("report codes written as floats decode", func(t *testing.T) {
		out, err := Normalize(ProviderReport, []byte(`{"data": [
			{"timestamp": 1, "present_weather": 3.0},
			{"timestamp": 2, "present_weather": 1e19},
			{"timestamp": 3, "present_weather": 31}
		]}`))
		require.NoError(t, err)

		require.Equal(t, 3, out.Series.Len())
		assert.Equal(t, MapPresentWeather(3), out.Series.At(0).Icon)
		assert.Equal(t, MapPresentWeather(1), out.Series.At(1).Icon)
		require.NotNil(t, out.CurrentIcon)
		assert.Equal(t, WindyV2, out.CurrentIcon.Named(false))
		assert.Equal(t, NormalizeStats{Steps: 3, LegacyFallbacks: 1, NamedFallbacks: 1}, out.Stats)
	})
}

func TestStationReportRow_Clone(t *testing.T) {
	row := StationReportRow{Timestamp: 1, PresentWeather: f(27), CloudCoverTotal: f(90)}

	dup := row.Clone()
	*dup.PresentWeather = 31
	*dup.CloudCoverTotal = 0

	assert.Equal(t, 27.0, *row.PresentWeather)
	assert.Equal(t, 90.0, *row.CloudCoverTotal)
	assert.Nil(t, dup.DryBulbTemperatureAt2m)
}

func TestNormalizeReport_Empty(t *testing.T) {
	report, stats := NormalizeReport(ReportPayload{})

	_, _, ok := report.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, report.Series().Len())
	assert.Zero(t, stats.Steps)

	out, err := Normalize(ProviderReport, []byte(`{"data": []}`))
	require.NoError(t, err)
	assert.Nil(t, out.Current)
	assert.Nil(t, out.CurrentIcon)
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		payload  string
		target   error
	}{
		{"unknown provider", "windy", `{}`, ErrUnknownProvider},
		{"forecast not an object", ProviderForecast, `[1, 2]`, ErrTypeMismatch},
		{"forecast string code", ProviderForecast, `{"data": {"time_steps": [1], "significant_weather": ["rain"]}}`, ErrTypeMismatch},
		{"forecast bad issue time", ProviderForecast, `{"issue_time": "yesterday", "data": {}}`, ErrTypeMismatch},
		{"report data not a list", ProviderReport, `{"data": {"timestamp": 1}}`, ErrTypeMismatch},
		{"report string present weather", ProviderReport, `{"data": [{"timestamp": 1, "present_weather": "fog"}]}`, ErrTypeMismatch},
		{"not json", ProviderReport, `<html>`, ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.provider, []byte(tt.payload))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestCanonicalSeries_Window(t *testing.T) {
	base := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	entries := make([]SeriesEntry, 30)
	for i := range entries {
		entries[i] = SeriesEntry{Step: CanonicalStep{TimestampMillis: base.Add(time.Duration(i) * time.Hour).UnixMilli()}}
	}
	series := NewCanonicalSeries(entries, base)

	t.Run("full window", func(t *testing.T) {
		w := series.Window(base.Add(3*time.Hour+30*time.Minute), HourlyWindow)
		require.Len(t, w, HourlyWindow)
		assert.Equal(t, entries[3], w[0])
		assert.Equal(t, entries[26], w[HourlyWindow-1])
	})

	t.Run("shorter than window", func(t *testing.T) {
		w := series.Window(base.Add(20*time.Hour), HourlyWindow)
		assert.Len(t, w, 10)
	})

	t.Run("before first step starts at zero", func(t *testing.T) {
		w := series.Window(base.Add(-5*time.Hour), 2)
		assert.Equal(t, entries[:2], w)
	})

	t.Run("empty series", func(t *testing.T) {
		assert.Empty(t, NewCanonicalSeries(nil, base).Window(base, HourlyWindow))
	})

	t.Run("non-positive size", func(t *testing.T) {
		assert.Empty(t, series.Window(base, 0))
	})
}

func TestCanonicalSeries_DoesNotAlias(t *testing.T) {
	entries := []SeriesEntry{
		{Step: CanonicalStep{TimestampMillis: 2}},
		{Step: CanonicalStep{TimestampMillis: 1}},
	}
	series := NewCanonicalSeries(entries, time.Time{})

	entries[0].Step.TemperatureKelvin = 999
	assert.Equal(t, int64(2), entries[0].Step.TimestampMillis, "input is not reordered")
	assert.Zero(t, series.At(1).Step.TemperatureKelvin)

	out := series.Entries()
	out[0].Step.TemperatureKelvin = 123
	assert.Zero(t, series.At(0).Step.TemperatureKelvin)

	w := series.Window(time.UnixMilli(1), 2)
	w[0].Step.PrecipitationMm = 5
	assert.Zero(t, series.At(0).Step.PrecipitationMm)
}

func TestSeriesEntry_IconNameIn(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 20:30 UTC is 21:30 in Berlin during winter.
	ts := time.Date(2025, 1, 10, 20, 30, 0, 0, time.UTC)
	entry := SeriesEntry{
		Step: CanonicalStep{TimestampMillis: ts.UnixMilli()},
		Icon: ClassifyForecast(0, 0),
	}

	assert.Equal(t, SunnyDayV3, entry.IconNameIn(time.UTC))
	assert.Equal(t, ClearNightV3, entry.IconNameIn(berlin))
}
