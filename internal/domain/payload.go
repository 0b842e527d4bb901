package domain

import "reflect"

// ForecastPayload is the gridded forecast response. Column names are a
// provider contract.
type ForecastPayload struct {
	Data      ForecastColumns `json:"data"`
	IssueTime string          `json:"issue_time"`
}

// ForecastColumns holds the index-aligned forecast arrays. Samples may be null
// and arrays may be shorter than time_steps.
type ForecastColumns struct {
	TimeSteps                         []int64    `json:"time_steps"`
	Temp                              []*float64 `json:"temp"`
	Precipitation1hSignificantWeather []*float64 `json:"precipitation_1h_significant_weather"`
	TotalCloudCover                   []*float64 `json:"total_cloud_cover"`
	SignificantWeather                []*float64 `json:"significant_weather"`
}

// Forecast column names.
const (
	fieldTemp               = "temp"
	fieldPrecipitation      = "precipitation_1h_significant_weather"
	fieldTotalCloudCover    = "total_cloud_cover"
	fieldSignificantWeather = "significant_weather"
)

// columns exposes the metric arrays as a RawColumnSeries.
func (c ForecastColumns) columns() RawColumnSeries {
	return RawColumnSeries{
		fieldTemp:               c.Temp,
		fieldPrecipitation:      c.Precipitation1hSignificantWeather,
		fieldTotalCloudCover:    c.TotalCloudCover,
		fieldSignificantWeather: c.SignificantWeather,
	}
}

// ReportPayload is the station observation response.
type ReportPayload struct {
	Units map[string]string  `json:"units,omitempty"`
	Data  []StationReportRow `json:"data"`
}

// StationReportRow is one station observation. Every measurement is optional.
// Two DWD field names contain spaces and are kept verbatim.
type StationReportRow struct {
	Timestamp      int64    `json:"timestamp"`
	PresentWeather *float64 `json:"present_weather,omitempty"`

	PastWeather1                           *float64 `json:"past_weather_1,omitempty"`
	PastWeather2                           *float64 `json:"past_weather_2,omitempty"`
	DryBulbTemperatureAt2m                 *float64 `json:"dry_bulb_temperature_at_2_meter_above_ground,omitempty"`
	DewPointTemperatureAt2m                *float64 `json:"dew_point_temperature_at_2_meter_above_ground,omitempty"`
	TemperatureAt5cm                       *float64 `json:"temperature_at_5_cm_above_ground,omitempty"`
	MinimumTemperatureLast12h5cm           *float64 `json:"minimum_temperature_last_12_hours_5_cm_above_ground,omitempty"`
	MinimumTemperatureLast12h2m            *float64 `json:"minimum_temperature_last_12_hours_2_meters_above_ground,omitempty"`
	MaximumTemperatureLast12h2m            *float64 `json:"maximum_temperature_last_12_hours_2_meters_above_ground,omitempty"`
	MinimumTemperatureAt5cmPreviousDay     *float64 `json:"minimum_of_temperature_at_5_cm_above_ground_for_previous_day,omitempty"`
	MinimumTemperaturePreviousDay          *float64 `json:"minimum_of_temperature_for_previous_day,omitempty"`
	MaximumTemperaturePreviousDay          *float64 `json:"maximum_of_temperature_for_previous_day,omitempty"`
	DailyMeanTemperaturePreviousDay        *float64 `json:"daily_mean_of_temperature_previous_day,omitempty"`
	RelativeHumidity                       *float64 `json:"relative_humidity,omitempty"`
	PressureMeanSeaLevel                   *float64 `json:"pressure_reduced_to_mean_sea_level,omitempty"`
	HorizontalVisibility                   *float64 `json:"horizontal_visibility,omitempty"`
	CloudCoverTotal                        *float64 `json:"cloud_cover_total,omitempty"`
	HeightOfLowestCloudBase                *float64 `json:"height_of_base_of_lowest_cloud_above_station,omitempty"`
	PrecipitationLastHour                  *float64 `json:"precipitation_amount_last_hour,omitempty"`
	PrecipitationLast3h                    *float64 `json:"precipitation_amount_last_3_hours,omitempty"`
	PrecipitationLast6h                    *float64 `json:"precipitation_amount_last_6_hours,omitempty"`
	PrecipitationLast12h                   *float64 `json:"precipitation_last_12_hours,omitempty"`
	PrecipitationLast24h                   *float64 `json:"precipitation_amount_last_24_hours,omitempty"`
	DepthOfNewSnow                         *float64 `json:"depth_of_new_snow,omitempty"`
	TotalSnowDepth                         *float64 `json:"total_snow_depth,omitempty"`
	Evaporation                            *float64 `json:"evaporation,omitempty"`
	MeanWindDirectionLast10                *float64 `json:"mean_wind_direction_during_last_10,omitempty"`
	MeanWindDirectionLast10Min10m          *float64 `json:"mean_wind_direction_during_last_10 min_at_10_meters_above_ground,omitempty"`
	MeanWindSpeedLast10Min10m              *float64 `json:"mean_wind_speed_during last_10_min_at_10_meters_above_ground,omitempty"`
	MaximumWindSpeedLastHour               *float64 `json:"maximum_wind_speed_last_hour,omitempty"`
	MaximumWindSpeedLast6h                 *float64 `json:"maximum_wind_speed_during_last_6_hours,omitempty"`
	MaximumWindSpeed10MinMeanLastHour      *float64 `json:"maximum_wind_speed_as_10_minutes_mean_during_last_hour,omitempty"`
	MaximumWindSpeedPreviousDay            *float64 `json:"maximum_wind_speed_for_previous_day,omitempty"`
	MaximumOf10MinMeanWindSpeedPreviousDay *float64 `json:"maximum_of_10_minutes_mean_of_wind_speed_for_previous_day,omitempty"`
	GlobalRadiationLastHour                *float64 `json:"global_radiation_last_hour,omitempty"`
	GlobalRadiationPast24h                 *float64 `json:"global_radiation_past_24_hours,omitempty"`
	DiffuseSolarRadiationLastHour          *float64 `json:"diffuse_solar_radiation_last_hour,omitempty"`
	DirectSolarRadiationLastHour           *float64 `json:"direct_solar_radiation_last_hour,omitempty"`
	DirectSolarRadiationLast24h            *float64 `json:"direct_solar_radiation_last_24_hours,omitempty"`
	TotalSunshineLastHour                  *float64 `json:"total_time_of_sunshine_during_last_hour,omitempty"`
	TotalSunshinePastDay                   *float64 `json:"total_time_of_sunshine_past_day,omitempty"`
	Sea                                    *float64 `json:"sea,omitempty"`
}

// PresentWeatherCode returns the present weather code, or DefaultWeatherCode
// if absent. Fractional codes are truncated.
func (r StationReportRow) PresentWeatherCode() int {
	if r.PresentWeather == nil {
		return DefaultWeatherCode
	}
	return weatherCode(*r.PresentWeather)
}

// Clone returns a copy of r that shares no measurement pointers with it.
func (r StationReportRow) Clone() StationReportRow {
	v := reflect.ValueOf(&r).Elem()
	for i := range v.NumField() {
		field := v.Field(i)
		if field.Kind() != reflect.Pointer || field.IsNil() {
			continue
		}
		dup := reflect.New(field.Type().Elem())
		dup.Elem().Set(field.Elem())
		field.Set(dup)
	}
	return r
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
