// Package domain normalizes raw weather-provider payloads into a canonical,
// time-indexed series and assigns every step a weather icon.
//
// # Providers
//
// Two payload shapes are understood:
//
//	dwd-forecast  gridded model forecast, column oriented:
//	              {"data": {"time_steps": [...], "temp": [...], ...}, "issue_time": "..."}
//	dwd-report    station observation report, row oriented and unordered:
//	              {"data": [{"timestamp": ..., "present_weather": ..., ...}, ...]}
//
// Only [NormalizeForecast] and [NormalizeReport] know provider field names.
// [Transpose], [SelectValidIndex], [ClassifyForecast] and [MapPresentWeather]
// are provider-agnostic.
//
// # Icon vocabularies
//
// Every step carries an [IconSelection] with two independent vocabularies:
//
//	legacy  numeric ids 1..40 (day/night artwork keyed by the same id)
//	named   a day/night pair of named icons, e.g. ("SunnyDayV3", "ClearNightV3")
//
// Legacy id meaning:
//
//	1          sunny
//	2, 3, 4    clouds
//	18, 19, 20 cloudy + light rain
//	5, 6, 7    cloudy + rain
//	8, 9, 10   cloudy + snow
//	11, 12, 13 rain + snow
//	23, 21, 14 rain + lightning
//	24, 26, 15 snow + lightning
//	25, 27, 16 rain + snow + lightning
//	17         fog
//	22         sun + fog
//	40         wind
//
// The classifier never decides day or night. Callers pick with
// [IconSelection.Named] using the local hour (night when hour < 7 or hour > 20).
//
// # Forecast codes
//
// Forecast steps carry a significant weather code (WMO ww 0..99). Codes are
// classified by an ordered ladder of inclusive bands, first match wins. Bands
// overlap (90 is both rain+snow and thunderstorm in the legacy ladder), so the
// order of [legacyLadder] and [namedLadder] is part of the contract. Cloud
// cover breaks ties inside a band:
//
//	fraction <= 0.4375          light
//	0.4375 < fraction <= 0.8125 mid
//	fraction > 0.8125           full
//
// The cloudy band spans 1..44 although ww 4..44 describe other phenomena.
// Those codes are deliberately folded into "mostly cloudy".
//
// # Station codes
//
// Station reports carry a present weather code 1..31 from the DWD POI table.
// They map through two fixed tables without a cloud-cover tie-break.
//
// # Missing data
//
// A null or absent numeric sample becomes 0. A null or absent code becomes
// [DefaultWeatherCode] and resolves to the clear icon. A code that is not a
// finite number of sane size becomes [UnmatchedWeatherCode] and resolves to
// each vocabulary's default. None of these are errors.
// The only hard failure is [ErrTypeMismatch].
package domain
