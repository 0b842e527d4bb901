package domain

// rung is one band of an icon ladder: a code predicate and the icon it
// resolves to, given the code and the cloud-cover fraction.
type rung[T any] struct {
	band    string
	matches func(code int) bool
	resolve func(code int, fraction float64) T
}

// climb evaluates a ladder top to bottom. The first matching rung wins. The
// band name of the winning rung is returned with the result, or "" when the
// fallback was used.
func climb[T any](ladder []rung[T], code int, fraction float64, fallback T) (T, string) {
	for _, r := range ladder {
		if r.matches(code) {
			return r.resolve(code, fraction), r.band
		}
	}
	return fallback, ""
}

func codes(ranges ...[2]int) func(int) bool {
	return func(code int) bool {
		for _, r := range ranges {
			if inRange(code, r[0], r[1]) {
				return true
			}
		}
		return false
	}
}

func fixed[T any](v T) func(int, float64) T {
	return func(int, float64) T { return v }
}

func tieBreak[T any](light, mid, full T) func(int, float64) T {
	return func(_ int, fraction float64) T {
		return withCloudTotal(fraction, light, mid, full)
	}
}

// Legacy ids.
const (
	legacyClear  = 1
	legacyCloudy = 4
)

// legacyLadder maps forecast codes to legacy icon ids. Bands overlap at 90;
// rain+snow is listed first and wins.
var legacyLadder = []rung[int]{
	{band: "clear", matches: func(code int) bool { return code <= 1 }, resolve: fixed(legacyClear)},
	{band: "cloudy", matches: codes([2]int{1, 44}), resolve: func(code int, _ float64) int {
		switch code {
		case 1:
			return 2
		case 2:
			return 3
		default:
			return 3
		}
	}},
	{band: "fog", matches: codes([2]int{45, 50}), resolve: tieBreak(22, 17, 17)},
	{band: "light-rain", matches: codes([2]int{51, 54}, [2]int{61, 63}, [2]int{80, 80}), resolve: tieBreak(18, 19, 20)},
	{band: "rain", matches: codes([2]int{55, 55}, [2]int{64, 65}, [2]int{81, 84}), resolve: tieBreak(5, 6, 7)},
	{band: "rain-snow", matches: codes([2]int{56, 60}, [2]int{66, 70}, [2]int{85, 90}), resolve: tieBreak(11, 12, 13)},
	{band: "snow", matches: codes([2]int{71, 79}), resolve: tieBreak(8, 9, 10)},
	{band: "thunderstorm", matches: codes([2]int{90, 100}), resolve: tieBreak(23, 21, 14)},
}

// namedLadder maps forecast codes to named day/night pairs. Its rain bands are
// narrower than the legacy ones and codes 58-60, 68-69, 76, 78-79, 83-84 and
// 87-89 fall through to the cloudy default.
var namedLadder = []rung[IconVariant]{
	{band: "clear", matches: func(code int) bool { return code <= 1 }, resolve: fixed(pair(SunnyDayV3, ClearNightV3))},
	{band: "cloudy", matches: codes([2]int{1, 44}), resolve: func(code int, _ float64) IconVariant {
		switch code {
		case 1:
			return pair(MostlySunnyDay, MostlyClearNight)
		case 2:
			return pair(D200PartlySunnyV2, PartlyCloudyNightV2)
		default:
			return pair(MostlyCloudyDayV2, MostlyCloudyNightV2)
		}
	}},
	{band: "fog", matches: codes([2]int{45, 50}), resolve: fixed(both(FogV2))},
	{band: "light-rain", matches: codes([2]int{51, 52}, [2]int{61, 62}, [2]int{80, 80}), resolve: tieBreak(
		pair(D210LightRainShowersV2, N210LightRainShowersV2),
		pair(D310LightRainShowersV2, N310LightRainShowersV2),
		both(LightRainV3),
	)},
	{band: "rain", matches: codes([2]int{53, 55}, [2]int{63, 65}, [2]int{81, 82}), resolve: func(code int, fraction float64) IconVariant {
		full := both(HeavyDrizzle)
		if code == 55 || code == 65 || code == 82 {
			full = both(ModerateRainV2)
		}
		showers := pair(RainShowersDayV2, RainShowersNightV2)
		return withCloudTotal(fraction, showers, showers, full)
	}},
	{band: "freezing-rain", matches: codes([2]int{56, 57}), resolve: fixed(both(FreezingRainV2))},
	{band: "light-snow", matches: codes([2]int{70, 72}, [2]int{77, 77}), resolve: tieBreak(
		pair(D212LightSnowShowersV2, N212LightSnowShowersV2),
		pair(LightSnowShowersDay, LightSnowShowersNight),
		both(LightSnowV2),
	)},
	{band: "snow", matches: codes([2]int{73, 75}), resolve: func(code int, fraction float64) IconVariant {
		full := both(Snow)
		if code >= 75 {
			full = both(HeavySnowV2)
		}
		showers := pair(SnowShowersDayV2, N322SnowShowersV2)
		return withCloudTotal(fraction, showers, showers, full)
	}},
	{band: "rain-snow", matches: codes([2]int{66, 67}, [2]int{85, 86}), resolve: tieBreak(
		pair(D221RainSnowShowersV2, N221RainSnowShowersV2),
		pair(D221RainSnowShowersV2, N221RainSnowShowersV2),
		both(RainSnowV2),
	)},
	{band: "thunderstorm", matches: codes([2]int{90, 100}), resolve: tieBreak(
		pair(D240TstormsV2, N240TstormsV2),
		pair(D340TstormsV2, N340TstormsV2),
		both(ThunderstormsV2),
	)},
}

// ClassifyForecast selects the icon for a forecast step from its significant
// weather code and cloud-cover fraction (0..1). Each vocabulary climbs its own
// ladder. Unmatched codes resolve to cloudy.
func ClassifyForecast(code int, fraction float64) IconSelection {
	sel, _, _ := classifyForecast(code, fraction)
	return sel
}

// classifyForecast also reports which vocabularies fell back to their default.
func classifyForecast(code int, fraction float64) (sel IconSelection, legacyFallback, namedFallback bool) {
	id, legacyBand := climb(legacyLadder, code, fraction, legacyCloudy)
	variant, namedBand := climb(namedLadder, code, fraction, both(CloudyV3))
	return IconSelection{PrimaryID: id, Variant: variant}, legacyBand == "", namedBand == ""
}
