package domain

// stationLegacy maps DWD POI present weather codes to legacy icon ids.
// Code 17 has no entry and resolves like code 1.
var stationLegacy = map[int]int{
	1:  1,
	2:  1,
	3:  3,
	4:  4,
	5:  17,
	6:  17,
	7:  20,
	8:  7,
	9:  7,
	10: 13,
	11: 13,
	12: 13,
	13: 12,
	14: 10,
	15: 10,
	16: 10,
	18: 20,
	19: 20,
	20: 13,
	21: 13,
	22: 13,
	23: 13,
	24: 13,
	25: 13,
	26: 14,
	27: 14,
	28: 14,
	29: 14,
	30: 14,
	31: 4,
}

// stationNamed maps DWD POI present weather codes to named day/night pairs.
var stationNamed = map[int]IconVariant{
	1:  pair(SunnyDayV3, ClearNightV3),
	2:  pair(MostlySunnyDay, MostlyClearNight),
	3:  pair(D200PartlySunnyV2, PartlyCloudyNightV2),
	4:  both(CloudyV3),
	5:  both(FogV2),
	6:  both(FogV2),
	7:  both(LightRainV3),
	8:  both(HeavyDrizzle),
	9:  both(ModerateRainV2),
	10: both(FreezingRainV2),
	11: both(FreezingRainV2),
	12: both(RainSnowV2),
	13: both(RainSnowV2),
	14: both(LightSnowV2),
	15: both(Snow),
	16: both(HeavySnowV2),
	17: both(IcePelletsV2),
	18: pair(LightRainShowerDay, LightRainShowerNight),
	19: pair(RainShowersDayV2, RainShowersNightV2),
	20: pair(D221RainSnowShowersV2, N221RainSnowShowersV2),
	21: pair(D321RainSnowShowersV2, N321RainSnowShowersV2),
	22: pair(LightSnowShowersDay, LightSnowShowersNight),
	23: pair(SnowShowersDayV2, N222SnowShowersV2),
	24: both(IcePelletsV2),
	25: both(IcePelletsV2),
	26: both(ThunderstormsV2),
	27: pair(D240TstormsV2, N240TstormsV2),
	28: pair(D340TstormsV2, N340TstormsV2),
	29: both(ThunderstormsV2),
	30: both(ThunderstormsV2),
	31: both(WindyV2),
}

// MapPresentWeather selects the icon for a station present weather code. Each
// vocabulary is a plain lookup; codes missing from a table use that table's
// entry for code 1.
func MapPresentWeather(code int) IconSelection {
	sel, _, _ := mapPresentWeather(code)
	return sel
}

func mapPresentWeather(code int) (sel IconSelection, legacyFallback, namedFallback bool) {
	id, ok := stationLegacy[code]
	if !ok {
		id = stationLegacy[DefaultWeatherCode]
	}
	variant, namedOK := stationNamed[code]
	if !namedOK {
		variant = stationNamed[DefaultWeatherCode]
	}
	return IconSelection{PrimaryID: id, Variant: variant}, !ok, !namedOK
}

// MapPresentWeatherAt returns the named icon for a station code at day or
// night. MapPresentWeather returns both variants instead, so that events on the
// sink can be rendered in any time zone.
func MapPresentWeatherAt(code int, isNight bool) IconName {
	return MapPresentWeather(code).Named(isNight)
}
