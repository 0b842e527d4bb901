package domain

// IconName identifies an icon in the named vocabulary.
type IconName string

// Named icon vocabulary.
const (
	BlowingHailV2          IconName = "BlowingHailV2"
	ClearNightV3           IconName = "ClearNightV3"
	CloudyV3               IconName = "CloudyV3"
	D200PartlySunnyV2      IconName = "D200PartlySunnyV2"
	D210LightRainShowersV2 IconName = "D210LightRainShowersV2"
	D212LightSnowShowersV2 IconName = "D212LightSnowShowersV2"
	D221RainSnowShowersV2  IconName = "D221RainSnowShowersV2"
	D240TstormsV2          IconName = "D240TstormsV2"
	D310LightRainShowersV2 IconName = "D310LightRainShowersV2"
	D321RainSnowShowersV2  IconName = "D321RainSnowShowersV2"
	D340TstormsV2          IconName = "D340TstormsV2"
	FogV2                  IconName = "FogV2"
	FreezingRainV2         IconName = "FreezingRainV2"
	HeavyDrizzle           IconName = "HeavyDrizzle"
	HeavySnowV2            IconName = "HeavySnowV2"
	IcePelletsV2           IconName = "IcePelletsV2"
	LightRainShowerDay     IconName = "LightRainShowerDay"
	LightRainShowerNight   IconName = "LightRainShowerNight"
	LightRainV3            IconName = "LightRainV3"
	LightSnowShowersDay    IconName = "LightSnowShowersDay"
	LightSnowShowersNight  IconName = "LightSnowShowersNight"
	LightSnowV2            IconName = "LightSnowV2"
	ModerateRainV2         IconName = "ModerateRainV2"
	MostlyClearNight       IconName = "MostlyClearNight"
	MostlyCloudyDayV2      IconName = "MostlyCloudyDayV2"
	MostlyCloudyNightV2    IconName = "MostlyCloudyNightV2"
	MostlySunnyDay         IconName = "MostlySunnyDay"
	N210LightRainShowersV2 IconName = "N210LightRainShowersV2"
	N212LightSnowShowersV2 IconName = "N212LightSnowShowersV2"
	N221RainSnowShowersV2  IconName = "N221RainSnowShowersV2"
	N222SnowShowersV2      IconName = "N222SnowShowersV2"
	N240TstormsV2          IconName = "N240TstormsV2"
	N310LightRainShowersV2 IconName = "N310LightRainShowersV2"
	N321RainSnowShowersV2  IconName = "N321RainSnowShowersV2"
	N322SnowShowersV2      IconName = "N322SnowShowersV2"
	N340TstormsV2          IconName = "N340TstormsV2"
	PartlyCloudyNightV2    IconName = "PartlyCloudyNightV2"
	RainShowersDayV2       IconName = "RainShowersDayV2"
	RainShowersNightV2     IconName = "RainShowersNightV2"
	RainSnowV2             IconName = "RainSnowV2"
	Snow                   IconName = "Snow"
	SnowShowersDayV2       IconName = "SnowShowersDayV2"
	SunnyDayV3             IconName = "SunnyDayV3"
	ThunderstormsV2        IconName = "ThunderstormsV2"
	WindyV2                IconName = "WindyV2"
)

// IconVariant is a day/night pair from the named vocabulary.
type IconVariant struct {
	Day   IconName `json:"day"`
	Night IconName `json:"night"`
}

// both uses the same icon for day and night.
func both(name IconName) IconVariant {
	return IconVariant{Day: name, Night: name}
}

func pair(day, night IconName) IconVariant {
	return IconVariant{Day: day, Night: night}
}

// IconSelection carries the icon for one step in both vocabularies. The
// renderer chooses which vocabulary to show.
type IconSelection struct {
	PrimaryID int         `json:"primary_id"`
	Variant   IconVariant `json:"variant"`
}

// Named returns the day or night icon of the named vocabulary.
func (s IconSelection) Named(isNight bool) IconName {
	if isNight {
		return s.Variant.Night
	}
	return s.Variant.Day
}

// Cloud-cover fractions separating light, mid and full tie-break results.
const (
	cloudLightMax = 0.4375
	cloudMidMax   = 0.8125
)

// withCloudTotal picks light, mid or full by cloud-cover fraction. Both upper
// bounds are inclusive.
func withCloudTotal[T any](fraction float64, light, mid, full T) T {
	switch {
	case fraction <= cloudLightMax:
		return light
	case fraction <= cloudMidMax:
		return mid
	default:
		return full
	}
}

func inRange(code, lo, hi int) bool {
	return code >= lo && code <= hi
}
