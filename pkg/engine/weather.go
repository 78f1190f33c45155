package engine

import "github.com/ayyushutup/boxbox/pkg/model"

const (
	weatherDriftChance = 0.10
	rainDriftAmount    = 0.02
	tempDriftAmount    = 0.5
	windDriftAmount    = 1.0
	wetThreshold       = 0.2
)

// DriftWeather evolves weather by a small bounded random walk. Grounded on
// engine.py's drift_weather: rain probability random-walks, track
// temperature trends down once rain sets in, wind wanders independently.
// Called once every tick but gated by weatherDriftChance so the condition
// doesn't visibly flicker every 100ms.
func DriftWeather(w model.Weather, rng *RNG) model.Weather {
	rainChange := rng.Uniform(-rainDriftAmount, rainDriftAmount)
	newRain := clamp01(w.RainProbability + rainChange)

	tempTrend := 0.1
	if newRain > wetThreshold {
		tempTrend = -0.5
	}
	tempChange := rng.Uniform(-tempDriftAmount, tempDriftAmount) + tempTrend
	newTemp := clamp(w.TrackTempC+tempChange, 5, 45)

	windChange := rng.Uniform(-windDriftAmount, windDriftAmount)
	newWind := clamp(w.Wind.SpeedKph+windChange, 0, 60)

	cond := classifyWeather(newRain)

	return model.Weather{
		Condition:       cond,
		RainProbability: newRain,
		TrackTempC:      newTemp,
		Wind:            model.Wind{SpeedKph: newWind, DirectionDeg: w.Wind.DirectionDeg},
	}
}

func classifyWeather(rainProb float64) model.WeatherCondition {
	switch {
	case rainProb >= 0.55:
		return model.Wet
	case rainProb >= wetThreshold:
		return model.Intermediate
	default:
		return model.Dry
	}
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
