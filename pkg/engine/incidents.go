package engine

import "github.com/ayyushutup/boxbox/pkg/model"

// DNF/incident constants. Grounded on engine.py's module-level constants
// (MECHANICAL_FAILURE_PROBABILITY, CRASH_PROBABILITY_BASE/WORN_TIRES,
// SC_PROBABILITY_PER_TICK), deliberately small so a race produces at most
// a handful of incidents rather than attrition-heavy grids.
const (
	mechanicalFailureProb = 0.000005
	crashProbBase          = 0.000003
	crashProbWornTires     = 0.00001
	wornTireThreshold      = 0.8
	scAutoChanceOnDNF      = 0.3
)

// IncidentRoll draws for a DNF this tick given the track's base incident
// rate and the car's current wear/mode/weather risk multipliers per §4.1
// step 7: incident_rate = base_incident × (1+wear²) × mode_risk × weather_risk.
// Returns (isDNF, reason).
func IncidentRoll(car model.Car, baseIncident, modeRisk, weatherRisk, scProbModifier float64, rng *RNG) (bool, string) {
	wear := car.Telemetry.Tire.Wear
	rate := baseIncident * (1 + wear*wear) * modeRisk * weatherRisk

	mechProb := mechanicalFailureProb * scProbModifier
	if rng.Chance(mechProb + rate*0.1) {
		return true, "Mechanical failure"
	}

	crashProb := crashProbBase
	if wear > wornTireThreshold {
		crashProb = crashProbWornTires
	}
	if rng.Chance(crashProb + rate) {
		return true, "Crashed"
	}
	return false, ""
}

// ModeRisk maps driving mode to an incident-rate multiplier: pushing hard
// raises the odds of a mistake, conserving lowers them.
func ModeRisk(mode model.DrivingMode) float64 {
	switch mode {
	case model.Push:
		return 1.3
	case model.Conserve:
		return 0.8
	default:
		return 1.0
	}
}

// WeatherRisk maps rain probability to an incident-rate multiplier.
func WeatherRisk(rainProb float64) float64 {
	return 1.0 + rainProb*1.5
}

// ShouldAutoDeploySC reports, on a DNF, whether the incident is severe
// enough to bring out the Safety Car: engine.py's 30% roll on every DNF
// while GREEN, scaled by the sc_prob modifier.
func ShouldAutoDeploySC(rng *RNG, scProbModifier float64) bool {
	return rng.Chance(scAutoChanceOnDNF * scProbModifier)
}
