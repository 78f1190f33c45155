package predictor

import "github.com/ayyushutup/boxbox/pkg/model"

// StintPart and PitPart mirror the teacher's racestints package's
// Part/StintPart/PitPart split (a stint is laps-on-one-set, a pit is the
// transition between them) generalized from a finished-race stint report
// into a pre-race feasibility projection.
type PartType int

const (
	PartTypeStint PartType = iota
	PartTypePit
)

type StintPart struct {
	Compound model.TireCompound `json:"compound"`
	Laps     int                `json:"laps"`
}

func (StintPart) Type() PartType { return PartTypeStint }

type PitPart struct {
	AfterLap int `json:"after_lap"`
}

func (PitPart) Type() PartType { return PartTypePit }

// Strategy is one driver's projected pit-stint plan plus whether the fuel
// and tire-wear budget plausibly covers the full race distance (§8's "pit
// strategy feasibility" testable property, surfaced here ahead of the race
// rather than only checked as an ensemble invariant).
type Strategy struct {
	Driver   string      `json:"driver"`
	Stints   []StintPart `json:"stints"`
	Pits     []PitPart   `json:"pits"`
	Feasible bool        `json:"feasible"`
	Reason   string      `json:"reason,omitempty"`
}

// FeasibleStrategies projects, per car in the scenario, how many stints its
// starting compound (and the hardest available fallback) needs to cover
// the full race distance without exceeding full tire wear or running the
// fuel tank dry — generalized from the original's ad-hoc stint math
// (mirrored loosely by the teacher's racestints/racestints_expert.go).
func FeasibleStrategies(scn model.Scenario, compounds []model.Compound, trackAbrasion, fuelPerLapKg float64) []Strategy {
	byName := make(map[model.TireCompound]model.Compound, len(compounds))
	for _, c := range compounds {
		byName[c.Name] = c
	}

	out := make([]Strategy, 0, len(scn.Cars))
	for _, sc := range scn.Cars {
		strat := Strategy{Driver: sc.Driver, Feasible: true}

		remaining := scn.LapsTotal
		fuel := sc.FuelKg
		compound := sc.Compound
		wear := sc.TireWear

		for remaining > 0 {
			c, ok := byName[compound]
			if !ok {
				strat.Feasible = false
				strat.Reason = "unknown compound in catalog"
				break
			}
			rate := c.WearMultiplier(wear, trackAbrasion)
			stintLaps := remaining
			if rate > 0 {
				lapsToFull := int((1 - wear) / rate)
				if lapsToFull < stintLaps {
					stintLaps = lapsToFull
				}
			}
			if stintLaps <= 0 {
				stintLaps = 1
			}

			fuelNeeded := fuelPerLapKg * float64(stintLaps)
			if fuelNeeded > fuel {
				strat.Feasible = false
				strat.Reason = "fuel budget insufficient for projected stint length"
			}
			fuel -= fuelNeeded

			strat.Stints = append(strat.Stints, StintPart{Compound: compound, Laps: stintLaps})
			remaining -= stintLaps
			wear = 0

			if remaining > 0 {
				strat.Pits = append(strat.Pits, PitPart{AfterLap: scn.LapsTotal - remaining})
				compound = hardestAvailable(byName, compound)
			}
		}

		out = append(out, strat)
	}
	return out
}

func hardestAvailable(byName map[model.TireCompound]model.Compound, current model.TireCompound) model.TireCompound {
	hardest := current
	lowestWear := byName[current].WearPerLap
	for name, c := range byName {
		if c.WetOnly {
			continue
		}
		if lowestWear == 0 || c.WearPerLap < lowestWear {
			lowestWear = c.WearPerLap
			hardest = name
		}
	}
	return hardest
}
