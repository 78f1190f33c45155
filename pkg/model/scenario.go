package model

// ScenarioType and ScenarioDifficulty are supplemented descriptive metadata
// from the original's scenarios/catalog.py (ScenarioType/ScenarioDifficulty
// enums); they are consumed only by list_scenarios(), never by the Engine.
type ScenarioType string

const (
	StrategyDilemma ScenarioType = "STRATEGY_DILEMMA"
	RaceSituation   ScenarioType = "RACE_SITUATION"
	WeatherEvent    ScenarioType = "WEATHER_EVENT"
	Custom          ScenarioType = "CUSTOM"
)

type ScenarioDifficulty string

const (
	DifficultyEasy   ScenarioDifficulty = "EASY"
	DifficultyMedium ScenarioDifficulty = "MEDIUM"
	DifficultyHard   ScenarioDifficulty = "HARD"
)

// ScenarioCar is one grid slot's starting state within a Scenario.
type ScenarioCar struct {
	Driver       string       `json:"driver"`
	StartPos     int          `json:"start_position"`
	Compound     TireCompound `json:"compound"`
	FuelKg       float64      `json:"fuel_kg"`
	TireWear     float64      `json:"tire_wear"`
}

// ForcedEvent is a scripted race-director injection recorded on a scenario:
// a lap plus a race-control type or a weather condition. It is catalog data
// only; the baseline builder, the session and the engine do not read
// ForcedEvents, so nothing fires them during a race.
type ForcedEvent struct {
	Lap     int             `json:"lap"`
	Type    RaceControlState `json:"type,omitempty"`
	Weather WeatherCondition `json:"weather,omitempty"`
}

// Scenario is a read-only catalog entry (§6 get_scenario): the grid, lap
// count, weather baseline, and any scripted director events.
type Scenario struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	TrackID        string             `json:"track_id"`
	LapsTotal      int                `json:"laps_total"`
	Cars           []ScenarioCar      `json:"cars"`
	WeatherBaseline Weather           `json:"weather_baseline"`
	ForcedEvents   []ForcedEvent      `json:"forced_events,omitempty"`

	Type        ScenarioType       `json:"type,omitempty"`
	Difficulty  ScenarioDifficulty `json:"difficulty,omitempty"`
	Description string             `json:"description,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	Icon        string             `json:"icon,omitempty"`
}

type ScenarioSummary struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	TrackID     string             `json:"track_id"`
	LapsTotal   int                `json:"laps_total"`
	Type        ScenarioType       `json:"type,omitempty"`
	Difficulty  ScenarioDifficulty `json:"difficulty,omitempty"`
	Description string             `json:"description,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	Icon        string             `json:"icon,omitempty"`
}

func (s Scenario) Summary() ScenarioSummary {
	return ScenarioSummary{
		ID: s.ID, Name: s.Name, TrackID: s.TrackID, LapsTotal: s.LapsTotal,
		Type: s.Type, Difficulty: s.Difficulty, Description: s.Description,
		Tags: s.Tags, Icon: s.Icon,
	}
}
