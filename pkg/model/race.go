// Package model holds the shared value types that flow between the
// catalog, engine, scheduler and predictor packages: RaceState and
// everything it is built from. Nothing in this package performs I/O.
package model

// SchemaVersion is bumped whenever the wire shape of RaceState changes
// in a way that would break a replay comparing snapshots byte-for-byte.
const SchemaVersion = 1

// TickDurationMs is the fixed simulated-time advance of a single tick.
const TickDurationMs = 100

type WeatherCondition string

const (
	Dry          WeatherCondition = "DRY"
	Intermediate WeatherCondition = "INTERMEDIATE"
	Wet          WeatherCondition = "WET"
)

type RaceControlState string

const (
	Green      RaceControlState = "GREEN"
	Yellow     RaceControlState = "YELLOW"
	VSC        RaceControlState = "VSC"
	SafetyCar  RaceControlState = "SAFETY_CAR"
	RedFlag    RaceControlState = "RED_FLAG"
)

// Meta carries the identifying coordinates of a RaceState: the seed that
// produced it, the tick it is at, and the scenario's total lap count.
type Meta struct {
	Seed       int64 `json:"seed"`
	Tick       int64 `json:"tick"`
	SimTimeMs  int64 `json:"sim_time_ms"`
	LapsTotal  int   `json:"laps_total"`
}

type Wind struct {
	SpeedKph  float64 `json:"speed_kph"`
	DirectionDeg float64 `json:"direction_deg"`
}

type Weather struct {
	Condition      WeatherCondition `json:"condition"`
	RainProbability float64         `json:"rain_probability"`
	TrackTempC     float64          `json:"track_temp_c"`
	Wind           Wind             `json:"wind"`
}

// RaceState is the single world snapshot at a given tick. It is a value
// type: the Engine borrows it immutably and returns a new one; callers
// that want in-place mutation for performance must take exclusive
// ownership (the Scheduler's session and each Predictor ensemble member
// both do this).
type RaceState struct {
	SchemaVersion int              `json:"schema_version"`
	Meta          Meta             `json:"meta"`
	Track         TrackRef         `json:"track"`
	Weather       Weather          `json:"weather"`
	RaceControl   RaceControlState `json:"race_control"`
	SCDeployLap   *int             `json:"sc_deploy_lap,omitempty"`
	DRSEnabled    bool             `json:"drs_enabled"`
	Cars          []Car            `json:"cars"`
	Events        []Event          `json:"events"`
	IsFinished    bool             `json:"is_finished"`
}

// TrackRef is the subset of Track carried inline on every RaceState so the
// Engine never has to look the catalog back up mid-tick; it is a frozen
// copy taken at initialization. Weather is not part of it: it lives on
// RaceState.Weather, which drifts tick by tick.
type TrackRef struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	LengthMeters  float64  `json:"length_meters"`
	PitLossSec    float64  `json:"pit_loss_sec"`
	BaseIncident  float64  `json:"base_incident"`
	Abrasion      float64  `json:"abrasion"`
	Downforce     float64  `json:"downforce"`
	OvertakeDiff  float64  `json:"overtake_difficulty"`
	Sectors       []Sector `json:"sectors"`
	DRSZones      []DRSZone `json:"drs_zones"`
}

// Clone returns a deep copy of the state suitable for an ensemble member
// or a session snapshot to own exclusively.
func (s RaceState) Clone() RaceState {
	out := s
	out.Cars = make([]Car, len(s.Cars))
	copy(out.Cars, s.Cars)
	out.Events = make([]Event, len(s.Events))
	copy(out.Events, s.Events)
	out.Track.Sectors = append([]Sector(nil), s.Track.Sectors...)
	out.Track.DRSZones = append([]DRSZone(nil), s.Track.DRSZones...)
	if s.SCDeployLap != nil {
		v := *s.SCDeployLap
		out.SCDeployLap = &v
	}
	return out
}

// Leader returns the racing car in position 1, if any.
func (s RaceState) Leader() *Car {
	for i := range s.Cars {
		if s.Cars[i].Timing.Position == 1 && s.Cars[i].Timing.Status == Racing {
			return &s.Cars[i]
		}
	}
	return nil
}

// CarByDriver finds a car by driver code.
func (s RaceState) CarByDriver(driver string) *Car {
	for i := range s.Cars {
		if s.Cars[i].Identity.Driver == driver {
			return &s.Cars[i]
		}
	}
	return nil
}

// TrimEvents keeps only the last k events on the state for transport,
// matching §3's "engine may trim to the last K entries for transport, but
// never reorders".
func TrimEvents(events []Event, k int) []Event {
	if len(events) <= k {
		return events
	}
	return events[len(events)-k:]
}
