package model

// SectorType classifies a sector's speed character, used to pick the base
// pace before modifiers are applied. Grounded on the original's BASE_SPEED
// table (SLOW/MEDIUM/FAST).
type SectorType string

const (
	SectorSlow   SectorType = "SLOW"
	SectorMedium SectorType = "MEDIUM"
	SectorFast   SectorType = "FAST"
)

type Sector struct {
	Num        int        `json:"num"`
	LengthM    float64    `json:"length_m"`
	Type       SectorType `json:"type"`
}

type DRSZone struct {
	StartPct float64 `json:"start_pct"`
	EndPct   float64 `json:"end_pct"`
}

// Track is the full catalog record for a circuit. TrackRef (race.go) is
// the frozen subset copied onto a RaceState at initialization.
type Track struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	LengthMeters  float64   `json:"length_meters"`
	PitLossSec    float64   `json:"pit_loss_sec"`
	PitEntryPct   float64   `json:"pit_entry_pct"`
	PitExitPct    float64   `json:"pit_exit_pct"`
	BaseIncident  float64   `json:"base_incident"`
	Abrasion      float64   `json:"abrasion"`
	Downforce     float64   `json:"downforce"`
	OvertakeDiff  float64   `json:"overtake_difficulty"`
	Sectors       []Sector  `json:"sectors"`
	DRSZones      []DRSZone `json:"drs_zones"`
}

// TrackSummary is the lightweight listing shape for list_tracks().
type TrackSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Length float64 `json:"length_meters"`
}

func (t Track) Summary() TrackSummary {
	return TrackSummary{ID: t.ID, Name: t.Name, Length: t.LengthMeters}
}

// Ref returns the frozen TrackRef copy embedded on a RaceState.
func (t Track) Ref() TrackRef {
	return TrackRef{
		ID:           t.ID,
		Name:         t.Name,
		LengthMeters: t.LengthMeters,
		PitLossSec:   t.PitLossSec,
		BaseIncident: t.BaseIncident,
		Abrasion:     t.Abrasion,
		Downforce:    t.Downforce,
		OvertakeDiff: t.OvertakeDiff,
		Sectors:      append([]Sector(nil), t.Sectors...),
		DRSZones:     append([]DRSZone(nil), t.DRSZones...),
	}
}
