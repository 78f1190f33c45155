package model

// Driver is a read-only catalog entry (§6 list_drivers). CarIdentity is
// copied from this at RaceState initialization.
type Driver struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Team           string  `json:"team"`
	BaseSkill      float64 `json:"base_skill"`
	Aggression     float64 `json:"aggression"`
	TireManagement float64 `json:"tire_management"`
	WetMultiplier  float64 `json:"wet_multiplier"`
	TrackAffinity  map[string]float64 `json:"track_affinity,omitempty"`
}

func (d Driver) AffinityFor(trackID string) float64 {
	if v, ok := d.TrackAffinity[trackID]; ok {
		return v
	}
	return 1.0
}

func (d Driver) Identity(trackID string) CarIdentity {
	return CarIdentity{
		Driver:         d.Code,
		Team:           d.Team,
		BaseSkill:      d.BaseSkill,
		Aggression:     d.Aggression,
		TireManagement: d.TireManagement,
		WetMultiplier:  d.WetMultiplier,
		TrackAffinity:  d.AffinityFor(trackID),
	}
}
