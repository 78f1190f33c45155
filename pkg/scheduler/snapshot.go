package scheduler

import (
	"sort"

	"github.com/ayyushutup/boxbox/pkg/model"
	"github.com/ayyushutup/boxbox/pkg/predictor"
)

// SnapshotType enumerates the server->client message's "type" field (§6).
type SnapshotType string

const (
	SnapshotInit     SnapshotType = "init"
	SnapshotUpdate   SnapshotType = "update"
	SnapshotState    SnapshotType = "state"
	SnapshotFinished SnapshotType = "finished"
)

// Snapshot is the server->client wire message of §6. It implements
// broadcast.Coalescable so a listener that falls behind misses the
// intermediate state snapshots but gets their event records merged into
// the next one it receives, within the 256-event window.
type Snapshot struct {
	Type        SnapshotType           `json:"type"`
	Data        model.RaceState        `json:"data"`
	Predictions *predictor.Predictions `json:"predictions,omitempty"`
	Scenario    *model.ScenarioSummary `json:"scenario,omitempty"`
}

// Coalesce folds a snapshot that couldn't be delivered in time (skipped)
// into the one about to be sent: the newest state wins, and skipped's
// events are merged with the newest's, deduplicated, sorted by tick and
// trimmed to the newest 256. Events older than that window are not kept,
// even when the newest snapshot's own window no longer carries them.
func (s Snapshot) Coalesce(skipped Snapshot) Snapshot {
	merged := s
	merged.Data.Events = mergeEvents(skipped.Data.Events, s.Data.Events)
	return merged
}

func mergeEvents(older, newer []model.Event) []model.Event {
	seen := make(map[eventKey]bool, len(older)+len(newer))
	out := make([]model.Event, 0, len(older)+len(newer))
	for _, ev := range older {
		k := keyOf(ev)
		if !seen[k] {
			seen[k] = true
			out = append(out, ev)
		}
	}
	for _, ev := range newer {
		k := keyOf(ev)
		if !seen[k] {
			seen[k] = true
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return model.TrimEvents(out, 256)
}

type eventKey struct {
	tick int64
	typ  model.EventType
	desc string
}

func keyOf(ev model.Event) eventKey {
	return eventKey{tick: ev.Tick, typ: ev.Type, desc: ev.Description}
}
