package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ayyushutup/boxbox/pkg/model"
)

func ev(tick int64, desc string) model.Event {
	return model.NewEvent(tick, 1, model.SafetyCarDeployed, desc, nil)
}

func TestCoalesceKeepsNewestStateButMergesEvents(t *testing.T) {
	skipped := Snapshot{
		Type: SnapshotUpdate,
		Data: model.RaceState{Meta: model.Meta{Tick: 5}, Events: []model.Event{ev(5, "a"), ev(6, "b")}},
	}
	newest := Snapshot{
		Type: SnapshotUpdate,
		Data: model.RaceState{Meta: model.Meta{Tick: 7}, Events: []model.Event{ev(6, "b"), ev(7, "c")}},
	}

	merged := newest.Coalesce(skipped)

	require.Equal(t, int64(7), merged.Data.Meta.Tick, "the newest state wins")
	require.Len(t, merged.Data.Events, 3, "duplicate tick/type/desc event is deduped, not doubled")

	ticks := make([]int64, len(merged.Data.Events))
	for i, e := range merged.Data.Events {
		ticks[i] = e.Tick
	}
	require.Equal(t, []int64{5, 6, 7}, ticks, "merged events stay sorted by tick")
}

func TestCoalesceTrimsToRollingWindow(t *testing.T) {
	var older, newer []model.Event
	for i := int64(0); i < 200; i++ {
		older = append(older, ev(i, "older"))
	}
	for i := int64(200); i < 260; i++ {
		newer = append(newer, ev(i, "newer"))
	}
	skipped := Snapshot{Data: model.RaceState{Events: older}}
	newest := Snapshot{Data: model.RaceState{Events: newer}}

	merged := newest.Coalesce(skipped)
	require.Len(t, merged.Data.Events, 256)
	require.Equal(t, int64(4), merged.Data.Events[0].Tick)
}

func TestValidSpeedsAllowsOnlySpecifiedMultipliers(t *testing.T) {
	for _, speed := range []int{1, 5, 10, 20} {
		require.True(t, validSpeeds[speed], "speed %d should be valid", speed)
	}
	for _, speed := range []int{0, 2, 3, 15, 100} {
		require.False(t, validSpeeds[speed], "speed %d should be invalid", speed)
	}
}
