package baseline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ayyushutup/boxbox/pkg/catalog/driver"
	"github.com/ayyushutup/boxbox/pkg/catalog/track"
	"github.com/ayyushutup/boxbox/testsupport/basedata"
)

func TestBaselineBuildsGridFromScenario(t *testing.T) {
	ctx := context.Background()
	tracks := track.NewRepository(nil)
	drivers := driver.NewRepository(nil)
	require.NoError(t, tracks.Create(ctx, basedata.SampleTrackMonza()))
	for _, d := range basedata.SampleDrivers() {
		require.NoError(t, drivers.Create(ctx, d))
	}

	scn := basedata.ScenarioMonzaSprint()
	state, err := Baseline(ctx, scn, Catalogs{Tracks: tracks, Drivers: drivers})
	require.NoError(t, err)

	require.Equal(t, len(scn.Cars), len(state.Cars))
	require.Equal(t, scn.LapsTotal, state.Meta.LapsTotal)
	require.Equal(t, "monza_sprint", state.Track.ID)
	for i, c := range state.Cars {
		require.Equal(t, scn.Cars[i].Driver, c.Identity.Driver)
		require.Equal(t, scn.Cars[i].StartPos, c.Timing.Position)
	}
}
