package predictor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ayyushutup/boxbox/pkg/model"
)

func carsFor(drivers ...string) []model.Car {
	out := make([]model.Car, len(drivers))
	for i, d := range drivers {
		out[i] = model.Car{Identity: model.CarIdentity{Driver: d}}
	}
	return out
}

func TestAggregateUnanimousWinnerYieldsMaximalConfidence(t *testing.T) {
	cars := carsFor("VER", "HAM", "LEC")
	members := []*memberResult{
		{order: []string{"VER", "HAM", "LEC"}},
		{order: []string{"VER", "HAM", "LEC"}},
		{order: []string{"VER", "HAM", "LEC"}},
	}

	preds := Aggregate(cars, members, 42)

	require.Equal(t, 3, preds.N)
	require.Equal(t, []string{"VER", "HAM", "LEC"}, preds.PredictedOrder)
	require.InDelta(t, 1.0, preds.Confidence, 1e-9)

	ver := findOutlook(t, preds, "VER")
	require.InDelta(t, 1.0, ver.WinProb, 1e-9)
	require.InDelta(t, 1.0, ver.PodiumProb, 1e-9)
	require.InDelta(t, 1.0, ver.ExpectedPosition, 1e-9)
}

func TestAggregateUniformOutcomesYieldLowConfidence(t *testing.T) {
	cars := carsFor("VER", "HAM")
	members := []*memberResult{
		{order: []string{"VER", "HAM"}},
		{order: []string{"HAM", "VER"}},
	}

	preds := Aggregate(cars, members, 1)

	ver := findOutlook(t, preds, "VER")
	ham := findOutlook(t, preds, "HAM")
	require.InDelta(t, 0.5, ver.WinProb, 1e-9)
	require.InDelta(t, 0.5, ham.WinProb, 1e-9)
	require.InDelta(t, 0.0, preds.Confidence, 1e-9, "perfectly split agreement should collapse confidence to zero")
}

func TestAggregateRetainsDriverEvenIfAlwaysDNF(t *testing.T) {
	cars := carsFor("VER", "HAM")
	members := []*memberResult{
		{order: []string{"HAM", ""}},
		{order: []string{"HAM", ""}},
	}

	preds := Aggregate(cars, members, 1)
	ver := findOutlook(t, preds, "VER")
	require.Equal(t, 0.0, ver.WinProb)
	require.Equal(t, 0.0, ver.PodiumProb)
}

func TestMedianHandlesEvenAndOddCounts(t *testing.T) {
	require.Equal(t, 2.0, median([]float64{1, 2, 3}))
	require.Equal(t, 2.5, median([]float64{1, 2, 3, 4}))
	require.Equal(t, 0.0, median(nil))
}

func findOutlook(t *testing.T, preds Predictions, driver string) DriverOutlook {
	t.Helper()
	for _, o := range preds.Drivers {
		if o.Driver == driver {
			return o
		}
	}
	t.Fatalf("no outlook for driver %q", driver)
	return DriverOutlook{}
}
