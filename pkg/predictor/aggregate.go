package predictor

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/ayyushutup/boxbox/pkg/model"
)

// Aggregate folds N independent member finishing orders into the §4.3
// output. baselineCars supplies the driver roster (and its order) so a
// driver appears in the output even if it DNF'd in every member.
func Aggregate(baselineCars []model.Car, members []*memberResult, baseSeed int64) Predictions {
	drivers := lo.Map(baselineCars, func(c model.Car, _ int) string { return c.Identity.Driver })
	n := len(members)

	finishCounts := make(map[string][]int, len(drivers)) // finishCounts[driver][pos-1] = count
	for _, d := range drivers {
		finishCounts[d] = make([]int, len(drivers))
	}
	for _, m := range members {
		for pos, d := range m.order {
			if d == "" {
				continue
			}
			if _, ok := finishCounts[d]; !ok {
				continue
			}
			finishCounts[d][pos]++
		}
	}

	outlooks := make([]DriverOutlook, 0, len(drivers))
	winProbByDriver := make(map[string]float64, len(drivers))
	for _, d := range drivers {
		dist := make([]float64, len(drivers))
		podium, points := 0.0, 0.0
		expected := 0.0
		for pos, count := range finishCounts[d] {
			p := safeDiv(float64(count), float64(n))
			dist[pos] = p
			expected += p * float64(pos+1)
			if pos < 3 {
				podium += p
			}
			if pos < 10 {
				points += p
			}
		}
		win := dist[0]
		winProbByDriver[d] = win
		outlooks = append(outlooks, DriverOutlook{
			Driver:             d,
			WinProb:            win,
			PodiumProb:         podium,
			PointsProb:         points,
			FinishDistribution: dist,
			ExpectedPosition:   expected,
		})
	}

	predictedOrder := append([]DriverOutlook(nil), outlooks...)
	sort.Slice(predictedOrder, func(i, j int) bool {
		return predictedOrder[i].ExpectedPosition < predictedOrder[j].ExpectedPosition
	})
	orderNames := lo.Map(predictedOrder, func(o DriverOutlook, _ int) string { return o.Driver })

	scCounts := lo.Map(members, func(m *memberResult, _ int) float64 { return float64(m.scEvents) })
	confidence := computeConfidence(winProbByDriver)

	return Predictions{
		N:              n,
		BaseSeed:       baseSeed,
		Drivers:        outlooks,
		PredictedOrder: orderNames,
		Confidence:     confidence,
		MedianSCEvents: median(scCounts),
	}
}

// computeConfidence implements §4.3's normalised formula: confidence =
// clamp01(mean_top1_probability * member_agreement), where
// member_agreement = 1 - normalized_entropy(win_prob) and
// mean_top1_probability is read as the predicted winner's own win
// probability (the Predictor's one Open Question resolution, §9(a)).
func computeConfidence(winProb map[string]float64) float64 {
	if len(winProb) == 0 {
		return 0
	}
	top1 := 0.0
	total := 0.0
	for _, p := range winProb {
		if p > top1 {
			top1 = p
		}
		total += p
	}
	if total <= 0 {
		return 0
	}

	entropy := 0.0
	for _, p := range winProb {
		q := p / total
		if q > 0 {
			entropy -= q * math.Log(q)
		}
	}
	maxEntropy := math.Log(float64(len(winProb)))
	normalizedEntropy := 0.0
	if maxEntropy > 0 {
		normalizedEntropy = entropy / maxEntropy
	}
	agreement := 1 - normalizedEntropy
	return clamp01(top1 * agreement)
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
