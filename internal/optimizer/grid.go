package optimizer

import (
	"fmt"

	"osrs_sim/internal/tempoross"
)

// Grid returns the policy parameter grid with resolution points per
// continuous dimension. Resolutions below 2 are raised to 2.
func Grid(resolution int) []tempoross.Strategy {
	if resolution < 2 {
		resolution = 2
	}
	steps := func(lo, hi float64) []float64 {
		xs := make([]float64, resolution)
		for i := range xs {
			xs[i] = lo + (hi-lo)*float64(i)/float64(resolution-1)
		}
		return xs
	}

	var out []tempoross.Strategy
	for _, cook := range steps(0, 1) {
		for _, deposit := range steps(0.5, 1) {
			for _, fire := range []bool{true, false} {
				out = append(out, &tempoross.Policy{
					Label:            fmt.Sprintf("grid/cook=%.2f/deposit=%.2f/fire=%t", cook, deposit, fire),
					CookRatio:        cook,
					FireManagement:   fire,
					DepositFraction:  deposit,
					PreferDoubleSpot: true,
				})
			}
		}
	}
	return out
}

// ParetoFront keeps the results that no other result beats on every
// objective. Input order is preserved.
func ParetoFront(rs []Ranked, objs ...Objective) []Ranked {
	if len(objs) == 0 {
		return rs
	}
	means := make([][]float64, len(rs))
	for i, r := range rs {
		means[i] = make([]float64, len(objs))
		for k, o := range objs {
			means[i][k] = r.objectiveMean(o)
		}
	}
	dominates := func(a, b []float64) bool {
		strict := false
		for k, o := range objs {
			if o.better(b[k], a[k]) {
				return false
			}
			if o.better(a[k], b[k]) {
				strict = true
			}
		}
		return strict
	}

	var front []Ranked
	for i := range rs {
		dominated := false
		for j := range rs {
			if i != j && dominates(means[j], means[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, rs[i])
		}
	}
	return front
}

func (r Ranked) objectiveMean(o Objective) float64 {
	a := r.Aggregate
	switch o {
	case Points:
		return a.Points.Mean
	case FishingXPHour:
		return a.FishingXPHour.Mean
	case TotalXPHour:
		return a.TotalXPHour.Mean
	case PermitsHour:
		return a.PermitsHour.Mean
	case Ticks:
		return a.Ticks.Mean
	case SuccessRate:
		return a.SuccessRate
	case Efficiency:
		return a.Efficiency.Mean
	}
	return a.Permits.Mean
}
