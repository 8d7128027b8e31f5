package optimizer

import (
	"errors"
	"fmt"
	"strings"

	"osrs_sim/internal/tempoross"
)

// Objective names the per-trial metric strategies are ranked by.
type Objective string

const (
	Permits       Objective = "permits"
	Points        Objective = "points"
	FishingXPHour Objective = "fishing-xp-hour"
	TotalXPHour   Objective = "total-xp-hour"
	PermitsHour   Objective = "permits-hour"
	Ticks         Objective = "ticks"
	SuccessRate   Objective = "success-rate"
	Efficiency    Objective = "efficiency"
)

var objectives = []Objective{Permits, Points, FishingXPHour, TotalXPHour, PermitsHour, Ticks, SuccessRate, Efficiency}

var ErrUnknownObjective = errors.New("optimizer: unknown objective")

func Objectives() []Objective { return append([]Objective(nil), objectives...) }

func ParseObjective(s string) (Objective, error) {
	o := Objective(strings.ToLower(strings.TrimSpace(s)))
	if o == "" {
		return Permits, nil
	}
	for _, known := range objectives {
		if o == known {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownObjective, s)
}

// Minimise reports whether lower values rank first.
func (o Objective) Minimise() bool { return o == Ticks }

// Metric extracts the objective's value from one trial.
func (o Objective) Metric(out *tempoross.Outcome) float64 {
	s := out.Score
	switch o {
	case Points:
		return float64(s.Points)
	case FishingXPHour:
		return s.FishingXPPerHour
	case TotalXPHour:
		return s.TotalXPPerHour
	case PermitsHour:
		return s.PermitsPerHour
	case Ticks:
		return float64(out.Ticks)
	case SuccessRate:
		if out.Success {
			return 1
		}
		return 0
	case Efficiency:
		return s.PointsPerTick
	}
	return float64(s.Permits)
}

// better reports whether a ranks strictly ahead of b.
func (o Objective) better(a, b float64) bool {
	if o.Minimise() {
		return a < b
	}
	return a > b
}
