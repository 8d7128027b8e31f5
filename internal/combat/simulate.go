package combat

import (
	"errors"
	"math"

	"osrs_sim/internal/util"
)

var ErrCannotKill = errors.New("setup deals no damage")

// maxAttacks bounds a single simulated kill.
const maxAttacks = 100_000

type KillStats struct {
	Kills   int       `json:"kills"`
	Mean    float64   `json:"mean_seconds"`
	StdDev  float64   `json:"stddev_seconds"`
	Min     float64   `json:"min_seconds"`
	Max     float64   `json:"max_seconds"`
	Attacks float64   `json:"mean_attacks"`
	Times   []float64 `json:"times,omitempty"`
}

// SimulateKills plays n kills of a target with hp hitpoints. Every splat
// rolls accuracy, then damage uniformly between the min and its max hit.
func SimulateKills(r Result, hp, n int, seed int64) (KillStats, error) {
	if r.HitChance <= 0 || r.MaxHit <= 0 || r.Speed <= 0 {
		return KillStats{}, ErrCannotKill
	}
	if n <= 0 || hp <= 0 {
		return KillStats{}, nil
	}
	rng := util.New(seed)
	splats := r.Splats
	if len(splats) == 0 {
		splats = []int{r.MaxHit}
	}
	perAttack := float64(r.Speed) * TickSeconds

	ks := KillStats{Kills: n, Min: math.Inf(1), Times: make([]float64, n)}
	var attacks int
	for i := range n {
		left, swings := hp, 0
		for left > 0 && swings < maxAttacks {
			swings++
			for j, hi := range splats {
				if rng.Float64() >= r.HitChance {
					continue
				}
				lo := 0
				if j == 0 {
					lo = min(r.MinHit, hi)
				}
				left -= lo + rng.Intn(hi-lo+1)
			}
		}
		t := float64(swings) * perAttack
		ks.Times[i] = t
		ks.Mean += t
		ks.Min = min(ks.Min, t)
		ks.Max = max(ks.Max, t)
		attacks += swings
	}
	ks.Mean /= float64(n)
	ks.Attacks = float64(attacks) / float64(n)
	var acc float64
	for _, t := range ks.Times {
		acc += (t - ks.Mean) * (t - ks.Mean)
	}
	ks.StdDev = math.Sqrt(acc / float64(n))
	return ks, nil
}
