// Package optimizer runs batches of seeded trials per strategy on a worker
// pool and ranks strategies by an objective.
package optimizer

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"time"

	"osrs_sim/internal/config"
	"osrs_sim/internal/logger"
	"osrs_sim/internal/phase"
	"osrs_sim/internal/tempoross"
)

const maxErrorSamples = 5

var (
	ErrNoStrategies = errors.New("optimizer: no strategies given")
	ErrNoTrials     = errors.New("optimizer: trials must be positive")
)

type Options struct {
	Trials    int
	BaseSeed  int64
	Workers   int
	Objective Objective
	Run       tempoross.RunConfig
	// KeepOutcomes retains every trial outcome in Ranked.Outcomes.
	KeepOutcomes bool
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Objective == "" {
		o.Objective = Permits
	}
	if o.Run.Rules == nil {
		o.Run.Rules = config.DefaultRules()
	}
	return o
}

// Aggregate is the batch summary of one strategy.
type Aggregate struct {
	Strategy     string   `json:"strategy"`
	Trials       int      `json:"trials"`
	Successes    int      `json:"successes"`
	Failures     int      `json:"failures"`
	Timeouts     int      `json:"timeouts"`
	Errors       int      `json:"errors"`
	ErrorSamples []string `json:"error_samples,omitempty"`
	SuccessRate  float64  `json:"success_rate"`
	Rejected     Stats    `json:"rejected"`

	Ticks         Stats `json:"ticks"`
	Points        Stats `json:"points"`
	Permits       Stats `json:"permits"`
	FishingXPHour Stats `json:"fishing_xp_hour"`
	TotalXPHour   Stats `json:"total_xp_hour"`
	PermitsHour   Stats `json:"permits_hour"`
	Efficiency    Stats `json:"efficiency"`
}

// Ranked is one strategy's place in an optimization result.
type Ranked struct {
	Rank      int                 `json:"rank"`
	Objective Objective           `json:"objective"`
	Score     float64             `json:"score"`
	Spread    float64             `json:"spread"`
	Aggregate Aggregate           `json:"aggregate"`
	Outcomes  []tempoross.Outcome `json:"outcomes,omitempty"`
}

// Optimize runs opts.Trials games for every strategy. Trial i of every
// strategy uses seed BaseSeed+i so strategies face the same storms.
// Results are collected by index and ranked after all workers finish.
func Optimize(ctx context.Context, strategies []tempoross.Strategy, opts Options) ([]Ranked, error) {
	if len(strategies) == 0 {
		return nil, ErrNoStrategies
	}
	if opts.Trials <= 0 {
		return nil, ErrNoTrials
	}
	opts = opts.withDefaults()

	start := time.Now()
	total := len(strategies) * opts.Trials
	logger.Info("optimize batch started", "strategies", len(strategies), "trials", opts.Trials, "workers", opts.Workers, "objective", string(opts.Objective))

	results := make([]tempoross.Outcome, total)
	var wg sync.WaitGroup
	jobs := make(chan int)
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				s := strategies[i/opts.Trials]
				results[i] = tempoross.Run(s, opts.BaseSeed+int64(i%opts.Trials), opts.Run)
			}
		}()
	}
dispatch:
	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		logger.Warning("optimize batch cancelled", "error", err)
		return nil, err
	}

	ranked := make([]Ranked, len(strategies))
	for si := range strategies {
		trials := results[si*opts.Trials : (si+1)*opts.Trials]
		ranked[si] = score(trials, opts.Objective)
		if opts.KeepOutcomes {
			ranked[si].Outcomes = trials
		}
	}
	rank(ranked, opts.Objective)

	logger.Info("optimize batch finished", "runs", total, "elapsed", time.Since(start).String(), "best", ranked[0].Aggregate.Strategy)
	return ranked, nil
}

func score(trials []tempoross.Outcome, obj Objective) Ranked {
	agg := Aggregate{Trials: len(trials)}
	if len(trials) > 0 {
		agg.Strategy = trials[0].Strategy
	}
	metric := func(f func(*tempoross.Outcome) float64) Stats {
		xs := make([]float64, len(trials))
		for i := range trials {
			xs[i] = f(&trials[i])
		}
		return calcStats(xs)
	}

	for i := range trials {
		o := &trials[i]
		switch {
		case o.Err != nil:
			agg.Errors++
			if len(agg.ErrorSamples) < maxErrorSamples {
				agg.ErrorSamples = append(agg.ErrorSamples, o.Err.Error())
			}
		case o.Success:
			agg.Successes++
		case o.Final.Outcome == phase.Timeout:
			agg.Timeouts++
		default:
			agg.Failures++
		}
	}
	if agg.Trials > 0 {
		agg.SuccessRate = float64(agg.Successes) / float64(agg.Trials)
	}

	agg.Rejected = metric(func(o *tempoross.Outcome) float64 { return float64(o.Rejected) })
	agg.Ticks = metric(Ticks.Metric)
	agg.Points = metric(Points.Metric)
	agg.Permits = metric(Permits.Metric)
	agg.FishingXPHour = metric(FishingXPHour.Metric)
	agg.TotalXPHour = metric(TotalXPHour.Metric)
	agg.PermitsHour = metric(PermitsHour.Metric)
	agg.Efficiency = metric(Efficiency.Metric)

	objStats := metric(obj.Metric)
	return Ranked{Objective: obj, Score: objStats.Mean, Spread: objStats.StdDev, Aggregate: agg}
}

// rank orders by score, then lower spread, then strategy name.
func rank(rs []Ranked, obj Objective) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := rs[i], rs[j]
		if a.Score != b.Score {
			return obj.better(a.Score, b.Score)
		}
		if a.Spread != b.Spread {
			return a.Spread < b.Spread
		}
		return a.Aggregate.Strategy < b.Aggregate.Strategy
	})
	for i := range rs {
		rs[i].Rank = i + 1
	}
}
