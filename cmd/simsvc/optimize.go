package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"osrs_sim/internal/api"
	"osrs_sim/internal/logger"
	"osrs_sim/internal/optimizer"
	"osrs_sim/internal/store"
	"osrs_sim/internal/tempoross"
)

// playerFlags binds the player setup and batch flags onto an optimize
// request.
func playerFlags(fs *flag.FlagSet, req *api.OptimizeRequest) {
	fs.IntVar(&req.Level, "level", 99, "fishing level")
	fs.StringVar(&req.Harpoon, "harpoon", "dragon", "harpoon (regular, dragon, infernal, crystal)")
	fs.IntVar(&req.Players, "players", 1, "group size")
	fs.BoolVar(&req.SpiritAngler, "spirit-angler", false, "wear spirit angler outfit")
	fs.BoolVar(&req.ImcandoHammer, "imcando", false, "carry an imcando hammer")
	fs.StringVar(&req.Strategy, "strategy", "all", "strategy name, all, or grid")
	fs.Int64Var(&req.Seed, "seed", 12345, "base seed")
	fs.IntVar(&req.MaxTicks, "max-ticks", 0, "tick limit override")
}

func runOptimize(args []string) error {
	var (
		e   env
		req api.OptimizeRequest
		out string
	)
	fs := flag.NewFlagSet("optimize", flag.ContinueOnError)
	e.register(fs)
	playerFlags(fs, &req)
	fs.IntVar(&req.Trials, "n", 100, "trials per strategy")
	fs.StringVar(&req.Objective, "objective", string(optimizer.Permits), "ranking objective")
	fs.IntVar(&req.Workers, "workers", 0, "worker goroutines (0 = one per CPU)")
	fs.IntVar(&req.Grid, "grid", 3, "grid resolution when -strategy=grid")
	fs.StringVar(&out, "out", "out.json", "summary file (- for stdout)")
	if err := e.parse(fs, args); err != nil {
		return err
	}

	rules, reg, err := e.load()
	if err != nil {
		return err
	}
	strategies, opts, err := req.Build(rules, reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ranked, err := optimizer.Optimize(ctx, strategies, opts)
	if err != nil {
		return err
	}
	resp := api.OptimizeResponse{
		Objective: opts.Objective,
		Player:    opts.Run.Player,
		Results:   ranked,
		Pareto:    api.ParetoNames(ranked),
	}

	st, err := e.openStore()
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		rec, err := st.Save(store.KindOptimize, req.Strategy, req.Seed, resp)
		if err != nil {
			return err
		}
		resp.ID = rec.ID
	}

	if out != "-" {
		printRanking(resp)
	}
	if err := writeOut(out, resp); err != nil {
		return err
	}
	fmt.Printf("Optimize %s trials x %d strategies done -> %s\n",
		humanize.Comma(int64(opts.Trials)), len(strategies), out)
	return nil
}

func printRanking(resp api.OptimizeResponse) {
	fmt.Printf("Player %s, ranked by %s\n", resp.Player, resp.Objective)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSTRATEGY\tSCORE\t±\tSUCCESS\tPERMITS/HR\tFISHING XP/HR\tTICKS")
	for _, r := range resp.Results {
		a := r.Aggregate
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.0f%%\t%s\t%s\t%s\n",
			r.Rank, a.Strategy,
			humanize.CommafWithDigits(r.Score, 2),
			humanize.CommafWithDigits(r.Spread, 2),
			a.SuccessRate*100,
			humanize.CommafWithDigits(a.PermitsHour.Mean, 1),
			humanize.Comma(int64(a.FishingXPHour.Mean)),
			humanize.Comma(int64(a.Ticks.Mean)),
		)
	}
	tw.Flush()
	if len(resp.Pareto) > 0 {
		fmt.Printf("Pareto front (permits, fishing xp/hr): %v\n", resp.Pareto)
	}
}

func runSimulate(args []string) error {
	var (
		e      env
		req    api.OptimizeRequest
		out    string
		record bool
	)
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	e.register(fs)
	playerFlags(fs, &req)
	fs.StringVar(&out, "out", "out.json", "outcome file (- for stdout)")
	fs.BoolVar(&record, "record", true, "save the full event log")
	if err := e.parse(fs, args); err != nil {
		return err
	}
	if req.Strategy == "all" {
		req.Strategy = tempoross.Balanced().Name()
	}

	rules, reg, err := e.load()
	if err != nil {
		return err
	}
	req.Trials = 1
	strategies, opts, err := req.Build(rules, reg)
	if err != nil {
		return err
	}
	opts.Run.Record = record
	res := tempoross.Run(strategies[0], req.Seed, opts.Run)
	if res.Err != nil {
		logger.Warning("simulation ended with an error", "strategy", res.Strategy, "err", res.Err)
	}

	st, err := e.openStore()
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		if _, err := st.Save(store.KindSimulate, res.Strategy, res.Seed, res); err != nil {
			return err
		}
	}

	if err := writeOut(out, res); err != nil {
		return err
	}
	if out != "-" {
		fmt.Printf("Simulation finished. Final=%s, T=%s ticks (%.1fs), points=%s, permits=%d -> %s\n",
			res.Final, humanize.Comma(int64(res.Ticks)), res.Ticks.Seconds(),
			humanize.Comma(int64(res.Score.Points)), res.Score.Permits, out)
	}
	return nil
}
