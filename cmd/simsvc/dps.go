package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"osrs_sim/internal/api"
	"osrs_sim/internal/data"
	"osrs_sim/internal/store"
)

func runDPS(args []string) error {
	var (
		e   env
		req api.DPSRequest
		out string
	)
	fs := flag.NewFlagSet("dps", flag.ContinueOnError)
	e.register(fs)
	fs.StringVar(&req.Weapon, "weapon", "abyssal whip", "weapon name")
	fs.StringVar(&req.Monster, "monster", "", "target monster name")
	fs.StringVar(&req.Spell, "spell", "", "combat spell cast with a magic weapon")
	fs.StringVar(&req.Prayer, "prayer", "", "offensive prayer")
	fs.StringVar(&req.Potion, "potion", "", "boosting potion")
	fs.StringVar(&req.Stance, "stance", "", "attack stance (default per style)")
	fs.BoolVar(&req.OnTask, "on-task", false, "on a slayer task")
	fs.BoolVar(&req.Gear.SlayerHelmImbued, "slayer-helm", false, "imbued slayer helmet")
	fs.BoolVar(&req.Gear.SalveEI, "salve", false, "salve amulet (ei)")
	fs.Float64Var(&req.DefenceReduction, "def-reduction", 0, "fraction of target defence drained")
	fs.IntVar(&req.Kills, "kills", 0, "simulate this many kills")
	fs.Int64Var(&req.Seed, "seed", 12345, "kill simulation seed")
	fs.StringVar(&out, "out", "", "result file (empty prints only the summary)")
	if err := e.parse(fs, args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	resp, err := api.RunDPS(ctx, data.NewCatalog(e.dataDir), req)
	if err != nil {
		return err
	}

	st, err := e.openStore()
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		label := req.Weapon
		if req.Monster != "" {
			label += " vs " + req.Monster
		}
		rec, err := st.Save(store.KindDPS, label, req.Seed, resp)
		if err != nil {
			return err
		}
		resp.ID = rec.ID
	}

	r := resp.Result
	fmt.Printf("%s (%s/%s, %s): max hit %d, accuracy %.2f%%, speed %d ticks\n",
		r.Weapon, r.Style, r.AttackType, r.Stance, r.MaxHit, r.HitChance*100, r.Speed)
	fmt.Printf("DPS %.3f", r.DPS)
	if resp.Monster != nil {
		fmt.Printf(" vs %s (%s hp)", resp.Monster.Name, humanize.Comma(int64(resp.Monster.Hitpoints)))
		if r.KillTime > 0 {
			fmt.Printf(", kill %.1fs, %s kills/hr", r.KillTime, humanize.Comma(int64(math.Round(r.KillsPerHour))))
		}
	}
	fmt.Println()
	if k := resp.Kills; k != nil {
		fmt.Printf("%s simulated kills: mean %.1fs ± %.1f, range %.1f-%.1fs\n",
			humanize.Comma(int64(k.Kills)), k.Mean, k.StdDev, k.Min, k.Max)
	}
	if out != "" {
		return writeOut(out, resp)
	}
	return nil
}
