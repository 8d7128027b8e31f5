package api

import (
	"context"
	"errors"
	"fmt"

	"osrs_sim/internal/combat"
	"osrs_sim/internal/config"
	"osrs_sim/internal/data"
	"osrs_sim/internal/optimizer"
	"osrs_sim/internal/tempoross"
)

var ErrBadRequest = errors.New("bad request")

// OptimizeRequest selects strategies and batch options. Zero values take
// the CLI defaults.
type OptimizeRequest struct {
	Level         int    `json:"level"`
	Harpoon       string `json:"harpoon"`
	Players       int    `json:"players"`
	SpiritAngler  bool   `json:"spirit_angler"`
	ImcandoHammer bool   `json:"imcando_hammer"`

	// Strategy is a strategy name, "all" for every policy, or "grid".
	Strategy  string `json:"strategy"`
	Grid      int    `json:"grid"`
	Trials    int    `json:"trials"`
	Seed      int64  `json:"seed"`
	Objective string `json:"objective"`
	Workers   int    `json:"workers"`
	MaxTicks  int    `json:"max_ticks"`
	Save      bool   `json:"save"`
}

type OptimizeResponse struct {
	ID        string              `json:"id,omitempty"`
	Objective optimizer.Objective `json:"objective"`
	Player    config.Player       `json:"player"`
	Results   []optimizer.Ranked  `json:"results"`
	Pareto    []string            `json:"pareto,omitempty"`
}

func (r OptimizeRequest) player() config.Player {
	p := config.DefaultPlayer()
	if r.Level != 0 {
		p.FishingLevel = r.Level
	}
	if r.Harpoon != "" {
		p.Harpoon = r.Harpoon
	}
	if r.Players != 0 {
		p.GroupSize = r.Players
	}
	p.SpiritAngler = r.SpiritAngler
	p.ImcandoHammer = r.ImcandoHammer
	return p.Normalize()
}

// Build resolves the request into strategies and optimizer options.
func (r OptimizeRequest) Build(rules *config.Rules, reg *tempoross.Registry) ([]tempoross.Strategy, optimizer.Options, error) {
	obj, err := optimizer.ParseObjective(r.Objective)
	if err != nil {
		return nil, optimizer.Options{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	var strategies []tempoross.Strategy
	if r.Strategy == "grid" {
		strategies = optimizer.Grid(r.Grid)
	} else if strategies, err = reg.Resolve(r.Strategy); err != nil {
		return nil, optimizer.Options{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	trials := r.Trials
	if trials == 0 {
		trials = 10
	}
	if trials < 0 {
		return nil, optimizer.Options{}, fmt.Errorf("%w: trials %d", ErrBadRequest, trials)
	}
	p := r.player()
	if _, err := tempoross.NewPlayer(p, rules); err != nil {
		return nil, optimizer.Options{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return strategies, optimizer.Options{
		Trials:    trials,
		BaseSeed:  r.Seed,
		Workers:   r.Workers,
		Objective: obj,
		Run:       tempoross.RunConfig{Rules: rules, Player: p, MaxTicks: r.MaxTicks},
	}, nil
}

// DPSRequest names a weapon and target from the catalog plus the rest of
// the loadout.
type DPSRequest struct {
	Weapon           string         `json:"weapon"`
	Monster          string         `json:"monster"`
	Spell            string         `json:"spell"`
	Levels           *combat.Levels `json:"levels,omitempty"`
	Prayer           string         `json:"prayer"`
	Potion           string         `json:"potion"`
	Stance           string         `json:"stance"`
	Gear             combat.Gear    `json:"gear"`
	Extra            combat.Bonuses `json:"extra"`
	OnTask           bool           `json:"on_task"`
	DefenceReduction float64        `json:"defence_reduction"`
	Kills            int            `json:"kills"`
	Seed             int64          `json:"seed"`
	Save             bool           `json:"save"`
}

type DPSResponse struct {
	ID      string            `json:"id,omitempty"`
	Monster *combat.Monster   `json:"monster,omitempty"`
	Result  combat.Result     `json:"result"`
	Kills   *combat.KillStats `json:"kills,omitempty"`
}

// RunDPS resolves names through the catalog, computes DPS and optionally
// simulates kills.
func RunDPS(ctx context.Context, cat *data.Catalog, r DPSRequest) (DPSResponse, error) {
	if err := cat.EnsureLoaded(ctx); err != nil {
		return DPSResponse{}, err
	}
	w, err := cat.Weapon(r.Weapon)
	if err != nil {
		return DPSResponse{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	setup := combat.Setup{
		Levels:           combat.MaxedLevels(),
		Weapon:           w,
		Extra:            r.Extra,
		Gear:             r.Gear,
		Stance:           r.Stance,
		Prayer:           r.Prayer,
		Potion:           r.Potion,
		OnTask:           r.OnTask,
		DefenceReduction: r.DefenceReduction,
	}
	if r.Levels != nil {
		setup.Levels = *r.Levels
	}
	if r.Spell != "" {
		sp, err := cat.Spell(r.Spell)
		if err != nil {
			return DPSResponse{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		if sp.Level > setup.Levels.Magic {
			return DPSResponse{}, fmt.Errorf("%w: %s needs magic level %d", ErrBadRequest, sp.Name, sp.Level)
		}
		setup.Spell = &sp
	}
	var resp DPSResponse
	if r.Monster != "" {
		m, err := cat.Monster(r.Monster)
		if err != nil {
			return DPSResponse{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		setup.Target = &m
		resp.Monster = &m
	}
	res, err := combat.Calculate(setup)
	if err != nil {
		return DPSResponse{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	resp.Result = res
	if r.Kills > 0 && setup.Target != nil {
		ks, err := combat.SimulateKills(res, setup.Target.Hitpoints, r.Kills, r.Seed)
		if err != nil && !errors.Is(err, combat.ErrCannotKill) {
			return DPSResponse{}, err
		}
		if err == nil {
			ks.Times = nil
			resp.Kills = &ks
		}
	}
	return resp, nil
}

// ParetoNames lists the strategies no other strategy beats on both permits
// and fishing XP per hour.
func ParetoNames(rs []optimizer.Ranked) []string {
	var out []string
	for _, r := range optimizer.ParetoFront(rs, optimizer.Permits, optimizer.FishingXPHour) {
		out = append(out, r.Aggregate.Strategy)
	}
	return out
}
