package tempoross

import (
	"fmt"
	"strings"

	"osrs_sim/internal/config"
)

// HarpoonTool describes a fishing tool's speed bonus and passive cooking.
type HarpoonTool struct {
	Name          string
	SpeedBonus    int
	AutoCookRatio float64
}

var harpoons = map[string]HarpoonTool{
	"regular":  {Name: "regular"},
	"dragon":   {Name: "dragon", SpeedBonus: 1},
	"infernal": {Name: "infernal", SpeedBonus: 1, AutoCookRatio: 1.0 / 3},
	"crystal":  {Name: "crystal", SpeedBonus: 1},
}

func LookupHarpoon(name string) (HarpoonTool, error) {
	h, ok := harpoons[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return HarpoonTool{}, fmt.Errorf("unknown harpoon %q", name)
	}
	return h, nil
}

// Player is the resolved, immutable view of a player's setup for one ruleset.
type Player struct {
	Config        config.Player
	Harpoon       HarpoonTool
	CatchChance   float64
	AttemptTicks  int
	Capacity      int
	FishingXPEach float64
}

func NewPlayer(cfg config.Player, rules *config.Rules) (Player, error) {
	cfg = cfg.Normalize()
	h, err := LookupHarpoon(cfg.Harpoon)
	if err != nil {
		return Player{}, err
	}
	p := Player{Config: cfg, Harpoon: h}

	c := rules.Catch
	lvl := float64(cfg.FishingLevel)
	rate := c.BaseRate + (c.MaxRate-c.BaseRate)*(lvl-1)/98
	p.CatchChance = min(1, rate/c.Denominator)

	p.AttemptTicks = max(1, rules.Timing.BaseAttempt-h.SpeedBonus)

	reserved := c.Buckets
	if !cfg.SpiritAngler {
		reserved++ // rope
	}
	if !cfg.ImcandoHammer {
		reserved++ // hammer
	}
	p.Capacity = max(0, c.InventorySlots-reserved)

	x := rules.XP
	span := float64(config.MaxFishingLevel - config.MinFishingLevel)
	p.FishingXPEach = x.FishingMin + (x.FishingMax-x.FishingMin)*(lvl-config.MinFishingLevel)/span
	return p, nil
}
