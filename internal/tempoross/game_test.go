package tempoross

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"osrs_sim/internal/config"
	"osrs_sim/internal/phase"
	"osrs_sim/internal/tick"
)

func testGame(t *testing.T, tweak func(*config.Rules)) *Game {
	t.Helper()
	rules := config.DefaultRules()
	if tweak != nil {
		tweak(rules)
	}
	p, err := NewPlayer(config.DefaultPlayer(), rules)
	if err != nil {
		t.Fatal(err)
	}
	p.CatchChance = 1
	return newGame(rules, p, rand.New(rand.NewSource(1)))
}

func TestNewPlayer(t *testing.T) {
	rules := config.DefaultRules()
	tests := []struct {
		name     string
		cfg      config.Player
		capacity int
		attempt  int
		catch    float64
		xp       float64
	}{
		{"max level dragon", config.Player{FishingLevel: 99, Harpoon: "dragon"}, 22, 4, 255.0 / 256, 142},
		{"entry level regular", config.Player{FishingLevel: 35}, 22, 5, (170 + 85*34.0/98) / 256, 65},
		{"below entry clamps", config.Player{FishingLevel: 10}, 22, 5, (170 + 85*34.0/98) / 256, 65},
		{"spirit angler imcando", config.Player{FishingLevel: 99, SpiritAngler: true, ImcandoHammer: true}, 24, 5, 255.0 / 256, 142},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPlayer(tt.cfg, rules)
			if err != nil {
				t.Fatal(err)
			}
			if p.Capacity != tt.capacity {
				t.Errorf("Capacity = %d, want %d", p.Capacity, tt.capacity)
			}
			if p.AttemptTicks != tt.attempt {
				t.Errorf("AttemptTicks = %d, want %d", p.AttemptTicks, tt.attempt)
			}
			if math.Abs(p.CatchChance-tt.catch) > 1e-9 {
				t.Errorf("CatchChance = %v, want %v", p.CatchChance, tt.catch)
			}
			if math.Abs(p.FishingXPEach-tt.xp) > 1e-9 {
				t.Errorf("FishingXPEach = %v, want %v", p.FishingXPEach, tt.xp)
			}
		})
	}

	if _, err := NewPlayer(config.Player{Harpoon: "wooden spoon"}, rules); err == nil {
		t.Error("NewPlayer with unknown harpoon succeeded")
	}
}

func TestFish(t *testing.T) {
	t.Run("normal spot", func(t *testing.T) {
		g := testGame(t, nil)
		if res := g.fish(NormalSpot, phase.Surfaced); res.Rejected {
			t.Fatalf("fish rejected: %s", res.Reason)
		}
		if g.Counters.Get(RawHeld) != 1 || g.Counters.Get(FishCaught) != 1 {
			t.Errorf("raw/caught = %d/%d, want 1/1", g.Counters.Get(RawHeld), g.Counters.Get(FishCaught))
		}
	})
	t.Run("double spot always doubles", func(t *testing.T) {
		g := testGame(t, func(r *config.Rules) { r.Catch.DoubleSpotChance = 1 })
		g.fish(DoubleSpot, phase.Surfaced)
		if got := g.Counters.Get(FishCaught); got != 2 {
			t.Errorf("FishCaught = %d, want 2", got)
		}
	})
	t.Run("double spot respects capacity", func(t *testing.T) {
		g := testGame(t, func(r *config.Rules) { r.Catch.DoubleSpotChance = 1 })
		g.Counters.Add(RawHeld, g.player.Capacity-1)
		g.fish(DoubleSpot, phase.Surfaced)
		if got := g.Counters.Held(); got != g.player.Capacity {
			t.Errorf("Held = %d, want %d", got, g.player.Capacity)
		}
	})
	t.Run("full inventory", func(t *testing.T) {
		g := testGame(t, nil)
		g.Counters.Add(RawHeld, g.player.Capacity)
		if res := g.fish(NormalSpot, phase.Surfaced); !res.Rejected {
			t.Error("fish with full inventory accepted")
		}
	})
	t.Run("submerged", func(t *testing.T) {
		g := testGame(t, nil)
		if res := g.fish(NormalSpot, phase.Submerged); !res.Rejected {
			t.Error("fish while submerged accepted")
		}
	})
}

func TestCookRejectsUnderflow(t *testing.T) {
	g := testGame(t, nil)
	before := g.Counters
	res := g.cook()
	if !res.Rejected {
		t.Fatal("cook with no raw fish accepted")
	}
	if g.Counters != before {
		t.Errorf("counters changed on rejected cook: %+v", g.Counters)
	}

	g.Counters.Add(RawHeld, 2)
	if res := g.cook(); res.Rejected {
		t.Fatalf("cook rejected: %s", res.Reason)
	}
	if g.Counters.Get(RawHeld) != 1 || g.Counters.Get(CookedHeld) != 1 || g.Counters.Get(FishCooked) != 1 {
		t.Errorf("after cook raw/cooked/cooked-total = %d/%d/%d, want 1/1/1",
			g.Counters.Get(RawHeld), g.Counters.Get(CookedHeld), g.Counters.Get(FishCooked))
	}
}

func TestDeposit(t *testing.T) {
	t.Run("crosses fire threshold", func(t *testing.T) {
		g := testGame(t, nil)
		g.Counters.Add(RawHeld, 8)
		g.Counters.Add(CookedHeld, 4)
		res := g.deposit(0, phase.Surfaced)
		if res.Rejected || !res.Volley {
			t.Fatalf("deposit = %+v, want accepted volley", res)
		}
		if g.Cannons[0] != (Cannon{Raw: 8, Cooked: 4}) {
			t.Errorf("cannon = %+v, want 8 raw 4 cooked", g.Cannons[0])
		}
		if g.Counters.Held() != 0 {
			t.Errorf("Held = %d, want 0", g.Counters.Held())
		}
		if g.Counters.Get(RawDeposited) != 8 || g.Counters.Get(CookedDeposited) != 4 {
			t.Errorf("deposited = %d/%d, want 8/4", g.Counters.Get(RawDeposited), g.Counters.Get(CookedDeposited))
		}
	})
	t.Run("below threshold", func(t *testing.T) {
		g := testGame(t, nil)
		g.Counters.Add(RawHeld, 5)
		if res := g.deposit(1, phase.Surfaced); res.Volley {
			t.Error("volley requested below threshold")
		}
	})
	t.Run("caps at capacity", func(t *testing.T) {
		g := testGame(t, nil)
		g.Cannons[0].Raw = 38
		g.Counters.Add(RawHeld, 5)
		g.deposit(0, phase.Surfaced)
		if g.Cannons[0].Loaded() != 40 || g.Counters.Get(RawHeld) != 3 {
			t.Errorf("loaded/held = %d/%d, want 40/3", g.Cannons[0].Loaded(), g.Counters.Get(RawHeld))
		}
	})
	t.Run("empty inventory", func(t *testing.T) {
		g := testGame(t, nil)
		if res := g.deposit(0, phase.Surfaced); !res.Rejected {
			t.Error("empty deposit accepted")
		}
	})
}

func TestFireCannons(t *testing.T) {
	g := testGame(t, nil)
	g.Cannons[0] = Cannon{Raw: 12, Cooked: 4}
	if res := g.fireCannons(phase.Surfaced); res.Rejected {
		t.Fatalf("volley rejected: %s", res.Reason)
	}
	if g.Boss.Energy != 266-180 {
		t.Errorf("Energy = %v, want %v", g.Boss.Energy, 266-180)
	}
	if g.Counters.Get(EnergyDamage) != 180 {
		t.Errorf("EnergyDamage = %d, want 180", g.Counters.Get(EnergyDamage))
	}
	if g.loaded() != 0 {
		t.Errorf("cannons still hold %d fish", g.loaded())
	}
	if res := g.fireCannons(phase.Surfaced); !res.Rejected {
		t.Error("empty volley accepted")
	}
}

func TestHarpoon(t *testing.T) {
	g := testGame(t, nil)
	if res := g.harpoon(phase.Surfaced); !res.Rejected {
		t.Error("harpoon while surfaced accepted")
	}
	g.harpoon(phase.Submerged)
	if g.Boss.Essence != 240 || g.Counters.Get(SpiritHarpoons) != 1 {
		t.Errorf("essence/harpoons = %v/%d, want 240/1", g.Boss.Essence, g.Counters.Get(SpiritHarpoons))
	}
}

func TestApplyUnknownTarget(t *testing.T) {
	g := testGame(t, nil)
	for _, a := range []Action{
		{Kind: Fish, Target: 2},
		{Kind: Deposit, Target: -1},
		{Kind: Repair, Target: 9},
		{Kind: Douse, Target: 4},
		{Kind: Harpoon, Target: 2},
	} {
		if _, err := g.apply(a, phase.Surfaced); !errors.Is(err, ErrUnknownTarget) {
			t.Errorf("apply(%s) error = %v, want ErrUnknownTarget", a, err)
		}
	}
	if _, err := g.apply(Action{Kind: actionKindCount}, phase.Surfaced); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("apply(unknown kind) error = %v, want ErrUnknownAction", err)
	}
}

func TestHazardsClear(t *testing.T) {
	g := testGame(t, nil)
	if res := g.clearHazard(g.Hazards.BurningTotem, 2, FiresDoused, "x"); !res.Rejected {
		t.Error("douse of a cold totem accepted")
	}
	g.Hazards.BurningTotem[2] = true
	g.clearHazard(g.Hazards.BurningTotem, 2, FiresDoused, "x")
	if g.Hazards.FirstFire() != -1 || g.Counters.Get(FiresDoused) != 1 {
		t.Errorf("fire not doused: %+v", g.Hazards)
	}
}

func TestStepAndTriggers(t *testing.T) {
	g := testGame(t, func(r *config.Rules) {
		r.Storm = []config.StormLevel{{Name: "certain", WaveChance: 1, FireChance: 1, MastChance: 1}}
	})
	g.step(phase.State{Stage: phase.Surfaced})
	if g.Hazards.FirstFire() != 0 || g.Hazards.FirstDamagedMast() != 0 || g.Counters.Get(WavesSurvived) != 1 {
		t.Errorf("storm did not strike: %+v waves=%d", g.Hazards, g.Counters.Get(WavesSurvived))
	}

	g.Boss.Energy = 0
	if got := g.triggers(phase.State{Stage: phase.Surfaced}); len(got) != 1 || got[0] != phase.EnergyDepleted {
		t.Errorf("surfaced triggers = %v, want [energy_depleted]", got)
	}
	g.step(phase.State{Stage: phase.Submerged})
	if g.Boss.Energy != 3 {
		t.Errorf("Energy after regen = %v, want 3", g.Boss.Energy)
	}
	g.Boss.Energy = g.Boss.MaxEnergy
	g.Boss.Essence = 0
	got := g.triggers(phase.State{Stage: phase.Submerged})
	if len(got) != 2 {
		t.Fatalf("submerged triggers = %v, want both depleted and restored", got)
	}
}

func TestScoreOf(t *testing.T) {
	rules := config.DefaultRules()
	p, _ := NewPlayer(config.DefaultPlayer(), rules)
	var c Counters
	c.Add(FishCaught, 10)
	c.Add(RawDeposited, 10)
	c.Add(SpiritHarpoons, 35)

	s := ScoreOf(&c, tick.Tick(500), rules, p)
	if s.Points != 50+200+1925 {
		t.Errorf("Points = %d, want %d", s.Points, 50+200+1925)
	}
	if s.Permits != 1 {
		t.Errorf("Permits = %d, want 1", s.Permits)
	}
	if want := 3600.0 / 330; math.Abs(s.GamesPerHour-want) > 1e-9 {
		t.Errorf("GamesPerHour = %v, want %v", s.GamesPerHour, want)
	}
	if want := 1420 * 3600.0 / 330; math.Abs(s.FishingXPPerHour-want) > 1e-6 {
		t.Errorf("FishingXPPerHour = %v, want %v", s.FishingXPPerHour, want)
	}
	if s.PointsPerTick != float64(s.Points)/500 {
		t.Errorf("PointsPerTick = %v", s.PointsPerTick)
	}
}

func TestCountersRejectPolicy(t *testing.T) {
	var c Counters
	if err := c.Take(RawHeld, 1); !errors.Is(err, ErrCounterUnderflow) {
		t.Errorf("Take on empty = %v, want ErrCounterUnderflow", err)
	}
	if err := c.Add(RawHeld, -1); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("Add(-1) = %v, want ErrNegativeAmount", err)
	}
	if c.Get(RawHeld) != 0 {
		t.Errorf("RawHeld = %d after rejected ops, want 0", c.Get(RawHeld))
	}
}

func TestLookupHarpoon(t *testing.T) {
	tests := []struct {
		name     string
		speed    int
		autoCook float64
		wantErr  bool
	}{
		{name: "regular"},
		{name: "Dragon", speed: 1},
		{name: " infernal ", speed: 1, autoCook: 1.0 / 3},
		{name: "crystal", speed: 1},
		{name: "bronze", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := LookupHarpoon(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LookupHarpoon(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if h.SpeedBonus != tt.speed || h.AutoCookRatio != tt.autoCook {
				t.Errorf("LookupHarpoon(%q) = %+v, want speed %d auto-cook %v", tt.name, h, tt.speed, tt.autoCook)
			}
		})
	}
}

func TestPlayerHarpoonAndHarpoonAction(t *testing.T) {
	cfg := config.DefaultPlayer()
	cfg.Harpoon = "infernal"
	p, err := NewPlayer(cfg, config.DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	if p.Harpoon.Name != "infernal" || p.Harpoon.AutoCookRatio != 1.0/3 {
		t.Errorf("player harpoon = %+v", p.Harpoon)
	}
	if got := Harpoon.String(); got != "harpoon" {
		t.Errorf("Harpoon action = %q, want harpoon", got)
	}
}
