package tempoross

import (
	"encoding/json"

	"osrs_sim/internal/config"
	"osrs_sim/internal/tick"
)

// Score is the reward summary of one game, with hourly rates assuming back
// to back games separated by the lobby wait.
type Score struct {
	Points           int     `json:"points"`
	Permits          int     `json:"permits"`
	FishingXP        float64 `json:"fishing_xp"`
	CookingXP        float64 `json:"cooking_xp"`
	GamesPerHour     float64 `json:"games_per_hour"`
	FishingXPPerHour float64 `json:"fishing_xp_per_hour"`
	TotalXPPerHour   float64 `json:"total_xp_per_hour"`
	PermitsPerHour   float64 `json:"permits_per_hour"`
	PointsPerTick    float64 `json:"points_per_tick"`
}

func Points(c *Counters, p config.PointRules) int {
	return c.Get(FishCaught)*p.Fish +
		c.Get(FishCooked)*p.Cook +
		c.Get(RawDeposited)*p.DepositRaw +
		c.Get(CookedDeposited)*p.DepositCooked +
		c.Get(Repairs)*p.Repair +
		c.Get(FiresDoused)*p.Douse +
		c.Get(WavesSurvived)*p.Wave +
		c.Get(SpiritHarpoons)*p.SpiritHarpoon
}

func ScoreOf(c *Counters, ticks tick.Tick, rules *config.Rules, p Player) Score {
	s := Score{Points: Points(c, rules.Points)}
	s.Permits = rules.PermitsFor(s.Points)
	s.FishingXP = float64(c.Get(FishCaught)) * p.FishingXPEach
	s.CookingXP = float64(c.Get(FishCooked)) * rules.XP.Cooking

	if secs := ticks.Seconds() + rules.LobbySeconds; secs > 0 {
		s.GamesPerHour = 3600 / secs
	}
	s.FishingXPPerHour = s.FishingXP * s.GamesPerHour
	s.TotalXPPerHour = (s.FishingXP + s.CookingXP) * s.GamesPerHour
	s.PermitsPerHour = float64(s.Permits) * s.GamesPerHour
	if ticks > 0 {
		s.PointsPerTick = float64(s.Points) / float64(ticks)
	}
	return s
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
