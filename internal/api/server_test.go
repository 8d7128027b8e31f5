package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"osrs_sim/internal/combat"
	"osrs_sim/internal/config"
	"osrs_sim/internal/data"
	"osrs_sim/internal/store"
	"osrs_sim/internal/tempoross"
)

func newTestServer(t *testing.T, withStore bool) *httptest.Server {
	t.Helper()
	var st *store.Store
	if withStore {
		var err error
		st, err = store.Open(filepath.Join(t.TempDir(), "api.db"))
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { st.Close() })
	}
	s := NewServer(config.DefaultRules(), tempoross.NewRegistry(nil), data.NewCatalog(""), st)
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestHealthAndStrategies(t *testing.T) {
	ts := newTestServer(t, false)
	var health map[string]any
	if code := do(t, http.MethodGet, ts.URL+"/health", nil, &health); code != http.StatusOK {
		t.Fatalf("GET /health = %d", code)
	}
	if health["status"] != "ok" || health["store"] != false {
		t.Errorf("health = %v", health)
	}

	var list struct {
		Strategies []string `json:"strategies"`
		Objectives []string `json:"objectives"`
	}
	do(t, http.MethodGet, ts.URL+"/strategies", nil, &list)
	if len(list.Strategies) == 0 || len(list.Objectives) == 0 {
		t.Errorf("strategies = %+v", list)
	}
}

func TestOptimizeSavesResult(t *testing.T) {
	ts := newTestServer(t, true)
	var resp OptimizeResponse
	code := do(t, http.MethodPost, ts.URL+"/optimize", OptimizeRequest{
		Level: 99, Strategy: "balanced", Trials: 3, Seed: 7, Save: true,
	}, &resp)
	if code != http.StatusOK {
		t.Fatalf("POST /optimize = %d", code)
	}
	if len(resp.Results) != 1 || resp.Results[0].Aggregate.Trials != 3 {
		t.Fatalf("results = %+v", resp.Results)
	}
	if resp.ID == "" {
		t.Fatal("saved result has no id")
	}

	var rec store.Record
	if code := do(t, http.MethodGet, ts.URL+"/results/"+resp.ID, nil, &rec); code != http.StatusOK {
		t.Fatalf("GET /results/{id} = %d", code)
	}
	if rec.Kind != store.KindOptimize || rec.Label != "balanced" || rec.Seed != 7 || len(rec.Payload) == 0 {
		t.Errorf("record = %+v", rec)
	}

	var listed struct {
		Results []store.Record `json:"results"`
	}
	do(t, http.MethodGet, ts.URL+"/results?kind=optimize", nil, &listed)
	if len(listed.Results) != 1 || listed.Results[0].ID != resp.ID {
		t.Errorf("listed = %+v", listed)
	}

	if code := do(t, http.MethodDelete, ts.URL+"/results/"+resp.ID, nil, nil); code != http.StatusNoContent {
		t.Errorf("DELETE = %d, want 204", code)
	}
	if code := do(t, http.MethodGet, ts.URL+"/results/"+resp.ID, nil, &map[string]string{}); code != http.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", code)
	}
}

func TestOptimizeBadRequests(t *testing.T) {
	ts := newTestServer(t, false)
	tests := []struct {
		name string
		body any
	}{
		{"unknown strategy", OptimizeRequest{Strategy: "yolo", Trials: 1}},
		{"unknown objective", OptimizeRequest{Objective: "fame", Trials: 1}},
		{"negative trials", OptimizeRequest{Trials: -1}},
		{"too many trials", OptimizeRequest{Strategy: "all", Trials: maxTrials}},
		{"trials overflow", OptimizeRequest{Strategy: "all", Trials: math.MaxInt}},
		{"huge grid", OptimizeRequest{Strategy: "grid", Grid: math.MaxInt32, Trials: 1}},
		{"grid above cap", OptimizeRequest{Strategy: "grid", Grid: maxGrid + 1, Trials: 1}},
		{"unknown field", map[string]any{"levle": 99}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e map[string]string
			if code := do(t, http.MethodPost, ts.URL+"/optimize", tt.body, &e); code != http.StatusBadRequest {
				t.Errorf("code = %d, want 400 (%v)", code, e)
			}
			if e["error"] == "" {
				t.Error("missing error message")
			}
		})
	}
}

func TestDPS(t *testing.T) {
	ts := newTestServer(t, false)
	var resp DPSResponse
	code := do(t, http.MethodPost, ts.URL+"/dps", DPSRequest{
		Weapon: "abyssal whip", Monster: "abyssal demon", Prayer: "piety", Potion: "super_combat", Kills: 50, Seed: 3,
	}, &resp)
	if code != http.StatusOK {
		t.Fatalf("POST /dps = %d", code)
	}
	if resp.Result.MaxHit != 36 || resp.Result.DPS <= 0 {
		t.Errorf("result = %+v", resp.Result)
	}
	if resp.Kills == nil || resp.Kills.Kills != 50 || resp.Kills.Times != nil {
		t.Errorf("kills = %+v", resp.Kills)
	}

	var e map[string]string
	if code := do(t, http.MethodPost, ts.URL+"/dps", DPSRequest{Weapon: "wet noodle"}, &e); code != http.StatusBadRequest {
		t.Errorf("unknown weapon = %d, want 400", code)
	}
	if code := do(t, http.MethodPost, ts.URL+"/dps", DPSRequest{Weapon: "abyssal whip", Save: true}, &e); code != http.StatusServiceUnavailable {
		t.Errorf("save without store = %d, want 503", code)
	}
}

func TestDPSWithSpell(t *testing.T) {
	ts := newTestServer(t, false)
	var resp DPSResponse
	code := do(t, http.MethodPost, ts.URL+"/dps", DPSRequest{Weapon: "kodai wand", Spell: "ice barrage"}, &resp)
	if code != http.StatusOK {
		t.Fatalf("POST /dps = %d", code)
	}
	if resp.Result.MaxHit != 34 {
		t.Errorf("kodai ice barrage max hit = %d, want 34", resp.Result.MaxHit)
	}

	low := combat.MaxedLevels()
	low.Magic = 93
	bad := []DPSRequest{
		{Weapon: "kodai wand", Spell: "teleport home"},
		{Weapon: "kodai wand", Spell: "ice barrage", Levels: &low},
	}
	for _, r := range bad {
		var e map[string]string
		if code := do(t, http.MethodPost, ts.URL+"/dps", r, &e); code != http.StatusBadRequest {
			t.Errorf("%+v = %d, want 400", r, code)
		}
	}
}

func TestResultsWithoutStore(t *testing.T) {
	ts := newTestServer(t, false)
	var e map[string]string
	if code := do(t, http.MethodGet, ts.URL+"/results", nil, &e); code != http.StatusServiceUnavailable {
		t.Errorf("GET /results = %d, want 503", code)
	}
}
