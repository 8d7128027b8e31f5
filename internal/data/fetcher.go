package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"osrs_sim/internal/logger"
)

// Source is one mirror of the osrsreboxed-db exports.
type Source struct {
	Name        string
	ItemsURL    string
	MonstersURL string
}

var DefaultSources = []Source{
	{
		Name:        "osrsreboxed-db",
		ItemsURL:    "https://raw.githubusercontent.com/0xNeffarion/osrsreboxed-db/master/docs/items-complete.json",
		MonstersURL: "https://raw.githubusercontent.com/0xNeffarion/osrsreboxed-db/master/docs/monsters-complete.json",
	},
	{
		Name:        "osrsbox",
		ItemsURL:    "https://www.osrsbox.com/osrsbox-db/items-complete.json",
		MonstersURL: "https://www.osrsbox.com/osrsbox-db/monsters-complete.json",
	},
}

var ErrAllSourcesFailed = errors.New("every data source failed")

// HTTPError is a non-200 response.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

type Metadata struct {
	Version      string `json:"version"`
	LastUpdated  string `json:"last_updated"`
	Source       string `json:"source"`
	ItemCount    int    `json:"item_count"`
	MonsterCount int    `json:"monster_count"`
}

// Fetcher refreshes the cache directory from the first source that answers.
type Fetcher struct {
	Dir       string
	Sources   []Source
	Client    *http.Client
	Retries   uint64
	BaseDelay time.Duration
	Now       func() time.Time
}

func NewFetcher(dir string) *Fetcher {
	return &Fetcher{
		Dir:       dir,
		Sources:   DefaultSources,
		Client:    &http.Client{Timeout: 5 * time.Minute},
		Retries:   3,
		BaseDelay: 2 * time.Second,
		Now:       time.Now,
	}
}

func (f *Fetcher) Fetch(ctx context.Context) (Metadata, error) {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return Metadata{}, err
	}
	var errs []error
	for _, src := range f.Sources {
		md, err := f.fetchFrom(ctx, src)
		if err == nil {
			return md, nil
		}
		if ctx.Err() != nil {
			return Metadata{}, ctx.Err()
		}
		logger.Warning("data source failed", "source", src.Name, "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", src.Name, err))
	}
	return Metadata{}, fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(errs...))
}

func (f *Fetcher) fetchFrom(ctx context.Context, src Source) (Metadata, error) {
	var items, monsters map[string]json.RawMessage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = f.download(gctx, src.ItemsURL, keepItem)
		return err
	})
	g.Go(func() (err error) {
		monsters, err = f.download(gctx, src.MonstersURL, keepMonster)
		return err
	})
	if err := g.Wait(); err != nil {
		return Metadata{}, err
	}

	md := Metadata{
		Version:      "1.0.0",
		LastUpdated:  f.now().Format("2006-01-02 15:04:05"),
		Source:       src.Name,
		ItemCount:    len(items),
		MonsterCount: len(monsters),
	}
	for name, v := range map[string]any{ItemsFile: items, MonstersFile: monsters, MetadataFile: md} {
		if err := writeJSON(filepath.Join(f.Dir, name), v); err != nil {
			return Metadata{}, err
		}
	}
	logger.Info("data cache refreshed", "source", src.Name, "items", md.ItemCount, "monsters", md.MonsterCount)
	return md, nil
}

// download fetches one export with retries and keeps entries accepted by keep.
func (f *Fetcher) download(ctx context.Context, url string, keep func(json.RawMessage) bool) (map[string]json.RawMessage, error) {
	var body []byte
	b := retry.WithMaxRetries(f.Retries, retry.NewExponential(max(f.BaseDelay, time.Millisecond)))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := f.client().Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			herr := &HTTPError{URL: url, StatusCode: resp.StatusCode}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return retry.RetryableError(herr)
			}
			return herr
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(body, &all); err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	kept := make(map[string]json.RawMessage, len(all))
	for id, raw := range all {
		if keep(raw) {
			kept[id] = raw
		}
	}
	return kept, nil
}

var combatSlots = map[string]bool{
	"weapon": true, "2h": true, "shield": true, "head": true, "body": true, "legs": true,
	"hands": true, "feet": true, "cape": true, "neck": true, "ring": true, "ammo": true,
}

func keepItem(raw json.RawMessage) bool {
	var it struct {
		EquipableWeapon bool `json:"equipable_weapon"`
		Equipment       *struct {
			Slot string `json:"slot"`
		} `json:"equipment"`
	}
	if json.Unmarshal(raw, &it) != nil {
		return false
	}
	return it.EquipableWeapon || it.Equipment != nil && combatSlots[it.Equipment.Slot]
}

func keepMonster(raw json.RawMessage) bool {
	var m struct {
		Hitpoints int `json:"hitpoints"`
	}
	return json.Unmarshal(raw, &m) == nil && m.Hitpoints > 0
}

// ReadMetadata returns the cache metadata, or false when none was written.
func ReadMetadata(dir string) (Metadata, bool, error) {
	raw, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if errors.Is(err, os.ErrNotExist) {
		return Metadata{}, false, nil
	}
	if err != nil {
		return Metadata{}, false, err
	}
	var md Metadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return Metadata{}, false, fmt.Errorf("decode %s: %w", MetadataFile, err)
	}
	return md, true, nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (f *Fetcher) client() *http.Client {
	if f.Client == nil {
		return http.DefaultClient
	}
	return f.Client
}

func (f *Fetcher) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}
