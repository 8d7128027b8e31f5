package data

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"osrs_sim/internal/logger"
)

// External serves records parsed from a cached JSON file. Nothing is read
// until EnsureLoaded is called; lookups before that miss.
type External[T any] struct {
	path   string
	decode func([]byte) (map[string]T, error)

	mu     sync.RWMutex
	loaded bool
	items  map[string]T
}

func NewExternal[T any](path string, decode func([]byte) (map[string]T, error)) *External[T] {
	return &External[T]{path: path, decode: decode}
}

// EnsureLoaded parses the file once. A missing file loads as empty.
func (e *External[T]) EnsureLoaded(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := os.ReadFile(e.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("data cache missing", "path", e.path)
		e.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", e.path, err)
	}
	items, err := e.decode(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", e.path, err)
	}
	e.items = items
	e.loaded = true
	logger.Info("data cache loaded", "path", e.path, "records", len(items))
	return nil
}

func (e *External[T]) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

func (e *External[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.items)
}

func (e *External[T]) Lookup(name string) (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.items[Normalize(name)]
	return v, ok
}

func (e *External[T]) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sortedKeys(e.items)
}
