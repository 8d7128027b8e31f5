// Package data resolves weapons, monsters and spells by name from built-in
// tables and from a cached osrsreboxed-db export.
package data

import (
	"sort"
	"strings"
)

// Lookup finds a record by name. Names are normalised before matching.
type Lookup[T any] interface {
	Lookup(name string) (T, bool)
	Names() []string
}

// Normalize maps a display name to its lookup key: lower case, spaces and
// hyphens to underscores, apostrophes dropped.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(name)
}

// Hardcoded is an in-memory table keyed by normalised name.
type Hardcoded[T any] map[string]T

func (h Hardcoded[T]) Lookup(name string) (T, bool) {
	v, ok := h[Normalize(name)]
	return v, ok
}

func (h Hardcoded[T]) Names() []string { return sortedKeys(h) }

// Chain consults each source in order and returns the first hit.
type Chain[T any] []Lookup[T]

func (c Chain[T]) Lookup(name string) (T, bool) {
	for _, l := range c {
		if v, ok := l.Lookup(name); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Names is the sorted union of every source's names.
func (c Chain[T]) Names() []string {
	seen := map[string]struct{}{}
	for _, l := range c {
		for _, n := range l.Names() {
			seen[n] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
