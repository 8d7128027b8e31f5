package data

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"osrs_sim/internal/combat"
)

const (
	ItemsFile    = "items.json"
	MonstersFile = "monsters.json"
	MetadataFile = "metadata.json"
)

var (
	ErrUnknownWeapon  = errors.New("unknown weapon")
	ErrUnknownMonster = errors.New("unknown monster")
	ErrUnknownSpell   = errors.New("unknown spell")
)

// Catalog resolves weapons from the built-in table first and monsters from
// the cache first, each falling back to the other source. Spells come from
// the built-in table only.
type Catalog struct {
	Weapons  Chain[combat.Weapon]
	Monsters Chain[combat.Monster]
	Spells   Chain[combat.Spell]

	items    *External[combat.Weapon]
	monsters *External[combat.Monster]
}

// NewCatalog wires the lookup chains for a cache directory. An empty dir
// uses the built-in tables only.
func NewCatalog(dir string) *Catalog {
	c := &Catalog{Spells: Chain[combat.Spell]{Spells}}
	if dir == "" {
		c.Weapons = Chain[combat.Weapon]{Weapons}
		c.Monsters = Chain[combat.Monster]{Monsters}
		return c
	}
	c.items = NewExternal(filepath.Join(dir, ItemsFile), DecodeWeapons)
	c.monsters = NewExternal(filepath.Join(dir, MonstersFile), DecodeMonsters)
	c.Weapons = Chain[combat.Weapon]{Weapons, c.items}
	c.Monsters = Chain[combat.Monster]{c.monsters, Monsters}
	return c
}

// EnsureLoaded parses both cache files concurrently.
func (c *Catalog) EnsureLoaded(ctx context.Context) error {
	if c.items == nil {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.items.EnsureLoaded(ctx) })
	g.Go(func() error { return c.monsters.EnsureLoaded(ctx) })
	return g.Wait()
}

func (c *Catalog) Weapon(name string) (combat.Weapon, error) {
	w, ok := c.Weapons.Lookup(name)
	if !ok {
		return combat.Weapon{}, fmt.Errorf("%w %q", ErrUnknownWeapon, name)
	}
	return w, nil
}

func (c *Catalog) Monster(name string) (combat.Monster, error) {
	m, ok := c.Monsters.Lookup(name)
	if !ok {
		return combat.Monster{}, fmt.Errorf("%w %q", ErrUnknownMonster, name)
	}
	return m, nil
}

func (c *Catalog) Spell(name string) (combat.Spell, error) {
	s, ok := c.Spells.Lookup(name)
	if !ok {
		return combat.Spell{}, fmt.Errorf("%w %q", ErrUnknownSpell, name)
	}
	return s, nil
}
