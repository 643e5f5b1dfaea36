// Package catalog is the read-only reference data store: fighters,
// archetypes, weapons, mounts, divine blessings, extra runemarks and rules.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/pefman/warcry-anvil/internal/models"
)

var (
	// ErrMissingFile is returned when a required reference file is absent.
	ErrMissingFile = errors.New("missing reference data file")
	// ErrInvalidData is returned for unparsable or inconsistent reference data.
	ErrInvalidData = errors.New("invalid reference data")
)

// Data is the raw content of the eight reference files.
type Data struct {
	Fighters         []models.Fighter       `json:"fighters"`
	Archetypes       []models.Archetype     `json:"archetypes"`
	PrimaryWeapons   []models.Weapon        `json:"primaryWeapons"`
	SecondaryWeapons []models.Weapon        `json:"secondaryWeapons"`
	Mounts           []models.Mount         `json:"mounts"`
	Blessings        []models.Blessing      `json:"divineBlessings"`
	ExtraRunemarks   []models.ExtraRunemark `json:"extraRunemarks"`
	Rules            models.Rules           `json:"rules"`
}

// Catalog indexes Data by name. It is immutable after New and safe for
// concurrent readers.
type Catalog struct {
	data Data

	fighters   map[string]int
	archetypes map[string]int
	primaries  map[string]int
	secondary  map[string]int
	mounts     map[string]int
	blessings  map[string]int
	runemarks  map[string]int
}

// New validates names and builds the lookup indexes. The slices in d are
// cloned, so later changes by the caller do not leak into the catalog.
func New(d Data) (*Catalog, error) {
	c := &Catalog{
		data: Data{
			Fighters:         slices.Clone(d.Fighters),
			Archetypes:       slices.Clone(d.Archetypes),
			PrimaryWeapons:   slices.Clone(d.PrimaryWeapons),
			SecondaryWeapons: slices.Clone(d.SecondaryWeapons),
			Mounts:           slices.Clone(d.Mounts),
			Blessings:        slices.Clone(d.Blessings),
			ExtraRunemarks:   slices.Clone(d.ExtraRunemarks),
			Rules:            d.Rules.WithDefaults(),
		},
	}

	var err error
	if c.fighters, err = index("fighters", c.data.Fighters, func(f models.Fighter) string { return f.Name }); err != nil {
		return nil, err
	}
	if c.archetypes, err = index("archetypes", c.data.Archetypes, func(a models.Archetype) string { return a.Name }); err != nil {
		return nil, err
	}
	if c.primaries, err = index("primaryWeapons", c.data.PrimaryWeapons, func(w models.Weapon) string { return w.Name }); err != nil {
		return nil, err
	}
	if c.secondary, err = index("secondaryWeapons", c.data.SecondaryWeapons, func(w models.Weapon) string { return w.Name }); err != nil {
		return nil, err
	}
	if c.mounts, err = index("mounts", c.data.Mounts, func(m models.Mount) string { return m.Name }); err != nil {
		return nil, err
	}
	if c.blessings, err = index("divineBlessings", c.data.Blessings, func(b models.Blessing) string { return b.Name }); err != nil {
		return nil, err
	}
	if c.runemarks, err = index("extraRunemarks", c.data.ExtraRunemarks, func(r models.ExtraRunemark) string { return r.Name }); err != nil {
		return nil, err
	}

	for _, w := range c.data.PrimaryWeapons {
		if w.Handedness != models.OneHanded && w.Handedness != models.TwoHanded {
			return nil, fmt.Errorf("%w: primaryWeapons: %q has handedness %q", ErrInvalidData, w.Name, w.Handedness)
		}
	}
	for _, b := range c.data.Blessings {
		if b.NeedsTarget() && b.TargetProfile != models.TargetMelee && b.TargetProfile != models.TargetAny {
			return nil, fmt.Errorf("%w: divineBlessings: %q has target profile %q", ErrInvalidData, b.Name, b.TargetProfile)
		}
	}
	return c, nil
}

func index[T any](collection string, items []T, name func(T) string) (map[string]int, error) {
	idx := make(map[string]int, len(items))
	for i, it := range items {
		n := name(it)
		if n == "" {
			return nil, fmt.Errorf("%w: %s[%d] has no name", ErrInvalidData, collection, i)
		}
		if _, dup := idx[n]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate name %q", ErrInvalidData, collection, n)
		}
		idx[n] = i
	}
	return idx, nil
}

func lookup[T any](items []T, idx map[string]int, name string) (T, bool) {
	i, ok := idx[name]
	if !ok {
		var zero T
		return zero, false
	}
	return items[i], true
}

func (c *Catalog) Fighter(name string) (models.Fighter, bool) {
	return lookup(c.data.Fighters, c.fighters, name)
}

func (c *Catalog) Archetype(name string) (models.Archetype, bool) {
	return lookup(c.data.Archetypes, c.archetypes, name)
}

func (c *Catalog) PrimaryWeapon(name string) (models.Weapon, bool) {
	return lookup(c.data.PrimaryWeapons, c.primaries, name)
}

func (c *Catalog) SecondaryWeapon(name string) (models.Weapon, bool) {
	return lookup(c.data.SecondaryWeapons, c.secondary, name)
}

func (c *Catalog) Mount(name string) (models.Mount, bool) {
	return lookup(c.data.Mounts, c.mounts, name)
}

func (c *Catalog) Blessing(name string) (models.Blessing, bool) {
	return lookup(c.data.Blessings, c.blessings, name)
}

func (c *Catalog) ExtraRunemark(name string) (models.ExtraRunemark, bool) {
	return lookup(c.data.ExtraRunemarks, c.runemarks, name)
}

// Collections return copies in file order.

func (c *Catalog) Fighters() []models.Fighter { return slices.Clone(c.data.Fighters) }

func (c *Catalog) Archetypes() []models.Archetype { return slices.Clone(c.data.Archetypes) }

func (c *Catalog) PrimaryWeapons() []models.Weapon { return slices.Clone(c.data.PrimaryWeapons) }

func (c *Catalog) SecondaryWeapons() []models.Weapon { return slices.Clone(c.data.SecondaryWeapons) }

func (c *Catalog) Mounts() []models.Mount { return slices.Clone(c.data.Mounts) }

func (c *Catalog) Blessings() []models.Blessing { return slices.Clone(c.data.Blessings) }

func (c *Catalog) ExtraRunemarks() []models.ExtraRunemark { return slices.Clone(c.data.ExtraRunemarks) }

func (c *Catalog) Rules() models.Rules { return c.data.Rules }

// Names lists the names of every collection, for populating selectors.
type Names struct {
	Fighters         []string `json:"fighters"`
	Archetypes       []string `json:"archetypes"`
	PrimaryWeapons   []string `json:"primaryWeapons"`
	SecondaryWeapons []string `json:"secondaryWeapons"`
	Mounts           []string `json:"mounts"`
	Blessings        []string `json:"divineBlessings"`
	ExtraRunemarks   []string `json:"extraRunemarks"`
}

func (c *Catalog) Names() Names {
	return Names{
		Fighters:         names(c.data.Fighters, func(f models.Fighter) string { return f.Name }),
		Archetypes:       names(c.data.Archetypes, func(a models.Archetype) string { return a.Name }),
		PrimaryWeapons:   names(c.data.PrimaryWeapons, func(w models.Weapon) string { return w.Name }),
		SecondaryWeapons: names(c.data.SecondaryWeapons, func(w models.Weapon) string { return w.Name }),
		Mounts:           names(c.data.Mounts, func(m models.Mount) string { return m.Name }),
		Blessings:        names(c.data.Blessings, func(b models.Blessing) string { return b.Name }),
		ExtraRunemarks:   names(c.data.ExtraRunemarks, func(r models.ExtraRunemark) string { return r.Name }),
	}
}

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = name(it)
	}
	return out
}

// Snapshot returns a copy of the underlying data.
func (c *Catalog) Snapshot() Data {
	return Data{
		Fighters:         c.Fighters(),
		Archetypes:       c.Archetypes(),
		PrimaryWeapons:   c.PrimaryWeapons(),
		SecondaryWeapons: c.SecondaryWeapons(),
		Mounts:           c.Mounts(),
		Blessings:        c.Blessings(),
		ExtraRunemarks:   c.ExtraRunemarks(),
		Rules:            c.Rules(),
	}
}
