package game

import (
	"fmt"
	"strings"

	"github.com/pefman/warcry-anvil/internal/models"
)

// None is the explicit "no selection" value of an optional selector.
const None = "None"

// UnnamedFighter is shown when the display name is left blank.
const UnnamedFighter = "Un-named Fighter"

// Selection is the set of choices made in the builder. It doubles as the
// persisted build record. An empty field means "use the default"; None means
// an explicit empty choice.
type Selection struct {
	FighterName          string `json:"fighterName" yaml:"fighterName"`
	FighterType          string `json:"fighterType" yaml:"fighterType"`
	FactionRunemark      string `json:"factionRunemark" yaml:"factionRunemark"`
	Archetype            string `json:"archetype" yaml:"archetype"`
	PrimaryWeapon        string `json:"primaryWeapon" yaml:"primaryWeapon"`
	SecondaryWeapon      string `json:"secondaryWeapon" yaml:"secondaryWeapon"`
	Mount                string `json:"mount" yaml:"mount"`
	Blessing             string `json:"blessing" yaml:"blessing"`
	BlessingTargetWeapon string `json:"blessingTargetWeapon" yaml:"blessingTargetWeapon"`
	Runemark             string `json:"runemark" yaml:"runemark"`
}

func isNone(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), None)
}

// choiceName strips the UI label suffix, "Hand Weapon (One-handed)" -> "Hand Weapon".
func choiceName(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, " ("); i > 0 && strings.HasSuffix(s, ")") {
		return s[:i]
	}
	return s
}

// Profile source kinds.
const (
	SourceUnarmed   = "unarmed"
	SourcePrimary   = "primary"
	SourceSecondary = "secondary"
	SourceArchetype = "archetype"
	SourceMount     = "mount"
)

// UnarmedName is the display name of the synthesized unarmed profile.
const UnarmedName = "Unarmed"

// Profile is a resolved attack profile: every value is concrete.
type Profile struct {
	Name           string `json:"name"`
	Source         string `json:"source"`
	Range          [2]int `json:"range"`
	Attacks        int    `json:"attacks"`
	Strength       int    `json:"strength"`
	Damage         int    `json:"damage"`
	Crit           int    `json:"crit"`
	WeaponRunemark string `json:"weaponRunemark,omitempty"`
	Blessed        bool   `json:"blessed,omitempty"`
}

// IsMelee reports whether the profile can be used in base combat (minimum range 0).
func (p Profile) IsMelee() bool { return p.Range[0] == 0 }

func (p Profile) String() string {
	return fmt.Sprintf("%s: Range %d\"-%d\", Attacks %d, Strength %d, Damage %d/%d (Crit)",
		p.Name, p.Range[0], p.Range[1], p.Attacks, p.Strength, p.Damage, p.Crit)
}

// Options are the legal values of every dependent selector after reconciliation.
type Options struct {
	Fighters              []string `json:"fighters"`
	Factions              []string `json:"factions"`
	FactionRequired       bool     `json:"factionRequired"`
	Archetypes            []string `json:"archetypes"`
	PrimaryWeapons        []string `json:"primaryWeapons"`
	SecondaryWeapons      []string `json:"secondaryWeapons"`
	SecondaryEnabled      bool     `json:"secondaryEnabled"`
	Mounts                []string `json:"mounts"`
	Runemarks             []string `json:"runemarks"`
	Blessings             []string `json:"blessings"`
	BlessingTargets       []string `json:"blessingTargets"`
	BlessingTargetEnabled bool     `json:"blessingTargetEnabled"`
}

// PointItem is one line of the points breakdown.
type PointItem struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type Points struct {
	Items []PointItem `json:"items"`
	Total int         `json:"total"`
}

// Result is the resolved fighter returned to the caller.
type Result struct {
	Name            string           `json:"name"`
	Selection       Selection        `json:"selection"`
	Stats           models.StatBlock `json:"stats"`
	FactionRunemark string           `json:"factionRunemark"`
	Runemarks       []string         `json:"runemarks"`
	Profiles        []Profile        `json:"profiles"`
	BlessingText    string           `json:"blessingText"`
	Points          Points           `json:"points"`
	Messages        []string         `json:"messages"`
	Options         Options          `json:"options"`
}

// Movement, Toughness and Wounds are the headline stats of the fighter card.
func (r Result) Movement() int  { return r.Stats.Get(models.Movement) }
func (r Result) Toughness() int { return r.Stats.Get(models.Toughness) }
func (r Result) Wounds() int    { return r.Stats.Get(models.Wounds) }
