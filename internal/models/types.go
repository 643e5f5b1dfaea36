package models

import (
	"encoding/json"
	"slices"
	"strings"
)

// ========================= Reference Models =========================
// Shapes of the eight reference data files. Values are immutable templates:
// the resolution engine copies what it needs and never writes back.

// Handedness of a primary weapon.
type Handedness string

const (
	OneHanded Handedness = "one"
	TwoHanded Handedness = "two"
)

// Label is the UI form, e.g. "One-handed".
func (h Handedness) Label() string {
	if h == "" {
		return ""
	}
	s := string(h)
	return strings.ToUpper(s[:1]) + s[1:] + "-handed"
}

// TargetClass selects which profiles a targeted blessing may enhance.
type TargetClass string

const (
	TargetMelee TargetClass = "melee"
	TargetAny   TargetClass = "any"
)

// ProfileTemplate is an unresolved attack profile. Range is [min, max].
type ProfileTemplate struct {
	Name           string   `json:"name,omitempty"`
	Range          [2]Value `json:"range"`
	Attacks        Value    `json:"attacks"`
	Strength       Value    `json:"strength"`
	Damage         Value    `json:"damage"`
	Crit           Value    `json:"crit"`
	WeaponRunemark string   `json:"weaponRunemark,omitempty"`
}

type Fighter struct {
	Name             string    `json:"name"`
	Points           int       `json:"points"`
	Stats            StatBlock `json:"-"`
	Runemarks        []string  `json:"runemarks"`
	FactionRunemarks []string  `json:"factionRunemarks"`
}

type fighterJSON struct {
	Name             string   `json:"name"`
	Points           int      `json:"points"`
	Mv               int      `json:"Mv"`
	T                int      `json:"T"`
	W                int      `json:"W"`
	R                int      `json:"R"`
	A                int      `json:"A"`
	S                int      `json:"S"`
	D                int      `json:"D"`
	C                int      `json:"C"`
	Runemarks        []string `json:"runemarks"`
	FactionRunemarks []string `json:"factionRunemarks"`
}

// UnmarshalJSON reads the flat stat keys (Mv, T, W, ...) of fighters.json.
func (f *Fighter) UnmarshalJSON(data []byte) error {
	var raw fighterJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Fighter{
		Name:             raw.Name,
		Points:           raw.Points,
		Stats:            StatBlock{raw.Mv, raw.T, raw.W, raw.R, raw.A, raw.S, raw.D, raw.C},
		Runemarks:        raw.Runemarks,
		FactionRunemarks: raw.FactionRunemarks,
	}
	return nil
}

func (f Fighter) MarshalJSON() ([]byte, error) {
	s := f.Stats
	return json.Marshal(fighterJSON{
		Name: f.Name, Points: f.Points,
		Mv: s[Movement], T: s[Toughness], W: s[Wounds], R: s[Reach],
		A: s[Attacks], S: s[Strength], D: s[Damage], C: s[Crit],
		Runemarks: f.Runemarks, FactionRunemarks: f.FactionRunemarks,
	})
}

// ArchetypeRestrictions. A nil value restricts nothing.
type ArchetypeRestrictions struct {
	ForbiddenFighters        []string `json:"forbiddenFighters,omitempty"`
	ForbiddenFactions        []string `json:"forbiddenFactions,omitempty"`
	MustUseOneHandedPrimary  bool     `json:"mustUseOneHandedPrimary,omitempty"`
	ForbidSecondaryEquipment bool     `json:"forbidSecondaryEquipment,omitempty"`
}

func (r *ArchetypeRestrictions) ForbidsFighter(name string) bool {
	return r != nil && slices.Contains(r.ForbiddenFighters, name)
}

func (r *ArchetypeRestrictions) ForbidsFaction(faction string) bool {
	return r != nil && faction != "" && slices.Contains(r.ForbiddenFactions, faction)
}

func (r *ArchetypeRestrictions) OneHandedOnly() bool {
	return r != nil && r.MustUseOneHandedPrimary
}

func (r *ArchetypeRestrictions) NoSecondary() bool {
	return r != nil && r.ForbidSecondaryEquipment
}

type Archetype struct {
	Name           string                 `json:"name"`
	Points         int                    `json:"points"`
	FighterEffects StatEffects            `json:"fighterEffects"`
	RunemarksAdded []string               `json:"runemarksAdded,omitempty"`
	Restrictions   *ArchetypeRestrictions `json:"restrictions,omitempty"`
	Profile        *ProfileTemplate       `json:"profile,omitempty"`
}

// Weapon is a primary or secondary weapon. Handedness is empty for secondaries.
type Weapon struct {
	Name           string           `json:"name"`
	Points         int              `json:"points"`
	Handedness     Handedness       `json:"handedness,omitempty"`
	Profile        *ProfileTemplate `json:"profile,omitempty"`
	Effects        ProfileEffects   `json:"effects"`
	FighterEffects StatEffects      `json:"fighterEffects"`
}

func (w Weapon) IsOneHanded() bool { return w.Handedness == OneHanded }

// Label is the primary selector form, e.g. "Hand Weapon (One-handed)".
func (w Weapon) Label() string {
	if w.Handedness == "" {
		return w.Name
	}
	return w.Name + " (" + w.Handedness.Label() + ")"
}

// MountRestrictions. A nil value restricts nothing.
type MountRestrictions struct {
	ForbiddenFighters    []string `json:"forbiddenFighters,omitempty"`
	MaxMovement          int      `json:"maxMovement,omitempty"` // 0 means uncapped
	NoMountedRunemarkFor []string `json:"noMountedRunemarkFor,omitempty"`
}

func (r *MountRestrictions) ForbidsFighter(name string) bool {
	return r != nil && slices.Contains(r.ForbiddenFighters, name)
}

// CapMovement applies the mount's movement ceiling, if any.
func (r *MountRestrictions) CapMovement(b *StatBlock) {
	if r != nil && r.MaxMovement > 0 {
		b.Cap(Movement, r.MaxMovement)
	}
}

func (r *MountRestrictions) GrantsMountedTo(fighter string) bool {
	return r == nil || !slices.Contains(r.NoMountedRunemarkFor, fighter)
}

// MountedRunemark is withheld from fighters listed in NoMountedRunemarkFor.
const MountedRunemark = "Mounted"

type Mount struct {
	Name           string             `json:"name"`
	Points         int                `json:"points"`
	FighterEffects StatEffects        `json:"fighterEffects"`
	Restrictions   *MountRestrictions `json:"restrictions,omitempty"`
	RunemarksAdded []string           `json:"runemarksAdded,omitempty"`
	Profile        *ProfileTemplate   `json:"profile,omitempty"`
}

type Blessing struct {
	Name           string          `json:"name"`
	PointsLow      int             `json:"pointsLow"`
	PointsHigh     int             `json:"pointsHigh"`
	FighterEffects StatEffects     `json:"fighterEffects"`
	WeaponEffect   *ProfileEffects `json:"weaponEffect,omitempty"`
	TargetProfile  TargetClass     `json:"targetProfile,omitempty"`
	Targetable     bool            `json:"targetable,omitempty"`
	Description    string          `json:"description,omitempty"`
	SpecialEffect  string          `json:"specialEffect,omitempty"`
}

// NeedsTarget reports whether the blessing carries a weapon effect that must
// be assigned to one attack profile.
func (b Blessing) NeedsTarget() bool {
	return b.Targetable && b.WeaponEffect != nil
}

// Text is the display text: description, else special effect, else name.
func (b Blessing) Text() string {
	switch {
	case b.Description != "":
		return b.Description
	case b.SpecialEffect != "":
		return b.SpecialEffect
	default:
		return b.Name
	}
}

type RunemarkRestrictions struct {
	CannotBeMounted bool `json:"cannotBeMounted,omitempty"`
}

func (r *RunemarkRestrictions) ForbidsMounted() bool {
	return r != nil && r.CannotBeMounted
}

type ExtraRunemark struct {
	Name         string                `json:"name"`
	Points       int                   `json:"points"`
	Restrictions *RunemarkRestrictions `json:"restrictions,omitempty"`
}

type MinimumValues struct {
	Attacks int `json:"attacks"`
	Damage  int `json:"damage"`
	Crit    int `json:"crit"`
}

type UnarmedPenalties struct {
	AttackPenalty int           `json:"attackPenalty"`
	DamagePenalty int           `json:"damagePenalty"`
	CritPenalty   int           `json:"critPenalty"`
	MinimumValues MinimumValues `json:"minimumValues"`
}

// Rules are the global constants from rules.json.
type Rules struct {
	MaxRunemarks            int              `json:"maxRunemarks"`
	MaxAttackActions        int              `json:"maxAttackActions"`
	UnarmedPenalties        UnarmedPenalties `json:"unarmedPenalties"`
	DefaultArchetype        string           `json:"defaultArchetype,omitempty"`
	DefaultPrimaryWeapon    string           `json:"defaultPrimaryWeapon,omitempty"`
	BlessingWoundsThreshold int              `json:"blessingWoundsThreshold,omitempty"`
	MeleeMaxRange           int              `json:"meleeMaxRange,omitempty"`
}

const (
	DefaultArchetype        = "Commander"
	DefaultPrimaryWeapon    = "Hand Weapon"
	BlessingWoundsThreshold = 23
	MeleeMaxRange           = 3
)

// WithDefaults fills the optional rule fields that the data may omit.
func (r Rules) WithDefaults() Rules {
	if r.DefaultArchetype == "" {
		r.DefaultArchetype = DefaultArchetype
	}
	if r.DefaultPrimaryWeapon == "" {
		r.DefaultPrimaryWeapon = DefaultPrimaryWeapon
	}
	if r.BlessingWoundsThreshold == 0 {
		r.BlessingWoundsThreshold = BlessingWoundsThreshold
	}
	if r.MeleeMaxRange == 0 {
		r.MeleeMaxRange = MeleeMaxRange
	}
	return r
}
