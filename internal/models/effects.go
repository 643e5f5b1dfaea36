package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatEffects is a "fighterEffects" section: flat per-stat bonuses, per-stat
// minimums and fighter-level flags. The zero value has no effect.
type StatEffects struct {
	Bonus   StatBlock
	Minimum StatBlock // 0 means no minimum
	// TreatAsUnarmedInMelee marks a weapon that forfeits normal melee capability.
	TreatAsUnarmedInMelee bool
}

// ApplyTo adds bonuses first, then raises stats to their minimums.
func (e StatEffects) ApplyTo(b *StatBlock) {
	for _, s := range AllStats {
		b.Add(s, e.Bonus.Get(s))
	}
	for _, s := range AllStats {
		if floor := e.Minimum.Get(s); floor > 0 {
			b.Raise(s, floor)
		}
	}
}

func (e StatEffects) IsZero() bool {
	return e == StatEffects{}
}

// UnmarshalJSON reads keys of the form "<stat>Bonus", "<stat>Min" and
// "melee<Stat>Min". Unknown keys are ignored.
func (e *StatEffects) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = StatEffects{}
	for key, val := range raw {
		if key == "treatAsUnarmedInMelee" {
			if err := json.Unmarshal(val, &e.TreatAsUnarmedInMelee); err != nil {
				return fmt.Errorf("fighterEffects.%s: %w", key, err)
			}
			continue
		}
		var target *StatBlock
		var name string
		switch {
		case strings.HasSuffix(key, "Bonus"):
			target, name = &e.Bonus, strings.TrimSuffix(key, "Bonus")
		case strings.HasSuffix(key, "Min"):
			target, name = &e.Minimum, strings.TrimPrefix(strings.TrimSuffix(key, "Min"), "melee")
		default:
			continue
		}
		stat, ok := ParseStat(name)
		if !ok {
			continue
		}
		var n int
		if err := json.Unmarshal(val, &n); err != nil {
			return fmt.Errorf("fighterEffects.%s: %w", key, err)
		}
		target.Add(stat, n)
	}
	return nil
}

func (e StatEffects) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	for _, s := range AllStats {
		key := strings.ToLower(s.String()[:1]) + s.String()[1:]
		if n := e.Bonus.Get(s); n != 0 {
			out[key+"Bonus"] = n
		}
		if n := e.Minimum.Get(s); n != 0 {
			out[key+"Min"] = n
		}
	}
	if e.TreatAsUnarmedInMelee {
		out["treatAsUnarmedInMelee"] = true
	}
	return json.Marshal(out)
}

// ProfileEffects are numeric adjustments to a resolved attack profile.
type ProfileEffects struct {
	RangeBonus    int `json:"rangeBonus,omitempty"`
	AttackBonus   int `json:"attackBonus,omitempty"`
	StrengthBonus int `json:"strengthBonus,omitempty"`
	DamageBonus   int `json:"damageBonus,omitempty"`
	CritBonus     int `json:"critBonus,omitempty"`
}

func (e ProfileEffects) IsZero() bool {
	return e == ProfileEffects{}
}
