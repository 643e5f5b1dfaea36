package models

import (
	"encoding/json"
	"fmt"

	"github.com/pefman/warcry-anvil/internal/engine"
)

// Value is a profile template entry: either a fixed number or a reference to
// the wielder's working stat (plus an optional offset).
type Value struct {
	derived bool
	stat    Stat
	n       int
}

func Fixed(n int) Value { return Value{n: n} }

func DerivedFrom(s Stat) Value { return Value{derived: true, stat: s} }

// Plus returns v shifted by n.
func (v Value) Plus(n int) Value {
	v.n += n
	return v
}

func (v Value) IsDerived() bool { return v.derived }

// Stat returns the referenced stat; ok is false for fixed values.
func (v Value) Stat() (s Stat, ok bool) { return v.stat, v.derived }

// Resolve substitutes the working stat block into a derived value.
func (v Value) Resolve(b StatBlock) int {
	if v.derived {
		return b.Get(v.stat) + v.n
	}
	return v.n
}

func (v Value) String() string {
	if !v.derived {
		return engine.Format(engine.Ref{Offset: v.n})
	}
	return engine.Format(engine.Ref{Stat: v.stat.String(), Offset: v.n})
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.derived {
		return json.Marshal(v.n)
	}
	return json.Marshal(v.String())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Fixed(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("profile value %s: want number or base-stat string", data)
	}
	ref, err := engine.Parse(s)
	if err != nil {
		return err
	}
	if !ref.IsStat() {
		*v = Fixed(ref.Offset)
		return nil
	}
	stat, ok := ParseStat(ref.Stat)
	if !ok {
		return fmt.Errorf("%w: unknown stat in %q", engine.ErrBadExpr, s)
	}
	*v = DerivedFrom(stat).Plus(ref.Offset)
	return nil
}
