package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Stat identifies one entry of a fighter's characteristic line.
type Stat int

const (
	Movement Stat = iota
	Toughness
	Wounds
	Reach
	Attacks
	Strength
	Damage
	Crit

	numStats
)

// AllStats lists every stat in display order.
var AllStats = [numStats]Stat{Movement, Toughness, Wounds, Reach, Attacks, Strength, Damage, Crit}

// statCodes are the short keys used by the reference data (fighters.json).
var statCodes = [numStats]string{"Mv", "T", "W", "R", "A", "S", "D", "C"}

var statNames = [numStats]string{"Movement", "Toughness", "Wounds", "Reach", "Attacks", "Strength", "Damage", "Crit"}

// Code returns the short data key, e.g. "Mv".
func (s Stat) Code() string {
	if s < 0 || s >= numStats {
		return "?"
	}
	return statCodes[s]
}

func (s Stat) String() string {
	if s < 0 || s >= numStats {
		return "Stat(" + strconv.Itoa(int(s)) + ")"
	}
	return statNames[s]
}

// ParseStat accepts a short code ("Mv"), a full name ("Movement") or the
// singular spellings used in effect keys ("attack"). Case-insensitive.
func ParseStat(name string) (Stat, bool) {
	name = strings.TrimSpace(name)
	for i := range numStats {
		if strings.EqualFold(name, statCodes[i]) || strings.EqualFold(name, statNames[i]) {
			return Stat(i), true
		}
	}
	switch strings.ToLower(name) {
	case "move":
		return Movement, true
	case "wound":
		return Wounds, true
	case "attack":
		return Attacks, true
	case "range":
		return Reach, true
	}
	return 0, false
}

// StatBlock is a full characteristic line. It is an array so that plain
// assignment copies it; a working block never aliases reference data.
type StatBlock [numStats]int

func (b StatBlock) Get(s Stat) int { return b[s] }

func (b *StatBlock) Set(s Stat, v int) { b[s] = v }

func (b *StatBlock) Add(s Stat, n int) { b[s] += n }

// Raise lifts s to at least floor. It never lowers a stat.
func (b *StatBlock) Raise(s Stat, floor int) {
	if b[s] < floor {
		b[s] = floor
	}
}

// Cap lowers s to at most ceil.
func (b *StatBlock) Cap(s Stat, ceil int) {
	if b[s] > ceil {
		b[s] = ceil
	}
}

// MarshalJSON writes the block as an object keyed by short code, in display order.
func (b StatBlock) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range AllStats {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", s.Code(), b[s])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *StatBlock) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = StatBlock{}
	for k, v := range raw {
		if s, ok := ParseStat(k); ok {
			b[s] = v
		}
	}
	return nil
}
