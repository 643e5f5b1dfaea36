package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadExpr is returned for profile values that are neither an integer nor a
// base-stat reference.
var ErrBadExpr = errors.New("bad value expression")

var refRe = regexp.MustCompile(`^\s*base([A-Za-z]+)(\s*([+\-])\s*(\d+))?\s*$`)

// Ref is a parsed value expression. Stat is empty for a plain integer.
type Ref struct {
	Stat   string
	Offset int
}

// IsStat reports whether the expression refers to a wielder stat.
func (r Ref) IsStat() bool { return r.Stat != "" }

// Parse supports: N, -N, baseX, baseX+K, baseX-K
func Parse(expr string) (Ref, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Ref{}, fmt.Errorf("%w: empty", ErrBadExpr)
	}
	// raw int
	if n, err := strconv.Atoi(expr); err == nil {
		return Ref{Offset: n}, nil
	}
	m := refRe.FindStringSubmatch(expr)
	if m == nil {
		return Ref{}, fmt.Errorf("%w: %q", ErrBadExpr, expr)
	}
	ref := Ref{Stat: m[1]}
	if m[2] != "" {
		k, err := strconv.Atoi(m[4])
		if err != nil {
			return Ref{}, fmt.Errorf("%w: %q", ErrBadExpr, expr)
		}
		if m[3] == "-" {
			k = -k
		}
		ref.Offset = k
	}
	return ref, nil
}

// Format is the inverse of Parse.
func Format(r Ref) string {
	if !r.IsStat() {
		return strconv.Itoa(r.Offset)
	}
	switch {
	case r.Offset > 0:
		return fmt.Sprintf("base%s+%d", r.Stat, r.Offset)
	case r.Offset < 0:
		return fmt.Sprintf("base%s-%d", r.Stat, -r.Offset)
	default:
		return "base" + r.Stat
	}
}
