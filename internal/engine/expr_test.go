package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want Ref
	}{
		{"3", Ref{Offset: 3}},
		{"-1", Ref{Offset: -1}},
		{"baseAttacks", Ref{Stat: "Attacks"}},
		{" baseReach ", Ref{Stat: "Reach"}},
		{"baseReach+2", Ref{Stat: "Reach", Offset: 2}},
		{"baseDamage - 1", Ref{Stat: "Damage", Offset: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{"", "D6", "base", "baseAttacks*2", "attacks"} {
		_, err := Parse(expr)
		assert.ErrorIs(t, err, ErrBadExpr, "Parse(%q)", expr)
	}
}

func TestFormatInvertsParse(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{"4", "-2", "baseCrit", "baseReach+1", "baseAttacks-1"} {
		ref, err := Parse(expr)
		require.NoError(t, err)
		assert.Equal(t, expr, Format(ref))
	}
}
