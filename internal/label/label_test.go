package label

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel_ZeroValueIsUnknown(t *testing.T) {
	var l Label
	assert.Equal(t, Unknown, l)
	assert.False(t, l.IsDetermined())
	assert.False(t, l.IsZero())
}

func TestLabel_Predicates(t *testing.T) {
	assert.True(t, Zero.IsZero())
	assert.True(t, Zero.IsDetermined())
	assert.False(t, Unit.IsZero())
	assert.True(t, Unit.IsDetermined())

	n, ok := Value(3).Rank()
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = Unknown.Rank()
	assert.False(t, ok)
}

func TestLabel_ValuePanicsOnNegativeRank(t *testing.T) {
	assert.Panics(t, func() { Value(-1) })
}

func TestLabel_Combine(t *testing.T) {
	tests := []struct {
		name string
		a, b Label
		want Label
	}{
		{"unit times unit", Unit, Unit, Unit},
		{"ranks multiply", Value(2), Value(3), Value(6)},
		{"zero absorbs value", Zero, Value(4), Zero},
		{"zero absorbs unknown left", Zero, Unknown, Zero},
		{"zero absorbs unknown right", Unknown, Zero, Zero},
		{"unknown with unit", Unknown, Unit, Unknown},
		{"unknown with unknown", Unknown, Unknown, Unknown},
		{"largest rank times unit", Value(MaxRank), Unit, Value(MaxRank)},
		{"overflow is unknown", Value(math.MaxInt/2 + 1), Value(2), Unknown},
		{"overflow both huge", Value(math.MaxInt), Value(math.MaxInt), Unknown},
		{"huge times unit", Value(math.MaxInt), Unit, Value(math.MaxInt)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Combine(tt.b))
		})
	}
}

func TestLabel_Display(t *testing.T) {
	assert.Equal(t, "Z", Unit.Display())
	assert.Equal(t, "0", Zero.Display())
	assert.Equal(t, "?", Unknown.Display())
	assert.Equal(t, "Z^2", Value(2).Display())
	assert.Equal(t, "Z", Unit.String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Label
	}{
		{"Z", Unit},
		{"0", Zero},
		{"?", Unknown},
		{"", Unknown},
		{" Z ", Unit},
		{"Z^3", Value(3)},
		{"2", Value(2)},
		{"1", Unit},
		{"Z^2147483647", Value(MaxRank)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tooBig := strconv.FormatInt(int64(MaxRank)+1, 10)
	for _, in := range []string{"Q", "-1", "Z^", "Z^x", "1.5", "Z^" + tooBig, tooBig, "Z^4294967296"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, in, pe.Text)
		})
	}
}

func TestParseList(t *testing.T) {
	got, err := ParseList("Z,0,?,Z")
	require.NoError(t, err)
	assert.Equal(t, []Label{Unit, Zero, Unknown, Unit}, got)

	empty, err := ParseList("  ")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseList("Z,nope")
	require.Error(t, err)
}

func TestSymbols(t *testing.T) {
	assert.Equal(t, []string{"Z", "0", "?"}, Symbols([]Label{Unit, Zero, Unknown}))
}
