package ports

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate(t *testing.T) {
	assert.Equal(t, 1000, Allocate(1000, 0))
	assert.Equal(t, 1001, Allocate(1000, 1))
	assert.Equal(t, 8042, Allocate(8000, 42))
}

func TestPositional_Distinct(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 500} {
		names := make([]string, n)
		for i := range names {
			names[i] = "same"
		}

		got, err := Positional{Base: DefaultBase}.Assign(names)
		require.NoError(t, err)
		require.Len(t, got, n)

		seen := make(map[int]bool)
		for i, p := range got {
			assert.Equal(t, DefaultBase+i, p)
			assert.False(t, seen[p], "port %d assigned twice", p)
			seen[p] = true
		}
	}
}

func TestPositional_OutOfRange(t *testing.T) {
	_, err := Positional{Base: 65535}.Assign([]string{"a", "b"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPortRange))

	_, err = Positional{Base: 0}.Assign([]string{"a"})
	assert.True(t, errors.Is(err, ErrPortRange))
}

func TestStable(t *testing.T) {
	alloc := Stable{Base: DefaultBase, Span: DefaultSpan}

	first, err := alloc.Assign([]string{"logs", "marketing-assets", "images"})
	require.NoError(t, err)

	// Reordering and inserting names does not move existing ports,
	// barring a probe collision, which these names do not hit.
	second, err := alloc.Assign([]string{"images", "new-entity", "logs", "marketing-assets"})
	require.NoError(t, err)

	assert.Equal(t, first[0], second[2])
	assert.Equal(t, first[1], second[3])
	assert.Equal(t, first[2], second[0])

	for _, p := range second {
		assert.GreaterOrEqual(t, p, DefaultBase)
		assert.Less(t, p, DefaultBase+DefaultSpan)
	}
}

func TestStable_DuplicatesProbe(t *testing.T) {
	got, err := Stable{Base: 2000, Span: 4}.Assign([]string{"x", "x", "x", "x"})
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, p := range got {
		assert.False(t, seen[p])
		seen[p] = true
	}
	assert.Len(t, seen, 4)
}

func TestStable_Errors(t *testing.T) {
	names := make([]string, 5)
	for i := range names {
		names[i] = fmt.Sprintf("n%d", i)
	}

	_, err := Stable{Base: 1000, Span: 4}.Assign(names)
	assert.True(t, errors.Is(err, ErrPortRange))

	_, err = Stable{Base: 65000, Span: 1000}.Assign([]string{"a"})
	assert.True(t, errors.Is(err, ErrPortRange))

	_, err = Stable{Base: 1000, Span: 0}.Assign([]string{"a"})
	assert.Error(t, err)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    Strategy
		wantErr bool
	}{
		{"", StrategyPositional, false},
		{"positional", StrategyPositional, false},
		{"Stable", StrategyStable, false},
		{"random", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	a, err := New(StrategyPositional, 1000)
	require.NoError(t, err)
	assert.IsType(t, Positional{}, a)

	a, err = New(StrategyStable, 1000)
	require.NoError(t, err)
	assert.IsType(t, Stable{}, a)

	_, err = New("bogus", 1000)
	assert.Error(t, err)
}
