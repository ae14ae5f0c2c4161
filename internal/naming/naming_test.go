package naming

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sanitizedGrammar = regexp.MustCompile(`^[a-z0-9-]*$`)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"already valid", "logs-2024", "logs-2024"},
		{"uppercase to lowercase", "LOGS", "logs"},
		{"space replaced", "Marketing Assets", "marketing-assets"},
		{"runs are not collapsed", "Data!!", "data--"},
		{"other punctuation", "Data??", "data--"},
		{"dots replaced", "my.bucket", "my-bucket"},
		{"underscores replaced", "a_b_c", "a-b-c"},
		{"only disallowed chars", "!@#$", "----"},
		{"leading and trailing hyphens kept", "-x-", "-x-"},
		{"multibyte rune becomes one hyphen", "héllo", "h-llo"},
		{"emoji becomes one hyphen", "a🚀b", "a-b"},
		{"uppercase non-ascii", "ÄBC", "-bc"},
		{"tab inside", "a\tb", "a-b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitize_Properties(t *testing.T) {
	inputs := []string{
		"",
		"Marketing Assets",
		"logs-2024",
		"Data!!",
		"UPPER_and.Mix-123",
		"ünïcödé",
		"日本語のバケット",
		strings.Repeat("Ab!", 100),
		"\x00\xff",
		"   spaced   ",
	}

	for _, in := range inputs {
		out := Sanitize(in)
		assert.Regexp(t, sanitizedGrammar, out, "input %q", in)
		assert.Equal(t, utf8.RuneCountInString(in), len(out), "length of %q", in)
		assert.Equal(t, out, Sanitize(out), "idempotence for %q", in)
	}
}

func TestSanitizeAll(t *testing.T) {
	got := SanitizeAll([]string{"Marketing Assets", "logs-2024"})
	assert.Equal(t, []string{"marketing-assets", "logs-2024"}, got)
	assert.Empty(t, SanitizeAll(nil))
}

func TestFindCollisions(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		assert.Empty(t, FindCollisions([]string{"a", "b", "c"}))
	})

	t.Run("pair", func(t *testing.T) {
		got := FindCollisions(SanitizeAll([]string{"Data!!", "Data??"}))
		require.Len(t, got, 1)
		assert.Equal(t, "data--", got[0].Name)
		assert.Equal(t, []int{0, 1}, got[0].Indexes)
	})

	t.Run("ordered by first occurrence", func(t *testing.T) {
		got := FindCollisions([]string{"b", "a", "b", "a", "c", "b"})
		require.Len(t, got, 2)
		assert.Equal(t, "b", got[0].Name)
		assert.Equal(t, []int{0, 2, 5}, got[0].Indexes)
		assert.Equal(t, "a", got[1].Name)
		assert.Equal(t, []int{1, 3}, got[1].Indexes)
	})
}

func TestCollisionError(t *testing.T) {
	var err error = &CollisionError{Collisions: []Collision{{Name: "data--", Indexes: []int{0, 1}}}}

	assert.True(t, errors.Is(err, ErrNameCollision))
	assert.Contains(t, err.Error(), `"data--" at positions 0, 1`)

	var ce *CollisionError
	require.True(t, errors.As(err, &ce))
	assert.Len(t, ce.Collisions, 1)
}
