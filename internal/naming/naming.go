package naming

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ErrNameCollision is wrapped by CollisionError.
var ErrNameCollision = errors.New("sanitized name collision")

// Replacement is substituted for every character outside [a-z0-9-].
const Replacement = '-'

// Sanitize lowercases raw and replaces each character outside [a-z0-9-]
// with a single hyphen. Runs are not collapsed: the result has exactly one
// byte per input rune.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		r = unicode.ToLower(r)
		if isAllowed(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(Replacement)
	}
	return b.String()
}

// SanitizeAll applies Sanitize to every element, preserving order.
func SanitizeAll(raw []string) []string {
	out := make([]string, len(raw))
	for i, s := range raw {
		out[i] = Sanitize(s)
	}
	return out
}

func isAllowed(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
}

// Collision records input positions that sanitize to the same value.
type Collision struct {
	Name    string `json:"name"`
	Indexes []int  `json:"indexes"`
}

func (c Collision) String() string {
	parts := make([]string, len(c.Indexes))
	for i, idx := range c.Indexes {
		parts[i] = fmt.Sprintf("%d", idx)
	}
	return fmt.Sprintf("%q at positions %s", c.Name, strings.Join(parts, ", "))
}

// FindCollisions returns every sanitized value produced more than once,
// ordered by the position of its first occurrence.
func FindCollisions(sanitized []string) []Collision {
	seen := make(map[string][]int, len(sanitized))
	for i, name := range sanitized {
		seen[name] = append(seen[name], i)
	}

	var collisions []Collision
	for name, idx := range seen {
		if len(idx) > 1 {
			collisions = append(collisions, Collision{Name: name, Indexes: idx})
		}
	}
	sort.Slice(collisions, func(i, j int) bool {
		return collisions[i].Indexes[0] < collisions[j].Indexes[0]
	})
	return collisions
}

// CollisionError reports sanitized names that are not unique.
type CollisionError struct {
	Collisions []Collision
}

func (e *CollisionError) Error() string {
	parts := make([]string, len(e.Collisions))
	for i, c := range e.Collisions {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%d sanitized names collide: %s", len(e.Collisions), strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrNameCollision.
func (e *CollisionError) Unwrap() error {
	return ErrNameCollision
}
