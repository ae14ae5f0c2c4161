// Package ports assigns a unique container port to every entity of a run.
package ports

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

// ErrPortRange is returned when an assigned port is not a valid TCP port.
var ErrPortRange = errors.New("port out of range")

// DefaultBase is the first port handed out.
const DefaultBase = 1000

// DefaultSpan is the size of the window the stable strategy hashes into.
const DefaultSpan = 10000

// Strategy names an allocation strategy.
type Strategy string

const (
	// StrategyPositional offsets the base port by input position.
	StrategyPositional Strategy = "positional"
	// StrategyStable derives the port from a hash of the name.
	StrategyStable Strategy = "stable"
)

// ParseStrategy converts a flag or config value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyPositional:
		return StrategyPositional, nil
	case StrategyStable:
		return StrategyStable, nil
	default:
		return "", fmt.Errorf("unknown port strategy %q (use %q or %q)", s, StrategyPositional, StrategyStable)
	}
}

// Allocate returns base + index.
func Allocate(base, index int) int {
	return base + index
}

// Allocator assigns one port per name. The result has the same length and
// order as names, and its values are pairwise distinct.
type Allocator interface {
	Assign(names []string) ([]int, error)
}

// New returns the allocator for strategy.
func New(strategy Strategy, base int) (Allocator, error) {
	switch strategy {
	case "", StrategyPositional:
		return Positional{Base: base}, nil
	case StrategyStable:
		return Stable{Base: base, Span: DefaultSpan}, nil
	default:
		return nil, fmt.Errorf("unknown port strategy %q", strategy)
	}
}

// Positional assigns Base, Base+1, ... in input order. Inserting or
// reordering names shifts the ports of every entity after the change.
type Positional struct {
	Base int
}

// Assign implements Allocator.
func (p Positional) Assign(names []string) ([]int, error) {
	out := make([]int, len(names))
	for i := range names {
		port := Allocate(p.Base, i)
		if err := checkPort(port); err != nil {
			return nil, fmt.Errorf("entity %d (%s): %w", i, names[i], err)
		}
		out[i] = port
	}
	return out, nil
}

// Stable hashes each name into [Base, Base+Span) and probes linearly on
// conflict, so a name keeps its port across runs unless another name took
// the slot first.
type Stable struct {
	Base int
	Span int
}

// Assign implements Allocator.
func (s Stable) Assign(names []string) ([]int, error) {
	if s.Span <= 0 {
		return nil, fmt.Errorf("stable allocator span must be positive, got %d", s.Span)
	}
	if len(names) > s.Span {
		return nil, fmt.Errorf("%w: %d names do not fit in a span of %d ports", ErrPortRange, len(names), s.Span)
	}
	if err := checkPort(s.Base); err != nil {
		return nil, err
	}
	if err := checkPort(s.Base + s.Span - 1); err != nil {
		return nil, err
	}

	used := make(map[int]bool, len(names))
	out := make([]int, len(names))
	for i, name := range names {
		slot := int(hash(name) % uint32(s.Span))
		for used[slot] {
			slot = (slot + 1) % s.Span
		}
		used[slot] = true
		out[i] = s.Base + slot
	}
	return out, nil
}

func hash(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}

func checkPort(port int) error {
	if problems := validation.IsValidPortNum(port); len(problems) > 0 {
		return fmt.Errorf("%w: %d: %s", ErrPortRange, port, strings.Join(problems, ", "))
	}
	return nil
}
