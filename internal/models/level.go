package models

import (
	"strconv"
	"strings"
)

// Level controls minification aggressiveness. Each level includes every
// effect of the levels below it.
type Level int

const (
	// Level1 strips trailing whitespace and collapses runs of blank lines.
	Level1 Level = 1
	// Level2 drops blank lines.
	Level2 Level = 2
	// Level3 removes comments and indentation and enables conservative engines.
	Level3 Level = 3
	// Level4 enables aggressive engine settings and the aggressive fallback collapse.
	Level4 Level = 4

	DefaultLevel = Level4
)

// NormalizeLevel maps any integer onto a valid level; out-of-range values
// become DefaultLevel.
func NormalizeLevel(n int) Level {
	if n < int(Level1) || n > int(Level4) {
		return DefaultLevel
	}
	return Level(n)
}

// ParseLevel parses a level from text, defaulting to DefaultLevel.
func ParseLevel(s string) Level {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultLevel
	}
	return NormalizeLevel(n)
}

// IsValid reports whether l is within 1..4.
func (l Level) IsValid() bool {
	return l >= Level1 && l <= Level4
}

// UsesEngine reports whether engine-backed adapters may be consulted at l.
func (l Level) UsesEngine() bool {
	return l >= Level3
}

// Aggressive reports whether l is the maximal level.
func (l Level) Aggressive() bool {
	return l == Level4
}
