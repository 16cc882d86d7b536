package trace

import (
	"fmt"
	"strings"
)

// Level controls how fine-grained the recorded events are.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // ring only, dumped when a command fails
	LevelStage        // run and stage boundaries
	LevelUnit         // plus one span per unit file
	LevelEntity       // plus declarations, merges and aliases by full name
)

var levelNames = [...]string{"off", "error", "stage", "unit", "entity"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a --trace-level value.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// Admits reports whether events of scope are recorded at this level.
// LevelError keeps stage events so a failure dump has some context.
func (l Level) Admits(scope Scope) bool {
	switch l {
	case LevelOff:
		return false
	case LevelError, LevelStage:
		return scope <= ScopeStage
	case LevelUnit:
		return scope <= ScopeUnit
	default:
		return true
	}
}
