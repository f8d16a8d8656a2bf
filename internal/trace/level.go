package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // per-file events kept in memory, dumped on tool failures
	LevelPhase               // driver + pass boundaries
	LevelDetail              // + per-file events
	LevelDebug               // + per-rule events
)

var levels = [...]struct {
	name    string
	ceiling Scope // finest scope recorded, 0 for none
}{
	LevelOff:    {"off", 0},
	LevelError:  {"error", ScopeFile}, // как detail, но только в кольцевой буфер
	LevelPhase:  {"phase", ScopePass},
	LevelDetail: {"detail", ScopeFile},
	LevelDebug:  {"debug", ScopeRule},
}

func (l Level) String() string {
	if int(l) < len(levels) {
		return levels[l].name
	}
	return "unknown"
}

// ParseLevel reads a --trace-level value, ignoring case.
func ParseLevel(s string) (Level, error) {
	for l, info := range levels {
		if strings.EqualFold(s, info.name) {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether events of scope are recorded at l.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(levels) && scope <= levels[l].ceiling
}
