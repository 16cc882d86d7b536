package trace

import (
	"strconv"
	"strings"
	"time"
)

// Kind is the type of a trace event.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	// ScopeRun covers a whole CLI command.
	ScopeRun Scope = iota + 1
	// ScopeStage covers one pipeline stage: load, decode, merge, resolve, filter.
	ScopeStage
	// ScopeUnit covers the work done for one unit file.
	ScopeUnit
	// ScopeEntity covers a single container or alias.
	ScopeEntity
)

func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeStage:
		return "stage"
	case ScopeUnit:
		return "unit"
	case ScopeEntity:
		return "entity"
	default:
		return "unknown"
	}
}

func (s Scope) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Counts are the tallies a span reports when it ends.
type Counts struct {
	Units      int `json:"units,omitempty"`
	Records    int `json:"records,omitempty"`
	Skipped    int `json:"skipped,omitempty"`
	Containers int `json:"containers,omitempty"`
	Members    int `json:"members,omitempty"`
	Aliases    int `json:"aliases,omitempty"`
	Hidden     int `json:"hidden,omitempty"`
}

// IsZero reports whether no tally is set.
func (c Counts) IsZero() bool { return c == Counts{} }

// String renders the non-zero tallies as "key=value" pairs.
func (c Counts) String() string {
	var sb strings.Builder
	add := func(key string, n int) {
		if n == 0 {
			return
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(n))
	}
	add("units", c.Units)
	add("records", c.Records)
	add("skipped", c.Skipped)
	add("containers", c.Containers)
	add("members", c.Members)
	add("aliases", c.Aliases)
	add("hidden", c.Hidden)
	return sb.String()
}

// Event is one trace record. Unit and Entity name what the event is about:
// the unit's display path and the full name of a container or alias.
type Event struct {
	Time     time.Time     `json:"time"`
	Seq      uint64        `json:"seq"`
	Kind     Kind          `json:"kind"`
	Scope    Scope         `json:"scope"`
	SpanID   uint64        `json:"span,omitempty"`
	ParentID uint64        `json:"parent,omitempty"`
	Name     string        `json:"name"`
	Unit     string        `json:"unit,omitempty"`
	Entity   string        `json:"entity,omitempty"`
	Detail   string        `json:"detail,omitempty"`
	Elapsed  time.Duration `json:"elapsed_ns,omitempty"`
	Counts   *Counts       `json:"counts,omitempty"`
}
