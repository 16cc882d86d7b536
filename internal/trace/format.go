package trace

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format is the encoding of written events.
type Format uint8

const (
	FormatAuto Format = iota
	FormatText
	FormatNDJSON
)

// ParseFormat converts a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

var processStart = time.Now()

// FormatEvent encodes ev as one line.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		data, err := json.Marshal(ev)
		if err != nil {
			return nil
		}
		return append(data, '\n')
	}
	return formatText(ev)
}

var kindMarks = map[Kind]string{
	KindBegin:     "→ ",
	KindEnd:       "← ",
	KindPoint:     "• ",
	KindHeartbeat: "♡ ",
}

// formatText renders
//
//	[elapsed] → name unit entity (detail) counts in 1.2ms
func formatText(ev *Event) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%9.3fms] ", float64(ev.Time.Sub(processStart).Microseconds())/1000)
	if ev.ParentID > 0 {
		sb.WriteString("  ")
	}
	sb.WriteString(kindMarks[ev.Kind])
	sb.WriteString(ev.Name)
	for _, part := range []string{ev.Unit, ev.Entity} {
		if part != "" {
			sb.WriteByte(' ')
			sb.WriteString(part)
		}
	}
	if ev.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(ev.Detail)
		sb.WriteByte(')')
	}
	if ev.Counts != nil && !ev.Counts.IsZero() {
		sb.WriteString(" {")
		sb.WriteString(ev.Counts.String())
		sb.WriteByte('}')
	}
	if ev.Kind == KindEnd {
		fmt.Fprintf(&sb, " in %s", ev.Elapsed.Round(time.Microsecond))
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
