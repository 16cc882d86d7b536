package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultRingSize is the number of events a ring keeps when not configured.
const DefaultRingSize = 4096

// Tracer receives events. Emit must be safe for concurrent use: decode
// workers trace their units in parallel.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	Close() error
}

// Mode selects where events go.
type Mode uint8

const (
	ModeStream Mode = iota + 1 // written as they happen
	ModeRing                   // kept in memory, dumped on failure
	ModeBoth
)

var modeNames = map[string]Mode{"stream": ModeStream, "ring": ModeRing, "both": ModeBoth}

func (m Mode) String() string {
	for name, v := range modeNames {
		if v == m {
			return name
		}
	}
	return "unknown"
}

// ParseMode converts a --trace-mode value.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return ModeRing, fmt.Errorf("invalid trace mode: %q (expected: stream|ring|both)", s)
}

// Config is built from the --trace* flags.
type Config struct {
	Level Level
	Mode  Mode
	// Format defaults to NDJSON for .ndjson and .jsonl outputs, text otherwise.
	Format Format
	// Output overrides Path when set.
	Output io.Writer
	// Path is the stream destination; "" or "-" means stderr.
	Path     string
	RingSize int
}

// New builds the tracer described by cfg. LevelError always uses a ring:
// there is nothing to stream until something fails.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	mode := cfg.Mode
	if cfg.Level == LevelError {
		mode = ModeRing
	}
	if mode == ModeRing {
		return NewRing(cfg.RingSize, cfg.Level), nil
	}
	if mode != ModeStream && mode != ModeBoth {
		return nil, fmt.Errorf("unknown trace mode %v", cfg.Mode)
	}

	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		switch filepath.Ext(cfg.Path) {
		case ".ndjson", ".jsonl":
			format = FormatNDJSON
		}
	}
	w, err := cfg.output()
	if err != nil {
		return nil, err
	}
	stream := NewStream(w, cfg.Level, format)
	if mode == ModeStream {
		return stream, nil
	}
	return tee{stream: stream, ring: NewRing(cfg.RingSize, cfg.Level)}, nil
}

func (cfg Config) output() (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.Path == "" || cfg.Path == "-" {
		return stderr{}, nil
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}

// stderr is os.Stderr without a Close method.
type stderr struct{}

func (stderr) Write(p []byte) (int, error) { return os.Stderr.Write(p) }
