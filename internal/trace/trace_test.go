package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelAdmits(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeRun, false},
		{LevelError, ScopeStage, true},
		{LevelError, ScopeUnit, false},
		{LevelStage, ScopeStage, true},
		{LevelStage, ScopeUnit, false},
		{LevelUnit, ScopeUnit, true},
		{LevelUnit, ScopeEntity, false},
		{LevelEntity, ScopeEntity, true},
	}
	for _, tt := range tests {
		if got := tt.level.Admits(tt.scope); got != tt.want {
			t.Errorf("%s.Admits(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if l, err := ParseLevel("UNIT"); err != nil || l != LevelUnit {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth || m.String() != "both" {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
}

func TestStreamWritesStageAndUnitSpans(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStream(&buf, LevelUnit, FormatText))

	stage, ctx := Start(ctx, ScopeStage, "decode")
	unit, uctx := StartUnit(ctx, "decode", "core.jsonl")
	RecorderFrom(uctx).Entity("declare", "Outer::Inner", "class")
	unit.Count(Counts{Records: 12, Containers: 2}).End("")
	RecorderFrom(ctx).Unit("merged", "core.jsonl", "")
	stage.Count(Counts{Units: 1}).End("1 units")

	out := buf.String()
	for _, want := range []string{
		"→ decode core.jsonl",
		"← decode core.jsonl {records=12 containers=2} in ",
		"• merged core.jsonl",
		"← decode (1 units) {units=1}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Outer::Inner") {
		t.Errorf("entity event leaked at unit level:\n%s", out)
	}
}

func TestNDJSONCarriesUnitAndCounts(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStream(&buf, LevelEntity, FormatNDJSON))
	sp, ctx := StartUnit(ctx, "decode", "a.jsonl")
	RecorderFrom(ctx).Entity("alias", "N1::A1", "N1::N2")
	sp.Count(Counts{Records: 3}).End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 events, got %d:\n%s", len(lines), buf.String())
	}
	var point, end struct {
		Kind   string
		Scope  string
		Parent uint64
		Unit   string
		Entity string
		Counts map[string]int
	}
	if err := json.Unmarshal([]byte(lines[1]), &point); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if point.Kind != "point" || point.Scope != "entity" || point.Entity != "N1::A1" || point.Parent != sp.ID() {
		t.Fatalf("unexpected entity event %+v", point)
	}
	if err := json.Unmarshal([]byte(lines[2]), &end); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if end.Kind != "end" || end.Unit != "a.jsonl" || end.Counts["records"] != 3 {
		t.Fatalf("unexpected end event %+v", end)
	}
}

func TestRingKeepsNewestEvents(t *testing.T) {
	ring := NewRing(2, LevelUnit)
	rec := Recorder{t: ring}
	for _, name := range []string{"a.jsonl", "b.jsonl", "c.jsonl"} {
		rec.Unit("merged", name, "")
	}
	got := ring.Events()
	if len(got) != 2 || got[0].Unit != "b.jsonl" || got[1].Unit != "c.jsonl" {
		t.Fatalf("unexpected events %+v", got)
	}

	both, err := New(Config{Level: LevelStage, Mode: ModeBoth, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := RingOf(both); !ok {
		t.Fatalf("ring mode both has no ring")
	}
	errOnly, err := New(Config{Level: LevelError, Mode: ModeStream})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := RingOf(errOnly); !ok {
		t.Fatalf("error level must buffer in a ring")
	}
}

func TestHeartbeatListsOpenUnits(t *testing.T) {
	ctx := WithTracer(context.Background(), NewRing(16, LevelUnit))
	a, _ := StartUnit(ctx, "decode", "a.jsonl")
	b, _ := StartUnit(ctx, "decode", "b.jsonl")
	b.End("")

	ev := beatEvent(3, open.list())
	if ev.Detail != "#3 open: a.jsonl" || ev.Counts.Units != 1 {
		t.Fatalf("unexpected heartbeat %+v", ev)
	}
	a.End("")
	if ev := beatEvent(4, open.list()); ev.Detail != "#4 idle" {
		t.Fatalf("unexpected heartbeat %+v", ev)
	}
	many := beatEvent(1, []string{"a", "b", "c", "d", "e", "f"})
	if many.Detail != "#1 open: a, b, c, d, +2 more" {
		t.Fatalf("unexpected heartbeat %q", many.Detail)
	}
}

func TestDisabledTracingCreatesNoSpans(t *testing.T) {
	sp, ctx := Start(context.Background(), ScopeStage, "x")
	if sp != nil || sp.ID() != 0 || parentOf(ctx) != 0 {
		t.Fatalf("disabled tracer must not create spans")
	}
	sp.Count(Counts{Units: 1}).End("")
	RecorderFrom(ctx).Entity("declare", "X", "")
	var zero Recorder
	zero.Unit("merged", "a.jsonl", "")
}
