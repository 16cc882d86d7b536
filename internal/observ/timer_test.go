package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("decode")
	tm.End(idx, "3 units")
	if err := tm.Time("merge", func() (string, error) { return "", errors.New("conflict") }); err == nil {
		t.Fatalf("expected error to propagate")
	}

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Note != "3 units" || report.Phases[1].Note != "failed" {
		t.Fatalf("unexpected notes %+v", report.Phases)
	}

	sum := tm.Summary()
	if !strings.Contains(sum, "decode") || !strings.Contains(sum, "total") {
		t.Fatalf("unexpected summary:\n%s", sum)
	}
}

func TestNilTimerIsSafe(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if len(tm.Report().Phases) != 0 {
		t.Fatalf("nil timer must report nothing")
	}
}
