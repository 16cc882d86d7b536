package ui

import (
	"errors"
	"testing"

	"github.com/mattn/go-runewidth"

	"docket/internal/pipeline"
)

func TestStatusLabel(t *testing.T) {
	cases := []struct {
		stage  pipeline.Stage
		status pipeline.Status
		want   string
	}{
		{"", pipeline.StatusQueued, "queued"},
		{pipeline.StageDecode, pipeline.StatusWorking, "decoding"},
		{pipeline.StageDecode, pipeline.StatusDone, "decoding"},
		{pipeline.StageFilter, pipeline.StatusDone, "done"},
		{pipeline.StageMerge, pipeline.StatusError, "error"},
	}
	for _, tc := range cases {
		if got := statusLabel(tc.stage, tc.status); got != tc.want {
			t.Errorf("statusLabel(%q, %q) = %q, want %q", tc.stage, tc.status, got, tc.want)
		}
	}
}

func TestApplyEventTracksFiles(t *testing.T) {
	m := NewProgressModel("docket build", []string{"a.jsonl", "b.jsonl"}, nil).(*progressModel)

	m.applyEvent(pipeline.Event{File: "a.jsonl", Stage: pipeline.StageDecode, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{File: "b.jsonl", Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: errors.New("boom")})
	m.applyEvent(pipeline.Event{File: "unknown.jsonl", Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{Stage: pipeline.StageMerge, Status: pipeline.StatusWorking})

	if got := m.items[m.index["a.jsonl"]].status; got != "decoding" {
		t.Fatalf("a.jsonl status = %q", got)
	}
	if got := m.items[m.index["b.jsonl"]].status; got != "error" {
		t.Fatalf("b.jsonl status = %q", got)
	}
	if m.stageLabel != "merging" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("internal/units/outer.jsonl", 10); got != "interna..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("ツールの出力ファイル", 9); got != "ツール..." || runewidth.StringWidth(got) != 9 {
		t.Fatalf("wide truncate = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("truncate = %q", got)
	}
}
