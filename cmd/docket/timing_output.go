package main

import (
	"fmt"
	"io"

	"docket/internal/observ"
	"docket/internal/pipeline"
)

func printStageTimings(out io.Writer, timings pipeline.Timings) error {
	if out == nil {
		return nil
	}
	stages := []struct {
		stage pipeline.Stage
		label string
	}{
		{pipeline.StageLoad, "loaded"},
		{pipeline.StageDecode, "decoded"},
		{pipeline.StageMerge, "merged"},
		{pipeline.StageResolve, "resolved"},
		{pipeline.StageFilter, "filtered"},
	}
	for _, s := range stages {
		if !timings.Has(s.stage) {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s %.1f ms\n", s.label, toMillis(timings.Duration(s.stage))); err != nil {
			return err
		}
	}
	return nil
}

func printTimerSummary(out io.Writer, timer *observ.Timer) error {
	if timer == nil {
		return nil
	}
	_, err := fmt.Fprint(out, timer.Summary())
	return err
}
