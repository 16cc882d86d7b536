package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"docket/internal/pipeline"
	"docket/internal/ui"
)

type buildOutcome struct {
	result *pipeline.Result
	err    error
}

func runBuildWithUI(ctx context.Context, title string, files []string, req *pipeline.Request) (*pipeline.Result, error) {
	if req == nil {
		return nil, fmt.Errorf("missing build request")
	}
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)
	// closed when the view exits so the build stops waiting on it
	viewDone := make(chan struct{})

	go func() {
		reqCopy := *req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events, Done: viewDone}
		res, err := pipeline.Build(ctx, &reqCopy)
		outcomeCh <- buildOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	close(viewDone)
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
