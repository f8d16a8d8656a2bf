package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"krllint/internal/driver"
	"krllint/internal/pipeline"
	"krllint/internal/ui"
)

type lintOutcome struct {
	report *driver.Report
	err    error
}

// runLintWithUI runs the driver in the background and shows its progress
// on stderr until it finishes. The file list is filled from the queued
// events, so the view knows every file before work starts.
func runLintWithUI(ctx context.Context, title string, paths []string, opts driver.Options) (*driver.Report, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.Tee(opts.Progress, pipeline.ChannelSink{Ch: events})
		report, err := driver.Run(ctx, paths, optsCopy)
		outcomeCh <- lintOutcome{report: report, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// ctrl+c or a broken terminal: keep draining so the driver can finish
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
