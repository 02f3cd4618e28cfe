package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"luedit/internal/batch"
	"luedit/internal/source"
	"luedit/internal/ui"
)

type diagOutcome struct {
	fileSet *source.FileSet
	results []batch.Result
	err     error
}

// runDiagWithUI diagnoses files while a progress view follows the batch
// events. The view exits when the event channel is closed.
func runDiagWithUI(ctx context.Context, title string, files []string, opts batch.Options) (*source.FileSet, []batch.Result, error) {
	events := make(chan batch.Event, 256)
	outcomeCh := make(chan diagOutcome, 1)

	go func() {
		o := opts
		o.Progress = batch.ChannelSink{Ch: events}
		fs, res, err := batch.DiagnoseFiles(ctx, files, o)
		outcomeCh <- diagOutcome{fileSet: fs, results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// после ctrl+c никто не читает события; не даём воркерам зависнуть
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
