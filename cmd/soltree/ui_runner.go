package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"soltree/internal/tree"
	"soltree/internal/ui"
)

type buildOutcome struct {
	root *tree.Dir
	err  error
}

// runBuildWithUI runs the tree builder in a goroutine and renders its
// progress until the builder returns.
func runBuildWithUI(ctx context.Context, title string, files []string, opts tree.Options) (*tree.Dir, error) {
	events := make(chan tree.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		opts.Progress = tree.ChannelSink{Ch: events}
		root, err := tree.NewBuilder(opts).Build(ctx, files)
		outcomeCh <- buildOutcome{root: root, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()

	// The program also returns when the user quits early. Stop the builder
	// and drain so its pending sends do not block.
	cancel()
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.root, uiErr
	}
	return outcome.root, outcome.err
}
