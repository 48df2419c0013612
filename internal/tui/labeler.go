// Package tui provides the full screen bubbletea labeler used while training.
package tui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/Veraticus/glyphmatch/internal/cli"
	"github.com/Veraticus/glyphmatch/internal/engine"
	"github.com/Veraticus/glyphmatch/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrClosed is returned by Label once the TUI has exited.
var ErrClosed = errors.New("labeler closed")

// Labeler implements engine.Labeler with a bubbletea program that stays up for the whole run.
type Labeler struct {
	program    *tea.Program
	send       func(tea.Msg)
	resultChan chan model.LabelResponse
	done       chan struct{}
	closeOnce  sync.Once
	started    atomic.Bool
	stats      cli.LabelStats
	statsMutex sync.Mutex
}

// Ensure we implement the interface.
var _ engine.Labeler = (*Labeler)(nil)

// New creates a TUI labeler. Call Start before the first Label.
func New(ctx context.Context, opts ...Option) *Labeler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	l := newLabeler(nil)
	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if cfg.Input != nil {
		programOpts = append(programOpts, tea.WithInput(cfg.Input))
	}
	if cfg.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(cfg.Output))
	}

	l.program = tea.NewProgram(newModel(cfg, l.resultChan), programOpts...)
	l.send = l.program.Send
	return l
}

func newLabeler(send func(tea.Msg)) *Labeler {
	return &Labeler{
		send:       send,
		resultChan: make(chan model.LabelResponse, 1),
		done:       make(chan struct{}),
	}
}

// Start runs the TUI program in the background. The returned channel yields the
// program's exit error once and is then closed.
func (l *Labeler) Start() <-chan error {
	errCh := make(chan error, 1)
	l.started.Store(true)
	go func() {
		defer close(errCh)
		defer l.markDone()
		if _, err := l.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			errCh <- fmt.Errorf("failed to run TUI: %w", err)
		}
	}()
	return errCh
}

// Label implements engine.Labeler.
func (l *Labeler) Label(ctx context.Context, glyph model.BitPattern, source image.Image) (model.LabelResponse, error) {
	if err := ctx.Err(); err != nil {
		return model.LabelResponse{}, err
	}
	select {
	case <-l.done:
		return model.LabelResponse{}, ErrClosed
	default:
	}

	l.send(labelRequestMsg{glyph: glyph, source: source})

	select {
	case response := <-l.resultChan:
		l.record(response)
		return response, nil
	case <-l.done:
		// ctrl+c answers with a cancel before the program exits
		select {
		case response := <-l.resultChan:
			l.record(response)
			return response, nil
		default:
			return model.LabelResponse{}, ErrClosed
		}
	case <-ctx.Done():
		return model.LabelResponse{}, ctx.Err()
	}
}

// ShowError displays err under the current prompt.
func (l *Labeler) ShowError(err error) {
	l.send(errorMsg{err: err})
}

// GetStats returns statistics about the labeling session.
func (l *Labeler) GetStats() cli.LabelStats {
	l.statsMutex.Lock()
	defer l.statsMutex.Unlock()
	return l.stats
}

// Shutdown stops the TUI and waits for the terminal to be restored.
func (l *Labeler) Shutdown() {
	if l.program != nil && l.started.Load() {
		l.program.Quit()
		<-l.done
		return
	}
	l.markDone()
}

func (l *Labeler) markDone() {
	l.closeOnce.Do(func() { close(l.done) })
}

func (l *Labeler) record(response model.LabelResponse) {
	l.statsMutex.Lock()
	defer l.statsMutex.Unlock()

	l.stats.Prompted++
	switch response.Action {
	case model.LabelAccept:
		l.stats.Trained++
	case model.LabelSkip:
		l.stats.Skipped++
	case model.LabelCancel:
		l.stats.Aborted++
	}
}
