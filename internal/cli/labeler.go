package cli

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Veraticus/glyphmatch/internal/model"
)

// QuitCommand typed at the label prompt aborts training.
const QuitCommand = ":q"

// LabelStats summarizes a labeling session.
type LabelStats struct {
	Prompted int
	Trained  int
	Skipped  int
	Aborted  int
	Duration time.Duration
}

// Labeler implements the interactive terminal prompt for unknown glyphs.
type Labeler struct {
	startTime  time.Time
	writer     io.Writer
	reader     *NonBlockingReader
	stats      LabelStats
	statsMutex sync.RWMutex
}

// NewLabeler creates a terminal labeler with the given reader and writer.
func NewLabeler(reader io.Reader, writer io.Writer) *Labeler {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Labeler{
		reader:    NewNonBlockingReader(reader),
		writer:    writer,
		startTime: time.Now(),
	}
}

// Label shows glyph and reads its label. A blank line skips the glyph;
// QuitCommand or the end of input aborts training.
func (l *Labeler) Label(ctx context.Context, glyph model.BitPattern, source image.Image) (model.LabelResponse, error) {
	if err := ctx.Err(); err != nil {
		return model.LabelResponse{}, err
	}

	if _, err := fmt.Fprintln(l.writer, RenderBox(glyphTitle(glyph), l.formatGlyph(glyph, source))); err != nil {
		return model.LabelResponse{}, fmt.Errorf("failed to write glyph box: %w", err)
	}
	if _, err := fmt.Fprint(l.writer, FormatPrompt(fmt.Sprintf("Label (blank to skip, %s to stop)", QuitCommand))); err != nil {
		return model.LabelResponse{}, fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := l.reader.ReadLine(ctx)
	switch {
	case errors.Is(err, ErrInputCancelled):
		return model.LabelResponse{}, ctx.Err()
	case errors.Is(err, io.EOF):
		slog.Debug("Label input closed")
		line = QuitCommand
	case err != nil:
		return model.LabelResponse{}, fmt.Errorf("failed to read label: %w", err)
	}

	response := model.AcceptLabel(line)
	if line == QuitCommand {
		response = model.CancelLabel()
	}
	l.record(response)
	l.confirm(response)
	return response, nil
}

// GetStats returns statistics about the labeling session.
func (l *Labeler) GetStats() LabelStats {
	l.statsMutex.RLock()
	defer l.statsMutex.RUnlock()

	stats := l.stats
	stats.Duration = time.Since(l.startTime)
	return stats
}

// ShowError reports a failure that did not stop training, such as an unsaved pattern.
func (l *Labeler) ShowError(err error) {
	if _, writeErr := fmt.Fprintln(l.writer, FormatError(err.Error())); writeErr != nil {
		slog.Warn("Failed to write error", "error", writeErr)
	}
}

// ShowSummary writes the session statistics when anything was prompted.
func (l *Labeler) ShowSummary() {
	stats := l.GetStats()
	if stats.Prompted == 0 {
		return
	}

	summary := fmt.Sprintf("  • Prompts: %d\n", stats.Prompted) +
		fmt.Sprintf("  • Trained: %d\n", stats.Trained) +
		fmt.Sprintf("  • Skipped: %d\n", stats.Skipped) +
		fmt.Sprintf("  • Time taken: %s", stats.Duration.Round(time.Second))

	if _, err := fmt.Fprintln(l.writer, RenderBox("Training Summary", summary)); err != nil {
		slog.Warn("Failed to write training summary", "error", err)
	}
}

func glyphTitle(glyph model.BitPattern) string {
	return fmt.Sprintf("%s Unknown glyph %dx%d", GlyphIcon, glyph.Width(), glyph.Height())
}

func (l *Labeler) formatGlyph(glyph model.BitPattern, source image.Image) string {
	content := RenderGlyph(glyph)
	if source != nil {
		b := source.Bounds()
		content += "\n\n" + SubtleStyle.Render(fmt.Sprintf("source image %dx%d", b.Dx(), b.Dy()))
	}
	return content
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

func (l *Labeler) confirm(response model.LabelResponse) {
	var msg string
	switch response.Action {
	case model.LabelAccept:
		msg = FormatSuccess(fmt.Sprintf("Learned %q", response.Label))
	case model.LabelSkip:
		msg = FormatInfo("Skipped")
	case model.LabelCancel:
		msg = FormatWarning("Training stopped")
	}
	if _, err := fmt.Fprintln(l.writer, msg); err != nil {
		slog.Warn("Failed to write label confirmation", "error", err)
	}
}
