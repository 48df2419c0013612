package cli

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/glyphmatch/internal/engine"
	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ engine.Labeler = (*Labeler)(nil)

var testGlyph = model.MustParseBitPattern(
	"#.#",
	"#.#",
	"###",
	"..#",
	"..#",
)

func TestLabeler_Label(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       model.LabelResponse
		wantOutput string
	}{
		{name: "label", input: "4\n", want: model.AcceptLabel("4"), wantOutput: `Learned "4"`},
		{name: "multi character label", input: "LEVEL\n", want: model.AcceptLabel("LEVEL"), wantOutput: `Learned "LEVEL"`},
		{name: "blank line skips", input: "\n", want: model.SkipLabel(), wantOutput: "Skipped"},
		{name: "whitespace skips", input: "   \n", want: model.SkipLabel(), wantOutput: "Skipped"},
		{name: "quit command aborts", input: ":q\n", want: model.CancelLabel(), wantOutput: "Training stopped"},
		{name: "end of input aborts", input: "", want: model.CancelLabel(), wantOutput: "Training stopped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			labeler := NewLabeler(strings.NewReader(tt.input), &out)

			got, err := labeler.Label(context.Background(), testGlyph, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			output := out.String()
			assert.Contains(t, output, "Unknown glyph 3x5")
			assert.Contains(t, output, SetCell)
			assert.Contains(t, output, tt.wantOutput)
		})
	}
}

func TestLabeler_ShowsSourceSize(t *testing.T) {
	var out bytes.Buffer
	labeler := NewLabeler(strings.NewReader("4\n"), &out)

	_, err := labeler.Label(context.Background(), testGlyph, image.NewGray(image.Rect(0, 0, 64, 32)))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "source image 64x32")
}

func TestLabeler_ContextCanceled(t *testing.T) {
	t.Run("before prompt", func(t *testing.T) {
		var out bytes.Buffer
		labeler := NewLabeler(strings.NewReader("4\n"), &out)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := labeler.Label(ctx, testGlyph, nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, out.String())
	})

	t.Run("while waiting for input", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pw.Close() }()
		labeler := NewLabeler(pr, io.Discard)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := labeler.Label(ctx, testGlyph, nil)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestLabeler_Stats(t *testing.T) {
	var out bytes.Buffer
	labeler := NewLabeler(strings.NewReader("1\n\n7\n:q\n"), &out)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := labeler.Label(ctx, testGlyph, nil)
		require.NoError(t, err)
	}

	stats := labeler.GetStats()
	assert.Equal(t, 4, stats.Prompted)
	assert.Equal(t, 2, stats.Trained)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Aborted)

	out.Reset()
	labeler.ShowSummary()
	assert.Contains(t, out.String(), "Training Summary")
	assert.Contains(t, out.String(), "Trained: 2")
}

func TestLabeler_SummaryHiddenWithoutPrompts(t *testing.T) {
	var out bytes.Buffer
	NewLabeler(strings.NewReader(""), &out).ShowSummary()
	assert.Empty(t, out.String())
}

func TestLabeler_ShowError(t *testing.T) {
	var out bytes.Buffer
	NewLabeler(strings.NewReader(""), &out).ShowError(errors.New("failed to save pattern database"))
	assert.Contains(t, out.String(), ErrorIcon)
	assert.Contains(t, out.String(), "failed to save pattern database")
}

func TestRenderGlyph(t *testing.T) {
	rendered := RenderGlyph(model.MustParseBitPattern("#.", ".#"))
	lines := strings.Split(rendered, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, 2, strings.Count(rendered, SetCell))
	assert.Equal(t, 2, strings.Count(rendered, UnsetCell))
}
