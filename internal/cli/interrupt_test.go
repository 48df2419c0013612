package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{
			name:   "with custom writer",
			writer: &bytes.Buffer{},
		},
		{
			name:   "with nil writer",
			writer: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer)
			assert.NotNil(t, handler)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.WasInterrupted())
		})
	}
}

func TestHandleInterrupts_CancelsContext(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = handler.HandleInterrupts(ctx, true)

	select {
	case <-ctx.Done():
		t.Fatal("Context should not be canceled initially")
	default:
	}

	handler.interrupt()
	<-ctx.Done()

	assert.True(t, handler.WasInterrupted())
	assert.Contains(t, output.String(), "Recognition interrupted!")
	assert.Contains(t, output.String(), "Patterns trained so far have been saved.")
}

func TestHandleInterrupts_ParentCancelIsNotInterrupt(t *testing.T) {
	handler := NewInterruptHandler(&syncBuffer{})

	ctx, cancel := context.WithCancel(context.Background())
	ctx = handler.HandleInterrupts(ctx, false)
	cancel()
	<-ctx.Done()

	assert.False(t, handler.WasInterrupted())
}

func TestStop(t *testing.T) {
	handler := NewInterruptHandler(&syncBuffer{})
	ctx := handler.HandleInterrupts(context.Background(), false)

	handler.Stop()
	<-ctx.Done()
	assert.False(t, handler.WasInterrupted())
}

func TestMultipleInterrupts(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)
	_ = handler.HandleInterrupts(context.Background(), true)

	handler.interrupt()
	handler.interrupt()

	count := strings.Count(output.String(), "Recognition interrupted!")
	assert.Equal(t, 1, count, "Interrupt message should only be shown once")
}

func TestShowInterruptMessage(t *testing.T) {
	tests := []struct {
		name        string
		expected    []string
		notExpected []string
		training    bool
	}{
		{
			name:     "while training",
			training: true,
			expected: []string{"Recognition interrupted!", "Patterns trained so far have been saved."},
		},
		{
			name:        "without training",
			training:    false,
			expected:    []string{"Recognition interrupted!"},
			notExpected: []string{"Patterns trained"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			handler := &InterruptHandler{
				writer:   &output,
				training: tt.training,
			}

			handler.showInterruptMessage()

			outputStr := output.String()
			for _, expected := range tt.expected {
				assert.Contains(t, outputStr, expected)
			}
			for _, notExpected := range tt.notExpected {
				assert.NotContains(t, outputStr, notExpected)
			}
		})
	}
}
