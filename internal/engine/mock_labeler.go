package engine

import (
	"context"
	"image"
	"sync"

	"github.com/Veraticus/glyphmatch/internal/model"
)

// MockLabeler is a test implementation of the Labeler interface.
// It replays queued responses and then falls back to a default response.
type MockLabeler struct {
	err       error
	fallback  model.LabelResponse
	responses []model.LabelResponse
	calls     []MockLabelCall
	mu        sync.Mutex
}

// MockLabelCall records details of a single labeling request.
type MockLabelCall struct {
	Source   image.Image
	Glyph    model.BitPattern
	Response model.LabelResponse
}

// NewMockLabeler creates a mock labeler that answers fallback once its queue is empty.
func NewMockLabeler(fallback model.LabelResponse) *MockLabeler {
	return &MockLabeler{
		fallback: fallback,
		calls:    make([]MockLabelCall, 0),
	}
}

// Label returns the next queued response.
func (m *MockLabeler) Label(ctx context.Context, glyph model.BitPattern, source image.Image) (model.LabelResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return model.LabelResponse{}, err
	}
	if m.err != nil {
		return model.LabelResponse{}, m.err
	}

	response := m.fallback
	if len(m.responses) > 0 {
		response = m.responses[0]
		m.responses = m.responses[1:]
	}

	m.calls = append(m.calls, MockLabelCall{
		Glyph:    glyph,
		Source:   source,
		Response: response,
	})
	return response, nil
}

// Queue appends responses returned by the next Label calls.
func (m *MockLabeler) Queue(responses ...model.LabelResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, responses...)
}

// SetError makes every following Label call fail.
func (m *MockLabeler) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns all labeling calls for verification.
func (m *MockLabeler) Calls() []MockLabelCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]MockLabelCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns the number of labeling calls.
func (m *MockLabeler) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
