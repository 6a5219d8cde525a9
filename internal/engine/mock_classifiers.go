package engine

import (
	"context"
	"sync"

	"github.com/upaylabs/fraudwatch/internal/model"
)

// MockOfflineClassifier is a test implementation of the OfflineClassifier
// interface returning a fixed label and recording inputs.
type MockOfflineClassifier struct {
	Label model.Label
	OK    bool
	calls []string
	mu    sync.Mutex
}

// NewMockOfflineClassifier creates a mock returning the given label.
func NewMockOfflineClassifier(label model.Label, ok bool) *MockOfflineClassifier {
	return &MockOfflineClassifier{Label: label, OK: ok}
}

// Predict returns the configured label.
func (m *MockOfflineClassifier) Predict(text string) (model.Label, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, text)
	return m.Label, m.OK
}

// Calls returns the inputs seen so far.
func (m *MockOfflineClassifier) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockOnlineClassifier is a test implementation of the OnlineClassifier
// interface returning a fixed label and recording inputs.
type MockOnlineClassifier struct {
	Label model.Label
	OK    bool
	calls []string
	mu    sync.Mutex
}

// NewMockOnlineClassifier creates a mock returning the given label.
func NewMockOnlineClassifier(label model.Label, ok bool) *MockOnlineClassifier {
	return &MockOnlineClassifier{Label: label, OK: ok}
}

// Predict returns the configured label.
func (m *MockOnlineClassifier) Predict(_ context.Context, text string) (model.Label, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, text)
	return m.Label, m.OK
}

// CallCount returns how many times Predict was invoked.
func (m *MockOnlineClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
