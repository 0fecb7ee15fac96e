package testing

import (
	"context"
	"sync"

	"github.com/aristath/moatwatch/internal/domain"
)

// MockSnapshotLoader is a mock snapshot loader for testing
type MockSnapshotLoader struct {
	mu       sync.RWMutex
	snapshot *domain.Snapshot
	err      error
	paths    []string
}

// NewMockSnapshotLoader creates a loader returning snap
func NewMockSnapshotLoader(snap *domain.Snapshot) *MockSnapshotLoader {
	return &MockSnapshotLoader{snapshot: snap}
}

// SetSnapshot sets the snapshot to return
func (m *MockSnapshotLoader) SetSnapshot(snap *domain.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = snap
}

// SetError sets the error to return
func (m *MockSnapshotLoader) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Load returns the configured snapshot or error
func (m *MockSnapshotLoader) Load(path string) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, path)
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

// Paths returns every path Load was called with
func (m *MockSnapshotLoader) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.paths...)
}

// MockPublisher is a mock report publisher for testing
type MockPublisher struct {
	mu        sync.RWMutex
	published [][]string
	err       error
}

// NewMockPublisher creates a new mock publisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// SetError sets the error to return
func (m *MockPublisher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Publish records the files
func (m *MockPublisher) Publish(_ context.Context, files []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, append([]string(nil), files...))
	return m.err
}

// Published returns the file lists of every Publish call
func (m *MockPublisher) Published() [][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.published
}
