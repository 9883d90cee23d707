package testutil

import (
	"context"

	"skillkit/internal/pipeline"
	"skillkit/internal/record"
)

// MockFetcher is a mock implementation of the Fetcher interface for testing
type MockFetcher struct {
	FetchFunc func(ctx context.Context) (pipeline.RawResult, error)
	KeyFunc   func() string
}

// Fetch implements the Fetcher interface
func (m *MockFetcher) Fetch(ctx context.Context) (pipeline.RawResult, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return nil, nil
}

// Key implements the Fetcher interface
func (m *MockFetcher) Key() string {
	if m.KeyFunc != nil {
		return m.KeyFunc()
	}
	return "mock:key"
}

// NewMockFetcher creates a simple mock fetcher with predefined values
func NewMockFetcher(key string, raw pipeline.RawResult, err error) pipeline.Fetcher {
	return &MockFetcher{
		FetchFunc: func(ctx context.Context) (pipeline.RawResult, error) {
			return raw, err
		},
		KeyFunc: func() string {
			return key
		},
	}
}

// MockNormalizer is a mock implementation of the Normalizer interface for testing
type MockNormalizer struct {
	NormalizeFunc func(raw pipeline.RawResult) (*record.Record, error)
}

// Normalize implements the Normalizer interface
func (m *MockNormalizer) Normalize(raw pipeline.RawResult) (*record.Record, error) {
	if m.NormalizeFunc != nil {
		return m.NormalizeFunc(raw)
	}
	return record.Tabular("mock", record.NewTable("value")), nil
}

// RecordingSink captures committed output for assertions.
type RecordingSink struct {
	Data      []byte
	Committed bool
}

// Commit implements the Sink interface
func (s *RecordingSink) Commit(data []byte) error {
	s.Data = data
	s.Committed = true
	return nil
}

// Target implements the Sink interface
func (s *RecordingSink) Target() string {
	return "recording"
}
