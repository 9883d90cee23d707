package pipeline_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"skillkit/internal/pipeline"
	"skillkit/internal/record"
	"skillkit/internal/testutil"
)

type upperRenderer struct{}

func (r *upperRenderer) Render(w io.Writer, rec *record.Record) error {
	_, err := io.WriteString(w, strings.ToUpper(rec.Name)+"\n")
	return err
}

func TestRun_Success(t *testing.T) {
	fetcher := testutil.NewMockFetcher("test:key", "raw", nil)
	normalizer := &testutil.MockNormalizer{
		NormalizeFunc: func(raw pipeline.RawResult) (*record.Record, error) {
			if raw != "raw" {
				t.Errorf("normalizer received %v, want raw fetch result", raw)
			}
			return record.Tabular("hello", record.NewTable("value")), nil
		},
	}
	sink := &testutil.RecordingSink{}

	err := pipeline.Run(context.Background(), fetcher, normalizer, &upperRenderer{}, sink)
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if !sink.Committed {
		t.Fatal("sink was never committed")
	}
	if got := string(sink.Data); got != "HELLO\n" {
		t.Errorf("sink received %q, want %q", got, "HELLO\n")
	}
}

func TestRun_FetchError(t *testing.T) {
	fetchErr := pipeline.FetchFailed(nil, "source unreachable")
	fetcher := testutil.NewMockFetcher("test:key", nil, fetchErr)
	sink := &testutil.RecordingSink{}

	err := pipeline.Run(context.Background(), fetcher, &testutil.MockNormalizer{}, &upperRenderer{}, sink)
	if err == nil {
		t.Fatal("Run() expected error, got nil")
	}
	if !pipeline.IsClass(err, pipeline.ClassFetch) {
		t.Errorf("error class = %v, want fetch", err)
	}

	// A failed pipeline must not touch the sink
	if sink.Committed {
		t.Error("sink was committed despite the fetch failure")
	}
}

func TestRun_NormalizeError(t *testing.T) {
	fetcher := testutil.NewMockFetcher("test:key", "raw", nil)
	normalizer := &testutil.MockNormalizer{
		NormalizeFunc: func(raw pipeline.RawResult) (*record.Record, error) {
			return nil, pipeline.SchemaViolation("missing fields")
		},
	}
	sink := &testutil.RecordingSink{}

	err := pipeline.Run(context.Background(), fetcher, normalizer, &upperRenderer{}, sink)
	if !pipeline.IsClass(err, pipeline.ClassSchema) {
		t.Errorf("error = %v, want schema class", err)
	}
	if sink.Committed {
		t.Error("sink was committed despite the normalize failure")
	}
}
