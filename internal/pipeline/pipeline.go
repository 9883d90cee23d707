// Package pipeline defines the three capabilities every tool is built from
// and runs them as a single linear pass: Fetch -> Normalize -> Render.
// New data sources and output formats plug in behind these interfaces
// without touching argument parsing.
package pipeline

import (
	"bytes"
	"context"
	"io"

	"skillkit/internal/record"
)

// RawResult is whatever structure the external source returned. It is owned
// transiently by the fetcher and handed straight to the matching normalizer.
type RawResult any

// Fetcher retrieves data from exactly one external source entry point.
type Fetcher interface {
	// Fetch retrieves the raw data for this fetcher's identifier.
	// Returns an error if the fetch operation fails.
	Fetch(ctx context.Context) (RawResult, error)

	// Key returns a hierarchical key identifying this fetch.
	// Format: skill:{source}:{identifier}
	// Examples:
	//   - skill:alphavantage:AAPL
	//   - skill:timedtext:dQw4w9WgXcQ
	//   - skill:docconv:report.html
	Key() string
}

// Normalizer reshapes a raw source response into a schema-stable record.
type Normalizer interface {
	Normalize(raw RawResult) (*record.Record, error)
}

// Renderer serializes a record into one output format.
type Renderer interface {
	Render(w io.Writer, rec *record.Record) error
}

// Sink receives the fully rendered output exactly once. Implementations
// write to stdout or to a file; a sink is only committed after rendering
// succeeded, so a failed pipeline never leaves a partial output file behind.
type Sink interface {
	// Commit writes the rendered output to the destination.
	Commit(data []byte) error

	// Target describes the destination for logging ("stdout" or a path).
	Target() string
}

// Run executes one pass through the pipeline. Rendering goes to an
// in-memory buffer first; the sink sees bytes only on full success.
func Run(ctx context.Context, f Fetcher, n Normalizer, r Renderer, sink Sink) error {
	raw, err := f.Fetch(ctx)
	if err != nil {
		return err
	}

	rec, err := n.Normalize(raw)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, rec); err != nil {
		return err
	}

	return sink.Commit(buf.Bytes())
}
