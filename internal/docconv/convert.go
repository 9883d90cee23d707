// Package docconv converts HTML documents, local files or URLs, into
// Markdown records.
package docconv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"resty.dev/v3"

	"skillkit/internal/pipeline"
	"skillkit/internal/record"
)

// RawDocument is the fetched, unconverted document body.
type RawDocument struct {
	// Source is the path or URL the document came from
	Source string
	HTML   string
}

// DocumentFetcher reads an HTML document from a local path or an http(s) URL
type DocumentFetcher struct {
	input  string
	client *resty.Client
}

// NewDocumentFetcher creates a fetcher for the given path or URL
func NewDocumentFetcher(input string) *DocumentFetcher {
	return &DocumentFetcher{
		input:  input,
		client: pipeline.NewHTTPClient(""),
	}
}

func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// Fetch reads the document body
func (f *DocumentFetcher) Fetch(ctx context.Context) (pipeline.RawResult, error) {
	if f.input == "" {
		return nil, pipeline.InvalidArgument("no input document given")
	}

	if isURL(f.input) {
		return f.fetchURL(ctx)
	}
	return f.readFile()
}

func (f *DocumentFetcher) fetchURL(ctx context.Context) (pipeline.RawResult, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html").
		Get(f.input)

	if err != nil {
		return nil, pipeline.FetchFailed(err, "failed to fetch document from %s", f.input)
	}

	if !resp.IsSuccess() {
		return nil, pipeline.ClassifyHTTPStatus(resp.StatusCode())
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml") {
		return nil, pipeline.FetchFailed(nil, "unsupported content type %q from %s, only HTML documents can be converted", contentType, f.input)
	}

	return &RawDocument{Source: f.input, HTML: resp.String()}, nil
}

func (f *DocumentFetcher) readFile() (pipeline.RawResult, error) {
	switch strings.ToLower(filepath.Ext(f.input)) {
	case ".html", ".htm", ".xhtml":
	default:
		return nil, pipeline.InvalidArgument("unsupported input %q, only .html/.htm/.xhtml files can be converted", f.input)
	}

	body, err := os.ReadFile(f.input)
	if err != nil {
		return nil, pipeline.IOFailed(err, "failed to read %s", f.input)
	}

	return &RawDocument{Source: f.input, HTML: string(body)}, nil
}

// Key returns the hierarchical key for this fetcher
func (f *DocumentFetcher) Key() string {
	return fmt.Sprintf("skill:docconv:%s", filepath.Base(f.input))
}

// MarkdownNormalizer converts a raw HTML document into a single-section
// document record whose body is the Markdown rendering.
type MarkdownNormalizer struct{}

// Normalize implements pipeline.Normalizer
func (n *MarkdownNormalizer) Normalize(raw pipeline.RawResult) (*record.Record, error) {
	doc, ok := raw.(*RawDocument)
	if !ok {
		return nil, pipeline.SchemaViolation("expected raw document, got %T", raw)
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(doc.HTML)
	if err != nil {
		return nil, pipeline.SchemaViolation("failed to convert %s to markdown: %v", doc.Source, err)
	}
	if strings.TrimSpace(markdown) == "" {
		return nil, pipeline.SchemaViolation("document %s produced no markdown content", doc.Source)
	}

	section := &record.Section{Body: strings.Split(markdown, "\n")}
	return record.Document(doc.Source, section), nil
}
