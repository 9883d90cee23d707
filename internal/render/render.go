// Package render serializes normalized records into the supported output
// formats: a human-readable terminal table, CSV with a header row matching
// the record schema, and Markdown with headings and pipe tables.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"skillkit/internal/pipeline"
	"skillkit/internal/record"
)

// Format names accepted by the --format flag.
const (
	FormatTable    = "table"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// ForFormat returns the renderer for a format name.
func ForFormat(format string) (pipeline.Renderer, error) {
	switch format {
	case FormatTable:
		return &TextRenderer{}, nil
	case FormatCSV:
		return &CSVRenderer{}, nil
	case FormatMarkdown:
		return &MarkdownRenderer{}, nil
	default:
		return nil, pipeline.InvalidArgument("unknown output format %q (supported: table, csv, markdown)", format)
	}
}

// TextRenderer produces a bordered terminal table for tabular records and
// indented plain text for document records.
type TextRenderer struct{}

// Render implements pipeline.Renderer
func (r *TextRenderer) Render(w io.Writer, rec *record.Record) error {
	if rec.Table != nil {
		table := tablewriter.NewWriter(w)
		table.SetHeader(rec.Table.Columns)
		table.SetAutoWrapText(false)
		table.SetAutoFormatHeaders(false)
		for _, row := range rec.Table.Rows {
			table.Append(row)
		}
		table.Render()
		return nil
	}
	if rec.Doc != nil {
		renderSectionText(w, rec.Doc, 0)
		return nil
	}
	return pipeline.SchemaViolation("record %q has no content", rec.Name)
}

func renderSectionText(w io.Writer, s *record.Section, depth int) {
	indent := strings.Repeat("  ", depth)
	if s.Title != "" {
		fmt.Fprintf(w, "%s%s\n", indent, s.Title)
	}
	for _, line := range s.Body {
		fmt.Fprintf(w, "%s  %s\n", indent, line)
	}
	for _, child := range s.Children {
		renderSectionText(w, child, depth+1)
	}
}

// CSVRenderer writes a header row followed by one line per table row.
// A record with N rows always renders to exactly N+1 lines with a constant
// column count.
type CSVRenderer struct{}

// Render implements pipeline.Renderer
func (r *CSVRenderer) Render(w io.Writer, rec *record.Record) error {
	if rec.Table == nil {
		return pipeline.InvalidArgument("csv output requires tabular data, %q is a document", rec.Name)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(flattenCells(rec.Table.Columns)); err != nil {
		return pipeline.IOFailed(err, "failed to write csv header")
	}
	for _, row := range rec.Table.Rows {
		if err := cw.Write(flattenCells(row)); err != nil {
			return pipeline.IOFailed(err, "failed to write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return pipeline.IOFailed(err, "failed to flush csv output")
	}
	return nil
}

// MarkdownRenderer writes tabular records as a pipe table under a heading
// and document records as a heading tree. Cell values pass through verbatim
// (aside from escaping pipes) so timestamps and numbers survive unchanged.
type MarkdownRenderer struct{}

// Render implements pipeline.Renderer
func (r *MarkdownRenderer) Render(w io.Writer, rec *record.Record) error {
	if rec.Table != nil {
		if rec.Name != "" {
			fmt.Fprintf(w, "# %s\n\n", rec.Name)
		}
		writeMarkdownTable(w, rec.Table)
		return nil
	}
	if rec.Doc != nil {
		renderSectionMarkdown(w, rec.Doc, 1)
		return nil
	}
	return pipeline.SchemaViolation("record %q has no content", rec.Name)
}

func writeMarkdownTable(w io.Writer, t *record.Table) {
	fmt.Fprintf(w, "| %s |\n", strings.Join(escapeCells(t.Columns), " | "))
	seps := make([]string, len(t.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))
	for _, row := range t.Rows {
		fmt.Fprintf(w, "| %s |\n", strings.Join(escapeCells(row), " | "))
	}
}

// flattenCells replaces embedded newlines with spaces so each row stays one
// physical csv line.
func flattenCells(cells []string) []string {
	flattened := make([]string, len(cells))
	for i, c := range cells {
		flattened[i] = strings.ReplaceAll(c, "\n", " ")
	}
	return flattened
}

// escapeCells makes cell text safe inside a pipe table: pipes are escaped and
// embedded newlines become explicit breaks, keeping each row on one line.
func escapeCells(cells []string) []string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", "\\|")
		escaped[i] = strings.ReplaceAll(c, "\n", "<br>")
	}
	return escaped
}

func renderSectionMarkdown(w io.Writer, s *record.Section, level int) {
	if s.Title != "" {
		if level > 6 {
			level = 6
		}
		fmt.Fprintf(w, "%s %s\n\n", strings.Repeat("#", level), s.Title)
	}
	if len(s.Body) > 0 {
		for _, line := range s.Body {
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}
	for _, child := range s.Children {
		renderSectionMarkdown(w, child, level+1)
	}
}
