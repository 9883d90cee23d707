// Package record defines the normalized intermediate representation shared
// by all tools: a schema-stable table or a tree of document sections.
// Normalizers produce records; renderers consume them without knowing which
// data source they came from.
package record

import "fmt"

// Table is an ordered sequence of rows under a fixed column schema.
// Column names and their order must be identical across invocations for the
// same mode so downstream consumers (CSV readers) can rely on them.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given column schema.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row to the table. The row must have exactly one cell per
// column; a mismatched row is rejected so a schema drift surfaces at the
// normalizer instead of in rendered output.
func (t *Table) Append(row ...string) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, schema has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Section is one node in a document tree. Body holds pre-formatted text
// lines; Children are rendered as nested headings.
type Section struct {
	Title    string
	Body     []string
	Children []*Section
}

// AddChild appends a child section and returns it for further population.
func (s *Section) AddChild(title string) *Section {
	child := &Section{Title: title}
	s.Children = append(s.Children, child)
	return child
}

// Record is the output of a normalizer. Exactly one of Table or Doc is set:
// tabular modes (quotes, OHLCV series, statements, subtitle cues) produce a
// Table, document modes (company overview, converted documents) produce a Doc.
type Record struct {
	// Name identifies the record for rendering (title, default filename stem).
	Name string

	Table *Table
	Doc   *Section
}

// Tabular creates a table-backed record.
func Tabular(name string, table *Table) *Record {
	return &Record{Name: name, Table: table}
}

// Document creates a section-tree-backed record.
func Document(name string, doc *Section) *Record {
	return &Record{Name: name, Doc: doc}
}
