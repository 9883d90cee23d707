package skill

import (
	"skillkit/internal/pipeline"
	"skillkit/internal/record"
)

// ListColumns is the fixed schema for skill listing records.
var ListColumns = []string{"name", "description", "path"}

// ListRecord shapes discovered manifests into a table record for the shared
// renderers.
func ListRecord(manifests []Manifest) (*record.Record, error) {
	table := record.NewTable(ListColumns...)
	for _, m := range manifests {
		if err := table.Append(m.Name, m.Description, m.Path); err != nil {
			return nil, pipeline.SchemaViolation("%v", err)
		}
	}
	return record.Tabular("Skills", table), nil
}
