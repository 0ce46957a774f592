// Package bulk holds the spreadsheet side of the import/export subsystem:
// per-entity column layouts, CSV/XLSX parsing, and workbook building.
package bulk

import "strings"

// Column describes one spreadsheet column of an entity template.
type Column struct {
	Key      string
	Header   string
	Required bool
}

// EntityConfig describes how one entity maps to a spreadsheet.
type EntityConfig struct {
	Name            string
	TemplateVersion string
	// Importable entities accept uploads; the rest are export only.
	Importable bool
	Columns    []Column
}

// Entities is the registry of bulk-capable entities.
var Entities = map[string]EntityConfig{
	"clients": {
		Name:            "clients",
		TemplateVersion: "v1",
		Importable:      true,
		Columns: []Column{
			{Key: "name", Header: "Name", Required: true},
			{Key: "document", Header: "Document"},
			{Key: "address", Header: "Address"},
		},
	},
	"assets": {
		Name:            "assets",
		TemplateVersion: "v1",
		Importable:      true,
		Columns: []Column{
			{Key: "client_id", Header: "Client ID", Required: true},
			{Key: "name", Header: "Name", Required: true},
			{Key: "asset_type", Header: "Type"},
			{Key: "location", Header: "Location"},
			{Key: "status", Header: "Status"},
		},
	},
	"users": {
		Name:            "users",
		TemplateVersion: "v1",
		Columns: []Column{
			{Key: "name", Header: "Name", Required: true},
			{Key: "email", Header: "Email", Required: true},
			{Key: "role", Header: "Role"},
			{Key: "client_id", Header: "Client ID"},
		},
	},
	"work_orders": {
		Name:            "work_orders",
		TemplateVersion: "v1",
		Columns: []Column{
			{Key: "id", Header: "ID"},
			{Key: "client_id", Header: "Client ID"},
			{Key: "asset_id", Header: "Asset ID"},
			{Key: "title", Header: "Title"},
			{Key: "status", Header: "Status"},
			{Key: "opened_at", Header: "Opened At"},
			{Key: "closed_at", Header: "Closed At"},
		},
	},
}

// Lookup returns the config for an entity name.
func Lookup(entity string) (EntityConfig, bool) {
	cfg, ok := Entities[entity]
	return cfg, ok
}

// Headers returns the column headers in template order.
func (c EntityConfig) Headers() []string {
	out := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		out[i] = col.Header
	}
	return out
}

// ResolveColumns matches a file's header row against the configured columns.
// A header cell matches a column by its display header or its key, case
// insensitively. It returns the column key to cell index mapping and the
// keys of required columns the file is missing.
func (c EntityConfig) ResolveColumns(header []string) (idx map[string]int, missing []string) {
	idx = make(map[string]int, len(c.Columns))
	for i, cell := range header {
		norm := normalizeHeader(cell)
		for _, col := range c.Columns {
			if norm == normalizeHeader(col.Header) || norm == col.Key {
				idx[col.Key] = i
				break
			}
		}
	}
	for _, col := range c.Columns {
		if _, ok := idx[col.Key]; !ok && col.Required {
			missing = append(missing, col.Key)
		}
	}
	return idx, missing
}

// normalizeHeader folds "Client ID", "client id", and "client_id" onto the
// same form.
func normalizeHeader(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// RowValues extracts the configured column values for one data row using the
// index returned by ResolveColumns.
func RowValues(idx map[string]int, row []string) map[string]string {
	m := make(map[string]string, len(idx))
	for key, i := range idx {
		if i < len(row) {
			m[key] = row[i]
		} else {
			m[key] = ""
		}
	}
	return m
}
