package bulk

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildTemplate_RoundTrip(t *testing.T) {
	cfg := Entities["clients"]

	content, name, err := BuildTemplate(cfg)
	if err != nil {
		t.Fatalf("build template: %v", err)
	}
	if name != "clients_template_v1.xlsx" {
		t.Errorf("name = %q", name)
	}

	header, rows, err := ParseFile(bytes.NewReader(content), name)
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("template must contain no data rows, got %d", len(rows))
	}
	idx, missing := cfg.ResolveColumns(header)
	if len(missing) != 0 {
		t.Errorf("template header does not resolve: missing %v", missing)
	}
	if len(idx) != len(cfg.Columns) {
		t.Errorf("resolved %d of %d columns", len(idx), len(cfg.Columns))
	}
}

func TestBuildExport_RoundTrip(t *testing.T) {
	cfg := Entities["assets"]
	data := [][]string{
		{"c1", "Pump A", "rotary", "Plant 1", "operating"},
		{"c1", "Fan B", "hvac", "Plant 2", "stopped"},
	}

	content, name, err := BuildExport(cfg, data)
	if err != nil {
		t.Fatalf("build export: %v", err)
	}
	if !strings.HasPrefix(name, "assets_") || !strings.HasSuffix(name, ".xlsx") {
		t.Errorf("unexpected file name %q", name)
	}

	header, rows, err := ParseFile(bytes.NewReader(content), name)
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if header[0] != "Client ID" {
		t.Errorf("header = %v", header)
	}
	if len(rows) != 2 || rows[1][1] != "Fan B" {
		t.Errorf("unexpected rows: %v", rows)
	}
}
