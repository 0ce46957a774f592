package bulk

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	in := "Name , Document,Address\nAcme,123,Street 1\n,,\n Beta ,456,\n"
	header, rows, err := ParseFile(strings.NewReader(in), "clients.csv")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"Name", "Document", "Address"}
	if !reflect.DeepEqual(header, want) {
		t.Errorf("header = %v, want %v", header, want)
	}
	// The all-empty row is dropped, cells are trimmed.
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[1][0] != "Beta" {
		t.Errorf("rows[1][0] = %q, want Beta", rows[1][0])
	}
}

func TestParseCSV_RaggedRows(t *testing.T) {
	in := "Name,Document\nAcme\nBeta,456,extra\n"
	_, rows, err := ParseFile(strings.NewReader(in), "clients.csv")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows = %d, want 2", len(rows))
	}
}

func TestParseFile_Empty(t *testing.T) {
	if _, _, err := ParseFile(strings.NewReader(""), "clients.csv"); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("expected ErrEmptyFile, got %v", err)
	}
}

func TestParseFile_UnknownExtension(t *testing.T) {
	if _, _, err := ParseFile(strings.NewReader("x"), "clients.txt"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestResolveColumns(t *testing.T) {
	cfg := Entities["assets"]

	cases := []struct {
		name   string
		header []string
	}{
		{"display headers", []string{"Client ID", "Name", "Type", "Location", "Status"}},
		{"keys", []string{"client_id", "name", "asset_type", "location", "status"}},
		{"mixed case and spacing", []string{" client id ", "NAME", "type", "Location", "STATUS"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			idx, missing := cfg.ResolveColumns(tc.header)
			if len(missing) != 0 {
				t.Fatalf("missing = %v", missing)
			}
			if idx["client_id"] != 0 || idx["name"] != 1 {
				t.Errorf("unexpected index: %v", idx)
			}
		})
	}
}

func TestResolveColumns_MissingRequired(t *testing.T) {
	cfg := Entities["assets"]

	idx, missing := cfg.ResolveColumns([]string{"Name", "Type"})
	if !reflect.DeepEqual(missing, []string{"client_id"}) {
		t.Errorf("missing = %v, want [client_id]", missing)
	}
	if _, ok := idx["name"]; !ok {
		t.Errorf("name column should still resolve")
	}
}

func TestRowValues_ShortRow(t *testing.T) {
	cfg := Entities["clients"]
	idx, _ := cfg.ResolveColumns([]string{"Name", "Document", "Address"})

	values := RowValues(idx, []string{"Acme"})
	if values["name"] != "Acme" || values["document"] != "" || values["address"] != "" {
		t.Errorf("unexpected values: %v", values)
	}
}
