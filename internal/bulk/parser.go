package bulk

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported file format, use XLSX or CSV")
var ErrEmptyFile = errors.New("file has no header row")

// ParseFile reads a spreadsheet into a header row plus data rows, dispatching
// on the file extension. Cell values are trimmed; fully empty rows are
// dropped.
func ParseFile(r io.Reader, filename string) (header []string, rows [][]string, err error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return parseXLSX(r)
	case ".csv":
		return parseCSV(r)
	default:
		return nil, nil, ErrUnsupportedFormat
	}
}

func parseCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptyFile
	}
	header := trimRow(records[0])

	var rows [][]string
	for _, rec := range records[1:] {
		row := trimRow(rec)
		if !emptyRow(row) {
			rows = append(rows, row)
		}
	}
	return header, rows, nil
}

func parseXLSX(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptyFile
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, ErrEmptyFile
	}
	header := trimRow(all[0])

	var rows [][]string
	for _, rec := range all[1:] {
		row := trimRow(rec)
		if !emptyRow(row) {
			rows = append(rows, row)
		}
	}
	return header, rows, nil
}

func trimRow(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
