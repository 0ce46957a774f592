package bulk

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// BuildTemplate produces an empty XLSX template for an entity: the header
// row in template order, nothing else.
func BuildTemplate(cfg EntityConfig) ([]byte, string, error) {
	content, err := buildWorkbook(cfg.Headers(), nil)
	if err != nil {
		return nil, "", err
	}
	return content, fmt.Sprintf("%s_template_%s.xlsx", cfg.Name, cfg.TemplateVersion), nil
}

// BuildExport produces an XLSX workbook with the entity's header row
// followed by the given data rows.
func BuildExport(cfg EntityConfig, rows [][]string) ([]byte, string, error) {
	content, err := buildWorkbook(cfg.Headers(), rows)
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("%s_%s.xlsx", cfg.Name, time.Now().UTC().Format("20060102_150405"))
	return content, name, nil
}

func buildWorkbook(header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := setRow(f, 1, header); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := setRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, rowNum int, cells []string) error {
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("set row %d: %w", rowNum, err)
	}
	return nil
}
