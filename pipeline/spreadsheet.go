package pipeline

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aluiziolira/go-scrape-evds/models"
)

const (
	dataSheet        = "Data"
	explanationSheet = "Explanations"
)

// WriteSpreadsheet saves result as an xlsx workbook at path (".xlsx" is
// appended when missing) and returns the path written.
func WriteSpreadsheet(result *models.ScrapeResult, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", models.ErrConfiguration{Field: "output_file", Err: fmt.Errorf("spreadsheet output needs a target file")}
	}
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		path += ".xlsx"
	}

	f, err := BuildWorkbook(result)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := ensureDir(path); err != nil {
		return "", err
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return path, nil
}

// BuildWorkbook lays result out on a Data sheet (and an Explanations sheet
// when the result carries any). Missing values are left blank.
func BuildWorkbook(result *models.ScrapeResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, 0, len(result.Columns)+1)
	header = append(header, DateColumn)
	for _, code := range result.Columns {
		header = append(header, code)
	}
	if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range result.Rows {
		r := i + 2
		if err := setCell(f, dataSheet, 1, r, row.Period); err != nil {
			return nil, err
		}
		for j, v := range row.Values {
			if math.IsNaN(v) {
				continue
			}
			if err := setCell(f, dataSheet, j+2, r, v); err != nil {
				return nil, err
			}
		}
	}
	if err := applyStyles(f, dataSheet, len(header), len(result.Rows)+1); err != nil {
		return nil, err
	}

	if len(result.Explanations) > 0 {
		if _, err := f.NewSheet(explanationSheet); err != nil {
			return nil, err
		}
		header := []interface{}{"Code", "Description", "Calculation type", "Info"}
		if err := f.SetSheetRow(explanationSheet, "A1", &header); err != nil {
			return nil, err
		}
		for i, e := range result.Explanations {
			row := []interface{}{e.Code, e.Description, e.CalculationType, e.Info}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(explanationSheet, cell, &row); err != nil {
				return nil, err
			}
		}
		if err := applyStyles(f, explanationSheet, len(header), len(result.Explanations)+1); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

// applyStyles gives the header row a bold grey fill and borders every used
// cell.
func applyStyles(f *excelize.File, sheet string, lastCol, lastRow int) error {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return err
	}

	lastHeader, err := excelize.CoordinatesToCellName(lastCol, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}
	if lastRow > 1 {
		lastCell, err := excelize.CoordinatesToCellName(lastCol, lastRow)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A2", lastCell, dataStyle); err != nil {
			return err
		}
	}

	lastName, err := excelize.ColumnNumberToName(lastCol)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastName, 16)
}
