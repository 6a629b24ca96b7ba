package export

import (
	"fmt"
	"io"

	"github.com/rileyhilliard/vitals/internal/vitals"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet that holds the samples.
const SheetName = "Signos Vitales"

// WriteXLSX writes a workbook with a header row and one row per sample.
// Numeric cells are stored as numbers and missing values are left blank.
func WriteXLSX(w io.Writer, samples []vitals.Sample) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", "F", 13); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	for i, s := range samples {
		r := i + 2
		if err := setCellValue(f, 1, r, s.Timestamp); err != nil {
			return err
		}
		for j, m := range vitals.Metrics {
			v := s.Value(m)
			if v == nil {
				continue
			}
			if err := setCellValue(f, j+2, r, *v); err != nil {
				return err
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setCellValue(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
