package models

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is a named grid used to build workbook fixtures in tests.
type Sheet struct {
	Name string
	Rows [][]any
}

// WriteWorkbookFixture writes an xlsx file with the given sheets. The first
// sheet replaces the default "Sheet1".
func WriteWorkbookFixture(t *testing.T, path string, sheets []Sheet) {
	t.Helper()

	f := excelize.NewFile()
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				t.Fatalf("Failed to rename default sheet to %s: %v", sheet.Name, err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				t.Fatalf("Failed to create sheet %s: %v", sheet.Name, err)
			}
		}
		for r := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("Failed to compute cell name for row %d: %v", r+1, err)
			}
			if err := f.SetSheetRow(sheet.Name, cell, &sheet.Rows[r]); err != nil {
				t.Fatalf("Failed to write row %d of sheet %s: %v", r+1, sheet.Name, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook fixture %s: %v", path, err)
	}
	_ = f.Close()
}
