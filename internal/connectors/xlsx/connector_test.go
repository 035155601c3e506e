package xlsx

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func mkXLSX(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != f.GetSheetName(0) {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			t.Fatal(err)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	path := filepath.Join(t.TempDir(), "stock.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFetchAllRows(t *testing.T) {
	path := mkXLSX(t, "Allocation Sheet", [][]any{
		{"Frame No", "Model", "Variant", "Colour", "Branch"},
		{"F1", "Activa", "STD", "Red", "Showroom"},
		{"F2", "Dio", "DLX", "Blue"},
		{nil, nil, nil, nil, nil},
		{"F3", "Activa", "DLX", "Grey", "INVOICED"},
	})

	rows, err := (&Connector{}).FetchAllRows(context.Background(), path, "Allocation Sheet")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("len=%d", len(rows))
	}
	if strings.Join(rows[0].Keys, "|") != "Frame No|Model|Variant|Colour|Branch" {
		t.Fatalf("keys=%v", rows[0].Keys)
	}
	if rows[1].Get("Branch") != nil {
		t.Fatalf("missing trailing cell should be nil, got %v", rows[1].Get("Branch"))
	}
	if rows[2].Get("Frame No") != "F3" {
		t.Fatalf("row=%+v", rows[2])
	}
}

func TestFetchAllRowsUnknownWorksheet(t *testing.T) {
	path := mkXLSX(t, "Sheet1", [][]any{{"Frame No"}})
	_, err := (&Connector{}).FetchAllRows(context.Background(), path, "Allocation Sheet")
	if err == nil || !strings.Contains(err.Error(), "Allocation Sheet") {
		t.Fatalf("err=%v", err)
	}
}
