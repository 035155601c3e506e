package stock

import (
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"stockfinder/internal"
)

var exportHeaders = []string{"frame_number", "model", "variant", "color", "location", "executive_name"}

func resultsWorkbook(rows []internal.ResultRow) *excelize.File {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, row.FrameNumber)
		set(2, row.Model)
		set(3, row.Variant)
		set(4, row.Color)
		set(5, row.Location)
		set(6, row.ExecutiveName)
	}
	return f
}

func WriteResultsXLSX(rows []internal.ResultRow, w io.Writer) error {
	f := resultsWorkbook(rows)
	defer f.Close()
	return f.Write(w)
}

func SaveResultsXLSX(rows []internal.ResultRow, outputPath string) error {
	f := resultsWorkbook(rows)
	defer f.Close()
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
