package xlsx

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"stockfinder/internal"
	"stockfinder/internal/config"
)

// Connector reads a local workbook. The sheet id is the file path.
type Connector struct{}

func NewConnector(cfg config.Config) (*Connector, error) {
	if err := cfg.Require("XLSX_PATH", cfg.XLSXPath); err != nil {
		return nil, err
	}
	return &Connector{}, nil
}

func (c *Connector) FetchAllRows(ctx context.Context, path, worksheet string) ([]internal.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	defer f.Close()

	sheet := strings.TrimSpace(worksheet)
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.Errorf("worksheet %q not found in %s (sheets: %s)", sheet, path, strings.Join(f.GetSheetList(), ", "))
	}

	lines, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read worksheet %q", sheet)
	}
	if len(lines) == 0 {
		return []internal.Row{}, nil
	}

	data := make([][]any, 0, len(lines)-1)
	for _, line := range lines[1:] {
		data = append(data, internal.StringsToCells(line))
	}
	return internal.RowsFromMatrix(lines[0], data), nil
}
