package internal

import "strings"

// RowsFromMatrix turns a header line plus data lines into rows. Blank headers
// are skipped, short lines read as nil, and lines without any non-blank cell
// are dropped.
func RowsFromMatrix(header []string, lines [][]any) []Row {
	out := make([]Row, 0, len(lines))
	for _, line := range lines {
		if blankLine(line) {
			continue
		}
		row := Row{Values: map[string]any{}}
		for i, h := range header {
			h = strings.TrimSpace(h)
			if h == "" {
				continue
			}
			var value any
			if i < len(line) {
				value = line[i]
			}
			row.Set(h, value)
		}
		out = append(out, row)
	}
	return out
}

func blankLine(line []any) bool {
	for _, cell := range line {
		if cell == nil {
			continue
		}
		if s, ok := cell.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		return false
	}
	return true
}

func StringsToCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
