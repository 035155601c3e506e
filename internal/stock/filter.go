package stock

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"stockfinder/internal"
	"stockfinder/internal/columns"
	"stockfinder/internal/util"
)

const invoicedMarker = "INVOICED"

// Selection holds the equality filters of one query. Empty means no constraint.
type Selection struct {
	Model    string `json:"model,omitempty"`
	Variant  string `json:"variant,omitempty"`
	Color    string `json:"color,omitempty"`
	Location string `json:"location,omitempty"`
}

func (s Selection) Trimmed() Selection {
	return Selection{
		Model:    strings.TrimSpace(s.Model),
		Variant:  strings.TrimSpace(s.Variant),
		Color:    strings.TrimSpace(s.Color),
		Location: strings.TrimSpace(s.Location),
	}
}

type Options struct {
	Models    []string `json:"models"`
	Variants  []string `json:"variants"`
	Colors    []string `json:"colors"`
	Locations []string `json:"locations"`
}

func EmptyOptions() Options {
	return Options{Models: []string{}, Variants: []string{}, Colors: []string{}, Locations: []string{}}
}

type Outcome struct {
	Options   Options
	Results   []internal.ResultRow
	Available int
}

// Apply drops invoiced rows, walks the model -> variant -> color -> location
// cascade and projects what is left. Each option list only reflects the
// filters applied before its dimension.
func Apply(rows []internal.Row, cols columns.Map, sel Selection) Outcome {
	sel = sel.Trimmed()

	available := lo.Filter(rows, func(row internal.Row, _ int) bool {
		return !util.ContainsFold(cols.Raw(row, columns.Location), invoicedMarker)
	})

	opts := EmptyOptions()
	steps := []struct {
		field columns.Field
		want  string
		out   *[]string
	}{
		{field: columns.Model, want: sel.Model, out: &opts.Models},
		{field: columns.Variant, want: sel.Variant, out: &opts.Variants},
		{field: columns.Color, want: sel.Color, out: &opts.Colors},
		{field: columns.Location, want: sel.Location, out: &opts.Locations},
	}

	working := available
	for _, step := range steps {
		*step.out = distinctValues(working, cols, step.field)
		working = narrow(working, cols, step.field, step.want)
	}

	return Outcome{
		Options:   opts,
		Results:   project(working, cols),
		Available: len(available),
	}
}

func distinctValues(rows []internal.Row, cols columns.Map, field columns.Field) []string {
	values := lo.Uniq(lo.FilterMap(rows, func(row internal.Row, _ int) (string, bool) {
		v := cols.Value(row, field)
		return v, v != ""
	}))
	sort.Strings(values)
	return values
}

func narrow(rows []internal.Row, cols columns.Map, field columns.Field, want string) []internal.Row {
	if want == "" {
		return rows
	}
	return lo.Filter(rows, func(row internal.Row, _ int) bool {
		return cols.Value(row, field) == want
	})
}

func project(rows []internal.Row, cols columns.Map) []internal.ResultRow {
	out := make([]internal.ResultRow, 0, len(rows))
	for _, row := range rows {
		r := internal.ResultRow{
			FrameNumber:   cols.Value(row, columns.FrameNo),
			Color:         cols.Value(row, columns.Color),
			Location:      cols.Value(row, columns.Location),
			ExecutiveName: cols.Value(row, columns.Executive),
			Model:         cols.Value(row, columns.Model),
			Variant:       cols.Value(row, columns.Variant),
		}
		if r.FrameNumber == "" {
			continue
		}
		out = append(out, r)
	}

	// collate.Collator keeps scratch buffers, so one per call.
	coll := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		return coll.CompareString(out[i].Color, out[j].Color) < 0
	})
	return out
}
