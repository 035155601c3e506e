package columns

import (
	"encoding/json"

	"stockfinder/internal"
	"stockfinder/internal/util"
)

type Field string

const (
	FrameNo     Field = "frameNo"
	Type        Field = "type"
	Model       Field = "model"
	Variant     Field = "variant"
	Color       Field = "color"
	Location    Field = "location"
	BookingDate Field = "bookingDate"
	Executive   Field = "executive"
)

// Fields lists every semantic field in reporting order.
var Fields = []Field{FrameNo, Type, Model, Variant, Color, Location, BookingDate, Executive}

// Required are the fields reported as missing when undetected.
var Required = []Field{FrameNo, Model, Variant, Color, Location, Executive}

// Candidates are compared against NormalizeKey(header).
var candidates = map[Field][]string{
	FrameNo:     {"framnumber", "frame", "framenumber", "frameno", "frameno.", "frame#"},
	Type:        {"type", "mc/sc", "mcsc", "modelcategory", "vehicle", "vehicletype", "vechicle"},
	Model:       {"model", "modelname", "modelnames"},
	Variant:     {"variant", "variantname", "modelvariant"},
	Color:       {"color", "colour"},
	Location:    {"location", "branch"},
	BookingDate: {"bookingdate", "booking"},
	Executive:   {"salesexecutivename", "salesexecutive", "executivename", "executive", "exe.name", "exename"},
}

// Map holds the sheet header chosen for each detected field.
// Fields without an entry are undetected.
type Map map[Field]string

// Resolve picks, for every field, the first header of sample (in key order)
// whose normalized form is one of the field's candidates.
func Resolve(sample internal.Row) Map {
	normalized := make([]string, len(sample.Keys))
	for i, key := range sample.Keys {
		normalized[i] = util.NormalizeKey(key)
	}

	out := Map{}
	for _, field := range Fields {
		if header, ok := pick(sample.Keys, normalized, candidates[field]); ok {
			out[field] = header
		}
	}
	return out
}

func pick(keys, normalized, accepted []string) (string, bool) {
	for i, norm := range normalized {
		for _, c := range accepted {
			if norm == c {
				return keys[i], true
			}
		}
	}
	return "", false
}

func (m Map) Header(f Field) (string, bool) {
	header, ok := m[f]
	return header, ok
}

// Value returns the trimmed text of f in row, or "" when f is undetected.
func (m Map) Value(row internal.Row, f Field) string {
	header, ok := m[f]
	if !ok {
		return ""
	}
	return util.Str(row.Get(header))
}

// Raw returns the untouched cell of f in row, or nil when f is undetected.
func (m Map) Raw(row internal.Row, f Field) any {
	header, ok := m[f]
	if !ok {
		return nil
	}
	return row.Get(header)
}

func (m Map) Missing() []Field {
	out := make([]Field, 0)
	for _, f := range Required {
		if _, ok := m[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}

// MarshalJSON emits every field, with null for undetected ones.
func (m Map) MarshalJSON() ([]byte, error) {
	out := make(map[Field]*string, len(Fields))
	for _, f := range Fields {
		if header, ok := m[f]; ok {
			out[f] = util.StringPtr(header)
		} else {
			out[f] = nil
		}
	}
	return json.Marshal(out)
}
