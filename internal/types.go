package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is one sheet record. Keys keeps the header order the source returned,
// which is what column detection walks.
type Row struct {
	Keys   []string
	Values map[string]any
}

func NewRow(keys []string, values ...any) Row {
	row := Row{Keys: make([]string, 0, len(keys)), Values: make(map[string]any, len(keys))}
	for i, key := range keys {
		var value any
		if i < len(values) {
			value = values[i]
		}
		row.Set(key, value)
	}
	return row
}

// Set assigns value to key. A repeated key keeps its first position.
func (r *Row) Set(key string, value any) {
	if r.Values == nil {
		r.Values = map[string]any{}
	}
	if _, ok := r.Values[key]; !ok {
		r.Keys = append(r.Keys, key)
	}
	r.Values[key] = value
}

func (r Row) Get(key string) any {
	if key == "" || r.Values == nil {
		return nil
	}
	return r.Values[key]
}

func (r *Row) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row: expected object, got %v", tok)
	}

	r.Keys = nil
	r.Values = map[string]any{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("row: unexpected key token %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		r.Set(key, value)
	}

	_, err = dec.Token()
	return err
}

func (r Row) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBufferString("{")
	for i, key := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.Values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type ResultRow struct {
	FrameNumber   string `json:"frameNumber"`
	Color         string `json:"color"`
	Location      string `json:"location"`
	ExecutiveName string `json:"executiveName"`
	Model         string `json:"model"`
	Variant       string `json:"variant"`
}
