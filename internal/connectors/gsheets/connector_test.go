package gsheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"

	"stockfinder/internal/config"
)

func TestA1Range(t *testing.T) {
	if got := a1Range("Allocation Sheet", 2, 1001); got != "'Allocation Sheet'!2:1001" {
		t.Fatalf("got %s", got)
	}
	if got := a1Range("Owner's", 1, 1); got != "'Owner''s'!1:1" {
		t.Fatalf("got %s", got)
	}
	if got := a1Range("", 1, 1); got != "1:1" {
		t.Fatalf("got %s", got)
	}
}

func TestFetchAllRows(t *testing.T) {
	var ranges []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "/v4/spreadsheets/sheet-1/values/"
		if !strings.HasPrefix(r.URL.Path, prefix) {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		rng := strings.TrimPrefix(r.URL.Path, prefix)
		ranges = append(ranges, rng)

		var values [][]any
		switch rng {
		case "'Allocation Sheet'!1:1":
			values = [][]any{{"Frame No", "Model", "Colour", "Location"}}
		case "'Allocation Sheet'!2:1001":
			values = [][]any{
				{"F1", "Activa", "Red", "Showroom"},
				{},
				{"F2", "Dio"},
			}
		default:
			t.Errorf("unexpected range %s", rng)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"range": rng, "majorDimension": "ROWS", "values": values})
	}))
	defer srv.Close()

	conn, err := NewConnectorWithOptions(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatal(err)
	}

	rows, err := conn.FetchAllRows(context.Background(), "sheet-1", "Allocation Sheet")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("len=%d", len(rows))
	}
	if strings.Join(rows[0].Keys, "|") != "Frame No|Model|Colour|Location" {
		t.Fatalf("keys=%v", rows[0].Keys)
	}
	if rows[1].Get("Frame No") != "F2" || rows[1].Get("Location") != nil {
		t.Fatalf("row=%+v", rows[1])
	}
	if len(ranges) != 2 {
		t.Fatalf("ranges=%v", ranges)
	}
}

func TestNewConnectorRequiresSecrets(t *testing.T) {
	_, err := NewConnector(config.Config{})
	if err == nil || !strings.Contains(err.Error(), "GOOGLE_CLIENT_ID") {
		t.Fatalf("err=%v", err)
	}
}
