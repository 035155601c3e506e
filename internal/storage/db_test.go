package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestRunsRoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	for i, trace := range []string{"t-1", "t-2", "t-3"} {
		id, err := db.InsertRun(ctx, Run{
			TraceID:          trace,
			Source:           "zoho",
			SelectionJSON:    `{"model":"Activa"}`,
			TotalRecords:     10,
			AvailableRecords: 8,
			FilteredRecords:  i,
			MissingJSON:      `[]`,
			DurationMs:       42,
		})
		if err != nil {
			t.Fatal(err)
		}
		if id != int64(i+1) {
			t.Fatalf("id=%d", id)
		}
	}

	runs, err := db.ListRuns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("len=%d", len(runs))
	}
	if runs[0].TraceID != "t-3" || runs[1].TraceID != "t-2" {
		t.Fatalf("want newest first, got %s, %s", runs[0].TraceID, runs[1].TraceID)
	}
	if runs[0].FilteredRecords != 2 || runs[0].SelectionJSON != `{"model":"Activa"}` || runs[0].CreatedAt == "" {
		t.Fatalf("run=%+v", runs[0])
	}
}

func TestListRunsEmpty(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	runs, err := db.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if runs == nil || len(runs) != 0 {
		t.Fatalf("runs=%v", runs)
	}
}
