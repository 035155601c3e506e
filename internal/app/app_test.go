package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"stockfinder/internal/config"
	"stockfinder/internal/stock"
)

func TestNewWithoutRunLog(t *testing.T) {
	a, err := New(config.Config{RowSource: config.SourceZoho})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if a.DB != nil {
		t.Fatal("run log should be off")
	}

	// Missing configuration surfaces per query, not at startup.
	_, err = a.Stock.Query(context.Background(), stock.Selection{})
	if !errors.Is(err, config.ErrMissing) {
		t.Fatalf("err=%v", err)
	}
}

func TestNewOpensRunLog(t *testing.T) {
	cfg := config.Config{RunLogEnabled: true, DBPath: filepath.Join(t.TempDir(), "data", "app.db")}
	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if a.DB == nil {
		t.Fatal("expected run log db")
	}
	runs, err := a.DB.ListRuns(context.Background(), 5)
	if err != nil || len(runs) != 0 {
		t.Fatalf("runs=%v err=%v", runs, err)
	}
	if a.Server() == nil {
		t.Fatal("nil server")
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
}
