package connectors

import (
	"context"
	"errors"
	"testing"

	"stockfinder/internal"
	"stockfinder/internal/config"
	"stockfinder/internal/connectors/htmltable"
	"stockfinder/internal/connectors/zoho"
)

type fixedSource struct{ rows []internal.Row }

func (f fixedSource) FetchAllRows(context.Context, string, string) ([]internal.Row, error) {
	return f.rows, nil
}

func TestOpenDefaultsToZoho(t *testing.T) {
	_, err := Open(config.Config{})
	if !errors.Is(err, config.ErrMissing) {
		t.Fatalf("expected missing config error, got %v", err)
	}

	src, err := Open(config.Config{ZohoClientID: "id", ZohoClientSecret: "s", ZohoRefreshToken: "r", ZohoTimeoutMs: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*zoho.Client); !ok {
		t.Fatalf("got %T", src)
	}
}

func TestOpenSources(t *testing.T) {
	src, err := Open(config.Config{RowSource: config.SourceHTML})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*htmltable.Connector); !ok {
		t.Fatalf("got %T", src)
	}

	if _, err := Open(config.Config{RowSource: "csv"}); err == nil {
		t.Fatal("expected unknown source error")
	}
}

func TestLazyRetriesUntilBuilt(t *testing.T) {
	calls := 0
	l := &Lazy{open: func(config.Config) (RowSource, error) {
		calls++
		if calls == 1 {
			return nil, config.Config{}.Require("ZOHO_CLIENT_ID", "")
		}
		return fixedSource{rows: []internal.Row{internal.NewRow([]string{"a"}, "1")}}, nil
	}}

	if _, err := l.FetchAllRows(context.Background(), "s", "w"); !errors.Is(err, config.ErrMissing) {
		t.Fatalf("err=%v", err)
	}
	for i := 0; i < 2; i++ {
		rows, err := l.FetchAllRows(context.Background(), "s", "w")
		if err != nil || len(rows) != 1 {
			t.Fatalf("rows=%v err=%v", rows, err)
		}
	}
	if calls != 2 {
		t.Fatalf("built %d times", calls)
	}
}
