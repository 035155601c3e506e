package connectors

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stockfinder/internal"
	"stockfinder/internal/config"
	"stockfinder/internal/connectors/gsheets"
	"stockfinder/internal/connectors/htmltable"
	"stockfinder/internal/connectors/xlsx"
	"stockfinder/internal/connectors/zoho"
)

const htmlFetchTimeout = 30 * time.Second

// Open builds the row source named by cfg.RowSource.
func Open(cfg config.Config) (RowSource, error) {
	switch cfg.RowSource {
	case config.SourceZoho, "":
		return zoho.NewClient(cfg)
	case config.SourceGoogle:
		return gsheets.NewConnector(cfg)
	case config.SourceXLSX:
		return xlsx.NewConnector(cfg)
	case config.SourceHTML:
		return htmltable.NewConnector(htmlFetchTimeout), nil
	default:
		return nil, fmt.Errorf("unknown ROW_SOURCE %q (want zoho, google, xlsx or html)", cfg.RowSource)
	}
}

// Lazy builds its source on first successful use and keeps it. A build
// failure is returned to that caller and retried on the next call.
type Lazy struct {
	cfg   config.Config
	open  func(config.Config) (RowSource, error)
	mu    sync.Mutex
	built RowSource
}

func NewLazy(cfg config.Config) *Lazy {
	return &Lazy{cfg: cfg, open: Open}
}

func (l *Lazy) source() (RowSource, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.built != nil {
		return l.built, nil
	}
	src, err := l.open(l.cfg)
	if err != nil {
		return nil, err
	}
	l.built = src
	return src, nil
}

func (l *Lazy) FetchAllRows(ctx context.Context, sheetID, worksheet string) ([]internal.Row, error) {
	src, err := l.source()
	if err != nil {
		return nil, err
	}
	return src.FetchAllRows(ctx, sheetID, worksheet)
}
