package app

import (
	"github.com/rs/zerolog/log"

	"stockfinder/internal/config"
	"stockfinder/internal/connectors"
	"stockfinder/internal/httpapi"
	"stockfinder/internal/stock"
	"stockfinder/internal/storage"
)

// App holds the long-lived pieces shared by the binaries.
type App struct {
	Config config.Config
	DB     *storage.DB
	Stock  *stock.Service
}

// New opens the run log (when enabled) and a lazily built row source, so
// missing source secrets fail individual queries instead of startup.
func New(cfg config.Config) (*App, error) {
	a := &App{Config: cfg}
	a.Stock = stock.NewService(cfg, connectors.NewLazy(cfg))

	if cfg.RunLogEnabled {
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		a.DB = db
		a.Stock.WithRunLog(db)
		log.Debug().Str("path", cfg.DBPath).Msg("run log enabled")
	}
	return a, nil
}

func (a *App) Server() *httpapi.Server {
	return httpapi.NewServer(a.Config, a.Stock)
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
