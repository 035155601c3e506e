package stock

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"stockfinder/internal"
	"stockfinder/internal/columns"
	"stockfinder/internal/config"
	"stockfinder/internal/connectors"
	"stockfinder/internal/storage"
)

const emptySheetNote = "No records returned from sheet (or sheet empty)."

type Meta struct {
	TotalRecords     int `json:"totalRecords"`
	AvailableRecords int `json:"availableRecords"`
	FilteredRecords  int `json:"filteredRecords"`
}

type Debug struct {
	DetectedColumns      columns.Map     `json:"detectedColumns"`
	AvailableKeysInSheet []string        `json:"availableKeysInSheet"`
	MissingDetected      []columns.Field `json:"missingDetected"`
}

type Response struct {
	Options Options              `json:"options"`
	Results []internal.ResultRow `json:"results"`
	Meta    *Meta                `json:"meta,omitempty"`
	Debug   *Debug               `json:"debug,omitempty"`
	Note    string               `json:"note,omitempty"`

	TraceID string `json:"-"`
}

// RunLog records answered queries. storage.DB satisfies it.
type RunLog interface {
	InsertRun(ctx context.Context, run storage.Run) (int64, error)
}

type Service struct {
	cfg    config.Config
	source connectors.RowSource
	runs   RunLog
	now    func() time.Time
}

func NewService(cfg config.Config, source connectors.RowSource) *Service {
	return &Service{cfg: cfg, source: source, now: time.Now}
}

// WithRunLog enables run recording. A nil log disables it.
func (s *Service) WithRunLog(runs RunLog) *Service {
	s.runs = runs
	return s
}

// Query fetches the worksheet, resolves its columns from the first record and
// runs the filter cascade for sel.
func (s *Service) Query(ctx context.Context, sel Selection) (Response, error) {
	sel = sel.Trimmed()
	traceID := uuid.NewString()
	logger := log.With().Str("traceId", traceID).Str("source", s.sourceName()).Logger()

	envName, sheetID := s.cfg.SheetTarget()
	if err := s.cfg.Require(envName, sheetID); err != nil {
		logger.Error().Err(err).Msg("stock query rejected")
		return Response{}, err
	}

	started := s.now()
	rows, err := s.source.FetchAllRows(ctx, sheetID, s.cfg.Worksheet)
	if err != nil {
		logger.Error().Err(err).Str("worksheet", s.cfg.Worksheet).Msg("fetch rows failed")
		return Response{}, err
	}

	if len(rows) == 0 {
		logger.Warn().Str("worksheet", s.cfg.Worksheet).Msg("sheet returned no records")
		s.record(ctx, traceID, sel, Meta{}, nil, started)
		return Response{
			Options: EmptyOptions(),
			Results: []internal.ResultRow{},
			Note:    emptySheetNote,
			TraceID: traceID,
		}, nil
	}

	cols := columns.Resolve(rows[0])
	missing := cols.Missing()
	if len(missing) > 0 {
		logger.Warn().Interface("missing", missing).Strs("keys", rows[0].Keys).Msg("columns not detected")
	}

	outcome := Apply(rows, cols, sel)
	meta := Meta{
		TotalRecords:     len(rows),
		AvailableRecords: outcome.Available,
		FilteredRecords:  len(outcome.Results),
	}

	logger.Info().
		Interface("selection", sel).
		Int("total", meta.TotalRecords).
		Int("available", meta.AvailableRecords).
		Int("filtered", meta.FilteredRecords).
		Dur("elapsed", s.now().Sub(started)).
		Msg("stock query")
	s.record(ctx, traceID, sel, meta, missing, started)

	return Response{
		Options: outcome.Options,
		Results: outcome.Results,
		Meta:    &meta,
		Debug: &Debug{
			DetectedColumns:      cols,
			AvailableKeysInSheet: append([]string{}, rows[0].Keys...),
			MissingDetected:      missing,
		},
		TraceID: traceID,
	}, nil
}

func (s *Service) sourceName() string {
	if s.cfg.RowSource == "" {
		return config.SourceZoho
	}
	return s.cfg.RowSource
}

// record failures are logged and never reach the caller.
func (s *Service) record(ctx context.Context, traceID string, sel Selection, meta Meta, missing []columns.Field, started time.Time) {
	if s.runs == nil {
		return
	}
	if missing == nil {
		missing = []columns.Field{}
	}
	selectionJSON, _ := json.Marshal(sel)
	missingJSON, _ := json.Marshal(missing)

	_, err := s.runs.InsertRun(ctx, storage.Run{
		TraceID:          traceID,
		Source:           s.sourceName(),
		SelectionJSON:    string(selectionJSON),
		TotalRecords:     meta.TotalRecords,
		AvailableRecords: meta.AvailableRecords,
		FilteredRecords:  meta.FilteredRecords,
		MissingJSON:      string(missingJSON),
		DurationMs:       s.now().Sub(started).Milliseconds(),
	})
	if err != nil {
		log.Warn().Err(err).Str("traceId", traceID).Msg("record run failed")
	}
}
