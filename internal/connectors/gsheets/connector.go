package gsheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"stockfinder/internal"
	"stockfinder/internal/config"
	"stockfinder/internal/util"
)

// PageSize is how many sheet lines one values.get call covers.
const PageSize = 1000

type Connector struct {
	service *sheets.Service
}

func NewConnector(cfg config.Config) (*Connector, error) {
	if err := cfg.Require("GOOGLE_CLIENT_ID", cfg.GoogleClientID); err != nil {
		return nil, err
	}
	if err := cfg.Require("GOOGLE_CLIENT_SECRET", cfg.GoogleClientSecret); err != nil {
		return nil, err
	}
	if err := cfg.Require("GOOGLE_REFRESH_TOKEN", cfg.GoogleRefreshToken); err != nil {
		return nil, err
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsReadonlyScope},
	}

	tokenSource := oauthCfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.GoogleRefreshToken})
	return NewConnectorWithOptions(context.Background(), option.WithTokenSource(tokenSource))
}

func NewConnectorWithOptions(ctx context.Context, opts ...option.ClientOption) (*Connector, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "google sheets service")
	}
	return &Connector{service: svc}, nil
}

// FetchAllRows reads the header line, then data lines in pages until a short page.
func (c *Connector) FetchAllRows(ctx context.Context, spreadsheetID, worksheet string) ([]internal.Row, error) {
	headerLines, err := c.getRange(ctx, spreadsheetID, a1Range(worksheet, 1, 1))
	if err != nil {
		return nil, err
	}
	if len(headerLines) == 0 {
		return []internal.Row{}, nil
	}
	header := make([]string, len(headerLines[0]))
	for i, cell := range headerLines[0] {
		header[i] = util.Str(cell)
	}

	all := make([]internal.Row, 0)
	for start := 2; ; start += PageSize {
		lines, err := c.getRange(ctx, spreadsheetID, a1Range(worksheet, start, start+PageSize-1))
		if err != nil {
			return nil, err
		}
		all = append(all, internal.RowsFromMatrix(header, lines)...)
		if len(lines) < PageSize {
			break
		}
	}
	return all, nil
}

func (c *Connector) getRange(ctx context.Context, spreadsheetID, rng string) ([][]any, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "google sheets values.get %s", rng)
	}
	return resp.Values, nil
}

// a1Range addresses whole lines first..last of worksheet.
func a1Range(worksheet string, first, last int) string {
	if strings.TrimSpace(worksheet) == "" {
		return fmt.Sprintf("%d:%d", first, last)
	}
	quoted := "'" + strings.ReplaceAll(worksheet, "'", "''") + "'"
	return fmt.Sprintf("%s!%d:%d", quoted, first, last)
}
