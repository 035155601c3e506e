package zoho

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"stockfinder/internal"
	"stockfinder/internal/config"
)

// PageSize is the most records worksheet.records.fetch returns per call.
const PageSize = 1000

// APIError is a failed Sheet API call. Body holds the raw response text.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zoho sheet api failed: status=%d body=%s", e.Status, e.Body)
}

type TokenSource interface {
	Token(ctx context.Context) (Credential, error)
}

type Client struct {
	creds      TokenSource
	httpClient *http.Client
}

type recordsPayload struct {
	Status  string         `json:"status"`
	Records []internal.Row `json:"records"`
}

func NewClient(cfg config.Config) (*Client, error) {
	if err := cfg.Require("ZOHO_CLIENT_ID", cfg.ZohoClientID); err != nil {
		return nil, err
	}
	if err := cfg.Require("ZOHO_CLIENT_SECRET", cfg.ZohoClientSecret); err != nil {
		return nil, err
	}
	if err := cfg.Require("ZOHO_REFRESH_TOKEN", cfg.ZohoRefreshToken); err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.ZohoTimeoutMs) * time.Millisecond
	oauthCfg := OAuthConfig(cfg.ZohoClientID, cfg.ZohoClientSecret, cfg.ZohoAccountsURL)
	creds := NewCredentialProvider(oauthCfg, cfg.ZohoRefreshToken, cfg.ZohoSheetAPIURL).
		WithHTTPClient(&http.Client{Timeout: timeout})

	return NewClientWithCredentials(creds, &http.Client{Timeout: timeout}), nil
}

func NewClientWithCredentials(creds TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{creds: creds, httpClient: httpClient}
}

// FetchAllRows pages through worksheet.records.fetch until a short page.
func (c *Client) FetchAllRows(ctx context.Context, resourceID, worksheet string) ([]internal.Row, error) {
	all := make([]internal.Row, 0)
	start := 1

	for {
		records, err := c.fetchPage(ctx, resourceID, worksheet, start)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
		log.Debug().Str("worksheet", worksheet).Int("start", start).Int("records", len(records)).Msg("zoho page fetched")

		if len(records) < PageSize {
			break
		}
		start += PageSize
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, resourceID, worksheet string, start int) ([]internal.Row, error) {
	cred, err := c.creds.Token(ctx)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(strings.TrimRight(cred.APIDomain, "/") + "/api/v2/" + url.PathEscape(resourceID))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	q := u.Query()
	q.Set("method", "worksheet.records.fetch")
	q.Set("worksheet_name", worksheet)
	q.Set("records_start_index", strconv.Itoa(start))
	q.Set("count", strconv.Itoa(PageSize))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+cred.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "zoho sheet request")
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, errors.Wrap(err, "zoho sheet response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.WithStack(&APIError{Status: resp.StatusCode, Body: string(body)})
	}

	var payload recordsPayload
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, errors.WithStack(&APIError{Status: resp.StatusCode, Body: string(body)})
		}
	}
	if payload.Status == "failure" {
		return nil, errors.WithStack(&APIError{Status: resp.StatusCode, Body: string(body)})
	}

	return payload.Records, nil
}
