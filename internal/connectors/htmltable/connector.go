package htmltable

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"stockfinder/internal"
	"stockfinder/internal/util"
)

// Connector scrapes a published HTML table. The sheet id is the page URL.
type Connector struct {
	httpClient *http.Client
}

func NewConnector(timeout time.Duration) *Connector {
	return &Connector{httpClient: &http.Client{Timeout: timeout}}
}

func (c *Connector) WithHTTPClient(hc *http.Client) *Connector {
	c.httpClient = hc
	return c
}

func (c *Connector) FetchAllRows(ctx context.Context, pageURL, worksheet string) ([]internal.Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build table request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", pageURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d: %s", pageURL, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}
	return ParseTable(doc, worksheet)
}

// ParseTable reads the table whose id or caption equals worksheet, falling
// back to the first table. The first table line is the header.
func ParseTable(doc *goquery.Document, worksheet string) ([]internal.Row, error) {
	tables := doc.Find("table")
	if tables.Length() == 0 {
		return nil, errors.New("no <table> found")
	}

	table := tables.First()
	if name := strings.TrimSpace(worksheet); name != "" {
		match := tables.FilterFunction(func(_ int, s *goquery.Selection) bool {
			id, _ := s.Attr("id")
			caption := strings.TrimSpace(s.Find("caption").First().Text())
			return strings.EqualFold(id, name) || strings.EqualFold(caption, name)
		})
		if match.Length() > 0 {
			table = match.First()
		}
	}

	lines := table.Find("tr")
	if lines.Length() == 0 {
		return []internal.Row{}, nil
	}

	header := cellTexts(lines.First())
	data := make([][]any, 0, lines.Length()-1)
	lines.Slice(1, lines.Length()).Each(func(_ int, tr *goquery.Selection) {
		data = append(data, internal.StringsToCells(cellTexts(tr)))
	})
	return internal.RowsFromMatrix(header, data), nil
}

func cellTexts(tr *goquery.Selection) []string {
	var out []string
	tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, util.Str(cell.Text()))
	})
	return out
}
