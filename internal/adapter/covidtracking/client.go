package covidtracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/covid-tracker-service/internal/domain"
)

// Client implements pipeline.DataSource using the COVID Tracking Project v1 API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an API client. The timeout bounds each fetch end to end.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Feed paths relative to the API base URL.
const (
	NationalPath = "us/daily.json"
	StatesPath   = "states/daily.json"
)

// FetchNational returns the national daily feed, newest first.
func (c *Client) FetchNational(ctx context.Context) ([]domain.Record, error) {
	return c.fetch(ctx, NationalPath, "national")
}

// FetchByState returns the per-state daily feed, newest first.
func (c *Client) FetchByState(ctx context.Context) ([]domain.Record, error) {
	return c.fetch(ctx, StatesPath, "states")
}

// FetchRaw returns the undecoded body of a feed path, for fixture capture.
func (c *Client) FetchRaw(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrFetchFailed, path, err)
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, path, feed string) ([]domain.Record, error) {
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	records, rowErrs, err := Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s feed: %w", domain.ErrFetchFailed, feed, err)
	}
	for _, re := range rowErrs {
		c.logger.Warn("skipping malformed row", "feed", feed, "row", re.Row, "error", re.Err)
	}
	c.logger.Debug("feed fetched", "feed", feed, "records", len(records), "skipped", len(rowErrs))
	return records, nil
}

// RowError reports a feed row that could not be converted to a record.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Decode parses a daily feed body, keeping the feed's newest-first order.
// Rows that fail to convert are skipped and reported as RowErrors. A JSON
// null body is an error; an empty array is not.
func Decode(r io.Reader) ([]domain.Record, []RowError, error) {
	var rows []dailyRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	if rows == nil {
		return nil, nil, errors.New("no body")
	}

	records := make([]domain.Record, 0, len(rows))
	var rowErrs []RowError
	for i := range rows {
		rec, err := rows[i].toRecord()
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: i, Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, rowErrs, nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s: status %d: %s", domain.ErrFetchFailed, path, resp.StatusCode, body)
	}
	return resp, nil
}

// COVID Tracking API response types.

// dailyRow is one element of us/daily.json or states/daily.json. Only the
// fields the tracker charts are decoded; the increase columns are null on
// days a state did not report.
type dailyRow struct {
	Date             int    `json:"date"` // YYYYMMDD
	State            string `json:"state"`
	NegativeIncrease *int64 `json:"negativeIncrease"`
	PositiveIncrease *int64 `json:"positiveIncrease"`
	DeathIncrease    *int64 `json:"deathIncrease"`
}

func (r *dailyRow) toRecord() (domain.Record, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return domain.Record{}, err
	}
	return domain.Record{
		Date:             date,
		State:            r.State,
		NegativeIncrease: valueOrZero(r.NegativeIncrease),
		PositiveIncrease: valueOrZero(r.PositiveIncrease),
		DeathIncrease:    valueOrZero(r.DeathIncrease),
	}, nil
}

// parseDate converts the API's integer date (20200314) to UTC midnight.
func parseDate(yyyymmdd int) (time.Time, error) {
	s := strconv.Itoa(yyyymmdd)
	t, err := time.Parse("20060102", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %d", yyyymmdd)
	}
	return t, nil
}

func valueOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
