// Package sheets is the typed adapter for the spreadsheet backend: a token
// provider (service-account JWT exchange) and a values client over named
// tabular ranges with categorized errors and transient-fault retries.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Client is the adapter surface the stores build on.
//
// Row indices are 1-based and row 1 is the header, matching the sheet
// itself. Callers must re-observe a row index immediately before Update
// rather than caching it across suspension points; with a single writer per
// sheet appends only ever add rows below existing ones, which is the
// assumption that keeps observed indices stable.
type Client interface {
	GetValues(ctx context.Context, rangeA1 string) ([][]string, error)
	BatchGet(ctx context.Context, ranges []string) ([][][]string, error)
	Append(ctx context.Context, rangeA1 string, row []string) (int, error)
	Update(ctx context.Context, sheet string, rowIndex int, row []string) (int, error)
	IsConfigured() bool
	HealthCheck(ctx context.Context) Health
}

// Health is the result of a trivial probe read.
type Health struct {
	Connected bool   `json:"connected"`
	LatencyMs int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

const maxRetries = 3

// Config for the values client. BaseURL is overridable for tests.
type Config struct {
	SpreadsheetID string
	BaseURL       string // defaults to the Google Sheets v4 values endpoint
}

type valuesClient struct {
	cfg        Config
	tokens     TokenProvider
	httpClient *http.Client
	logger     *zap.Logger
	newBackOff func() backoff.BackOff
}

// New returns the production values client with a 30s per-call timeout and
// exponential backoff (1s base, 16s cap, full jitter) on the transient
// error class.
func New(cfg Config, tokens TokenProvider, logger *zap.Logger) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://sheets.googleapis.com/v4/spreadsheets"
	}
	return &valuesClient{
		cfg:        cfg,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.RandomizationFactor = 1
			b.Multiplier = 2
			b.MaxInterval = 16 * time.Second
			b.MaxElapsedTime = 0
			return b
		},
	}
}

func (c *valuesClient) IsConfigured() bool {
	if c.cfg.SpreadsheetID == "" {
		return false
	}
	if ts, ok := c.tokens.(*TokenSource); ok {
		return ts.configured()
	}
	return true
}

func (c *valuesClient) HealthCheck(ctx context.Context) Health {
	start := time.Now()
	_, err := c.GetValues(ctx, "EVENTS!A1:A1")
	h := Health{Connected: err == nil, LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		h.Error = string(KindOf(err))
	}
	return h
}

// valueRange mirrors the upstream JSON shape. Cells arrive as arbitrary
// scalars; everything is flattened to strings because the row codecs only
// deal in strings.
type valueRange struct {
	Values [][]interface{} `json:"values"`
}

func (vr valueRange) rows() [][]string {
	out := make([][]string, len(vr.Values))
	for i, raw := range vr.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			switch v := cell.(type) {
			case string:
				row[j] = v
			case nil:
				row[j] = ""
			case float64:
				// Trim the float artifacts JSON decoding introduces for ints.
				row[j] = trimFloat(v)
			default:
				row[j] = fmt.Sprint(v)
			}
		}
		out[i] = row
	}
	return out
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func (c *valuesClient) GetValues(ctx context.Context, rangeA1 string) ([][]string, error) {
	u := fmt.Sprintf("%s/%s/values/%s", c.cfg.BaseURL, c.cfg.SpreadsheetID, url.PathEscape(rangeA1))
	var vr valueRange
	if err := c.do(ctx, http.MethodGet, u, nil, &vr); err != nil {
		return nil, err
	}
	return vr.rows(), nil
}

func (c *valuesClient) BatchGet(ctx context.Context, ranges []string) ([][][]string, error) {
	q := url.Values{}
	for _, r := range ranges {
		q.Add("ranges", r)
	}
	u := fmt.Sprintf("%s/%s/values:batchGet?%s", c.cfg.BaseURL, c.cfg.SpreadsheetID, q.Encode())
	var payload struct {
		ValueRanges []valueRange `json:"valueRanges"`
	}
	if err := c.do(ctx, http.MethodGet, u, nil, &payload); err != nil {
		return nil, err
	}
	out := make([][][]string, len(payload.ValueRanges))
	for i, vr := range payload.ValueRanges {
		out[i] = vr.rows()
	}
	return out, nil
}

func (c *valuesClient) Append(ctx context.Context, rangeA1 string, row []string) (int, error) {
	u := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS",
		c.cfg.BaseURL, c.cfg.SpreadsheetID, url.PathEscape(rangeA1))
	body := map[string]interface{}{"values": [][]string{row}}
	var payload struct {
		Updates struct {
			UpdatedRows int `json:"updatedRows"`
		} `json:"updates"`
	}
	if err := c.do(ctx, http.MethodPost, u, body, &payload); err != nil {
		return 0, err
	}
	return payload.Updates.UpdatedRows, nil
}

func (c *valuesClient) Update(ctx context.Context, sheet string, rowIndex int, row []string) (int, error) {
	if rowIndex < 2 {
		return 0, newError(KindBadRange, 0, fmt.Sprintf("row index %d is not a data row", rowIndex))
	}
	rangeA1 := fmt.Sprintf("%s!A%d:%s%d", sheet, rowIndex, columnLetter(len(row)), rowIndex)
	u := fmt.Sprintf("%s/%s/values/%s?valueInputOption=RAW",
		c.cfg.BaseURL, c.cfg.SpreadsheetID, url.PathEscape(rangeA1))
	body := map[string]interface{}{"values": [][]string{row}}
	var payload struct {
		UpdatedRows int `json:"updatedRows"`
	}
	if err := c.do(ctx, http.MethodPut, u, body, &payload); err != nil {
		return 0, err
	}
	return payload.UpdatedRows, nil
}

// columnLetter converts a 1-based column count to its A1 letter ("G" for 7).
func columnLetter(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}
	return s
}

// do executes one adapter call with retries on the transient class. All
// other kinds surface immediately. On exhaustion or failure a structured
// record is logged; upstream bodies never reach logs or callers.
func (c *valuesClient) do(ctx context.Context, method, u string, body, dest interface{}) error {
	if !c.IsConfigured() {
		return newError(KindNotConfigured, 0, "spreadsheet credentials are not configured")
	}

	start := time.Now()
	retries := 0

	op := func() error {
		err := c.once(ctx, method, u, body, dest)
		if err == nil {
			return nil
		}
		var se *Error
		if errors.As(err, &se) && se.retryable() && retries < maxRetries {
			retries++
			return err
		}
		return backoff.Permanent(err)
	}

	err := backoff.Retry(op, backoff.WithContext(c.newBackOff(), ctx))
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			se.Retries = retries
			c.logger.Error("sheets request failed",
				zap.String("type", "sheets_api"),
				zap.String("code", string(se.Kind)),
				zap.String("message", se.Message),
				zap.Int("retries", retries),
				zap.Int64("latencyMs", time.Since(start).Milliseconds()),
			)
			return se
		}
		return wrapError(KindInternal, "sheets request failed", err)
	}
	return nil
}

func (c *valuesClient) once(ctx context.Context, method, u string, body, dest interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return wrapError(KindInternal, "marshal request body", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return wrapError(KindInternal, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapError(KindUpstreamTransient, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return wrapError(KindUpstreamTransient, "read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(kindForStatus(resp.StatusCode), resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if dest != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, dest); err != nil {
			return wrapError(KindInternal, "decode response", err)
		}
	}
	return nil
}
