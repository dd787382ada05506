package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zeventbooks/event-gateway/internal/model"
	"github.com/zeventbooks/event-gateway/internal/sheets"
)

const (
	analyticsSource  = "worker"
	maxUserAgentLen  = 200
	maxRefererLen    = 200
	legacyClickEvent = "shortlink_click"
)

// AnalyticsStore appends metric rows. All writes are append-only and
// best-effort: callers on hot paths fire them without blocking responses.
type AnalyticsStore interface {
	Append(ctx context.Context, ev *model.AnalyticsEvent) error
	AppendBatch(ctx context.Context, evs []*model.AnalyticsEvent) (int, error)
	AppendLegacyClick(ctx context.Context, eventID, sponsorID, surface, token, userAgent, referer string)
}

type analyticsStore struct {
	client sheets.Client
	env    string
	logger *zap.Logger
	now    func() time.Time
}

// NewAnalyticsStore returns the sheets-backed AnalyticsStore. env is the
// deployment environment column value (prod, stg or dev).
func NewAnalyticsStore(client sheets.Client, env string, logger *zap.Logger) AnalyticsStore {
	return &analyticsStore{client: client, env: env, logger: logger, now: time.Now}
}

// sanitizeCell neutralizes spreadsheet formula injection. Cells starting
// with a formula trigger character are prefixed with an apostrophe, which
// the spreadsheet renders as a literal.
func sanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n':
		return "'" + s
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func (s *analyticsStore) row(ev *model.AnalyticsEvent) []string {
	ts := ev.Timestamp
	if ts == "" {
		ts = s.now().UTC().Format(time.RFC3339)
	}
	cells := []string{
		ts,
		ev.EventID,
		ev.Surface,
		ev.Metric,
		ev.SponsorID,
		ev.Value,
		ev.Token,
		truncate(ev.UserAgent, maxUserAgentLen),
		ev.SessionID,
		strings.Join(ev.VisibleSponsorIDs, ","),
		analyticsSource,
		s.env,
	}
	for i, c := range cells {
		cells[i] = sanitizeCell(c)
	}
	return cells
}

func (s *analyticsStore) Append(ctx context.Context, ev *model.AnalyticsEvent) error {
	if _, err := s.client.Append(ctx, analyticsRange, s.row(ev)); err != nil {
		return err
	}
	return nil
}

// AppendBatch appends each event individually and keeps going past
// failures. It returns the success count and the first error observed.
func (s *analyticsStore) AppendBatch(ctx context.Context, evs []*model.AnalyticsEvent) (int, error) {
	success := 0
	var firstErr error
	for _, ev := range evs {
		if err := s.Append(ctx, ev); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		success++
	}
	return success, firstErr
}

// AppendLegacyClick writes the six-column click row consumed by the
// original reporting sheets. Failures are logged, never surfaced; a
// redirect must not fail because a metric write did.
func (s *analyticsStore) AppendLegacyClick(ctx context.Context, eventID, sponsorID, surface, token, userAgent, referer string) {
	meta, err := json.Marshal(map[string]string{
		"token":     token,
		"userAgent": truncate(userAgent, maxUserAgentLen),
		"referer":   truncate(referer, maxRefererLen),
	})
	if err != nil {
		s.logger.Warn("legacy click metadata encode failed", zap.Error(err))
		return
	}
	cells := []string{
		s.now().UTC().Format(time.RFC3339),
		legacyClickEvent,
		eventID,
		sponsorID,
		surface,
		string(meta),
	}
	for i, c := range cells {
		cells[i] = sanitizeCell(c)
	}
	if _, err := s.client.Append(ctx, legacyRange, cells); err != nil {
		s.logger.Warn("legacy click append failed",
			zap.String("token", token), zap.Error(err))
	}
}
