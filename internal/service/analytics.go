package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zeventbooks/event-gateway/internal/model"
	"github.com/zeventbooks/event-gateway/internal/store"
)

// Budget for detached ingest appends after the response is sent.
const ingestTimeout = 30 * time.Second

// AnalyticsService validates and queues metric rows. Appends are
// best-effort: a valid batch is acknowledged before it reaches the store.
type AnalyticsService interface {
	Ingest(ctx context.Context, evs []*model.AnalyticsEvent) (int, error)
}

type analyticsService struct {
	analytics store.AnalyticsStore
	logger    *zap.Logger
}

// NewAnalyticsService returns the store-backed AnalyticsService.
func NewAnalyticsService(analytics store.AnalyticsStore, logger *zap.Logger) AnalyticsService {
	return &analyticsService{analytics: analytics, logger: logger}
}

func validateAnalyticsEvent(ev *model.AnalyticsEvent) error {
	if ev.EventID == "" {
		return fmt.Errorf("%w: eventId is required", ErrBadInput)
	}
	if ev.Surface == "" {
		return fmt.Errorf("%w: surface is required", ErrBadInput)
	}
	if ev.Metric == "" {
		return fmt.Errorf("%w: metric is required", ErrBadInput)
	}
	return nil
}

// Ingest validates every event up front, then appends the batch on a
// detached context. The returned count is the number queued, not the number
// that will reach the sheet.
func (s *analyticsService) Ingest(ctx context.Context, evs []*model.AnalyticsEvent) (int, error) {
	if len(evs) == 0 {
		return 0, fmt.Errorf("%w: empty batch", ErrBadInput)
	}
	for _, ev := range evs {
		if err := validateAnalyticsEvent(ev); err != nil {
			return 0, err
		}
	}

	go func() {
		appendCtx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
		defer cancel()
		success, err := s.analytics.AppendBatch(appendCtx, evs)
		if err != nil {
			s.logger.Warn("analytics batch partially failed",
				zap.Int("success", success),
				zap.Int("count", len(evs)),
				zap.Error(err))
		}
	}()

	return len(evs), nil
}
