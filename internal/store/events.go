package store

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zeventbooks/event-gateway/internal/model"
	"github.com/zeventbooks/event-gateway/internal/sheets"
)

// EventStore reads and writes EVENTS rows. Row indices returned by the
// finders are 1-based sheet rows; they are only valid until the next write
// and must be re-observed before an update.
//
// Ids are globally unique, so FindByID is not brand-scoped; slugs are only
// unique per brand, so FindBySlug is.
type EventStore interface {
	ListByBrand(ctx context.Context, brandID string) ([]*model.Event, error)
	FindByID(ctx context.Context, id string) (*model.Event, int, error)
	FindBySlug(ctx context.Context, brandID, slug string) (*model.Event, int, error)
	Append(ctx context.Context, e *model.Event) error
	Update(ctx context.Context, e *model.Event) error
}

type eventStore struct {
	client sheets.Client
	logger *zap.Logger
}

// NewEventStore returns the sheets-backed EventStore.
func NewEventStore(client sheets.Client, logger *zap.Logger) EventStore {
	return &eventStore{client: client, logger: logger}
}

// dataRows fetches the full tab and returns data rows with their 1-based
// sheet indices. Row 1 is always the header.
func (s *eventStore) dataRows(ctx context.Context) ([][]string, error) {
	rows, err := s.client.GetValues(ctx, eventsRange)
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func (s *eventStore) ListByBrand(ctx context.Context, brandID string) ([]*model.Event, error) {
	rows, err := s.dataRows(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Event
	for i, row := range rows {
		e, err := model.ParseEventRow(row)
		if err != nil {
			// A corrupt row must not take down the whole listing.
			s.logger.Warn("skipping malformed event row",
				zap.Int("row", i+2), zap.Error(err))
			continue
		}
		if e == nil || e.BrandID != brandID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *eventStore) FindByID(ctx context.Context, id string) (*model.Event, int, error) {
	return s.find(ctx, "", model.ColID, id)
}

func (s *eventStore) FindBySlug(ctx context.Context, brandID, slug string) (*model.Event, int, error) {
	return s.find(ctx, brandID, model.ColSlug, slug)
}

// find matches on a first-class column before parsing, so a malformed
// dataJson cell on the matched row surfaces as an error instead of being
// skipped like it is in listings. An empty brandID matches every brand.
func (s *eventStore) find(ctx context.Context, brandID string, col int, value string) (*model.Event, int, error) {
	rows, err := s.dataRows(ctx)
	if err != nil {
		return nil, 0, err
	}
	for i, row := range rows {
		if len(row) <= col || row[col] != value {
			continue
		}
		if brandID != "" && len(row) > model.ColBrandID && row[model.ColBrandID] != brandID {
			continue
		}
		e, err := model.ParseEventRow(row)
		if err != nil {
			return nil, 0, err
		}
		if e == nil {
			continue
		}
		return e, i + 2, nil
	}
	return nil, 0, fmt.Errorf("%w: event %q", ErrNotFound, value)
}

func (s *eventStore) Append(ctx context.Context, e *model.Event) error {
	row, err := model.BuildEventRow(e)
	if err != nil {
		return err
	}
	if _, err := s.client.Append(ctx, eventsRange, row); err != nil {
		return err
	}
	return nil
}

// Update re-observes the row index immediately before writing so that rows
// appended since the caller's read cannot shift the target.
func (s *eventStore) Update(ctx context.Context, e *model.Event) error {
	_, rowIndex, err := s.FindByID(ctx, e.ID)
	if err != nil {
		return err
	}
	row, err := model.BuildEventRow(e)
	if err != nil {
		return err
	}
	if _, err := s.client.Update(ctx, eventsSheet, rowIndex, row); err != nil {
		return err
	}
	return nil
}

// SlugTaken reports whether any of the listed events already uses slug.
func SlugTaken(events []*model.Event, slug string) bool {
	for _, e := range events {
		if strings.EqualFold(e.Slug, slug) {
			return true
		}
	}
	return false
}
