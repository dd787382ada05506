package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeventbooks/event-gateway/internal/model"
	"github.com/zeventbooks/event-gateway/internal/sheets"
)

// SHORTLINKS!A:G column layout.
const (
	slColToken = iota
	slColTarget
	slColEventID
	slColSponsorID
	slColSurface
	slColCreatedAt
	slColBrandID
)

// ShortlinkStore resolves and creates SHORTLINKS rows.
type ShortlinkStore interface {
	Resolve(ctx context.Context, token string) (*model.Shortlink, error)
	Append(ctx context.Context, link *model.Shortlink) error
	Count(ctx context.Context) (int, error)
}

type shortlinkStore struct {
	client sheets.Client
}

// NewShortlinkStore returns the sheets-backed ShortlinkStore.
func NewShortlinkStore(client sheets.Client) ShortlinkStore {
	return &shortlinkStore{client: client}
}

// Resolve scans the tab for an exact token match. The header row is
// detected by content, not assumed: older sheets were populated without one.
func (s *shortlinkStore) Resolve(ctx context.Context, token string) (*model.Shortlink, error) {
	rows, err := s.client.GetValues(ctx, shortlinkRange)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && len(rows[0]) > 0 && strings.ToLower(strings.TrimSpace(rows[0][slColToken])) == "token" {
		rows = rows[1:]
	}
	for _, row := range rows {
		if len(row) <= slColTarget || row[slColToken] != token {
			continue
		}
		return parseShortlinkRow(row), nil
	}
	return nil, fmt.Errorf("%w: shortlink %q", ErrNotFound, token)
}

func parseShortlinkRow(row []string) *model.Shortlink {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return &model.Shortlink{
		Token:     cell(slColToken),
		TargetURL: cell(slColTarget),
		EventID:   cell(slColEventID),
		SponsorID: cell(slColSponsorID),
		Surface:   cell(slColSurface),
		CreatedAt: cell(slColCreatedAt),
		BrandID:   cell(slColBrandID),
	}
}

// Count returns the number of stored shortlinks, header excluded.
func (s *shortlinkStore) Count(ctx context.Context) (int, error) {
	rows, err := s.client.GetValues(ctx, shortlinkRange)
	if err != nil {
		return 0, err
	}
	n := len(rows)
	if n > 0 && len(rows[0]) > 0 && strings.ToLower(strings.TrimSpace(rows[0][slColToken])) == "token" {
		n--
	}
	return n, nil
}

func (s *shortlinkStore) Append(ctx context.Context, link *model.Shortlink) error {
	row := []string{
		link.Token,
		link.TargetURL,
		link.EventID,
		link.SponsorID,
		link.Surface,
		link.CreatedAt,
		link.BrandID,
	}
	if _, err := s.client.Append(ctx, shortlinkRange, row); err != nil {
		return err
	}
	return nil
}
