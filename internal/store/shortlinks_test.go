package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zeventbooks/event-gateway/internal/model"
	"github.com/zeventbooks/event-gateway/internal/sheets/mocks"
	"github.com/zeventbooks/event-gateway/internal/store"
)

func TestShortlinkStore_Resolve_WithHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	s := store.NewShortlinkStore(client)

	client.EXPECT().GetValues(gomock.Any(), "SHORTLINKS!A:G").Return([][]string{
		{"Token ", "targetUrl", "eventId", "sponsorId", "surface", "createdAt", "brandId"},
		{"abc12345", "https://example.com/promo", "evt-1", "s1", "poster", "2025-11-01T10:00:00Z", "abc"},
	}, nil)

	link, err := s.Resolve(context.Background(), "abc12345")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/promo", link.TargetURL)
	assert.Equal(t, "evt-1", link.EventID)
	assert.Equal(t, "s1", link.SponsorID)
	assert.Equal(t, "poster", link.Surface)
}

func TestShortlinkStore_Resolve_WithoutHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	s := store.NewShortlinkStore(client)

	// Pre-header sheets start with data at row 1.
	client.EXPECT().GetValues(gomock.Any(), "SHORTLINKS!A:G").Return([][]string{
		{"tok1", "https://example.com/a"},
		{"tok2", "https://example.com/b"},
	}, nil)

	link, err := s.Resolve(context.Background(), "tok2")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/b", link.TargetURL)
}

func TestShortlinkStore_Resolve_UnknownToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	s := store.NewShortlinkStore(client)

	client.EXPECT().GetValues(gomock.Any(), "SHORTLINKS!A:G").Return([][]string{
		{"token", "targetUrl"},
		{"tok1", "https://example.com/a"},
	}, nil)

	_, err := s.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestShortlinkStore_Resolve_RowNamedTokenIsNotAHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	s := store.NewShortlinkStore(client)

	// Only the first row is header-eligible.
	client.EXPECT().GetValues(gomock.Any(), "SHORTLINKS!A:G").Return([][]string{
		{"tok1", "https://example.com/a"},
		{"token", "https://example.com/literal"},
	}, nil)

	link, err := s.Resolve(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/literal", link.TargetURL)
}

func TestShortlinkStore_Append(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	s := store.NewShortlinkStore(client)

	client.EXPECT().Append(gomock.Any(), "SHORTLINKS!A:G", []string{
		"abc12345", "https://example.com/promo", "evt-1", "s1", "poster", "2025-11-01T10:00:00Z", "abc",
	}).Return(1, nil)

	err := s.Append(context.Background(), &model.Shortlink{
		Token:     "abc12345",
		TargetURL: "https://example.com/promo",
		EventID:   "evt-1",
		SponsorID: "s1",
		Surface:   "poster",
		CreatedAt: "2025-11-01T10:00:00Z",
		BrandID:   "abc",
	})
	require.NoError(t, err)
}
