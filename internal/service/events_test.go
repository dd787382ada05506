package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/zeventbooks/event-gateway/internal/model"
	"github.com/zeventbooks/event-gateway/internal/store"
	"github.com/zeventbooks/event-gateway/internal/store/mocks"
)

var fixedNow = time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)

func newTestEventService(t *testing.T) (*eventService, *mocks.MockEventStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	events := mocks.NewMockEventStore(ctrl)
	svc := NewEventService(events, "https://events.example", zap.NewNop()).(*eventService)
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "evt-test01-abc123" }
	return svc, events
}

func validCreate() CreateInput {
	return CreateInput{
		Name:         "Trivia Night",
		StartDateISO: "2025-12-01",
		Venue:        "Hall A",
		BrandID:      "abc",
	}
}

func TestCreate_NewEvent(t *testing.T) {
	svc, events := newTestEventService(t)

	var appended *model.Event
	events.EXPECT().ListByBrand(gomock.Any(), "abc").Return(nil, nil)
	events.EXPECT().Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *model.Event) error {
			appended = e
			return nil
		})

	e, duplicate, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	assert.False(t, duplicate)
	require.NotNil(t, appended)
	assert.Same(t, appended, e)

	assert.Equal(t, "evt-test01-abc123", e.ID)
	assert.Equal(t, "trivia-night", e.Slug)
	assert.Equal(t, "ABC-TRIVIA-NIGHT-2025-12-01", e.EventTag)
	assert.Equal(t, e.CreatedAtISO, e.UpdatedAtISO)
	assert.False(t, e.Settings.ShowSchedule)
	assert.Contains(t, e.Links.PublicURL, "https://events.example/abc/")
	assert.Contains(t, e.Links.PublicURL, e.ID)
	assert.Equal(t, "View event", e.CTAs.Primary.Label)
	assert.Nil(t, e.CTAs.Secondary)
	require.NotNil(t, e.QR)
	assert.Empty(t, e.QR.Public)
}

func TestCreate_SignupURLAddsSecondaryCTA(t *testing.T) {
	svc, events := newTestEventService(t)
	events.EXPECT().ListByBrand(gomock.Any(), "abc").Return(nil, nil)
	events.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	in := validCreate()
	in.SignupURL = "https://forms.example/signup"
	e, _, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "https://forms.example/signup", e.Links.SignupURL)
	require.NotNil(t, e.CTAs.Secondary)
	assert.Equal(t, "https://forms.example/signup", e.CTAs.Secondary.URL)
}

func TestCreate_IdempotentDuplicate(t *testing.T) {
	svc, events := newTestEventService(t)

	existing := &model.Event{
		ID:           "evt-old-xyz",
		BrandID:      "abc",
		Slug:         "trivia-night",
		Name:         "  trivia night ",
		StartDateISO: "2025-12-01",
		Venue:        "HALL A",
	}
	events.EXPECT().ListByBrand(gomock.Any(), "abc").Return([]*model.Event{existing}, nil)
	// No Append: the duplicate short-circuits before any write.

	e, duplicate, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	assert.True(t, duplicate)
	assert.Equal(t, "evt-old-xyz", e.ID)
}

func TestCreate_SlugCollision(t *testing.T) {
	svc, events := newTestEventService(t)

	existing := &model.Event{
		ID: "evt-old", BrandID: "abc", Slug: "trivia-night",
		Name: "Trivia Night", StartDateISO: "2025-12-01", Venue: "Hall A",
	}
	events.EXPECT().ListByBrand(gomock.Any(), "abc").Return([]*model.Event{existing}, nil)

	var appended *model.Event
	events.EXPECT().Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *model.Event) error {
			appended = e
			return nil
		})

	in := CreateInput{Name: "Trivia Night!", StartDateISO: "2025-12-08", Venue: "Hall B", BrandID: "abc"}
	_, duplicate, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, duplicate)
	assert.Equal(t, "trivia-night-2", appended.Slug)
	assert.Equal(t, "ABC-TRIVIA-NIGHT-2-2025-12-08", appended.EventTag)
}

func TestCreate_SlugExhaustionFallsBackToTimestamp(t *testing.T) {
	svc, events := newTestEventService(t)

	taken := []*model.Event{{Slug: "night", Name: "other", StartDateISO: "2025-01-01", Venue: "x", BrandID: "abc"}}
	for i := 2; i <= 100; i++ {
		taken = append(taken, &model.Event{Slug: "night-" + strconv.Itoa(i), BrandID: "abc"})
	}
	events.EXPECT().ListByBrand(gomock.Any(), "abc").Return(taken, nil)

	var appended *model.Event
	events.EXPECT().Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *model.Event) error {
			appended = e
			return nil
		})

	in := CreateInput{Name: "Night", StartDateISO: "2025-12-01", Venue: "Hall A", BrandID: "abc"}
	_, _, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "night-1763632800000", appended.Slug)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestEventService(t)
	tmpl := "nonexistent"

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing name", CreateInput{StartDateISO: "2025-12-01", Venue: "v", BrandID: "abc"}},
		{"blank name", CreateInput{Name: "   ", StartDateISO: "2025-12-01", Venue: "v", BrandID: "abc"}},
		{"bad date format", CreateInput{Name: "x", StartDateISO: "12/01/2025", Venue: "v", BrandID: "abc"}},
		{"impossible date", CreateInput{Name: "x", StartDateISO: "2025-13-45", Venue: "v", BrandID: "abc"}},
		{"missing venue", CreateInput{Name: "x", StartDateISO: "2025-12-01", BrandID: "abc"}},
		{"unknown brand", CreateInput{Name: "x", StartDateISO: "2025-12-01", Venue: "v", BrandID: "nope"}},
		{"disallowed template", CreateInput{Name: "x", StartDateISO: "2025-12-01", Venue: "v", BrandID: "cbc", TemplateID: &tmpl}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Create(context.Background(), tc.in)
			assert.ErrorIs(t, err, ErrBadInput)
		})
	}
}

func TestRecordResult_ReplacesStandingsAndFlipsFlag(t *testing.T) {
	svc, events := newTestEventService(t)

	stored := &model.Event{
		ID: "evt-1", BrandID: "abc",
		Schedule:     []model.ScheduleItem{{Time: "19:00", Activity: "Round 1"}},
		Settings:     model.Settings{ShowSchedule: true},
		UpdatedAtISO: "2025-11-01T00:00:00Z",
	}
	events.EXPECT().FindByID(gomock.Any(), "evt-1").Return(stored, 2, nil)

	var updated *model.Event
	events.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *model.Event) error {
			updated = e
			return nil
		})

	standings := []model.StandingsRow{{Rank: 1, Name: "Alpha", Score: 42}}
	e, err := svc.RecordResult(context.Background(), "evt-1", ResultInput{Standings: &standings})
	require.NoError(t, err)
	assert.Same(t, updated, e)

	assert.Equal(t, standings, e.Standings)
	assert.True(t, e.Settings.ShowStandings)
	// Untouched collections survive the merge.
	assert.Len(t, e.Schedule, 1)
	assert.True(t, e.Settings.ShowSchedule)
	assert.Equal(t, "2025-11-20T10:00:00Z", e.UpdatedAtISO)
	// The stored value is never mutated in place.
	assert.Empty(t, stored.Standings)
}

func TestRecordResult_EmptyCollectionClearsWithoutFlipping(t *testing.T) {
	svc, events := newTestEventService(t)

	stored := &model.Event{ID: "evt-1", BrandID: "abc",
		Schedule: []model.ScheduleItem{{Time: "19:00", Activity: "Round 1"}}}
	events.EXPECT().FindByID(gomock.Any(), "evt-1").Return(stored, 2, nil)
	events.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	empty := []model.ScheduleItem{}
	e, err := svc.RecordResult(context.Background(), "evt-1", ResultInput{Schedule: &empty})
	require.NoError(t, err)
	assert.Empty(t, e.Schedule)
	assert.False(t, e.Settings.ShowSchedule)
}

func TestRecordResult_Bracket(t *testing.T) {
	svc, events := newTestEventService(t)

	events.EXPECT().FindByID(gomock.Any(), "evt-1").
		Return(&model.Event{ID: "evt-1", BrandID: "abc"}, 2, nil)
	events.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	b := &model.Bracket{Type: "single", Matches: []model.Match{{ID: "m1", Round: 1, Position: 1}}}
	e, err := svc.RecordResult(context.Background(), "evt-1", ResultInput{Bracket: b})
	require.NoError(t, err)
	assert.True(t, e.Settings.ShowBracket)
}

func TestRecordResult_RequiresAtLeastOneField(t *testing.T) {
	svc, _ := newTestEventService(t)
	_, err := svc.RecordResult(context.Background(), "evt-1", ResultInput{})
	assert.ErrorIs(t, err, ErrBadInput)
}

func TestRecordResult_MissingEvent(t *testing.T) {
	svc, events := newTestEventService(t)
	events.EXPECT().FindByID(gomock.Any(), "evt-9").
		Return(nil, 0, store.ErrNotFound)

	standings := []model.StandingsRow{{Rank: 1, Name: "Alpha", Score: 1}}
	_, err := svc.RecordResult(context.Background(), "evt-9", ResultInput{Standings: &standings})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGet_ByIdIgnoresBrand(t *testing.T) {
	svc, events := newTestEventService(t)

	// A bare /api/events/{id} URL resolves with the default brand; the id
	// lookup must still find the event whichever brand owns it.
	events.EXPECT().FindByID(gomock.Any(), "evt-1").
		Return(&model.Event{ID: "evt-1", BrandID: "abc"}, 2, nil)

	e, err := svc.Get(context.Background(), "root", "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "abc", e.BrandID)
}

func TestGet_FallsBackToSlug(t *testing.T) {
	svc, events := newTestEventService(t)

	events.EXPECT().FindByID(gomock.Any(), "trivia-night").
		Return(nil, 0, store.ErrNotFound)
	events.EXPECT().FindBySlug(gomock.Any(), "abc", "trivia-night").
		Return(&model.Event{ID: "evt-1", Slug: "trivia-night"}, 2, nil)

	e, err := svc.Get(context.Background(), "abc", "trivia-night")
	require.NoError(t, err)
	assert.Equal(t, "evt-1", e.ID)
}

func TestGet_NonNotFoundErrorsDoNotFallBack(t *testing.T) {
	svc, events := newTestEventService(t)

	boom := assert.AnError
	events.EXPECT().FindByID(gomock.Any(), "evt-1").Return(nil, 0, boom)

	_, err := svc.Get(context.Background(), "abc", "evt-1")
	assert.ErrorIs(t, err, boom)
}
