package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zeventbooks/event-gateway/internal/brand"
	"github.com/zeventbooks/event-gateway/internal/model"
	"github.com/zeventbooks/event-gateway/internal/store"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const maxSlugSuffix = 100

// CreateInput is the validated body of an event creation request.
type CreateInput struct {
	Name         string  `json:"name"`
	StartDateISO string  `json:"startDateISO"`
	Venue        string  `json:"venue"`
	BrandID      string  `json:"brandId"`
	TemplateID   *string `json:"templateId,omitempty"`
	SignupURL    string  `json:"signupUrl,omitempty"`
}

// ResultInput carries the collections to merge into an event. Nil means
// "leave untouched"; a present empty collection clears the stored one.
type ResultInput struct {
	Schedule  *[]model.ScheduleItem `json:"schedule,omitempty"`
	Standings *[]model.StandingsRow `json:"standings,omitempty"`
	Bracket   *model.Bracket        `json:"bracket,omitempty"`
}

func (in ResultInput) empty() bool {
	return in.Schedule == nil && in.Standings == nil && in.Bracket == nil
}

// EventService is the read/write surface the handlers call for events.
type EventService interface {
	Create(ctx context.Context, in CreateInput) (*model.Event, bool, error)
	RecordResult(ctx context.Context, eventID string, in ResultInput) (*model.Event, error)
	Get(ctx context.Context, brandID, idOrSlug string) (*model.Event, error)
	List(ctx context.Context, brandID string) ([]*model.Event, error)
}

type eventService struct {
	events  store.EventStore
	locks   *KeyedMutex
	baseURL string
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// NewEventService returns the store-backed EventService. baseURL is the
// externally visible origin used to derive per-surface links.
func NewEventService(events store.EventStore, baseURL string, logger *zap.Logger) EventService {
	return &eventService{
		events:  events,
		locks:   NewKeyedMutex(),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		now:     time.Now,
		newID:   model.NewEventID,
	}
}

func (s *eventService) validateCreate(in CreateInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrBadInput)
	}
	if !dateRe.MatchString(in.StartDateISO) {
		return fmt.Errorf("%w: startDateISO must be YYYY-MM-DD", ErrBadInput)
	}
	if _, err := time.Parse("2006-01-02", in.StartDateISO); err != nil {
		return fmt.Errorf("%w: startDateISO is not a calendar date", ErrBadInput)
	}
	if strings.TrimSpace(in.Venue) == "" {
		return fmt.Errorf("%w: venue is required", ErrBadInput)
	}
	if !brand.IsValid(in.BrandID) {
		return fmt.Errorf("%w: unknown brand %q", ErrBadInput, in.BrandID)
	}
	if in.TemplateID != nil && !brand.AllowsTemplate(in.BrandID, *in.TemplateID) {
		return fmt.Errorf("%w: template %q is not allowed for brand %q", ErrBadInput, *in.TemplateID, in.BrandID)
	}
	return nil
}

// idempotencyKey identifies "the same event asked for twice": brand, name
// and venue case/space-insensitive, start date exact.
func idempotencyKey(brandID, name, startDateISO, venue string) string {
	return strings.Join([]string{
		brandID,
		strings.ToLower(strings.TrimSpace(name)),
		startDateISO,
		strings.ToLower(strings.TrimSpace(venue)),
	}, "\x1f")
}

// Create appends a new event, or returns the existing one (duplicate=true)
// when the idempotency key matches a stored row. Creates racing on the same
// base slug are serialized per (brand, baseSlug).
func (s *eventService) Create(ctx context.Context, in CreateInput) (*model.Event, bool, error) {
	if err := s.validateCreate(in); err != nil {
		return nil, false, err
	}

	baseSlug := ToSlug(in.Name)
	release, err := s.locks.Acquire(ctx, in.BrandID+"/"+baseSlug, lockWait)
	if err != nil {
		return nil, false, err
	}
	defer release()

	existing, err := s.events.ListByBrand(ctx, in.BrandID)
	if err != nil {
		return nil, false, err
	}

	key := idempotencyKey(in.BrandID, in.Name, in.StartDateISO, in.Venue)
	for _, e := range existing {
		if idempotencyKey(e.BrandID, e.Name, e.StartDateISO, e.Venue) == key {
			return e, true, nil
		}
	}

	now := s.now().UTC()
	slug := s.pickSlug(existing, baseSlug, now)
	e := s.compose(in, slug, now)

	if err := s.events.Append(ctx, e); err != nil {
		return nil, false, err
	}
	s.logger.Info("event created",
		zap.String("eventId", e.ID),
		zap.String("brand", e.BrandID),
		zap.String("slug", e.Slug))
	return e, false, nil
}

// pickSlug resolves slug collisions with numeric suffixes -2..-100, falling
// back to a timestamp suffix when a brand somehow burns them all.
func (s *eventService) pickSlug(existing []*model.Event, baseSlug string, now time.Time) string {
	if !store.SlugTaken(existing, baseSlug) {
		return baseSlug
	}
	for i := 2; i <= maxSlugSuffix; i++ {
		candidate := baseSlug + "-" + strconv.Itoa(i)
		if !store.SlugTaken(existing, candidate) {
			return candidate
		}
	}
	return baseSlug + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}

func (s *eventService) compose(in CreateInput, slug string, now time.Time) *model.Event {
	id := s.newID()
	stamp := now.Format(time.RFC3339)

	links := model.Links{
		PublicURL:  fmt.Sprintf("%s/%s/public?id=%s", s.baseURL, in.BrandID, id),
		DisplayURL: fmt.Sprintf("%s/%s/display?id=%s", s.baseURL, in.BrandID, id),
		PosterURL:  fmt.Sprintf("%s/%s/poster?id=%s", s.baseURL, in.BrandID, id),
		SignupURL:  in.SignupURL,
	}
	ctas := model.CTAs{Primary: model.CTA{Label: "View event", URL: links.PublicURL}}
	if in.SignupURL != "" {
		ctas.Secondary = &model.CTA{Label: "Sign up", URL: in.SignupURL}
	}

	return &model.Event{
		ID:           id,
		BrandID:      in.BrandID,
		Slug:         slug,
		EventTag:     strings.ToUpper(in.BrandID) + "-" + strings.ToUpper(slug) + "-" + in.StartDateISO,
		Name:         in.Name,
		StartDateISO: in.StartDateISO,
		Venue:        in.Venue,
		TemplateID:   in.TemplateID,
		Links:        links,
		QR:           &model.QR{},
		CTAs:         ctas,
		Settings:     model.Settings{},
		CreatedAtISO: stamp,
		UpdatedAtISO: stamp,
	}
}

// RecordResult replaces the provided collections in full (no element-wise
// merging) and flips the matching settings.show* flags for non-empty ones.
// Load and save are serialized per event id.
func (s *eventService) RecordResult(ctx context.Context, eventID string, in ResultInput) (*model.Event, error) {
	if in.empty() {
		return nil, fmt.Errorf("%w: at least one of schedule, standings, bracket is required", ErrBadInput)
	}

	release, err := s.locks.Acquire(ctx, eventID, lockWait)
	if err != nil {
		return nil, err
	}
	defer release()

	e, _, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	e = e.Clone()

	if in.Schedule != nil {
		e.Schedule = *in.Schedule
		if len(e.Schedule) > 0 {
			e.Settings.ShowSchedule = true
		}
	}
	if in.Standings != nil {
		e.Standings = *in.Standings
		if len(e.Standings) > 0 {
			e.Settings.ShowStandings = true
		}
	}
	if in.Bracket != nil {
		e.Bracket = in.Bracket
		if len(e.Bracket.Matches) > 0 {
			e.Settings.ShowBracket = true
		}
	}
	e.UpdatedAtISO = s.now().UTC().Format(time.RFC3339)

	if err := s.events.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Get looks up by id first (ids are globally unique, so the lookup ignores
// brandID), then by slug within the brand for backward compatibility with
// pre-id URLs.
func (s *eventService) Get(ctx context.Context, brandID, idOrSlug string) (*model.Event, error) {
	e, _, err := s.events.FindByID(ctx, idOrSlug)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	e, _, err = s.events.FindBySlug(ctx, brandID, idOrSlug)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *eventService) List(ctx context.Context, brandID string) ([]*model.Event, error) {
	return s.events.ListByBrand(ctx, brandID)
}
