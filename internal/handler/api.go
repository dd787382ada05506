package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/zeventbooks/event-gateway/internal/brand"
	"github.com/zeventbooks/event-gateway/internal/bundle"
	"github.com/zeventbooks/event-gateway/internal/cache"
	"github.com/zeventbooks/event-gateway/internal/model"
	"github.com/zeventbooks/event-gateway/internal/service"
	"github.com/zeventbooks/event-gateway/internal/sheets"
	"github.com/zeventbooks/event-gateway/internal/store"
	"github.com/zeventbooks/event-gateway/internal/telemetry"
)

// Per-surface cache policy: private max-age plus stale-while-revalidate.
var cacheControl = map[string]string{
	bundle.SurfacePublic:  "private, max-age=60, stale-while-revalidate=300",
	bundle.SurfaceDisplay: "private, max-age=30, stale-while-revalidate=120",
	bundle.SurfacePoster:  "private, max-age=300, stale-while-revalidate=600",
	bundle.SurfaceAdmin:   "private, no-cache",
}

const statusLogTail = 50

// API serves the JSON surface: status, events, bundles, writers, analytics
// ingest and the shortlink redirect.
type API struct {
	events     service.EventService
	shortlinks service.ShortlinkService
	analytics  service.AnalyticsService
	sheets     sheets.Client
	cache      *cache.EventCache
	renderer   Renderer
	logs       *telemetry.LogBuffer
	env        string
	logger     *zap.Logger
	now        func() time.Time
}

// NewAPI wires the handler set. cache may be nil; logs may be nil.
func NewAPI(
	events service.EventService,
	shortlinks service.ShortlinkService,
	analytics service.AnalyticsService,
	sheetsClient sheets.Client,
	eventCache *cache.EventCache,
	renderer Renderer,
	logs *telemetry.LogBuffer,
	env string,
	logger *zap.Logger,
) *API {
	return &API{
		events:     events,
		shortlinks: shortlinks,
		analytics:  analytics,
		sheets:     sheetsClient,
		cache:      eventCache,
		renderer:   renderer,
		logs:       logs,
		env:        env,
		logger:     logger,
		now:        time.Now,
	}
}

// lookup reads through the cache by id, then falls back to the store, which
// tries id first and then slug within the brand. Cache hits skip the sheet
// entirely.
func (a *API) lookup(c echo.Context, idOrSlug string) (*model.Event, error) {
	ctx := c.Request().Context()
	if e, ok := a.cache.Get(ctx, idOrSlug); ok {
		return e, nil
	}
	e, err := a.events.Get(ctx, brandID(c), idOrSlug)
	if err != nil {
		return nil, err
	}
	a.cache.Set(ctx, e)
	return e, nil
}

// composeBrand picks the brand a bundle is composed for: the one the request
// explicitly named, or the found event's own brand otherwise. A bare
// /api/events/{id}/... URL must not force everything onto the root brand.
func composeBrand(c echo.Context, e *model.Event) brand.Brand {
	if bid, ok := selectedBrand(c); ok {
		return brand.Get(bid)
	}
	return brand.Get(e.BrandID)
}

// Status reports version, environment, configuration state and the rolling
// log tail.
func (a *API) Status(c echo.Context) error {
	value := map[string]interface{}{
		"version":    Version,
		"env":        a.env,
		"configured": a.sheets.IsConfigured(),
		"brand":      brandID(c),
		"timestamp":  a.now().UTC().Format(time.RFC3339),
	}
	if a.logs != nil {
		value["logs"] = a.logs.Tail(statusLogTail)
	}
	return okValue(c, http.StatusOK, value)
}

// Health probes the spreadsheet backend.
func (a *API) Health(c echo.Context) error {
	return okValue(c, http.StatusOK, a.sheets.HealthCheck(c.Request().Context()))
}

// eventSummary is the list-view projection: enough to render an index row
// without shipping schedules and standings.
type eventSummary struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	StartDateISO string `json:"startDateISO"`
	Venue        string `json:"venue"`
	EventTag     string `json:"eventTag"`
	UpdatedAtISO string `json:"updatedAtISO"`
}

// ListEvents returns summaries of the selected brand's events, newest first.
func (a *API) ListEvents(c echo.Context) error {
	events, err := a.events.List(c.Request().Context(), brandID(c))
	if err != nil {
		return svcError(c, a.logger, err)
	}
	summaries := make([]eventSummary, 0, len(events))
	for _, e := range events {
		summaries = append(summaries, eventSummary{
			ID:           e.ID,
			Slug:         e.Slug,
			Name:         e.Name,
			StartDateISO: e.StartDateISO,
			Venue:        e.Venue,
			EventTag:     e.EventTag,
			UpdatedAtISO: e.UpdatedAtISO,
		})
	}
	// RFC3339 stamps sort lexicographically.
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAtISO > summaries[j].UpdatedAtISO
	})
	return okValue(c, http.StatusOK, summaries)
}

// GetEvent returns the raw stored event by id or slug.
func (a *API) GetEvent(c echo.Context) error {
	e, err := a.lookup(c, c.Param("id"))
	if err != nil {
		return svcError(c, a.logger, err)
	}
	return okValue(c, http.StatusOK, e)
}

func (a *API) PublicBundle(c echo.Context) error {
	return a.bundleResponse(c, bundle.SurfacePublic)
}

func (a *API) DisplayBundle(c echo.Context) error {
	return a.bundleResponse(c, bundle.SurfaceDisplay)
}

func (a *API) PosterBundle(c echo.Context) error {
	return a.bundleResponse(c, bundle.SurfacePoster)
}

func (a *API) bundleResponse(c echo.Context, surface string) error {
	if !a.sheets.IsConfigured() {
		return fail(c, http.StatusServiceUnavailable, CodeNotConfigured, "spreadsheet backend is not configured")
	}
	e, err := a.lookup(c, c.Param("id"))
	if err != nil {
		return svcError(c, a.logger, err)
	}

	b := composeBrand(c, e)
	var value interface{}
	switch surface {
	case bundle.SurfaceDisplay:
		value = bundle.Display(e, b, a.now())
	case bundle.SurfacePoster:
		value = bundle.Poster(e, b, a.now())
	default:
		value = bundle.Public(e, b, a.now())
	}

	etag, err := bundle.StrongETag(value)
	if err != nil {
		return svcError(c, a.logger, err)
	}
	return a.conditional(c, surface, etag, value)
}

// AdminBundle composes the operator projection with live diagnostics and a
// weak validator derived from the update stamp.
func (a *API) AdminBundle(c echo.Context) error {
	if !a.sheets.IsConfigured() {
		return fail(c, http.StatusServiceUnavailable, CodeNotConfigured, "spreadsheet backend is not configured")
	}
	e, err := a.lookup(c, c.Param("id"))
	if err != nil {
		return svcError(c, a.logger, err)
	}

	diag := bundle.Diagnostics{
		FormStatus:   "ok",
		LastSyncedAt: a.now().UTC().Format(time.RFC3339),
	}
	if n, err := a.shortlinks.Count(c.Request().Context()); err == nil {
		diag.ShortlinksCount = n
	} else {
		diag.Warnings = append(diag.Warnings, "shortlink count unavailable")
	}

	value := bundle.Admin(e, composeBrand(c, e), a.now(), diag)
	return a.conditional(c, bundle.SurfaceAdmin, bundle.WeakETag(e.UpdatedAtISO), value)
}

func (a *API) conditional(c echo.Context, surface, etag string, value interface{}) error {
	c.Response().Header().Set("ETag", etag)
	c.Response().Header().Set("Cache-Control", cacheControl[surface])
	if c.Request().Header.Get("If-None-Match") == etag {
		return notModified(c, etag)
	}
	return okBundle(c, etag, value)
}

// CreateEvent maps writer outcomes onto the 201/200 contract.
func (a *API) CreateEvent(c echo.Context) error {
	var in service.CreateInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, CodeParseError, "invalid request body")
	}
	e, duplicate, err := a.events.Create(c.Request().Context(), in)
	if err != nil {
		return svcError(c, a.logger, err)
	}
	if duplicate {
		return c.JSON(http.StatusOK, successEnvelope{OK: true, Value: e, Duplicate: true})
	}
	a.cache.Set(c.Request().Context(), e)
	c.Response().Header().Set("Location", "/api/events/"+e.ID)
	return okValue(c, http.StatusCreated, e)
}

// RecordResult merges collections into an event and invalidates its cache
// entries.
func (a *API) RecordResult(c echo.Context) error {
	var in service.ResultInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, CodeParseError, "invalid request body")
	}
	e, err := a.events.RecordResult(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return svcError(c, a.logger, err)
	}
	a.cache.Invalidate(c.Request().Context(), e)
	return okValue(c, http.StatusOK, e)
}

// CreateShortlink mints a shortlink from the admin surface.
func (a *API) CreateShortlink(c echo.Context) error {
	var in model.Shortlink
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, CodeParseError, "invalid request body")
	}
	if in.BrandID == "" {
		in.BrandID = brandID(c)
	}
	link, err := a.shortlinks.Create(c.Request().Context(), &in)
	if err != nil {
		return svcError(c, a.logger, err)
	}
	return okValue(c, http.StatusCreated, link)
}

// IngestAnalytics accepts a single metric event or a batch. Valid input is
// acknowledged immediately; the append happens behind the response.
func (a *API) IngestAnalytics(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return fail(c, http.StatusBadRequest, CodeParseError, "unreadable request body")
	}

	// Accepted forms: a bare array, an {events:[...]} wrapper, or a single
	// event object.
	var evs []*model.AnalyticsEvent
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &evs); err != nil {
			return fail(c, http.StatusBadRequest, CodeParseError, "invalid batch body")
		}
	default:
		var wrapper struct {
			model.AnalyticsEvent
			Events []*model.AnalyticsEvent `json:"events"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return fail(c, http.StatusBadRequest, CodeParseError, "invalid request body")
		}
		if wrapper.Events != nil {
			evs = wrapper.Events
		} else {
			ev := wrapper.AnalyticsEvent
			evs = []*model.AnalyticsEvent{&ev}
		}
	}

	queued, err := a.analytics.Ingest(c.Request().Context(), evs)
	if err != nil {
		return svcError(c, a.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true, "queued": queued})
}

// Shortlink resolves ?t= / ?token= and issues the 302. Failures degrade to
// HTML shells: a bad token and an unknown token both read as "Link Not
// Found", a corrupt target as a server error.
func (a *API) Shortlink(c echo.Context) error {
	token := c.QueryParam("t")
	if token == "" {
		token = c.QueryParam("token")
	}

	link, err := a.shortlinks.Resolve(
		c.Request().Context(),
		token,
		c.Request().UserAgent(),
		c.Request().Referer(),
	)
	if err != nil {
		vars := map[string]string{"APP_TITLE": brand.Get(brandID(c)).AppTitle}
		switch {
		case errors.Is(err, service.ErrInvalidToken), errors.Is(err, store.ErrNotFound):
			status, body := a.renderer.Render(PageLinkNotFound, vars)
			return c.HTML(status, body)
		default:
			a.logger.Error("shortlink resolution failed", zap.Error(err))
			status, body := a.renderer.Render(PageServerError, vars)
			return c.HTML(status, body)
		}
	}

	c.Response().Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Response().Header().Set("X-Shortlink-Token", truncateToken(link.Token))
	return c.Redirect(http.StatusFound, link.TargetURL)
}

func truncateToken(token string) string {
	if len(token) > 8 {
		token = token[:8]
	}
	return token + "..."
}

// HTMLPage renders the brand-stamped shell for an alias route.
func (a *API) HTMLPage(page string) echo.HandlerFunc {
	return func(c echo.Context) error {
		b := brand.Get(brandID(c))
		status, body := a.renderer.Render(page, map[string]string{
			"APP_TITLE": b.AppTitle,
			"BRAND_ID":  b.ID,
			"LOGO_URL":  b.LogoURL,
		})
		return c.HTML(status, body)
	}
}
