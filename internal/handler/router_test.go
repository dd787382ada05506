package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/zeventbooks/event-gateway/internal/handler"
	"github.com/zeventbooks/event-gateway/internal/model"
	"github.com/zeventbooks/event-gateway/internal/service"
	svcmocks "github.com/zeventbooks/event-gateway/internal/service/mocks"
	shmocks "github.com/zeventbooks/event-gateway/internal/sheets/mocks"
	"github.com/zeventbooks/event-gateway/internal/store"
)

type fixture struct {
	e          *echo.Echo
	events     *svcmocks.MockEventService
	shortlinks *svcmocks.MockShortlinkService
	analytics  *svcmocks.MockAnalyticsService
	sheets     *shmocks.MockClient
}

func newFixture(t *testing.T, adminToken string) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		e:          echo.New(),
		events:     svcmocks.NewMockEventService(ctrl),
		shortlinks: svcmocks.NewMockShortlinkService(ctrl),
		analytics:  svcmocks.NewMockAnalyticsService(ctrl),
		sheets:     shmocks.NewMockClient(ctrl),
	}
	api := handler.NewAPI(
		f.events, f.shortlinks, f.analytics, f.sheets,
		nil, handler.NewShellRenderer(), nil, "dev", zap.NewNop(),
	)
	handler.NewRouter(api, adminToken, zap.NewNop()).Register(f.e)
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func testEvent() *model.Event {
	return &model.Event{
		ID:           "evt-abc123-xyzzy1",
		BrandID:      "abc",
		Slug:         "trivia-night",
		Name:         "Trivia Night",
		StartDateISO: "2025-12-01",
		Venue:        "Hall A",
		Links:        model.Links{PublicURL: "https://x.test/abc/public?id=evt-abc123-xyzzy1"},
		CreatedAtISO: "2025-11-20T10:00:00Z",
		UpdatedAtISO: "2025-11-20T10:00:00Z",
	}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStatus_HeadersAndEnvelope(t *testing.T) {
	f := newFixture(t, "")
	f.sheets.EXPECT().IsConfigured().Return(true)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.Version, rec.Header().Get("X-Router-Version"))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	body := decodeJSON(t, rec)
	assert.Equal(t, true, body["ok"])
	value := body["value"].(map[string]interface{})
	assert.Equal(t, handler.Version, value["version"])
	assert.Equal(t, "dev", value["env"])
	assert.Equal(t, true, value["configured"])
}

func TestRequestID_PrefersUpstreamHeader(t *testing.T) {
	f := newFixture(t, "")
	f.sheets.EXPECT().IsConfigured().Return(true)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set(echo.HeaderXRequestID, "upstream-42")
	rec := f.do(req)

	assert.Equal(t, "upstream-42", rec.Header().Get(echo.HeaderXRequestID))
}

func TestUnknownRoute_EnvelopeWithHeaders(t *testing.T) {
	f := newFixture(t, "")

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, handler.Version, rec.Header().Get("X-Router-Version"))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	body := decodeJSON(t, rec)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Equal(t, "Not Found", body["error"])
	assert.Equal(t, "/api/nope", body["path"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestMethodNotAllowed_AllowHeader(t *testing.T) {
	f := newFixture(t, "")

	rec := f.do(httptest.NewRequest(http.MethodPost, "/tv", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get("Allow"))
	body := decodeJSON(t, rec)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "Method Not Allowed", body["error"])
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	req.Header.Set(echo.HeaderOrigin, "https://example.test")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := f.do(req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "86400", rec.Header().Get(echo.HeaderAccessControlMaxAge))
}

func TestBrandPrefix_SelectsBrand(t *testing.T) {
	f := newFixture(t, "")
	f.events.EXPECT().List(gomock.Any(), "abc").Return([]*model.Event{testEvent()}, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/abc/api/events", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Len(t, body["value"], 1)
}

func TestListEvents_SummariesNewestFirst(t *testing.T) {
	f := newFixture(t, "")
	older := testEvent()
	newer := testEvent()
	newer.ID = "evt-abc456-qwerty"
	newer.Slug = "quiz-finals"
	newer.UpdatedAtISO = "2025-11-21T09:00:00Z"
	f.events.EXPECT().List(gomock.Any(), "root").Return([]*model.Event{older, newer}, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/events", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	value := body["value"].([]interface{})
	require.Len(t, value, 2)
	first := value[0].(map[string]interface{})
	assert.Equal(t, "quiz-finals", first["slug"])
	assert.NotContains(t, first, "schedule")
	assert.NotContains(t, first, "sponsors")
}

func TestBrandQueryParam_OverridesPrefix(t *testing.T) {
	f := newFixture(t, "")
	f.events.EXPECT().List(gomock.Any(), "cbc").Return(nil, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/abc/api/events?brand=cbc", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, []interface{}{}, body["value"])
}

func TestHTMLAlias_RendersShell(t *testing.T) {
	f := newFixture(t, "")

	for path, page := range map[string]string{
		"/":       "public",
		"/tv":     "display",
		"/flyers": "poster",
		"/manage": "admin",
	} {
		rec := f.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `data-page="`+page+`"`, path)
		assert.Contains(t, rec.Body.String(), `data-brand="root"`, path)
	}
}

func TestHTMLAlias_BrandPrefixStampsBrand(t *testing.T) {
	f := newFixture(t, "")

	rec := f.do(httptest.NewRequest(http.MethodGet, "/cbl/display", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-brand="cbl"`)
	assert.Contains(t, rec.Body.String(), "Community Bar League")
}

func TestAdminBundle_Unauthenticated(t *testing.T) {
	f := newFixture(t, "sekrit")

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/events/evt-1/adminBundle", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "UNAUTHORIZED", body["code"])
	assert.Equal(t, "Missing or invalid authentication", body["message"])
}

func TestAdminBundle_BearerToken(t *testing.T) {
	f := newFixture(t, "sekrit")
	e := testEvent()
	f.sheets.EXPECT().IsConfigured().Return(true)
	f.events.EXPECT().Get(gomock.Any(), "abc", e.ID).Return(e, nil)
	f.shortlinks.EXPECT().Count(gomock.Any()).Return(3, nil)

	req := httptest.NewRequest(http.MethodGet, "/abc/api/events/"+e.ID+"/adminBundle", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer sekrit")
	rec := f.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `W/"admin-2025-11-20T10:00:00Z"`, rec.Header().Get("ETag"))
	assert.Equal(t, "private, no-cache", rec.Header().Get("Cache-Control"))

	body := decodeJSON(t, rec)
	value := body["value"].(map[string]interface{})
	diag := value["diagnostics"].(map[string]interface{})
	assert.Equal(t, float64(3), diag["shortlinksCount"])
	assert.Equal(t, "ok", diag["formStatus"])
}

func TestAdminBundle_LegacyAdminKey(t *testing.T) {
	f := newFixture(t, "sekrit")
	e := testEvent()
	f.sheets.EXPECT().IsConfigured().Return(true)
	f.events.EXPECT().Get(gomock.Any(), "root", e.ID).Return(e, nil)
	f.shortlinks.EXPECT().Count(gomock.Any()).Return(0, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/events/"+e.ID+"/adminBundle?adminKey=sekrit", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPublicBundle_ConditionalGet(t *testing.T) {
	f := newFixture(t, "")
	e := testEvent()
	f.sheets.EXPECT().IsConfigured().Return(true).Times(2)
	f.events.EXPECT().Get(gomock.Any(), "root", e.ID).Return(e, nil).Times(2)

	first := f.do(httptest.NewRequest(http.MethodGet, "/api/events/"+e.ID+"/publicBundle", nil))
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, "private, max-age=60, stale-while-revalidate=300", first.Header().Get("Cache-Control"))

	req := httptest.NewRequest(http.MethodGet, "/api/events/"+e.ID+"/publicBundle", nil)
	req.Header.Set("If-None-Match", etag)
	second := f.do(req)

	assert.Equal(t, http.StatusNotModified, second.Code)
	body := decodeJSON(t, second)
	assert.Equal(t, true, body["notModified"])
	assert.Equal(t, etag, body["etag"])
	assert.Nil(t, body["value"])
}

func TestPublicBundle_NoBrandPrefixUsesEventBrand(t *testing.T) {
	f := newFixture(t, "")
	e := testEvent() // owned by abc
	f.sheets.EXPECT().IsConfigured().Return(true)
	f.events.EXPECT().Get(gomock.Any(), "root", e.ID).Return(e, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/events/"+e.ID+"/publicBundle", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	value := body["value"].(map[string]interface{})
	bundleBrand := value["brand"].(map[string]interface{})
	assert.Equal(t, "abc", bundleBrand["id"])
}

func TestPublicBundle_BrandPrefixOverridesEventBrand(t *testing.T) {
	f := newFixture(t, "")
	e := testEvent()
	f.sheets.EXPECT().IsConfigured().Return(true)
	f.events.EXPECT().Get(gomock.Any(), "cbc", e.ID).Return(e, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/cbc/api/events/"+e.ID+"/publicBundle", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	value := body["value"].(map[string]interface{})
	bundleBrand := value["brand"].(map[string]interface{})
	assert.Equal(t, "cbc", bundleBrand["id"])
}

func TestPublicBundle_NotConfigured(t *testing.T) {
	f := newFixture(t, "")
	f.sheets.EXPECT().IsConfigured().Return(false)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/events/evt-1/publicBundle", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, "NOT_CONFIGURED", body["code"])
}

func TestGetEvent_NotFound(t *testing.T) {
	f := newFixture(t, "")
	f.events.EXPECT().Get(gomock.Any(), "root", "ghost").
		Return(nil, store.ErrNotFound)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/events/ghost", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, "EVENT_NOT_FOUND", body["code"])
}

func TestCreateEvent_Created(t *testing.T) {
	f := newFixture(t, "sekrit")
	e := testEvent()
	f.events.EXPECT().Create(gomock.Any(), service.CreateInput{
		Name:         "Trivia Night",
		StartDateISO: "2025-12-01",
		Venue:        "Hall A",
		BrandID:      "abc",
	}).Return(e, false, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/events",
		strings.NewReader(`{"name":"Trivia Night","startDateISO":"2025-12-01","venue":"Hall A","brandId":"abc"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer sekrit")
	rec := f.do(req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/events/"+e.ID, rec.Header().Get("Location"))
	body := decodeJSON(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Nil(t, body["duplicate"])
}

func TestCreateEvent_Duplicate(t *testing.T) {
	f := newFixture(t, "sekrit")
	e := testEvent()
	f.events.EXPECT().Create(gomock.Any(), gomock.Any()).Return(e, true, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/events",
		strings.NewReader(`{"name":"Trivia Night","startDateISO":"2025-12-01","venue":"Hall A","brandId":"abc"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer sekrit")
	rec := f.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	body := decodeJSON(t, rec)
	assert.Equal(t, true, body["duplicate"])
	value := body["value"].(map[string]interface{})
	assert.Equal(t, e.ID, value["id"])
}

func TestCreateEvent_BadInput(t *testing.T) {
	f := newFixture(t, "")
	f.events.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(nil, false, service.ErrBadInput)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/events",
		strings.NewReader(`{"name":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, "BAD_INPUT", body["code"])
}

func TestRecordResult_OK(t *testing.T) {
	f := newFixture(t, "sekrit")
	e := testEvent()
	e.Standings = []model.StandingsRow{{Rank: 1, Name: "Alpha", Score: 42}}
	e.Settings.ShowStandings = true
	f.events.EXPECT().RecordResult(gomock.Any(), e.ID, gomock.Any()).Return(e, nil)

	req := httptest.NewRequest(http.MethodPost, "/abc/api/admin/events/"+e.ID+"/results",
		strings.NewReader(`{"standings":[{"rank":1,"name":"Alpha","score":42}]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer sekrit")
	rec := f.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	value := body["value"].(map[string]interface{})
	settings := value["settings"].(map[string]interface{})
	assert.Equal(t, true, settings["showStandings"])
}

func TestShortlink_Redirect(t *testing.T) {
	f := newFixture(t, "")
	f.shortlinks.EXPECT().
		Resolve(gomock.Any(), "promofall2025", gomock.Any(), gomock.Any()).
		Return(&model.Shortlink{Token: "promofall2025", TargetURL: "https://sponsor.test/offer"}, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/r?t=promofall2025", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://sponsor.test/offer", rec.Header().Get("Location"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "promofal...", rec.Header().Get("X-Shortlink-Token"))
}

func TestShortlink_LegacyQueryForm(t *testing.T) {
	f := newFixture(t, "")
	f.shortlinks.EXPECT().
		Resolve(gomock.Any(), "promofall2025", gomock.Any(), gomock.Any()).
		Return(&model.Shortlink{Token: "promofall2025", TargetURL: "https://sponsor.test/offer"}, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/?p=r&token=promofall2025", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestShortlink_UnknownToken(t *testing.T) {
	f := newFixture(t, "")
	f.shortlinks.EXPECT().
		Resolve(gomock.Any(), "missing1", gomock.Any(), gomock.Any()).
		Return(nil, store.ErrNotFound)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/redirect?t=missing1", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Link Not Found")
}

func TestShortlink_InvalidTarget(t *testing.T) {
	f := newFixture(t, "")
	f.shortlinks.EXPECT().
		Resolve(gomock.Any(), "badtarget", gomock.Any(), gomock.Any()).
		Return(nil, service.ErrInvalidURL)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/r?t=badtarget", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something Went Wrong")
}

func TestIngestAnalytics_SingleObject(t *testing.T) {
	f := newFixture(t, "")
	f.analytics.EXPECT().Ingest(gomock.Any(), gomock.Len(1)).Return(1, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics",
		strings.NewReader(`{"eventId":"evt-1","surface":"public","metric":"view"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := f.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(1), body["queued"])
}

func TestIngestAnalytics_Batch(t *testing.T) {
	f := newFixture(t, "")
	f.analytics.EXPECT().Ingest(gomock.Any(), gomock.Len(2)).Return(2, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics",
		strings.NewReader(`[{"eventId":"evt-1","surface":"public","metric":"view"},{"eventId":"evt-1","surface":"poster","metric":"scan"}]`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := f.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, float64(2), body["queued"])
}

func TestIngestAnalytics_WrappedBatch(t *testing.T) {
	f := newFixture(t, "")
	f.analytics.EXPECT().Ingest(gomock.Any(), gomock.Len(2)).Return(2, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics",
		strings.NewReader(`{"events":[{"eventId":"evt-1","surface":"public","metric":"view"},{"eventId":"evt-1","surface":"public","metric":"sponsor_impression"}]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := f.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, float64(2), body["queued"])
}

func TestCreateShortlink_Created(t *testing.T) {
	f := newFixture(t, "sekrit")
	f.shortlinks.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, link *model.Shortlink) (*model.Shortlink, error) {
			assert.Equal(t, "https://sponsor.test/offer", link.TargetURL)
			assert.Equal(t, "root", link.BrandID)
			out := *link
			out.Token = "tok12345"
			return &out, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/shortlinks",
		strings.NewReader(`{"targetUrl":"https://sponsor.test/offer"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer sekrit")
	rec := f.do(req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeJSON(t, rec)
	value := body["value"].(map[string]interface{})
	assert.Equal(t, "tok12345", value["token"])
}

func TestTrailingSlash_Normalized(t *testing.T) {
	f := newFixture(t, "")
	f.events.EXPECT().List(gomock.Any(), "root").Return(nil, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/events/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
