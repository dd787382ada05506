// Package bundle composes per-surface event projections. Composers are pure
// functions of the stored event and the supplied clock; anything ambient
// (health probes, sync stamps, shortlink counts) is passed in by the caller.
package bundle

import (
	"strings"
	"time"

	"github.com/zeventbooks/event-gateway/internal/brand"
	"github.com/zeventbooks/event-gateway/internal/model"
)

// Surface names, also used as the surface column in analytics rows.
const (
	SurfacePublic  = "public"
	SurfaceDisplay = "display"
	SurfacePoster  = "poster"
	SurfaceAdmin   = "admin"
)

// Lifecycle phases derived from the event start date.
const (
	PhasePreEvent  = "pre-event"
	PhaseEventDay  = "event-day"
	PhasePostEvent = "post-event"
)

var phaseLabels = map[string]string{
	PhasePreEvent:  "Coming up",
	PhaseEventDay:  "Happening today",
	PhasePostEvent: "Wrapped up",
}

// Lifecycle is the phase block attached to every bundle.
type Lifecycle struct {
	Phase  string `json:"phase"`
	Label  string `json:"label"`
	IsLive bool   `json:"isLive"`
}

// Bundle is one composed surface projection. Event is a deep copy; mutating
// it never touches the stored record.
type Bundle struct {
	Surface        string             `json:"surface"`
	Event          *model.Event       `json:"event"`
	Brand          brand.PublicConfig `json:"brand"`
	LifecyclePhase Lifecycle          `json:"lifecyclePhase"`
}

// DisplayEvent is the venue-screen projection of an event. It deliberately
// drops the operator and print fields: no ctas, qr, eventTag or templateId.
type DisplayEvent struct {
	ID           string               `json:"id"`
	Slug         string               `json:"slug"`
	Name         string               `json:"name"`
	StartDateISO string               `json:"startDateISO"`
	Venue        string               `json:"venue"`
	Links        model.Links          `json:"links"`
	Schedule     []model.ScheduleItem `json:"schedule"`
	Standings    []model.StandingsRow `json:"standings"`
	Bracket      *model.Bracket       `json:"bracket,omitempty"`
	Sponsors     []model.Sponsor      `json:"sponsors"`
	Settings     model.Settings       `json:"settings"`
	CreatedAtISO string               `json:"createdAtISO"`
	UpdatedAtISO string               `json:"updatedAtISO"`
}

// PosterEvent is the print projection: the display fields plus the call to
// action block and the QR payload. QR has no omitempty so an unusable code
// serializes as an explicit null.
type PosterEvent struct {
	DisplayEvent
	CTAs model.CTAs `json:"ctas"`
	QR   *model.QR  `json:"qr"`
}

// DisplayBundle is the composed venue-screen surface.
type DisplayBundle struct {
	Surface        string             `json:"surface"`
	Event          *DisplayEvent      `json:"event"`
	Brand          brand.PublicConfig `json:"brand"`
	LifecyclePhase Lifecycle          `json:"lifecyclePhase"`
}

// PosterBundle is the composed print surface.
type PosterBundle struct {
	Surface        string             `json:"surface"`
	Event          *PosterEvent       `json:"event"`
	Brand          brand.PublicConfig `json:"brand"`
	LifecyclePhase Lifecycle          `json:"lifecyclePhase"`
	QRValid        bool               `json:"qrValid"`
}

// Diagnostics is the operational block attached to admin bundles only.
// Warnings are derived from the event; the rest comes from the caller.
type Diagnostics struct {
	FormStatus      string   `json:"formStatus"`
	ShortlinksCount int      `json:"shortlinksCount"`
	LastSyncedAt    string   `json:"lastSyncedAt"`
	Warnings        []string `json:"warnings"`
}

// AdminBundle carries the unfiltered event plus operator-only extras.
type AdminBundle struct {
	Surface        string            `json:"surface"`
	Event          *model.Event      `json:"event"`
	Brand          brand.AdminConfig `json:"brand"`
	Templates      []brand.Template  `json:"templates"`
	AllSponsors    []model.Sponsor   `json:"allSponsors"`
	Diagnostics    Diagnostics       `json:"diagnostics"`
	LifecyclePhase Lifecycle         `json:"lifecyclePhase"`
}

// LifecyclePhase buckets now against the event start date, comparing
// calendar days in UTC. An unparseable or missing start date reads as
// pre-event so a bad row degrades to the most conservative rendering.
func LifecyclePhase(startDateISO string, now time.Time) Lifecycle {
	phase := PhasePreEvent
	if start, err := time.Parse("2006-01-02", datePart(startDateISO)); err == nil {
		today := now.UTC().Truncate(24 * time.Hour)
		start = start.UTC().Truncate(24 * time.Hour)
		switch {
		case today.Equal(start):
			phase = PhaseEventDay
		case today.After(start):
			phase = PhasePostEvent
		}
	}
	return Lifecycle{
		Phase:  phase,
		Label:  phaseLabels[phase],
		IsLive: phase == PhaseEventDay,
	}
}

func datePart(iso string) string {
	if i := strings.IndexByte(iso, 'T'); i > 0 {
		return iso[:i]
	}
	return iso
}

// sponsorOn reports whether the sponsor targets the surface, either through
// the legacy single-surface field or any of the given placement slots.
func sponsorOn(s model.Sponsor, legacy string, slots ...string) bool {
	if s.Placement == legacy {
		return true
	}
	for _, slot := range slots {
		if s.Placements[slot] {
			return true
		}
	}
	return false
}

func filterSponsors(sponsors []model.Sponsor, legacy string, slots ...string) []model.Sponsor {
	out := make([]model.Sponsor, 0, len(sponsors))
	for _, s := range sponsors {
		if sponsorOn(s, legacy, slots...) {
			out = append(out, s)
		}
	}
	return out
}

func base(e *model.Event, surface string, b brand.Brand, now time.Time) Bundle {
	return Bundle{
		Surface:        surface,
		Event:          e.Clone(),
		Brand:          b.Public(),
		LifecyclePhase: LifecyclePhase(e.StartDateISO, now),
	}
}

// Public composes the mobile surface: sponsors narrowed to the public
// placement or the mobileBanner slot.
func Public(e *model.Event, b brand.Brand, now time.Time) Bundle {
	out := base(e, SurfacePublic, b, now)
	out.Event.Sponsors = filterSponsors(e.Sponsors, "public", "mobileBanner")
	return out
}

// narrowEvent projects a clone of e down to the display field set, so the
// caller may mutate the result freely.
func narrowEvent(c *model.Event) *DisplayEvent {
	return &DisplayEvent{
		ID:           c.ID,
		Slug:         c.Slug,
		Name:         c.Name,
		StartDateISO: c.StartDateISO,
		Venue:        c.Venue,
		Links:        c.Links,
		Schedule:     c.Schedule,
		Standings:    c.Standings,
		Bracket:      c.Bracket,
		Sponsors:     c.Sponsors,
		Settings:     c.Settings,
		CreatedAtISO: c.CreatedAtISO,
		UpdatedAtISO: c.UpdatedAtISO,
	}
}

// Display composes the venue-screen surface: the narrowed event with
// sponsors limited to the display placement or the tvTop/tvSide slots.
func Display(e *model.Event, b brand.Brand, now time.Time) DisplayBundle {
	ev := narrowEvent(e.Clone())
	ev.Sponsors = filterSponsors(e.Sponsors, "display", "tvTop", "tvSide")
	return DisplayBundle{
		Surface:        SurfaceDisplay,
		Event:          ev,
		Brand:          b.Public(),
		LifecyclePhase: LifecyclePhase(e.StartDateISO, now),
	}
}

// Poster composes the print surface. A poster QR code is only usable when
// the public payload is an embeddable image and a public URL exists to back
// it; otherwise qr is null and qrValid reports why the poster renders
// without one.
func Poster(e *model.Event, b brand.Brand, now time.Time) PosterBundle {
	c := e.Clone()
	ev := &PosterEvent{DisplayEvent: *narrowEvent(c), CTAs: c.CTAs}
	ev.Sponsors = filterSponsors(e.Sponsors, "poster", "posterTop")

	valid := e.QR != nil &&
		strings.HasPrefix(e.QR.Public, "data:image") &&
		e.Links.PublicURL != ""
	if valid {
		ev.QR = c.QR
	}
	return PosterBundle{
		Surface:        SurfacePoster,
		Event:          ev,
		Brand:          b.Public(),
		LifecyclePhase: LifecyclePhase(e.StartDateISO, now),
		QRValid:        valid,
	}
}

// Admin composes the operator surface: the full event with no sponsor
// filtering, the brand's template management data and the diagnostics
// block. Event-derived warnings are appended to whatever the caller put in
// diag.Warnings.
func Admin(e *model.Event, b brand.Brand, now time.Time, diag Diagnostics) AdminBundle {
	diag.Warnings = append(diag.Warnings, eventWarnings(e)...)
	if diag.Warnings == nil {
		diag.Warnings = []string{}
	}
	return AdminBundle{
		Surface:        SurfaceAdmin,
		Event:          e.Clone(),
		Brand:          b.Admin(),
		Templates:      brand.Templates(b.ID),
		AllSponsors:    append([]model.Sponsor(nil), e.Sponsors...),
		Diagnostics:    diag,
		LifecyclePhase: LifecyclePhase(e.StartDateISO, now),
	}
}

func eventWarnings(e *model.Event) []string {
	var w []string
	if e.Links.SignupURL == "" {
		w = append(w, "signup URL is not set")
	}
	if e.QR == nil || e.QR.Public == "" {
		w = append(w, "public QR code is missing")
	}
	return w
}
