// Package model defines the canonical event, shortlink and analytics records
// exchanged between the store, the composers and the handlers, together with
// the EVENTS row codec.
package model

// CTA is a single call-to-action button.
type CTA struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// CTAs groups the primary and optional secondary call-to-action.
type CTAs struct {
	Primary   CTA  `json:"primary"`
	Secondary *CTA `json:"secondary,omitempty"`
}

// Links are the per-surface URLs derived from the event id and brand.
type Links struct {
	PublicURL  string `json:"publicUrl,omitempty"`
	DisplayURL string `json:"displayUrl,omitempty"`
	PosterURL  string `json:"posterUrl,omitempty"`
	SignupURL  string `json:"signupUrl,omitempty"`
}

// QR holds opaque QR payloads for the event. Values may be empty; QR
// generation is an external collaborator.
type QR struct {
	Public string `json:"public,omitempty"`
	Signup string `json:"signup,omitempty"`
}

// Settings are the per-event visibility toggles.
type Settings struct {
	ShowSchedule  bool            `json:"showSchedule"`
	ShowStandings bool            `json:"showStandings"`
	ShowBracket   bool            `json:"showBracket"`
	ShowSponsors  bool            `json:"showSponsors"`
	Surfaces      map[string]bool `json:"surfaces,omitempty"`
}

// ScheduleItem is one row of the event schedule, in display order.
type ScheduleItem struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Notes    string `json:"notes,omitempty"`
}

// StandingsRow is one row of the standings table, in rank order.
type StandingsRow struct {
	Rank  int                    `json:"rank"`
	Name  string                 `json:"name"`
	Score float64                `json:"score"`
	Stats map[string]interface{} `json:"stats,omitempty"`
}

// Match is a single bracket match.
type Match struct {
	ID       string `json:"id"`
	Round    int    `json:"round"`
	Position int    `json:"position"`
	Team1    string `json:"team1,omitempty"`
	Team2    string `json:"team2,omitempty"`
	Score1   *int   `json:"score1,omitempty"`
	Score2   *int   `json:"score2,omitempty"`
	Winner   string `json:"winner,omitempty"`
}

// Bracket is the tournament bracket, if the event runs one.
type Bracket struct {
	Type    string  `json:"type,omitempty"`
	Rounds  int     `json:"rounds,omitempty"`
	Matches []Match `json:"matches"`
}

// Sponsor is one sponsor placement record. Placement is the legacy
// single-surface field; Placements maps surface slot keys to booleans and
// takes precedence where both are set.
type Sponsor struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	LogoURL    string          `json:"logoUrl,omitempty"`
	LinkURL    string          `json:"linkUrl,omitempty"`
	Placement  string          `json:"placement,omitempty"`
	Placements map[string]bool `json:"placements,omitempty"`
}

// Event is the canonical stored event. In-memory values are treated as
// immutable within a request; composers copy before mutating projections.
type Event struct {
	ID           string         `json:"id"`
	BrandID      string         `json:"brandId"`
	Slug         string         `json:"slug"`
	EventTag     string         `json:"eventTag"`
	Name         string         `json:"name"`
	StartDateISO string         `json:"startDateISO"`
	Venue        string         `json:"venue"`
	TemplateID   *string        `json:"templateId"`
	Links        Links          `json:"links"`
	QR           *QR            `json:"qr,omitempty"`
	CTAs         CTAs           `json:"ctas"`
	Settings     Settings       `json:"settings"`
	Schedule     []ScheduleItem `json:"schedule"`
	Standings    []StandingsRow `json:"standings"`
	Bracket      *Bracket       `json:"bracket,omitempty"`
	Sponsors     []Sponsor      `json:"sponsors"`
	CreatedAtISO string         `json:"createdAtISO"`
	UpdatedAtISO string         `json:"updatedAtISO"`
}

// Clone returns a deep copy safe to mutate in a projection.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	if e.TemplateID != nil {
		v := *e.TemplateID
		c.TemplateID = &v
	}
	if e.QR != nil {
		q := *e.QR
		c.QR = &q
	}
	if e.CTAs.Secondary != nil {
		s := *e.CTAs.Secondary
		c.CTAs.Secondary = &s
	}
	if e.Settings.Surfaces != nil {
		c.Settings.Surfaces = make(map[string]bool, len(e.Settings.Surfaces))
		for k, v := range e.Settings.Surfaces {
			c.Settings.Surfaces[k] = v
		}
	}
	c.Schedule = append([]ScheduleItem(nil), e.Schedule...)
	c.Standings = make([]StandingsRow, len(e.Standings))
	for i, r := range e.Standings {
		c.Standings[i] = r
		if r.Stats != nil {
			c.Standings[i].Stats = make(map[string]interface{}, len(r.Stats))
			for k, v := range r.Stats {
				c.Standings[i].Stats[k] = v
			}
		}
	}
	if e.Bracket != nil {
		b := *e.Bracket
		b.Matches = make([]Match, len(e.Bracket.Matches))
		for i, m := range e.Bracket.Matches {
			b.Matches[i] = m
			if m.Score1 != nil {
				v := *m.Score1
				b.Matches[i].Score1 = &v
			}
			if m.Score2 != nil {
				v := *m.Score2
				b.Matches[i].Score2 = &v
			}
		}
		c.Bracket = &b
	}
	c.Sponsors = make([]Sponsor, len(e.Sponsors))
	for i, s := range e.Sponsors {
		c.Sponsors[i] = s
		if s.Placements != nil {
			c.Sponsors[i].Placements = make(map[string]bool, len(s.Placements))
			for k, v := range s.Placements {
				c.Sponsors[i].Placements[k] = v
			}
		}
	}
	return &c
}

// Shortlink is one SHORTLINKS row: an opaque token resolving to a target URL
// with optional attribution fields.
type Shortlink struct {
	Token     string `json:"token"`
	TargetURL string `json:"targetUrl"`
	EventID   string `json:"eventId,omitempty"`
	SponsorID string `json:"sponsorId,omitempty"`
	Surface   string `json:"surface,omitempty"`
	CreatedAt string `json:"createdAt"`
	BrandID   string `json:"brandId,omitempty"`
}

// AnalyticsEvent is one append-only ANALYTICS row before column serialization.
type AnalyticsEvent struct {
	Timestamp         string   `json:"timestamp,omitempty"`
	EventID           string   `json:"eventId"`
	Surface           string   `json:"surface"`
	Metric            string   `json:"metric"`
	SponsorID         string   `json:"sponsorId,omitempty"`
	Value             string   `json:"value,omitempty"`
	Token             string   `json:"token,omitempty"`
	UserAgent         string   `json:"userAgent,omitempty"`
	SessionID         string   `json:"sessionId,omitempty"`
	VisibleSponsorIDs []string `json:"visibleSponsorIds,omitempty"`
}
