// Package brand holds the static tenant registry. Brands are deployment
// configuration, not stored data: the closed set below is the whole universe
// of tenants and the zero-value fallback is always Root.
package brand

// Brand identifiers. Root is the default tenant used when no prefix or
// query parameter selects one.
const (
	Root = "root"
	ABC  = "abc"
	CBC  = "cbc"
	CBL  = "cbl"
)

// Theme is the color palette applied to rendered surfaces.
type Theme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// Template is a page template a brand may assign to an event.
type Template struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Brand is one tenant partition: display identity, theme, feature flags and
// the template allowlist with its default.
type Brand struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	AppTitle          string          `json:"appTitle"`
	LogoURL           string          `json:"logoUrl"`
	Theme             Theme           `json:"theme"`
	Features          map[string]bool `json:"features"`
	AllowedTemplates  []string        `json:"allowedTemplates"`
	DefaultTemplateID string          `json:"defaultTemplateId"`
}

// PublicConfig is the projection of a brand embedded in public-facing
// bundles. It omits the template allowlist, which is admin-only.
type PublicConfig struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	AppTitle string          `json:"appTitle"`
	LogoURL  string          `json:"logoUrl"`
	Theme    Theme           `json:"theme"`
	Features map[string]bool `json:"features"`
}

// AdminConfig extends the public projection with template management data.
type AdminConfig struct {
	PublicConfig
	AllowedTemplates  []string `json:"allowedTemplates"`
	DefaultTemplateID string   `json:"defaultTemplateId"`
}

var templates = map[string]Template{
	"classic":    {ID: "classic", Name: "Classic"},
	"bold":       {ID: "bold", Name: "Bold"},
	"minimal":    {ID: "minimal", Name: "Minimal"},
	"tournament": {ID: "tournament", Name: "Tournament"},
}

var registry = map[string]Brand{
	Root: {
		ID:                Root,
		Name:              "Event Toolkit",
		AppTitle:          "Event Toolkit",
		LogoURL:           "/assets/logo.svg",
		Theme:             Theme{Primary: "#1a1a2e", Secondary: "#16213e", Accent: "#e94560"},
		Features:          map[string]bool{"schedule": true, "standings": true, "bracket": true, "sponsors": true},
		AllowedTemplates:  []string{"classic", "bold", "minimal", "tournament"},
		DefaultTemplateID: "classic",
	},
	ABC: {
		ID:                ABC,
		Name:              "ABC Events",
		AppTitle:          "ABC Events",
		LogoURL:           "/assets/abc/logo.svg",
		Theme:             Theme{Primary: "#0f3057", Secondary: "#00587a", Accent: "#e7a61a"},
		Features:          map[string]bool{"schedule": true, "standings": true, "bracket": true, "sponsors": true},
		AllowedTemplates:  []string{"classic", "bold", "tournament"},
		DefaultTemplateID: "classic",
	},
	CBC: {
		ID:                CBC,
		Name:              "CBC League",
		AppTitle:          "CBC League Nights",
		LogoURL:           "/assets/cbc/logo.svg",
		Theme:             Theme{Primary: "#2d132c", Secondary: "#801336", Accent: "#ee4540"},
		Features:          map[string]bool{"schedule": true, "standings": true, "bracket": false, "sponsors": true},
		AllowedTemplates:  []string{"classic", "minimal"},
		DefaultTemplateID: "minimal",
	},
	CBL: {
		ID:                CBL,
		Name:              "Community Bar League",
		AppTitle:          "Community Bar League",
		LogoURL:           "/assets/cbl/logo.svg",
		Theme:             Theme{Primary: "#1b262c", Secondary: "#0f4c75", Accent: "#3282b8"},
		Features:          map[string]bool{"schedule": true, "standings": true, "bracket": true, "sponsors": false},
		AllowedTemplates:  []string{"classic", "bold", "minimal", "tournament"},
		DefaultTemplateID: "bold",
	},
}

// IsValid reports whether id names a registered brand.
func IsValid(id string) bool {
	_, ok := registry[id]
	return ok
}

// Get returns the brand for id, falling back to Root for unknown ids.
func Get(id string) Brand {
	if b, ok := registry[id]; ok {
		return b
	}
	return registry[Root]
}

// IDs returns all registered brand ids. Order is unspecified.
func IDs() []string {
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	return out
}

// Templates returns the template descriptors allowed for the brand, in
// allowlist order.
func Templates(brandID string) []Template {
	b := Get(brandID)
	out := make([]Template, 0, len(b.AllowedTemplates))
	for _, id := range b.AllowedTemplates {
		if t, ok := templates[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// AllowsTemplate reports whether the brand's allowlist contains templateID.
func AllowsTemplate(brandID, templateID string) bool {
	for _, id := range Get(brandID).AllowedTemplates {
		if id == templateID {
			return true
		}
	}
	return false
}

// Public returns the public bundle projection of the brand.
func (b Brand) Public() PublicConfig {
	return PublicConfig{
		ID:       b.ID,
		Name:     b.Name,
		AppTitle: b.AppTitle,
		LogoURL:  b.LogoURL,
		Theme:    b.Theme,
		Features: b.Features,
	}
}

// Admin returns the admin bundle projection of the brand.
func (b Brand) Admin() AdminConfig {
	return AdminConfig{
		PublicConfig:      b.Public(),
		AllowedTemplates:  b.AllowedTemplates,
		DefaultTemplateID: b.DefaultTemplateID,
	}
}
