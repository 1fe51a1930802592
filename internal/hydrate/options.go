package hydrate

// Markers names the attributes that carry dotted content keys.
type Markers struct {
	Text     string
	HTML     string
	Href     string
	Style    string
	Image    string
	Markdown string
	List     string
}

// DefaultMarkers returns the attribute names pages are authored with.
func DefaultMarkers() Markers {
	return Markers{
		Text:     "data-content",
		HTML:     "data-content-html",
		Href:     "data-content-href",
		Style:    "data-content-style",
		Image:    "data-content-img",
		Markdown: "data-content-markdown",
		List:     "data-content-list",
	}
}

// Substitution replaces Token inside the rich-text value of Key with the
// value found at From.
type Substitution struct {
	Key   string
	Token string
	From  string
}

// Menu identifies the mobile menu elements touched by post-render wiring.
type Menu struct {
	MenuID    string
	ButtonID  string
	LinkClass string
	OpenClass string
}

// DefaultMenu returns the ids and classes used by the stock page layout.
func DefaultMenu() Menu {
	return Menu{
		MenuID:    "mobile-menu",
		ButtonID:  "mobile-menu-button",
		LinkClass: "mobile-nav-link",
		OpenClass: "open",
	}
}

// Options configures a Hydrator.
type Options struct {
	Markers       Markers
	Menu          Menu
	Substitutions []Substitution
	// CTANamespace marks text keys whose value is a {text, url} link.
	CTANamespace string
}

// DefaultOptions returns the options matching the stock page layout.
func DefaultOptions() Options {
	return Options{
		Markers: DefaultMarkers(),
		Menu:    DefaultMenu(),
		Substitutions: []Substitution{
			{Key: "contact.direct_link_text", Token: "{calendly_url}", From: "contact.calendly_url"},
		},
		CTANamespace: "cta_button",
	}
}

// withDefaults fills empty fields from DefaultOptions so a partially
// configured Options still works.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&o.Markers.Text, d.Markers.Text)
	fill(&o.Markers.HTML, d.Markers.HTML)
	fill(&o.Markers.Href, d.Markers.Href)
	fill(&o.Markers.Style, d.Markers.Style)
	fill(&o.Markers.Image, d.Markers.Image)
	fill(&o.Markers.Markdown, d.Markers.Markdown)
	fill(&o.Markers.List, d.Markers.List)
	fill(&o.Menu.MenuID, d.Menu.MenuID)
	fill(&o.Menu.ButtonID, d.Menu.ButtonID)
	fill(&o.Menu.LinkClass, d.Menu.LinkClass)
	fill(&o.Menu.OpenClass, d.Menu.OpenClass)
	fill(&o.CTANamespace, d.CTANamespace)
	if o.Substitutions == nil {
		o.Substitutions = d.Substitutions
	}
	return o
}
