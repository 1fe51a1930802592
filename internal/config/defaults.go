package config

import (
	"github.com/ziadkadry99/pagehydrate/internal/fetch"
	"github.com/ziadkadry99/pagehydrate/internal/hydrate"
)

// DefaultExcludes are glob patterns never treated as pages.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"dist/**",
	"vendor/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	markers := hydrate.DefaultMarkers()
	menu := hydrate.DefaultMenu()

	return &Config{
		SiteDir:       ".",
		OutputDir:     "dist",
		ContentSource: fetch.DefaultLocation,
		Include:       []string{"**/*.html"},
		Exclude:       DefaultExcludes,
		LogLevel:      "info",
		Markers: MarkersConfig{
			Text:     markers.Text,
			HTML:     markers.HTML,
			Href:     markers.Href,
			Style:    markers.Style,
			Image:    markers.Image,
			Markdown: markers.Markdown,
			List:     markers.List,
		},
		Menu: MenuConfig{
			MenuID:    menu.MenuID,
			ButtonID:  menu.ButtonID,
			LinkClass: menu.LinkClass,
			OpenClass: menu.OpenClass,
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// HydrateOptions converts the marker and menu settings into hydrator options.
func (c *Config) HydrateOptions() hydrate.Options {
	opts := hydrate.DefaultOptions()
	opts.Markers = hydrate.Markers{
		Text:     c.Markers.Text,
		HTML:     c.Markers.HTML,
		Href:     c.Markers.Href,
		Style:    c.Markers.Style,
		Image:    c.Markers.Image,
		Markdown: c.Markers.Markdown,
		List:     c.Markers.List,
	}
	opts.Menu = hydrate.Menu{
		MenuID:    c.Menu.MenuID,
		ButtonID:  c.Menu.ButtonID,
		LinkClass: c.Menu.LinkClass,
		OpenClass: c.Menu.OpenClass,
	}
	return opts
}
