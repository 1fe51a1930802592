// Package hydrate fills marked-up HTML pages from a content document.
//
// A page marks elements with attributes whose values are dotted keys into
// the document (data-content="hero.title"). One hydration pass resolves
// every marker, writes the values into the page, rebuilds the repeated
// list sections and then wires the mobile menu links.
package hydrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/pagehydrate/internal/content"
	"github.com/ziadkadry99/pagehydrate/internal/fetch"
)

// ErrContentUnavailable wraps every failure to load the content document.
var ErrContentUnavailable = errors.New("could not load site content")

// Stats counts what one hydration pass changed.
type Stats struct {
	PassID    string
	Text      int
	HTML      int
	Href      int
	Style     int
	Image     int
	Markdown  int
	Lists     map[string]int
	MenuLinks int
}

// Populated returns the number of elements written by the attribute
// passes.
func (s Stats) Populated() int {
	return s.Text + s.HTML + s.Href + s.Style + s.Image + s.Markdown
}

// Hydrator runs hydration passes. It holds no per-page state and can be
// shared across goroutines; the pages it works on cannot.
type Hydrator struct {
	opts   Options
	logger *slog.Logger
	md     goldmark.Markdown
}

// New creates a Hydrator. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Hydrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hydrator{
		opts:   opts.withDefaults(),
		logger: logger,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
	}
}

// Run loads the content document from src and hydrates p with it. When
// the document cannot be loaded the failure is logged, p is left exactly
// as authored and the returned error wraps ErrContentUnavailable.
func (h *Hydrator) Run(ctx context.Context, p *Page, src fetch.Source) (Stats, error) {
	doc, err := src.Load(ctx)
	if err != nil {
		h.logger.Error("could not load site content", "source", src.Location(), "error", err)
		return Stats{}, fmt.Errorf("%w: %w", ErrContentUnavailable, err)
	}
	return h.Hydrate(p, doc), nil
}

// Hydrate runs one synchronous pass over p. Missing keys and missing
// elements are skipped silently; running it again with the same document
// gives the same page.
func (h *Hydrator) Hydrate(p *Page, doc *content.Document) Stats {
	stats := Stats{PassID: uuid.NewString()}

	stats.Text = h.populateText(p, doc)
	stats.HTML = h.populateHTML(p, doc)
	stats.Href = h.populateHref(p, doc)
	stats.Style = h.populateStyle(p, doc)
	stats.Image = h.populateImages(p, doc)
	stats.Markdown = h.populateMarkdown(p, doc)

	stats.Lists = h.renderLists(p, doc)
	stats.MenuLinks = h.wireMobileMenu(p)

	h.logger.Debug("hydration pass complete",
		"pass_id", stats.PassID,
		"populated", stats.Populated(),
		"lists", stats.Lists,
		"menu_links", stats.MenuLinks,
	)
	return stats
}
