package hydrate

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/pagehydrate/internal/content"
)

// eachMarked calls fn for every element carrying attr whose key resolves
// to a truthy value. The selection is taken once, before fn runs.
func eachMarked(p *Page, doc *content.Document, attr string, fn func(el *goquery.Selection, key string, v content.Value) bool) int {
	applied := 0
	p.Find("[" + attr + "]").Each(func(_ int, el *goquery.Selection) {
		key, _ := el.Attr(attr)
		v, ok := doc.Resolve(key)
		if !ok || !v.Truthy() {
			return
		}
		if fn(el, key, v) {
			applied++
		}
	})
	return applied
}

func (h *Hydrator) populateText(p *Page, doc *content.Document) int {
	return eachMarked(p, doc, h.opts.Markers.Text, func(el *goquery.Selection, key string, v content.Value) bool {
		if strings.Contains(key, h.opts.CTANamespace) {
			cta, ok := content.CTAFrom(v)
			if !ok {
				return false
			}
			if cta.Text != "" {
				el.SetText(cta.Text)
			}
			if cta.URL != "" {
				el.SetAttr("href", cta.URL)
			}
			return true
		}

		s, ok := v.Text()
		if !ok {
			return false
		}
		el.SetText(s)
		return true
	})
}

func (h *Hydrator) populateHTML(p *Page, doc *content.Document) int {
	return eachMarked(p, doc, h.opts.Markers.HTML, func(el *goquery.Selection, key string, v content.Value) bool {
		s, ok := v.Text()
		if !ok {
			return false
		}
		s = h.substitute(doc, key, s)
		if s == "" {
			return false
		}
		el.SetHtml(s)
		return true
	})
}

// substitute applies the configured placeholder substitutions for key.
// Only the first occurrence of a token is replaced, and a token whose
// source value is missing is left in place.
func (h *Hydrator) substitute(doc *content.Document, key, s string) string {
	for _, sub := range h.opts.Substitutions {
		if sub.Key != key || sub.Token == "" {
			continue
		}
		v, ok := doc.Resolve(sub.From)
		if !ok {
			continue
		}
		if repl, ok := v.Text(); ok {
			s = strings.Replace(s, sub.Token, repl, 1)
		}
	}
	return s
}

func (h *Hydrator) populateHref(p *Page, doc *content.Document) int {
	return eachMarked(p, doc, h.opts.Markers.Href, func(el *goquery.Selection, _ string, v content.Value) bool {
		s, ok := v.Text()
		if !ok {
			return false
		}
		el.SetAttr("href", s)
		return true
	})
}

func (h *Hydrator) populateStyle(p *Page, doc *content.Document) int {
	return eachMarked(p, doc, h.opts.Markers.Style, func(el *goquery.Selection, _ string, v content.Value) bool {
		s, ok := v.Text()
		if !ok {
			return false
		}
		setStyleProperty(el, "background-image", "url('"+s+"')")
		return true
	})
}

func (h *Hydrator) populateImages(p *Page, doc *content.Document) int {
	return eachMarked(p, doc, h.opts.Markers.Image, func(el *goquery.Selection, _ string, v content.Value) bool {
		img, ok := content.ImageFrom(v)
		if !ok {
			return false
		}
		el.SetAttr("src", img.URL)
		el.SetAttr("alt", img.Alt)
		return true
	})
}

func (h *Hydrator) populateMarkdown(p *Page, doc *content.Document) int {
	return eachMarked(p, doc, h.opts.Markers.Markdown, func(el *goquery.Selection, key string, v content.Value) bool {
		src, ok := v.Str()
		if !ok {
			return false
		}
		var buf bytes.Buffer
		if err := h.md.Convert([]byte(src), &buf); err != nil {
			h.logger.Warn("converting markdown", "key", key, "error", err)
			return false
		}
		el.SetHtml(buf.String())
		return true
	})
}
