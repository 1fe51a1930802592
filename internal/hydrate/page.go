package hydrate

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Listener handles an event dispatched on a page. target is the element
// the event was dispatched on.
type Listener func(p *Page, target *goquery.Selection)

type namedListener struct {
	name string
	fn   Listener
}

// Page is a parsed HTML page plus the event listeners attached to its
// elements. A Page is not safe for concurrent use.
type Page struct {
	doc       *goquery.Document
	listeners map[*html.Node]map[string][]namedListener
}

// NewPage wraps an existing goquery document.
func NewPage(doc *goquery.Document) *Page {
	return &Page{
		doc:       doc,
		listeners: make(map[*html.Node]map[string][]namedListener),
	}
}

// ParsePage parses an HTML page.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return NewPage(doc), nil
}

// ParsePageString parses an HTML page held in a string.
func ParsePageString(s string) (*Page, error) {
	return ParsePage(strings.NewReader(s))
}

// Find selects elements anywhere in the page.
func (p *Page) Find(selector string) *goquery.Selection { return p.doc.Find(selector) }

// Render writes the whole page, doctype included.
func (p *Page) Render(w io.Writer) error {
	if len(p.doc.Nodes) == 0 {
		return nil
	}
	return html.Render(w, p.doc.Nodes[0])
}

// HTML returns the rendered page.
func (p *Page) HTML() (string, error) {
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// On attaches fn to every element of sel for the given event. Attaching
// a listener under a name that is already registered on an element
// replaces it, so repeated wiring never stacks handlers.
func (p *Page) On(sel *goquery.Selection, event, name string, fn Listener) {
	for _, n := range sel.Nodes {
		byEvent := p.listeners[n]
		if byEvent == nil {
			byEvent = make(map[string][]namedListener)
			p.listeners[n] = byEvent
		}
		replaced := false
		for i, l := range byEvent[event] {
			if l.name == name {
				byEvent[event][i].fn = fn
				replaced = true
				break
			}
		}
		if !replaced {
			byEvent[event] = append(byEvent[event], namedListener{name: name, fn: fn})
		}
	}
}

// Dispatch fires event on every element of sel. The event bubbles from
// each element up through its ancestors. It returns the number of
// listeners invoked.
func (p *Page) Dispatch(sel *goquery.Selection, event string) int {
	invoked := 0
	for _, target := range sel.Nodes {
		targetSel := sel.FilterNodes(target)
		for n := target; n != nil; n = n.Parent {
			for _, l := range p.listeners[n][event] {
				l.fn(p, targetSel)
				invoked++
			}
		}
	}
	return invoked
}

// Click dispatches a click event on sel.
func (p *Page) Click(sel *goquery.Selection) int {
	return p.Dispatch(sel, "click")
}

// ListenerCount returns how many listeners are attached for event across
// the page.
func (p *Page) ListenerCount(event string) int {
	count := 0
	for _, byEvent := range p.listeners {
		count += len(byEvent[event])
	}
	return count
}

// prune drops listeners on elements that are no longer part of the
// document, e.g. list items replaced by a later hydration pass.
func (p *Page) prune() {
	for n := range p.listeners {
		if !p.attached(n) {
			delete(p.listeners, n)
		}
	}
}

func (p *Page) attached(n *html.Node) bool {
	if len(p.doc.Nodes) == 0 {
		return false
	}
	root := p.doc.Nodes[0]
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == root {
			return true
		}
	}
	return false
}
