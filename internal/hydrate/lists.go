package hydrate

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/pagehydrate/internal/content"
)

// Item markup is interpolated verbatim: values come from the site's own
// content document and may carry inline markup.
var (
	navDesktopTemplate = template.Must(template.New("navDesktop").Parse(
		`<li><a href="{{.Href}}" class="text-base text-[#37474F] hover:text-[#E57373] transition-colors">{{.Label}}</a></li>`))

	navMobileTemplate = template.Must(template.New("navMobile").Parse(
		`<li><a href="{{.Href}}" class="{{.LinkClass}} text-lg text-[#37474F] hover:text-[#E57373]">{{.Label}}</a></li>`))

	serviceTemplate = template.Must(template.New("service").Parse(`<div class="bg-white p-8 rounded-lg shadow-lg text-center transform hover:-translate-y-2 transition-transform duration-300">
    <div class="bg-[#4DB6AC] text-white rounded-full p-4 w-16 h-16 mx-auto mb-6 flex items-center justify-center">
      <svg xmlns="http://www.w3.org/2000/svg" class="h-8 w-8" fill="none" viewBox="0 0 24 24" stroke="currentColor">
        <path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="{{.IconSVGPath}}" />
      </svg>
    </div>
    <h3 class="text-xl font-bold mb-3">{{.Title}}</h3>
    <p class="leading-normal">{{.Description}}</p>
  </div>`))

	testimonialTemplate = template.Must(template.New("testimonial").Parse(`<div class="bg-[#FFF8E1] p-8 rounded-lg shadow-xl border-l-4 border-[#FFD54F]">
    <p class="text-[#37474F] italic mb-6 leading-normal">{{.Quote}}</p>
    <p class="font-bold text-[#4DB6AC] text-right">{{.Author}}</p>
  </div>`))

	blogPostTemplate = template.Must(template.New("blogPost").Parse(`<div class="bg-white rounded-lg shadow-lg overflow-hidden transform hover:-translate-y-2 transition-transform duration-300">
        <img src="{{.ImageURL}}" alt="{{.ImageAlt}}" class="w-full h-48 object-cover" loading="lazy" />
        <div class="p-6">
            <h3 class="text-xl font-bold mb-3">{{.Title}}</h3>
            <p class="leading-normal mb-4">{{.Excerpt}}</p>
            <a href="{{.LinkURL}}" target="_blank" rel="noopener noreferrer" class="font-bold text-[#E57373] hover:text-[#D32F2F]">{{.LinkText}}</a>
        </div>
    </div>`))
)

// listSection ties a content key to the template that renders each of
// its items. The key doubles as the container's list marker value.
type listSection struct {
	key    string
	tmpl   *template.Template
	decode func(content.Value) ([]any, bool)
}

func decodeAs[T any](fn func(content.Value) T) func(content.Value) ([]any, bool) {
	return func(v content.Value) ([]any, bool) {
		typed, ok := content.ListOf(v, fn)
		if !ok {
			return nil, false
		}
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, true
	}
}

var listSections = []listSection{
	{key: "services.items", tmpl: serviceTemplate, decode: decodeAs(content.ServiceFrom)},
	{key: "testimonials.items", tmpl: testimonialTemplate, decode: decodeAs(content.TestimonialFrom)},
	{key: "blog.posts", tmpl: blogPostTemplate, decode: decodeAs(content.BlogPostFrom)},
}

// renderLists rebuilds navigation and every list section. It returns the
// number of items rendered per section key.
func (h *Hydrator) renderLists(p *Page, doc *content.Document) map[string]int {
	rendered := make(map[string]int)

	if n, ok := h.renderNavigation(p, doc); ok {
		rendered["navigation"] = n
	}
	for _, section := range listSections {
		if n, ok := h.renderList(p, doc, section); ok {
			rendered[section.key] = n
		}
	}
	return rendered
}

// renderNavigation fills the desktop and mobile navigation lists. Both
// containers must be present.
func (h *Hydrator) renderNavigation(p *Page, doc *content.Document) (int, bool) {
	marker := h.opts.Markers.Text
	desktop := p.Find(attrSelector(marker, "navigation.desktop")).First()
	mobile := p.Find(attrSelector(marker, "navigation.mobile")).First()
	if desktop.Length() == 0 || mobile.Length() == 0 {
		return 0, false
	}

	v, _ := doc.Resolve("navigation")
	items, ok := content.ListOf(v, content.NavItemFrom)
	if !ok {
		return 0, false
	}

	desktop.Empty()
	mobile.Empty()

	for _, item := range items {
		if err := appendRendered(desktop, navDesktopTemplate, item); err != nil {
			h.logger.Warn("rendering navigation item", "label", item.Label, "error", err)
			continue
		}
		mobileItem := struct {
			content.NavItem
			LinkClass string
		}{item, h.opts.Menu.LinkClass}
		if err := appendRendered(mobile, navMobileTemplate, mobileItem); err != nil {
			h.logger.Warn("rendering navigation item", "label", item.Label, "error", err)
		}
	}
	return len(items), true
}

func (h *Hydrator) renderList(p *Page, doc *content.Document, section listSection) (int, bool) {
	container := p.Find(attrSelector(h.opts.Markers.List, section.key)).First()
	if container.Length() == 0 {
		return 0, false
	}

	v, _ := doc.Resolve(section.key)
	items, ok := section.decode(v)
	if !ok {
		return 0, false
	}

	container.Empty()

	count := 0
	for _, item := range items {
		if err := appendRendered(container, section.tmpl, item); err != nil {
			h.logger.Warn("rendering list item", "section", section.key, "error", err)
			continue
		}
		count++
	}
	return count, true
}

func appendRendered(container *goquery.Selection, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", tmpl.Name(), err)
	}
	container.AppendHtml(buf.String())
	return nil
}

// attrSelector builds [attr="value"] with the value quoted for CSS.
func attrSelector(attr, value string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return "[" + attr + `="` + r.Replace(value) + `"]`
}
