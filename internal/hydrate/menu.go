package hydrate

import (
	"github.com/PuerkitoBio/goquery"
)

const closeMenuListener = "close-mobile-menu"

// wireMobileMenu attaches the close handler to every mobile navigation
// link. It has to run after list rendering, which creates those links.
func (h *Hydrator) wireMobileMenu(p *Page) int {
	p.prune()

	menu := h.opts.Menu
	links := p.Find(`[class~="` + menu.LinkClass + `"]`)
	p.On(links, "click", closeMenuListener, closeMenu(menu))
	links.SetAttr("data-menu-close", menu.MenuID)

	return links.Length()
}

// closeMenu returns a listener that drops the open class from the menu
// and marks its toggle button as collapsed.
func closeMenu(menu Menu) Listener {
	return func(p *Page, _ *goquery.Selection) {
		el := p.Find(attrSelector("id", menu.MenuID)).First()
		if el.Length() == 0 {
			return
		}
		el.RemoveClass(menu.OpenClass)
		p.Find(attrSelector("id", menu.ButtonID)).First().SetAttr("aria-expanded", "false")
	}
}
