package hydrate

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnReplacesNamedListener(t *testing.T) {
	p, err := ParsePageString(`<html><body><a id="x">x</a></body></html>`)
	require.NoError(t, err)

	var calls []string
	p.On(p.Find("#x"), "click", "h", func(*Page, *goquery.Selection) { calls = append(calls, "first") })
	p.On(p.Find("#x"), "click", "h", func(*Page, *goquery.Selection) { calls = append(calls, "second") })

	assert.Equal(t, 1, p.Click(p.Find("#x")))
	assert.Equal(t, []string{"second"}, calls)
}

func TestDispatchBubbles(t *testing.T) {
	p, err := ParsePageString(`<html><body><div id="outer"><a id="inner">x</a></div></body></html>`)
	require.NoError(t, err)

	var targets []string
	record := func(_ *Page, target *goquery.Selection) {
		targets = append(targets, target.AttrOr("id", ""))
	}
	p.On(p.Find("#outer"), "click", "outer", record)
	p.On(p.Find("#inner"), "click", "inner", record)

	assert.Equal(t, 2, p.Click(p.Find("#inner")))
	assert.Equal(t, []string{"inner", "inner"}, targets)
	assert.Equal(t, 0, p.Dispatch(p.Find("#inner"), "keydown"))
}

func TestPruneDropsDetachedNodes(t *testing.T) {
	p, err := ParsePageString(`<html><body><ul id="list"><li><a class="l">a</a></li></ul><a id="keep">k</a></body></html>`)
	require.NoError(t, err)

	noop := func(*Page, *goquery.Selection) {}
	p.On(p.Find(".l"), "click", "n", noop)
	p.On(p.Find("#keep"), "click", "n", noop)
	require.Equal(t, 2, p.ListenerCount("click"))

	p.Find("#list").Empty()
	p.prune()

	assert.Equal(t, 1, p.ListenerCount("click"))
}

func TestRenderKeepsDoctype(t *testing.T) {
	p, err := ParsePageString("<!DOCTYPE html><html><head></head><body><p>hi</p></body></html>")
	require.NoError(t, err)

	out, err := p.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<p>hi</p>")
}

func TestSetStyleProperty(t *testing.T) {
	tests := []struct {
		style string
		want  string
	}{
		{"", "background-image: url('a.png');"},
		{"color: red", "color: red; background-image: url('a.png');"},
		{"background-image: url('old.png'); color: red;", "background-image: url('a.png'); color: red;"},
		{"background: url('x;y.png'); margin:0", "background: url('x;y.png'); margin: 0; background-image: url('a.png');"},
		{"Background-Image: none", "Background-Image: url('a.png');"},
	}
	for _, tt := range tests {
		p, err := ParsePageString(`<html><body><div></div></body></html>`)
		require.NoError(t, err)
		el := p.Find("div")
		if tt.style != "" {
			el.SetAttr("style", tt.style)
		}
		setStyleProperty(el, "background-image", "url('a.png')")
		assert.Equal(t, tt.want, el.AttrOr("style", ""), "style %q", tt.style)
	}
}

func TestAttrSelectorQuotes(t *testing.T) {
	assert.Equal(t, `[data-x="a\"b"]`, attrSelector("data-x", `a"b`))
	assert.Equal(t, `[data-x="a\\b"]`, attrSelector("data-x", `a\b`))
}

func TestWithDefaultsFillsGaps(t *testing.T) {
	opts := Options{Markers: Markers{Text: "data-t"}}.withDefaults()
	assert.Equal(t, "data-t", opts.Markers.Text)
	assert.Equal(t, "data-content-img", opts.Markers.Image)
	assert.Equal(t, "mobile-menu", opts.Menu.MenuID)
	assert.Equal(t, "cta_button", opts.CTANamespace)
	assert.Len(t, opts.Substitutions, 1)
}
