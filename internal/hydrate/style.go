package hydrate

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type declaration struct {
	prop  string
	value string
}

// setStyleProperty sets one declaration of the element's inline style,
// keeping the other declarations and their order.
func setStyleProperty(el *goquery.Selection, prop, value string) {
	decls := parseStyle(el.AttrOr("style", ""))

	found := false
	for i := range decls {
		if strings.EqualFold(decls[i].prop, prop) {
			decls[i].value = value
			found = true
		}
	}
	if !found {
		decls = append(decls, declaration{prop: prop, value: value})
	}

	el.SetAttr("style", formatStyle(decls))
}

// parseStyle splits an inline style into declarations. Semicolons inside
// quotes or parentheses (as in url(...)) do not end a declaration.
func parseStyle(style string) []declaration {
	var decls []declaration
	for _, chunk := range splitDeclarations(style) {
		prop, value, ok := strings.Cut(chunk, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		value = strings.TrimSpace(value)
		if prop == "" {
			continue
		}
		decls = append(decls, declaration{prop: prop, value: value})
	}
	return decls
}

func splitDeclarations(style string) []string {
	var (
		parts []string
		quote rune
		depth int
		start int
	)
	for i, c := range style {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == ';' && depth == 0:
			parts = append(parts, style[start:i])
			start = i + 1
		}
	}
	parts = append(parts, style[start:])
	return parts
}

func formatStyle(decls []declaration) string {
	var b strings.Builder
	for i, d := range decls {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.prop)
		b.WriteString(": ")
		b.WriteString(d.value)
		b.WriteByte(';')
	}
	return b.String()
}
