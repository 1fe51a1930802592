package content

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "null"
	}
}

// Value is one node of a content document. The zero Value is null.
type Value struct {
	kind Kind
	text string // string value, or the literal text of a number
	b    bool
	obj  map[string]Value
	list []Value
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Number returns a number Value from its JSON literal text.
func Number(literal string) Value { return Value{kind: KindNumber, text: literal} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Object returns an object Value. The map is not copied.
func Object(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindObject, obj: fields}
}

// List returns a list Value. The slice is not copied.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string held by v. ok is false for every other kind.
func (v Value) Str() (s string, ok bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

// Text returns the textual form of a scalar: strings as-is, numbers the
// way a browser prints them (1.50 is "1.5", 1e3 is "1000") and booleans
// as "true"/"false". Objects, lists and null have no text form.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString:
		return v.text, true
	case KindNumber:
		return formatNumber(v.text), true
	case KindBool:
		return strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

// formatNumber renders a JSON number literal as a float64 in its shortest
// round-trip form. Exponent notation is used below 1e-6 and from 1e21 up.
func formatNumber(literal string) string {
	f, err := strconv.ParseFloat(literal, 64)
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case err != nil:
		return literal
	case f == 0:
		return "0"
	}

	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go pads the exponent to two digits ("1e-07"); browsers do not.
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// TextOr is Text with a fallback for non-scalars.
func (v Value) TextOr(fallback string) string {
	if s, ok := v.Text(); ok {
		return s
	}
	return fallback
}

// Truthy reports whether v counts as a present value when populating a
// page: null, "", numeric zero and false do not.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindString:
		return v.text != ""
	case KindNumber:
		f, err := strconv.ParseFloat(v.text, 64)
		return err != nil || f != 0
	case KindBool:
		return v.b
	default:
		return true
	}
}

// Field returns the named field of an object, or null when v is not an
// object or has no such field.
func (v Value) Field(name string) Value {
	if v.kind != KindObject {
		return Value{}
	}
	return v.obj[name]
}

// Items returns the elements of a list. ok is false for every other kind.
func (v Value) Items() (items []Value, ok bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// Index returns the i-th element of a list, or false when v is not a list
// or i is out of range.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.list) {
		return Value{}, false
	}
	return v.list[i], true
}
