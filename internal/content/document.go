package content

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInvalidJSON is returned when a content document cannot be decoded.
var ErrInvalidJSON = errors.New("invalid content JSON")

// Document is a decoded content document. It is never mutated after
// decoding and is safe to share between goroutines.
type Document struct {
	root Value
}

// Parse decodes a JSON content document.
func Parse(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

// utf8BOM is skipped at the start of a document.
var utf8BOM = []byte("\xef\xbb\xbf")

// Decode reads one JSON value from r and converts it into a Document.
// A leading UTF-8 byte order mark is ignored; trailing data after the
// value is rejected.
func Decode(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after top-level value", ErrInvalidJSON)
	}

	return &Document{root: fromJSON(raw)}, nil
}

// fromJSON converts the generic encoding/json tree into Values.
func fromJSON(raw any) Value {
	switch t := raw.(type) {
	case string:
		return String(t)
	case json.Number:
		return Number(t.String())
	case bool:
		return Bool(t)
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, child := range t {
			fields[k] = fromJSON(child)
		}
		return Object(fields)
	case []any:
		items := make([]Value, len(t))
		for i, child := range t {
			items[i] = fromJSON(child)
		}
		return List(items...)
	default:
		return Value{}
	}
}

// Root returns the top-level value.
func (d *Document) Root() Value {
	if d == nil {
		return Value{}
	}
	return d.root
}

// Resolve looks up a dotted key path such as "contact.direct_link_text".
// It never fails: an empty path, a missing key at any step, or descending
// into a scalar all report false.
func (d *Document) Resolve(path string) (Value, bool) {
	if path == "" {
		return Value{}, false
	}
	return d.Root().Lookup(path)
}

// Lookup resolves a dotted path relative to v. A segment made of decimal
// digits indexes into a list.
func (v Value) Lookup(path string) (Value, bool) {
	if path == "" {
		return Value{}, false
	}

	cur := v
	for _, part := range strings.Split(path, ".") {
		switch cur.kind {
		case KindObject:
			next, ok := cur.obj[part]
			if !ok {
				return Value{}, false
			}
			cur = next
		case KindList:
			i, ok := listIndex(part)
			if !ok {
				return Value{}, false
			}
			next, ok := cur.Index(i)
			if !ok {
				return Value{}, false
			}
			cur = next
		default:
			return Value{}, false
		}
	}

	return cur, !cur.IsNull()
}

// listIndex parses a canonical non-negative integer segment ("0", "12",
// but not "01" or "+1").
func listIndex(part string) (int, bool) {
	if part == "" || (len(part) > 1 && part[0] == '0') {
		return 0, false
	}
	for _, c := range part {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(part)
	if err != nil {
		return 0, false
	}
	return i, true
}
