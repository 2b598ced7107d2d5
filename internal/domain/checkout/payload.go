package checkout

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrNotJSONObject is returned when a payload is valid JSON but not an object
var ErrNotJSONObject = errors.New("payload is not a JSON object")

// Document is a decoded provider payload. Lookups never panic: a missing key,
// a nil value or a non-container intermediate node all mean "absent".
type Document map[string]any

// ParseDocument decodes a JSON object. Numbers are kept in their original
// textual form so ids and amounts round-trip exactly.
func ParseDocument(raw []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotJSONObject
	}
	return Document(obj), nil
}

// Lookup walks a dotted path. Numeric segments index into arrays,
// so "payment.invoices.0.hosted_page_id" reads the first invoice.
func (d Document) Lookup(path string) (any, bool) {
	if d == nil || path == "" {
		return nil, false
	}
	var node any = map[string]any(d)
	for _, seg := range strings.Split(path, ".") {
		switch n := node.(type) {
		case map[string]any:
			v, ok := n[seg]
			if !ok {
				return nil, false
			}
			node = v
		case Document:
			v, ok := n[seg]
			if !ok {
				return nil, false
			}
			node = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(n) {
				return nil, false
			}
			node = n[idx]
		default:
			return nil, false
		}
		if node == nil {
			return nil, false
		}
	}
	return node, true
}

// Text returns the trimmed scalar at path rendered as a string, or "" when
// the path is absent, null, blank or points at an object or array.
func (d Document) Text(path string) string {
	v, ok := d.Lookup(path)
	if !ok {
		return ""
	}
	return strings.TrimSpace(scalarText(v))
}

// Object returns the object at path
func (d Document) Object(path string) (Document, bool) {
	v, ok := d.Lookup(path)
	if !ok {
		return nil, false
	}
	switch m := v.(type) {
	case map[string]any:
		return Document(m), true
	case Document:
		return m, true
	}
	return nil, false
}

// IsPaymentShape reports whether the payload carries a top level "payment" object
func (d Document) IsPaymentShape() bool {
	_, ok := d.Object("payment")
	return ok
}

func scalarText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}

// Strategy extracts one candidate value from a document. An empty result
// means the strategy did not match.
type Strategy func(Document) string

// Path returns a strategy reading a single dotted path
func Path(path string) Strategy {
	return func(d Document) string {
		return d.Text(path)
	}
}

// Paths returns one Path strategy per path, preserving order
func Paths(paths ...string) []Strategy {
	out := make([]Strategy, 0, len(paths))
	for _, p := range paths {
		out = append(out, Path(p))
	}
	return out
}

// WhenPaymentShape guards a strategy so it only runs on payment payloads
func WhenPaymentShape(s Strategy) Strategy {
	return func(d Document) string {
		if !d.IsPaymentShape() {
			return ""
		}
		return s(d)
	}
}

// FirstMatch runs strategies in order and returns the first non-empty value
func FirstMatch(d Document, strategies ...Strategy) string {
	for _, s := range strategies {
		if v := s(d); v != "" {
			return v
		}
	}
	return ""
}

// LastJSONBlock returns the last syntactically valid JSON block of an audit
// trail. When no block parses, the trimmed input is returned unchanged.
func LastJSONBlock(trail string) string {
	trimmed := strings.TrimSpace(trail)
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trail, AuditDelimiter)
	for i := len(parts) - 1; i >= 0; i-- {
		block := strings.TrimSpace(parts[i])
		if block == "" || !looksLikeJSON(block) {
			continue
		}
		if json.Valid([]byte(block)) {
			return block
		}
	}
	if block, ok := trailingJSONSpan(trimmed); ok {
		return block
	}
	return trimmed
}

// trailingJSONSpan finds the widest valid JSON value ending at the last
// closing bracket of s. It covers trails whose delimiters were lost to
// truncation or hand edits.
func trailingJSONSpan(s string) (string, bool) {
	end := strings.LastIndexAny(s, "}]")
	if end < 0 {
		return "", false
	}
	s = s[:end+1]
	for start := strings.LastIndexAny(s, "{["); start >= 0; start = strings.LastIndexAny(s[:start], "{[") {
		if candidate := s[start:]; json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}
	return "", false
}

func looksLikeJSON(s string) bool {
	return (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"))
}
