package dashboard

import (
	"strconv"
	"strings"
	"time"
)

// Field coercion helpers. Airtable field values arrive as untyped JSON;
// every helper degrades to a documented default instead of failing, so one
// malformed record can never blank the whole dashboard.

// stringField returns the field as a string, or "" when absent or not
// string-shaped. Numbers are rendered without a trailing ".0".
func stringField(fields map[string]any, col string) string {
	switch v := fields[col].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// numberField returns the field as a number, defaulting to 0. String values
// tolerate currency formatting: "$1,200.50" parses as 1200.5.
func numberField(fields map[string]any, col string) float64 {
	switch v := fields[col].(type) {
	case float64:
		return v
	case string:
		return parseAmount(v)
	}
	return 0
}

// parseAmount strips everything but digits, sign, and decimal point before
// parsing. Unparseable input is 0.
func parseAmount(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return n
}

// dateField normalizes a date-bearing field to "YYYY-MM-DD", returning nil
// when the field is absent or empty. Airtable returns either plain dates or
// RFC 3339 timestamps; both reduce to their date part. Anything else passes
// through untouched rather than being dropped.
func dateField(fields map[string]any, col string) *string {
	s := stringField(fields, col)
	if s == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d := t.Format("2006-01-02")
		return &d
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d := t.Format("2006-01-02")
		return &d
	}
	return &s
}

// linkedRecordID extracts a linked-record reference: Airtable sends a
// single-element list of record IDs, older bases a bare string. Returns ""
// when the field is missing or empty.
func linkedRecordID(fields map[string]any, col string) string {
	switch v := fields[col].(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
