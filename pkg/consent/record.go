package consent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Marker literals stored in a Record.
const (
	// Granted is the only value written for an opted-in category.
	Granted = "on"
	// Denied is written for an opted-out category.
	Denied = "off"
	// deniedLegacy is accepted as a denial when reading.
	deniedLegacy = "false"
)

// Record maps category names to consent markers. A nil Record means there is
// no usable consent; a non-nil empty Record is valid consent for nothing.
type Record map[string]string

// Valid reports whether the record represents stored consent.
func (r Record) Valid() bool {
	return r != nil
}

// Has reports whether the record carries a marker for category.
func (r Record) Has(category string) bool {
	_, ok := r[category]
	return ok
}

// Denied reports whether category carries one of the denial literals
// "off" or "false". Any other present value, including unrecognised ones,
// is not a denial.
func (r Record) Denied(category string) bool {
	v, ok := r[category]
	if !ok {
		return false
	}
	return IsDenial(v)
}

// IsDenial reports whether v is a denial marker.
func IsDenial(v string) bool {
	return v == Denied || v == deniedLegacy
}

// Clone returns a copy that shares nothing with r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// EncodeRecord serialises r as a percent-encoded JSON object suitable for a
// cookie value. Spaces become %20 so page scripts can read the value back
// with decodeURIComponent. Keys are not checked against any manifest.
func EncodeRecord(r Record) string {
	if r == nil {
		r = Record{}
	}
	// map[string]string always marshals; keys come out sorted.
	data, _ := json.Marshal(map[string]string(r))
	return strings.ReplaceAll(url.QueryEscape(string(data)), "+", "%20")
}

// DecodeRecord parses a stored consent value. Both percent-encoded and raw
// JSON objects are accepted; a literal '+' is kept, as decodeURIComponent does. String values are kept verbatim; other scalars
// are kept as their JSON text. Anything that is not a JSON object yields
// ErrMalformedRecord and a nil Record.
func DecodeRecord(raw string) (Record, error) {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "{") {
		if unescaped, err := url.PathUnescape(text); err == nil {
			text = strings.TrimSpace(unescaped)
		}
	}
	if text == "" {
		return nil, fmt.Errorf("%w: empty value", ErrMalformedRecord)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedRecord)
	}

	rec := make(Record, len(fields))
	for k, v := range fields {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			rec[k] = s
			continue
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, v); err != nil {
			rec[k] = string(v)
			continue
		}
		rec[k] = compact.String()
	}

	return rec, nil
}

// LoadRecord reads and decodes the consent cookie from store. A missing
// cookie yields ErrNoConsent; both errors leave the Record nil.
func LoadRecord(store Store, cookieName string) (Record, error) {
	raw, ok := store.Get(cookieName)
	if !ok {
		return nil, ErrNoConsent
	}
	return DecodeRecord(raw)
}
