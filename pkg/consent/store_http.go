package consent

import (
	"net/http"

	"github.com/dmitrymomot/consentkit/pkg/cookie"
)

// HTTPStore is a per-request Store reading the request's Cookie header and
// writing Set-Cookie headers to the response. Writes are kept in an overlay
// so they are visible to later reads within the same request.
type HTTPStore struct {
	w       http.ResponseWriter
	r       *http.Request
	cookies *cookie.Manager
	host    string

	written map[string]string
	deleted map[string]bool
	added   []string
}

// NewHTTPStore wraps a request/response pair. A nil manager uses cookie.New().
func NewHTTPStore(w http.ResponseWriter, r *http.Request, m *cookie.Manager) *HTTPStore {
	if m == nil {
		m = cookie.New()
	}
	return &HTTPStore{
		w:       w,
		r:       r,
		cookies: m,
		host:    cookie.HostFromRequest(r),
		written: make(map[string]string),
		deleted: make(map[string]bool),
	}
}

// Cookies returns request cookies in header order, first value per name,
// with this request's writes applied.
func (s *HTTPStore) Cookies() []Cookie {
	seen := make(map[string]bool)
	out := make([]Cookie, 0, len(s.r.Cookies())+len(s.added))

	for _, c := range s.r.Cookies() {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		if s.deleted[c.Name] {
			continue
		}
		value := c.Value
		if v, ok := s.written[c.Name]; ok {
			value = v
		}
		out = append(out, Cookie{Name: c.Name, Value: value})
	}

	for _, name := range s.added {
		if seen[name] || s.deleted[name] {
			continue
		}
		seen[name] = true
		out = append(out, Cookie{Name: name, Value: s.written[name]})
	}

	return out
}

func (s *HTTPStore) Get(name string) (string, bool) {
	if s.deleted[name] {
		return "", false
	}
	if v, ok := s.written[name]; ok {
		return v, true
	}
	v, err := s.cookies.Get(s.r, name)
	if err != nil {
		return "", false
	}
	return v, true
}

// Set writes a cookie readable by page scripts on path "/".
func (s *HTTPStore) Set(name, value string, expiryDays int, secure bool) {
	err := s.cookies.Set(s.w, name, value,
		cookie.WithPath("/"),
		cookie.WithExpiryDays(expiryDays),
		cookie.WithSecure(secure),
		cookie.WithHTTPOnly(false),
	)
	if err != nil {
		return
	}

	if _, ok := s.written[name]; !ok {
		if _, err := s.r.Cookie(name); err != nil {
			s.added = append(s.added, name)
		}
	}
	s.written[name] = value
	delete(s.deleted, name)
}

func (s *HTTPStore) Delete(name string) {
	s.cookies.DeleteEverywhere(s.w, name, s.host)
	s.deleted[name] = true
	delete(s.written, name)
}

// Host is the request host deletions are scoped to.
func (s *HTTPStore) Host() string {
	return s.host
}
