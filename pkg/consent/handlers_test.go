package consent_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/consentkit/pkg/consent"
)

type stubView struct{}

func (stubView) Banner(visible bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div id="banner" data-visible="%t"></div>`, visible)
		return err
	})
}

func (stubView) PreferencesForm(m consent.Manifest, rec consent.Record) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<form id="prefs" data-categories="%d" data-record="%d"></form>`, len(m), len(rec))
		return err
	})
}

func newRouter(t *testing.T, opts ...consent.Option) http.Handler {
	t.Helper()
	m := newManager(t, opts...)
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Mount("/consent", m.Handler())
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		res, ok := consent.FromContext(r.Context())
		if !ok {
			http.Error(w, "no result", http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, "banner=%t", res.BannerVisible)
	})
	return r
}

func postForm(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "http://example.com"+target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	r := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	r.Header.Set("Cookie", "essential-x=1; analytics-y=2")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "banner=true", w.Body.String())

	deleted := w.Result().Cookies()
	require.NotEmpty(t, deleted)
	for _, c := range deleted {
		assert.Equal(t, "analytics-y", c.Name)
		assert.Equal(t, -1, c.MaxAge)
	}

	r = httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	r.AddCookie(&http.Cookie{Name: prefsCookie, Value: consent.EncodeRecord(consent.Record{"analytics": "on"})})
	r.AddCookie(&http.Cookie{Name: "analytics-y", Value: "2"})
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "banner=false", w.Body.String())
	assert.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestHandler_AcceptAllRedirects(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	r := postForm("/consent/accept-all", url.Values{consent.FieldRedirect: {"/cookies"}})
	r.Header.Set("Cookie", "marketing-a=1; random-b=2")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/cookies", w.Header().Get("Location"))

	prefs := findCookie(w.Result().Cookies(), prefsCookie)
	require.NotNil(t, prefs)
	rec, err := consent.DecodeRecord(prefs.Value)
	require.NoError(t, err)
	assert.Equal(t, consent.Record{"analytics": "on", "marketing": "on"}, rec)
	assert.Equal(t, "/", prefs.Path)
	assert.False(t, prefs.HttpOnly)

	// The middleware purged both cookies before the save ran.
	for _, c := range w.Result().Cookies() {
		if c.Name == "random-b" {
			assert.Equal(t, -1, c.MaxAge)
		}
	}
}

func TestHandler_RejectAll(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	r := postForm("/consent/reject-all", url.Values{})
	r.AddCookie(&http.Cookie{Name: prefsCookie, Value: consent.EncodeRecord(consent.Record{"analytics": "on"})})
	r.AddCookie(&http.Cookie{Name: "analytics-y", Value: "1"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)

	var deletedAnalytics bool
	var saved *http.Cookie
	for _, c := range w.Result().Cookies() {
		switch c.Name {
		case "analytics-y":
			deletedAnalytics = c.MaxAge == -1
		case prefsCookie:
			saved = c
		}
	}
	assert.True(t, deletedAnalytics)
	require.NotNil(t, saved)
	rec, err := consent.DecodeRecord(saved.Value)
	require.NoError(t, err)
	assert.Equal(t, consent.Record{"analytics": "off", "marketing": "off"}, rec)
}

func TestHandler_Preferences(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	r := postForm("/consent/preferences", url.Values{"analytics": {"on"}, "marketing": {"false"}, "action": {"save"}})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	prefs := findCookie(w.Result().Cookies(), prefsCookie)
	require.NotNil(t, prefs)
	rec, err := consent.DecodeRecord(prefs.Value)
	require.NoError(t, err)
	assert.Equal(t, consent.Record{"analytics": "on", "marketing": "false"}, rec)
}

func TestHandler_PreferencesInvalidForm(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	r := httptest.NewRequest(http.MethodPost, "/consent/preferences", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, findCookie(w.Result().Cookies(), prefsCookie))
}

func TestHandler_RedirectTarget(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	tests := []struct {
		name     string
		redirect string
		referer  string
		want     string
	}{
		{"redirect field", "/privacy?x=1", "", "/privacy?x=1"},
		{"same host referer", "", "http://example.com/blog/post?id=2", "/blog/post?id=2"},
		{"foreign referer", "", "http://evil.com/phish", "/"},
		{"protocol relative redirect", "//evil.com", "", "/"},
		{"absolute redirect", "http://evil.com/", "http://example.com/about", "/about"},
		{"backslash redirect", `/\evil.com`, "", "/"},
		{"tab before slash", "/\t/evil.example/x", "", "/"},
		{"newline before slash", "/\n/evil.example/x", "", "/"},
		{"delete char", "/\x7f/evil.example", "", "/"},
		{"tab redirect falls back to referer", "/\t/evil.example", "http://example.com/about", "/about"},
		{"nothing", "", "", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			form := url.Values{}
			if tt.redirect != "" {
				form.Set(consent.FieldRedirect, tt.redirect)
			}
			r := postForm("/consent/accept-all", form)
			if tt.referer != "" {
				r.Header.Set("Referer", tt.referer)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			require.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Location"))
		})
	}
}

func TestHandler_DataStarPatchesBanner(t *testing.T) {
	t.Parallel()
	h := newRouter(t, consent.WithView(stubView{}))

	r := postForm("/consent/accept-all", url.Values{})
	r.Header.Set("Accept", "text/event-stream")
	r.Header.Set("Referer", "http://example.com/")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
	body := w.Body.String()
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, `data-visible="false"`)
	assert.NotContains(t, body, `id="prefs"`)
	assert.NotNil(t, findCookie(w.Result().Cookies(), prefsCookie))
}

func TestHandler_DataStarPatchesFormOnPreferencesPage(t *testing.T) {
	t.Parallel()
	h := newRouter(t, consent.WithView(stubView{}))

	r := postForm("/consent/preferences", url.Values{"analytics": {"off"}})
	r.Header.Set(consent.DataStarRequestHeader, "true")
	r.Header.Set("Referer", "http://example.com/cookies")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-visible="false"`)
	assert.Contains(t, body, `<form id="prefs" data-categories="3" data-record="1">`)
}

func TestHandler_DataStarWithoutView(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	r := postForm("/consent/accept-all?datastar=%7B%7D", url.Values{})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotNil(t, findCookie(w.Result().Cookies(), prefsCookie))
}

func TestHandler_State(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	r := httptest.NewRequest(http.MethodGet, "http://example.com/consent/state", nil)
	r.Header.Set("Cookie", "analytics-y=1; essential-x=2")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var state struct {
		Record        consent.Record `json:"record"`
		BannerVisible bool           `json:"banner_visible"`
		Deleted       []string       `json:"deleted"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&state))
	assert.Nil(t, state.Record)
	assert.True(t, state.BannerVisible)
	assert.Equal(t, []string{"analytics-y"}, state.Deleted)
}

func TestIsDataStar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		header map[string]string
		want   bool
	}{
		{"plain", "/", nil, false},
		{"accept header", "/", map[string]string{"Accept": "text/event-stream"}, true},
		{"request header", "/", map[string]string{"Datastar-Request": "true"}, true},
		{"query param", "/?datastar=%7B%7D", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, consent.IsDataStar(r))
		})
	}
}
