package consent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/consentkit/pkg/cookie"
	"github.com/dmitrymomot/consentkit/pkg/logger"
)

// Save sources reported to metrics and logs.
const (
	SourceAcceptAll = "accept_all"
	SourceRejectAll = "reject_all"
	SourceForm      = "form"
)

// View renders the page elements that are patched after a save.
// Implementations must not fail on a nil record.
type View interface {
	Banner(visible bool) templ.Component
	PreferencesForm(m Manifest, rec Record) templ.Component
}

// Result is the outcome of one enforcement pass.
type Result struct {
	Decisions       []Decision
	Record          Record
	BannerVisible   bool
	PreferencesPage bool
}

// Deleted returns the names of the cookies deleted by the pass.
func (r Result) Deleted() []string {
	return Deleted(r.Decisions)
}

// Manager runs the consent pipeline against a Store. It is immutable after
// construction and safe for concurrent use.
type Manager struct {
	manifest            Manifest
	deleteUndefined     bool
	cookieName          string
	cookieSecure        bool
	expiryDays          int
	bannerOnPreferences bool
	preferencesPath     string

	cookies *cookie.Manager
	logger  *slog.Logger
	metrics *Metrics
	view    View
	onSaved []SavedFunc
}

// New creates a Manager. The manifest is validated; an empty manifest is
// allowed and makes every cookie except the consent cookie undefined.
func New(opts ...Option) (*Manager, error) {
	o := applyOptions(opts)

	if err := o.manifest.Validate(); err != nil {
		return nil, err
	}
	if o.cookieName == "" || strings.ContainsAny(o.cookieName, "=;, \t\r\n") {
		return nil, fmt.Errorf("consent cookie name %q: %w", o.cookieName, cookie.ErrInvalidName)
	}

	if o.cookies == nil {
		o.cookies = cookie.New()
	}
	if o.logger == nil {
		o.logger = logger.Discard()
	}

	return &Manager{
		manifest:            o.manifest,
		deleteUndefined:     o.deleteUndefined,
		cookieName:          o.cookieName,
		cookieSecure:        o.cookieSecure,
		expiryDays:          o.expiryDays,
		bannerOnPreferences: o.bannerOnPreferences,
		preferencesPath:     o.preferencesPath,
		cookies:             o.cookies,
		logger:              o.logger.With(logger.Component("consent")),
		metrics:             o.metrics,
		view:                o.view,
		onSaved:             o.onSaved,
	}, nil
}

// Manifest returns a copy of the configured manifest.
func (m *Manager) Manifest() Manifest {
	return cloneManifest(m.manifest)
}

// CookieName returns the name of the consent record cookie.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// PreferencesPath returns the path of the preferences page.
func (m *Manager) PreferencesPath() string {
	return m.preferencesPath
}

// IsPreferencesPage reports whether r targets the preferences page.
func (m *Manager) IsPreferencesPage(r *http.Request) bool {
	if r == nil || r.URL == nil {
		return false
	}
	return strings.TrimSuffix(r.URL.Path, "/") == strings.TrimSuffix(m.preferencesPath, "/")
}

// NewStore returns the request's Store. The store created by Middleware is
// reused so its writes stay visible to handlers further down the chain.
func (m *Manager) NewStore(w http.ResponseWriter, r *http.Request) *HTTPStore {
	if s, ok := storeFromContext(r.Context()); ok {
		return s
	}
	return NewHTTPStore(w, r, m.cookies)
}

// Record reads the stored consent record. Missing and malformed values both
// yield a nil Record; malformed ones are logged and counted.
func (m *Manager) Record(ctx context.Context, store Store) Record {
	rec, err := LoadRecord(store, m.cookieName)
	if err == nil {
		return rec
	}
	if errors.Is(err, ErrMalformedRecord) {
		m.metrics.IncrementMalformed()
		m.logger.WarnContext(ctx, "stored consent record is malformed, treating as no consent",
			logger.Cookie(m.cookieName),
			logger.Error(err),
		)
	}
	return nil
}

// BannerVisible resolves banner visibility from the current store state.
func (m *Manager) BannerVisible(ctx context.Context, store Store, onPreferencesPage bool) bool {
	return ShouldBeVisible(m.Record(ctx, store), onPreferencesPage, m.bannerOnPreferences)
}

// Enforce evaluates every cookie in store and deletes the ones that are not
// allowed. It never fails: per-cookie problems only affect that cookie.
func (m *Manager) Enforce(ctx context.Context, store Store) []Decision {
	decisions, _ := m.enforce(ctx, store)
	return decisions
}

// Resolve runs an enforcement pass followed by a banner resolution. The
// consent cookie is never deleted by the pass, so the record it read is
// still current.
func (m *Manager) Resolve(ctx context.Context, store Store, onPreferencesPage bool) Result {
	decisions, rec := m.enforce(ctx, store)
	return Result{
		Decisions:       decisions,
		Record:          rec,
		BannerVisible:   ShouldBeVisible(rec, onPreferencesPage, m.bannerOnPreferences),
		PreferencesPage: onPreferencesPage,
	}
}

func (m *Manager) enforce(ctx context.Context, store Store) ([]Decision, Record) {
	start := time.Now()
	defer func() { m.metrics.ObserveEnforceLatency(time.Since(start)) }()

	rec := m.Record(ctx, store)
	decisions := Evaluate(store.Cookies(), m.manifest, rec, m.cookieName, m.deleteUndefined)

	deleted := 0
	for _, d := range decisions {
		if d.Action == Delete {
			store.Delete(d.Cookie.Name)
			deleted++
		}
		m.metrics.IncrementDecision(d.Action, d.Reason)
		m.logger.DebugContext(ctx, "cookie evaluated",
			logger.Cookie(d.Cookie.Name),
			logger.Action(string(d.Action)),
			logger.Reason(string(d.Reason)),
			logger.Category(d.Category),
		)
	}

	if deleted > 0 {
		m.logger.InfoContext(ctx, "cookies purged", logger.Count(deleted))
	}
	return decisions, rec
}

// AcceptAll stores a record granting every optional category, then
// re-enforces and re-resolves the banner.
func (m *Manager) AcceptAll(ctx context.Context, store Store, onPreferencesPage bool) Result {
	return m.save(ctx, store, AcceptAll(m.manifest), SourceAcceptAll, onPreferencesPage)
}

// RejectAll stores a record denying every optional category, then
// re-enforces and re-resolves the banner.
func (m *Manager) RejectAll(ctx context.Context, store Store, onPreferencesPage bool) Result {
	return m.save(ctx, store, RejectAll(m.manifest), SourceRejectAll, onPreferencesPage)
}

// SaveSelections stores the submitted selections of manifest categories,
// then re-enforces and re-resolves the banner. Fields that name no category,
// such as a named submit button, are dropped.
func (m *Manager) SaveSelections(ctx context.Context, store Store, selections map[string]string, onPreferencesPage bool) Result {
	groups := make(map[string]string, len(selections))
	for name, value := range selections {
		if _, ok := m.manifest.Lookup(name); ok {
			groups[name] = value
		}
	}
	return m.save(ctx, store, FromSelections(groups), SourceForm, onPreferencesPage)
}

// save is the write, enforce, resolve pipeline shared by every save trigger.
// Each step reads the store the previous one wrote.
func (m *Manager) save(ctx context.Context, store Store, rec Record, source string, onPreferencesPage bool) Result {
	store.Set(m.cookieName, EncodeRecord(rec), m.expiryDays, m.cookieSecure)
	m.metrics.IncrementSave(source)
	m.logger.InfoContext(ctx, "consent saved",
		logger.Event(source),
		logger.Count(len(rec)),
	)

	result := m.Resolve(ctx, store, onPreferencesPage)

	for _, fn := range m.onSaved {
		fn(ctx, result.Record.Clone())
	}
	return result
}
