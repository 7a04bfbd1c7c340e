package consent

import (
	"context"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/dmitrymomot/consentkit/pkg/cookie"
)

// SavedFunc is called after a new consent record was written and enforced.
type SavedFunc func(ctx context.Context, rec Record)

type options struct {
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
	fs      afero.Fs
	onSaved []SavedFunc
}

// Option configures a Manager.
type Option func(*options)

func defaultOptions() options {
	cfg := DefaultConfig()
	return options{
		deleteUndefined:     cfg.DeleteUndefined,
		cookieName:          cfg.CookieName,
		cookieSecure:        cfg.CookieSecure,
		expiryDays:          cfg.CookieExpiryDays,
		bannerOnPreferences: cfg.BannerVisibleOnPreferencesPage,
		preferencesPath:     cfg.PreferencesPath,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithManifest sets the category manifest. The slice is copied.
func WithManifest(m Manifest) Option {
	return func(o *options) {
		o.manifest = cloneManifest(m)
	}
}

// WithDeleteUndefined controls deletion of cookies missing from the manifest.
func WithDeleteUndefined(v bool) Option {
	return func(o *options) { o.deleteUndefined = v }
}

// WithCookieName sets the consent record cookie name. Empty names are ignored.
func WithCookieName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.cookieName = name
		}
	}
}

func WithCookieSecure(secure bool) Option {
	return func(o *options) { o.cookieSecure = secure }
}

// WithExpiryDays sets the consent cookie lifetime. Non-positive values fall
// back to DefaultExpiryDays.
func WithExpiryDays(days int) Option {
	return func(o *options) {
		if days <= 0 {
			days = DefaultExpiryDays
		}
		o.expiryDays = days
	}
}

// WithBannerOnPreferencesPage controls banner visibility on the preferences page.
func WithBannerOnPreferencesPage(visible bool) Option {
	return func(o *options) { o.bannerOnPreferences = visible }
}

// WithPreferencesPath sets the path of the preferences page.
func WithPreferencesPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.preferencesPath = path
		}
	}
}

// WithCookieManager sets the cookie manager used by HTTP stores.
func WithCookieManager(m *cookie.Manager) Option {
	return func(o *options) { o.cookies = m }
}

// WithLogger sets the logger. Nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithView sets the components rendered in DataStar responses.
func WithView(v View) Option {
	return func(o *options) { o.view = v }
}

// WithFS sets the filesystem NewFromConfig loads the manifest from.
func WithFS(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithOnSaved registers a hook fired after every save.
func WithOnSaved(fn SavedFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.onSaved = append(o.onSaved, fn)
		}
	}
}

func cloneManifest(m Manifest) Manifest {
	if m == nil {
		return nil
	}
	out := make(Manifest, len(m))
	for i, c := range m {
		out[i] = Category{
			Name:     c.Name,
			Optional: c.Optional,
			Prefixes: append([]string(nil), c.Prefixes...),
		}
	}
	return out
}
