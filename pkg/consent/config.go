package consent

import (
	"github.com/spf13/afero"
)

// Default values of the consent configuration.
const (
	DefaultCookieName      = "cm-user-preferences"
	DefaultExpiryDays      = 365
	DefaultPreferencesPath = "/cookies"
)

// Config holds consent engine configuration.
type Config struct {
	DeleteUndefined                bool   `env:"CONSENT_DELETE_UNDEFINED_COOKIES" envDefault:"true"`
	CookieName                     string `env:"CONSENT_COOKIE_NAME" envDefault:"cm-user-preferences"`
	CookieSecure                   bool   `env:"CONSENT_COOKIE_SECURE" envDefault:"false"`
	CookieExpiryDays               int    `env:"CONSENT_COOKIE_EXPIRY_DAYS" envDefault:"365"`
	ManifestPath                   string `env:"CONSENT_MANIFEST_PATH" envDefault:""`
	BannerVisibleOnPreferencesPage bool   `env:"CONSENT_BANNER_VISIBLE_ON_PREFERENCES_PAGE" envDefault:"true"`
	PreferencesPath                string `env:"CONSENT_PREFERENCES_PATH" envDefault:"/cookies"`
}

// DefaultConfig returns default consent configuration
func DefaultConfig() Config {
	return Config{
		DeleteUndefined:                true,
		CookieName:                     DefaultCookieName,
		CookieSecure:                   false,
		CookieExpiryDays:               DefaultExpiryDays,
		BannerVisibleOnPreferencesPage: true,
		PreferencesPath:                DefaultPreferencesPath,
	}
}

// NewFromConfig creates a Manager from cfg. When cfg.ManifestPath is set and
// no WithManifest option is given, the manifest is loaded from that path on
// the OS filesystem (or the one passed with WithFS).
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	configOpts := []Option{
		WithDeleteUndefined(cfg.DeleteUndefined),
		WithCookieName(cfg.CookieName),
		WithCookieSecure(cfg.CookieSecure),
		WithExpiryDays(cfg.CookieExpiryDays),
		WithBannerOnPreferencesPage(cfg.BannerVisibleOnPreferencesPage),
		WithPreferencesPath(cfg.PreferencesPath),
	}
	configOpts = append(configOpts, opts...)

	o := applyOptions(configOpts)
	if o.manifest == nil && cfg.ManifestPath != "" {
		fs := o.fs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		manifest, err := LoadManifest(fs, cfg.ManifestPath)
		if err != nil {
			return nil, err
		}
		configOpts = append(configOpts, WithManifest(manifest))
	}

	return New(configOpts...)
}
