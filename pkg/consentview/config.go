package consentview

// Default element identifiers.
const (
	DefaultFormID      = "cm_user_preference_form"
	DefaultBannerID    = "cm_cookie_notification"
	DefaultHiddenClass = "hidden"
	DefaultActionPath  = "/consent"
)

// Config holds the page element settings of the consent views.
type Config struct {
	FormID          string `env:"CONSENT_FORM_ID" envDefault:"cm_user_preference_form"`
	BannerID        string `env:"CONSENT_BANNER_ID" envDefault:"cm_cookie_notification"`
	HiddenClass     string `env:"CONSENT_BANNER_HIDDEN_CLASS" envDefault:"hidden"`
	PrefillForm     bool   `env:"CONSENT_PREFILL_FORM" envDefault:"false"`
	ActionPath      string `env:"CONSENT_ACTION_PATH" envDefault:"/consent"`
	PreferencesPath string `env:"CONSENT_PREFERENCES_PATH" envDefault:"/cookies"`
}

// DefaultConfig returns default view configuration
func DefaultConfig() Config {
	return Config{
		FormID:          DefaultFormID,
		BannerID:        DefaultBannerID,
		HiddenClass:     DefaultHiddenClass,
		PrefillForm:     false,
		ActionPath:      DefaultActionPath,
		PreferencesPath: "/cookies",
	}
}

// NewFromConfig creates a View from cfg.
func NewFromConfig(cfg Config, opts ...Option) *View {
	configOpts := []Option{
		WithFormID(cfg.FormID),
		WithBannerID(cfg.BannerID),
		WithHiddenClass(cfg.HiddenClass),
		WithPrefill(cfg.PrefillForm),
		WithActionPath(cfg.ActionPath),
		WithPreferencesPath(cfg.PreferencesPath),
	}
	return New(append(configOpts, opts...)...)
}
