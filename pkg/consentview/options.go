package consentview

import "strings"

// Option configures a View.
type Option func(*View)

// WithFormID sets the id of the preferences form. An empty id disables the form.
func WithFormID(id string) Option {
	return func(v *View) { v.formID = id }
}

// WithBannerID sets the id of the banner element. An empty id disables the banner.
func WithBannerID(id string) Option {
	return func(v *View) { v.bannerID = id }
}

// WithHiddenClass sets the class toggled on the banner while it is hidden.
func WithHiddenClass(class string) Option {
	return func(v *View) {
		if class != "" {
			v.hiddenClass = class
		}
	}
}

// WithPrefill controls whether the form reflects the stored record. Off by
// default.
func WithPrefill(prefill bool) Option {
	return func(v *View) { v.prefill = prefill }
}

// WithActionPath sets the mount point of the consent endpoints.
func WithActionPath(path string) Option {
	return func(v *View) {
		if path != "" {
			v.actionPath = strings.TrimSuffix(path, "/")
		}
	}
}

// WithPreferencesPath sets the page the preferences form returns to.
func WithPreferencesPath(path string) Option {
	return func(v *View) {
		if path != "" {
			v.preferencesPath = path
		}
	}
}

// WithText overrides the banner and form copy.
func WithText(t Text) Option {
	return func(v *View) { v.text = t }
}

// WithLabels sets human readable category labels keyed by category name.
func WithLabels(labels map[string]string) Option {
	return func(v *View) {
		for k, l := range labels {
			v.labels[k] = l
		}
	}
}
