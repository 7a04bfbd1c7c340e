package cookie

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// Manager writes and reads plain cookies with shared defaults.
type Manager struct {
	defaults Options
}

// New creates a Manager. Defaults are Path "/", HttpOnly and SameSite=Lax.
func New(opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		defaults: applyOptions(defaults, opts),
	}
}

// Defaults returns a copy of the manager's default options.
func (m *Manager) Defaults() Options {
	return m.defaults
}

// Cookie builds the http.Cookie that Set would write.
func (m *Manager) Cookie(name, value string, opts ...Option) (*http.Cookie, error) {
	if name == "" || strings.ContainsAny(name, "=;, \t\r\n") {
		return nil, ErrInvalidName
	}

	options := applyOptions(m.defaults, opts)

	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}
	if options.MaxAge > 0 {
		c.Expires = time.Now().UTC().Add(time.Duration(options.MaxAge) * time.Second)
	}

	return c, nil
}

func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	c, err := m.Cookie(name, value, opts...)
	if err != nil {
		return err
	}

	http.SetCookie(w, c)
	return nil
}

func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires the cookie using the manager's default path and domain.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.expired(name, m.defaults.Path, m.defaults.Domain))
}

// DeleteEverywhere expires the cookie once for every scope returned by
// DeletionScopes(host). A cookie's original domain is not visible to the
// server, so every variant it could have been set under is attempted.
func (m *Manager) DeleteEverywhere(w http.ResponseWriter, name, host string) {
	for _, scope := range DeletionScopes(host) {
		http.SetCookie(w, m.expired(name, scope.Path, scope.Domain))
	}
}

func (m *Manager) expired(name, path, domain string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Domain:   domain,
		MaxAge:   -1,
		Expires:  time.Unix(1, 0),
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
		Secure:   m.defaults.Secure,
	}
}
