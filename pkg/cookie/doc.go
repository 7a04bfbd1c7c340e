// Package cookie provides a small HTTP cookie manager for Go applications.
//
// It wraps net/http's http.Cookie with shared defaults (path, domain,
// SameSite, Secure, HttpOnly) and adds scope-agnostic deletion.
//
// # Overview
//
// The Manager type is the entry point:
//
//   • Set(), Get(), Delete() – plain cookies using the manager defaults
//   • DeleteEverywhere() – expires a cookie under every scope it may have
//     been set with (see DeletionScopes)
//
// # Deleting cookies of unknown scope
//
// Browsers send only name=value pairs; the Domain and Path a cookie was set
// with are not visible to the server. An expired cookie only replaces the
// original when its scope matches, so DeleteEverywhere writes one expired
// Set-Cookie for each of:
//
//	path=/                 (host-only cookie)
//	domain=<host>; path=/
//	domain=.<host>; path=/
//	domain=<parent>        (host from its first dot)
//
// net/http drops the leading dot of a Domain attribute when serialising,
// which RFC 6265 user agents ignore anyway; the variant is still emitted.
//
// # Usage
//
//	import "github.com/dmitrymomot/consentkit/pkg/cookie"
//
//	man := cookie.New(cookie.WithSecure(true))
//
//	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
//	    _ = man.Set(w, "theme", "dark", cookie.WithExpiryDays(30))
//	    man.DeleteEverywhere(w, "_ga", cookie.HostFromRequest(r))
//	})
//
// # Configuration
//
// The Config struct allows the manager to be constructed from environment
// variables via github.com/caarlos0/env.
//
//	cfg := cookie.DefaultConfig()
//	_ = env.Parse(&cfg)
//	man := cookie.NewFromConfig(cfg)
//
// # Error Handling
//
// Package-level sentinel errors such as ErrCookieNotFound and ErrInvalidName
// are returned so callers can use errors.Is.
package cookie
