// Package consent enforces a site's cookie consent policy on the server.
//
// A Manifest lists consent categories in order. Each category owns a set of
// cookie-name prefixes and is either essential (never checked against
// consent) or optional (kept only while the visitor has opted in). The
// visitor's choices are stored in a single cookie as a Record that maps
// category names to markers.
//
// # Decisions
//
// Evaluate is a pure function deciding keep or delete for every cookie:
//
//  1. The consent cookie itself is always kept.
//  2. Cookies matching no category are deleted when DeleteUndefined is set.
//  3. Cookies of essential categories are kept.
//  4. Cookies of optional categories are deleted when there is no valid
//     record, when the record has no entry for the category, or when the
//     entry is "off" or "false". Any other value keeps them.
//
// When several categories match a cookie, the first category in manifest
// order wins.
//
// Accept-all writes "on" for every optional category and reject-all writes
// "off". Both literals "off" and "false" are read as a denial.
//
// # Manager
//
// Manager wires the pure functions to a Store. Enforce re-reads the record
// on every call, evaluates the current cookies and deletes the rejected ones.
// Deletion goes through Store.Delete, which for HTTPStore expires the cookie
// on every domain scope it may have been set under. A malformed stored record
// is logged and treated as no consent; Enforce never fails.
//
// Saving is a single synchronous pipeline: write the record, enforce, resolve
// the banner, then run the OnSaved hooks.
//
//	m, err := consent.New(
//		consent.WithManifest(consent.Manifest{
//			{Name: "essential", Prefixes: []string{"session"}},
//			{Name: "analytics", Optional: true, Prefixes: []string{"_ga"}},
//		}),
//		consent.WithLogger(log),
//		consent.WithMetrics(consent.NewMetrics(prometheus.DefaultRegisterer)),
//	)
//	if err != nil {
//		return err
//	}
//
//	r := chi.NewRouter()
//	r.Use(m.Middleware)
//	r.Mount("/consent", m.Handler())
//
// Middleware stores the Result of the pass in the request context, see
// FromContext and BannerVisibleFromContext.
//
// # Endpoints
//
// Handler serves POST /accept-all, POST /reject-all and POST /preferences.
// DataStar requests receive an SSE patch of the banner (and of the form when
// the save came from the preferences page) rendered by the configured View.
// Other requests are redirected with 303 to the posted redirect_to path, the
// same-host Referer or "/". GET /state returns the current state as JSON.
//
// # Configuration
//
// Config is loaded from CONSENT_* environment variables. NewFromConfig loads
// the manifest from CONSENT_MANIFEST_PATH (YAML or JSON) when set.
//
//	cookie-manifest:
//	  - category-name: essential
//	    optional: false
//	    cookies: [session, csrf_]
//	  - category-name: analytics
//	    optional: true
//	    cookies: [_ga, _gid]
package consent
