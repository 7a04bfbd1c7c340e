package consent

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/consentkit/pkg/logger"
)

// DataStar request detection.
const (
	DataStarAcceptHeader  = "text/event-stream"
	DataStarQueryParam    = "datastar"
	DataStarRequestHeader = "Datastar-Request"
)

// Routes served by Handler, relative to its mount point.
const (
	RouteAcceptAll   = "/accept-all"
	RouteRejectAll   = "/reject-all"
	RoutePreferences = "/preferences"
	RouteState       = "/state"
)

// Handler returns the consent endpoints. Mount it under a prefix:
//
//	r.Mount("/consent", manager.Handler())
func (m *Manager) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post(RouteAcceptAll, m.handleAcceptAll)
	r.Post(RouteRejectAll, m.handleRejectAll)
	r.Post(RoutePreferences, m.handlePreferences)
	r.Get(RouteState, m.handleState)
	return r
}

func (m *Manager) handleAcceptAll(w http.ResponseWriter, r *http.Request) {
	target := redirectTarget(r)
	res := m.AcceptAll(r.Context(), m.NewStore(w, r), m.isPreferencesTarget(target))
	m.respond(w, r, res, target)
}

func (m *Manager) handleRejectAll(w http.ResponseWriter, r *http.Request) {
	target := redirectTarget(r)
	res := m.RejectAll(r.Context(), m.NewStore(w, r), m.isPreferencesTarget(target))
	m.respond(w, r, res, target)
}

func (m *Manager) handlePreferences(w http.ResponseWriter, r *http.Request) {
	selections, err := ReadSelections(r)
	if err != nil {
		m.logger.WarnContext(r.Context(), "invalid preferences form", logger.Error(err))
		http.Error(w, "invalid preferences form", http.StatusBadRequest)
		return
	}

	target := redirectTarget(r)
	res := m.SaveSelections(r.Context(), m.NewStore(w, r), selections, m.isPreferencesTarget(target))
	m.respond(w, r, res, target)
}

type stateResponse struct {
	Record        Record   `json:"record"`
	BannerVisible bool     `json:"banner_visible"`
	Deleted       []string `json:"deleted"`
}

func (m *Manager) handleState(w http.ResponseWriter, r *http.Request) {
	res, ok := FromContext(r.Context())
	if !ok {
		res = m.Resolve(r.Context(), m.NewStore(w, r), m.IsPreferencesPage(r))
	}

	deleted := res.Deleted()
	if deleted == nil {
		deleted = []string{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(stateResponse{
		Record:        res.Record,
		BannerVisible: res.BannerVisible,
		Deleted:       deleted,
	}); err != nil {
		m.logger.ErrorContext(r.Context(), "failed to encode consent state", logger.Error(err))
	}
}

// respond patches the banner (and the preferences form when the save came
// from the preferences page) for DataStar requests and redirects otherwise.
func (m *Manager) respond(w http.ResponseWriter, r *http.Request, res Result, target string) {
	if !IsDataStar(r) {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	if m.view == nil {
		m.logger.DebugContext(r.Context(), "no view configured, skipping patch",
			logger.Error(ErrMissingCollaborator),
		)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(m.view.Banner(res.BannerVisible)); err != nil {
		m.logger.ErrorContext(r.Context(), "failed to patch banner", logger.Error(err))
		return
	}
	if res.PreferencesPage {
		if err := sse.PatchElementTempl(m.view.PreferencesForm(m.manifest, res.Record)); err != nil {
			m.logger.ErrorContext(r.Context(), "failed to patch preferences form", logger.Error(err))
		}
	}
}

func (m *Manager) isPreferencesTarget(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return strings.TrimSuffix(u.Path, "/") == strings.TrimSuffix(m.preferencesPath, "/")
}

// IsDataStar reports whether r was issued by the DataStar client.
func IsDataStar(r *http.Request) bool {
	if r.Header.Get(DataStarRequestHeader) != "" {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), DataStarAcceptHeader) {
		return true
	}
	return r.URL.Query().Has(DataStarQueryParam)
}

// redirectTarget picks where a plain form post returns to: the posted
// redirect_to field when it is a local path, else the same-host Referer,
// else "/".
func redirectTarget(r *http.Request) string {
	if v := r.PostFormValue(FieldRedirect); isLocalPath(v) {
		return v
	}

	if ref := r.Referer(); ref != "" {
		u, err := url.Parse(ref)
		if err == nil && (u.Host == "" || strings.EqualFold(u.Host, r.Host)) {
			if p := u.RequestURI(); isLocalPath(p) {
				return p
			}
		}
	}

	return "/"
}

// isLocalPath accepts same-origin absolute paths only. Any control character
// is rejected: browsers drop tabs and newlines from Location, so "/\t/host"
// would be followed as "//host".
func isLocalPath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	for i := 0; i < len(p); i++ {
		if p[i] < 0x20 || p[i] == 0x7f {
			return false
		}
	}
	if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
		return false
	}
	u, err := url.Parse(p)
	return err == nil && u.Scheme == "" && u.Host == ""
}

