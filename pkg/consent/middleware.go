package consent

import "net/http"

// Middleware enforces consent on every request before next runs. Deletions
// are sent as Set-Cookie headers on the response and the Result is stored in
// the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := m.NewStore(w, r)
		res := m.Resolve(r.Context(), store, m.IsPreferencesPage(r))
		ctx := withStore(WithResult(r.Context(), res), store)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
