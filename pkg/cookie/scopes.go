package cookie

import (
	"net"
	"net/http"
	"strings"
)

// Scope is one Domain/Path combination a deletion cookie is written for.
type Scope struct {
	Domain string
	Path   string
}

// DeletionScopes lists the scopes a cookie may have been set under for host:
// host-only on path "/", the bare host, the host with a leading dot, and the
// parent domain (the host from its first dot, or the whole host when it has
// none). The list is fixed and always attempted in full.
func DeletionScopes(host string) []Scope {
	host = strings.TrimSpace(host)
	if host == "" {
		return []Scope{{Path: "/"}}
	}

	parent := host
	if i := strings.IndexByte(host, '.'); i >= 0 {
		parent = host[i:]
	}

	return []Scope{
		{Path: "/"},
		{Domain: host, Path: "/"},
		{Domain: "." + host, Path: "/"},
		{Domain: parent},
	}
}

// HostFromRequest returns the request host without port, lowercased.
func HostFromRequest(r *http.Request) string {
	host := r.Host
	if host == "" && r.URL != nil {
		host = r.URL.Host
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(strings.Trim(host, "[]"))
}
