package consent

// Store is the cookie store collaborator. Implementations are synchronous:
// a Set or Delete must be observable by the next Get or Cookies call.
type Store interface {
	// Cookies lists the cookies currently present.
	Cookies() []Cookie
	// Get returns the value of name and whether it is present.
	Get(name string) (string, bool)
	// Set writes a cookie that lives for expiryDays.
	Set(name, value string, expiryDays int, secure bool)
	// Delete removes name regardless of the domain scope it was set with.
	Delete(name string)
}
