package session

import "strings"

// Scope identifies the role-gated area a request belongs to. It is never
// persisted; it is recomputed from the navigation path on every request.
type Scope string

const (
	ScopeAdmin    Scope = "admin"
	ScopeDesigner Scope = "designer"
	ScopeClient   Scope = "client"
	ScopePublic   Scope = "public"
)

// Valid reports whether the scope is a known enumeration value.
func (s Scope) Valid() bool {
	switch s {
	case ScopeAdmin, ScopeDesigner, ScopeClient, ScopePublic:
		return true
	}
	return false
}

// ScopeFromPath derives the route scope from a request path.
func ScopeFromPath(path string) Scope {
	switch {
	case path == "/admin" || strings.HasPrefix(path, "/admin/"):
		return ScopeAdmin
	case path == "/designer" || strings.HasPrefix(path, "/designer/"):
		return ScopeDesigner
	case path == "/client" || strings.HasPrefix(path, "/client/"):
		return ScopeClient
	default:
		return ScopePublic
	}
}
