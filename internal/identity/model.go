package identity

import "strings"

// Role enumerates the account roles visible on the wire.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleDesigner  Role = "designer"
	RoleClient    Role = "client"
	RoleBuyer     Role = "buyer"
)

// Valid reports whether the role is one of the known enumeration values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleDesigner, RoleClient, RoleBuyer:
		return true
	}
	return false
}

// Staff reports whether the role may enter the admin area.
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleModerator
}

// OfflineTrusted reports whether a cached session with this role survives an
// unreachable backend. Buyer accounts always require a live verification.
func (r Role) OfflineTrusted() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleDesigner, RoleClient:
		return true
	}
	return false
}

// User represents a marketplace account as seen by the session layer.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Verified  bool   `json:"verified"`
}

// Claims is the enriched bundle produced once per sign-in event. Fields set
// by the originating credential path are never overwritten afterwards.
type Claims struct {
	UserID  int64
	Email   string
	Name    string
	Role    Role
	Token   string
	Picture string
}

// User materializes the claim set as a session user record.
func (c Claims) User() User {
	return User{
		ID:        c.UserID,
		Name:      c.Name,
		Email:     c.Email,
		Role:      c.Role,
		AvatarURL: c.Picture,
	}
}

// NormalizeEmail lowercases and trims an address for case-insensitive matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
