package backend

import (
	"context"
	"errors"

	"github.com/specialgraphics/portal/internal/identity"
)

// Client is the connector to the remote identity backend. The backend owns
// all durable account data; this layer only exchanges credentials and tokens
// with it.
type Client interface {
	// Authenticate exchanges an email/password pair for the account record
	// and a bearer token.
	Authenticate(ctx context.Context, email, password string) (identity.User, string, error)
	// CurrentUser resolves the account owning the bearer token.
	CurrentUser(ctx context.Context, token string) (identity.User, error)
	// SignOut invalidates the bearer token. Callers treat failures as
	// non-fatal.
	SignOut(ctx context.Context, token string) error
	// Register creates an account and signs it in, mirroring Authenticate.
	Register(ctx context.Context, input RegisterInput) (identity.User, string, error)
}

// RegisterInput carries the fields forwarded to the backend registration call.
type RegisterInput struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Role     identity.Role `json:"role,omitempty"`
}

var (
	// ErrUnavailable marks transport-level failures: the backend could not
	// be reached at all. Cached demo sessions may survive this.
	ErrUnavailable = errors.New("identity backend unreachable")
	// ErrDenied marks an explicit rejection: the backend answered and said
	// no. Cached sessions never survive this.
	ErrDenied = errors.New("identity backend denied the request")
)
