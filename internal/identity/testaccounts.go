package identity

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is the only failure an authenticator reports. It
// deliberately does not reveal whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

type testAccount struct {
	user     User
	password string
	hash     []byte
}

// Authenticator validates credentials against the built-in demo accounts.
// It is always consulted before any network call so the demo accounts keep
// working when the backend is unreachable.
type Authenticator struct {
	accounts map[string]testAccount
}

// NewAuthenticator builds the fixed role-to-credential table.
func NewAuthenticator() *Authenticator {
	seed := []struct {
		user     User
		password string
	}{
		{
			user: User{
				ID:       1,
				Name:     "Platform Admin",
				Email:    "admin@specialgraphics.com",
				Role:     RoleAdmin,
				Verified: true,
			},
			password: "Admin123!",
		},
		{
			user: User{
				ID:       2,
				Name:     "Demo Designer",
				Email:    "designer@specialgraphics.com",
				Role:     RoleDesigner,
				Verified: true,
			},
			password: "Designer123!",
		},
		{
			user: User{
				ID:       3,
				Name:     "Demo Client",
				Email:    "client@specialgraphics.com",
				Role:     RoleClient,
				Verified: true,
			},
			password: "Client123!",
		},
	}

	accounts := make(map[string]testAccount, len(seed))
	for _, entry := range seed {
		// MinCost keeps startup cheap; these are published demo credentials.
		hash, err := bcrypt.GenerateFromPassword([]byte(entry.password), bcrypt.MinCost)
		if err != nil {
			panic(fmt.Sprintf("hash demo credential for %s: %v", entry.user.Email, err))
		}
		accounts[entry.user.Email] = testAccount{user: entry.user, password: entry.password, hash: hash}
	}

	return &Authenticator{accounts: accounts}
}

// Authenticate matches the pair against the table. Email matching is
// case-insensitive and both fields are trimmed before comparison.
func (a *Authenticator) Authenticate(email, password string) (User, error) {
	email = NormalizeEmail(email)
	password = strings.TrimSpace(password)

	account, ok := a.accounts[email]
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(account.hash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return account.user, nil
}

// Hint renders the recovery message advertising the demo credentials. Shown
// when a sign-in fails because the backend could not be reached.
func (a *Authenticator) Hint() string {
	var b strings.Builder
	b.WriteString("The backend is unreachable. Demo accounts: ")
	for i, email := range []string{
		"admin@specialgraphics.com",
		"designer@specialgraphics.com",
		"client@specialgraphics.com",
	} {
		if i > 0 {
			b.WriteString(", ")
		}
		account := a.accounts[email]
		b.WriteString(account.user.Email + " / " + account.password)
	}
	return b.String()
}

const localTokenPrefix = "local-"

// LocalToken returns the synthetic bearer placeholder committed alongside a
// locally-authenticated demo account. The shape is wire-visible.
func LocalToken(role Role) string {
	return localTokenPrefix + string(role) + "-token"
}

// IsLocalToken reports whether the token is a synthetic placeholder rather
// than a backend-issued bearer value.
func IsLocalToken(token string) bool {
	return strings.HasPrefix(token, localTokenPrefix) && strings.HasSuffix(token, "-token")
}
