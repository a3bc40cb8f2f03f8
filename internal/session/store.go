package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/specialgraphics/portal/internal/backend"
	"github.com/specialgraphics/portal/internal/bridge"
	"github.com/specialgraphics/portal/internal/identity"
	"github.com/specialgraphics/portal/internal/notification"
)

const (
	adminLoginHint = "Invalid admin credentials. The admin area only accepts the built-in " +
		"admin account (admin@specialgraphics.com / Admin123!)."
	invalidCredentialsMessage = "Invalid email or password."
	registrationFailedMessage = "Registration failed."
)

// Result reports the outcome of a sign-in style operation in a form safe to
// hand to the rendering layer. Nothing below this type surfaces a raw error.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Store owns the current-user state for one visitor and its persisted pair.
// It is handed to guards and handlers by a Manager; nothing reads it through
// a package global.
type Store struct {
	mu       sync.Mutex
	bootOnce sync.Once

	user    *identity.User
	token   string
	loading bool

	// seq tickets every mutating operation; lastExplicit remembers the
	// newest explicit one so a superseded bootstrap can be discarded.
	seq          uint64
	lastExplicit uint64

	keyring  Keyring
	accounts *identity.Authenticator
	bridge   *bridge.Bridge
	backend  backend.Client
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewStore builds a store in the loading state. Callers must run Bootstrap
// before trusting any of the predicates.
func NewStore(keyring Keyring, accounts *identity.Authenticator, br *bridge.Bridge, client backend.Client, notifier notification.Notifier, logger *slog.Logger) *Store {
	return &Store{
		loading:  true,
		keyring:  keyring,
		accounts: accounts,
		bridge:   br,
		backend:  client,
		notifier: notifier,
		logger:   logger,
	}
}

// User returns the current user record, or nil when signed out.
func (s *Store) User() *identity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current bearer token, synthetic or backend-issued.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Loading reports whether bootstrap has finished. Guards must not evaluate
// authorization while this is true.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// IsAuthenticated reports whether a user is signed in.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

func (s *Store) ticket(explicit bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if explicit {
		s.lastExplicit = s.seq
	}
	return s.seq
}

// commit applies a new user/token pair to memory and, when requested, to the
// keyring, as one logical transaction. A bootstrap ticket older than the
// newest explicit operation is discarded: explicit sign-in and sign-out
// always win over a late-arriving bootstrap.
func (s *Store) commit(ctx context.Context, t uint64, explicit bool, user *identity.User, token string, persist, clear bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !explicit && t < s.lastExplicit {
		return false
	}
	if persist && user != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			s.logger.Error("encode session user", "error", err)
		} else if err := s.keyring.Save(ctx, string(raw), token); err != nil {
			s.logger.Warn("persist session", "error", err)
		}
	}
	if clear {
		if err := s.keyring.Clear(ctx); err != nil {
			s.logger.Warn("clear persisted session", "error", err)
		}
	}
	s.user = user
	s.token = token
	return true
}

// Bootstrap restores the visitor's session once per store lifetime. It is
// safe to call from concurrent requests; later callers block until the first
// run finishes, so Loading is false whenever Bootstrap returns.
func (s *Store) Bootstrap(ctx context.Context, scope Scope) {
	s.bootOnce.Do(func() { s.bootstrap(ctx, scope) })
}

func (s *Store) bootstrap(ctx context.Context, scope Scope) {
	defer s.finishLoading()

	t := s.ticket(false)
	cached := s.loadCached(ctx)
	decision := s.resolveTrust(ctx, cached, scope)
	if !s.commit(ctx, t, false, decision.user, decision.token, decision.persist, decision.clear) {
		s.logger.Debug("bootstrap superseded by explicit operation")
		return
	}
	s.logger.Info("session bootstrap",
		"source", decision.source.String(),
		"scope", string(scope),
		"authenticated", decision.user != nil,
	)
}

func (s *Store) finishLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// loadCached reads the persisted pair. Malformed state is treated as no
// session at all: it is cleared and bootstrap proceeds unauthenticated.
func (s *Store) loadCached(ctx context.Context) cachedState {
	userJSON, token, err := s.keyring.Load(ctx)
	if err != nil {
		s.logger.Warn("load persisted session", "error", err)
		return cachedState{}
	}
	if userJSON == "" {
		return cachedState{token: token}
	}

	var user identity.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil || !user.Role.Valid() {
		s.logger.Warn("malformed persisted session, clearing", "error", err)
		if err := s.keyring.Clear(ctx); err != nil {
			s.logger.Warn("clear persisted session", "error", err)
		}
		return cachedState{}
	}
	return cachedState{user: &user, token: token}
}

// Login signs the visitor in. The demo account table is always consulted
// before the network; on an admin-scoped path the network is never consulted
// at all.
func (s *Store) Login(ctx context.Context, email, password string, scope Scope) Result {
	t := s.ticket(true)

	if user, err := s.accounts.Authenticate(email, password); err == nil {
		token := identity.LocalToken(user.Role)
		s.commit(ctx, t, true, &user, token, true, false)
		s.notify(ctx, notification.Event{Kind: notification.KindSignIn, Email: user.Email, Role: user.Role, Method: "local"})
		return Result{Success: true}
	}

	if scope == ScopeAdmin {
		s.notify(ctx, notification.Event{Kind: notification.KindSignInFailed, Email: identity.NormalizeEmail(email), Reason: "unknown admin credentials"})
		return Result{Message: adminLoginHint}
	}

	claims, err := s.bridge.PasswordSignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, backend.ErrUnavailable) {
			s.notify(ctx, notification.Event{Kind: notification.KindSignInFailed, Email: identity.NormalizeEmail(email), Reason: "backend unreachable"})
			return Result{Message: s.accounts.Hint()}
		}
		s.notify(ctx, notification.Event{Kind: notification.KindSignInFailed, Email: identity.NormalizeEmail(email), Reason: "rejected"})
		return Result{Message: invalidCredentialsMessage}
	}

	user := claims.User()
	s.commit(ctx, t, true, &user, claims.Token, true, false)
	s.notify(ctx, notification.Event{Kind: notification.KindSignIn, Email: user.Email, Role: user.Role, Method: "password"})
	return Result{Success: true}
}

// Register creates an account through the backend and commits the resulting
// session exactly like a login.
func (s *Store) Register(ctx context.Context, name, email, password string, role identity.Role) Result {
	t := s.ticket(true)

	claims, err := s.bridge.Register(ctx, backend.RegisterInput{
		Name:     name,
		Email:    identity.NormalizeEmail(email),
		Password: password,
		Role:     role,
	})
	if err != nil {
		if errors.Is(err, backend.ErrUnavailable) {
			return Result{Message: s.accounts.Hint()}
		}
		return Result{Message: registrationFailedMessage}
	}

	user := claims.User()
	s.commit(ctx, t, true, &user, claims.Token, true, false)
	s.notify(ctx, notification.Event{Kind: notification.KindRegistered, Email: user.Email, Role: user.Role, Method: "password"})
	return Result{Success: true}
}

// SignInWithClaims commits an identity produced by the bridge's third-party
// provider path as an explicit sign-in.
func (s *Store) SignInWithClaims(ctx context.Context, claims identity.Claims) {
	t := s.ticket(true)
	user := claims.User()
	s.commit(ctx, t, true, &user, claims.Token, true, false)
	s.notify(ctx, notification.Event{Kind: notification.KindSignIn, Email: user.Email, Role: user.Role, Method: "provider"})
}

// Logout signs the visitor out. The remote sign-out is best effort; local
// state is cleared unconditionally as the final step.
func (s *Store) Logout(ctx context.Context) {
	t := s.ticket(true)

	s.mu.Lock()
	user := s.user
	token := s.token
	s.mu.Unlock()

	if token != "" && !identity.IsLocalToken(token) {
		if err := s.backend.SignOut(ctx, token); err != nil {
			s.logger.Warn("remote sign-out failed", "error", err)
		}
	}

	s.commit(ctx, t, true, nil, "", false, true)
	if user != nil {
		s.notify(ctx, notification.Event{Kind: notification.KindSignOut, Email: user.Email, Role: user.Role})
	}
}

// RefreshUser re-verifies the session against the backend and overwrites the
// pair with the authoritative record. Admin-scoped sessions are never
// refreshed remotely, and failures leave the current record untouched.
func (s *Store) RefreshUser(ctx context.Context, scope Scope) {
	if scope == ScopeAdmin {
		return
	}

	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token == "" || identity.IsLocalToken(token) {
		return
	}

	t := s.ticket(true)
	remote, err := s.backend.CurrentUser(ctx, token)
	if err != nil {
		s.logger.Warn("refresh user failed", "error", err)
		return
	}
	s.commit(ctx, t, true, &remote, token, true, false)
}

func (s *Store) notify(ctx context.Context, event notification.Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, event); err != nil {
		s.logger.Warn("send auth event", "error", err)
	}
}
