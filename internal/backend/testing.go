package backend

import (
	"context"
	"sync"

	"github.com/specialgraphics/portal/internal/identity"
)

// CallCounts tracks how often each backend operation was invoked. Several
// session behaviors must perform zero network calls; tests assert that
// through these counters.
type CallCounts struct {
	Authenticate int
	CurrentUser  int
	SignOut      int
	Register     int
}

// Stub is an in-memory backend connector for tests. Each operation delegates
// to an optional hook; without a hook it reports the backend as unreachable.
type Stub struct {
	mu    sync.Mutex
	calls CallCounts

	AuthenticateFunc func(ctx context.Context, email, password string) (identity.User, string, error)
	CurrentUserFunc  func(ctx context.Context, token string) (identity.User, error)
	SignOutFunc      func(ctx context.Context, token string) error
	RegisterFunc     func(ctx context.Context, input RegisterInput) (identity.User, string, error)
}

// NewStub builds an unreachable backend. Tests attach hooks as needed.
func NewStub() *Stub {
	return &Stub{}
}

// Calls returns a snapshot of the per-operation counters.
func (s *Stub) Calls() CallCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Stub) Authenticate(ctx context.Context, email, password string) (identity.User, string, error) {
	s.mu.Lock()
	s.calls.Authenticate++
	fn := s.AuthenticateFunc
	s.mu.Unlock()
	if fn == nil {
		return identity.User{}, "", ErrUnavailable
	}
	return fn(ctx, email, password)
}

func (s *Stub) CurrentUser(ctx context.Context, token string) (identity.User, error) {
	s.mu.Lock()
	s.calls.CurrentUser++
	fn := s.CurrentUserFunc
	s.mu.Unlock()
	if fn == nil {
		return identity.User{}, ErrUnavailable
	}
	return fn(ctx, token)
}

func (s *Stub) SignOut(ctx context.Context, token string) error {
	s.mu.Lock()
	s.calls.SignOut++
	fn := s.SignOutFunc
	s.mu.Unlock()
	if fn == nil {
		return ErrUnavailable
	}
	return fn(ctx, token)
}

func (s *Stub) Register(ctx context.Context, input RegisterInput) (identity.User, string, error) {
	s.mu.Lock()
	s.calls.Register++
	fn := s.RegisterFunc
	s.mu.Unlock()
	if fn == nil {
		return identity.User{}, "", ErrUnavailable
	}
	return fn(ctx, input)
}
