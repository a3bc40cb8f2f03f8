package session

import (
	"context"
	"errors"

	"github.com/specialgraphics/portal/internal/backend"
	"github.com/specialgraphics/portal/internal/identity"
)

// Source is one origin that can supply the visitor's user record during
// bootstrap.
type Source int

const (
	// SourceCachedAdmin trusts a cached staff record on an admin path
	// unconditionally, so the admin area keeps working without a live
	// backend.
	SourceCachedAdmin Source = iota
	// SourceRemoteVerify asks the backend to confirm the persisted token
	// and takes its answer as authoritative.
	SourceRemoteVerify
	// SourceCachedFallback keeps the cached record when verification was
	// skipped, or when the backend was unreachable and the cached role is
	// trusted offline.
	SourceCachedFallback
	// SourceUnauthenticated signs the visitor out and clears any leftover
	// persisted state.
	SourceUnauthenticated
)

func (s Source) String() string {
	switch s {
	case SourceCachedAdmin:
		return "cached-admin"
	case SourceRemoteVerify:
		return "remote-verify"
	case SourceCachedFallback:
		return "cached-fallback"
	default:
		return "unauthenticated"
	}
}

// Precedence is the ordered list of trust sources consulted by bootstrap.
// The first source that claims the decision wins.
var Precedence = []Source{
	SourceCachedAdmin,
	SourceRemoteVerify,
	SourceCachedFallback,
	SourceUnauthenticated,
}

type cachedState struct {
	user  *identity.User
	token string
}

type trustDecision struct {
	source  Source
	user    *identity.User
	token   string
	persist bool
	clear   bool
}

// resolveTrust walks the precedence list and returns the winning decision.
//
// Two failure modes of remote verification diverge here: an unreachable
// backend lets offline-trusted roles fall back to the cached record, while
// an explicit denial always clears the session.
func (s *Store) resolveTrust(ctx context.Context, cached cachedState, scope Scope) trustDecision {
	// Synthetic placeholder tokens never belonged to the backend, so they
	// are never sent to it for verification.
	verifiable := cached.token != "" && !identity.IsLocalToken(cached.token)

	verifyAttempted := false
	verifyUnreachable := false

	for _, src := range Precedence {
		switch src {
		case SourceCachedAdmin:
			if scope == ScopeAdmin && cached.user != nil && cached.user.Role.Staff() {
				return trustDecision{source: src, user: cached.user, token: cached.token}
			}
		case SourceRemoteVerify:
			if cached.user == nil || !verifiable || scope == ScopeAdmin {
				continue
			}
			verifyAttempted = true
			remote, err := s.backend.CurrentUser(ctx, cached.token)
			if err == nil {
				return trustDecision{source: src, user: &remote, token: cached.token, persist: true}
			}
			verifyUnreachable = errors.Is(err, backend.ErrUnavailable)
			s.logger.Warn("session verification failed", "error", err, "unreachable", verifyUnreachable)
		case SourceCachedFallback:
			if cached.user == nil {
				continue
			}
			if !verifyAttempted {
				// Covers token-less and locally-authenticated sessions,
				// which are trusted as cached.
				return trustDecision{source: src, user: cached.user, token: cached.token}
			}
			if verifyUnreachable && cached.user.Role.OfflineTrusted() {
				return trustDecision{source: src, user: cached.user, token: cached.token}
			}
		case SourceUnauthenticated:
			return trustDecision{source: src, clear: cached.user != nil || cached.token != ""}
		}
	}

	return trustDecision{source: SourceUnauthenticated}
}
