package session

import (
	"log/slog"
	"sync"

	"github.com/specialgraphics/portal/internal/backend"
	"github.com/specialgraphics/portal/internal/bridge"
	"github.com/specialgraphics/portal/internal/identity"
	"github.com/specialgraphics/portal/internal/notification"
)

// Manager owns one session store per visitor id. Guards and handlers obtain
// stores through it by dependency injection.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store

	keyrings KeyringProvider
	accounts *identity.Authenticator
	bridge   *bridge.Bridge
	backend  backend.Client
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewManager builds a manager over the given keyring provider and backend.
func NewManager(keyrings KeyringProvider, accounts *identity.Authenticator, br *bridge.Bridge, client backend.Client, notifier notification.Notifier, logger *slog.Logger) *Manager {
	return &Manager{
		stores:   make(map[string]*Store),
		keyrings: keyrings,
		accounts: accounts,
		bridge:   br,
		backend:  client,
		notifier: notifier,
		logger:   logger,
	}
}

// Store returns the session store for a visitor id, creating it on first
// touch. A freshly created store is in the loading state until Bootstrap
// runs.
func (m *Manager) Store(sid string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if store, ok := m.stores[sid]; ok {
		return store
	}
	store := NewStore(m.keyrings.Keyring(sid), m.accounts, m.bridge, m.backend, m.notifier, m.logger)
	m.stores[sid] = store
	return store
}
