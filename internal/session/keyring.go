package session

import (
	"context"
	"sync"
)

// Keyring persists the two wire-visible session entries for one visitor: the
// serialized user record and the bearer token. The pair is written and
// cleared as one transaction so a half-written session can never be read
// back. No component outside the session store writes through a keyring.
type Keyring interface {
	// Load returns the persisted pair. Absent entries come back as empty
	// strings with a nil error.
	Load(ctx context.Context) (userJSON, token string, err error)
	// Save writes both entries atomically.
	Save(ctx context.Context, userJSON, token string) error
	// Clear removes both entries atomically.
	Clear(ctx context.Context) error
}

// KeyringProvider hands out the keyring for a visitor id.
type KeyringProvider interface {
	Keyring(sid string) Keyring
}

// MemoryKeyrings is an in-memory keyring provider for tests and for running
// without Redis in development.
type MemoryKeyrings struct {
	mu      sync.RWMutex
	entries map[string]memoryPair
}

type memoryPair struct {
	userJSON string
	token    string
}

// NewMemoryKeyrings builds an empty in-memory provider.
func NewMemoryKeyrings() *MemoryKeyrings {
	return &MemoryKeyrings{entries: make(map[string]memoryPair)}
}

// Keyring returns the keyring scoped to one visitor id.
func (m *MemoryKeyrings) Keyring(sid string) Keyring {
	return &memoryKeyring{provider: m, sid: sid}
}

type memoryKeyring struct {
	provider *MemoryKeyrings
	sid      string
}

func (k *memoryKeyring) Load(_ context.Context) (string, string, error) {
	k.provider.mu.RLock()
	defer k.provider.mu.RUnlock()
	pair := k.provider.entries[k.sid]
	return pair.userJSON, pair.token, nil
}

func (k *memoryKeyring) Save(_ context.Context, userJSON, token string) error {
	k.provider.mu.Lock()
	defer k.provider.mu.Unlock()
	k.provider.entries[k.sid] = memoryPair{userJSON: userJSON, token: token}
	return nil
}

func (k *memoryKeyring) Clear(_ context.Context) error {
	k.provider.mu.Lock()
	defer k.provider.mu.Unlock()
	delete(k.provider.entries, k.sid)
	return nil
}
