package cart

import "sync"

// Manager holds one Store per browsing session. Carts live in memory only
// and die with the process; nothing is persisted.
type Manager struct {
	mu    sync.Mutex
	carts map[string]*Store
}

func NewManager() *Manager {
	return &Manager{carts: make(map[string]*Store)}
}

// Get returns the cart for the session key, creating it on first use.
func (m *Manager) Get(sessionKey string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, ok := m.carts[sessionKey]
	if !ok {
		store = NewStore()
		m.carts[sessionKey] = store
	}
	return store
}

// Drop discards the session's cart entirely, e.g. after order submission.
func (m *Manager) Drop(sessionKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionKey)
}
