package session

import (
	"sync"
)

// Store is the session-scoped key/value contract the orchestrator works
// against. Every method is keyed by the browser session id; no state is
// shared across sessions.
//
// ConsumeDestination and ConsumeState clear the value they return, so a
// stored destination or state token is observed at most once.
type Store interface {
	Tokens(sessionID string) (*TokenSet, error)
	SetTokens(sessionID string, tokens TokenSet) error
	ClearTokens(sessionID string) error

	SetDestination(sessionID, destination string) error
	ConsumeDestination(sessionID string) (string, error)

	SetState(sessionID, state string) error
	ConsumeState(sessionID string) (string, error)
}

type memoryEntry struct {
	tokens      *TokenSet
	destination string
	state       string
}

// MemoryStore is an in-process [Store] guarded by a mutex. Suitable for
// tests and single-process deployments; reads and writes of a session
// entry are atomic with respect to each other.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memoryEntry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memoryEntry)}
}

func (m *MemoryStore) entry(sessionID string) *memoryEntry {
	e, ok := m.sessions[sessionID]
	if !ok {
		e = &memoryEntry{}
		m.sessions[sessionID] = e
	}
	return e
}

func (m *MemoryStore) Tokens(sessionID string) (*TokenSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[sessionID]
	if !ok || e.tokens == nil {
		return nil, nil
	}
	tokens := *e.tokens
	return &tokens, nil
}

func (m *MemoryStore) SetTokens(sessionID string, tokens TokenSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry(sessionID).tokens = &tokens
	return nil
}

func (m *MemoryStore) ClearTokens(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[sessionID]; ok {
		e.tokens = nil
	}
	return nil
}

func (m *MemoryStore) SetDestination(sessionID, destination string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry(sessionID).destination = destination
	return nil
}

func (m *MemoryStore) ConsumeDestination(sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[sessionID]
	if !ok {
		return "", nil
	}
	destination := e.destination
	e.destination = ""
	return destination, nil
}

func (m *MemoryStore) SetState(sessionID, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry(sessionID).state = state
	return nil
}

func (m *MemoryStore) ConsumeState(sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[sessionID]
	if !ok {
		return "", nil
	}
	state := e.state
	e.state = ""
	return state, nil
}
