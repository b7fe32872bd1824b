package identity

import "sync"

// Registry tracks revoked session tokens. It is an injected dependency of the
// authorization gate rather than a package-level set, so multi-process
// deployments can swap in a shared store and tests can use a fresh instance.
type Registry interface {
	// Revoke marks the raw token string as revoked. Idempotent.
	Revoke(token string)
	// IsRevoked reports whether the token has been revoked.
	IsRevoked(token string) bool
}

// MemoryRegistry is a process-local Registry. Entries are never pruned:
// revoked tokens expire on their own and the set is bounded by the token TTL
// in practice, but the memory is not reclaimed. Revocations are lost on
// restart, so a restarted process will accept tokens revoked before the
// restart until they expire.
type MemoryRegistry struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

// NewMemoryRegistry returns an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{revoked: make(map[string]struct{})}
}

func (r *MemoryRegistry) Revoke(token string) {
	if token == "" {
		return
	}
	r.mu.Lock()
	r.revoked[token] = struct{}{}
	r.mu.Unlock()
}

func (r *MemoryRegistry) IsRevoked(token string) bool {
	if token == "" {
		return false
	}
	r.mu.RLock()
	_, ok := r.revoked[token]
	r.mu.RUnlock()
	return ok
}

// Len returns the number of revoked entries currently held.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.revoked)
}
