// Package clob fetches and simulates against on-chain central-limit
// order-book depth: pool registration, Level-2 retrieval via dev-inspect,
// and market-buy/sell simulation for quoting.
package clob

import (
	"sync"

	"github.com/intentclob/solver/protocol"
)

func pairKey(a, b protocol.AssetType) string {
	if a < b {
		return string(a) + "\x00" + string(b)
	}
	return string(b) + "\x00" + string(a)
}

// PoolRegistry holds the solver's known pools, keyed by unordered asset
// pair. Populated once at startup, then read by many handlers. Lookups
// take the read lock and Register the write lock, so Register stays safe
// to call at any time.
type PoolRegistry struct {
	mu     sync.RWMutex
	byID   map[protocol.PoolId]protocol.Pool
	byPair map[string]protocol.PoolId
}

func NewPoolRegistry() *PoolRegistry {
	return &PoolRegistry{
		byID:   make(map[protocol.PoolId]protocol.Pool),
		byPair: make(map[string]protocol.PoolId),
	}
}

// Register adds or replaces a pool. Returns an error if another pool
// already claims the same unordered asset pair, preserving the registry's
// one-pool-per-pair invariant.
func (r *PoolRegistry) Register(p protocol.Pool) error {
	key := pairKey(p.BaseType, p.QuoteType)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byPair[key]; ok && existing != p.PoolId {
		return protocol.NewError(protocol.KindInvalidArgument, "pool pair already registered: "+string(p.BaseType)+"/"+string(p.QuoteType))
	}
	r.byID[p.PoolId] = p
	r.byPair[key] = p.PoolId
	return nil
}

// Find returns the unique pool whose {base_type, quote_type} equals the
// unordered pair {a, b}. No auto-routing across multiple pools.
func (r *PoolRegistry) Find(a, b protocol.AssetType) (protocol.Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPair[pairKey(a, b)]
	if !ok {
		return protocol.Pool{}, protocol.NewError(protocol.KindNoPool, "no pool for pair "+string(a)+"/"+string(b))
	}
	return r.byID[id], nil
}

func (r *PoolRegistry) Get(id protocol.PoolId) (protocol.Pool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	return p, ok
}

func (r *PoolRegistry) List() []protocol.Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]protocol.Pool, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out
}
