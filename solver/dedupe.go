package solver

import (
	"sync"

	"github.com/intentclob/solver/protocol"
)

// dedupeSet tracks IntentIds currently under analysis or execution. A plain
// mutex-guarded map is the right tool here: this is in-process,
// single-instance coordination with no persistence or cross-process
// concern, so no third-party set/cache library in the dependency pack
// applies (they solve distributed or TTL-based problems this isn't).
type dedupeSet struct {
	mu   sync.Mutex
	seen map[protocol.IntentId]struct{}
}

func newDedupeSet() *dedupeSet {
	return &dedupeSet{seen: make(map[protocol.IntentId]struct{})}
}

// tryAcquire inserts id if absent, returning true on success. release must
// be called exactly once for every successful acquire, on every exit path
// (success, skip, error), to guarantee the set drains at steady state.
func (d *dedupeSet) tryAcquire(id protocol.IntentId) (release func(), ok bool) {
	d.mu.Lock()
	if _, exists := d.seen[id]; exists {
		d.mu.Unlock()
		return nil, false
	}
	d.seen[id] = struct{}{}
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.seen, id)
			d.mu.Unlock()
		})
	}, true
}

func (d *dedupeSet) size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
