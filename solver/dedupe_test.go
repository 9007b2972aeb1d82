package solver

import (
	"sync"
	"testing"

	"github.com/intentclob/solver/protocol"
)

// E1: a second acquire for an id already in flight is rejected.
func TestDedupeSet_SingleEntry(t *testing.T) {
	d := newDedupeSet()
	id := protocol.IntentId{0x01}

	release, ok := d.tryAcquire(id)
	if !ok {
		t.Fatalf("first acquire should succeed")
	}
	if _, ok := d.tryAcquire(id); ok {
		t.Fatalf("second concurrent acquire should fail")
	}
	release()
	if _, ok := d.tryAcquire(id); !ok {
		t.Fatalf("acquire after release should succeed")
	}
}

// E2: at steady state, once every in-flight id releases, the set is empty.
func TestDedupeSet_DrainsToEmpty(t *testing.T) {
	d := newDedupeSet()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		id := protocol.IntentId{byte(i)}
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, ok := d.tryAcquire(id)
			if !ok {
				return
			}
			release()
		}()
	}
	wg.Wait()
	if got := d.size(); got != 0 {
		t.Fatalf("size=%d want 0", got)
	}
}

func TestDedupeSet_ReleaseIsIdempotent(t *testing.T) {
	d := newDedupeSet()
	id := protocol.IntentId{0x02}
	release, ok := d.tryAcquire(id)
	if !ok {
		t.Fatalf("acquire should succeed")
	}
	release()
	release()
	if got := d.size(); got != 0 {
		t.Fatalf("size=%d want 0", got)
	}
}
