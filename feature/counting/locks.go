package counting

import (
	"fmt"
	"sync"
)

// keyedMutex serializes work per string key while leaving distinct keys
// independent. Entries are kept for the life of the process; the key space
// is bounded by sessions × counted products, which stays small for a
// stocktake.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns it for deferred unlocking.
func (k *keyedMutex) Lock(key string) *sync.Mutex {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m
}

// itemKey is the exclusivity unit of the ledger engine.
func itemKey(sessionID, productID uint) string {
	return fmt.Sprintf("item:%d:%d", sessionID, productID)
}
