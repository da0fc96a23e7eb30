package store

import "sync"

// ActiveSheet holds the in-process copy of the active-sheet pointer. The
// persisted pointer lives in the backend; this holder keeps the hot path off
// the network and is safe for concurrent dialog handlers.
type ActiveSheet struct {
	mu   sync.RWMutex
	name string
}

// NewActiveSheet seeds the holder, typically from Store.ActiveSheet at startup.
func NewActiveSheet(name string) *ActiveSheet {
	return &ActiveSheet{name: name}
}

func (a *ActiveSheet) Get() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.name
}

func (a *ActiveSheet) Set(name string) {
	a.mu.Lock()
	a.name = name
	a.mu.Unlock()
}
