package control

import "sync"

// LockTable serializes zone commands and bulk operations.
//
// Two levels:
//   - per-farm RWMutex: single-zone commands hold the read side, bulk and
//     emergency operations hold the write side, so a bulk sweep never
//     interleaves with per-zone commands on the same farm.
//   - per-zone Mutex: two commands for the same zone serialize; commands
//     for different zones of one farm run concurrently.
//
// Locks are held across the hardware latency await and the store
// mutation, so the final state always reflects the last command to
// complete.
type LockTable struct {
	mu    sync.Mutex
	farms map[string]*sync.RWMutex
	zones map[string]*sync.Mutex
}

// NewLockTable creates an empty lock table.
func NewLockTable() *LockTable {
	return &LockTable{
		farms: make(map[string]*sync.RWMutex),
		zones: make(map[string]*sync.Mutex),
	}
}

// farm returns the RWMutex for a farm, creating it on first use.
func (t *LockTable) farm(farmID string) *sync.RWMutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.farms[farmID]
	if !ok {
		l = &sync.RWMutex{}
		t.farms[farmID] = l
	}
	return l
}

// zone returns the Mutex for a zone, creating it on first use.
func (t *LockTable) zone(zoneID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.zones[zoneID]
	if !ok {
		l = &sync.Mutex{}
		t.zones[zoneID] = l
	}
	return l
}
