package week

import "sync"

// Marker remembers the last week that was rolled over. Claim records weekID
// and reports true only for the first caller to claim it.
type Marker interface {
	Claim(weekID string) (bool, error)
	Last() string
}

// MemoryMarker lives only as long as the process.
type MemoryMarker struct {
	mu   sync.Mutex
	last string
}

func (m *MemoryMarker) Claim(weekID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == weekID {
		return false, nil
	}
	m.last = weekID
	return true, nil
}

func (m *MemoryMarker) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// MarkerStore is the durable side of StoreMarker.
type MarkerStore interface {
	ClaimRollover(weekID string) (bool, error)
	RolloverMarker() string
}

// StoreMarker keeps the marker next to the score history so that every
// process sharing the database sees the same claim.
type StoreMarker struct {
	Store MarkerStore
}

func (m StoreMarker) Claim(weekID string) (bool, error) {
	return m.Store.ClaimRollover(weekID)
}

func (m StoreMarker) Last() string {
	return m.Store.RolloverMarker()
}
