package domain

import "time"

// Snapshot is an immutable view of every known pool grouped by venue and
// network. Once published a snapshot is never mutated; refreshes build a
// new one and swap it in, so scanners can read without locking.
type Snapshot struct {
	Version uint64
	Taken   time.Time
	Pools   map[VenueKey][]PoolRecord
}

// PoolCount returns the total number of pools across all venues.
func (s *Snapshot) PoolCount() int {
	n := 0
	for _, pools := range s.Pools {
		n += len(pools)
	}
	return n
}

// Lookup finds a pool by id within one venue/network group.
func (s *Snapshot) Lookup(key VenueKey, poolID string) (PoolRecord, bool) {
	for _, p := range s.Pools[key] {
		if p.PoolID() == poolID {
			return p, true
		}
	}
	return nil, false
}
