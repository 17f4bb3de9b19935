package midx

// SecondaryView is the per-index read/modify facade spec §4.8 describes:
// a typed handle onto one registered secondary, returned by AddIndex. It
// never exposes the secondary's Container directly — every method resolves
// through the owning Engine's policy so stored handles/ordinals/keys are
// always materialized into a live Handle before reaching the caller.
type SecondaryView[K comparable, P any, Pol Policy[K, P], SK comparable] struct {
	e   *Engine[K, P, Pol]
	si  *secIndex[K, P, SK]
	idx int
}

// Name returns the index's declared name.
func (v *SecondaryView[K, P, Pol, SK]) Name() string {
	return v.si.name()
}

// Find returns the first live record projecting to key.
func (v *SecondaryView[K, P, Pol, SK]) Find(key SK) (Handle[K, P], bool) {
	v.e.mu.RLock()
	defer v.e.mu.RUnlock()
	return v.si.Find(Policy[K, P](v.e.policy), key)
}

// Contains reports whether a live record projects to key.
func (v *SecondaryView[K, P, Pol, SK]) Contains(key SK) bool {
	_, ok := v.Find(key)
	return ok
}

// EqualRange returns every live record projecting to key.
func (v *SecondaryView[K, P, Pol, SK]) EqualRange(key SK) []Handle[K, P] {
	v.e.mu.RLock()
	defer v.e.mu.RUnlock()
	return v.si.EqualRange(Policy[K, P](v.e.policy), key)
}

// Count returns the number of entries projecting to key. Every erase path
// drops its secondary entries immediately (spec §6: "never contains dead
// references because every erase drops them"), so this is always exactly
// the number of live records at key.
func (v *SecondaryView[K, P, Pol, SK]) Count(key SK) int {
	v.e.mu.RLock()
	defer v.e.mu.RUnlock()
	return v.si.Count(key)
}

// Size returns the number of entries stored in this secondary.
func (v *SecondaryView[K, P, Pol, SK]) Size() int {
	v.e.mu.RLock()
	defer v.e.mu.RUnlock()
	return v.si.len()
}

// Empty reports whether the secondary holds no entries.
func (v *SecondaryView[K, P, Pol, SK]) Empty() bool {
	return v.Size() == 0
}

// ForEach walks every live record reachable through this secondary, in the
// container's own order, stopping early if yield returns false (spec
// §4.8's handle-materialise iterator adapter).
func (v *SecondaryView[K, P, Pol, SK]) ForEach(yield func(Handle[K, P]) bool) {
	v.e.mu.RLock()
	defer v.e.mu.RUnlock()
	v.si.forEach(Policy[K, P](v.e.policy), yield)
}

// ForEachInRange walks every live record whose projection lies within
// [lo, hi] (inclusive), in the backing container's key order, stopping
// early if yield returns false. It panics unless the index was registered
// with an ordered Container (OrderedContainer, not HashContainer) — see
// RangeContainer.
func (v *SecondaryView[K, P, Pol, SK]) ForEachInRange(lo, hi SK, yield func(Handle[K, P]) bool) {
	v.e.mu.RLock()
	defer v.e.mu.RUnlock()
	v.si.ForEachInRange(Policy[K, P](v.e.policy), lo, hi, yield)
}

// Erase removes every live record projecting to key (spec §4.6, "by
// secondary key: iterate through the equal range, erasing each"). It
// returns the number of records erased. Each match is looked up afresh
// after the previous erase, since a physical erase may relocate the
// remaining records and leave any handle collected beforehand stale.
func (v *SecondaryView[K, P, Pol, SK]) Erase(key SK) int {
	v.e.mu.Lock()
	defer v.e.mu.Unlock()
	n := 0
	for {
		h, ok := v.si.Find(Policy[K, P](v.e.policy), key)
		if !ok {
			return n
		}
		v.e.eraseViaSecondaryLocked(v.idx, h)
		n++
	}
}

// Modify applies fn to the payload of the live record projecting to key
// (the first one, for a non-unique secondary), via the engine's
// drop-rebuild-rollback protocol. It returns false if no live record
// projects to key, or if the mutation itself is rejected.
func (v *SecondaryView[K, P, Pol, SK]) Modify(key SK, fn func(p *P)) bool {
	h, ok := v.Find(key)
	if !ok {
		return false
	}
	return v.e.Modify(h, fn)
}

// Replace substitutes the payload of the live record projecting to key.
func (v *SecondaryView[K, P, Pol, SK]) Replace(key SK, val P) bool {
	h, ok := v.Find(key)
	if !ok {
		return false
	}
	return v.e.Replace(h, val)
}
