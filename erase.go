package midx

// Erase removes the record identified by h: its secondary entries are
// dropped first, then the record is tombstoned or physically removed
// depending on the policy. Erasing an already-invalid or already-dead
// handle is a no-op that reports false.
func (e *Engine[K, P, Pol]) Erase(h Handle[K, P]) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !h.Valid() || h.IsDead() {
		return false
	}
	e.eraseLocked(h)
	return true
}

func (e *Engine[K, P, Pol]) eraseLocked(h Handle[K, P]) {
	e.dropSecs(h, -1)
	e.policy.eraseHandle(h)
	e.live.add(-1)
}

// EraseKey erases every live record at key: for a multi primary, every
// record in the equal range; for a unique primary, at most one. It returns
// the number of records erased. Each record is looked up afresh after the
// previous erase, since a physical erase may relocate the remaining ones.
func (e *Engine[K, P, Pol]) EraseKey(key K) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for {
		h, ok := e.policy.find(key)
		if !ok {
			return n
		}
		e.eraseLocked(h)
		n++
	}
}

// Find returns the first live record at key.
func (e *Engine[K, P, Pol]) Find(key K) (Handle[K, P], bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.policy.find(key)
}

// Contains reports whether a live record exists at key.
func (e *Engine[K, P, Pol]) Contains(key K) bool {
	_, ok := e.Find(key)
	return ok
}

// Count returns the number of live records at key (at most 1 for a unique
// primary).
func (e *Engine[K, P, Pol]) Count(key K) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.policy.countLive(key)
}

// EqualRange returns every live record at key, in bucket order.
func (e *Engine[K, P, Pol]) EqualRange(key K) []Handle[K, P] {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.policy.liveRange(key)
}

// ForEach walks every live record in primary order, stopping early if
// yield returns false.
func (e *Engine[K, P, Pol]) ForEach(yield func(Handle[K, P]) bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	e.policy.iterate(yield)
}

// ForEachAll walks every record, live or dead.
func (e *Engine[K, P, Pol]) ForEachAll(yield func(Handle[K, P]) bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	e.policy.iterateAll(yield)
}

// eraseViaSecondaryLocked erases the record identified by h reached through
// the secondary at secIdx: drop secIdx's own entry first, then the entries
// in every other secondary, then the primary record. Called by
// SecondaryView.Erase, which already holds e.mu while it erases every match
// in a secondary's equal range.
func (e *Engine[K, P, Pol]) eraseViaSecondaryLocked(secIdx int, h Handle[K, P]) {
	e.secs[secIdx].drop(Policy[K, P](e.policy), h)
	e.dropSecsExcept(h, secIdx)
	e.policy.eraseHandle(h)
	e.live.add(-1)
}
