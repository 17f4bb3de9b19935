package midx

// Emplace inserts (key, payload). For a unique primary with tombstones
// enabled, a dead record at key is revived in place before anything else is
// tried; a multi primary never revives — every Emplace against one is a
// fresh physical record, live or dead ones at the same key notwithstanding.
// Either way, once past that check, a fresh primary insert followed by
// addSecs across every registered secondary. It returns (handle, false) on
// any uniqueness violation — the primary's own (for a unique index with a
// live record already at key) or any secondary's — never an error or
// panic; uniqueness clashes are an expected, recoverable outcome.
//
// Concurrency note: Emplace always takes the engine's exclusive lock,
// with or without WithConcurrent. None of the four built-in policies'
// backing storage (a plain Go map, or a plain Go slice) is safe for
// concurrent mutation on its own, and neither built-in Container
// synchronizes internally, so there is currently no configuration in which
// Emplace can safely run alongside another goroutine's Emplace, Erase,
// Modify, or iteration. See WithConcurrent's doc comment for what the
// option does and does not change.
func (e *Engine[K, P, Pol]) Emplace(key K, payload P) (Handle[K, P], bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.emplaceLocked(key, payload)
}

// TryEmplace is an alias for Emplace, named for parity with the
// try-emplace naming convention common to ordered-map APIs.
func (e *Engine[K, P, Pol]) TryEmplace(key K, payload P) (Handle[K, P], bool) {
	return e.Emplace(key, payload)
}

// Insert is an alias for Emplace.
func (e *Engine[K, P, Pol]) Insert(key K, payload P) (Handle[K, P], bool) {
	return e.Emplace(key, payload)
}

// InsertOrAssign emplaces key/payload, or — for a unique primary with a
// live record already at key — replaces its payload in place via the
// drop-rebuild-rollback path.
func (e *Engine[K, P, Pol]) InsertOrAssign(key K, payload P) (Handle[K, P], bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unique {
		if h, ok := e.policy.find(key); ok {
			return h, e.replaceLocked(h, payload)
		}
	}
	return e.emplaceLocked(key, payload)
}

func (e *Engine[K, P, Pol]) emplaceLocked(key K, payload P) (Handle[K, P], bool) {
	if e.unique {
		if existing, ok := e.policy.find(key); ok {
			return existing, false
		}
		if e.policy.Traits().UsesTombstones {
			if h, found, ok := e.reviveDead(key, payload); found {
				return h, ok
			}
		}
	}

	h := e.policy.insertNew(key, payload)
	if i, err := e.addSecs(h); err != nil {
		e.logf("midx: emplace key=%v rejected by secondary %d: %v", key, i, err)
		e.dropSecs(h, i)
		e.policy.removeNew(h)
		return Handle[K, P]{}, false
	}
	e.live.add(1)
	return h, true
}

// reviveDead revives the first dead match in bucket order. Only called for
// a unique primary — see emplaceLocked's gate — since the original never
// revives against a multi primary at all (MultiIndex.h's revival block sits
// inside `if constexpr (c_primary_is_unique)`, compiled out entirely for a
// multi primary, which always takes the plain insert path). found reports
// whether a dead record existed at all (in which case the caller must not
// fall through to a fresh insert, win or lose); ok reports whether revival
// itself succeeded.
func (e *Engine[K, P, Pol]) reviveDead(key K, payload P) (h Handle[K, P], found, ok bool) {
	dh, hasDead := e.policy.findDead(key)
	if !hasDead {
		return Handle[K, P]{}, false, false
	}
	return dh, true, e.reviveHandleLocked(dh, payload)
}

// reviveHandleLocked clears h's tombstone flag, installs payload, and
// re-adds h to every secondary; on a uniqueness clash it re-marks h dead
// and reports false, leaving the record exactly as tombstoned as it was
// beforehand. Shared by reviveDead (Emplace's revival path) and
// EditProxy.Commit's dead-record branch, which already holds a handle to
// the specific dead record it wants revived rather than scanning for one.
func (e *Engine[K, P, Pol]) reviveHandleLocked(h Handle[K, P], payload P) bool {
	e.policy.revive(h, payload)
	e.live.add(1)
	if i, err := e.addSecs(h); err != nil {
		e.logf("midx: revive key=%v rejected by secondary %d: %v", h.Key(), i, err)
		e.policy.markDead(h)
		e.live.add(-1)
		e.dropSecs(h, i)
		return false
	}
	return true
}

// addSecs inserts h into every secondary in declaration order. On the
// first uniqueness clash it returns the failing index and an error; the
// caller is responsible for rolling back secondaries [0, i) via dropSecs.
func (e *Engine[K, P, Pol]) addSecs(h Handle[K, P]) (int, error) {
	for i, s := range e.secs {
		if err := s.add(Policy[K, P](e.policy), h); err != nil {
			return i, err
		}
	}
	return -1, nil
}

// dropSecs removes h's entry from every secondary with index < upto
// (upto < 0 means every secondary).
func (e *Engine[K, P, Pol]) dropSecs(h Handle[K, P], upto int) {
	n := len(e.secs)
	if upto >= 0 {
		n = upto
	}
	for i := 0; i < n; i++ {
		e.secs[i].drop(Policy[K, P](e.policy), h)
	}
}

// dropSecsExcept removes h's entry from every secondary other than the one
// at index ignore, used when erasing via a secondary view: the view's own
// entry is dropped separately by eraseViaSecondaryLocked.
func (e *Engine[K, P, Pol]) dropSecsExcept(h Handle[K, P], ignore int) {
	for i, s := range e.secs {
		if i == ignore {
			continue
		}
		s.drop(Policy[K, P](e.policy), h)
	}
}
