package midx

// CopyInto deep-copies e's contents into dst: dst (already constructed via
// NewEngine with the same policy type and the same secondary indices
// registered via AddIndex against empty containers) is reset and
// repopulated with every record from e (dead records stay tombstoned in dst
// and get no secondary entries), rebuilt element-by-element so
// that ownership back-pointers and translation ordinals are dst's own
// rather than copies of e's. A non-invalidating primary could in principle
// take a direct-map-copy fast path instead, but this always takes the
// element-wise path (observationally identical, just not the
// constant-factor win a direct map copy would give) since Go's type system
// has no clean way to assert "this Container happens to support a deep
// Clone" across arbitrary plug-in implementations.
func (e *Engine[K, P, Pol]) CopyInto(dst *Engine[K, P, Pol]) {
	if e == dst {
		return
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	dst.mu.Lock()
	defer dst.mu.Unlock()

	dst.policy.clear()
	for _, s := range dst.secs {
		s.clear()
	}
	dst.live.set(0)

	e.policy.iterateAll(func(h Handle[K, P]) bool {
		nh := dst.policy.insertNew(h.Key(), h.rec.payload)
		if h.rec.dead {
			dst.policy.markDead(nh)
			return true
		}
		if _, err := dst.addSecs(nh); err != nil {
			panic(err)
		}
		dst.live.add(1)
		return true
	})
}

// MoveInto steals e's primary storage and live counter outright, rebinding
// the moved policy's relocate callback to dst, and leaves e logically
// empty. Both engines must have been constructed with the same K, P, and
// Pol and the same secondary indices; dst's own pre-move contents, if any,
// are discarded. dst keeps its own secondary indices (the SecondaryViews
// AddIndex returned for dst stay bound to them), which are rebuilt from the
// moved live records.
//
// This is implemented as an exchange (like Swap) followed by clearing the
// swapped-in storage on e's side, rather than nulling e.policy outright: a
// nil Pol would turn every subsequent call on the moved-from engine into a
// nil-pointer panic instead of leaving it logically empty but still usable.
func (e *Engine[K, P, Pol]) MoveInto(dst *Engine[K, P, Pol]) {
	if e == dst {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	dst.mu.Lock()
	defer dst.mu.Unlock()

	dst.policy, e.policy = e.policy, dst.policy
	dst.unique, e.unique = e.unique, dst.unique
	dst.concurrent = e.concurrent

	eLive := e.live.load()
	dst.live.useAtomic, e.live.useAtomic = e.live.useAtomic, dst.live.useAtomic
	dst.live.set(eLive)

	dst.policy.rebind(dst.makeRelocate())
	e.policy.rebind(e.makeRelocate())

	for _, s := range dst.secs {
		s.clear()
	}
	dst.policy.iterate(func(h Handle[K, P]) bool {
		if _, err := dst.addSecs(h); err != nil {
			panic(err)
		}
		return true
	})

	e.policy.clear()
	for _, s := range e.secs {
		s.clear()
	}
	e.live.set(0)
}

// Swap exchanges storage, policy state, and the live counter between e and
// other, then rebinds each policy's relocate callback to its new owner.
// Each engine keeps its own secondary indices (the SecondaryViews AddIndex
// returned for it stay bound to them), which are rebuilt from the live
// records it now holds; both engines must have the same secondary indices.
func (e *Engine[K, P, Pol]) Swap(other *Engine[K, P, Pol]) {
	if e == other {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	other.mu.Lock()
	defer other.mu.Unlock()

	e.policy, other.policy = other.policy, e.policy
	e.unique, other.unique = other.unique, e.unique

	eLive, otherLive := e.live.load(), other.live.load()
	eAtomic, otherAtomic := e.live.useAtomic, other.live.useAtomic
	e.live.useAtomic, other.live.useAtomic = otherAtomic, eAtomic
	e.live.set(otherLive)
	other.live.set(eLive)

	e.policy.rebind(e.makeRelocate())
	other.policy.rebind(other.makeRelocate())

	for _, eng := range []*Engine[K, P, Pol]{e, other} {
		for _, s := range eng.secs {
			s.clear()
		}
		eng.policy.iterate(func(h Handle[K, P]) bool {
			if _, err := eng.addSecs(h); err != nil {
				panic(err)
			}
			return true
		})
	}
}
