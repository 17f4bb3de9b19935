package midx

// Compact discards every dead (tombstoned) primary record and, for the
// translation-array policy, renumbers ordinals densely. Rather than build a
// sibling engine sized to the live count and swap it in, this rebuilds in
// place: the primary policy and every secondary are cleared and every
// currently-live (key, payload) pair is re-inserted through the normal
// insertNew/addSecs path. The live counter is left untouched throughout,
// since the set of live records never changes — only their physical storage
// does. Cost is O(N).
//
// Compact is a no-op for policies that neither tombstone nor use a
// translation array, since there is nothing for it to reclaim.
func (e *Engine[K, P, Pol]) Compact() {
	traits := e.policy.Traits()
	if !traits.UsesTombstones && !traits.NeedsTranslationArray {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	type liveRec struct {
		key K
		val P
	}
	live := make([]liveRec, 0, int(e.live.load()))
	e.policy.iterate(func(h Handle[K, P]) bool {
		live = append(live, liveRec{key: h.Key(), val: h.Payload()})
		return true
	})

	e.policy.clear()
	for _, s := range e.secs {
		s.clear()
	}

	for _, r := range live {
		h := e.policy.insertNew(r.key, r.val)
		// Every one of these records was already live and fully indexed
		// before compaction began, so re-running addSecs over the same
		// keys cannot trip a uniqueness clash.
		if _, err := e.addSecs(h); err != nil {
			panic(err)
		}
	}
}
