package midx

import "slices"

// StableNodePolicy is a non-invalidating policy: every record lives at a
// fixed heap address for its entire lifetime (a Go map of pointers never
// moves the pointed-to value), so secondaries can simply store the Handle
// itself and never need patching.
type StableNodePolicy[K comparable, P any] struct {
	tombstones bool

	unique bool
	byKey  map[K][]*record[K, P]
	all    []*record[K, P]
}

// NewStableNodePolicy returns a StableNodePolicy. When tombstones is true,
// Erase marks records dead instead of physically removing them (spec §3).
func NewStableNodePolicy[K comparable, P any](tombstones bool) *StableNodePolicy[K, P] {
	return &StableNodePolicy[K, P]{tombstones: tombstones}
}

func (p *StableNodePolicy[K, P]) Traits() Traits {
	return Traits{StoresHandle: true, UsesTombstones: p.tombstones}
}

func (p *StableNodePolicy[K, P]) init(unique bool, _ func(old, new Handle[K, P])) {
	p.unique = unique
	p.byKey = make(map[K][]*record[K, P])
}

// rebind is a no-op: this policy never relocates, so it never invokes a
// relocate callback in the first place.
func (p *StableNodePolicy[K, P]) rebind(func(old, new Handle[K, P])) {}

func (p *StableNodePolicy[K, P]) insertNew(key K, payload P) Handle[K, P] {
	rec := &record[K, P]{key: key, payload: payload, slot: -1, ord: -1}
	p.byKey[key] = append(p.byKey[key], rec)
	p.all = append(p.all, rec)
	return pointerHandle[K, P](rec)
}

func (p *StableNodePolicy[K, P]) findDead(key K) (Handle[K, P], bool) {
	for _, rec := range p.byKey[key] {
		if rec.dead {
			return pointerHandle[K, P](rec), true
		}
	}
	return Handle[K, P]{}, false
}

func (p *StableNodePolicy[K, P]) revive(h Handle[K, P], payload P) {
	h.rec.dead = false
	h.rec.payload = payload
}

func (p *StableNodePolicy[K, P]) find(key K) (Handle[K, P], bool) {
	for _, rec := range p.byKey[key] {
		if !rec.dead {
			return pointerHandle[K, P](rec), true
		}
	}
	return Handle[K, P]{}, false
}

func (p *StableNodePolicy[K, P]) countLive(key K) int {
	n := 0
	for _, rec := range p.byKey[key] {
		if !rec.dead {
			n++
		}
	}
	return n
}

func (p *StableNodePolicy[K, P]) liveRange(key K) []Handle[K, P] {
	var out []Handle[K, P]
	for _, rec := range p.byKey[key] {
		if !rec.dead {
			out = append(out, pointerHandle[K, P](rec))
		}
	}
	return out
}

func (p *StableNodePolicy[K, P]) iterate(yield func(Handle[K, P]) bool) {
	for _, rec := range p.all {
		if rec.dead {
			continue
		}
		if !yield(pointerHandle[K, P](rec)) {
			return
		}
	}
}

func (p *StableNodePolicy[K, P]) iterateAll(yield func(Handle[K, P]) bool) {
	for _, rec := range p.all {
		if !yield(pointerHandle[K, P](rec)) {
			return
		}
	}
}

func (p *StableNodePolicy[K, P]) eraseHandle(h Handle[K, P]) {
	if p.tombstones {
		h.rec.dead = true
		return
	}
	p.removePhysically(h.rec)
}

func (p *StableNodePolicy[K, P]) removePhysically(rec *record[K, P]) {
	bucket := p.byKey[rec.key]
	for i, r := range bucket {
		if r == rec {
			bucket = slices.Delete(bucket, i, i+1)
			break
		}
	}
	if len(bucket) == 0 {
		delete(p.byKey, rec.key)
	} else {
		p.byKey[rec.key] = bucket
	}
	for i, r := range p.all {
		if r == rec {
			p.all = slices.Delete(p.all, i, i+1)
			break
		}
	}
}

func (p *StableNodePolicy[K, P]) markDead(h Handle[K, P]) {
	h.rec.dead = true
}

func (p *StableNodePolicy[K, P]) removeNew(h Handle[K, P]) {
	p.removePhysically(h.rec)
}

func (p *StableNodePolicy[K, P]) primaryLen() int {
	return len(p.all)
}

func (p *StableNodePolicy[K, P]) clear() {
	p.byKey = make(map[K][]*record[K, P])
	p.all = nil
}

func (p *StableNodePolicy[K, P]) toHandle(stored Handle[K, P]) (Handle[K, P], bool) {
	return stored, stored.Valid()
}

func (p *StableNodePolicy[K, P]) matchSecondary(stored, h Handle[K, P]) bool {
	return stored.sameRecord(h)
}

func (p *StableNodePolicy[K, P]) secondaryValue(h Handle[K, P]) Handle[K, P] {
	return h
}
