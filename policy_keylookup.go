package midx

import "fmt"

// KeyLookupPolicy is a non-invalidating, unique-only policy: secondaries
// store the primary key instead of a handle, and toHandle performs a
// primary lookup to materialize a Handle on demand. Storage is identical to
// StableNodePolicy (a Go map of pointers is already address-stable); the
// two differ only in what they hand to secondaries.
type KeyLookupPolicy[K comparable, P any] struct {
	tombstones bool
	primary    *StableNodePolicy[K, P]
}

// NewKeyLookupPolicy returns a KeyLookupPolicy. Declaring this policy over
// a multi primary is a programmer error and init panics.
func NewKeyLookupPolicy[K comparable, P any](tombstones bool) *KeyLookupPolicy[K, P] {
	return &KeyLookupPolicy[K, P]{tombstones: tombstones}
}

func (p *KeyLookupPolicy[K, P]) Traits() Traits {
	return Traits{UsesTombstones: p.tombstones}
}

func (p *KeyLookupPolicy[K, P]) init(unique bool, relocate func(old, new Handle[K, P])) {
	if !unique {
		panic(fmt.Errorf("midx: KeyLookupPolicy requires a unique primary"))
	}
	p.primary = NewStableNodePolicy[K, P](p.tombstones)
	p.primary.init(unique, relocate)
}

func (p *KeyLookupPolicy[K, P]) insertNew(key K, payload P) Handle[K, P] {
	return p.primary.insertNew(key, payload)
}
func (p *KeyLookupPolicy[K, P]) findDead(key K) (Handle[K, P], bool) { return p.primary.findDead(key) }
func (p *KeyLookupPolicy[K, P]) revive(h Handle[K, P], payload P)    { p.primary.revive(h, payload) }
func (p *KeyLookupPolicy[K, P]) find(key K) (Handle[K, P], bool)     { return p.primary.find(key) }
func (p *KeyLookupPolicy[K, P]) countLive(key K) int                 { return p.primary.countLive(key) }
func (p *KeyLookupPolicy[K, P]) liveRange(key K) []Handle[K, P]      { return p.primary.liveRange(key) }
func (p *KeyLookupPolicy[K, P]) iterate(yield func(Handle[K, P]) bool) {
	p.primary.iterate(yield)
}
func (p *KeyLookupPolicy[K, P]) iterateAll(yield func(Handle[K, P]) bool) {
	p.primary.iterateAll(yield)
}
func (p *KeyLookupPolicy[K, P]) eraseHandle(h Handle[K, P]) { p.primary.eraseHandle(h) }
func (p *KeyLookupPolicy[K, P]) markDead(h Handle[K, P])    { p.primary.markDead(h) }
func (p *KeyLookupPolicy[K, P]) removeNew(h Handle[K, P])   { p.primary.removeNew(h) }
func (p *KeyLookupPolicy[K, P]) primaryLen() int            { return p.primary.primaryLen() }
func (p *KeyLookupPolicy[K, P]) clear()                     { p.primary.clear() }
func (p *KeyLookupPolicy[K, P]) rebind(relocate func(old, new Handle[K, P])) {
	p.primary.rebind(relocate)
}

// toHandle resolves a secondary's stored primary key back to a live Handle
// via a fresh primary lookup.
func (p *KeyLookupPolicy[K, P]) toHandle(stored Handle[K, P]) (Handle[K, P], bool) {
	return p.primary.find(stored.key)
}

func (p *KeyLookupPolicy[K, P]) matchSecondary(stored, h Handle[K, P]) bool {
	return stored.key == h.Key()
}

// secondaryValue stores the primary key, not a handle.
func (p *KeyLookupPolicy[K, P]) secondaryValue(h Handle[K, P]) Handle[K, P] {
	return keyHandle[K, P](h.Key(), nil)
}
