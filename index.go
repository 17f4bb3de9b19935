package midx

import "fmt"

// IndexSpec describes one secondary index: how to project a (key, payload)
// pair into a secondary key, whether that projection must be unique, and
// which Container family backs it. AddIndex turns an IndexSpec into a live
// secondary wired into an Engine — Go methods cannot take extra type
// parameters, so registering a secondary of a new key type SK has to be a
// free function rather than an Engine method.
type IndexSpec[K comparable, P any, SK comparable] struct {
	Name    string
	Unique  bool
	Project func(key K, payload P) SK
	// Container must report Unique() == Unique; AddIndex panics otherwise.
	// The field is declarative documentation checked at registration time
	// rather than derived from Container, since the point of stating it
	// alongside Project is to let a reader see the index's uniqueness
	// contract without also reading which Container constructor is passed.
	Container Container[SK, Handle[K, P]]
}

// secondary is the type-erased view of a secIndex that Engine keeps in a
// single homogeneous slice, so AddSecs/DropSecs/Clear/Reserve can walk every
// registered secondary regardless of its key type.
type secondary[K comparable, P any] interface {
	name() string
	add(pol Policy[K, P], h Handle[K, P]) error
	drop(pol Policy[K, P], h Handle[K, P])
	patchRelocate(pol Policy[K, P], old, new Handle[K, P])
	clear()
	reserve(n int)
	len() int
	forEach(pol Policy[K, P], yield func(Handle[K, P]) bool)
}

// secIndex binds one IndexSpec to its Container, carrying the secondary key
// type SK privately so Engine's bookkeeping never has to mention it.
type secIndex[K comparable, P any, SK comparable] struct {
	spec IndexSpec[K, P, SK]
}

func (s *secIndex[K, P, SK]) name() string { return s.spec.Name }

func (s *secIndex[K, P, SK]) add(pol Policy[K, P], h Handle[K, P]) error {
	k := s.spec.Project(h.Key(), h.Payload())
	if !s.spec.Container.Insert(k, pol.secondaryValue(h)) {
		return fmt.Errorf("midx: duplicate key in secondary index %q", s.spec.Name)
	}
	return nil
}

func (s *secIndex[K, P, SK]) drop(pol Policy[K, P], h Handle[K, P]) {
	k := s.spec.Project(h.Key(), h.Payload())
	s.spec.Container.EraseMatching(k, func(stored Handle[K, P]) bool {
		return pol.matchSecondary(stored, h)
	})
}

// patchRelocate replaces the stored value referring to old with one
// referring to new, without touching any other entry in the same bucket.
// Only UpdatePointerPolicy's relocations reach this.
func (s *secIndex[K, P, SK]) patchRelocate(pol Policy[K, P], old, new Handle[K, P]) {
	k := s.spec.Project(new.Key(), new.Payload())
	if s.spec.Container.EraseMatching(k, func(stored Handle[K, P]) bool {
		return pol.matchSecondary(stored, old)
	}) {
		s.spec.Container.Insert(k, pol.secondaryValue(new))
	}
}

func (s *secIndex[K, P, SK]) clear() { s.spec.Container.Clear() }

func (s *secIndex[K, P, SK]) reserve(n int) {
	if r, ok := s.spec.Container.(Reserver); ok {
		r.Reserve(n)
	}
}

func (s *secIndex[K, P, SK]) len() int { return s.spec.Container.Len() }

func (s *secIndex[K, P, SK]) forEach(pol Policy[K, P], yield func(Handle[K, P]) bool) {
	s.spec.Container.ForEach(func(_ SK, stored Handle[K, P]) bool {
		h, ok := pol.toHandle(stored)
		if !ok {
			return true
		}
		return yield(h)
	})
}

// Find looks up the first live record whose projection equals key.
func (s *secIndex[K, P, SK]) Find(pol Policy[K, P], key SK) (Handle[K, P], bool) {
	stored, ok := s.spec.Container.Find(key)
	if !ok {
		return Handle[K, P]{}, false
	}
	return pol.toHandle(stored)
}

// EqualRange returns every live record whose projection equals key.
func (s *secIndex[K, P, SK]) EqualRange(pol Policy[K, P], key SK) []Handle[K, P] {
	stored := s.spec.Container.EqualRange(key)
	out := make([]Handle[K, P], 0, len(stored))
	for _, sv := range stored {
		if h, ok := pol.toHandle(sv); ok {
			out = append(out, h)
		}
	}
	return out
}

// Count returns the number of entries whose projection equals key. Every
// erase path drops a record's secondary entries, so these are all live.
func (s *secIndex[K, P, SK]) Count(key SK) int {
	return s.spec.Container.Count(key)
}

// ForEachInRange walks every live record whose projection lies within
// [lo, hi] (inclusive), in the container's key order. It panics if the
// registered Container isn't a RangeContainer — declaring this call
// against, say, a HashContainer is a programmer error, the same class as
// declaring KeyLookupPolicy over a non-unique primary (spec §7).
func (s *secIndex[K, P, SK]) ForEachInRange(pol Policy[K, P], lo, hi SK, yield func(Handle[K, P]) bool) {
	rc, ok := s.spec.Container.(RangeContainer[SK, Handle[K, P]])
	if !ok {
		panic(fmt.Errorf("midx: ForEachInRange: index %q is not backed by a RangeContainer", s.spec.Name))
	}
	rc.Range(lo, hi, func(_ SK, stored Handle[K, P]) bool {
		h, ok := pol.toHandle(stored)
		if !ok {
			return true
		}
		return yield(h)
	})
}
