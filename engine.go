package midx

import (
	"fmt"
	"sync"
)

// engineOptions collects the settings that Option functions apply to an
// Engine at construction time, in place of the teacher's runtime Options
// struct passed to Open (db.go).
type engineOptions struct {
	concurrent bool
	logf       func(format string, args ...any)
}

// Option configures an Engine. Use WithConcurrent and WithLogf.
type Option func(*engineOptions)

// WithConcurrent declares that the caller intends to use e under spec
// §5's restricted concurrent read/insert subset. It does not, by itself,
// change any locking inside Engine: every exported method still takes the
// same e.mu regardless of this option, because neither built-in policy's
// backing storage (a plain Go map or slice) nor either built-in Container
// (HashContainer, OrderedContainer) synchronizes internally, so there is
// nothing here for extra concurrency to be safe against. What the option
// does do is validate and configure the two preconditions spec §5 places
// on that subset: it rejects TranslationArrayPolicy outright (§5(b), a
// policy that subset never admits), and it forces the live counter to be
// atomic whenever the policy uses tombstones (§5(c), needed before a
// concurrent Size() is safe to observe). A caller who wants the subset's
// actual concurrent execution — Find/Contains/Size overlapping a live
// Emplace — must additionally supply a Policy and Container pairing whose
// own storage tolerates that; nothing in this package provides one today.
func WithConcurrent() Option {
	return func(o *engineOptions) { o.concurrent = true }
}

// WithLogf installs a verbose-tracing callback.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(o *engineOptions) { o.logf = logf }
}

// Engine is the multi-index core: it owns the primary storage through Pol,
// a declaration-ordered list of secondaries, and the live counter, and
// implements the drop-rebuild-rollback protocol that keeps them all
// coherent.
//
// Pol is one of the four concrete policy types in this package. Engine
// itself never branches on which one: every behavioral difference is
// expressed through the Policy interface.
type Engine[K comparable, P any, Pol Policy[K, P]] struct {
	policy Pol
	unique bool

	mu         sync.RWMutex
	concurrent bool

	secs []secondary[K, P]
	live liveCounter

	logf func(format string, args ...any)
}

// NewEngine constructs an Engine over policy. unique declares whether the
// primary index admits at most one record per key.
func NewEngine[K comparable, P any, Pol Policy[K, P]](policy Pol, unique bool, opts ...Option) *Engine[K, P, Pol] {
	var o engineOptions
	for _, fn := range opts {
		fn(&o)
	}
	if o.logf == nil {
		o.logf = func(string, ...any) {}
	}

	traits := policy.Traits()
	if o.concurrent && traits.NeedsTranslationArray {
		panic(fmt.Errorf("midx: WithConcurrent is not supported with TranslationArrayPolicy"))
	}

	e := &Engine[K, P, Pol]{
		policy:     policy,
		unique:     unique,
		concurrent: o.concurrent,
		logf:       o.logf,
	}
	if o.concurrent && traits.UsesTombstones {
		e.live.useAtomic = true
	}
	policy.init(unique, e.makeRelocate())
	return e
}

// makeRelocate builds the relocation callback bound to e's current
// secondaries. Used at construction and again by Move/Swap (copymove.go),
// which rebind a policy's relocate closure to its new owner after
// re-homing storage.
func (e *Engine[K, P, Pol]) makeRelocate() func(old, new Handle[K, P]) {
	return func(old, new Handle[K, P]) {
		e.logf("midx: relocate key=%v", old.Key())
		for _, s := range e.secs {
			s.patchRelocate(Policy[K, P](e.policy), old, new)
		}
	}
}

// Len returns the number of live records.
func (e *Engine[K, P, Pol]) Len() int {
	return int(e.live.load())
}

// PrimaryLen returns the physical record count, live and dead.
func (e *Engine[K, P, Pol]) PrimaryLen() int {
	return e.policy.primaryLen()
}

// Unique reports whether the primary index admits at most one record per
// key.
func (e *Engine[K, P, Pol]) Unique() bool {
	return e.unique
}

// Clear empties the primary and every secondary, preserving policy
// configuration.
func (e *Engine[K, P, Pol]) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.policy.clear()
	for _, s := range e.secs {
		s.clear()
	}
	e.live.set(0)
}

// Reserve forwards a sizing hint to every secondary container that accepts
// one.
func (e *Engine[K, P, Pol]) Reserve(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.secs {
		s.reserve(n)
	}
}

// Stats reports live/dead/secondary counts, for diagnostics.
type Stats struct {
	Live      int
	Dead      int
	Secondary map[string]int
}

func (e *Engine[K, P, Pol]) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st := Stats{
		Live:      int(e.live.load()),
		Secondary: make(map[string]int, len(e.secs)),
	}
	st.Dead = e.policy.primaryLen() - st.Live
	for _, s := range e.secs {
		st.Secondary[s.name()] = s.len()
	}
	return st
}

// AddIndex registers a secondary index against e and returns a typed view
// for querying it. It must be called before any record is inserted; Engine
// does not backfill a secondary added against a non-empty primary. This is
// a free function, not a method, because Go methods cannot introduce the
// extra type parameter SK.
func AddIndex[K comparable, P any, Pol Policy[K, P], SK comparable](
	e *Engine[K, P, Pol], spec IndexSpec[K, P, SK],
) *SecondaryView[K, P, Pol, SK] {
	if spec.Container == nil {
		panic(fmt.Errorf("midx: AddIndex %q: nil Container", spec.Name))
	}
	if spec.Unique != spec.Container.Unique() {
		panic(fmt.Errorf("midx: AddIndex %q: IndexSpec.Unique=%v but Container.Unique()=%v",
			spec.Name, spec.Unique, spec.Container.Unique()))
	}
	si := &secIndex[K, P, SK]{spec: spec}
	idx := len(e.secs)
	e.secs = append(e.secs, si)
	return &SecondaryView[K, P, Pol, SK]{e: e, si: si, idx: idx}
}
