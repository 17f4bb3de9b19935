package midx

import (
	"fmt"
	"reflect"
)

// recoverPanic runs fn, converting any panic into a returned error: Modify's
// mutator is caller-supplied code that may panic partway through, and the
// engine needs to notice that without the caller having to wrap every call
// in its own recover.
func recoverPanic(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = panicValue{r}
			}
		}
	}()
	fn()
	return nil
}

// panicValue wraps a non-error panic value so recoverPanic can return it as
// an error while Modify rethrows the original value, not a stringified one.
type panicValue struct{ v any }

func (p panicValue) Error() string { return "midx: panic during modify" }

// Modify applies fn to h's payload in place: drop from every secondary,
// mutate, re-add to every secondary, with the original payload restored
// (and secondaries re-added) if either the mutator panics or the
// post-mutation re-add rejects the new projection on a unique secondary.
// It returns false for the latter case and re-panics (with the original
// value) for the former — Modify itself never returns a plain error,
// splitting expected uniqueness clashes (false) from programmer/allocation
// failures (panic).
//
// Modifying a dead (tombstoned) record is not supported: handles to dead
// records are read-only (Handle.Payload's doc comment), and this engine's
// revival path is Emplace, not Modify. Calling Modify on a dead or invalid
// handle returns false without touching anything.
func (e *Engine[K, P, Pol]) Modify(h Handle[K, P], fn func(p *P)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !h.Valid() || h.IsDead() {
		return false
	}
	return e.modifyLocked(h, fn)
}

func (e *Engine[K, P, Pol]) modifyLocked(h Handle[K, P], fn func(p *P)) bool {
	old := h.rec.payload
	e.dropSecs(h, -1)

	if perr := recoverPanic(func() { fn(&h.rec.payload) }); perr != nil {
		h.rec.payload = old
		e.addSecs(h)
		if pv, ok := perr.(panicValue); ok {
			panic(pv.v)
		}
		panic(perr)
	}

	if i, err := e.addSecs(h); err != nil {
		e.logf("midx: modify key=%v rejected by secondary %d: %v", h.Key(), i, err)
		e.dropSecs(h, i)
		h.rec.payload = old
		e.addSecs(h)
		return false
	}
	return true
}

// Replace substitutes h's payload with v wholesale, short-circuiting (via
// reflect.DeepEqual) when v already equals the current payload — avoiding
// a needless drop/re-add across every secondary for a no-op write.
func (e *Engine[K, P, Pol]) Replace(h Handle[K, P], v P) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !h.Valid() || h.IsDead() {
		return false
	}
	if reflect.DeepEqual(h.rec.payload, v) {
		return true
	}
	return e.replaceLocked(h, v)
}

// replaceLocked is Replace's body, reused by InsertOrAssign (which already
// holds e.mu and has already resolved the handle).
func (e *Engine[K, P, Pol]) replaceLocked(h Handle[K, P], v P) bool {
	return e.modifyLocked(h, func(p *P) { *p = v })
}

// editKind distinguishes the three states operator[] can find a key in
// (spec.md:62's Lifecycle sentence, `_examples/original_source/MultiIndex.h`
// C_EditProxy's live/dead/not-found dispatch inside commit()).
type editKind uint8

const (
	editLive editKind = iota
	editDead
	editNew
)

// EditProxy gives the caller a mutable view of one record's payload without
// re-resolving it by key twice: Edit locks the engine and hands back the
// proxy; the caller mutates Payload() in place and must call Commit (to
// apply the change via the same drop-rebuild-rollback path as Modify,
// Revive, or Emplace, depending on what Edit found at key) or Discard (to
// abandon it), either of which releases the lock. Go has no destructors,
// so this type makes the release explicit: failing to call Commit or
// Discard leaves the engine locked, the same hazard as forgetting to close
// any other explicit-release resource.
type EditProxy[K comparable, P any, Pol Policy[K, P]] struct {
	e       *Engine[K, P, Pol]
	kind    editKind
	key     K
	h       Handle[K, P] // valid for editLive and editDead only
	payload P
	done    bool
}

// Edit begins an edit of the record at key, which must belong to a unique
// primary — applying it against a non-unique primary is a programmer
// error, detected here by panic rather than at compile time since Go
// generics can't express that constraint on unique. Unlike Modify, Edit
// always succeeds in the sense that it always returns a usable proxy: a
// live record seeds the proxy's working payload from Payload() and Commit
// replaces it; a dead (tombstoned) record does the same but Commit revives
// it instead; a missing key seeds the working payload with its zero value
// and Commit emplaces it — the same three-way dispatch as the original's
// C_EditProxy::commit(). Whichever case applies, the caller must
// eventually call Commit or Discard to release the lock Edit takes.
func (e *Engine[K, P, Pol]) Edit(key K) *EditProxy[K, P, Pol] {
	if !e.unique {
		panic(fmt.Errorf("midx: Edit requires a unique primary"))
	}
	e.mu.Lock()
	if h, ok := e.policy.find(key); ok {
		return &EditProxy[K, P, Pol]{e: e, kind: editLive, key: key, h: h, payload: h.Payload()}
	}
	if e.policy.Traits().UsesTombstones {
		if h, ok := e.policy.findDead(key); ok {
			return &EditProxy[K, P, Pol]{e: e, kind: editDead, key: key, h: h, payload: h.Payload()}
		}
	}
	var zero P
	return &EditProxy[K, P, Pol]{e: e, kind: editNew, key: key, payload: zero}
}

// Payload returns a pointer to the proxy's working copy of the payload.
// Mutate through it freely before calling Commit.
func (p *EditProxy[K, P, Pol]) Payload() *P {
	return &p.payload
}

// Commit applies the working payload and releases the lock, dispatching on
// what Edit found at the key: replace for a live record, revive for a dead
// one, emplace for a missing one. It returns false if the operation is
// rejected — a unique secondary clash for replace or revive, or a
// uniqueness violation for emplace (which given Edit already confirmed no
// live record exists at key, can only come from a unique secondary). The
// proxy is spent either way; calling Commit twice, or after Discard, is a
// no-op that returns false.
func (p *EditProxy[K, P, Pol]) Commit() bool {
	if p.done {
		return false
	}
	p.done = true
	defer p.e.mu.Unlock()
	switch p.kind {
	case editDead:
		return p.e.reviveHandleLocked(p.h, p.payload)
	case editNew:
		_, ok := p.e.emplaceLocked(p.key, p.payload)
		return ok
	default: // editLive
		return p.e.replaceLocked(p.h, p.payload)
	}
}

// Discard abandons the edit without applying it, releasing the lock. A
// discarded editNew proxy never touches the primary at all — there was
// nothing there before Edit and Discard leaves it that way.
func (p *EditProxy[K, P, Pol]) Discard() {
	if p.done {
		return
	}
	p.done = true
	p.e.mu.Unlock()
}
