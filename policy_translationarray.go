package midx

// TranslationArrayPolicy is the invalidating, ordinal-storing policy (spec
// §4.3, policy 3). Secondaries store a stable ordinal rather than a handle;
// an indirection array maps that ordinal to the record's current location,
// so relocation only requires patching one slot in the indirection array
// rather than walking every secondary (spec's headline O(1) on_relocate
// claim for this policy). Declared Invalidates: true, as the invalidating
// ordinal-storing member of the policy taxonomy, even though this
// particular Go rendition never physically moves a record — see the
// translation-array ordinal-stability note in SPEC_FULL.md.
type TranslationArrayPolicy[K comparable, P any] struct {
	tombstones bool

	unique      bool
	byKey       map[K][]int // key -> ordinals
	translation []*record[K, P]
	freelist    []int
}

// NewTranslationArrayPolicy returns a TranslationArrayPolicy.
func NewTranslationArrayPolicy[K comparable, P any](tombstones bool) *TranslationArrayPolicy[K, P] {
	return &TranslationArrayPolicy[K, P]{tombstones: tombstones}
}

func (p *TranslationArrayPolicy[K, P]) Traits() Traits {
	return Traits{Invalidates: true, NeedsTranslationArray: true, UsesTombstones: p.tombstones}
}

func (p *TranslationArrayPolicy[K, P]) init(unique bool, _ func(old, new Handle[K, P])) {
	p.unique = unique
	p.byKey = make(map[K][]int)
}

// rebind is a no-op: this policy's relocation is absorbed entirely by the
// indirection array (secondaries store ordinals, never addresses), so it
// never holds onto a relocate callback to begin with.
func (p *TranslationArrayPolicy[K, P]) rebind(func(old, new Handle[K, P])) {}

func (p *TranslationArrayPolicy[K, P]) allocOrd(rec *record[K, P]) int {
	if n := len(p.freelist); n > 0 {
		id := p.freelist[n-1]
		p.freelist = p.freelist[:n-1]
		p.translation[id] = rec
		rec.ord = id
		return id
	}
	id := len(p.translation)
	p.translation = append(p.translation, rec)
	rec.ord = id
	return id
}

func (p *TranslationArrayPolicy[K, P]) insertNew(key K, payload P) Handle[K, P] {
	rec := &record[K, P]{key: key, payload: payload, slot: -1}
	id := p.allocOrd(rec)
	p.byKey[key] = append(p.byKey[key], id)
	return ordinalHandle[K, P](id, rec)
}

func (p *TranslationArrayPolicy[K, P]) findDead(key K) (Handle[K, P], bool) {
	for _, id := range p.byKey[key] {
		rec := p.translation[id]
		if rec.dead {
			return ordinalHandle[K, P](id, rec), true
		}
	}
	return Handle[K, P]{}, false
}

func (p *TranslationArrayPolicy[K, P]) revive(h Handle[K, P], payload P) {
	h.rec.dead = false
	h.rec.payload = payload
}

func (p *TranslationArrayPolicy[K, P]) find(key K) (Handle[K, P], bool) {
	for _, id := range p.byKey[key] {
		rec := p.translation[id]
		if !rec.dead {
			return ordinalHandle[K, P](id, rec), true
		}
	}
	return Handle[K, P]{}, false
}

func (p *TranslationArrayPolicy[K, P]) countLive(key K) int {
	n := 0
	for _, id := range p.byKey[key] {
		if !p.translation[id].dead {
			n++
		}
	}
	return n
}

func (p *TranslationArrayPolicy[K, P]) liveRange(key K) []Handle[K, P] {
	var out []Handle[K, P]
	for _, id := range p.byKey[key] {
		rec := p.translation[id]
		if !rec.dead {
			out = append(out, ordinalHandle[K, P](id, rec))
		}
	}
	return out
}

func (p *TranslationArrayPolicy[K, P]) iterate(yield func(Handle[K, P]) bool) {
	for id, rec := range p.translation {
		if rec == nil || rec.dead {
			continue
		}
		if !yield(ordinalHandle[K, P](id, rec)) {
			return
		}
	}
}

func (p *TranslationArrayPolicy[K, P]) iterateAll(yield func(Handle[K, P]) bool) {
	for id, rec := range p.translation {
		if rec == nil {
			continue
		}
		if !yield(ordinalHandle[K, P](id, rec)) {
			return
		}
	}
}

func (p *TranslationArrayPolicy[K, P]) eraseHandle(h Handle[K, P]) {
	if p.tombstones {
		h.rec.dead = true
		return
	}
	p.removePhysically(h.rec)
}

func (p *TranslationArrayPolicy[K, P]) removePhysically(rec *record[K, P]) {
	id := rec.ord
	p.byKey[rec.key] = removeVal(p.byKey[rec.key], id)
	if len(p.byKey[rec.key]) == 0 {
		delete(p.byKey, rec.key)
	}
	p.translation[id] = nil
	p.freelist = append(p.freelist, id)
}

func (p *TranslationArrayPolicy[K, P]) markDead(h Handle[K, P]) {
	h.rec.dead = true
}

func (p *TranslationArrayPolicy[K, P]) removeNew(h Handle[K, P]) {
	p.removePhysically(h.rec)
}

// primaryLen is the physical record count (live + dead): every translation
// slot not currently on the freelist.
func (p *TranslationArrayPolicy[K, P]) primaryLen() int {
	return len(p.translation) - len(p.freelist)
}

func (p *TranslationArrayPolicy[K, P]) clear() {
	p.byKey = make(map[K][]int)
	p.translation = nil
	p.freelist = nil
}

// toHandle resolves a secondary's stored ordinal to a live Handle via the
// indirection array, the O(1) step the policy is named for.
func (p *TranslationArrayPolicy[K, P]) toHandle(stored Handle[K, P]) (Handle[K, P], bool) {
	if stored.ord < 0 || stored.ord >= len(p.translation) {
		return Handle[K, P]{}, false
	}
	rec := p.translation[stored.ord]
	if rec == nil {
		return Handle[K, P]{}, false
	}
	return ordinalHandle[K, P](stored.ord, rec), true
}

func (p *TranslationArrayPolicy[K, P]) matchSecondary(stored, h Handle[K, P]) bool {
	return stored.ord == h.ord
}

// secondaryValue stores the stable ordinal, not a handle (spec §3's V_i for
// Translation-array).
func (p *TranslationArrayPolicy[K, P]) secondaryValue(h Handle[K, P]) Handle[K, P] {
	return ordinalHandle[K, P](h.ord, nil)
}
