package midx

// Traits are four orthogonal booleans describing a policy's behavior. Each
// concrete Policy reports a fixed set of these; Engine consults them to
// decide whether revival is possible, whether Compact has anything to
// reclaim, and whether the concurrent read/insert subset is legal for a
// given configuration. Whether erase tombstones or physically removes is
// decided inside each policy's own eraseHandle.
type Traits struct {
	// Invalidates reports whether mutating the primary may relocate
	// existing records to a new address.
	Invalidates bool
	// StoresHandle reports whether secondaries store a Handle directly
	// (as opposed to an ordinal or the primary key).
	StoresHandle bool
	// NeedsTranslationArray reports whether a central ordinal table
	// indirects secondary references.
	NeedsTranslationArray bool
	// UsesTombstones reports whether erase marks a record dead instead of
	// physically removing it.
	UsesTombstones bool
}

// Policy is the strategy object that owns primary storage and decides how
// secondaries reference primary records. Engine is generic over Policy via
// a type parameter bounded by this interface — a single parametric engine
// instantiated over one of the four concrete policies below.
//
// A Policy instance is owned by exactly one Engine and is not safe to share.
type Policy[K comparable, P any] interface {
	// Traits reports this policy's fixed characteristics.
	Traits() Traits

	// init prepares the policy for a primary that is unique (at most one
	// record per key) or multi (many records per key). Called once, before
	// any other method.
	init(unique bool, relocate func(old, new Handle[K, P]))

	// rebind replaces the relocate callback captured at init time, used by
	// Move/Swap after the policy's underlying storage has changed owners: a
	// relocate closure captured at construction still points at the
	// original Engine's secondaries unless rebound to the new owner's.
	rebind(relocate func(old, new Handle[K, P]))

	// insertNew creates a brand-new live record for key/payload and inserts
	// it into primary storage, returning its handle. The caller has already
	// verified (for unique primaries) that no live record exists for key;
	// insertNew itself never checks uniqueness.
	insertNew(key K, payload P) Handle[K, P]

	// findDead scans the bucket for key in declaration/bucket order and
	// returns the first dead record found, for tombstone revival (records
	// revive in bucket order). Only ever called when Traits().UsesTombstones.
	findDead(key K) (Handle[K, P], bool)

	// revive clears a dead record's tombstone flag and installs a new
	// payload, without changing its identity (handle, translation ordinal).
	revive(h Handle[K, P], payload P)

	// find returns the first live record for key, or a zero Handle.
	find(key K) (Handle[K, P], bool)

	// countLive counts live records for key.
	countLive(key K) int

	// liveRange returns every live record for key, in bucket order.
	liveRange(key K) []Handle[K, P]

	// iterate walks every live record in primary order, stopping early if
	// yield returns false.
	iterate(yield func(Handle[K, P]) bool)

	// iterateAll walks every record, live or dead, in primary order.
	iterateAll(yield func(Handle[K, P]) bool)

	// eraseHandle removes h from primary storage: physically, if
	// !UsesTombstones (which may trigger relocation of another record);
	// otherwise by setting the dead flag. It does not touch secondaries —
	// callers are expected to have already called DropSecs.
	eraseHandle(h Handle[K, P])

	// markDead sets h's tombstone flag without removing it from primary
	// storage; used by revival rollback.
	markDead(h Handle[K, P])

	// removeNew physically removes h regardless of UsesTombstones. Used to
	// undo a record that never became live (addSecs failed for a
	// just-inserted record, so it must not linger as a tombstone).
	removeNew(h Handle[K, P])

	// primaryLen returns the physical record count (live + dead).
	primaryLen() int

	// clear empties primary storage.
	clear()

	// toHandle resolves a value stored inside a secondary container back
	// into a live Handle. For StoresHandle policies this is the identity;
	// Translation-array resolves the stored ordinal through its array;
	// Key-lookup performs a primary lookup.
	toHandle(stored Handle[K, P]) (Handle[K, P], bool)

	// matchSecondary reports whether the value stored in a secondary at
	// some bucket entry refers to the same record as h; dropSecs/rollback
	// use this to find the exact entry to remove.
	matchSecondary(stored, h Handle[K, P]) bool

	// secondaryValue is the value to store in a secondary container for h.
	secondaryValue(h Handle[K, P]) Handle[K, P]
}
