package midx

// Container is the contract any secondary-index backing store must satisfy:
// insert, find, equal-range, erase by key or by matching predicate, and
// iteration — unique and multi variants distinguished by Unique(). Mirrors
// the shape of a pluggable storage/bucket pairing, recast as a generic
// in-memory contract instead of a byte-oriented disk one.
//
// Primary storage is not expressed through this interface: its relocation
// behavior is what distinguishes the four built-in policies, so each policy
// owns its primary representation directly (see policy_*.go).
type Container[SK comparable, V any] interface {
	// Unique reports whether this container rejects a second value for a
	// key that already has one.
	Unique() bool

	// Insert adds key/val. For a unique container it returns false without
	// modifying anything if key already has a value. For a multi container
	// it always succeeds.
	Insert(key SK, val V) (inserted bool)

	// Find returns the first value stored for key, if any.
	Find(key SK) (V, bool)

	// EqualRange returns every value stored for key, in insertion order.
	EqualRange(key SK) []V

	// Count returns the number of values stored for key.
	Count(key SK) int

	// EraseKey removes every value stored for key, returning how many were
	// removed.
	EraseKey(key SK) int

	// EraseMatching removes the first value for key that satisfies match,
	// reporting whether one was found.
	EraseMatching(key SK, match func(V) bool) bool

	// Len returns the total number of stored values.
	Len() int

	// Clear empties the container.
	Clear()

	// ForEach walks every (key, value) pair, stopping early if yield
	// returns false. Order is unspecified except where a concrete
	// implementation documents otherwise.
	ForEach(yield func(SK, V) bool)
}

// Reserver is implemented by containers that can be told to preallocate
// capacity. Engine checks for it with a type assertion before calling
// Reserve, so a container only gets a sizing hint when it can act on one.
type Reserver interface {
	Reserve(n int)
}

// RangeContainer is implemented by containers that keep keys in sorted
// order and can therefore walk a bounded span of them without a full scan.
// SecondaryView.ForEachInRange checks for it with a type assertion, the
// same optional-capability pattern as Reserver: a container only offers
// range iteration when it can actually do better than ForEach plus a
// filter.
type RangeContainer[SK comparable, V any] interface {
	// Range walks every (key, value) pair with lo <= key <= hi, in
	// ascending key order, stopping early if yield returns false.
	Range(lo, hi SK, yield func(SK, V) bool)
}
