package midx

import "sync/atomic"

// record is the payload wrapper (spec §4.2): the user's key and payload
// plus the bookkeeping a policy needs. Every field below earns its keep for
// at least one policy; unlike the C++ source, Go has no way to omit a field
// per-instantiation, so every record carries all of them and policies that
// don't need a field simply never read it.
type record[K comparable, P any] struct {
	key     K
	payload P
	dead    bool // tombstone flag; meaningful only under UsesTombstones
	slot    int  // position in a relocating policy's dense storage; -1 otherwise
	ord     int  // stable translation-array ordinal; -1 otherwise
}

// liveCounter is the exact count of live (non-dead) records (spec §3's Live
// Counter). It's backed by an atomic when the engine is opened with
// WithConcurrent over a tombstoning policy, and a plain int64 otherwise — the
// atomic ops are harmless single-threaded, but the plain path documents
// that no synchronization is being relied upon.
type liveCounter struct {
	useAtomic bool
	n         int64
	an        atomic.Int64
}

func (c *liveCounter) add(delta int64) {
	if c.useAtomic {
		c.an.Add(delta)
	} else {
		c.n += delta
	}
}

func (c *liveCounter) load() int64 {
	if c.useAtomic {
		return c.an.Load()
	}
	return c.n
}

func (c *liveCounter) set(v int64) {
	if c.useAtomic {
		c.an.Store(v)
	} else {
		c.n = v
	}
}
