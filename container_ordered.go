package midx

import (
	"cmp"
	"slices"
)

// OrderedContainer is a sorted-slice Container implementation for secondary
// indices that benefit from range-friendly iteration — the in-memory
// analogue of a sorted on-disk bucket's cursor-based traversal, without a
// disk backend. Entries for the same key are kept in insertion order;
// distinct keys are kept sorted, enabling ForEach to walk in key order.
type OrderedContainer[SK cmp.Ordered, V any] struct {
	unique bool
	keys   []SK
	vals   [][]V
}

// NewOrderedContainer returns an OrderedContainer.
func NewOrderedContainer[SK cmp.Ordered, V any](unique bool) *OrderedContainer[SK, V] {
	return &OrderedContainer[SK, V]{unique: unique}
}

func (c *OrderedContainer[SK, V]) Unique() bool { return c.unique }

func (c *OrderedContainer[SK, V]) Reserve(n int) {
	if cap(c.keys) < n {
		keys := make([]SK, len(c.keys), n)
		copy(keys, c.keys)
		c.keys = keys
	}
}

func (c *OrderedContainer[SK, V]) search(key SK) (int, bool) {
	i, found := slices.BinarySearch(c.keys, key)
	return i, found
}

func (c *OrderedContainer[SK, V]) Insert(key SK, val V) bool {
	i, found := c.search(key)
	if found {
		if c.unique {
			return false
		}
		c.vals[i] = append(c.vals[i], val)
		return true
	}
	c.keys = slices.Insert(c.keys, i, key)
	c.vals = slices.Insert(c.vals, i, []V{val})
	return true
}

func (c *OrderedContainer[SK, V]) Find(key SK) (V, bool) {
	i, found := c.search(key)
	if !found || len(c.vals[i]) == 0 {
		var zero V
		return zero, false
	}
	return c.vals[i][0], true
}

func (c *OrderedContainer[SK, V]) EqualRange(key SK) []V {
	i, found := c.search(key)
	if !found {
		return nil
	}
	out := make([]V, len(c.vals[i]))
	copy(out, c.vals[i])
	return out
}

func (c *OrderedContainer[SK, V]) Count(key SK) int {
	i, found := c.search(key)
	if !found {
		return 0
	}
	return len(c.vals[i])
}

func (c *OrderedContainer[SK, V]) EraseKey(key SK) int {
	i, found := c.search(key)
	if !found {
		return 0
	}
	n := len(c.vals[i])
	c.keys = slices.Delete(c.keys, i, i+1)
	c.vals = slices.Delete(c.vals, i, i+1)
	return n
}

func (c *OrderedContainer[SK, V]) EraseMatching(key SK, match func(V) bool) bool {
	i, found := c.search(key)
	if !found {
		return false
	}
	vs := c.vals[i]
	for j, v := range vs {
		if match(v) {
			vs = append(vs[:j], vs[j+1:]...)
			if len(vs) == 0 {
				c.keys = slices.Delete(c.keys, i, i+1)
				c.vals = slices.Delete(c.vals, i, i+1)
			} else {
				c.vals[i] = vs
			}
			return true
		}
	}
	return false
}

func (c *OrderedContainer[SK, V]) Len() int {
	n := 0
	for _, vs := range c.vals {
		n += len(vs)
	}
	return n
}

func (c *OrderedContainer[SK, V]) Clear() {
	c.keys = nil
	c.vals = nil
}

func (c *OrderedContainer[SK, V]) ForEach(yield func(SK, V) bool) {
	for i, k := range c.keys {
		for _, v := range c.vals[i] {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Range walks every (key, value) pair with lo <= key <= hi, in ascending
// key order, starting from a binary search rather than a full scan —
// the reason a range-friendly secondary reaches for this container family
// in the first place.
func (c *OrderedContainer[SK, V]) Range(lo, hi SK, yield func(SK, V) bool) {
	i, _ := c.search(lo)
	for ; i < len(c.keys) && c.keys[i] <= hi; i++ {
		for _, v := range c.vals[i] {
			if !yield(c.keys[i], v) {
				return
			}
		}
	}
}
