package midx

import "testing"

func TestHashContainerUniqueRejectsDuplicate(t *testing.T) {
	c := NewHashContainer[string, int](true)
	if !c.Insert("a", 1) {
		t.Fatal("first insert should succeed")
	}
	if c.Insert("a", 2) {
		t.Fatal("second insert at the same key should fail for a unique container")
	}
	if n := c.Count("a"); n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestHashContainerMultiAccumulates(t *testing.T) {
	c := NewHashContainer[string, int](false)
	c.Insert("a", 1)
	c.Insert("a", 2)
	c.Insert("a", 3)
	if n := c.Count("a"); n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
	if !c.EraseMatching("a", func(v int) bool { return v == 2 }) {
		t.Fatal("erase matching should find v=2")
	}
	got := c.EqualRange("a")
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("equal range after erase = %v, want [1 3]", got)
	}
}

func TestHashContainerEraseKey(t *testing.T) {
	c := NewHashContainer[string, int](false)
	c.Insert("a", 1)
	c.Insert("a", 2)
	c.Insert("b", 3)
	if n := c.EraseKey("a"); n != 2 {
		t.Fatalf("eraseKey(a) = %d, want 2", n)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
	if n := c.Count("a"); n != 0 {
		t.Fatalf("count(a) after erase = %d, want 0", n)
	}
}

func TestOrderedContainerWalksInKeyOrder(t *testing.T) {
	c := NewOrderedContainer[int, string](true)
	c.Insert(3, "c")
	c.Insert(1, "a")
	c.Insert(2, "b")

	var keys []int
	c.ForEach(func(k int, _ string) bool {
		keys = append(keys, k)
		return true
	})
	want := []int{1, 2, 3}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}

	if n := c.EraseKey(2); n != 1 {
		t.Fatalf("eraseKey(2) = %d, want 1", n)
	}
	if _, ok := c.Find(2); ok {
		t.Fatal("find(2) should fail after erase")
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
}
