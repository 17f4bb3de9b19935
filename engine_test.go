package midx

import "testing"

// TestStableNodeUniqueBasic exercises a unique primary with no secondaries.
func TestStableNodeUniqueBasic(t *testing.T) {
	e := NewEngine[int, string](NewStableNodePolicy[int, string](false), true)

	if _, ok := e.Emplace(1, "a"); !ok {
		t.Fatal("emplace 1 failed")
	}
	if _, ok := e.Emplace(2, "b"); !ok {
		t.Fatal("emplace 2 failed")
	}

	h, ok := e.Find(1)
	if !ok || h.Payload() != "a" {
		t.Fatalf("find(1) = %v, %v; want a, true", h, ok)
	}

	if n := e.EraseKey(1); n != 1 {
		t.Fatalf("eraseKey(1) = %d, want 1", n)
	}
	if e.Len() != 1 {
		t.Fatalf("len = %d, want 1", e.Len())
	}
	if _, ok := e.Find(1); ok {
		t.Fatal("find(1) should fail after erase")
	}
}

// TestMultiPrimary exercises a multi (non-unique) primary.
func TestMultiPrimary(t *testing.T) {
	e := NewEngine[int, string](NewStableNodePolicy[int, string](false), false)

	e.Emplace(1, "x")
	e.Emplace(1, "y")
	e.Emplace(1, "z")
	e.Emplace(2, "w")

	if n := e.Count(1); n != 3 {
		t.Fatalf("count(1) = %d, want 3", n)
	}
	if n := e.EraseKey(1); n != 3 {
		t.Fatalf("eraseKey(1) = %d, want 3", n)
	}
	if e.Len() != 1 {
		t.Fatalf("len = %d, want 1", e.Len())
	}
	if n := e.Count(2); n != 1 {
		t.Fatalf("count(2) = %d, want 1", n)
	}
}

// TestMultiPrimaryTombstonesNeverRevive checks that a multi (non-unique)
// primary never resurrects a dead slot on re-insert, even with tombstones
// enabled: every Emplace against a multi primary is a fresh physical
// record, matching the original's compile-time gate on c_primary_is_unique
// around its revival block.
func TestMultiPrimaryTombstonesNeverRevive(t *testing.T) {
	e := NewEngine[int, string](NewStableNodePolicy[int, string](true), false)

	e.Emplace(1, "a")
	e.Emplace(1, "b")
	if n := e.EraseKey(1); n != 2 {
		t.Fatalf("eraseKey(1) = %d, want 2", n)
	}
	if e.Len() != 0 || e.PrimaryLen() != 2 {
		t.Fatalf("after erase: len=%d primaryLen=%d, want 0, 2", e.Len(), e.PrimaryLen())
	}

	e.Emplace(1, "c")
	if e.Len() != 1 || e.PrimaryLen() != 3 {
		t.Fatalf("after re-insert: len=%d primaryLen=%d, want 1, 3 (fresh record, not a revived tombstone)", e.Len(), e.PrimaryLen())
	}
	if n := e.Count(1); n != 1 {
		t.Fatalf("count(1) = %d, want 1 (two dead, one live)", n)
	}
}

// Item is the shared fixture payload used across the secondary-index
// scenario tests below.
type Item struct {
	Name     string
	Category string
	Price    float64
}

// TestUpdatePointerTwoSecondaries exercises a relocating primary with two secondaries, one unique and one multi.
func TestUpdatePointerTwoSecondaries(t *testing.T) {
	e := NewEngine[int, Item](NewUpdatePointerPolicy[int, Item](false), true)
	byName := AddIndex(e, IndexSpec[int, Item, string]{
		Name: "by_name", Unique: true,
		Project:   func(_ int, p Item) string { return p.Name },
		Container: NewHashContainer[string, Handle[int, Item]](true),
	})
	byCategory := AddIndex(e, IndexSpec[int, Item, string]{
		Name: "by_category", Unique: false,
		Project:   func(_ int, p Item) string { return p.Category },
		Container: NewHashContainer[string, Handle[int, Item]](false),
	})

	e.Emplace(1, Item{"Widget", "Hardware", 29.99})
	e.Emplace(2, Item{"Gadget", "Software", 49.99})
	e.Emplace(3, Item{"Tool", "Hardware", 29.99})

	h, ok := byName.Find("Widget")
	if !ok || h.Key() != 1 {
		t.Fatalf("by_name.find(Widget) = %v, %v; want key 1", h, ok)
	}
	if n := byCategory.Count("Hardware"); n != 2 {
		t.Fatalf("by_category.count(Hardware) = %d, want 2", n)
	}
	if n := byCategory.Erase("Hardware"); n != 2 {
		t.Fatalf("by_category.erase(Hardware) = %d, want 2", n)
	}
	if e.Len() != 1 {
		t.Fatalf("len = %d, want 1", e.Len())
	}
	if _, ok := byName.Find("Widget"); ok {
		t.Fatal("by_name.find(Widget) should fail after erase")
	}
	if h, ok := byName.Find("Gadget"); !ok || h.Key() != 2 {
		t.Fatalf("by_name.find(Gadget) = %v, %v; want key 2", h, ok)
	}
}

// TestTombstonesUpdatePointer exercises tombstoning, revival, and compaction.
func TestTombstonesUpdatePointer(t *testing.T) {
	e := NewEngine[int, string](NewUpdatePointerPolicy[int, string](true), true)
	for i := 0; i < 5; i++ {
		e.Emplace(i, "v")
	}

	h1, _ := e.Find(1)
	e.Erase(h1)
	h3, _ := e.Find(3)
	e.Erase(h3)

	if e.Len() != 3 {
		t.Fatalf("len = %d, want 3", e.Len())
	}
	if e.PrimaryLen() != 5 {
		t.Fatalf("primaryLen = %d, want 5", e.PrimaryLen())
	}

	var seen []int
	e.ForEach(func(h Handle[int, string]) bool {
		seen = append(seen, h.Key())
		return true
	})
	if len(seen) != 3 {
		t.Fatalf("ForEach yielded %v, want 3 keys", seen)
	}
	for _, k := range []int{0, 2, 4} {
		found := false
		for _, s := range seen {
			if s == k {
				found = true
			}
		}
		if !found {
			t.Fatalf("ForEach missing key %d: %v", k, seen)
		}
	}

	if _, ok := e.Emplace(1, "reborn"); !ok {
		t.Fatal("revival emplace failed")
	}
	if e.Len() != 4 {
		t.Fatalf("len = %d, want 4", e.Len())
	}
	if e.PrimaryLen() != 5 {
		t.Fatalf("primaryLen = %d, want 5", e.PrimaryLen())
	}
	h, ok := e.Find(1)
	if !ok || h.Payload() != "reborn" {
		t.Fatalf("find(1) = %v, %v; want reborn, true", h, ok)
	}

	e.Compact()
	if e.Len() != 4 {
		t.Fatalf("len after compact = %d, want 4", e.Len())
	}
	if e.PrimaryLen() != 4 {
		t.Fatalf("primaryLen after compact = %d, want 4", e.PrimaryLen())
	}
}

// TestModifyExceptionSafety exercises Modify's rollback on a panicking mutator.
func TestModifyExceptionSafety(t *testing.T) {
	e := NewEngine[int, string](NewStableNodePolicy[int, string](false), true)
	e.Emplace(1, "first")
	e.Emplace(2, "second")

	h, _ := e.Find(1)
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic to propagate out of Modify")
			}
		}()
		e.Modify(h, func(p *string) {
			*p = "mutated"
			panic("boom")
		})
	}()

	if e.Len() != 2 {
		t.Fatalf("len = %d, want 2", e.Len())
	}
	h2, ok := e.Find(1)
	if !ok || h2.Payload() != "first" {
		t.Fatalf("find(1) = %v, %v; want first, true (payload restored)", h2, ok)
	}
	if _, ok := e.Find(2); !ok {
		t.Fatal("find(2) should still succeed")
	}
}

// TestTranslationArraySecondaryErase exercises a translation-array primary with a unique secondary, across erase and compact.
func TestTranslationArraySecondaryErase(t *testing.T) {
	e := NewEngine[int, string](NewTranslationArrayPolicy[int, string](false), true)
	byName := AddIndex(e, IndexSpec[int, string, string]{
		Name: "by_name", Unique: true,
		Project:   func(_ int, p string) string { return p },
		Container: NewHashContainer[string, Handle[int, string]](true),
	})

	e.Emplace(1, "Alpha")
	e.Emplace(2, "Beta")
	e.Emplace(3, "Gamma")

	h, ok := byName.Find("Beta")
	if !ok || h.Key() != 2 {
		t.Fatalf("by_name.find(Beta) = %v, %v; want key 2", h, ok)
	}

	h2, _ := e.Find(2)
	e.Erase(h2)
	if _, ok := byName.Find("Beta"); ok {
		t.Fatal("by_name.find(Beta) should fail after erase")
	}

	e.Compact()
	if e.Len() != 2 {
		t.Fatalf("len after compact = %d, want 2", e.Len())
	}
	if h, ok := e.Find(1); !ok || h.Payload() != "Alpha" {
		t.Fatalf("find(1) after compact = %v, %v; want Alpha, true", h, ok)
	}
	if h, ok := e.Find(3); !ok || h.Payload() != "Gamma" {
		t.Fatalf("find(3) after compact = %v, %v; want Gamma, true", h, ok)
	}
	if h, ok := byName.Find("Alpha"); !ok || h.Key() != 1 {
		t.Fatalf("by_name.find(Alpha) after compact = %v, %v; want key 1", h, ok)
	}
	if h, ok := byName.Find("Gamma"); !ok || h.Key() != 3 {
		t.Fatalf("by_name.find(Gamma) after compact = %v, %v; want key 3", h, ok)
	}
}
