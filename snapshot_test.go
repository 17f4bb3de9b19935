package midx

import (
	"sort"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	src := NewEngine[int, Item](NewUpdatePointerPolicy[int, Item](false), true)
	byName := AddIndex(src, IndexSpec[int, Item, string]{
		Name: "by_name", Unique: true,
		Project:   func(_ int, p Item) string { return p.Name },
		Container: NewHashContainer[string, Handle[int, Item]](true),
	})
	src.Emplace(1, Item{"Widget", "Hardware", 29.99})
	src.Emplace(2, Item{"Gadget", "Software", 49.99})

	blob, err := src.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	dst := NewEngine[int, Item](NewUpdatePointerPolicy[int, Item](false), true)
	dstByName := AddIndex(dst, IndexSpec[int, Item, string]{
		Name: "by_name", Unique: true,
		Project:   func(_ int, p Item) string { return p.Name },
		Container: NewHashContainer[string, Handle[int, Item]](true),
	})

	restored, rejected, err := RestoreInto(dst, blob)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored != 2 || rejected != 0 {
		t.Fatalf("restored=%d rejected=%d, want 2, 0", restored, rejected)
	}
	if dst.Len() != 2 {
		t.Fatalf("dst len = %d, want 2", dst.Len())
	}
	h, ok := dst.Find(1)
	if !ok || h.Payload().Name != "Widget" {
		t.Fatalf("dst.find(1) = %v, %v; want Widget, true", h, ok)
	}
	if bh, ok := dstByName.Find("Gadget"); !ok || bh.Key() != 2 {
		t.Fatal("dst by_name should resolve Gadget to key 2")
	}
	_ = byName

	var names []string
	dst.ForEach(func(h Handle[int, Item]) bool {
		names = append(names, h.Payload().Name)
		return true
	})
	sort.Strings(names)
	if len(names) != 2 || names[0] != "Gadget" || names[1] != "Widget" {
		t.Fatalf("names = %v, want [Gadget Widget]", names)
	}
}
