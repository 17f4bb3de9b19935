package midx

import "testing"

func TestReplaceShortCircuitsOnEquality(t *testing.T) {
	e := NewEngine[int, Item](NewUpdatePointerPolicy[int, Item](false), true)
	byName := AddIndex(e, IndexSpec[int, Item, string]{
		Name: "by_name", Unique: true,
		Project:   func(_ int, p Item) string { return p.Name },
		Container: NewHashContainer[string, Handle[int, Item]](true),
	})
	e.Emplace(1, Item{"Widget", "Hardware", 29.99})

	h, _ := e.Find(1)
	if !e.Replace(h, Item{"Widget", "Hardware", 29.99}) {
		t.Fatal("replace with an equal payload should report success")
	}
	if bh, ok := byName.Find("Widget"); !ok || bh.Key() != 1 {
		t.Fatal("by_name should still resolve Widget after a no-op replace")
	}

	if !e.Replace(h, Item{"Widget2", "Hardware", 29.99}) {
		t.Fatal("replace with a distinct payload should succeed")
	}
	if _, ok := byName.Find("Widget"); ok {
		t.Fatal("by_name should no longer resolve the old name")
	}
	if bh, ok := byName.Find("Widget2"); !ok || bh.Key() != 1 {
		t.Fatal("by_name should resolve the new name")
	}
}

func TestReplaceRejectsUniqueSecondaryClash(t *testing.T) {
	e := NewEngine[int, Item](NewUpdatePointerPolicy[int, Item](false), true)
	byName := AddIndex(e, IndexSpec[int, Item, string]{
		Name: "by_name", Unique: true,
		Project:   func(_ int, p Item) string { return p.Name },
		Container: NewHashContainer[string, Handle[int, Item]](true),
	})
	e.Emplace(1, Item{"Widget", "Hardware", 1})
	e.Emplace(2, Item{"Gadget", "Software", 2})

	h1, _ := e.Find(1)
	if e.Replace(h1, Item{"Gadget", "Hardware", 1}) {
		t.Fatal("replace should fail when the new projection clashes with another live record")
	}
	h1again, _ := e.Find(1)
	if h1again.Payload().Name != "Widget" {
		t.Fatalf("payload should be restored to Widget, got %v", h1again.Payload())
	}
	if bh, ok := byName.Find("Widget"); !ok || bh.Key() != 1 {
		t.Fatal("by_name should still resolve the restored Widget entry")
	}
	if bh, ok := byName.Find("Gadget"); !ok || bh.Key() != 2 {
		t.Fatal("by_name should still resolve the untouched Gadget entry")
	}
}

func TestEditProxyCommitAndDiscard(t *testing.T) {
	e := NewEngine[int, Item](NewUpdatePointerPolicy[int, Item](false), true)
	byName := AddIndex(e, IndexSpec[int, Item, string]{
		Name: "by_name", Unique: true,
		Project:   func(_ int, p Item) string { return p.Name },
		Container: NewHashContainer[string, Handle[int, Item]](true),
	})
	e.Emplace(1, Item{"Widget", "Hardware", 1})

	proxy := e.Edit(1)
	proxy.Payload().Name = "Widget2"
	if !proxy.Commit() {
		t.Fatal("commit should succeed")
	}
	if h, ok := byName.Find("Widget2"); !ok || h.Key() != 1 {
		t.Fatal("by_name should reflect the committed rename")
	}

	proxy2 := e.Edit(1)
	proxy2.Payload().Name = "ShouldNotStick"
	proxy2.Discard()
	if h, ok := e.Find(1); !ok || h.Payload().Name != "Widget2" {
		t.Fatalf("discard should leave the payload untouched, got %v", h.Payload())
	}
}

// TestEditProxyRevivesDeadRecord checks Edit/Commit's dead-record branch:
// editing a tombstoned record's key should revive it in place rather than
// leaving it dead or creating a second record.
func TestEditProxyRevivesDeadRecord(t *testing.T) {
	e := NewEngine[int, Item](NewUpdatePointerPolicy[int, Item](true), true)
	byName := AddIndex(e, IndexSpec[int, Item, string]{
		Name: "by_name", Unique: true,
		Project:   func(_ int, p Item) string { return p.Name },
		Container: NewHashContainer[string, Handle[int, Item]](true),
	})
	e.Emplace(1, Item{"Widget", "Hardware", 1})
	if n := e.EraseKey(1); n != 1 {
		t.Fatalf("eraseKey(1) = %d, want 1", n)
	}
	if e.Len() != 0 || e.PrimaryLen() != 1 {
		t.Fatalf("after erase: len=%d primaryLen=%d, want 0, 1", e.Len(), e.PrimaryLen())
	}

	proxy := e.Edit(1)
	proxy.Payload().Name = "Reborn"
	if !proxy.Commit() {
		t.Fatal("commit should revive the dead record")
	}
	if e.Len() != 1 || e.PrimaryLen() != 1 {
		t.Fatalf("after revive: len=%d primaryLen=%d, want 1, 1", e.Len(), e.PrimaryLen())
	}
	h, ok := e.Find(1)
	if !ok || h.Payload().Name != "Reborn" {
		t.Fatalf("find(1) = %v, %v; want Reborn, true", h, ok)
	}
	if bh, ok := byName.Find("Reborn"); !ok || bh.Key() != 1 {
		t.Fatal("by_name should resolve the revived record's new name")
	}
}

// TestEditProxyCreatesOnCommit checks Edit/Commit's missing-key branch:
// editing a key with no record at all should create one on Commit, and do
// nothing on Discard.
func TestEditProxyCreatesOnCommit(t *testing.T) {
	e := NewEngine[int, Item](NewUpdatePointerPolicy[int, Item](false), true)
	byName := AddIndex(e, IndexSpec[int, Item, string]{
		Name: "by_name", Unique: true,
		Project:   func(_ int, p Item) string { return p.Name },
		Container: NewHashContainer[string, Handle[int, Item]](true),
	})

	discardProxy := e.Edit(7)
	discardProxy.Payload().Name = "ShouldNotExist"
	discardProxy.Discard()
	if _, ok := e.Find(7); ok {
		t.Fatal("discard of a new-key edit should not create a record")
	}

	proxy := e.Edit(7)
	proxy.Payload().Name = "Fresh"
	proxy.Payload().Category = "New"
	proxy.Payload().Price = 5
	if !proxy.Commit() {
		t.Fatal("commit should create a new record at key 7")
	}
	if h, ok := e.Find(7); !ok || h.Payload().Name != "Fresh" {
		t.Fatalf("find(7) = %v, %v; want Fresh, true", h, ok)
	}
	if bh, ok := byName.Find("Fresh"); !ok || bh.Key() != 7 {
		t.Fatal("by_name should resolve the newly created record")
	}
}

func TestEditRequiresUniquePrimary(t *testing.T) {
	e := NewEngine[int, string](NewStableNodePolicy[int, string](false), false)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic editing a non-unique primary")
		}
	}()
	e.Edit(1)
}
