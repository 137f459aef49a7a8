package vt

import "testing"

func TestHyperlinkArenaIndexForDoesNotRetain(t *testing.T) {
	a := newHyperlinkArena()
	h := &Hyperlink{ID: "1", URI: "http://example.com"}
	idx := a.indexFor(h)
	if a.refs[idx] != 0 {
		t.Fatalf("indexFor must not itself bump the refcount, got %d", a.refs[idx])
	}
	// looking it up again by the same ID returns the same slot, still unretained.
	idx2 := a.indexFor(h)
	if idx2 != idx {
		t.Fatalf("repeated indexFor for the same ID should return the same slot")
	}
	if a.refs[idx] != 0 {
		t.Fatalf("repeated indexFor bumped the refcount to %d", a.refs[idx])
	}
}

func TestHyperlinkArenaRetainRelease(t *testing.T) {
	a := newHyperlinkArena()
	h := &Hyperlink{ID: "1", URI: "http://example.com"}
	idx := a.indexFor(h)
	a.retain(idx)
	a.retain(idx)
	if a.get(idx) == nil {
		t.Fatalf("expected hyperlink to still be present with refs=2")
	}
	a.release(idx)
	if a.get(idx) == nil {
		t.Fatalf("expected hyperlink to still be present with refs=1")
	}
	a.release(idx)
	if a.get(idx) != nil {
		t.Fatalf("expected hyperlink to be freed once refs drop to 0")
	}
}

func TestHyperlinkArenaReusesFreedSlots(t *testing.T) {
	a := newHyperlinkArena()
	h1 := &Hyperlink{ID: "1", URI: "http://a"}
	idx1 := a.indexFor(h1)
	a.retain(idx1)
	a.release(idx1)

	h2 := &Hyperlink{ID: "2", URI: "http://b"}
	idx2 := a.indexFor(h2)
	if idx2 != idx1 {
		t.Fatalf("expected freed slot %d to be reused, got %d", idx1, idx2)
	}
	if a.get(idx2).URI != "http://b" {
		t.Fatalf("reused slot has wrong content: %+v", a.get(idx2))
	}
}

func TestHyperlinkArenaNoHyperlinkIsNoop(t *testing.T) {
	a := newHyperlinkArena()
	a.retain(noHyperlink)
	a.release(noHyperlink)
	if a.get(noHyperlink) != nil {
		t.Fatalf("get(noHyperlink) should be nil")
	}
	if a.indexFor(nil) != noHyperlink {
		t.Fatalf("indexFor(nil) should return noHyperlink")
	}
}
