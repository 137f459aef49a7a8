package vt

import "testing"

func newTestScreen(rows, cols int) *Screen {
	return NewScreen(rows, cols, nil)
}

func TestScreenSetCellPadsLine(t *testing.T) {
	s := newTestScreen(2, 4)
	s.SetCell(3, 0, "z", CellAttrs{link: noHyperlink})
	if s.Line(0).Cell(3).Grapheme() != "z" {
		t.Fatalf("SetCell at last column failed")
	}
}

func TestScreenScrollUpDiscardsWithoutProvider(t *testing.T) {
	s := newTestScreen(3, 2)
	for y := 0; y < 3; y++ {
		s.SetCell(0, VisibleRowIndex(y), string(rune('a'+y)), CellAttrs{link: noHyperlink})
	}
	s.ScrollUp(0, 3, 1)
	if got := s.Line(0).Cell(0).Grapheme(); got != "b" {
		t.Fatalf("row0 after ScrollUp = %q, want %q", got, "b")
	}
	if got := s.Line(2).Cell(0).Grapheme(); got != " " {
		t.Fatalf("bottom row after ScrollUp = %q, want blank", got)
	}
	for y := 0; y < 3; y++ {
		if !s.Line(VisibleRowIndex(y)).Dirty() {
			t.Fatalf("row %d should be dirty after ScrollUp", y)
		}
	}
}

func TestScreenScrollUpPushesScrollbackOnlyFromTop(t *testing.T) {
	sb := make(fakeScrollback, 0)
	s := NewScreen(3, 2, &sb)
	for y := 0; y < 3; y++ {
		s.SetCell(0, VisibleRowIndex(y), string(rune('a'+y)), CellAttrs{link: noHyperlink})
	}
	s.ScrollUp(0, 3, 1)
	if sb.Len() != 1 {
		t.Fatalf("scrollback length = %d, want 1", sb.Len())
	}
	if sb.Line(0)[0].Grapheme() != "a" {
		t.Fatalf("scrollback line content = %q, want %q", sb.Line(0)[0].Grapheme(), "a")
	}

	sb2 := make(fakeScrollback, 0)
	s2 := NewScreen(3, 2, &sb2)
	for y := 0; y < 3; y++ {
		s2.SetCell(0, VisibleRowIndex(y), string(rune('a'+y)), CellAttrs{link: noHyperlink})
	}
	s2.ScrollUp(1, 3, 1) // scroll region not anchored at row 0
	if sb2.Len() != 0 {
		t.Fatalf("scrolling a region that doesn't start at row 0 must not push scrollback, got %d", sb2.Len())
	}
}

func TestScreenScrollDownNeverTouchesScrollback(t *testing.T) {
	sb := make(fakeScrollback, 0)
	s := NewScreen(3, 2, &sb)
	for y := 0; y < 3; y++ {
		s.SetCell(0, VisibleRowIndex(y), string(rune('a'+y)), CellAttrs{link: noHyperlink})
	}
	s.ScrollDown(0, 3, 1)
	if sb.Len() != 0 {
		t.Fatalf("ScrollDown must never push scrollback, got %d entries", sb.Len())
	}
	if got := s.Line(0).Cell(0).Grapheme(); got != " " {
		t.Fatalf("top row after ScrollDown = %q, want blank", got)
	}
	if got := s.Line(1).Cell(0).Grapheme(); got != "a" {
		t.Fatalf("row1 after ScrollDown = %q, want %q", got, "a")
	}
}

func TestScreenResizeNoReflow(t *testing.T) {
	s := newTestScreen(2, 2)
	s.SetCell(0, 0, "a", CellAttrs{link: noHyperlink})
	s.SetCell(1, 0, "b", CellAttrs{link: noHyperlink})
	s.Resize(3, 4)
	if s.Rows() != 3 || s.Cols() != 4 {
		t.Fatalf("dims after resize = %dx%d, want 3x4", s.Rows(), s.Cols())
	}
	if s.Line(0).String() != "ab" {
		t.Fatalf("content preserved after grow = %q, want %q", s.Line(0).String(), "ab")
	}
	s.Resize(1, 1)
	if s.Rows() != 1 || s.Cols() != 1 {
		t.Fatalf("dims after shrink = %dx%d, want 1x1", s.Rows(), s.Cols())
	}
}

func TestScreenDirtyLinesRoundTrip(t *testing.T) {
	s := newTestScreen(3, 2)
	s.SetCell(0, 1, "x", CellAttrs{link: noHyperlink})
	dirty := s.DirtyLines()
	if len(dirty) != 1 || dirty[0].Row != 1 {
		t.Fatalf("DirtyLines = %+v, want only row 1", dirty)
	}
	s.CleanDirtyLines()
	if len(s.DirtyLines()) != 0 {
		t.Fatalf("expected no dirty lines after CleanDirtyLines")
	}
}

func TestScreenFillWithE(t *testing.T) {
	s := newTestScreen(2, 3)
	s.FillWithE()
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if s.Line(VisibleRowIndex(y)).Cell(x).Grapheme() != "E" {
				t.Fatalf("cell (%d,%d) not filled with E", x, y)
			}
		}
	}
}

// fakeScrollback is a minimal ScrollbackProvider for exercising Screen's
// scrollback-push behavior without depending on the scrollback subpackage.
type fakeScrollback [][]Cell

func (s *fakeScrollback) Push(line []Cell) { *s = append(*s, line) }
func (s *fakeScrollback) Len() int         { return len(*s) }
func (s *fakeScrollback) Line(i int) []Cell {
	if i < 0 || i >= len(*s) {
		return nil
	}
	return (*s)[i]
}
func (s *fakeScrollback) Clear()              { *s = (*s)[:0] }
func (s *fakeScrollback) SetMaxLines(max int) {}
func (s *fakeScrollback) MaxLines() int       { return 0 }

var _ ScrollbackProvider = (*fakeScrollback)(nil)
