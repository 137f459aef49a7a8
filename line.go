package vt

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Line is one row of a Screen: a fixed-width slice of cells plus the two
// bits of bookkeeping the original Line carries alongside its cells: a
// dirty flag (for incremental redraw) and whether the line ended in a soft
// line-wrap at the right margin rather than an explicit newline (needed to
// reconstruct logical lines when exporting text).
type Line struct {
	cells   []Cell
	dirty   bool
	Wrapped bool
}

// NewLine returns a line of cols blank cells.
func NewLine(cols int) Line {
	cells := make([]Cell, cols)
	for i := range cells {
		cells[i] = BlankCell()
	}
	return Line{cells: cells}
}

func (l *Line) Len() int { return len(l.cells) }

func (l *Line) Cell(col int) *Cell {
	if col < 0 || col >= len(l.cells) {
		return nil
	}
	return &l.cells[col]
}

func (l *Line) Dirty() bool    { return l.dirty }
func (l *Line) MarkDirty()     { l.dirty = true }
func (l *Line) ClearDirty()    { l.dirty = false }

// resize grows or truncates the line in place, padding new columns with
// blank cells. It never reflows content.
func (l *Line) resize(cols int) {
	if cols == len(l.cells) {
		return
	}
	if cols < len(l.cells) {
		l.cells = l.cells[:cols]
		return
	}
	grown := make([]Cell, cols)
	copy(grown, l.cells)
	for i := len(l.cells); i < cols; i++ {
		grown[i] = BlankCell()
	}
	l.cells = grown
}

// clearRange blanks cells [from, to) using template as the attribute pen.
func (l *Line) clearRange(from, to int, template CellAttrs) {
	if from < 0 {
		from = 0
	}
	if to > len(l.cells) {
		to = len(l.cells)
	}
	for i := from; i < to; i++ {
		c := BlankCell()
		c.Attrs = template
		l.cells[i] = c
	}
	l.dirty = true
}

// FromString builds a line of the given width from a plain UTF-8 string,
// segmenting it into grapheme clusters with uniseg rather than naive runes,
// so a base rune plus its combining marks (or a flag/ZWJ emoji sequence)
// lands in one cell instead of being torn across several. This is the path
// for content that arrives as a whole string rather than through the
// parser's byte-at-a-time print events — scrollback replay and tests, in
// particular; the parser itself still prints one decoded rune at a time
// (see Parser.ground), a deliberate simplification over true streaming
// grapheme segmentation given the scope of this module.
func FromString(cols int, s string) Line {
	line := NewLine(cols)
	col := 0
	gr := uniseg.NewGraphemes(s)
	for col < cols && gr.Next() {
		cluster := gr.Str()
		w := graphemeWidth(cluster)
		if w == 2 && col+1 >= cols {
			break
		}
		line.cells[col].SetGrapheme(cluster)
		col++
		if w == 2 {
			line.cells[col] = makeSpacerCell()
			col++
		}
	}
	line.dirty = true
	return line
}

// String reconstructs the line's text, trimming trailing blanks and
// skipping wide-character spacer cells.
func (l *Line) String() string {
	var b strings.Builder
	for _, c := range l.cells {
		if c.IsSpacer() {
			continue
		}
		b.WriteString(c.Grapheme())
	}
	return strings.TrimRight(b.String(), " ")
}
