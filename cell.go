package vt

import runewidth "github.com/mattn/go-runewidth"

// CellAttrs packs the boolean/enum rendering attributes of a cell into a
// single 16-bit word plus its two colors (a packed attributes field
// alongside foreground and background Color values) rather than one bool
// field per attribute.
type CellAttrs struct {
	bits    uint16
	Fg      Color
	Bg      Color
	link    int // index into the owning Screen's hyperlink arena, or noHyperlink
}

const (
	attrBold uint16 = 1 << iota
	attrDim
	attrItalic
	attrUnderline
	attrBlink
	attrReverse
	attrStrikethrough
	attrInvisible
	attrHalfbright
)

func (a CellAttrs) Bold() bool          { return a.bits&attrBold != 0 }
func (a CellAttrs) Dim() bool           { return a.bits&attrDim != 0 }
func (a CellAttrs) Italic() bool        { return a.bits&attrItalic != 0 }
func (a CellAttrs) Underline() bool     { return a.bits&attrUnderline != 0 }
func (a CellAttrs) Blink() bool         { return a.bits&attrBlink != 0 }
func (a CellAttrs) Reverse() bool       { return a.bits&attrReverse != 0 }
func (a CellAttrs) Strikethrough() bool { return a.bits&attrStrikethrough != 0 }
func (a CellAttrs) Invisible() bool     { return a.bits&attrInvisible != 0 }
func (a CellAttrs) Halfbright() bool    { return a.bits&attrHalfbright != 0 }

func (a *CellAttrs) setFlag(flag uint16, on bool) {
	if on {
		a.bits |= flag
	} else {
		a.bits &^= flag
	}
}

func (a *CellAttrs) SetBold(on bool)          { a.setFlag(attrBold, on) }
func (a *CellAttrs) SetDim(on bool)           { a.setFlag(attrDim, on) }
func (a *CellAttrs) SetItalic(on bool)        { a.setFlag(attrItalic, on) }
func (a *CellAttrs) SetUnderline(on bool)     { a.setFlag(attrUnderline, on) }
func (a *CellAttrs) SetBlink(on bool)         { a.setFlag(attrBlink, on) }
func (a *CellAttrs) SetReverse(on bool)       { a.setFlag(attrReverse, on) }
func (a *CellAttrs) SetStrikethrough(on bool) { a.setFlag(attrStrikethrough, on) }
func (a *CellAttrs) SetInvisible(on bool)     { a.setFlag(attrInvisible, on) }
func (a *CellAttrs) SetHalfbright(on bool)    { a.setFlag(attrHalfbright, on) }

// maxGraphemeBytes bounds how much UTF-8 a single Cell can hold. A cluster
// longer than this (an emoji with many combining/ZWJ members, for instance)
// is truncated to its first rune, per the size-over-fidelity tradeoff
// called out in the original design notes.
const maxGraphemeBytes = 8

// Cell is one terminal grid position: a grapheme cluster (almost always a
// single rune, occasionally a base rune plus combining marks, stored inline
// rather than boxed) and its rendering attributes.
type Cell struct {
	grapheme    [maxGraphemeBytes]byte
	graphemeLen uint8
	width       uint8 // 0, 1 or 2 display columns
	Attrs       CellAttrs
}

// BlankCell is the default cell: a single space, default attributes, no
// hyperlink. It differs from the zero Cell, whose grapheme is empty.
func BlankCell() Cell {
	c := Cell{Attrs: CellAttrs{link: noHyperlink}}
	c.SetGrapheme(" ")
	return c
}

// SetGrapheme stores s as the cell's content, truncating to its first rune
// if s does not fit in maxGraphemeBytes, and recomputes the cell's display
// width.
func (c *Cell) SetGrapheme(s string) {
	if len(s) > maxGraphemeBytes {
		r := []rune(s)[0]
		s = string(r)
	}
	c.graphemeLen = uint8(copy(c.grapheme[:], s))
	c.width = uint8(clampWidth(graphemeWidth(s)))
}

// Grapheme returns the cell's textual content.
func (c Cell) Grapheme() string {
	return string(c.grapheme[:c.graphemeLen])
}

// Width returns how many display columns this cell occupies: 0 for a wide
// character's spacer cell, 1 normally, 2 for a wide character's lead cell.
func (c Cell) Width() int { return int(c.width) }

// IsSpacer reports whether this cell is the trailing half of a wide
// character written into the previous column.
func (c Cell) IsSpacer() bool { return c.width == 0 }

func clampWidth(w int) int {
	if w < 0 {
		return 1
	}
	if w > 2 {
		return 2
	}
	return w
}

func graphemeWidth(s string) int {
	if s == "" {
		return 0
	}
	r := []rune(s)[0]
	return runewidth.RuneWidth(r)
}

// makeSpacerCell returns the zero-width trailing half of a wide character.
func makeSpacerCell() Cell {
	var c Cell
	c.width = 0
	c.Attrs.link = noHyperlink
	return c
}
