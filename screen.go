package vt

// PhysRowIndex and VisibleRowIndex are distinct defined types for the same
// underlying int, following the original's deliberate split between usize
// phys_row and signed VisibleRowIndex: in this module the two never need
// cross-conversion (scrollback lives behind ScrollbackProvider, not in the
// same vector as the visible rows), but keeping them as separate types
// still stops a visible-row value from being handed to an API that expects
// a physical index, or vice versa, by construction.
type PhysRowIndex int
type VisibleRowIndex int

// Screen is the fixed-size grid of physical rows that a Terminal's cursor
// actually addresses. A Terminal owns two Screens (primary and alternate);
// only the primary one is ever connected to a ScrollbackProvider.
type Screen struct {
	rows       int
	cols       int
	lines      []Line
	scrollback ScrollbackProvider
	links      *hyperlinkArena
}

// NewScreen returns a blank rows x cols screen. scrollback may be nil, in
// which case lines scrolled off the top are discarded (this is how the
// alternate screen is always constructed).
func NewScreen(rows, cols int, scrollback ScrollbackProvider) *Screen {
	s := &Screen{
		rows:       rows,
		cols:       cols,
		lines:      make([]Line, rows),
		scrollback: scrollback,
		links:      newHyperlinkArena(),
	}
	for i := range s.lines {
		s.lines[i] = NewLine(cols)
	}
	return s
}

func (s *Screen) Rows() int { return s.rows }
func (s *Screen) Cols() int { return s.cols }

// Line returns the line at visible row index y, or nil if out of range.
func (s *Screen) Line(y VisibleRowIndex) *Line {
	if y < 0 || int(y) >= len(s.lines) {
		return nil
	}
	return &s.lines[y]
}

// SetCell writes a grapheme cluster at (x, y) with the given attributes,
// padding the line with blanks first if x is beyond its current length —
// mirroring Screen::set_cell in the original, which pads with Cell::default
// before indexing.
func (s *Screen) SetCell(x int, y VisibleRowIndex, grapheme string, attrs CellAttrs) {
	line := s.Line(y)
	if line == nil {
		return
	}
	if x >= line.Len() {
		line.resize(x + 1)
	}
	c := line.Cell(x)
	if c == nil {
		return
	}
	if c.Attrs.link != attrs.link {
		s.links.release(c.Attrs.link)
		s.links.retain(attrs.link)
	}
	c.SetGrapheme(grapheme)
	c.Attrs = attrs
	line.MarkDirty()
}

// ClearLine blanks columns [from, to) of row y using attrs as the fill pen.
func (s *Screen) ClearLine(y VisibleRowIndex, from, to int, attrs CellAttrs) {
	line := s.Line(y)
	if line == nil {
		return
	}
	for i := from; i < to && i < line.Len(); i++ {
		if c := line.Cell(i); c != nil {
			s.links.release(c.Attrs.link)
		}
	}
	line.clearRange(from, to, attrs)
}

// ScrollUp moves content in [top, bottom) up by numRows, discarding the top
// numRows lines of the region (pushing them to scrollback first when the
// region starts at the very top of the screen) and filling the vacated
// bottom rows with blanks. Grounded in Screen::scroll_up.
func (s *Screen) ScrollUp(top, bottom, numRows int) {
	if numRows <= 0 {
		return
	}
	if top < 0 {
		top = 0
	}
	if bottom > s.rows {
		bottom = s.rows
	}
	if top >= bottom {
		return
	}
	regionHeight := bottom - top
	if numRows > regionHeight {
		numRows = regionHeight
	}

	for i := top; i < bottom; i++ {
		s.lines[i].MarkDirty()
	}

	if top == 0 && s.scrollback != nil {
		for i := 0; i < numRows; i++ {
			s.pushScrollback(&s.lines[top+i])
		}
	} else {
		for i := 0; i < numRows; i++ {
			s.releaseLine(&s.lines[top+i])
		}
	}

	copy(s.lines[top:bottom-numRows], s.lines[top+numRows:bottom])
	for i := bottom - numRows; i < bottom; i++ {
		s.lines[i] = NewLine(s.cols)
		s.lines[i].MarkDirty()
	}
}

// ScrollDown moves content in [top, bottom) down by numRows, discarding the
// bottom numRows lines of the region and filling the vacated top rows with
// blanks. Grounded in Screen::scroll_down. Scrolling down never touches
// scrollback: only forward (upward) motion pushes history.
func (s *Screen) ScrollDown(top, bottom, numRows int) {
	if numRows <= 0 {
		return
	}
	if top < 0 {
		top = 0
	}
	if bottom > s.rows {
		bottom = s.rows
	}
	if top >= bottom {
		return
	}
	regionHeight := bottom - top
	if numRows > regionHeight {
		numRows = regionHeight
	}

	for i := top; i < bottom; i++ {
		s.lines[i].MarkDirty()
	}
	for i := bottom - numRows; i < bottom; i++ {
		s.releaseLine(&s.lines[i])
	}

	copy(s.lines[top+numRows:bottom], s.lines[top:bottom-numRows])
	for i := top; i < top+numRows; i++ {
		s.lines[i] = NewLine(s.cols)
		s.lines[i].MarkDirty()
	}
}

func (s *Screen) releaseLine(l *Line) {
	for i := 0; i < l.Len(); i++ {
		if c := l.Cell(i); c != nil {
			s.links.release(c.Attrs.link)
		}
	}
}

func (s *Screen) pushScrollback(l *Line) {
	cp := make([]Cell, l.Len())
	copy(cp, l.cells)
	s.scrollback.Push(cp)
	s.releaseLine(l)
}

// Resize changes the screen's dimensions without reflowing any content
// (per the "no-reflow resize" design note): rows are appended/removed at
// the bottom, columns are padded/truncated on the right.
func (s *Screen) Resize(rows, cols int) {
	if cols != s.cols {
		for i := range s.lines {
			s.lines[i].resize(cols)
		}
		s.cols = cols
	}
	switch {
	case rows > s.rows:
		for i := s.rows; i < rows; i++ {
			s.lines = append(s.lines, NewLine(s.cols))
		}
	case rows < s.rows:
		for i := rows; i < s.rows; i++ {
			s.releaseLine(&s.lines[i])
		}
		s.lines = s.lines[:rows]
	}
	s.rows = rows
}

// DirtyLine pairs a visible row index with its line, for DirtyLines().
type DirtyLine struct {
	Row  int
	Line *Line
}

// DirtyLines returns every row currently marked dirty.
func (s *Screen) DirtyLines() []DirtyLine {
	var out []DirtyLine
	for i := range s.lines {
		if s.lines[i].Dirty() {
			out = append(out, DirtyLine{Row: i, Line: &s.lines[i]})
		}
	}
	return out
}

// CleanDirtyLines clears the dirty flag on every row.
func (s *Screen) CleanDirtyLines() {
	for i := range s.lines {
		s.lines[i].ClearDirty()
	}
}

// FillWithE implements DECALN: every cell of every row becomes 'E' with
// default attributes.
func (s *Screen) FillWithE() {
	for i := range s.lines {
		for j := 0; j < s.cols; j++ {
			c := s.lines[i].Cell(j)
			s.links.release(c.Attrs.link)
			*c = BlankCell()
			c.SetGrapheme("E")
		}
		s.lines[i].MarkDirty()
	}
}
