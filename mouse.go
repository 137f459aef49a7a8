package vt

import (
	"strings"
	"time"
)

// MouseButton identifies which physical button (or wheel direction)
// produced a MouseEvent.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseEventKind distinguishes a button going down, coming back up, or the
// pointer moving while a button is held.
type MouseEventKind uint8

const (
	MousePress MouseEventKind = iota
	MouseRelease
	MouseMove
)

// MouseEvent is a single pointer report from the host, in cell
// coordinates (0-based, clamped to the visible grid by the caller).
type MouseEvent struct {
	Kind   MouseEventKind
	Button MouseButton
	X, Y   int
	Mods   KeyModifiers
}

// Position is a single cell coordinate on the visible screen.
type Position struct {
	X, Y int
}

// defaultClickInterval bounds how long between two presses still counts as part
// of the same click streak (double/triple click); 500ms matches common
// terminal defaults.
const defaultClickInterval = 500 * time.Millisecond

// selectionState is the mouse/selection model: a click streak counter for
// double/triple-click semantics, and a simple anchor/extent pair
// describing the current selection (if any).
type selectionState struct {
	clickInterval time.Duration
	lastPressAt   time.Time
	lastPressPos  Position
	lastButton    MouseButton
	streak        int

	active bool
	anchor Position
	extent Position
	mode   selectionMode
}

type selectionMode uint8

const (
	selectChar selectionMode = iota
	selectWord
	selectLine
)

func newSelectionState() selectionState {
	return selectionState{clickInterval: defaultClickInterval}
}

// MouseEvent processes one pointer report: it tracks click streaks,
// drives selection start/extend/end, and — on a plain, non-dragging left
// click release over a hyperlinked cell — reports the click to host.
func (t *Terminal) MouseEvent(ev MouseEvent, host Host) {
	if host == nil {
		host = NoopHost{}
	}
	pos := Position{X: clampInt(ev.X, 0, t.cols-1), Y: clampInt(ev.Y, 0, t.rows-1)}

	switch ev.Kind {
	case MousePress:
		t.handlePress(ev, pos)
	case MouseMove:
		if t.sel.active && ev.Button == MouseLeft {
			t.sel.extent = pos
		}
	case MouseRelease:
		t.handleRelease(ev, pos, host)
	}
}

func (t *Terminal) handlePress(ev MouseEvent, pos Position) {
	now := time.Now()
	if ev.Button == t.sel.lastButton && pos == t.sel.lastPressPos && now.Sub(t.sel.lastPressAt) <= t.sel.clickInterval {
		t.sel.streak++
	} else {
		t.sel.streak = 1
	}
	t.sel.lastButton = ev.Button
	t.sel.lastPressPos = pos
	t.sel.lastPressAt = now

	if ev.Button != MouseLeft {
		return
	}

	t.sel.active = true
	t.sel.anchor = pos
	t.sel.extent = pos
	switch t.sel.streak % 3 {
	case 2:
		t.sel.mode = selectWord
	case 0:
		t.sel.mode = selectLine
	default:
		t.sel.mode = selectChar
	}
}

func (t *Terminal) handleRelease(ev MouseEvent, pos Position, host Host) {
	if ev.Button != MouseLeft {
		return
	}
	clicked := t.sel.active && t.sel.anchor == t.sel.lastPressPos && pos == t.sel.anchor
	t.sel.extent = pos
	if clicked {
		if link := t.hyperlinkAt(pos); link != nil {
			host.ClickLink(link.URI)
		}
	}
	if text := t.SelectedText(); text != "" {
		host.Write('c', []byte(text))
	}
}

// SelectedText reconstructs the text covered by the current selection, one
// line per row, joined with "\n". Returns "" if there is no selection.
func (t *Terminal) SelectedText() string {
	a, b, ok := t.SelectionRange()
	if !ok {
		return ""
	}
	var rows []string
	for y := a.Y; y <= b.Y; y++ {
		startX, endX := 0, t.cols-1
		if y == a.Y {
			startX = a.X
		}
		if y == b.Y {
			endX = b.X
		}
		rows = append(rows, t.rowText(y, startX, endX))
	}
	return strings.Join(rows, "\n")
}

// rowText reconstructs the text of row y between columns [from, to]
// (inclusive), skipping wide-character spacer cells.
func (t *Terminal) rowText(y, from, to int) string {
	line := t.active.Line(VisibleRowIndex(y))
	if line == nil {
		return ""
	}
	var b strings.Builder
	for x := from; x <= to && x < line.Len(); x++ {
		c := line.Cell(x)
		if c == nil || c.IsSpacer() {
			continue
		}
		b.WriteString(c.Grapheme())
	}
	return strings.TrimRight(b.String(), " ")
}

// ClearSelection drops any active selection.
func (t *Terminal) ClearSelection() {
	t.sel.active = false
}

// HasSelection reports whether a selection is currently active.
func (t *Terminal) HasSelection() bool { return t.sel.active }

// SelectionRange returns the selection's start and end positions in
// top-to-bottom, left-to-right order.
func (t *Terminal) SelectionRange() (Position, Position, bool) {
	if !t.sel.active {
		return Position{}, Position{}, false
	}
	a, b := t.sel.anchor, t.sel.extent
	if b.Y < a.Y || (b.Y == a.Y && b.X < a.X) {
		a, b = b, a
	}
	switch t.sel.mode {
	case selectLine:
		a.X, b.X = 0, t.cols-1
	case selectWord:
		a = t.wordStart(a)
		b = t.wordEnd(b)
	}
	return a, b, true
}

func (t *Terminal) isWordCell(p Position) bool {
	line := t.active.Line(VisibleRowIndex(p.Y))
	if line == nil {
		return false
	}
	c := line.Cell(p.X)
	return c != nil && c.Grapheme() != " " && c.Grapheme() != ""
}

// wordStart walks left from p while still inside the same run of
// non-blank cells, returning the leftmost cell of that run.
func (t *Terminal) wordStart(p Position) Position {
	if !t.isWordCell(p) {
		return p
	}
	for p.X > 0 && t.isWordCell(Position{X: p.X - 1, Y: p.Y}) {
		p.X--
	}
	return p
}

// wordEnd walks right from p while still inside the same run of
// non-blank cells, returning the rightmost cell of that run.
func (t *Terminal) wordEnd(p Position) Position {
	if !t.isWordCell(p) {
		return p
	}
	for p.X < t.cols-1 && t.isWordCell(Position{X: p.X + 1, Y: p.Y}) {
		p.X++
	}
	return p
}

func (t *Terminal) hyperlinkAt(p Position) *Hyperlink {
	line := t.active.Line(VisibleRowIndex(p.Y))
	if line == nil {
		return nil
	}
	c := line.Cell(p.X)
	if c == nil {
		return nil
	}
	return t.active.links.get(c.Attrs.link)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
