package vt

import (
	"fmt"
	"log/slog"
	"time"
)

// SavedCursor is the DECSC/DECRC snapshot: position, pen, and origin mode,
// matching the original's saved_cursor field.
type SavedCursor struct {
	X          int
	Y          int
	Pen        CellAttrs
	OriginMode bool
}

// AnswerbackKind tags the payload of one queued Answerback, mirroring the
// original's two-variant AnswerBack enum (plus a Bell variant this module
// adds so BEL is observable the same way title changes are).
type AnswerbackKind uint8

const (
	AnswerbackWrite AnswerbackKind = iota
	AnswerbackTitleChanged
	AnswerbackBell
)

// Answerback is one item a Terminal wants to report back to its host after
// processing a chunk of bytes: either raw bytes to write back down the
// pty (a DSR/DA reply, for instance), a title change, or a bell ring.
type Answerback struct {
	Kind  AnswerbackKind
	Data  []byte
	Title string
}

// Option configures a Terminal at construction time.
type Option func(*Terminal)

// WithScrollback attaches a ScrollbackProvider to the primary screen. The
// alternate screen never has one (it always discards scrolled-off lines),
// matching real terminal behavior.
func WithScrollback(p ScrollbackProvider) Option {
	return func(t *Terminal) { t.primary.scrollback = p }
}

// WithLogger overrides the default slog.Logger used for malformed-input
// and unhandled-sequence recovery diagnostics. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Terminal) { t.logger = l }
}

// WithClickInterval overrides the double/triple-click detection window
// (default 500ms).
func WithClickInterval(d time.Duration) Option {
	return func(t *Terminal) { t.sel.clickInterval = d }
}

// Terminal is the headless terminal emulator core: a byte-stream parser
// feeding a dual-screen state machine. It is single-threaded and
// synchronous by design — callers that need to drive it from multiple
// goroutines must serialize calls themselves.
type Terminal struct {
	rows, cols int

	primary   *Screen
	alternate *Screen
	active    *Screen
	altScreen bool

	cursorX int
	cursorY VisibleRowIndex
	pen     CellAttrs
	wrapNext bool

	savedPrimary   SavedCursor
	savedAlternate SavedCursor

	scrollTop    int // inclusive, 0-based
	scrollBottom int // exclusive, 0-based

	originMode             bool
	autoWrap               bool
	showCursor             bool
	insertMode             bool
	applicationCursorKeys  bool
	applicationKeypad      bool
	bracketedPaste         bool
	lineFeedNewLine        bool
	cursorStyle            int

	tabStops []bool

	title      string
	titleStack []string

	currentLink *Hyperlink

	answerback []Answerback

	parser *Parser
	sel    selectionState

	logger *slog.Logger

	// hostForDispatch is valid only for the duration of one AdvanceBytes
	// call, so OSC handlers (title, clipboard) can reach the caller-supplied
	// Host without threading it through every Perform method's signature.
	hostForDispatch Host
}

// New constructs a Terminal with the given visible size. It takes no
// scrollback size: history is retained only by a ScrollbackProvider passed
// via WithScrollback; with none, scrolled-off lines are discarded.
func New(rows, cols int, opts ...Option) *Terminal {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	t := &Terminal{
		rows:       rows,
		cols:       cols,
		primary:    NewScreen(rows, cols, NoopScrollback{}),
		alternate:  NewScreen(rows, cols, NoopScrollback{}),
		scrollTop:  0,
		scrollBottom: rows,
		autoWrap:   true,
		showCursor: true,
		parser:     NewParser(),
		sel:        newSelectionState(),
		logger:     slog.Default(),
	}
	t.pen.link = noHyperlink
	t.active = t.primary
	t.resetTabStops()
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Terminal) resetTabStops() {
	t.tabStops = make([]bool, t.cols)
	for i := 0; i < t.cols; i += 8 {
		t.tabStops[i] = true
	}
}

// AdvanceBytes feeds data through the parser, applying every recognized
// effect to the terminal's state, and returns the answerback items
// produced while doing so (the queue is drained on every call, per the
// original's advance_bytes).
func (t *Terminal) AdvanceBytes(data []byte, host Host) []Answerback {
	if host == nil {
		host = NoopHost{}
	}
	t.hostForDispatch = host
	t.parser.Advance(t, data)
	t.hostForDispatch = nil
	out := t.answerback
	t.answerback = nil
	return out
}

// CursorPos returns the cursor's current column and row, both 0-based.
func (t *Terminal) CursorPos() (x, y int) { return t.cursorX, int(t.cursorY) }

// Screen returns the currently active screen (primary or alternate).
func (t *Terminal) Screen() *Screen { return t.active }

// IsAlternateScreen reports whether the alternate screen is active.
func (t *Terminal) IsAlternateScreen() bool { return t.altScreen }

// DirtyLines returns every row of the active screen marked dirty since
// the last CleanDirtyLines call.
func (t *Terminal) DirtyLines() []DirtyLine { return t.active.DirtyLines() }

// CleanDirtyLines clears the active screen's dirty flags.
func (t *Terminal) CleanDirtyLines() { t.active.CleanDirtyLines() }

// Title returns the current window title (OSC 0/1/2).
func (t *Terminal) Title() string { return t.title }

// CursorStyle returns the DECSCUSR (CSI Ps SP q) style last requested by
// the application: 0/1 blinking block, 2 steady block, 3 blinking
// underline, 4 steady underline, 5 blinking bar, 6 steady bar. A host's
// renderer calls this to draw the cursor in the shape the application
// asked for instead of always drawing a block.
func (t *Terminal) CursorStyle() int { return t.cursorStyle }

// pushTitle implements CSI 22 t: save the current title to a stack so a
// later pop can restore it, the xterm convention full-screen applications
// (vim, less) rely on to leave the title as they found it on exit.
func (t *Terminal) pushTitle() {
	t.titleStack = append(t.titleStack, t.title)
	if t.hostForDispatch != nil {
		t.hostForDispatch.PushTitle()
	}
}

// popTitle implements CSI 23 t: restore the most recently pushed title.
// A pop with nothing on the stack is a no-op.
func (t *Terminal) popTitle() {
	if len(t.titleStack) == 0 {
		return
	}
	n := len(t.titleStack) - 1
	title := t.titleStack[n]
	t.titleStack = t.titleStack[:n]
	t.title = title
	t.pushAnswerback(Answerback{Kind: AnswerbackTitleChanged, Title: title})
	if t.hostForDispatch != nil {
		t.hostForDispatch.SetTitle(title)
		t.hostForDispatch.PopTitle()
	}
}

// Resize changes the terminal's visible size. Both screens resize without
// reflowing content; the scroll region resets to the full screen and the
// cursor is clamped into bounds.
func (t *Terminal) Resize(rows, cols int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	t.primary.Resize(rows, cols)
	t.alternate.Resize(rows, cols)
	t.rows, t.cols = rows, cols
	t.scrollTop, t.scrollBottom = 0, rows
	t.cursorX = clampInt(t.cursorX, 0, cols-1)
	t.cursorY = VisibleRowIndex(clampInt(int(t.cursorY), 0, rows-1))
	t.wrapNext = false
	t.resetTabStops()
}

// KeyDown translates a key press into the byte sequence the application
// expects and returns it; the caller is responsible for writing it to the
// pty.
func (t *Terminal) KeyDown(key KeyCode, mods KeyModifiers) string {
	return translateKey(key, mods, t.applicationCursorKeys)
}

// KeyUp produces no output for any key in this model; it exists so hosts
// have a symmetric call to make without special-casing key-up events.
func (t *Terminal) KeyUp(key KeyCode, mods KeyModifiers) string { return "" }

func (t *Terminal) pushAnswerback(a Answerback) {
	t.answerback = append(t.answerback, a)
}

func (t *Terminal) currentAttrs() CellAttrs {
	a := t.pen
	a.link = t.active.links.indexFor(t.currentLink)
	return a
}

// --- cursor movement helpers -------------------------------------------------

// gotoAbs moves the cursor to an absolute (col, row) position, honoring
// origin mode's restriction to the current scroll region, and always
// clears wrapNext — any explicit cursor positioning cancels a pending
// deferred wrap.
func (t *Terminal) gotoAbs(col, row int) {
	top, bottom := 0, t.rows
	if t.originMode {
		top, bottom = t.scrollTop, t.scrollBottom
	}
	if bottom <= top {
		bottom = top + 1
	}
	actualRow := top + clampInt(row, 0, bottom-top-1)
	t.cursorX = clampInt(col, 0, t.cols-1)
	t.cursorY = VisibleRowIndex(actualRow)
	t.wrapNext = false
}

// moveCursor applies a relative motion, clamped to the full screen
// regardless of scroll region or origin mode, matching plain CUU/CUD/
// CUF/CUB semantics.
func (t *Terminal) moveCursor(dCol, dRow int) {
	t.cursorX = clampInt(t.cursorX+dCol, 0, t.cols-1)
	t.cursorY = VisibleRowIndex(clampInt(int(t.cursorY)+dRow, 0, t.rows-1))
	t.wrapNext = false
}

// newLine implements IND (moveToFirstColumn=false), NEL
// (moveToFirstColumn=true) and LF (moveToFirstColumn set from line-feed/
// new-line mode): advance to the next row, scrolling the region
// up by one if the cursor was already on its last row. Grounded in
// TerminalState::new_line.
func (t *Terminal) newLine(moveToFirstColumn bool) {
	x := t.cursorX
	if moveToFirstColumn {
		x = 0
	}
	y := int(t.cursorY)
	if y == t.scrollBottom-1 {
		t.active.ScrollUp(t.scrollTop, t.scrollBottom, 1)
	} else if y < t.rows-1 {
		y++
	}
	t.cursorX = x
	t.cursorY = VisibleRowIndex(y)
	t.wrapNext = false
}

// reverseIndex implements ESC M (RI): move up one row, scrolling the
// region down by one if the cursor was already on its first row.
// Grounded in TerminalState::reverse_index.
func (t *Terminal) reverseIndex() {
	y := int(t.cursorY)
	if y == t.scrollTop {
		t.active.ScrollDown(t.scrollTop, t.scrollBottom, 1)
	} else if y > 0 {
		y--
	}
	t.cursorY = VisibleRowIndex(y)
	t.wrapNext = false
}

func (t *Terminal) tabForward() {
	x := t.cursorX + 1
	for x < t.cols && !t.tabStops[x] {
		x++
	}
	if x >= t.cols {
		x = t.cols - 1
	}
	t.cursorX = x
}

func (t *Terminal) tabBackward() {
	x := t.cursorX - 1
	for x > 0 && !t.tabStops[x] {
		x--
	}
	if x < 0 {
		x = 0
	}
	t.cursorX = x
}

func (t *Terminal) setTabStop() {
	if t.cursorX >= 0 && t.cursorX < len(t.tabStops) {
		t.tabStops[t.cursorX] = true
	}
}

func (t *Terminal) clearTabStop(all bool) {
	if all {
		for i := range t.tabStops {
			t.tabStops[i] = false
		}
		return
	}
	if t.cursorX >= 0 && t.cursorX < len(t.tabStops) {
		t.tabStops[t.cursorX] = false
	}
}

// --- save/restore/reset ------------------------------------------------------

func (t *Terminal) saveCursor() {
	s := SavedCursor{X: t.cursorX, Y: int(t.cursorY), Pen: t.pen, OriginMode: t.originMode}
	if t.altScreen {
		t.savedAlternate = s
	} else {
		t.savedPrimary = s
	}
}

func (t *Terminal) restoreCursor() {
	var s SavedCursor
	if t.altScreen {
		s = t.savedAlternate
	} else {
		s = t.savedPrimary
	}
	t.cursorX = clampInt(s.X, 0, t.cols-1)
	t.cursorY = VisibleRowIndex(clampInt(s.Y, 0, t.rows-1))
	t.pen = s.Pen
	t.originMode = s.OriginMode
	t.wrapNext = false
}

// softReset implements DECSTR (CSI ! p): resets modes, pen and scroll
// region but leaves screen contents untouched, and drops the current
// hyperlink (verified against the original's hyperlink test, which
// expects a hyperlink attribute to survive a plain SGR reset but not a
// soft terminal reset).
func (t *Terminal) softReset() {
	t.pen = CellAttrs{link: noHyperlink}
	t.currentLink = nil
	t.originMode = false
	t.autoWrap = true
	t.showCursor = true
	t.insertMode = false
	t.applicationCursorKeys = false
	t.applicationKeypad = false
	t.bracketedPaste = false
	t.scrollTop, t.scrollBottom = 0, t.rows
	t.wrapNext = false
}

// fullReset implements RIS (ESC c): clears the screen and performs a
// softReset, additionally dropping saved-cursor state and the title.
func (t *Terminal) fullReset() {
	t.softReset()
	t.cursorX, t.cursorY = 0, 0
	t.savedPrimary = SavedCursor{}
	t.savedAlternate = SavedCursor{}
	t.title = ""
	t.titleStack = nil
	blank := CellAttrs{link: noHyperlink}
	for y := 0; y < t.rows; y++ {
		t.active.ClearLine(VisibleRowIndex(y), 0, t.cols, blank)
	}
}

// setAlternateScreen implements DECSET/DECRST 1049: switching to the
// alternate screen saves the cursor and clears the new screen; switching
// back restores it. Grounded in the teacher's handling of
// TerminalModeSwapScreenAndSetRestoreCursor.
func (t *Terminal) setAlternateScreen(on bool) {
	if on == t.altScreen {
		return
	}
	if on {
		t.saveCursor()
		t.altScreen = true
		t.active = t.alternate
		blank := CellAttrs{link: noHyperlink}
		for y := 0; y < t.rows; y++ {
			t.active.ClearLine(VisibleRowIndex(y), 0, t.cols, blank)
		}
	} else {
		t.altScreen = false
		t.active = t.primary
		t.restoreCursor()
	}
}

func fmtCSI(format string, args ...interface{}) []byte {
	return []byte(fmt.Sprintf(format, args...))
}
