package vt

import (
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"
)

var _ Perform = (*Terminal)(nil)

// print places one decoded rune at the cursor, honoring deferred line wrap:
// writing into the last column does not wrap immediately — only the next
// printed grapheme does, after first executing the pending newline. Before
// treating g as a new cell, it first tries to fold g into the cell the
// cursor just passed over (combineIntoPrevious), since the parser hands
// print one rune at a time and a combining mark or ZWJ continuation must
// still land in the same cell as its base character.
func (t *Terminal) print(g string) {
	if t.combineIntoPrevious(g) {
		return
	}

	if t.wrapNext {
		if line := t.active.Line(t.cursorY); line != nil {
			line.Wrapped = true
		}
		t.newLine(true)
		t.wrapNext = false
	}

	w := clampWidth(graphemeWidth(g))
	if w == 0 {
		w = 1
	}
	x := t.cursorX
	if x+w > t.cols {
		if line := t.active.Line(t.cursorY); line != nil {
			line.Wrapped = true
		}
		t.newLine(true)
		x = 0
	}

	attrs := t.currentAttrs()
	if t.insertMode {
		t.cursorX = x
		t.insertChars(w)
	}
	t.active.SetCell(x, t.cursorY, g, attrs)
	if w == 2 && x+1 < t.cols {
		line := t.active.Line(t.cursorY)
		if c := line.Cell(x + 1); c != nil {
			t.active.links.release(c.Attrs.link)
			*c = makeSpacerCell()
			c.Attrs = attrs
			line.MarkDirty()
		}
	}

	if x+w < t.cols {
		t.cursorX = x + w
	} else {
		t.cursorX = t.cols - 1
		t.wrapNext = true
	}
}

// combineIntoPrevious reports whether g belongs in the same cell as
// whatever the cursor just wrote — a base rune followed by a combining
// mark, or a later member of a ZWJ sequence, both of which the parser
// hands to print as a separate rune rather than a pre-assembled cluster.
// It asks uniseg whether the previous cell's grapheme plus g still forms
// exactly one extended grapheme cluster; if so it rewrites that cell in
// place and the cursor does not move. Never merges across a line wrap or
// into a wide character's spacer half.
func (t *Terminal) combineIntoPrevious(g string) bool {
	// With a wrap pending the cursor still sits on the cell just written.
	prevX := t.cursorX - 1
	if t.wrapNext {
		prevX = t.cursorX
	}
	if prevX < 0 {
		return false
	}
	line := t.active.Line(t.cursorY)
	if line == nil {
		return false
	}
	prev := line.Cell(prevX)
	if prev == nil || prev.IsSpacer() {
		return false
	}
	candidate := prev.Grapheme() + g
	gr := uniseg.NewGraphemes(candidate)
	if !gr.Next() || gr.Str() != candidate || gr.Next() {
		return false
	}
	prev.SetGrapheme(candidate)
	line.MarkDirty()
	return true
}

// execute implements the C0 control handling of the parser's execute event.
func (t *Terminal) execute(b byte) {
	switch b {
	case '\n', 0x0b, 0x0c:
		t.newLine(t.lineFeedNewLine)
	case '\r':
		t.cursorX = 0
		t.wrapNext = false
	case 0x08:
		t.moveCursor(-1, 0)
	case '\t':
		t.tabForward()
	case 0x07:
		t.pushAnswerback(Answerback{Kind: AnswerbackBell})
	default:
		t.logger.Debug("unhandled control byte", "byte", b)
	}
}

// escDispatch applies one two-character (or longer, with intermediates)
// escape sequence once the parser has collected its final byte.
func (t *Terminal) escDispatch(intermediates []byte, final byte) {
	switch final {
	case '\\':
		// ST outside any string state: nothing to terminate.
	case 'D':
		t.newLine(false) // IND
	case 'E':
		t.newLine(true) // NEL
	case 'M':
		t.reverseIndex() // RI
	case 'H':
		t.setTabStop() // HTS
	case '=':
		t.applicationKeypad = true
	case '>':
		t.applicationKeypad = false
	case 'c':
		t.fullReset() // RIS
	case '7':
		t.saveCursor()
	case '8':
		if len(intermediates) == 1 && intermediates[0] == '#' {
			t.active.FillWithE() // DECALN
		} else {
			t.restoreCursor() // DECRC
		}
	case '0', 'B':
		// G0 charset selection (line-drawing / ASCII): line-drawing
		// translation is not modeled in this module, so both are no-ops.
	default:
		t.logger.Debug("unhandled escape sequence", "intermediates", string(intermediates), "final", string(final))
	}
}

// csiDispatch decodes then applies one CSI sequence.
func (t *Terminal) csiDispatch(params []int, private byte, intermediates []byte, final byte) {
	action := decodeCSI(params, private, intermediates, final)
	switch action.Kind {
	case ActionSetPen:
		t.applySGR(action.Modes)
	case ActionEraseInLine:
		t.eraseInLine(action.Erase)
	case ActionEraseInDisplay:
		t.eraseInDisplay(action.Erase)
	case ActionEraseChars:
		t.eraseChars(action.N)
	case ActionCursorUp:
		t.moveCursor(0, -action.N)
	case ActionCursorDown:
		t.moveCursor(0, action.N)
	case ActionCursorForward:
		t.moveCursor(action.N, 0)
	case ActionCursorBackward:
		t.moveCursor(-action.N, 0)
	case ActionCursorNextLine:
		t.moveCursor(0, action.N)
		t.cursorX = 0
	case ActionCursorPrevLine:
		t.moveCursor(0, -action.N)
		t.cursorX = 0
	case ActionCursorHorizontalAbsolute:
		t.cursorX = clampInt(action.N-1, 0, t.cols-1)
		t.wrapNext = false
	case ActionLinePositionAbsolute:
		t.gotoAbs(t.cursorX, action.N-1)
	case ActionCursorPosition:
		t.gotoAbs(action.M-1, action.N-1)
	case ActionSetMode:
		for _, m := range action.Modes {
			t.setMode(m, action.Private, true)
		}
	case ActionResetMode:
		for _, m := range action.Modes {
			t.setMode(m, action.Private, false)
		}
	case ActionDeviceStatusReport:
		if action.N == 5 {
			t.pushAnswerback(Answerback{Kind: AnswerbackWrite, Data: []byte("\x1b[0n")})
		}
	case ActionReportCursorPosition:
		t.pushAnswerback(Answerback{Kind: AnswerbackWrite, Data: fmtCSI("\x1b[%d;%dR", int(t.cursorY)+1, t.cursorX+1)})
	case ActionSetScrollingRegion:
		t.setScrollingRegion(action.N, action.M)
	case ActionRequestDeviceAttributes:
		t.pushAnswerback(Answerback{Kind: AnswerbackWrite, Data: []byte("\x1b[?6c")})
	case ActionDeleteLines:
		t.deleteLines(action.N)
	case ActionInsertLines:
		t.insertLines(action.N)
	case ActionDeleteChars:
		t.deleteChars(action.N)
	case ActionInsertChars:
		t.insertChars(action.N)
	case ActionSaveCursor:
		t.saveCursor()
	case ActionRestoreCursor:
		t.restoreCursor()
	case ActionScrollUp:
		t.active.ScrollUp(t.scrollTop, t.scrollBottom, action.N)
	case ActionScrollDown:
		t.active.ScrollDown(t.scrollTop, t.scrollBottom, action.N)
	case ActionSoftReset:
		t.softReset()
	case ActionCursorStyle:
		t.cursorStyle = action.N
	case ActionTabClear:
		t.clearTabStop(action.N == 3)
	case ActionCursorBackwardTab:
		for i := 0; i < action.N; i++ {
			t.tabBackward()
		}
	case ActionWindowOp:
		switch action.N {
		case 22:
			t.pushTitle()
		case 23:
			t.popTitle()
		}
	default:
		t.logger.Debug("unhandled CSI sequence", "final", string(final))
	}
}

func (t *Terminal) eraseInLine(mode EraseMode) {
	attrs := t.currentAttrs()
	switch mode {
	case EraseToEnd:
		t.active.ClearLine(t.cursorY, t.cursorX, t.cols, attrs)
	case EraseToStart:
		t.active.ClearLine(t.cursorY, 0, t.cursorX+1, attrs)
	case EraseAll:
		t.active.ClearLine(t.cursorY, 0, t.cols, attrs)
	}
}

func (t *Terminal) eraseInDisplay(mode EraseMode) {
	attrs := t.currentAttrs()
	switch mode {
	case EraseToEnd:
		t.active.ClearLine(t.cursorY, t.cursorX, t.cols, attrs)
		for y := int(t.cursorY) + 1; y < t.rows; y++ {
			t.active.ClearLine(VisibleRowIndex(y), 0, t.cols, attrs)
		}
	case EraseToStart:
		t.active.ClearLine(t.cursorY, 0, t.cursorX+1, attrs)
		for y := 0; y < int(t.cursorY); y++ {
			t.active.ClearLine(VisibleRowIndex(y), 0, t.cols, attrs)
		}
	case EraseAll, EraseSaved:
		for y := 0; y < t.rows; y++ {
			t.active.ClearLine(VisibleRowIndex(y), 0, t.cols, attrs)
		}
		if mode == EraseSaved && t.active == t.primary {
			t.active.scrollback.Clear()
		}
	}
}

func (t *Terminal) eraseChars(n int) {
	if n < 0 {
		return
	}
	to := t.cursorX + n
	if to > t.cols {
		to = t.cols
	}
	t.active.ClearLine(t.cursorY, t.cursorX, to, t.currentAttrs())
}

func (t *Terminal) setScrollingRegion(top, bottom int) {
	if top == 0 {
		top = 1
	}
	if bottom == 0 {
		bottom = t.rows
	}
	if top > bottom {
		top, bottom = bottom, top
	}
	top0 := clampInt(top-1, 0, t.rows-1)
	bottom0 := clampInt(bottom, top0+1, t.rows)
	t.scrollTop, t.scrollBottom = top0, bottom0
	t.gotoAbs(0, 0)
}

func (t *Terminal) deleteLines(n int) {
	y := int(t.cursorY)
	if y < t.scrollTop || y >= t.scrollBottom {
		return
	}
	t.active.ScrollUp(y, t.scrollBottom, n)
}

func (t *Terminal) insertLines(n int) {
	y := int(t.cursorY)
	if y < t.scrollTop || y >= t.scrollBottom {
		return
	}
	t.active.ScrollDown(y, t.scrollBottom, n)
}

func (t *Terminal) deleteChars(n int) {
	if n < 0 {
		return
	}
	line := t.active.Line(t.cursorY)
	if line == nil {
		return
	}
	width := line.Len()
	for i := t.cursorX; i < width; i++ {
		src := i + n
		if src < width {
			*line.Cell(i) = *line.Cell(src)
		} else {
			c := BlankCell()
			c.Attrs = t.currentAttrs()
			*line.Cell(i) = c
		}
	}
	line.MarkDirty()
}

func (t *Terminal) insertChars(n int) {
	if n < 0 {
		return
	}
	line := t.active.Line(t.cursorY)
	if line == nil {
		return
	}
	width := line.Len()
	for i := width - 1; i >= t.cursorX; i-- {
		src := i - n
		if src >= t.cursorX {
			*line.Cell(i) = *line.Cell(src)
		} else {
			c := BlankCell()
			c.Attrs = t.currentAttrs()
			*line.Cell(i) = c
		}
	}
	line.MarkDirty()
}

// setMode applies one DECSET(private)/SM(ANSI) or DECRST/RM mode number.
func (t *Terminal) setMode(mode int, private bool, on bool) {
	if private {
		switch mode {
		case 1:
			t.applicationCursorKeys = on
		case 6:
			t.originMode = on
			if on {
				t.gotoAbs(0, 0)
			}
		case 7:
			t.autoWrap = on
		case 25:
			t.showCursor = on
		case 1049:
			t.setAlternateScreen(on)
		case 2004:
			t.bracketedPaste = on
		default:
			t.logger.Debug("unhandled DEC private mode", "mode", mode, "on", on)
		}
		return
	}
	switch mode {
	case 4:
		t.insertMode = on
	case 20:
		t.lineFeedNewLine = on
	default:
		t.logger.Debug("unhandled ANSI mode", "mode", mode, "on", on)
	}
}

// oscDispatch handles the title (0/1/2), hyperlink (8) and clipboard (52)
// OSC codes; anything else is logged and dropped.
func (t *Terminal) oscDispatch(params [][]byte) {
	if len(params) == 0 {
		return
	}
	switch string(params[0]) {
	case "0", "1", "2":
		if len(params) > 1 {
			title := string(params[1])
			t.title = title
			t.pushAnswerback(Answerback{Kind: AnswerbackTitleChanged, Title: title})
			if t.hostForDispatch != nil {
				t.hostForDispatch.SetTitle(title)
			}
		}
	case "8":
		t.handleHyperlink(params)
	case "52":
		t.handleClipboard(params)
	default:
		t.logger.Debug("unhandled OSC", "code", string(params[0]))
	}
}

func (t *Terminal) handleHyperlink(params [][]byte) {
	if len(params) < 3 {
		if len(params) == 2 && len(params[1]) == 0 {
			t.currentLink = nil
		}
		return
	}
	uri := string(params[2])
	if uri == "" {
		t.currentLink = nil
		return
	}
	id := ""
	for _, kv := range strings.Split(string(params[1]), ":") {
		if strings.HasPrefix(kv, "id=") {
			id = strings.TrimPrefix(kv, "id=")
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	t.currentLink = &Hyperlink{ID: id, URI: uri}
}

func (t *Terminal) handleClipboard(params [][]byte) {
	if len(params) < 3 || t.hostForDispatch == nil {
		return
	}
	selector := byte('c')
	if len(params[1]) > 0 {
		selector = params[1][0]
	}
	payload := string(params[2])
	if payload == "?" {
		data := t.hostForDispatch.Read(selector)
		encoded := base64.StdEncoding.EncodeToString([]byte(data))
		t.pushAnswerback(Answerback{Kind: AnswerbackWrite, Data: []byte("\x1b]52;" + string(selector) + ";" + encoded + "\x1b\\")})
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.logger.Debug("malformed OSC 52 payload", "error", err)
		return
	}
	t.hostForDispatch.Write(selector, decoded)
}

func (t *Terminal) hook()          {}
func (t *Terminal) put(b byte)     {}
func (t *Terminal) unhook()        {}
func (t *Terminal) apcDispatch(d []byte) {}
func (t *Terminal) pmDispatch(d []byte)  {}
func (t *Terminal) sosDispatch(d []byte) {}

// applySGR applies one or more Select Graphic Rendition parameters to the
// current pen: 0 resets, 1/2/3/4/5/7/8/9 set attributes, 21 sets underline
// (there is no separate double underline), 22-29 unset attributes,
// 30-37/40-47/90-97/100-107 select basic and bright colors, 38/48 select
// extended 256-color or true-color, and 39/49 restore the default color.
func (t *Terminal) applySGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			t.pen = CellAttrs{link: t.pen.link}
		case p == 1:
			t.pen.SetBold(true)
		case p == 2:
			t.pen.SetDim(true)
		case p == 3:
			t.pen.SetItalic(true)
		case p == 4:
			t.pen.SetUnderline(true)
		case p == 5 || p == 6:
			t.pen.SetBlink(true)
		case p == 7:
			t.pen.SetReverse(true)
		case p == 8:
			t.pen.SetInvisible(true)
		case p == 9:
			t.pen.SetStrikethrough(true)
		case p == 21:
			t.pen.SetUnderline(true)
		case p == 22:
			t.pen.SetBold(false)
			t.pen.SetDim(false)
		case p == 23:
			t.pen.SetItalic(false)
		case p == 24:
			t.pen.SetUnderline(false)
		case p == 25:
			t.pen.SetBlink(false)
		case p == 27:
			t.pen.SetReverse(false)
		case p == 28:
			t.pen.SetInvisible(false)
		case p == 29:
			t.pen.SetStrikethrough(false)
		case p >= 30 && p <= 37:
			t.pen.Fg = Palette(uint8(p - 30))
		case p == 38:
			i += t.applyExtendedColor(params[i+1:], true)
		case p == 39:
			t.pen.Fg = DefaultColor
		case p >= 40 && p <= 47:
			t.pen.Bg = Palette(uint8(p - 40))
		case p == 48:
			i += t.applyExtendedColor(params[i+1:], false)
		case p == 49:
			t.pen.Bg = DefaultColor
		case p >= 90 && p <= 97:
			t.pen.Fg = Palette(uint8(p-90) + 8)
		case p >= 100 && p <= 107:
			t.pen.Bg = Palette(uint8(p-100) + 8)
		}
	}
}

// applyExtendedColor consumes the 5;n or 2;r;g;b sub-sequence following an
// SGR 38/48 parameter and returns how many extra params it consumed.
func (t *Terminal) applyExtendedColor(rest []int, fg bool) int {
	if len(rest) == 0 {
		return 0
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return 1
		}
		c := Palette(uint8(rest[1]))
		if fg {
			t.pen.Fg = c
		} else {
			t.pen.Bg = c
		}
		return 2
	case 2:
		if len(rest) < 4 {
			return len(rest)
		}
		c := TrueColor(uint8(rest[1]), uint8(rest[2]), uint8(rest[3]))
		if fg {
			t.pen.Fg = c
		} else {
			t.pen.Bg = c
		}
		return 4
	default:
		return 1
	}
}
