package vt

// CSIActionKind names one recognized CSI action, decoupling "what does
// this sequence mean" (this file) from "how does the terminal apply it"
// (handler.go's csiDispatch), per the original's own CSIParser/CSIAction split.
type CSIActionKind uint8

const (
	ActionUnknown CSIActionKind = iota
	ActionSetPen
	ActionEraseInLine
	ActionEraseInDisplay
	ActionEraseChars
	ActionCursorUp
	ActionCursorDown
	ActionCursorForward
	ActionCursorBackward
	ActionCursorNextLine
	ActionCursorPrevLine
	ActionCursorHorizontalAbsolute
	ActionLinePositionAbsolute
	ActionCursorPosition
	ActionSetMode
	ActionResetMode
	ActionDeviceStatusReport
	ActionReportCursorPosition
	ActionSetScrollingRegion
	ActionRequestDeviceAttributes
	ActionDeleteLines
	ActionInsertLines
	ActionDeleteChars
	ActionInsertChars
	ActionSaveCursor
	ActionRestoreCursor
	ActionScrollUp
	ActionScrollDown
	ActionSoftReset
	ActionCursorStyle
	ActionTabClear
	ActionCursorBackwardTab
	ActionWindowOp
)

// EraseMode selects which part of a line or screen an erase
// action covers, matching ED/EL's 0/1/2(/3) parameter semantics.
type EraseMode uint8

const (
	EraseToEnd EraseMode = iota
	EraseToStart
	EraseAll
	EraseSaved // ED only: also clear scrollback
)

// CSIAction is the decoded, typed result of one CSI sequence: a kind plus
// whatever numeric/boolean payload that kind needs.
type CSIAction struct {
	Kind    CSIActionKind
	N       int // generic repeat count / row / column, meaning depends on Kind
	M       int // second coordinate, for ActionCursorPosition
	Erase   EraseMode
	Private bool  // DEC private parameter marker '?' was present (DECSET/DECRST/etc.)
	Modes   []int // raw mode numbers for SetMode/ResetMode
}

// decodeCSI turns one parsed CSI sequence into a typed CSIAction. The
// final byte selects the action; intermediates disambiguate the handful
// of overloaded finals that need them (' q' for cursor style, '!p' for
// soft reset); params supply the action's numeric arguments with ECMA-48's
// default-is-1 rule applied by param/paramOr.
func decodeCSI(params []int, private byte, intermediates []byte, final byte) CSIAction {
	isPrivate := private == '?'

	switch final {
	case 'm':
		return CSIAction{Kind: ActionSetPen, Modes: params}
	case 'K':
		return CSIAction{Kind: ActionEraseInLine, Erase: EraseMode(paramOr(params, 0, 0))}
	case 'J':
		return CSIAction{Kind: ActionEraseInDisplay, Erase: EraseMode(paramOr(params, 0, 0))}
	case 'X':
		return CSIAction{Kind: ActionEraseChars, N: param(params, 0, 1)}
	case 'A':
		return CSIAction{Kind: ActionCursorUp, N: param(params, 0, 1)}
	case 'B':
		return CSIAction{Kind: ActionCursorDown, N: param(params, 0, 1)}
	case 'C':
		return CSIAction{Kind: ActionCursorForward, N: param(params, 0, 1)}
	case 'D':
		return CSIAction{Kind: ActionCursorBackward, N: param(params, 0, 1)}
	case 'E':
		return CSIAction{Kind: ActionCursorNextLine, N: param(params, 0, 1)}
	case 'F':
		return CSIAction{Kind: ActionCursorPrevLine, N: param(params, 0, 1)}
	case 'G', '`':
		return CSIAction{Kind: ActionCursorHorizontalAbsolute, N: param(params, 0, 1)}
	case 'd':
		return CSIAction{Kind: ActionLinePositionAbsolute, N: param(params, 0, 1)}
	case 'H', 'f':
		return CSIAction{Kind: ActionCursorPosition, N: param(params, 0, 1), M: param(params, 1, 1)}
	case 'h':
		return CSIAction{Kind: ActionSetMode, Private: isPrivate, Modes: params}
	case 'l':
		return CSIAction{Kind: ActionResetMode, Private: isPrivate, Modes: params}
	case 'n':
		if param(params, 0, 0) == 6 {
			return CSIAction{Kind: ActionReportCursorPosition}
		}
		return CSIAction{Kind: ActionDeviceStatusReport, N: param(params, 0, 0)}
	case 'r':
		return CSIAction{Kind: ActionSetScrollingRegion, N: param(params, 0, 0), M: param(params, 1, 0)}
	case 'c':
		if !isPrivate {
			return CSIAction{Kind: ActionRequestDeviceAttributes}
		}
	case 'M':
		return CSIAction{Kind: ActionDeleteLines, N: param(params, 0, 1)}
	case 'L':
		return CSIAction{Kind: ActionInsertLines, N: param(params, 0, 1)}
	case 'P':
		return CSIAction{Kind: ActionDeleteChars, N: param(params, 0, 1)}
	case '@':
		return CSIAction{Kind: ActionInsertChars, N: param(params, 0, 1)}
	case 's':
		return CSIAction{Kind: ActionSaveCursor}
	case 'u':
		return CSIAction{Kind: ActionRestoreCursor}
	case 'S':
		return CSIAction{Kind: ActionScrollUp, N: param(params, 0, 1)}
	case 'T':
		return CSIAction{Kind: ActionScrollDown, N: param(params, 0, 1)}
	case 'p':
		if len(intermediates) == 1 && intermediates[0] == '!' {
			return CSIAction{Kind: ActionSoftReset}
		}
	case 'q':
		if len(intermediates) == 1 && intermediates[0] == ' ' {
			return CSIAction{Kind: ActionCursorStyle, N: param(params, 0, 0)}
		}
	case 'g':
		return CSIAction{Kind: ActionTabClear, N: param(params, 0, 0)}
	case 'Z':
		return CSIAction{Kind: ActionCursorBackwardTab, N: param(params, 0, 1)}
	case 't':
		return CSIAction{Kind: ActionWindowOp, N: param(params, 0, 0)}
	}
	return CSIAction{Kind: ActionUnknown}
}

// param returns params[i] if present and non-zero, else def — encoding
// ECMA-48's "parameter value 0 means the default" rule, which almost every
// CSI final byte with a repeat-count argument follows.
func param(params []int, i, def int) int {
	if i >= len(params) || params[i] == 0 {
		return def
	}
	return params[i]
}

// paramOr is like param but does not apply the zero-means-default rule
// (used for enumerated arguments like ED/EL's 0/1/2 where 0 is itself a
// meaningful, distinct value).
func paramOr(params []int, i, def int) int {
	if i >= len(params) {
		return def
	}
	return params[i]
}
