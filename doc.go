// Package vt implements a headless terminal emulator core: a byte-stream
// ANSI/VT parser driving a dual-screen cell-grid state machine, with no
// rendering, no PTY management, and no event loop of its own.
//
// # Quick start
//
// Create a Terminal, feed it bytes, read the grid back:
//
//	term := vt.New(24, 80)
//	term.AdvanceBytes([]byte("\x1b[31mHello \x1b[32mWorld\x1b[0m!"), nil)
//	fmt.Println(term.Screen().Line(0).String()) // "Hello World!"
//
// # Architecture
//
//   - [Parser]: a flat, table-driven byte-level state machine recognizing
//     C0 controls, UTF-8 text, and ESC/CSI/OSC/DCS/APC/PM/SOS sequences.
//   - [Terminal]: owns two [Screen] grids (primary and alternate), the
//     cursor, the current pen, and implements [Perform] to apply every
//     sequence the parser recognizes.
//   - [Cell]: one grid position — up to 8 bytes of UTF-8 grapheme cluster
//     plus packed attributes, two [Color] slots, and an optional hyperlink.
//
// # Dual screens
//
// The primary screen is the one an ordinary shell prints into, with
// scrollback if a [ScrollbackProvider] is attached via [WithScrollback].
// The alternate screen (entered via CSI ?1049h, used by full-screen
// programs like vim or less) never has scrollback and is always cleared
// on entry. [Terminal.IsAlternateScreen] reports which is active.
//
// # Single-threaded by design
//
// Terminal holds no internal lock: every method must be called from one
// goroutine at a time, matching the concurrency model of the system it
// emulates (a terminal processes its input stream in order). A host that
// needs concurrent PTY/stdin reads should serialize calls into Terminal
// (through a single channel, for instance) rather than add locking inside
// Terminal itself. cmd/headlessvt reads only the PTY, from one goroutine.
//
// # Hosts and providers
//
// [Host] bundles the capabilities Terminal calls out to while processing
// bytes or mouse events: setting the window title, reading/writing the
// clipboard, and being told a hyperlinked cell was clicked. Host also
// embeds an io.Writer, which Terminal does not write to: answerback bytes
// are returned from [Terminal.AdvanceBytes] instead. Each capability also
// has a Noop implementation, and [NoopHost] composes all of them for
// callers that don't need any.
//
// Scrolled-off lines go to whatever [ScrollbackProvider] is attached; the
// scrollback sub-package ships a simple in-memory ring buffer.
//
// # Keys and mouse
//
// [Terminal.KeyDown] translates a [KeyCode] and [KeyModifiers] into the
// byte sequence an application expects, honoring application-cursor-keys
// mode. [Terminal.MouseEvent] tracks click streaks for double/triple
// click selection and reports hyperlink clicks through [Host.ClickLink].
package vt
