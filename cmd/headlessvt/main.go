// Command headlessvt runs a shell under a real pseudo-terminal and drives
// the headlessvt core from its output, as a manual-testing harness for
// the library rather than a terminal emulator product in its own right.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"github.com/spf13/cobra"

	vt "github.com/danielgatis/headlessvt"
	"github.com/danielgatis/headlessvt/scrollback"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		rows, cols int
		historyLen int
	)

	cmd := &cobra.Command{
		Use:   "headlessvt [-- command args...]",
		Short: "Run a command under a pty and print the resulting screen",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := append([]string(nil), args...)
			if len(shell) == 0 {
				shell = []string{os.Getenv("SHELL")}
				if shell[0] == "" {
					shell[0] = "/bin/sh"
				}
			}
			return run(shell, rows, cols, historyLen)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 24, "terminal rows")
	cmd.Flags().IntVar(&cols, "cols", 80, "terminal columns")
	cmd.Flags().IntVar(&historyLen, "scrollback", 2000, "scrollback lines to retain")
	return cmd
}

func run(shell []string, rows, cols, historyLen int) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	c := exec.Command(shell[0], shell[1:]...)
	ptyFile, err := pty.StartWithSize(c, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return fmt.Errorf("starting pty: %w", err)
	}
	defer ptyFile.Close()

	term := vt.New(rows, cols,
		vt.WithScrollback(scrollback.New(historyLen)),
		vt.WithLogger(logger),
	)
	host := &ptyHost{writer: ptyFile}

	buf := make([]byte, 4096)
	for {
		n, err := ptyFile.Read(buf)
		if n > 0 {
			for _, a := range term.AdvanceBytes(buf[:n], host) {
				if a.Kind == vt.AnswerbackWrite {
					ptyFile.Write(a.Data)
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("reading pty: %w", err)
		}
	}

	for y := 0; y < rows; y++ {
		fmt.Println(term.Screen().Line(vt.VisibleRowIndex(y)).String())
	}
	return c.Wait()
}

// ptyHost is the host passed to AdvanceBytes: its Write forwards to the
// pty, and title, clipboard and link callbacks are discarded. Answerback
// bytes are written to the pty by run, from AdvanceBytes's result.
type ptyHost struct {
	writer io.Writer
	vt.NoopTitle
	vt.NoopClipboard
	vt.NoopLink
}

func (h *ptyHost) Write(p []byte) (int, error) { return h.writer.Write(p) }

var _ vt.Host = (*ptyHost)(nil)
