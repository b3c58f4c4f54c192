package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// PagerOptions controls pager behavior
type PagerOptions struct {
	// NoPager disables the pager (--no-pager flag)
	NoPager bool
	// Command overrides BOARD_PAGER and PAGER.
	Command string
}

// shouldUsePager is false for --no-pager, BOARD_NO_PAGER and non-TTY stdout.
func shouldUsePager(opts PagerOptions) bool {
	if opts.NoPager || os.Getenv("BOARD_NO_PAGER") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// pagerCommand returns the pager argv: opts.Command, BOARD_PAGER, PAGER, then less.
func pagerCommand(opts PagerOptions) []string {
	for _, candidate := range []string{opts.Command, os.Getenv("BOARD_PAGER"), os.Getenv("PAGER")} {
		if parts := strings.Fields(candidate); len(parts) > 0 {
			return parts
		}
	}
	return []string{"less"}
}

// getTerminalHeight returns the height of the terminal in lines, or 0.
func getTerminalHeight() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	_, height, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return height
}

func contentHeight(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

// Page writes a rendered board to w, going through a pager when stdout is a
// terminal and the board is taller than it.
func Page(w io.Writer, content string, opts PagerOptions) error {
	if !shouldUsePager(opts) {
		_, err := fmt.Fprint(w, content)
		return err
	}
	if height := getTerminalHeight(); height > 0 && contentHeight(content) <= height-1 {
		_, err := fmt.Fprint(w, content)
		return err
	}

	argv := pagerCommand(opts)
	cmd := exec.Command(argv[0], argv[1:]...) // #nosec G204 - pager command is user-configurable by design
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = w
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if os.Getenv("LESS") == "" {
		// -R keeps lipgloss colors, -F exits on short boards, -X leaves the board on screen
		cmd.Env = append(cmd.Env, "LESS=-RFX")
	}
	return cmd.Run()
}
