package ui

import (
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 120

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor follows the NO_COLOR and CLICOLOR conventions:
// NO_COLOR disables color, CLICOLOR_FORCE enables it even when piped,
// CLICOLOR=0 disables it, otherwise color is used on a terminal.
func ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force := os.Getenv("CLICOLOR_FORCE"); force != "" && force != "0" {
		return true
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	return IsTerminal()
}

// ApplyColorProfile configures lipgloss for the current environment and
// returns the chosen profile.
func ApplyColorProfile() termenv.Profile {
	profile := termenv.Ascii
	if ShouldUseColor() {
		profile = termenv.EnvColorProfile()
		if profile == termenv.Ascii {
			// CLICOLOR_FORCE on a dumb or piped output still gets basic colors.
			profile = termenv.ANSI
		}
	}
	lipgloss.SetColorProfile(profile)
	return profile
}

// TerminalWidth returns the width available for rendering. BOARD_WIDTH
// overrides detection.
func TerminalWidth() int {
	if w, err := strconv.Atoi(os.Getenv("BOARD_WIDTH")); err == nil && w > 0 {
		return w
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return DefaultWidth
}
