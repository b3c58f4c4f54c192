// Package debug provides the verbose/quiet switches and stderr diagnostics
// shared by board commands.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	enabled     = os.Getenv("BOARD_DEBUG") != ""
	verboseMode = false
	quietMode   = false

	outMu  sync.Mutex
	errOut io.Writer = os.Stderr
	stdOut io.Writer = os.Stdout
)

func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet enables quiet mode (suppress non-essential output)
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}

// SetOutput redirects diagnostic and normal output; nil restores the defaults.
// Returns a function that puts the previous writers back.
func SetOutput(stdout, stderr io.Writer) (restore func()) {
	outMu.Lock()
	defer outMu.Unlock()
	prevOut, prevErr := stdOut, errOut
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	stdOut, errOut = stdout, stderr
	return func() {
		outMu.Lock()
		defer outMu.Unlock()
		stdOut, errOut = prevOut, prevErr
	}
}

// Logf writes a diagnostic line to stderr when BOARD_DEBUG is set or --verbose is on.
func Logf(format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintf(errOut, format, args...)
}

// PrintNormal prints output unless quiet mode is enabled
// Use this for normal informational output that should be suppressed in quiet mode
func PrintNormal(format string, args ...interface{}) {
	if quietMode {
		return
	}
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintf(stdOut, format, args...)
}

// NoticeNormal writes an informational line to stderr unless quiet mode is enabled.
func NoticeNormal(format string, args ...interface{}) {
	if quietMode {
		return
	}
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintf(errOut, format, args...)
}
