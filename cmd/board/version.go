package main

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	// Version is the current version of board (overridden by ldflags at build time)
	Version = "0.1.0"
	// Build can be set via ldflags at compile time
	Build = "dev"
	// Commit is the git revision the binary was built from (optional ldflag)
	Commit = ""
)

// versionString formats the version line, with the short commit when known.
func versionString(commit string) string {
	if commit != "" {
		return fmt.Sprintf("board version %s (%s: %s)", Version, Build, shortCommit(commit))
	}
	return fmt.Sprintf("board version %s (%s)", Version, Build)
}

func writeVersion(w io.Writer, asJSON bool) error {
	commit := resolveCommitHash()
	if asJSON {
		result := map[string]string{
			"version": Version,
			"build":   Build,
		}
		if commit != "" {
			result["commit"] = commit
		}
		return encodeJSON(w, result)
	}
	_, err := fmt.Fprintln(w, versionString(commit))
	return err
}

var versionCmd = &cobra.Command{
	Use:     "version",
	GroupID: "data",
	Short:   "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeVersion(stdout, jsonOutput); err != nil {
			FatalError("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func resolveCommitHash() string {
	if Commit != "" {
		return Commit
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return setting.Value
			}
		}
	}

	return ""
}

func shortCommit(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
