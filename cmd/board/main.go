package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/backlog-md/board/internal/config"
	"github.com/backlog-md/board/internal/debug"
	"github.com/backlog-md/board/internal/telemetry"
	"github.com/backlog-md/board/internal/ui"
)

var (
	jsonOutput   bool
	verboseFlag  bool // Enable verbose/debug output
	quietFlag    bool // Suppress non-essential output
	backlogDir   string
	snapshotPath string // JSON snapshot instead of a backlog directory ("-" for stdin)
	laneModeFlag string
	strictLoad   bool // Fail on the first unparseable task or milestone file

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc

	pipeline = telemetry.NewPipeline()

	stdout io.Writer = os.Stdout
)

func init() {
	// Initialize viper configuration
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")
	rootCmd.PersistentFlags().StringVarP(&backlogDir, "dir", "d", "", "Backlog directory (default: auto-discover backlog/)")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "Read tasks and milestones from a JSON snapshot file ('-' for stdin)")
	rootCmd.PersistentFlags().StringVarP(&laneModeFlag, "mode", "m", "", "Lane mode: none or milestone (default: config lane-mode)")
	rootCmd.PersistentFlags().BoolVar(&strictLoad, "strict", false, "Fail on unparseable task or milestone files instead of skipping them")

	rootCmd.Flags().BoolP("version", "V", false, "Print version information")

	rootCmd.AddGroup(&cobra.Group{ID: "views", Title: "Board Views:"})
	rootCmd.AddGroup(&cobra.Group{ID: "milestones", Title: "Milestones:"})
	rootCmd.AddGroup(&cobra.Group{ID: "data", Title: "Data & Configuration:"})
}

var rootCmd = &cobra.Command{
	Use:   "board",
	Short: "board - Milestone lanes for a Backlog.md kanban board",
	Long: `Groups Backlog.md tasks into milestone lanes and status columns, resolves
milestone aliases (ids, numbers and titles) to canonical ids, and computes
the ordering payload for drag-and-drop moves.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintln(stdout, versionString(resolveCommitHash()))
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupSignalContext()
		applyVerbosityFlags()
		applyViperOverrides(cmd)
		ui.ApplyColorProfile()
		if err := telemetry.Init(rootCtx, "board", Version); err != nil {
			WarnError("%v", err)
		}
		pipeline = telemetry.NewPipeline()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		telemetry.Shutdown(ctx)

		if rootCancel != nil {
			rootCancel()
		}
	},
}

func setupSignalContext() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// applyVerbosityFlags propagates --verbose and --quiet to the debug package.
func applyVerbosityFlags() {
	debug.SetVerbose(verboseFlag)
	debug.SetQuiet(quietFlag)
}

// applyViperOverrides fills unset flags from config (file, then BOARD_* env).
func applyViperOverrides(cmd *cobra.Command) {
	if !cmd.Flags().Changed("json") {
		jsonOutput = config.GetBool("json")
	}
	if !cmd.Flags().Changed("dir") && backlogDir == "" {
		backlogDir = config.GetString("backlog-dir")
	} else if backlogDir != "" {
		config.Set("backlog-dir", backlogDir)
	}
	if cmd.Flags().Changed("mode") {
		config.Set("lane-mode", laneModeFlag)
	}
	if !cmd.Flags().Changed("verbose") && config.GetBool("verbose") {
		verboseFlag = true
		debug.SetVerbose(true)
	}
	if !cmd.Flags().Changed("quiet") && config.GetBool("quiet") {
		quietFlag = true
		debug.SetQuiet(true)
	}
	if cfg := config.ConfigFileUsed(); cfg != "" {
		debug.Logf("config: %s\n", cfg)
	}
}

func getRootContext() context.Context {
	if rootCtx == nil {
		return context.Background()
	}
	return rootCtx
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
