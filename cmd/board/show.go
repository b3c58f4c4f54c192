package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/backlog-md/board/internal/config"
	"github.com/backlog-md/board/internal/debug"
	"github.com/backlog-md/board/internal/lanes"
	"github.com/backlog-md/board/internal/loader"
	"github.com/backlog-md/board/internal/types"
	"github.com/backlog-md/board/internal/ui"
)

// showOptions are the flags of "board show".
type showOptions struct {
	Plain         bool
	NoPager       bool
	HideEmpty     bool
	ShowMilestone bool
	Width         int
}

// laneView is one lane of the JSON board view.
type laneView struct {
	types.Lane
	Count   int            `json:"count"`
	Columns []lanes.Column `json:"columns"`
}

// boardView is the JSON form of a computed board.
type boardView struct {
	Mode     types.LaneMode `json:"mode"`
	Statuses []string       `json:"statuses"`
	Lanes    []laneView     `json:"lanes"`
}

func newBoardView(b *lanes.Board) boardView {
	view := boardView{
		Mode:     b.Mode,
		Statuses: b.Grouping.Statuses(),
		Lanes:    []laneView{},
	}
	for _, lc := range b.Grouping.Columns() {
		lv := laneView{Lane: b.LaneFor(lc.Lane), Columns: lc.Columns}
		for _, col := range lc.Columns {
			lv.Count += len(col.Tasks)
		}
		view.Lanes = append(view.Lanes, lv)
	}
	return view
}

// renderBoardText renders b for a terminal, or as plain text when plain is set.
func renderBoardText(b *lanes.Board, snap *loader.Snapshot, opts showOptions) string {
	if opts.Plain {
		return ui.RenderPlain(b)
	}
	width := opts.Width
	if width <= 0 {
		width = ui.TerminalWidth()
	}
	return ui.RenderBoard(b, ui.BoardOptions{
		Width:          width,
		ShowMilestone:  opts.ShowMilestone,
		HideEmptyLanes: opts.HideEmpty,
		Milestones:     append(append([]types.Milestone(nil), snap.Milestones...), snap.ArchivedMilestones...),
	})
}

// writeBoard builds the board for s and writes it to w.
func writeBoard(ctx context.Context, w io.Writer, s *session, opts showOptions, asJSON bool) error {
	b := s.build(ctx)
	if asJSON {
		return encodeJSON(w, newBoardView(b))
	}
	_, err := io.WriteString(w, renderBoardText(b, s.snap, opts))
	return err
}

// watchDirs lists the directories whose markdown files feed the board.
func watchDirs(dir string) []string {
	return []string{
		dir,
		filepath.Join(dir, loader.TasksDir),
		filepath.Join(dir, loader.MilestonesDir),
		filepath.Join(dir, "archive"),
		filepath.Join(dir, loader.ArchivedMilestoneDir),
	}
}

// isBoardFile reports whether a change to name can affect the board.
func isBoardFile(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	return strings.HasSuffix(base, ".md") || base == "config.yml" || base == "config.yaml"
}

// watchBoard calls refresh after every debounced burst of changes under dir
// until ctx is done. Directories created while watching are added. It returns
// only after a refresh that already started has finished.
func watchBoard(ctx context.Context, dir string, debounce time.Duration, refresh func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }() // Best effort cleanup

	watched := 0
	for _, d := range watchDirs(dir) {
		if info, statErr := os.Stat(d); statErr != nil || !info.IsDir() {
			continue
		}
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("nothing to watch under %s", dir)
	}

	// pending counts scheduled refreshes until they finish or are stopped.
	var (
		mu            sync.Mutex
		pending       sync.WaitGroup
		debounceTimer *time.Timer
	)
	defer func() {
		mu.Lock()
		if debounceTimer != nil && debounceTimer.Stop() {
			pending.Done()
		}
		mu.Unlock()
		pending.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() && isWatchDir(dir, event.Name) {
					_ = watcher.Add(event.Name)
				}
			}
			if event.Op == fsnotify.Chmod || !isBoardFile(event.Name) {
				continue
			}
			// Debounce rapid changes
			mu.Lock()
			if debounceTimer != nil && debounceTimer.Stop() {
				pending.Done()
			}
			pending.Add(1)
			debounceTimer = time.AfterFunc(debounce, func() {
				defer pending.Done()
				if ctx.Err() == nil {
					refresh()
				}
			})
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		}
	}
}

func isWatchDir(dir, path string) bool {
	for _, d := range watchDirs(dir) {
		if filepath.Clean(d) == filepath.Clean(path) {
			return true
		}
	}
	return false
}

var showCmd = &cobra.Command{
	Use:     "show",
	GroupID: "views",
	Short:   "Show the board grouped into lanes and status columns",
	Long: `Show the board. With --mode milestone every milestone gets its own lane,
tasks without a milestone (or with an archived one) go to the "No milestone"
lane. With --watch the board is redrawn whenever a task or milestone file
changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := getRootContext()
		opts := showOptions{}
		opts.Plain, _ = cmd.Flags().GetBool("plain")
		opts.NoPager, _ = cmd.Flags().GetBool("no-pager")
		opts.HideEmpty, _ = cmd.Flags().GetBool("hide-empty")
		opts.ShowMilestone, _ = cmd.Flags().GetBool("show-milestone")
		watchMode, _ := cmd.Flags().GetBool("watch")

		s := mustOpenSession()

		if watchMode {
			if s.dir == "" {
				FatalError("--watch needs a backlog directory, not a snapshot")
			}
			runWatch(ctx, s, opts)
			return
		}

		if jsonOutput {
			outputJSON(newBoardView(s.build(ctx)))
			return
		}
		if !ui.IsTerminal() {
			opts.Plain = true
		}
		if opts.Plain {
			if err := writeBoard(ctx, stdout, s, opts, false); err != nil {
				FatalError("%v", err)
			}
			return
		}
		content := renderBoardText(s.build(ctx), s.snap, opts)
		if err := ui.Page(stdout, content, ui.PagerOptions{NoPager: opts.NoPager}); err != nil {
			FatalError("%v", err)
		}
	},
}

// runWatch draws the board, then redraws it on every change until interrupted.
func runWatch(ctx context.Context, s *session, opts showOptions) {
	var mu sync.Mutex
	draw := func() {
		if ui.IsTerminal() && !jsonOutput {
			fmt.Fprint(stdout, "\033[H\033[2J")
		}
		if err := writeBoard(ctx, stdout, s, opts, jsonOutput); err != nil {
			fmt.Fprintf(os.Stderr, "%s Error rendering board: %v\n", ui.RenderFailIcon(), err)
		}
		debug.NoticeNormal("\nWatching %s for changes... (Press Ctrl+C to exit)\n", s.dir)
	}
	draw()

	// Renders are serialized; a timer can fire while the previous one still runs.
	refresh := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := s.reload(ctx, strictLoad); err != nil {
			fmt.Fprintf(os.Stderr, "%s Error reloading board: %v\n", ui.RenderFailIcon(), err)
			return
		}
		if settings, err := resolveSettings(s.dir, laneModeFlag); err == nil {
			s.settings = settings
		}
		draw()
	}
	if err := watchBoard(ctx, s.dir, config.GetDuration("watch.debounce"), refresh); err != nil {
		FatalError("%v", err)
	}
	debug.NoticeNormal("\nStopped watching.\n")
}

func init() {
	showCmd.Flags().BoolP("watch", "w", false, "Watch for changes and redraw the board")
	showCmd.Flags().Bool("plain", false, "Plain text output, one task per line")
	showCmd.Flags().Bool("no-pager", false, "Disable pager output")
	showCmd.Flags().Bool("hide-empty", false, "Hide lanes without tasks")
	showCmd.Flags().Bool("show-milestone", false, "Show each task's milestone on its card")
	rootCmd.AddCommand(showCmd)
}
