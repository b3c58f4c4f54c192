package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backlog-md/board/internal/config"
	"github.com/backlog-md/board/internal/debug"
	"github.com/backlog-md/board/internal/lanes"
	"github.com/backlog-md/board/internal/loader"
	"github.com/backlog-md/board/internal/types"
)

// boardSettings are the project settings that shape the board.
type boardSettings struct {
	Mode       types.LaneMode
	Statuses   []string
	Milestones []string
}

// session is one loaded snapshot plus the settings it is viewed with.
type session struct {
	dir      string // backlog directory; "" for JSON snapshots
	source   string
	settings boardSettings
	snap     *loader.Snapshot
}

// sessionOptions are the inputs normally taken from global flags.
type sessionOptions struct {
	Dir      string
	Snapshot string
	Mode     string
	Strict   bool
}

func globalSessionOptions() sessionOptions {
	return sessionOptions{Dir: backlogDir, Snapshot: snapshotPath, Mode: laneModeFlag, Strict: strictLoad}
}

// resolveSettings merges the viper config with the config.yml of dir, which
// may differ from the file Initialize discovered when --dir is used. The lane
// mode comes from the flag, then that config.yml, then viper.
func resolveSettings(dir, modeFlag string) (boardSettings, error) {
	settings := boardSettings{
		Statuses:   config.Statuses(),
		Milestones: config.ConfiguredMilestones(),
	}
	rawMode := modeFlag

	if dir != "" && !sameDir(filepath.Dir(config.ConfigFileUsed()), dir) {
		project, err := config.LoadProjectConfig(dir)
		if err != nil {
			return settings, err
		}
		if len(project.Statuses) > 0 {
			settings.Statuses = project.Statuses
		}
		if len(project.Milestones) > 0 {
			settings.Milestones = project.Milestones
		}
		if rawMode == "" {
			rawMode = project.LaneMode
		}
	}

	var (
		mode types.LaneMode
		err  error
	)
	if rawMode != "" {
		mode, err = types.ParseLaneMode(rawMode)
	} else {
		mode, err = config.LaneMode()
	}
	if err != nil {
		return settings, err
	}
	settings.Mode = mode
	return settings, nil
}

func sameDir(a, b string) bool {
	if a == "" || a == "." || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

var errNoBacklog = errors.New("no backlog directory found")

// openSession loads the snapshot selected by opts.
func openSession(ctx context.Context, opts sessionOptions) (*session, error) {
	if opts.Snapshot != "" {
		settings, err := resolveSettings("", opts.Mode)
		if err != nil {
			return nil, err
		}
		snap, err := pipeline.Load(ctx, "snapshot", func(context.Context) (*loader.Snapshot, error) {
			return loader.LoadJSONFile(opts.Snapshot)
		})
		if err != nil {
			return nil, err
		}
		return &session{source: opts.Snapshot, settings: settings, snap: snap}, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	dir, err := config.FindBacklogDir(cwd, opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoBacklog, err)
	}
	settings, err := resolveSettings(dir, opts.Mode)
	if err != nil {
		return nil, err
	}
	snap, err := pipeline.Load(ctx, "dir", func(ctx context.Context) (*loader.Snapshot, error) {
		return loader.LoadDir(ctx, dir, loader.Options{Strict: opts.Strict})
	})
	if err != nil {
		return nil, err
	}
	return &session{dir: dir, source: dir, settings: settings, snap: snap}, nil
}

// reload re-reads a directory-backed session.
func (s *session) reload(ctx context.Context, strict bool) error {
	if s.dir == "" {
		return nil
	}
	snap, err := pipeline.Load(ctx, "dir", func(ctx context.Context) (*loader.Snapshot, error) {
		return loader.LoadDir(ctx, s.dir, loader.Options{Strict: strict})
	})
	if err != nil {
		return err
	}
	s.snap = snap
	return nil
}

// build computes the board and logs alias collisions.
func (s *session) build(ctx context.Context) *lanes.Board {
	b := pipeline.Build(ctx, s.snap, lanes.Options{
		Mode:               s.settings.Mode,
		Statuses:           s.settings.Statuses,
		ConfigMilestoneIDs: s.settings.Milestones,
	})
	for _, c := range b.Aliases.Collisions() {
		debug.Logf("milestones: %s\n", c)
	}
	return b
}

// mustOpenSession opens the global session or exits with a hint.
func mustOpenSession() *session {
	s, err := openSession(getRootContext(), globalSessionOptions())
	if errors.Is(err, errNoBacklog) {
		FatalErrorWithHint(err.Error(), "Run inside a Backlog.md project, pass --dir, or use --snapshot")
	}
	if err != nil {
		FatalError("%v", err)
	}
	return s
}
