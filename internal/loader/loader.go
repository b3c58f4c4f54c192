// Package loader reads a board snapshot: tasks, active milestones and
// archived milestones, either from a Backlog.md directory or from a JSON
// export of the backend API.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/backlog-md/board/internal/debug"
	"github.com/backlog-md/board/internal/types"
)

// Subdirectories of a backlog directory.
const (
	TasksDir             = "tasks"
	MilestonesDir        = "milestones"
	ArchivedMilestoneDir = "archive/milestones"
)

// Snapshot is everything the board engine needs from the backend.
type Snapshot struct {
	Tasks                []types.Task      `json:"tasks"`
	Milestones           []types.Milestone `json:"milestones"`
	ArchivedMilestones   []types.Milestone `json:"archivedMilestones"`
	ArchivedMilestoneIDs []string          `json:"archivedMilestoneIds,omitempty"`
}

// ParseError reports a file that could not be read or parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Options controls LoadDir.
type Options struct {
	// Strict makes the first unparseable file fail the load. Otherwise such
	// files are logged and skipped.
	Strict bool
	// Concurrency bounds parallel file parsing; 0 means GOMAXPROCS.
	Concurrency int
}

// LoadDir reads tasks/, milestones/ and archive/milestones/ under backlogDir.
// Files are returned in directory order regardless of parse order.
func LoadDir(ctx context.Context, backlogDir string, opts Options) (*Snapshot, error) {
	info, err := os.Stat(backlogDir)
	if err != nil {
		return nil, fmt.Errorf("backlog directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("backlog directory %s is not a directory", backlogDir)
	}

	taskFiles, err := markdownFiles(filepath.Join(backlogDir, TasksDir))
	if err != nil {
		return nil, err
	}
	milestoneFiles, err := markdownFiles(filepath.Join(backlogDir, MilestonesDir))
	if err != nil {
		return nil, err
	}
	archivedFiles, err := markdownFiles(filepath.Join(backlogDir, filepath.FromSlash(ArchivedMilestoneDir)))
	if err != nil {
		return nil, err
	}

	tasks := make([]*types.Task, len(taskFiles))
	active := make([]*types.Milestone, len(milestoneFiles))
	archived := make([]*types.Milestone, len(archivedFiles))

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	// skip records a bad file; only strict loads turn it into an error.
	skip := func(path string, err error) error {
		perr := &ParseError{Path: path, Err: err}
		if opts.Strict {
			return perr
		}
		debug.Logf("loader: skipping %v\n", perr)
		return nil
	}

	for i, path := range taskFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			task, err := ReadTaskFile(path)
			if err != nil {
				return skip(path, err)
			}
			tasks[i] = task
			return nil
		})
	}
	for i, path := range milestoneFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := ReadMilestoneFile(path, true)
			if err != nil {
				return skip(path, err)
			}
			active[i] = m
			return nil
		})
	}
	for i, path := range archivedFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := ReadMilestoneFile(path, false)
			if err != nil {
				return skip(path, err)
			}
			archived[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Tasks:              compact(tasks),
		Milestones:         compact(active),
		ArchivedMilestones: compact(archived),
	}
	debug.Logf("loader: %s: %d tasks, %d milestones, %d archived\n",
		backlogDir, len(snap.Tasks), len(snap.Milestones), len(snap.ArchivedMilestones))
	return snap, nil
}

// markdownFiles lists *.md files of dir in name order. A missing dir is empty.
func markdownFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

func compact[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}

// fileNamePattern matches Backlog.md file names like "task-12 - Fix login.md"
// or "m-3 - Release 3.md".
var fileNamePattern = regexp.MustCompile(`^([A-Za-z]+-[0-9]+(?:\.[0-9]+)*)(?:\s+-\s+(.*))?$`)

// idFromFileName splits a Backlog.md file name into its id and title parts.
func idFromFileName(path string) (id, title string) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if m := fileNamePattern.FindStringSubmatch(name); m != nil {
		return m[1], strings.TrimSpace(m[2])
	}
	return "", strings.TrimSpace(name)
}

// ReadTaskFile parses one task Markdown file.
func ReadTaskFile(path string) (*types.Task, error) {
	content, err := os.ReadFile(path) // #nosec G304 - path comes from the backlog directory listing
	if err != nil {
		return nil, err
	}
	task, err := ParseTask(content)
	if err != nil {
		return nil, err
	}
	fileID, fileTitle := idFromFileName(path)
	if task.ID == "" {
		task.ID = fileID
	}
	if task.Title == "" {
		task.Title = fileTitle
	}
	if task.ID == "" {
		return nil, errors.New("task has no id")
	}
	return task, nil
}

// ParseTask parses task frontmatter. Fields the board does not use are ignored.
func ParseTask(content []byte) (*types.Task, error) {
	format, front, _, err := SplitFrontmatter(content)
	if err != nil {
		return nil, err
	}
	if format == FormatNone {
		return nil, errors.New("missing frontmatter")
	}

	var fm taskFrontmatter
	if err := decodeFrontmatter(format, front, &fm); err != nil {
		return nil, err
	}
	ord, err := ordinal(fm.Ordinal)
	if err != nil {
		return nil, err
	}
	return &types.Task{
		ID:          strings.TrimSpace(fm.ID),
		Title:       strings.TrimSpace(fm.Title),
		Status:      strings.TrimSpace(fm.Status),
		Milestone:   scalarString(fm.Milestone),
		Ordinal:     ord,
		CreatedDate: dateString(fm.CreatedDate),
		UpdatedDate: dateString(fm.UpdatedDate),
		Assignee:    stringList(fm.Assignee),
		Labels:      stringList(fm.Labels),
	}, nil
}

// ReadMilestoneFile parses one milestone Markdown file. Without frontmatter the
// id and title come from the file name, then from the first heading.
func ReadMilestoneFile(path string, active bool) (*types.Milestone, error) {
	content, err := os.ReadFile(path) // #nosec G304 - path comes from the backlog directory listing
	if err != nil {
		return nil, err
	}
	format, front, body, err := SplitFrontmatter(content)
	if err != nil {
		return nil, err
	}
	var fm milestoneFrontmatter
	if err := decodeFrontmatter(format, front, &fm); err != nil {
		return nil, err
	}

	fileID, fileTitle := idFromFileName(path)
	m := &types.Milestone{
		ID:     strings.TrimSpace(fm.ID),
		Title:  strings.TrimSpace(fm.Title),
		Active: active,
	}
	if m.ID == "" {
		m.ID = fileID
	}
	if m.Title == "" {
		m.Title = firstHeading(body)
	}
	if m.Title == "" {
		m.Title = fileTitle
	}
	if m.ID == "" {
		return nil, errors.New("milestone has no id")
	}
	return m, nil
}

func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// LoadJSON decodes a snapshot as produced by `board export` or assembled from
// the backend's /api/tasks and /api/milestones responses.
func LoadJSON(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	for i := range snap.Milestones {
		snap.Milestones[i].Active = true
	}
	for i := range snap.ArchivedMilestones {
		snap.ArchivedMilestones[i].Active = false
	}
	return &snap, nil
}

// LoadJSONFile reads a snapshot from path, or from stdin when path is "-".
func LoadJSONFile(path string) (*Snapshot, error) {
	if path == "-" {
		return LoadJSON(os.Stdin)
	}
	f, err := os.Open(path) // #nosec G304 - user-supplied snapshot path
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	snap, err := LoadJSON(f)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return snap, nil
}

// WriteJSON encodes snap as indented JSON.
func WriteJSON(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
