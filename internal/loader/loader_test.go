package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backlog-md/board/internal/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  Format
		front   string
		body    string
		wantErr error
	}{
		{"empty", "", FormatNone, "", "", nil},
		{"no frontmatter", "# Title\n\ntext\n", FormatNone, "", "# Title\n\ntext", nil},
		{"yaml", "---\nid: a\n---\n\nbody\n", FormatYAML, "id: a\n", "body", nil},
		{"toml", "+++\nid = \"a\"\n+++\nbody", FormatTOML, "id = \"a\"\n", "body", nil},
		{"bom and crlf", "\ufeff---\r\nid: a\r\n---\r\n", FormatYAML, "id: a\r\n", "", nil},
		{"closing without newline", "---\nid: a\n---", FormatYAML, "id: a\n", "", nil},
		{"unterminated", "---\nid: a\n", FormatYAML, "", "", ErrUnterminated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, front, body, err := SplitFrontmatter([]byte(tt.content))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, tt.front, string(front))
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestParseTaskYAML(t *testing.T) {
	task, err := ParseTask([]byte(`---
id: task-7
title: Fix login
status: In Progress
assignee: "@alice"
created_date: '2024-01-02 10:30'
updated_date: 2024-02-01
labels: [auth, bug]
milestone: m-1
dependencies: []
ordinal: 2000
---

## Description
`))
	require.NoError(t, err)
	assert.Equal(t, "task-7", task.ID)
	assert.Equal(t, "Fix login", task.Title)
	assert.Equal(t, "In Progress", task.Status)
	assert.Equal(t, []string{"@alice"}, task.Assignee)
	assert.Equal(t, "2024-01-02 10:30", task.CreatedDate)
	assert.Equal(t, "2024-02-01", task.UpdatedDate)
	assert.Equal(t, []string{"auth", "bug"}, task.Labels)
	assert.Equal(t, "m-1", task.Milestone)
	require.NotNil(t, task.Ordinal)
	assert.Equal(t, 2000, *task.Ordinal)
}

func TestParseTaskNumericMilestone(t *testing.T) {
	task, err := ParseTask([]byte("---\nid: task-1\nstatus: To Do\nmilestone: 3\n---\n"))
	require.NoError(t, err)
	assert.Equal(t, "3", task.Milestone)
	assert.Nil(t, task.Ordinal)
}

func TestParseTaskTOML(t *testing.T) {
	task, err := ParseTask([]byte(`+++
id = "task-9"
title = "Ship it"
status = "Done"
milestone = "Release 1"
ordinal = 5
created_date = 2024-03-04
updated_date = 2024-03-05T08:15:00
labels = ["release"]
+++
`))
	require.NoError(t, err)
	assert.Equal(t, "task-9", task.ID)
	assert.Equal(t, "Release 1", task.Milestone)
	require.NotNil(t, task.Ordinal)
	assert.Equal(t, 5, *task.Ordinal)
	assert.Equal(t, "2024-03-04", task.CreatedDate)
	assert.Equal(t, "2024-03-05 08:15", task.UpdatedDate)
	assert.Equal(t, []string{"release"}, task.Labels)
}

func TestParseTaskErrors(t *testing.T) {
	tests := map[string]string{
		"no frontmatter":   "# just markdown\n",
		"bad yaml":         "---\nid: [oops\n---\n",
		"bad toml":         "+++\nid = \n+++\n",
		"fractional order": "---\nid: a\nordinal: 1.5\n---\n",
		"text ordinal":     "---\nid: a\nordinal: first\n---\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTask([]byte(content))
			assert.Error(t, err)
		})
	}
}

func TestParseTaskErrorNamesFormat(t *testing.T) {
	_, err := ParseTask([]byte("---\nid: [oops\n---\n"))
	assert.ErrorContains(t, err, "invalid yaml frontmatter")

	_, err = ParseTask([]byte("+++\nid = \n+++\n"))
	assert.ErrorContains(t, err, "invalid toml frontmatter")
}

func newBacklog(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "backlog")
	writeFile(t, filepath.Join(dir, "tasks", "task-1 - First.md"), "---\nid: task-1\nstatus: To Do\nmilestone: m-1\n---\n")
	writeFile(t, filepath.Join(dir, "tasks", "task-2 - Second task.md"), "---\nstatus: Done\n---\n")
	writeFile(t, filepath.Join(dir, "tasks", "task-3 - Third.md"), "+++\nid = \"task-3\"\nstatus = \"In Progress\"\n+++\n")
	writeFile(t, filepath.Join(dir, "tasks", "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, "milestones", "m-1 - Release 1.md"), "---\nid: m-1\ntitle: \"Release 1\"\n---\n")
	writeFile(t, filepath.Join(dir, "milestones", "m-2 - Release 2.md"), "# Second release\n")
	writeFile(t, filepath.Join(dir, "archive", "milestones", "m-0 - Alpha.md"), "---\nid: m-0\n---\n")
	return dir
}

func TestLoadDir(t *testing.T) {
	dir := newBacklog(t)

	snap, err := LoadDir(context.Background(), dir, Options{Concurrency: 2})
	require.NoError(t, err)

	require.Len(t, snap.Tasks, 3)
	assert.Equal(t, []string{"task-1", "task-2", "task-3"}, []string{snap.Tasks[0].ID, snap.Tasks[1].ID, snap.Tasks[2].ID})
	assert.Equal(t, "Second task", snap.Tasks[1].Title)

	assert.Equal(t, []types.Milestone{
		{ID: "m-1", Title: "Release 1", Active: true},
		{ID: "m-2", Title: "Second release", Active: true},
	}, snap.Milestones)
	assert.Equal(t, []types.Milestone{{ID: "m-0", Title: "Alpha"}}, snap.ArchivedMilestones)
}

func TestLoadDirSkipsBadFilesUnlessStrict(t *testing.T) {
	dir := newBacklog(t)
	bad := filepath.Join(dir, "tasks", "task-4 - Broken.md")
	writeFile(t, bad, "---\nid: [broken\n---\n")

	snap, err := LoadDir(context.Background(), dir, Options{})
	require.NoError(t, err)
	assert.Len(t, snap.Tasks, 3)

	_, err = LoadDir(context.Background(), dir, Options{Strict: true})
	require.Error(t, err)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, bad, perr.Path)
	assert.Contains(t, err.Error(), "task-4 - Broken.md")
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	assert.Error(t, err)

	empty := t.TempDir()
	snap, err := LoadDir(context.Background(), empty, Options{})
	require.NoError(t, err)
	assert.Empty(t, snap.Tasks)
	assert.NotNil(t, snap.Tasks)
}

func TestLoadDirCancelled(t *testing.T) {
	dir := newBacklog(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadDir(ctx, dir, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadJSON(t *testing.T) {
	snap, err := LoadJSON(strings.NewReader(`{
  "tasks": [{"id": "task-1", "status": "To Do", "milestone": "1", "ordinal": 3, "createdDate": "2024-01-01"}],
  "milestones": [{"id": "m-1", "title": "Release 1"}],
  "archivedMilestones": [{"id": "m-0", "title": "Alpha", "active": true}],
  "archivedMilestoneIds": ["legacy"]
}`))
	require.NoError(t, err)

	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "1", snap.Tasks[0].Milestone)
	require.NotNil(t, snap.Tasks[0].Ordinal)
	assert.Equal(t, 3, *snap.Tasks[0].Ordinal)
	assert.True(t, snap.Milestones[0].Active)
	assert.False(t, snap.ArchivedMilestones[0].Active)
	assert.Equal(t, []string{"legacy"}, snap.ArchivedMilestoneIDs)

	_, err = LoadJSON(strings.NewReader(`{"tasks": 1}`))
	assert.Error(t, err)
}

func TestLoadJSONFileRoundTrip(t *testing.T) {
	snap, err := LoadDir(context.Background(), newBacklog(t), Options{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteJSON(f, snap))
	require.NoError(t, f.Close())

	got, err := LoadJSONFile(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Tasks, got.Tasks)
	assert.Equal(t, snap.Milestones, got.Milestones)

	writeFile(t, path, "{")
	_, err = LoadJSONFile(path)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}
