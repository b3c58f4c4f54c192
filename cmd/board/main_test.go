package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backlog-md/board/internal/config"
	"github.com/backlog-md/board/internal/types"
)

// resetConfig reloads defaults once the test's env and cwd are restored.
func resetConfig(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		backlogDir, laneModeFlag, jsonOutput = "", "", false
		_ = config.Initialize()
	})
}

func TestApplyViperOverridesRecordsFlags(t *testing.T) {
	resetConfig(t)
	t.Chdir(t.TempDir())
	require.NoError(t, config.Initialize())

	dir := filepath.Join(t.TempDir(), "backlog")
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVarP(&backlogDir, "dir", "d", "", "")
	cmd.Flags().StringVarP(&laneModeFlag, "mode", "m", "", "")
	require.NoError(t, cmd.Flags().Parse([]string{"--dir", dir, "--mode", "milestone"}))

	applyViperOverrides(cmd)

	assert.Equal(t, dir, config.GetString("backlog-dir"))
	assert.Equal(t, "milestone", config.GetString("lane-mode"))
}

func TestApplyViperOverridesFillsUnsetDir(t *testing.T) {
	resetConfig(t)
	t.Chdir(t.TempDir())
	t.Setenv("BOARD_BACKLOG_DIR", "planning")
	require.NoError(t, config.Initialize())

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVarP(&backlogDir, "dir", "d", "", "")
	require.NoError(t, cmd.Flags().Parse(nil))

	applyViperOverrides(cmd)

	assert.Equal(t, "planning", backlogDir)
}

func TestResolveSettingsFallsBackToConfigLaneMode(t *testing.T) {
	resetConfig(t)
	t.Chdir(t.TempDir())
	t.Setenv("BOARD_LANE_MODE", "milestones")
	require.NoError(t, config.Initialize())

	settings, err := resolveSettings("", "")
	require.NoError(t, err)
	assert.Equal(t, types.LaneModeMilestone, settings.Mode)

	t.Setenv("BOARD_LANE_MODE", "swimlanes")
	require.NoError(t, config.Initialize())
	_, err = resolveSettings("", "")
	assert.ErrorContains(t, err, "lane-mode")

	settings, err = resolveSettings("", "none")
	require.NoError(t, err)
	assert.Equal(t, types.LaneModeNone, settings.Mode)
}
