// Package config loads board settings from the project config file, the user
// config directory and BOARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/backlog-md/board/internal/debug"
	"github.com/backlog-md/board/internal/types"
)

var v *viper.Viper

// DefaultStatuses are the board columns used when no config declares any.
var DefaultStatuses = []string{"To Do", "In Progress", "Done"}

// projectConfigNames are tried in order inside the backlog directory.
var projectConfigNames = []string{"config.yml", "config.yaml"}

// Initialize sets up the viper configuration singleton.
// Should be called once at application startup.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	// Environment variables take precedence over the config file:
	// BOARD_LANE_MODE, BOARD_BACKLOG_DIR, BOARD_WATCH_DEBOUNCE, ...
	v.SetEnvPrefix("BOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("lane-mode", string(types.LaneModeNone))
	v.SetDefault("statuses", DefaultStatuses)
	v.SetDefault("milestones", []string{})
	v.SetDefault("backlog-dir", "backlog")
	v.SetDefault("json", false)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("watch.debounce", 500*time.Millisecond)

	configPath := findConfigFile()
	if configPath == "" {
		debug.Logf("config: no config file found, using defaults\n")
		return nil
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file %s: %w", configPath, err)
	}
	debug.Logf("config: loaded %s\n", configPath)
	return nil
}

// findConfigFile looks for a project config by walking up from the working
// directory, then falls back to the user config directory.
func findConfigFile() string {
	if cwd, err := os.Getwd(); err == nil {
		backlogDir := os.Getenv("BOARD_BACKLOG_DIR")
		if backlogDir == "" {
			backlogDir = "backlog"
		}
		if filepath.IsAbs(backlogDir) {
			if path := configIn(backlogDir); path != "" {
				return path
			}
		} else {
			for dir := cwd; ; dir = filepath.Dir(dir) {
				if path := configIn(filepath.Join(dir, backlogDir)); path != "" {
					return path
				}
				if parent := filepath.Dir(dir); parent == dir {
					break
				}
			}
		}
	}

	if userDir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(userDir, "board", "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func configIn(dir string) string {
	for _, name := range projectConfigNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// FindBacklogDir walks up from start looking for a directory named name that
// holds a config file or a tasks directory.
func FindBacklogDir(start, name string) (string, error) {
	if name == "" {
		name = "backlog"
	}
	if filepath.IsAbs(name) {
		if isBacklogDir(name) {
			return name, nil
		}
		return "", fmt.Errorf("%s is not a backlog directory", name)
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, name)
		if isBacklogDir(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory found from %s", name, start)
		}
		dir = parent
	}
}

func isBacklogDir(dir string) bool {
	if configIn(dir) != "" {
		return true
	}
	info, err := os.Stat(filepath.Join(dir, "tasks"))
	return err == nil && info.IsDir()
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetDuration retrieves a duration configuration value.
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// GetStringSlice retrieves a list value. A plain string, as set through the
// environment, is split on commas so labels may contain spaces.
func GetStringSlice(key string) []string {
	if v == nil {
		return nil
	}
	switch raw := v.Get(key).(type) {
	case nil:
		return nil
	case string:
		return splitList(raw)
	case []string:
		return CleanList(raw)
	case []any:
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			out = append(out, fmt.Sprint(item))
		}
		return CleanList(out)
	default:
		return CleanList(v.GetStringSlice(key))
	}
}

// Set sets a configuration value.
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// ConfigFileUsed returns the path of the loaded config file, or "".
func ConfigFileUsed() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// Statuses returns the configured status columns, or DefaultStatuses.
func Statuses() []string {
	statuses := GetStringSlice("statuses")
	if len(statuses) == 0 {
		return append([]string(nil), DefaultStatuses...)
	}
	return statuses
}

// ConfiguredMilestones returns the milestone ids declared in the config.
func ConfiguredMilestones() []string {
	return GetStringSlice("milestones")
}

// LaneMode returns the configured lane mode.
func LaneMode() (types.LaneMode, error) {
	mode, err := types.ParseLaneMode(GetString("lane-mode"))
	if err != nil {
		return types.LaneModeNone, fmt.Errorf("config lane-mode: %w", err)
	}
	return mode, nil
}

// ErrNotInitialized is returned by helpers that need Initialize to have run.
var ErrNotInitialized = errors.New("config not initialized")

// AllSettings returns every resolved setting, for `board config`.
func AllSettings() (map[string]any, error) {
	if v == nil {
		return nil, ErrNotInitialized
	}
	return v.AllSettings(), nil
}

func splitList(raw string) []string {
	return CleanList(strings.Split(raw, ","))
}

// CleanList trims items and drops blank ones.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
