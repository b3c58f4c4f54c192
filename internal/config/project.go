package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is the subset of a Backlog.md config.yml the board reads
// directly from disk, bypassing the viper singleton. Used when the board is
// pointed at a backlog directory other than the one Initialize discovered.
type ProjectConfig struct {
	ProjectName   string   `yaml:"project_name"`
	DefaultStatus string   `yaml:"default_status"`
	Statuses      []string `yaml:"statuses"`
	Milestones    []string `yaml:"milestones"`
	LaneMode      string   `yaml:"lane-mode"`
}

// LoadProjectConfig reads config.yml (or config.yaml) from backlogDir.
//
// A missing file yields an empty config and no error; a malformed file is an
// error so the caller can report which file is broken.
func LoadProjectConfig(backlogDir string) (*ProjectConfig, error) {
	path := configIn(backlogDir)
	if path == "" {
		return &ProjectConfig{}, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 - path is inside the backlog dir
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	cfg.Statuses = CleanList(cfg.Statuses)
	cfg.Milestones = CleanList(cfg.Milestones)
	return &cfg, nil
}

