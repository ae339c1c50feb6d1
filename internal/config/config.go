// internal/config/config.go
//
// This package handles configuration and the .boxplanner directory structure.
// Every project that uses the planner gets a .boxplanner/ folder in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DataDir is the name of the directory we create in each project
	DataDir = ".boxplanner"

	// HomeEnv overrides the project directory when set.
	HomeEnv = "BOXPLANNER_HOME"

	defaultRosterFile   = "employees.csv"
	defaultExportFile   = "export/employees.csv"
	defaultNotesDir     = DataDir + "/notes"
	defaultSettingsFile = DataDir + "/settings.json"
)

const defaultProjectConfigYAML = `# box planner project configuration
version: 1

# Roster to load on start-up. CSV or XLSX, relative to the project directory.
roster: employees.csv

# Where "export" writes. The extension picks the format.
export: export/employees.csv

# One JSON document per employee note.
notes_dir: .boxplanner/notes

# User preferences (theme, department colours, zoom).
settings_file: .boxplanner/settings.json
`

// ProjectConfig models .boxplanner/config.yaml.
type ProjectConfig struct {
	Version      int    `yaml:"version"`
	Roster       string `yaml:"roster"`
	Export       string `yaml:"export,omitempty"`
	NotesDir     string `yaml:"notes_dir"`
	SettingsFile string `yaml:"settings_file"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory the planner was started in (or HomeEnv)
	ProjectDir string

	// DataProjectDir is ProjectDir/.boxplanner
	DataProjectDir string

	Project ProjectConfig
}

// ResolveProjectDir returns HomeEnv when set, otherwise cwd.
func ResolveProjectDir(cwd string) string {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		return filepath.Clean(home)
	}
	return cwd
}

// InitDataDir creates the .boxplanner directory structure in the given
// project directory and writes a default config.yaml if none exists.
//
// Structure created:
// .boxplanner/
// ├── config.yaml
// ├── notes/   <- one <id>.json per employee
// └── logs/    <- session journal and debug log
func InitDataDir(projectDir string) error {
	dataDir := filepath.Join(projectDir, DataDir)
	dirs := []string{
		filepath.Join(dataDir, "notes"),
		filepath.Join(dataDir, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(dataDir, "config.yaml"))
}

// NewConfig creates a Config populated with project settings. A missing
// config.yaml yields defaults.
func NewConfig(projectDir string) (*Config, error) {
	if strings.TrimSpace(projectDir) == "" {
		return nil, fmt.Errorf("config: project directory is required")
	}
	if abs, err := filepath.Abs(projectDir); err == nil {
		projectDir = abs
	}
	cfg := &Config{
		ProjectDir:     projectDir,
		DataProjectDir: filepath.Join(projectDir, DataDir),
		Project:        defaultProjectConfig(),
	}
	cfg.Project.normalize(projectDir)
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RosterPath returns the roster file to load on start-up.
func (c *Config) RosterPath() string {
	return c.Project.Roster
}

// ExportPath returns the default export destination.
func (c *Config) ExportPath() string {
	return c.Project.Export
}

// NotesDir returns the directory holding note documents.
func (c *Config) NotesDir() string {
	return c.Project.NotesDir
}

// SettingsPath returns the settings document path.
func (c *Config) SettingsPath() string {
	return c.Project.SettingsFile
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataProjectDir, "logs")
}

// JournalPath returns the human-readable session journal.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "journal.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.DataProjectDir, "config.yaml")
}

// SetRoster updates the roster path and persists it to config.yaml.
func (c *Config) SetRoster(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("config: roster path is required")
	}
	c.Project.Roster = path
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:      1,
		Roster:       defaultRosterFile,
		Export:       defaultExportFile,
		NotesDir:     defaultNotesDir,
		SettingsFile: defaultSettingsFile,
	}
}

func (pc *ProjectConfig) applyDefaults() {
	defaults := defaultProjectConfig()
	if pc.Version == 0 {
		pc.Version = defaults.Version
	}
	if strings.TrimSpace(pc.Roster) == "" {
		pc.Roster = defaults.Roster
	}
	if strings.TrimSpace(pc.Export) == "" {
		pc.Export = defaults.Export
	}
	if strings.TrimSpace(pc.NotesDir) == "" {
		pc.NotesDir = defaults.NotesDir
	}
	if strings.TrimSpace(pc.SettingsFile) == "" {
		pc.SettingsFile = defaults.SettingsFile
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Roster = resolvePath(base, pc.Roster)
	pc.Export = resolvePath(base, pc.Export)
	pc.NotesDir = resolvePath(base, pc.NotesDir)
	pc.SettingsFile = resolvePath(base, pc.SettingsFile)
}

// relativeTo returns a copy for writing to disk: paths inside base are
// stored relative to it so the project directory can move.
func (pc ProjectConfig) relativeTo(base string) ProjectConfig {
	pc.Roster = relativePath(base, pc.Roster)
	pc.Export = relativePath(base, pc.Export)
	pc.NotesDir = relativePath(base, pc.NotesDir)
	pc.SettingsFile = relativePath(base, pc.SettingsFile)
	return pc
}

func (pc *ProjectConfig) validate() error {
	if pc.Version != 1 {
		return fmt.Errorf("unsupported config version %d", pc.Version)
	}
	if pc.NotesDir == pc.SettingsFile {
		return fmt.Errorf("notes_dir and settings_file must differ")
	}
	switch strings.ToLower(filepath.Ext(pc.SettingsFile)) {
	case ".json":
	default:
		return fmt.Errorf("settings_file must be a .json file")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func relativePath(base, path string) string {
	if base == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize(c.ProjectDir)
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.DataProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure data dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project.relativeTo(c.ProjectDir))
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
