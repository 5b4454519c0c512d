// Package config provides the application settings for the dictionary
// engine: library roots, data locations, search limits and the remembered
// last-open profile.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cmorgan-dev/go-dict-engine/model"
)

// Settings contains all configuration options for the engine. It is loaded
// from a YAML file and written back when runtime state (the last opened
// profile) changes.
type Settings struct {
	// Port the HTTP API listens on.
	Port string `yaml:"port"`

	// DataDir is the root for engine-owned state: the catalog file and the
	// history database live under it.
	DataDir string `yaml:"data_dir"`

	// LibraryRoots are the directories scanned for dictionary files.
	LibraryRoots []string `yaml:"library_roots"`

	// PerLibLimit caps how many entries one dictionary contributes to an
	// incremental search.
	PerLibLimit int `yaml:"per_lib_limit"`

	// FulltextLimit caps how many hits one dictionary contributes to a
	// full-text search.
	FulltextLimit int `yaml:"fulltext_limit"`

	// WatchLibrary enables the fsnotify watcher that rescans library roots
	// when their contents change.
	WatchLibrary bool `yaml:"watch_library"`

	// DefaultOptions are inherited by newly discovered leaf profiles.
	DefaultOptions model.DictOptions `yaml:"default_options"`

	// LastMainProfileID is the profile reopened on startup.
	LastMainProfileID model.ProfileID `yaml:"last_main_profile_id"`

	path string `yaml:"-"`
}

// ApplyDefaults applies default values to unset settings.
func (s *Settings) ApplyDefaults() {
	if s.Port == "" {
		s.Port = "8080"
	}
	if s.DataDir == "" {
		s.DataDir = "./dict_data"
	}
	if s.PerLibLimit == 0 {
		s.PerLibLimit = 50
	}
	if s.FulltextLimit == 0 {
		s.FulltextLimit = 200
	}
	if s.LibraryRoots == nil {
		s.LibraryRoots = []string{}
	}
	if s.LastMainProfileID == 0 {
		s.LastMainProfileID = model.InvalidProfileID
	}
}

// LibraryFile is the path of the persisted profile catalog.
func (s *Settings) LibraryFile() string {
	return filepath.Join(s.DataDir, "library.json")
}

// HistoryDBFile is the path of the history/favorites SQLite database.
func (s *Settings) HistoryDBFile() string {
	return filepath.Join(s.DataDir, "dict.db")
}

// Load reads settings from a YAML file. A missing file yields defaults;
// the file is created on the first Save.
func Load(path string) (*Settings, error) {
	settings := &Settings{path: path}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		if os.IsNotExist(err) {
			settings.ApplyDefaults()
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	settings.ApplyDefaults()
	return settings, nil
}

// Save writes the settings back to the file they were loaded from.
func (s *Settings) Save() error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", s.path, err)
	}
	return nil
}
