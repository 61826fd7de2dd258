// Package config loads and persists the repodex configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete repodex configuration.
type Config struct {
	Version     int      `json:"version" mapstructure:"version"`
	SearchRoots []string `json:"searchRoots" mapstructure:"searchRoots"`

	Discovery Discovery         `json:"discovery" mapstructure:"discovery"`
	Classify  Classify          `json:"classify" mapstructure:"classify"`
	Ranking   Ranking           `json:"ranking" mapstructure:"ranking"`
	Editor    Editor            `json:"editor" mapstructure:"editor"`
	Icons     map[string]string `json:"icons" mapstructure:"icons"`
	Logging   Logging           `json:"logging" mapstructure:"logging"`
}

// Discovery configures the indexed-search backend and the snapshot cache.
type Discovery struct {
	// Command is the indexed-search executable. Any tool that prints
	// newline-delimited absolute paths and exits zero works.
	Command string `json:"command" mapstructure:"command"`
	// GitArgs and WorkspaceArgs are argument templates; {root} and {ext}
	// are substituted per query.
	GitArgs            []string `json:"gitArgs" mapstructure:"gitArgs"`
	WorkspaceArgs      []string `json:"workspaceArgs" mapstructure:"workspaceArgs"`
	WorkspaceExtension string   `json:"workspaceExtension" mapstructure:"workspaceExtension"`
	SnapshotTTLSeconds int      `json:"snapshotTtlSeconds" mapstructure:"snapshotTtlSeconds"`
	SearchTimeoutMs    int      `json:"searchTimeoutMs" mapstructure:"searchTimeoutMs"`
	ProbeTimeoutMs     int      `json:"probeTimeoutMs" mapstructure:"probeTimeoutMs"`
}

// Classify configures the language classifier and its cache.
type Classify struct {
	IgnoreDirs            []string `json:"ignoreDirs" mapstructure:"ignoreDirs"`
	FileBudget            int      `json:"fileBudget" mapstructure:"fileBudget"`
	SignificanceThreshold float64  `json:"significanceThreshold" mapstructure:"significanceThreshold"`
	StaleAfterHours       int      `json:"staleAfterHours" mapstructure:"staleAfterHours"`
	PersistBatchSize      int      `json:"persistBatchSize" mapstructure:"persistBatchSize"`
}

// Ranking configures result ordering and truncation.
type Ranking struct {
	MaxResults  int    `json:"maxResults" mapstructure:"maxResults"`
	DefaultSort string `json:"defaultSort" mapstructure:"defaultSort"` // "recency" or "last-opened"
}

// Editor configures how open targets are launched.
type Editor struct {
	Command string   `json:"command" mapstructure:"command"`
	Args    []string `json:"args" mapstructure:"args"`
}

// Logging contains logging configuration.
type Logging struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

const currentVersion = 1

// Dir returns the repodex data directory (~/.repodex).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".repodex"), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Version:     currentVersion,
		SearchRoots: []string{home},
		Discovery: Discovery{
			Command:            "es",
			GitArgs:            []string{"-p", "{root}", "-whole-filename", ".git", "/ad"},
			WorkspaceArgs:      []string{"-p", "{root}", "ext:{ext}"},
			WorkspaceExtension: ".code-workspace",
			SnapshotTTLSeconds: 30,
			SearchTimeoutMs:    10000,
			ProbeTimeoutMs:     5000,
		},
		Classify: Classify{
			IgnoreDirs: []string{
				"node_modules", "vendor", "target", "build", "dist",
				"out", "bin", "obj", "__pycache__", "venv", "deps",
				"packages", "bower_components",
			},
			FileBudget:            500,
			SignificanceThreshold: 0.2,
			StaleAfterHours:       24,
			PersistBatchSize:      20,
		},
		Ranking: Ranking{
			MaxResults:  40,
			DefaultSort: "recency",
		},
		Editor: Editor{
			Command: "code",
			Args:    []string{},
		},
		Icons: map[string]string{},
		Logging: Logging{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads the configuration from <dir>/config.json. A missing file yields
// the defaults; a present file is merged over them.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("REPODEX")
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to <dir>/config.json as indented JSON.
func (c *Config) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("searchRoots", d.SearchRoots)
	v.SetDefault("discovery.command", d.Discovery.Command)
	v.SetDefault("discovery.gitArgs", d.Discovery.GitArgs)
	v.SetDefault("discovery.workspaceArgs", d.Discovery.WorkspaceArgs)
	v.SetDefault("discovery.workspaceExtension", d.Discovery.WorkspaceExtension)
	v.SetDefault("discovery.snapshotTtlSeconds", d.Discovery.SnapshotTTLSeconds)
	v.SetDefault("discovery.searchTimeoutMs", d.Discovery.SearchTimeoutMs)
	v.SetDefault("discovery.probeTimeoutMs", d.Discovery.ProbeTimeoutMs)
	v.SetDefault("classify.ignoreDirs", d.Classify.IgnoreDirs)
	v.SetDefault("classify.fileBudget", d.Classify.FileBudget)
	v.SetDefault("classify.significanceThreshold", d.Classify.SignificanceThreshold)
	v.SetDefault("classify.staleAfterHours", d.Classify.StaleAfterHours)
	v.SetDefault("classify.persistBatchSize", d.Classify.PersistBatchSize)
	v.SetDefault("ranking.maxResults", d.Ranking.MaxResults)
	v.SetDefault("ranking.defaultSort", d.Ranking.DefaultSort)
	v.SetDefault("editor.command", d.Editor.Command)
	v.SetDefault("editor.args", d.Editor.Args)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}
