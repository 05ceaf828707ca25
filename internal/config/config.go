// Package config layers run settings from defaults, environment
// variables, an optional YAML file, and finally command-line flags.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked for in the working directory when no
// explicit config path is given.
const DefaultFileName = ".runi-audit.yaml"

// Environment variable keys. Values fill the gap between built-in
// defaults and file/flag settings.
const (
	EnvRoot     = "RUNI_AUDIT_ROOT"
	EnvOut      = "RUNI_AUDIT_OUT"
	EnvMinScore = "RUNI_AUDIT_MIN_SCORE"
)

// File is the YAML run configuration.
type File struct {
	Root        string   `yaml:"root"`
	Out         string   `yaml:"out"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Analyzers   []string `yaml:"analyzers"`
	Concurrency int      `yaml:"concurrency"`
	MinScore    float64  `yaml:"min_score"`
	Catalog     string   `yaml:"catalog"`
	History     string   `yaml:"history"`
}

// Settings are the fully layered run settings. Flags are applied by the
// CLI layer after Resolve, so precedence is flags > file > env > defaults.
type Settings struct {
	Root        string
	Out         string
	Include     []string
	Exclude     []string
	Analyzers   []string
	Concurrency int
	MinScore    float64
	Catalog     string
	History     string
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Root:        ".",
		Out:         "audit-output",
		Concurrency: 4,
	}
}

// Resolve layers defaults, environment, and the config file. path may be
// empty, in which case DefaultFileName is tried and allowed to be absent;
// an explicit path that cannot be read is an error.
func Resolve(path string) (Settings, error) {
	settings := Default()

	if err := settings.applyEnv(); err != nil {
		return settings, err
	}

	file, err := loadFile(path)
	if err != nil {
		return settings, err
	}
	if file != nil {
		settings.applyFile(file)
	}

	return settings, nil
}

func loadFile(path string) (*File, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &file, nil
}

func (s *Settings) applyEnv() error {
	if v := os.Getenv(EnvRoot); v != "" {
		s.Root = v
	}
	if v := os.Getenv(EnvOut); v != "" {
		s.Out = v
	}
	if v := os.Getenv(EnvMinScore); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvMinScore, v, err)
		}
		s.MinScore = min
	}
	return nil
}

func (s *Settings) applyFile(f *File) {
	if f.Root != "" {
		s.Root = f.Root
	}
	if f.Out != "" {
		s.Out = f.Out
	}
	if len(f.Include) > 0 {
		s.Include = f.Include
	}
	if len(f.Exclude) > 0 {
		s.Exclude = f.Exclude
	}
	if len(f.Analyzers) > 0 {
		s.Analyzers = f.Analyzers
	}
	if f.Concurrency > 0 {
		s.Concurrency = f.Concurrency
	}
	if f.MinScore > 0 {
		s.MinScore = f.MinScore
	}
	if f.Catalog != "" {
		s.Catalog = f.Catalog
	}
	if f.History != "" {
		s.History = f.History
	}
}
