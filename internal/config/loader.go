// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/h-iptv/iptv/internal/rules"
)

// fileConfig mirrors AppConfig for YAML decoding. Pointer fields
// distinguish "absent" from "set to the zero value".
type fileConfig struct {
	SourceURL       *string       `yaml:"source_url"`
	DataDir         *string       `yaml:"data_dir"`
	PlaylistName    *string       `yaml:"playlist_name"`
	Listen          *string       `yaml:"listen"`
	LogLevel        *string       `yaml:"log_level"`
	FetchTimeout    *string       `yaml:"fetch_timeout"`
	RefreshInterval *string       `yaml:"refresh_interval"`
	Filter          *rules.Config `yaml:"filter"`
}

// Loader assembles configuration with precedence ENV > file > defaults.
type Loader struct {
	configPath string
}

// NewLoader creates a configuration loader. An empty path skips the file
// stage entirely.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load builds the effective configuration: defaults first, then the YAML
// file (if any), then environment overrides, then validation.
func (l *Loader) Load() (AppConfig, error) {
	cfg := defaults()

	if l.configPath != "" {
		fc, err := l.loadFile(l.configPath)
		if err != nil {
			return AppConfig{}, err
		}
		if err := mergeFile(&cfg, fc); err != nil {
			return AppConfig{}, fmt.Errorf("config file %s: %w", l.configPath, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (l *Loader) loadFile(path string) (*fileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var fc fileConfig
	if err := dec.Decode(&fc); err != nil {
		if errors.Is(err, io.EOF) {
			return &fileConfig{}, nil
		}
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fc, nil
}

func mergeFile(cfg *AppConfig, fc *fileConfig) error {
	if fc.SourceURL != nil {
		cfg.SourceURL = *fc.SourceURL
	}
	if fc.DataDir != nil {
		cfg.DataDir = *fc.DataDir
	}
	if fc.PlaylistName != nil {
		cfg.PlaylistName = *fc.PlaylistName
	}
	if fc.Listen != nil {
		cfg.Listen = *fc.Listen
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.FetchTimeout != nil {
		d, err := time.ParseDuration(*fc.FetchTimeout)
		if err != nil {
			return fmt.Errorf("invalid fetch_timeout %q: %w", *fc.FetchTimeout, err)
		}
		cfg.FetchTimeout = d
	}
	if fc.RefreshInterval != nil {
		d, err := time.ParseDuration(*fc.RefreshInterval)
		if err != nil {
			return fmt.Errorf("invalid refresh_interval %q: %w", *fc.RefreshInterval, err)
		}
		cfg.RefreshInterval = d
	}
	if fc.Filter != nil {
		cfg.Filter = *fc.Filter
	}
	return nil
}

func applyEnv(cfg *AppConfig) {
	cfg.SourceURL = ParseString(EnvSourceURL, cfg.SourceURL)
	cfg.DataDir = ParseString(EnvDataDir, cfg.DataDir)
	cfg.PlaylistName = ParseString(EnvPlaylistName, cfg.PlaylistName)
	cfg.Listen = ParseString(EnvListen, cfg.Listen)
	cfg.LogLevel = ParseString(EnvLogLevel, cfg.LogLevel)
	cfg.FetchTimeout = ParseDuration(EnvFetchTimeout, cfg.FetchTimeout)
	cfg.RefreshInterval = ParseDuration(EnvRefreshInterval, cfg.RefreshInterval)
	cfg.Filter.Mode = rules.Mode(ParseString(EnvFilterMode, string(cfg.Filter.Mode)))
	cfg.Filter.FallbackGroup = ParseString(EnvFallbackGroup, cfg.Filter.FallbackGroup)
}
