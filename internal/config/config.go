// SPDX-License-Identifier: MIT

// Package config loads daemon configuration with ENV > file > default
// precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/h-iptv/iptv/internal/rules"
	"github.com/h-iptv/iptv/internal/source"
)

// AppConfig is the complete runtime configuration.
type AppConfig struct {
	SourceURL       string
	DataDir         string
	PlaylistName    string
	Listen          string
	LogLevel        string
	FetchTimeout    time.Duration
	RefreshInterval time.Duration // 0 disables periodic refreshes
	Filter          rules.Config
}

// Environment variable names.
const (
	EnvSourceURL       = "IPTV_M3U_URL"
	EnvDataDir         = "IPTV_DATA"
	EnvPlaylistName    = "IPTV_PLAYLIST"
	EnvListen          = "IPTV_LISTEN"
	EnvLogLevel        = "IPTV_LOG_LEVEL"
	EnvFetchTimeout    = "IPTV_FETCH_TIMEOUT"
	EnvRefreshInterval = "IPTV_REFRESH_INTERVAL"
	EnvFilterMode      = "IPTV_FILTER_MODE"
	EnvFallbackGroup   = "IPTV_FALLBACK_GROUP"
)

// Defaults applied before file and environment values.
func defaults() AppConfig {
	return AppConfig{
		DataDir:      "/data",
		PlaylistName: "list.m3u",
		LogLevel:     "info",
		FetchTimeout: source.DefaultTimeout,
	}
}

// Validate checks the assembled configuration for usability.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.SourceURL) == "" {
		return fmt.Errorf("source URL is required (set %s or source_url in the config file)", EnvSourceURL)
	}
	if strings.ContainsAny(c.PlaylistName, `/\`) {
		return fmt.Errorf("playlist name %q must be a bare file name", c.PlaylistName)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must not be negative, got %s", c.RefreshInterval)
	}
	if c.Filter.Mode != "" && !c.Filter.Mode.Valid() {
		return fmt.Errorf("unknown filter mode %q (want %q or %q)",
			c.Filter.Mode, rules.ModeStrict, rules.ModePermissive)
	}
	return nil
}
