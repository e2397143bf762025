// SPDX-License-Identifier: MIT

// Package jobs orchestrates the refresh pipeline: fetch the source
// playlist, parse it, apply the filter rules, sort, and write the result.
package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	xlog "github.com/h-iptv/iptv/internal/log"
	"github.com/h-iptv/iptv/internal/metrics"
	"github.com/h-iptv/iptv/internal/playlist"
	"github.com/h-iptv/iptv/internal/rules"
	"github.com/h-iptv/iptv/internal/source"
)

// Config holds the pipeline settings for one refresh run.
type Config struct {
	SourceURL    string
	DataDir      string
	PlaylistName string
	FetchTimeout time.Duration
}

// Status reports the outcome of the most recent refresh.
type Status struct {
	LastRun     time.Time `json:"last_run"`
	Parsed      int       `json:"parsed"`
	Skipped     int       `json:"skipped"`
	Blacklisted int       `json:"blacklisted"`
	Unmatched   int       `json:"unmatched"`
	Written     int       `json:"written"`
	Error       string    `json:"error,omitempty"`
}

// sortLast sorts after every printable string, so channels missing a sort
// key end up at the bottom of the playlist.
const sortLast = "￿"

// Refresh performs a complete refresh cycle using an HTTP source client.
func Refresh(ctx context.Context, cfg Config, eng *rules.Engine) (*Status, error) {
	cl := source.New(strings.TrimSpace(cfg.SourceURL), cfg.FetchTimeout)
	if err := cl.Validate(); err != nil {
		return nil, err
	}
	return refreshWithFetcher(ctx, cfg, eng, cl)
}

// refreshWithFetcher is separated for easier testing.
func refreshWithFetcher(ctx context.Context, cfg Config, eng *rules.Engine, fetcher source.Fetcher) (*Status, error) {
	logger := xlog.WithComponentFromContext(ctx, "jobs")
	logger.Info().
		Str(xlog.FieldEvent, "refresh.start").
		Msg("starting refresh")
	start := time.Now()

	content, err := fetcher.Fetch(ctx)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("fetch_error").Inc()
		return nil, fmt.Errorf("fetch source: %w", err)
	}

	channels, parseStats := playlist.Parse(content)
	if parseStats.Skipped > 0 {
		logger.Warn().
			Str(xlog.FieldEvent, "parse.skipped").
			Int("entries", parseStats.Entries).
			Int("skipped", parseStats.Skipped).
			Msg("dropped incomplete playlist entries")
	}

	kept, ruleStats := eng.Process(channels)
	sortChannels(kept)

	path := filepath.Join(cfg.DataDir, cfg.PlaylistName)
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		metrics.RefreshTotal.WithLabelValues("write_error").Inc()
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := writePlaylist(ctx, path, kept); err != nil {
		metrics.RefreshTotal.WithLabelValues("write_error").Inc()
		return nil, err
	}

	logger.Info().
		Str(xlog.FieldEvent, "playlist.write").
		Str(xlog.FieldPlaylistPath, path).
		Int("channels", len(kept)).
		Msg("playlist written")

	status := &Status{
		LastRun:     time.Now(),
		Parsed:      len(channels),
		Skipped:     parseStats.Skipped,
		Blacklisted: ruleStats.Blacklisted,
		Unmatched:   ruleStats.Unmatched,
		Written:     len(kept),
	}

	metrics.RefreshTotal.WithLabelValues("success").Inc()
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	metrics.LastRefreshTimestamp.SetToCurrentTime()
	metrics.RecordRefresh(status.Parsed, status.Skipped, status.Blacklisted, status.Unmatched, status.Written)

	logger.Info().
		Str(xlog.FieldEvent, "refresh.success").
		Int("parsed", status.Parsed).
		Int("skipped", status.Skipped).
		Int("blacklisted", status.Blacklisted).
		Int("unmatched", status.Unmatched).
		Int("written", status.Written).
		Msg("refresh completed")
	return status, nil
}

// sortChannels orders by group-title, then by name. Keys are compared
// lexicographically; empty keys sort last.
func sortChannels(channels []playlist.Channel) {
	key := func(ch *playlist.Channel) (string, string) {
		group, name := ch.Group(), ch.Name
		if group == "" {
			group = sortLast
		}
		if name == "" {
			name = sortLast
		}
		return group, name
	}
	sort.SliceStable(channels, func(i, j int) bool {
		gi, ni := key(&channels[i])
		gj, nj := key(&channels[j])
		if gi != gj {
			return gi < gj
		}
		return ni < nj
	})
}
