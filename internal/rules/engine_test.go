// SPDX-License-Identifier: MIT

package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/h-iptv/iptv/internal/playlist"
)

func ch(name, group string) playlist.Channel {
	c := playlist.Channel{Name: name, URL: "http://x/" + name, Attrs: map[string]string{}}
	if group != "" {
		c.SetAttr(playlist.AttrGroupTitle, group)
	}
	return c
}

func mustEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	eng, err := New(cfg)
	require.NoError(t, err)
	return eng
}

func TestWholeWordMatching(t *testing.T) {
	eng := mustEngine(t, Config{
		Categories: []Category{{Name: "TV", Keywords: []string{"TV"}}},
	})

	tests := []struct {
		name string
		keep bool
	}{
		{"Star TV", true},
		{"Startvchannel", false},
		{"tv", true},
		{"My-TV-Channel", true},
		{"latvia", false},
	}
	for _, tc := range tests {
		kept, _ := eng.Process([]playlist.Channel{ch(tc.name, "")})
		if got := len(kept) == 1; got != tc.keep {
			t.Errorf("name %q: kept=%v, want %v", tc.name, got, tc.keep)
		}
	}
}

func TestBlacklistPrecedesCategories(t *testing.T) {
	eng := mustEngine(t, Config{
		Blacklist:  []string{"VOD"},
		Categories: []Category{{Name: "Movies", Keywords: []string{"Movie"}}},
	})

	kept, stats := eng.Process([]playlist.Channel{
		ch("VOD Movie Channel", ""),
		ch("Movie Channel", ""),
	})
	require.Len(t, kept, 1)
	require.Equal(t, "Movie Channel", kept[0].Name)
	require.Equal(t, 1, stats.Blacklisted)
}

func TestCategoryOrderBreaksTies(t *testing.T) {
	cfg := Config{
		Categories: []Category{
			{Name: "Sports", Keywords: []string{"HD"}},
			{Name: "Movies", Keywords: []string{"Star"}},
		},
	}
	eng := mustEngine(t, cfg)
	kept, _ := eng.Process([]playlist.Channel{ch("Star Gold HD", "")})
	require.Len(t, kept, 1)
	require.Equal(t, "Sports", kept[0].Group())

	// Swapping the definition order flips the assignment.
	cfg.Categories[0], cfg.Categories[1] = cfg.Categories[1], cfg.Categories[0]
	eng = mustEngine(t, cfg)
	kept, _ = eng.Process([]playlist.Channel{ch("Star Gold HD", "")})
	require.Equal(t, "Movies", kept[0].Group())
}

func TestOriginalGroupTitleMatches(t *testing.T) {
	eng := mustEngine(t, Config{
		Categories: []Category{{Name: "News", Keywords: []string{"headlines"}}},
	})
	kept, _ := eng.Process([]playlist.Channel{ch("Some Channel", "Daily Headlines")})
	require.Len(t, kept, 1)
	require.Equal(t, "News", kept[0].Group())
}

func TestStrictModeDropsUnmatched(t *testing.T) {
	eng := mustEngine(t, Config{
		Mode:       ModeStrict,
		Categories: []Category{{Name: "Sports", Keywords: []string{"Sports"}}},
	})
	kept, stats := eng.Process([]playlist.Channel{
		ch("Star Sports HD", "Old"),
		ch("Cooking Show", "Old"),
	})
	require.Len(t, kept, 1)
	require.Equal(t, "Sports", kept[0].Group())
	require.Equal(t, 1, stats.Unmatched)
}

func TestPermissiveModeUsesFallback(t *testing.T) {
	eng := mustEngine(t, Config{
		Mode:          ModePermissive,
		FallbackGroup: "Other",
		Categories:    []Category{{Name: "Sports", Keywords: []string{"Sports"}}},
	})
	kept, stats := eng.Process([]playlist.Channel{
		ch("Cooking Show", ""),
	})
	require.Len(t, kept, 1)
	require.Equal(t, "Other", kept[0].Group())
	require.Equal(t, 1, stats.Unmatched)
}

func TestDefaultModeIsStrict(t *testing.T) {
	eng := mustEngine(t, Config{
		Categories: []Category{{Name: "Sports", Keywords: []string{"Sports"}}},
	})
	kept, _ := eng.Process([]playlist.Channel{ch("Cooking Show", "")})
	require.Empty(t, kept)
}

func TestInvalidConfig(t *testing.T) {
	_, err := New(Config{Mode: "lenient"})
	require.Error(t, err)

	_, err = New(Config{Categories: []Category{{Keywords: []string{"x"}}}})
	require.Error(t, err)
}

func TestProcessDoesNotMutateInput(t *testing.T) {
	eng := mustEngine(t, Config{
		Categories: []Category{{Name: "Sports", Keywords: []string{"Sports"}}},
	})
	in := []playlist.Channel{ch("Star Sports HD", "Old")}
	kept, _ := eng.Process(in)
	require.Equal(t, "Old", in[0].Group())
	require.Equal(t, "Sports", kept[0].Group())
}

func TestReprocessingOwnOutputIsStable(t *testing.T) {
	// Category keyword matches the assigned group name, so a second pass
	// over the engine's own output must yield the same assignments.
	eng := mustEngine(t, Config{
		Categories: []Category{{Name: "Sports", Keywords: []string{"Sports"}}},
	})
	first, _ := eng.Process([]playlist.Channel{ch("Star Sports HD", "Old")})
	second, stats := eng.Process(first)
	require.Equal(t, first, second)
	require.Equal(t, 1, stats.Kept)
}
