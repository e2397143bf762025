// SPDX-License-Identifier: MIT

// Package rules filters and re-categorizes playlist channels by keyword
// matching against channel names and their original group titles.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/h-iptv/iptv/internal/playlist"
)

// Mode selects what happens to channels that match no category.
type Mode string

const (
	// ModeStrict drops channels that match no category; the category map
	// is the sole inclusion filter. This is the default.
	ModeStrict Mode = "strict"
	// ModePermissive keeps unmatched channels under the fallback group.
	ModePermissive Mode = "permissive"
)

// DefaultFallbackGroup is the group assigned to unmatched channels in
// permissive mode when no fallback is configured.
const DefaultFallbackGroup = "Other Live TV"

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeStrict || m == ModePermissive
}

// Category associates a group name with the keywords that select it.
// Definition order is significant: the first category whose keyword matches
// a channel wins.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Config is the pure-data rule configuration.
type Config struct {
	Mode          Mode       `yaml:"mode"`
	FallbackGroup string     `yaml:"fallback_group"`
	Blacklist     []string   `yaml:"blacklist"`
	Categories    []Category `yaml:"categories"`
}

// Stats summarizes one Process run.
type Stats struct {
	Blacklisted int // dropped by the blacklist
	Unmatched   int // matched no category (dropped or fallback-labeled)
	Kept        int
}

type compiledCategory struct {
	name     string
	keywords []*regexp.Regexp
}

// Engine evaluates the blacklist and category rules. It is immutable after
// New and safe for concurrent use.
type Engine struct {
	mode       Mode
	fallback   string
	blacklist  []*regexp.Regexp
	categories []compiledCategory
}

// New compiles a rule configuration into an Engine.
func New(cfg Config) (*Engine, error) {
	mode := cfg.Mode
	if mode == "" {
		mode = ModeStrict
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown filter mode %q (want %q or %q)", cfg.Mode, ModeStrict, ModePermissive)
	}

	fallback := cfg.FallbackGroup
	if fallback == "" {
		fallback = DefaultFallbackGroup
	}

	eng := &Engine{mode: mode, fallback: fallback}

	for _, kw := range cfg.Blacklist {
		re, err := compileKeyword(kw)
		if err != nil {
			return nil, fmt.Errorf("blacklist keyword %q: %w", kw, err)
		}
		if re != nil {
			eng.blacklist = append(eng.blacklist, re)
		}
	}

	for _, cat := range cfg.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return nil, fmt.Errorf("category with keywords %v has no name", cat.Keywords)
		}
		cc := compiledCategory{name: cat.Name}
		for _, kw := range cat.Keywords {
			re, err := compileKeyword(kw)
			if err != nil {
				return nil, fmt.Errorf("category %q keyword %q: %w", cat.Name, kw, err)
			}
			if re != nil {
				cc.keywords = append(cc.keywords, re)
			}
		}
		eng.categories = append(eng.categories, cc)
	}

	return eng, nil
}

// compileKeyword builds a case-insensitive whole-word matcher. Matching is
// done against lowercased text, so the keyword is lowercased here instead
// of compiling with (?i). Empty keywords compile to nil and are skipped.
func compileKeyword(kw string) (*regexp.Regexp, error) {
	kw = strings.ToLower(strings.TrimSpace(kw))
	if kw == "" {
		return nil, nil
	}
	return regexp.Compile(`\b` + regexp.QuoteMeta(kw) + `\b`)
}

// Process applies the rules to every channel in order. Surviving channels
// have their group-title overwritten with the assigned category; relative
// order is preserved. The input slice is not modified.
func (e *Engine) Process(channels []playlist.Channel) ([]playlist.Channel, Stats) {
	var (
		kept  []playlist.Channel
		stats Stats
	)

	for _, ch := range channels {
		name := strings.ToLower(ch.Name)
		group := strings.ToLower(ch.Attr(playlist.AttrGroupTitle))

		if matchAny(e.blacklist, name, group) {
			stats.Blacklisted++
			continue
		}

		category, found := e.categorize(name, group)
		if !found {
			stats.Unmatched++
			if e.mode == ModeStrict {
				continue
			}
			category = e.fallback
		}

		out := ch
		out.Attrs = cloneAttrs(ch.Attrs)
		out.SetAttr(playlist.AttrGroupTitle, category)
		kept = append(kept, out)
	}

	stats.Kept = len(kept)
	return kept, stats
}

// categorize returns the first category, in definition order, with a
// keyword present in the channel's name or original group title.
func (e *Engine) categorize(name, group string) (string, bool) {
	for _, cat := range e.categories {
		if matchAny(cat.keywords, name, group) {
			return cat.name, true
		}
	}
	return "", false
}

func matchAny(res []*regexp.Regexp, name, group string) bool {
	for _, re := range res {
		if re.MatchString(name) || re.MatchString(group) {
			return true
		}
	}
	return false
}

func cloneAttrs(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs)+1)
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
