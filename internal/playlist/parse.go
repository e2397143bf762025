// SPDX-License-Identifier: MIT

package playlist

import (
	"regexp"
	"strings"
)

// attrRE matches key="value" pairs on an #EXTINF line. Values may be empty;
// an unterminated quote simply never matches and the pair is dropped.
var attrRE = regexp.MustCompile(`(\S+?)="([^"]*)"`)

// Stats summarizes one parse run.
type Stats struct {
	Entries int // #EXTINF lines seen
	Skipped int // entries dropped for lack of a URL line
}

// Parse converts raw M3U text into an ordered channel slice.
//
// Parsing is lenient and never fails: malformed entries are dropped, not
// fatal. An entry is emitted only when the line immediately following its
// #EXTINF metadata is a non-comment line, which becomes the stream URL.
// Every returned channel therefore has a non-empty URL.
func Parse(content string) ([]Channel, Stats) {
	var (
		channels []Channel
		stats    Stats
	)

	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "#EXTINF:") {
			// Header, comments and stray lines are ignored.
			continue
		}
		stats.Entries++

		ch := Channel{Attrs: make(map[string]string)}
		for _, m := range attrRE.FindAllStringSubmatch(line, -1) {
			ch.Attrs[m[1]] = m[2]
		}

		// The display name is everything after the last comma.
		if idx := strings.LastIndex(line, ","); idx != -1 {
			ch.Name = strings.TrimSpace(line[idx+1:])
		}
		if ch.Name == "" {
			ch.Name = unknownName
		}

		// The stream URL must be the very next line. Another directive or
		// EOF means the entry is incomplete and is dropped.
		if i+1 >= len(lines) {
			stats.Skipped++
			continue
		}
		next := strings.TrimSpace(lines[i+1])
		if next == "" || strings.HasPrefix(next, "#") {
			stats.Skipped++
			continue
		}

		ch.URL = next
		channels = append(channels, ch)
		i++ // consume the URL line
	}

	return channels, stats
}
