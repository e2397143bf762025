// SPDX-License-Identifier: MIT

package playlist

import (
	"strings"
	"testing"
)

// FuzzParse ensures the parser never panics on arbitrary input and that
// every emitted channel satisfies the non-empty-URL guarantee.
func FuzzParse(f *testing.F) {
	f.Add("#EXTM3U\n#EXTINF:-1 tvg-id=\"a\",Name\nhttp://x/1\n")
	f.Add("#EXTINF:-1,NoURL\n#EXTINF:-1,Second\nhttp://x/2")
	f.Add("#EXTINF:-1 tvg-id=\"unterminated,Name\nhttp://x/3\n")
	f.Add("")
	f.Add("random text\nmore text\n")
	f.Add("#EXTINF:-1 группа=\"тест\",Канал\nrtsp://stream\n")

	f.Fuzz(func(t *testing.T, content string) {
		channels, stats := Parse(content)
		for _, ch := range channels {
			if ch.URL == "" {
				t.Fatalf("channel %q emitted with empty URL", ch.Name)
			}
			if ch.Name == "" {
				t.Fatalf("channel with URL %q emitted with empty name", ch.URL)
			}
		}
		if len(channels) > stats.Entries {
			t.Fatalf("emitted %d channels from %d entries", len(channels), stats.Entries)
		}

		// Writing what was parsed must also never fail on a buffer.
		var b strings.Builder
		if err := WriteM3U(&b, channels); err != nil {
			t.Fatalf("WriteM3U failed: %v", err)
		}
		if !strings.HasPrefix(b.String(), "#EXTM3U") {
			t.Fatal("output missing #EXTM3U header")
		}
	})
}
