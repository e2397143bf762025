// SPDX-License-Identifier: MIT

package playlist

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteM3UTable(t *testing.T) {
	tests := []struct {
		name     string
		channels []Channel
		expect   []string
	}{
		{
			name: "attributes in canonical order",
			channels: []Channel{{
				Name: "ORF1 HD",
				URL:  "http://s/1",
				Attrs: map[string]string{
					"group-title": "AT",
					"tvg-id":      "orf1.at",
					"tvg-logo":    "http://p/ORF1.png",
				},
			}},
			expect: []string{
				"#EXTM3U\n",
				`#EXTINF:-1 tvg-id="orf1.at" tvg-logo="http://p/ORF1.png" group-title="AT",ORF1 HD` + "\n",
				"http://s/1\n",
			},
		},
		{
			name: "absent attributes are not emitted",
			channels: []Channel{{
				Name:  "Bare",
				URL:   "http://s/2",
				Attrs: map[string]string{"tvg-id": "bare"},
			}},
			expect: []string{`#EXTINF:-1 tvg-id="bare",Bare` + "\n"},
		},
		{
			name: "unknown attributes are dropped",
			channels: []Channel{{
				Name:  "Custom",
				URL:   "http://s/3",
				Attrs: map[string]string{"x-custom": "y", "tvg-name": "Custom"},
			}},
			expect: []string{`#EXTINF:-1 tvg-name="Custom",Custom` + "\n"},
		},
		{
			name: "empty name falls back to sentinel",
			channels: []Channel{{
				URL:   "http://s/4",
				Attrs: map[string]string{},
			}},
			expect: []string{",Unknown Channel\n"},
		},
		{
			name:   "empty playlist is just the header",
			expect: []string{"#EXTM3U\n"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var b strings.Builder
			if err := WriteM3U(&b, tc.channels); err != nil {
				t.Fatalf("WriteM3U failed: %v", err)
			}
			out := b.String()
			for _, want := range tc.expect {
				if !strings.Contains(out, want) {
					t.Fatalf("missing substring %q\n--- output ---\n%s", want, out)
				}
			}
			if strings.Count(out, "#EXTINF:") != len(tc.channels) {
				t.Fatalf("expected %d EXTINF lines, got %d", len(tc.channels), strings.Count(out, "#EXTINF:"))
			}
			if tc.name == "unknown attributes are dropped" && strings.Contains(out, "x-custom") {
				t.Fatalf("unknown attribute leaked into output:\n%s", out)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	in := []Channel{{
		Name: "Star Sports HD",
		URL:  "http://x/1",
		Attrs: map[string]string{
			"tvg-id":      "star.in",
			"tvg-name":    "Star Sports",
			"tvg-logo":    "http://p/star.png",
			"group-title": "Sports",
			"tvg-url":     "http://epg/",
			"tvg-rec":     "1",
			"tvg-shift":   "0",
		},
	}}

	var b strings.Builder
	if err := WriteM3U(&b, in); err != nil {
		t.Fatalf("WriteM3U failed: %v", err)
	}

	out, stats := Parse(b.String())
	if stats.Skipped != 0 {
		t.Fatalf("round trip skipped %d entries", stats.Skipped)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-in +out):\n%s", diff)
	}
}
