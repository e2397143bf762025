// SPDX-License-Identifier: MIT

// Package playlist parses and writes M3U channel playlists.
package playlist

// Well-known EXTINF attribute keys, in the canonical order they are written.
const (
	AttrTvgID      = "tvg-id"
	AttrTvgName    = "tvg-name"
	AttrTvgLogo    = "tvg-logo"
	AttrGroupTitle = "group-title"
	AttrTvgURL     = "tvg-url"
	AttrTvgRec     = "tvg-rec"
	AttrTvgShift   = "tvg-shift"
)

// knownAttrs is the serialization order for attributes on an #EXTINF line.
var knownAttrs = []string{
	AttrTvgID,
	AttrTvgName,
	AttrTvgLogo,
	AttrGroupTitle,
	AttrTvgURL,
	AttrTvgRec,
	AttrTvgShift,
}

// unknownName is the display name used when an #EXTINF line has no
// trailing comma-separated name.
const unknownName = "Unknown Channel"

// Channel is a single playlist entry: one #EXTINF metadata line plus the
// stream URL on the following line.
//
// Attrs holds every key="value" pair found on the metadata line, including
// keys outside the well-known set. Unknown keys survive parsing but are not
// written back; only the well-known keys round-trip.
type Channel struct {
	Name  string
	URL   string
	Attrs map[string]string
}

// Attr returns the value for key, or "" when the channel does not carry it.
func (c *Channel) Attr(key string) string {
	return c.Attrs[key]
}

// SetAttr sets or overwrites an attribute value.
func (c *Channel) SetAttr(key, value string) {
	if c.Attrs == nil {
		c.Attrs = make(map[string]string, 1)
	}
	c.Attrs[key] = value
}

// Group returns the group-title attribute value.
func (c *Channel) Group() string {
	return c.Attrs[AttrGroupTitle]
}
