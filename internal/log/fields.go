// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"
	FieldEvent     = "event"
	FieldRequestID = "request_id"

	FieldSourceURL    = "source_url"
	FieldPlaylistPath = "playlist_path"
	FieldChannel      = "channel"
	FieldCategory     = "category"
	FieldPath         = "path"
)
