// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"

	"github.com/google/renameio/v2"

	xlog "github.com/h-iptv/iptv/internal/log"
	"github.com/h-iptv/iptv/internal/playlist"
)

// writePlaylist writes the playlist atomically: the file is fsynced and
// renamed into place, so readers never observe a partial playlist.
func writePlaylist(ctx context.Context, path string, channels []playlist.Channel) error {
	logger := xlog.FromContext(ctx)

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending playlist file: %w", err)
	}
	defer func() {
		// renameio removes the temp file when it was not committed.
		if err := pending.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending playlist file")
		}
	}()

	if err := playlist.WriteM3U(pending, channels); err != nil {
		return fmt.Errorf("write playlist data: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace playlist file: %w", err)
	}
	return nil
}
