// SPDX-License-Identifier: MIT

package playlist

import (
	"bytes"
	"fmt"
	"io"
)

// WriteM3U writes the channels as a valid M3U playlist. Attributes are
// emitted in the canonical key order; the URL line is written verbatim.
func WriteM3U(w io.Writer, channels []Channel) error {
	buf := &bytes.Buffer{}
	buf.WriteString("#EXTM3U\n")
	for i := range channels {
		ch := &channels[i]
		buf.WriteString("#EXTINF:-1")
		for _, key := range knownAttrs {
			if val, ok := ch.Attrs[key]; ok {
				fmt.Fprintf(buf, ` %s="%s"`, key, val)
			}
		}
		name := ch.Name
		if name == "" {
			name = unknownName
		}
		buf.WriteString("," + name + "\n")
		buf.WriteString(ch.URL + "\n")
	}
	_, err := io.Copy(w, buf)
	return err
}
