package protocol

import (
	"encoding/base64"
	"strings"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

const faviconDataURIPrefix = "data:image/png;base64,"

// FaviconPNG decodes Favicon's data-URI into raw PNG bytes, returning
// nil, nil when Favicon is unset.
func (s Server) FaviconPNG() ([]byte, error) {
	if s.Favicon == "" {
		return nil, nil
	}
	encoded := strings.TrimPrefix(s.Favicon, faviconDataURIPrefix)
	if encoded == s.Favicon {
		return nil, mcerr.New(mcerr.ProtocolMismatch, "favicon is not a data:image/png;base64 uri")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, mcerr.Wrap(mcerr.ProtocolMismatch, err, "decode favicon base64")
	}
	return data, nil
}
