package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

func TestFaviconPNGEmpty(t *testing.T) {
	srv := Server{}
	data, err := srv.FaviconPNG()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFaviconPNGDecodes(t *testing.T) {
	srv := Server{Favicon: "data:image/png;base64,aGVsbG8="}
	data, err := srv.FaviconPNG()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestFaviconPNGWrongPrefix(t *testing.T) {
	srv := Server{Favicon: "not-a-data-uri"}
	_, err := srv.FaviconPNG()
	require.Error(t, err)
	assert.True(t, mcerr.Is(err, mcerr.ProtocolMismatch))
}
