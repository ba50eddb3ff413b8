package sheetforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTextWindows1252ToUTF8(t *testing.T) {
	raw := []byte{'c', 'a', 'f', 0xe9} // "café" in windows-1252
	out, err := DecodeText(raw, "windows-1252", "")
	require.NoError(t, err)
	assert.Equal(t, "café", out)
}

func TestDecodeTextPlainASCIIRoundTrips(t *testing.T) {
	out, err := DecodeText([]byte("hello world"), "", "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestDecodeTextUnknownDeclaredCharsetFallsBackToSniffing(t *testing.T) {
	out, err := DecodeText([]byte("plain ascii"), "bogus-charset-name", "")
	require.NoError(t, err)
	assert.Equal(t, "plain ascii", out)
}
