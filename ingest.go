package sheetforge

import (
	"bytes"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// DecodeText converts raw bytes of a declared or sniffed charset (e.g.
// "windows-1252", "shift_jis") into UTF-8, for callers feeding
// externally-sourced text (a legacy CSV import, a pasted cell value of
// unknown origin) into WriteString/WriteRichString. An empty declared
// charset falls back to charset.DetermineEncoding's content sniffing.
func DecodeText(raw []byte, declaredCharset, contentType string) (string, error) {
	var enc encoding.Encoding
	if declaredCharset != "" {
		enc, _ = charset.Lookup(declaredCharset)
	}
	// charset.Lookup returns (nil, "") for an unrecognized name; fall
	// through to content sniffing below rather than erroring.
	if enc == nil {
		enc, _, _ = charset.DetermineEncoding(raw, contentType)
	}
	if enc == nil {
		return string(raw), nil
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), enc.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
