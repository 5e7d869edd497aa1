package mdx

import (
	"encoding/base64"
	"encoding/hex"
	"path"
	"strings"
)

// ResourceEncoding selects how Locate encodes the resource bytes it
// found, for callers that want a text-safe transport form instead of
// raw bytes.
type ResourceEncoding int

const (
	// ResourceEncodingNone returns the resource's raw bytes as a string.
	ResourceEncodingNone ResourceEncoding = iota
	// ResourceEncodingBase64 returns the resource bytes base64-encoded.
	ResourceEncodingBase64
	// ResourceEncodingHex returns the resource bytes hex-encoded.
	ResourceEncodingHex
)

// Locate resolves an MDD resource path (e.g. "\\image\\cat.png") to its
// bytes, encoded per enc. It fails with ErrNotMDD if called on an MDX
// dictionary, and ErrNotFound if no resource matches name. name is the
// literal lookup key (with separators normalized); enc selects how the
// found resource bytes are encoded in the returned string, matching
// the original implementation's locate(), which looks the key up
// verbatim and encodes the *result*, not the argument.
func (d *Dictionary) Locate(name string, enc ResourceEncoding) (string, error) {
	if d.params.Format != FormatMDD {
		return "", ErrNotMDD
	}

	data, err := d.lookup(normalizeResourceName(name))
	if err != nil {
		return "", err
	}

	switch enc {
	case ResourceEncodingBase64:
		return base64.StdEncoding.EncodeToString(data), nil
	case ResourceEncodingHex:
		return hex.EncodeToString(data), nil
	default:
		return string(data), nil
	}
}

// normalizeResourceName normalizes a resource path to the form stored
// in an MDD's key blocks: backslash separators, as MDict tooling
// generates them regardless of host OS.
func normalizeResourceName(name string) string {
	slashed := strings.ReplaceAll(name, "\\", "/")
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	cleaned := path.Clean(slashed)
	return strings.ReplaceAll(cleaned, "/", "\\")
}
