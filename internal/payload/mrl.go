package payload

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// SafeDecode percent-decodes s, returning s unchanged if it is malformed.
func SafeDecode(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil || !utf8.ValidString(decoded) {
		return s
	}
	return decoded
}

// DecodeMRLName derives a display label from a location reference: the last
// path segment, ignoring one trailing slash, percent-decoded.
func DecodeMRLName(mrl string) string {
	if mrl == "" {
		return ""
	}
	trimmed := strings.TrimSuffix(mrl, "/")
	segment := trimmed
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		segment = trimmed[i+1:]
	}
	return SafeDecode(segment)
}

// CompareKey normalizes an MRL for equality checks between endpoints that
// disagree on percent-encoding.
func CompareKey(mrl string) string {
	return strings.TrimSpace(SafeDecode(mrl))
}
