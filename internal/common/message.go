package common

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

// base64Pattern matches strings that may be base64 (plain words match too)
var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/=]+$`)

// DecodeMessage turns the raw JSON "message" value returned by the indexer into display text.
//
// Order of attempts:
//   - JSON string that looks like base64: decoded, returned when the bytes are valid UTF-8
//   - JSON string otherwise: returned unchanged
//   - JSON array of byte values: UTF-8 text, or one character per byte when not valid UTF-8
//   - anything else: the JSON text verbatim
func DecodeMessage(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return string(raw)
		}
		if base64Pattern.MatchString(s) {
			if text, ok := decodeBase64Text(s); ok {
				return text
			}
		}
		return s
	case '[':
		var values []int
		if err := json.Unmarshal(raw, &values); err != nil {
			return string(raw)
		}
		b := make([]byte, 0, len(values))
		for _, v := range values {
			if v < 0 || v > 255 {
				return string(raw)
			}
			b = append(b, byte(v))
		}
		return BytesToText(b)
	}

	return string(raw)
}

// BytesToText decodes b as UTF-8 and falls back to mapping each byte to one character
func BytesToText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// decodeBase64Text accepts padded and unpadded standard base64
func decodeBase64Text(s string) (string, bool) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return "", false
		}
	}
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}
