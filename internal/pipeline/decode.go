package pipeline

import (
	"bytes"
	"fmt"
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Byte order marks recognized on input.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// crlfOrCR matches Windows and classic Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Decode turns raw input bytes into text. A UTF-8 byte order mark is
// stripped and BOM-marked UTF-16 is transcoded. Anything that is then not
// valid UTF-8 is rejected with ErrEncoding; no partial text is returned.
// Line endings are normalized to \n.
func Decode(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", ErrEmptyInput
	}

	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		raw = raw[len(bomUTF8):]
	case bytes.HasPrefix(raw, bomUTF16LE), bytes.HasPrefix(raw, bomUTF16BE):
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		decoded, _, err := transform.Bytes(dec, raw)
		if err != nil {
			return "", fmt.Errorf("%w: decoding UTF-16: %v", ErrEncoding, err)
		}
		raw = decoded
	}

	if len(raw) == 0 {
		return "", ErrEmptyInput
	}

	if off := firstInvalidByte(raw); off >= 0 {
		return "", fmt.Errorf("%w: invalid byte 0x%02X at offset %d", ErrEncoding, raw[off], off)
	}

	return crlfOrCR.ReplaceAllString(string(raw), "\n"), nil
}

// firstInvalidByte returns the offset of the first byte that does not start
// a valid UTF-8 sequence, or -1.
func firstInvalidByte(b []byte) int {
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
