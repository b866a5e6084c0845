package textutils

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported source encodings.
const (
	EncodingCP1252  = "cp1252"
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-bom"
)

// IsSupportedEncoding reports whether name is accepted by NewDecodingReader.
func IsSupportedEncoding(name string) bool {
	switch normalizeEncoding(name) {
	case EncodingCP1252, EncodingUTF8, EncodingUTF8BOM:
		return true
	}
	return false
}

// NewDecodingReader returns a reader producing UTF-8 from r encoded as name.
// The UTF-8 variants drop a leading byte order mark when present.
func NewDecodingReader(r io.Reader, name string) (io.Reader, error) {
	switch normalizeEncoding(name) {
	case EncodingCP1252:
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case EncodingUTF8, EncodingUTF8BOM:
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q (must be cp1252, utf-8 or utf-8-bom)", name)
	}
}

func normalizeEncoding(name string) string {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", "windows-1252":
		return EncodingCP1252
	case "utf8":
		return EncodingUTF8
	case "utf-8-sig", "utf8-bom":
		return EncodingUTF8BOM
	default:
		return n
	}
}
