// Package charset converts between UTF-8 and the legacy Korean wire
// encoding older MUD clients speak.
package charset

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
)

// Charset is a connection's wire encoding.
type Charset int

const (
	UTF8 Charset = iota
	EUCKR
)

func (c Charset) String() string {
	if c == EUCKR {
		return "EUC-KR"
	}
	return "UTF-8"
}

// Parse maps a name such as "euc-kr", "cp949" or "utf8" to a Charset.
func Parse(name string) (Charset, bool) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "")) {
	case "utf8":
		return UTF8, true
	case "euckr", "cp949", "uhc", "ksc5601":
		return EUCKR, true
	}
	return UTF8, false
}

// Decode converts bytes received from the client into a UTF-8 string.
// Undecodable bytes become U+FFFD.
func (c Charset) Decode(b []byte) string {
	if c == EUCKR {
		out, err := korean.EUCKR.NewDecoder().Bytes(b)
		if err == nil {
			return string(out)
		}
	}
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "�")
}

// Encode converts UTF-8 text for the client. Characters the wire encoding
// cannot represent are replaced.
func (c Charset) Encode(s string) []byte {
	if c != EUCKR {
		return []byte(s)
	}
	out, err := encoding.ReplaceUnsupported(korean.EUCKR.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}
