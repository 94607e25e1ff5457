package xmladapter

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// windows1252Table maps each byte 0x80-0x9F to its Windows-1252 rune; bytes
// below 0x80 are ASCII and 0xA0-0xFF match Latin-1/ISO-8859-1 exactly, so
// only the Windows-specific extension range needs its own table.
var windows1252Table = [32]rune{
	0x20AC, 0x0081, 0x201A, 0x0192, 0x201E, 0x2026, 0x2020, 0x2021,
	0x02C6, 0x2030, 0x0160, 0x2039, 0x0152, 0x008D, 0x017D, 0x008F,
	0x0090, 0x2018, 0x2019, 0x201C, 0x201D, 0x2022, 0x2013, 0x2014,
	0x02DC, 0x2122, 0x0161, 0x203A, 0x0153, 0x009D, 0x017E, 0x0178,
}

func windows1252Rune(b byte) rune {
	if b < 0x80 || b >= 0xA0 {
		return rune(b)
	}
	return windows1252Table[b-0x80]
}

// legacyReader decodes a single-byte legacy encoding into UTF-8 on the fly,
// following arturoeanton/go-xml's latin1Reader (xml/util.go) — generalised
// from one fixed table to either the Latin-1 identity mapping or the
// Windows-1252 extension table, selected by charsetReader.
type legacyReader struct {
	r       io.Reader
	toRune  func(byte) rune
	pending []byte
}

func (l *legacyReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	maxRead := len(p) / 4
	if maxRead == 0 {
		maxRead = 1
	}
	buf := make([]byte, maxRead)
	n, err := l.r.Read(buf)

	written := 0
	for i := 0; i < n; i++ {
		r := l.toRune(buf[i])
		if written+utf8.RuneLen(r) > len(p) {
			break
		}
		written += utf8.EncodeRune(p[written:], r)
	}
	return written, err
}

// charsetReader is installed as xml.Decoder.CharsetReader so a declared
// encoding of iso-8859-1/windows-1252 actually decodes instead of failing with
// encoding/xml's default "unsupported charset" error — UTF-8/UTF-16
// documents never reach this function since encoding/xml handles those
// itself without consulting CharsetReader.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "iso-8859-1", "latin1", "iso8859-1":
		return &legacyReader{r: input, toRune: func(b byte) rune { return rune(b) }}, nil
	case "windows-1252", "cp1252":
		return &legacyReader{r: input, toRune: windows1252Rune}, nil
	default:
		return nil, fmt.Errorf("xmladapter: unsupported charset %q", charset)
	}
}
