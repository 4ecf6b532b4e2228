package parser

import (
	"unicode/utf8"

	"github.com/biggeezerdevelopment/jetjson/internal/errs"
)

// parseStringContent decodes the string whose opening quote has already been
// consumed. When the body contains no escapes (and needs no lossy repair) the
// returned bytes borrow the input; otherwise they live in the parser's
// scratch buffer and are only valid until the next event.
func (p *Parser) parseStringContent() (b []byte, borrowed bool, err error) {
	r := p.r
	start := r.Index()
	hasEscape, serr := p.s.SkipString()
	if serr != nil {
		return nil, false, serr
	}
	end := r.Index() - 1 // closing quote
	raw := r.Slice(start, end)

	if ci := firstControl(raw); ci >= 0 {
		return nil, false, errs.New(errs.ControlCharacterInString, r.Data(), start+ci+1)
	}

	// Escape sequences are pure ASCII, so checking the raw span checks
	// exactly the bytes that end up inside the string, once.
	if p.opts.ValidateUTF8 || p.opts.UTF8Lossy {
		if inv := firstInvalidUTF8(raw); inv >= 0 {
			if !p.opts.UTF8Lossy {
				return nil, false, errs.New(errs.InvalidUTF8, r.Data(), start+inv+1)
			}
			raw = appendLossy(nil, raw)
			if !hasEscape {
				return raw, false, nil
			}
			out, uerr := AppendUnescaped(p.buf[:0], raw, r.Data(), start, true)
			if uerr != nil {
				return nil, false, uerr
			}
			p.buf = out
			return out, false, nil
		}
	}

	if !hasEscape {
		return raw, true, nil
	}
	out, uerr := AppendUnescaped(p.buf[:0], raw, r.Data(), start, p.opts.UTF8Lossy)
	if uerr != nil {
		return nil, false, uerr
	}
	p.buf = out
	return out, false, nil
}

// AppendUnescaped appends the decoded form of raw (the bytes between a
// string's quotes) to dst. json and base position errors: base is the
// absolute offset of raw[0] within json. In lossy mode lone surrogates
// decode to U+FFFD instead of failing.
func AppendUnescaped(dst, raw, json []byte, base int, lossy bool) ([]byte, *errs.Error) {
	if cap(dst) < len(raw) {
		grown := make([]byte, len(dst), len(raw)+utf8.UTFMax)
		copy(grown, dst)
		dst = grown
	}
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c != '\\' {
			dst = append(dst, c)
			i++
			continue
		}
		if i+1 >= len(raw) {
			return nil, errs.New(errs.InvalidEscape, json, base+i+1)
		}
		i++
		switch raw[i] {
		case '"':
			dst = append(dst, '"')
			i++
		case '\\':
			dst = append(dst, '\\')
			i++
		case '/':
			dst = append(dst, '/')
			i++
		case 'b':
			dst = append(dst, '\b')
			i++
		case 'f':
			dst = append(dst, '\f')
			i++
		case 'n':
			dst = append(dst, '\n')
			i++
		case 'r':
			dst = append(dst, '\r')
			i++
		case 't':
			dst = append(dst, '\t')
			i++
		case 'u':
			var uerr *errs.Error
			dst, i, uerr = decodeUnicodeEscape(dst, raw, i, json, base, lossy)
			if uerr != nil {
				return nil, uerr
			}
		default:
			return nil, errs.New(errs.InvalidEscape, json, base+i+1)
		}
	}
	return dst, nil
}

// decodeUnicodeEscape decodes a \uXXXX sequence; i indexes the 'u'. High
// surrogates must be followed by a low surrogate escape; the pair combines
// into one code point.
func decodeUnicodeEscape(dst, raw []byte, i int, json []byte, base int, lossy bool) ([]byte, int, *errs.Error) {
	if i+5 > len(raw) {
		return nil, 0, errs.New(errs.InvalidUnicodeCodePoint, json, base+i+1)
	}
	u1, ok := parseHex4(raw[i+1 : i+5])
	if !ok {
		return nil, 0, errs.New(errs.InvalidUnicodeCodePoint, json, base+i+1)
	}
	i += 5

	switch {
	case u1 >= 0xD800 && u1 <= 0xDBFF:
		// High surrogate: demand the paired low surrogate.
		if i+6 <= len(raw) && raw[i] == '\\' && raw[i+1] == 'u' {
			u2, ok2 := parseHex4(raw[i+2 : i+6])
			if ok2 && u2 >= 0xDC00 && u2 <= 0xDFFF {
				r := 0x10000 + (rune(u1)-0xD800)<<10 + (rune(u2) - 0xDC00)
				return utf8.AppendRune(dst, r), i + 6, nil
			}
		}
		if lossy {
			return utf8.AppendRune(dst, utf8.RuneError), i, nil
		}
		return nil, 0, errs.New(errs.InvalidSurrogate, json, base+i)
	case u1 >= 0xDC00 && u1 <= 0xDFFF:
		// Lone low surrogate.
		if lossy {
			return utf8.AppendRune(dst, utf8.RuneError), i, nil
		}
		return nil, 0, errs.New(errs.InvalidSurrogate, json, base+i)
	default:
		return utf8.AppendRune(dst, rune(u1)), i, nil
	}
}

func parseHex4(b []byte) (uint32, bool) {
	var u uint32
	for _, c := range b {
		u <<= 4
		switch {
		case c >= '0' && c <= '9':
			u |= uint32(c - '0')
		case c >= 'a' && c <= 'f':
			u |= uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			u |= uint32(c-'A') + 10
		default:
			return 0, false
		}
	}
	return u, true
}

func firstControl(b []byte) int {
	for i, c := range b {
		if c < 0x20 {
			return i
		}
	}
	return -1
}

// HasEscape reports whether raw contains a backslash, deciding between the
// zero-copy borrow and the decode path.
func HasEscape(raw []byte) bool {
	for _, c := range raw {
		if c == '\\' {
			return true
		}
	}
	return false
}
