// Package scanner implements the bit-parallel skippers the tokenizer and the
// on-demand getter share: whitespace skipping with a cached nospace bitmap,
// string skipping, bracket matching over whole 64-byte windows, and number
// body scanning.
package scanner

import (
	"math/bits"

	"github.com/biggeezerdevelopment/jetjson/internal/bitmap"
	"github.com/biggeezerdevelopment/jetjson/internal/errs"
	"github.com/biggeezerdevelopment/jetjson/internal/reader"
)

var whitespaceTable = [256]bool{
	' ': true, '\t': true, '\n': true, '\r': true,
}

var numberBodyTable = [256]bool{
	'0': true, '1': true, '2': true, '3': true, '4': true,
	'5': true, '6': true, '7': true, '8': true, '9': true,
	'+': true, '-': true, '.': true, 'e': true, 'E': true,
}

type Scanner struct {
	r *reader.Reader

	// Cached non-whitespace bitmap covering
	// [nospaceStart, nospaceStart+64). Repeated skips inside one window
	// reuse it instead of reloading, which keeps the common
	// one-space-between-tokens pattern O(1) amortized.
	nospaceBits  uint64
	nospaceStart int
}

func New(r *reader.Reader) *Scanner {
	return &Scanner{r: r, nospaceStart: -bitmap.WindowSize * 2}
}

func (s *Scanner) Reset(r *reader.Reader) {
	s.r = r
	s.nospaceBits = 0
	s.nospaceStart = -bitmap.WindowSize * 2
}

func (s *Scanner) Reader() *reader.Reader { return s.r }

// SkipWhitespace consumes input up to and including the next non-whitespace
// byte, which it returns. ok is false at end of input.
func (s *Scanner) SkipWhitespace() (c byte, ok bool) {
	r := s.r

	// Zero-space fast path.
	c, ok = r.Next()
	if !ok {
		return 0, false
	}
	if !whitespaceTable[c] {
		return c, true
	}

	// Single-space fast path.
	c, ok = r.Next()
	if !ok {
		return 0, false
	}
	if !whitespaceTable[c] {
		return c, true
	}
	r.SetIndex(r.Index() - 1)

	return s.skipWhitespaceBitmap()
}

func (s *Scanner) skipWhitespaceBitmap() (byte, bool) {
	r := s.r

	// Consume from the cached window if the cursor still lies inside it.
	if off := r.Index() - s.nospaceStart; off >= 0 && off < bitmap.WindowSize {
		if rest := s.nospaceBits &^ (1<<uint(off) - 1); rest != 0 {
			cnt := bits.TrailingZeros64(rest)
			r.SetIndex(s.nospaceStart + cnt + 1)
			return r.At(s.nospaceStart + cnt), true
		}
		next := s.nospaceStart + bitmap.WindowSize
		if next > r.Len() {
			next = r.Len()
		}
		r.SetIndex(next)
	}

	var w bitmap.Window
	for r.Index() < r.Len() {
		i := r.Index()
		r.Window(i, &w)
		nonspace := ^bitmap.WhitespaceMask(&w)
		if rem := r.Len() - i; rem < bitmap.WindowSize {
			nonspace &= 1<<uint(rem) - 1
		}
		if nonspace != 0 {
			s.nospaceStart = i
			s.nospaceBits = nonspace
			cnt := bits.TrailingZeros64(nonspace)
			r.SetIndex(i + cnt + 1)
			return r.At(i + cnt), true
		}
		next := i + bitmap.WindowSize
		if next > r.Len() {
			next = r.Len()
		}
		r.SetIndex(next)
	}
	return 0, false
}

// SkipString advances past the unescaped closing quote of the string whose
// opening quote has already been consumed. It reports whether any escape
// sequence occurred inside the string body.
func (s *Scanner) SkipString() (hasEscape bool, err *errs.Error) {
	r := s.r
	var prevEscaped uint64
	var w bitmap.Window
	for i := r.Index(); i < r.Len(); i += bitmap.WindowSize {
		r.Window(i, &w)
		backslash := bitmap.EqMask(&w, '\\')
		quotes := bitmap.EqMask(&w, '"') &^ bitmap.EscapedMask(backslash, &prevEscaped)
		if quotes != 0 {
			cnt := bits.TrailingZeros64(quotes)
			if backslash&(1<<uint(cnt)-1) != 0 {
				hasEscape = true
			}
			r.SetIndex(i + cnt + 1)
			return hasEscape, nil
		}
		if backslash != 0 {
			hasEscape = true
		}
	}
	r.SetIndex(r.Len())
	return hasEscape, errs.New(errs.EofWhileParsing, r.Data(), r.Len())
}

// SkipContainer advances past the matching right bracket of the container
// whose left bracket has already been consumed. Brackets are matched
// bit-parallel per window: right-bracket bits are walked in ascending order
// and the left-bracket count is recomputed from a prefix popcount, so the
// container closes on the first position where rights outnumber lefts.
func (s *Scanner) SkipContainer(left, right byte) *errs.Error {
	r := s.r
	var prevInString, prevEscaped uint64
	lbraceNum, rbraceNum := 0, 0
	var w bitmap.Window
	for i := r.Index(); i < r.Len(); i += bitmap.WindowSize {
		r.Window(i, &w)
		backslash := bitmap.EqMask(&w, '\\')
		quotes := bitmap.EqMask(&w, '"') &^ bitmap.EscapedMask(backslash, &prevEscaped)
		inString := bitmap.StringMask(quotes, &prevInString)
		lmask := bitmap.EqMask(&w, left) &^ inString
		rmask := bitmap.EqMask(&w, right) &^ inString

		base := lbraceNum
		for rb := rmask; rb != 0; rb &= rb - 1 {
			p := bits.TrailingZeros64(rb)
			rbraceNum++
			lbraceNum = base + bits.OnesCount64(lmask&(1<<uint(p)-1))
			if lbraceNum < rbraceNum {
				r.SetIndex(i + p + 1)
				return nil
			}
		}
		lbraceNum = base + bits.OnesCount64(lmask)
	}
	r.SetIndex(r.Len())
	return errs.New(errs.EofWhileParsing, r.Data(), r.Len())
}

// SkipNumberBody advances while the current byte belongs to a number body.
// Grammar is not checked here; the number parser validates structure.
func (s *Scanner) SkipNumberBody() {
	r := s.r
	i := r.Index()
	data := r.Data()
	for i < len(data) && numberBodyTable[data[i]] {
		i++
	}
	r.SetIndex(i)
}

// SkipValue skips one complete JSON value, whitespace included.
func (s *Scanner) SkipValue() *errs.Error {
	c, ok := s.SkipWhitespace()
	if !ok {
		return errs.New(errs.EofWhileParsing, s.r.Data(), s.r.Len())
	}
	return s.SkipValueFrom(c)
}

// SkipValueFrom skips the remainder of a value whose first significant byte
// c has already been consumed.
func (s *Scanner) SkipValueFrom(c byte) *errs.Error {
	r := s.r
	switch c {
	case '{':
		return s.SkipContainer('{', '}')
	case '[':
		return s.SkipContainer('[', ']')
	case '"':
		_, err := s.SkipString()
		return err
	case 't':
		return s.skipLiteralTail("rue")
	case 'f':
		return s.skipLiteralTail("alse")
	case 'n':
		return s.skipLiteralTail("ull")
	default:
		if c == '-' || (c >= '0' && c <= '9') {
			s.SkipNumberBody()
			return nil
		}
		return errs.New(errs.InvalidJSONValue, r.Data(), r.Index())
	}
}

func (s *Scanner) skipLiteralTail(tail string) *errs.Error {
	r := s.r
	i := r.Index()
	if i+len(tail) > r.Len() {
		r.SetIndex(r.Len())
		return errs.New(errs.EofWhileParsing, r.Data(), r.Len())
	}
	if string(r.Slice(i, i+len(tail))) != tail {
		return errs.New(errs.InvalidLiteral, r.Data(), i)
	}
	r.SetIndex(i + len(tail))
	return nil
}
