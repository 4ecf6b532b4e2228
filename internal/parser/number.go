package parser

import (
	"encoding/binary"
	"math"
	"strconv"
	"unsafe"

	"github.com/biggeezerdevelopment/jetjson/internal/bitmap"
	"github.com/biggeezerdevelopment/jetjson/internal/errs"
)

// Exact powers of ten in float64, the window of the float fast path.
var pow10 = [...]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10, 1e11,
	1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19, 1e20, 1e21, 1e22,
}

// parseNumber validates the number whose first byte (sign or digit) has
// already been consumed, then decodes it. Grammar: optional '-', "0" or a
// non-zero-led digit run, optional fraction, optional exponent. Grammar
// errors point at the offending byte.
func (p *Parser) parseNumber(v Visitor) error {
	r := p.r
	data := r.Data()
	start := r.Index() - 1
	i := start

	neg := data[i] == '-'
	if neg {
		i++
	}
	if i >= len(data) {
		r.SetIndex(len(data))
		return errs.New(errs.InvalidNumber, data, len(data))
	}

	ipStart := i
	switch {
	case data[i] == '0':
		i++
	case data[i] >= '1' && data[i] <= '9':
		i = skipDigits(data, i+1)
	default:
		return errs.New(errs.InvalidNumber, data, i)
	}
	ipEnd := i

	fpStart, fpEnd := i, i
	isFloat := false
	if i < len(data) && data[i] == '.' {
		isFloat = true
		i++
		if i >= len(data) {
			r.SetIndex(len(data))
			return errs.New(errs.InvalidNumber, data, len(data))
		}
		if data[i] < '0' || data[i] > '9' {
			return errs.New(errs.InvalidNumber, data, i)
		}
		fpStart = i
		i = skipDigits(data, i)
		fpEnd = i
	}

	expVal := 0
	if i < len(data) && (data[i] == 'e' || data[i] == 'E') {
		isFloat = true
		i++
		expNeg := false
		if i < len(data) && (data[i] == '+' || data[i] == '-') {
			expNeg = data[i] == '-'
			i++
		}
		if i >= len(data) {
			r.SetIndex(len(data))
			return errs.New(errs.InvalidNumber, data, len(data))
		}
		if data[i] < '0' || data[i] > '9' {
			return errs.New(errs.InvalidNumber, data, i)
		}
		for i < len(data) && data[i] >= '0' && data[i] <= '9' {
			// Clamp: anything this large is over/underflow anyway and
			// the slow path re-reads the raw text.
			if expVal < 100000 {
				expVal = expVal*10 + int(data[i]-'0')
			}
			i++
		}
		if expNeg {
			expVal = -expVal
		}
	}

	r.SetIndex(i)
	raw := data[start:i]

	if p.opts.ArbitraryPrecision {
		return v.OnRawNumber(raw)
	}
	if !isFloat {
		return p.emitInteger(v, raw, data[ipStart:ipEnd], neg)
	}
	return p.emitFloat(v, raw, data[ipStart:ipEnd], data[fpStart:fpEnd], expVal, neg)
}

// emitInteger decodes a dot-and-exponent-free number. Up to 19 digits always
// fit u64; 20-digit values are tried with overflow checks; anything beyond
// the integer types decodes as float64.
func (p *Parser) emitInteger(v Visitor, raw, digits []byte, neg bool) error {
	n := len(digits)
	if n <= 19 {
		u := decodeInto(0, digits)
		switch {
		case neg && u == 0:
			return v.OnFloat(math.Copysign(0, -1), raw)
		case neg && u <= 1<<63:
			return v.OnInt(negInt64(u), raw)
		case !neg && u <= math.MaxInt64:
			return v.OnInt(int64(u), raw)
		case !neg:
			return v.OnUint(u, raw)
		}
	} else if !neg && n == 20 {
		if u, ok := decodeChecked(digits); ok {
			return v.OnUint(u, raw)
		}
	}
	return p.emitSlow(v, raw)
}

// emitFloat decodes a number with a fraction or exponent. When the mantissa
// fits 19 digits exactly in a float64 and the decimal exponent lies in the
// exact power-of-ten window, one multiply or divide is correctly rounded
// (Clinger); everything else re-parses the raw text on the slow path.
func (p *Parser) emitFloat(v Visitor, raw, ip, fp []byte, exp int, neg bool) error {
	if len(ip)+len(fp) <= 19 {
		mant := decodeInto(decodeInto(0, ip), fp)
		e := exp - len(fp)
		if mant>>53 == 0 && e >= -22 && e <= 22 {
			f := float64(mant)
			if e < 0 {
				f /= pow10[-e]
			} else {
				f *= pow10[e]
			}
			if neg {
				f = -f
			}
			return v.OnFloat(f, raw)
		}
	}
	return p.emitSlow(v, raw)
}

// emitSlow delegates to strconv's correctly rounded conversion. Overflow to
// infinity is a range error; underflow quietly becomes zero.
func (p *Parser) emitSlow(v Visitor, raw []byte) error {
	f, err := strconv.ParseFloat(unsafeString(raw), 64)
	if err != nil && math.IsInf(f, 0) {
		return errs.New(errs.NumberOutOfRange, p.r.Data(), p.r.Index())
	}
	return v.OnFloat(f, raw)
}

func negInt64(u uint64) int64 {
	if u == 1<<63 {
		return math.MinInt64
	}
	return -int64(u)
}

// skipDigits advances past an ASCII digit run, eight bytes at a time while
// whole words are digits.
func skipDigits(data []byte, i int) int {
	for i+8 <= len(data) && bitmap.EightDigits(binary.LittleEndian.Uint64(data[i:])) {
		i += 8
	}
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		i++
	}
	return i
}

// decodeInto accumulates a digit run into u using packed-decimal eight-digit
// chunks. The caller guarantees the total fits uint64.
func decodeInto(u uint64, b []byte) uint64 {
	i := 0
	for ; i+8 <= len(b); i += 8 {
		u = u*100000000 + uint64(bitmap.ParseEightDigits(binary.LittleEndian.Uint64(b[i:])))
	}
	for ; i < len(b); i++ {
		u = u*10 + uint64(b[i]-'0')
	}
	return u
}

// decodeChecked decodes a digit run, reporting overflow past uint64.
func decodeChecked(b []byte) (uint64, bool) {
	var u uint64
	for _, c := range b {
		d := uint64(c - '0')
		if u > (math.MaxUint64-d)/10 {
			return 0, false
		}
		u = u*10 + d
	}
	return u, true
}

// unsafeString views b as a string without copying, for strconv calls.
func unsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}
