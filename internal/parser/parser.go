// Package parser implements the streaming tokenizer and validator. It drives
// the scanner over the input and emits a balanced event stream to a Visitor;
// grammar violations, bad escapes, bad numbers and invalid UTF-8 inside
// strings abort the parse with a positioned error.
package parser

import (
	"github.com/biggeezerdevelopment/jetjson/internal/errs"
	"github.com/biggeezerdevelopment/jetjson/internal/reader"
	"github.com/biggeezerdevelopment/jetjson/internal/scanner"
)

// MaxDepth bounds container nesting.
const MaxDepth = 128

// Options carries the parse-side configuration flags.
type Options struct {
	// ValidateUTF8 rejects invalid UTF-8 inside string contents.
	ValidateUTF8 bool
	// UTF8Lossy replaces invalid UTF-8 and lone surrogates with U+FFFD
	// instead of failing.
	UTF8Lossy bool
	// ArbitraryPrecision emits numbers as raw decimal text instead of
	// decoded variants.
	ArbitraryPrecision bool
}

// Visitor receives the event stream of one document in source order. Events
// are balanced; keys always precede their values. Byte slices passed with
// borrowed=true alias the input and stay valid as long as it does; slices
// passed with borrowed=false are scratch memory valid only for the duration
// of the call.
type Visitor interface {
	OnNull() error
	OnBool(b bool) error
	OnInt(i int64, raw []byte) error
	OnUint(u uint64, raw []byte) error
	OnFloat(f float64, raw []byte) error
	OnRawNumber(raw []byte) error
	OnString(b []byte, borrowed bool) error
	OnKey(b []byte, borrowed bool) error
	OnArrayBegin() error
	OnArrayEnd(n int) error
	OnObjectBegin() error
	OnObjectEnd(n int) error
}

type Parser struct {
	r     *reader.Reader
	s     *scanner.Scanner
	opts  Options
	depth int

	// Reused unescape buffer; contents are only valid during one visitor
	// callback.
	buf []byte
}

func New() *Parser {
	r := reader.New(nil)
	return &Parser{r: r, s: scanner.New(r)}
}

func (p *Parser) Reset(data []byte, opts Options) {
	p.r.Reset(data)
	p.s.Reset(p.r)
	p.opts = opts
	p.depth = 0
	p.buf = p.buf[:0]
}

// Parse validates data as a single JSON document, emitting events to v.
// Only whitespace may follow the root value.
func (p *Parser) Parse(data []byte, opts Options, v Visitor) error {
	p.Reset(data, opts)
	if err := p.parseValue(v); err != nil {
		return err
	}
	if _, ok := p.s.SkipWhitespace(); ok {
		return errs.New(errs.TrailingCharacters, data, p.r.Index())
	}
	return nil
}

func (p *Parser) parseValue(v Visitor) error {
	c, ok := p.s.SkipWhitespace()
	if !ok {
		return p.eof()
	}
	return p.parseValueFrom(c, v)
}

func (p *Parser) parseValueFrom(c byte, v Visitor) error {
	switch c {
	case '{':
		return p.parseObject(v)
	case '[':
		return p.parseArray(v)
	case '"':
		b, borrowed, err := p.parseStringContent()
		if err != nil {
			return err
		}
		return v.OnString(b, borrowed)
	case 't':
		if err := p.literalTail("rue"); err != nil {
			return err
		}
		return v.OnBool(true)
	case 'f':
		if err := p.literalTail("alse"); err != nil {
			return err
		}
		return v.OnBool(false)
	case 'n':
		if err := p.literalTail("ull"); err != nil {
			return err
		}
		return v.OnNull()
	default:
		if c == '-' || (c >= '0' && c <= '9') {
			return p.parseNumber(v)
		}
		return errs.New(errs.InvalidJSONValue, p.r.Data(), p.r.Index())
	}
}

func (p *Parser) parseArray(v Visitor) error {
	if p.depth++; p.depth > MaxDepth {
		return errs.New(errs.RecursionLimitExceeded, p.r.Data(), p.r.Index())
	}
	defer func() { p.depth-- }()

	if err := v.OnArrayBegin(); err != nil {
		return err
	}
	c, ok := p.s.SkipWhitespace()
	if !ok {
		return p.eof()
	}
	if c == ']' {
		return v.OnArrayEnd(0)
	}
	n := 0
	for {
		if err := p.parseValueFrom(c, v); err != nil {
			return err
		}
		n++
		sep, ok := p.s.SkipWhitespace()
		if !ok {
			return errs.New(errs.ExpectedArrayCommaOrEnd, p.r.Data(), p.r.Len())
		}
		if sep == ']' {
			return v.OnArrayEnd(n)
		}
		if sep != ',' {
			return errs.New(errs.ExpectedArrayCommaOrEnd, p.r.Data(), p.r.Index())
		}
		c, ok = p.s.SkipWhitespace()
		if !ok {
			return p.eof()
		}
		if c == ']' {
			return errs.New(errs.TrailingComma, p.r.Data(), p.r.Index())
		}
	}
}

func (p *Parser) parseObject(v Visitor) error {
	if p.depth++; p.depth > MaxDepth {
		return errs.New(errs.RecursionLimitExceeded, p.r.Data(), p.r.Index())
	}
	defer func() { p.depth-- }()

	if err := v.OnObjectBegin(); err != nil {
		return err
	}
	c, ok := p.s.SkipWhitespace()
	if !ok {
		return p.eof()
	}
	if c == '}' {
		return v.OnObjectEnd(0)
	}
	n := 0
	for {
		if c != '"' {
			return errs.New(errs.ExpectObjectKeyOrEnd, p.r.Data(), p.r.Index())
		}
		key, borrowed, err := p.parseStringContent()
		if err != nil {
			return err
		}
		if err := v.OnKey(key, borrowed); err != nil {
			return err
		}
		colon, ok := p.s.SkipWhitespace()
		if !ok {
			return p.eof()
		}
		if colon != ':' {
			return errs.New(errs.ExpectedColon, p.r.Data(), p.r.Index())
		}
		if err := p.parseValue(v); err != nil {
			return err
		}
		n++
		sep, ok := p.s.SkipWhitespace()
		if !ok {
			return errs.New(errs.ExpectedObjectCommaOrEnd, p.r.Data(), p.r.Len())
		}
		if sep == '}' {
			return v.OnObjectEnd(n)
		}
		if sep != ',' {
			return errs.New(errs.ExpectedObjectCommaOrEnd, p.r.Data(), p.r.Index())
		}
		c, ok = p.s.SkipWhitespace()
		if !ok {
			return p.eof()
		}
		if c == '}' {
			return errs.New(errs.TrailingComma, p.r.Data(), p.r.Index())
		}
	}
}

func (p *Parser) literalTail(tail string) error {
	r := p.r
	i := r.Index()
	if i+len(tail) > r.Len() {
		r.SetIndex(r.Len())
		return p.eof()
	}
	if string(r.Slice(i, i+len(tail))) != tail {
		return errs.New(errs.InvalidLiteral, r.Data(), i)
	}
	r.SetIndex(i + len(tail))
	return nil
}

func (p *Parser) eof() error {
	return errs.New(errs.EofWhileParsing, p.r.Data(), p.r.Len())
}
