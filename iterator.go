package jetjson

import (
	"github.com/biggeezerdevelopment/jetjson/internal/errs"
	"github.com/biggeezerdevelopment/jetjson/internal/parser"
	"github.com/biggeezerdevelopment/jetjson/internal/reader"
	"github.com/biggeezerdevelopment/jetjson/internal/scanner"
)

const (
	iterInit = iota
	iterActive
	iterDone
)

// ArrayIter yields the elements of a JSON array lazily as raw spans. The
// reader state rides inside the iterator; it is finite and non-restartable.
// Syntax errors surface by terminating the iteration, with the cause on
// Err.
type ArrayIter struct {
	s     *scanner.Scanner
	r     *reader.Reader
	state uint8
	err   error
}

// NewArrayIter iterates the array at the start of data.
func NewArrayIter(data []byte) *ArrayIter {
	r := reader.New(data)
	return &ArrayIter{s: scanner.New(r), r: r}
}

func (it *ArrayIter) fail(err error) (LazyValue, bool) {
	it.err = err
	it.state = iterDone
	return LazyValue{}, false
}

// Next returns the next element. ok is false at the end of the array or on
// error; check Err afterwards.
func (it *ArrayIter) Next() (v LazyValue, ok bool) {
	switch it.state {
	case iterDone:
		return LazyValue{}, false
	case iterInit:
		it.state = iterActive
		c, ok := it.s.SkipWhitespace()
		if !ok {
			return it.fail(errs.New(errs.EofWhileParsing, it.r.Data(), it.r.Len()))
		}
		if c != '[' {
			return it.fail(errs.New(errs.ExpectedArrayStart, it.r.Data(), it.r.Index()))
		}
		c, ok = it.s.SkipWhitespace()
		if !ok {
			return it.fail(errs.New(errs.ExpectedArrayCommaOrEnd, it.r.Data(), it.r.Len()))
		}
		if c == ']' {
			it.state = iterDone
			return LazyValue{}, false
		}
		it.r.SetIndex(it.r.Index() - 1)
	default:
		c, ok := it.s.SkipWhitespace()
		if !ok {
			return it.fail(errs.New(errs.ExpectedArrayCommaOrEnd, it.r.Data(), it.r.Len()))
		}
		if c == ']' {
			it.state = iterDone
			return LazyValue{}, false
		}
		if c != ',' {
			return it.fail(errs.New(errs.ExpectedArrayCommaOrEnd, it.r.Data(), it.r.Index()))
		}
	}

	val, err := captureValue(it.s, false)
	if err != nil {
		return it.fail(err)
	}
	return val, true
}

// Err returns the terminal error, nil after a clean end of array.
func (it *ArrayIter) Err() error { return it.err }

// ObjectIter yields the members of a JSON object lazily: decoded keys with
// raw value spans, in source order, duplicates included.
type ObjectIter struct {
	s     *scanner.Scanner
	r     *reader.Reader
	state uint8
	err   error
	buf   []byte
}

// NewObjectIter iterates the object at the start of data.
func NewObjectIter(data []byte) *ObjectIter {
	r := reader.New(data)
	return &ObjectIter{s: scanner.New(r), r: r}
}

func (it *ObjectIter) fail(err error) (string, LazyValue, bool) {
	it.err = err
	it.state = iterDone
	return "", LazyValue{}, false
}

// Next returns the next member. ok is false at the end of the object or on
// error; check Err afterwards.
func (it *ObjectIter) Next() (key string, v LazyValue, ok bool) {
	var c byte
	var more bool
	switch it.state {
	case iterDone:
		return "", LazyValue{}, false
	case iterInit:
		it.state = iterActive
		c, more = it.s.SkipWhitespace()
		if !more {
			return it.fail(errs.New(errs.EofWhileParsing, it.r.Data(), it.r.Len()))
		}
		if c != '{' {
			return it.fail(errs.New(errs.ExpectedObjectStart, it.r.Data(), it.r.Index()))
		}
		c, more = it.s.SkipWhitespace()
		if !more {
			return it.fail(errs.New(errs.ExpectedObjectCommaOrEnd, it.r.Data(), it.r.Len()))
		}
		if c == '}' {
			it.state = iterDone
			return "", LazyValue{}, false
		}
	default:
		c, more = it.s.SkipWhitespace()
		if !more {
			return it.fail(errs.New(errs.ExpectedObjectCommaOrEnd, it.r.Data(), it.r.Len()))
		}
		if c == '}' {
			it.state = iterDone
			return "", LazyValue{}, false
		}
		if c != ',' {
			return it.fail(errs.New(errs.ExpectedObjectCommaOrEnd, it.r.Data(), it.r.Index()))
		}
		c, more = it.s.SkipWhitespace()
		if !more {
			return it.fail(errs.New(errs.EofWhileParsing, it.r.Data(), it.r.Len()))
		}
	}

	if c != '"' {
		return it.fail(errs.New(errs.ExpectObjectKeyOrEnd, it.r.Data(), it.r.Index()))
	}
	data := it.r.Data()
	lo := it.r.Index()
	hasEscape, serr := it.s.SkipString()
	if serr != nil {
		return it.fail(serr)
	}
	hi := it.r.Index() - 1
	raw := data[lo:hi]
	if hasEscape {
		dec, uerr := parser.AppendUnescaped(it.buf[:0], raw, data, lo, false)
		if uerr != nil {
			return it.fail(uerr)
		}
		it.buf = dec
		key = string(dec)
	} else {
		key = string(raw)
	}

	c, more = it.s.SkipWhitespace()
	if !more {
		return it.fail(errs.New(errs.EofWhileParsing, it.r.Data(), it.r.Len()))
	}
	if c != ':' {
		return it.fail(errs.New(errs.ExpectedColon, it.r.Data(), it.r.Index()))
	}
	val, err := captureValue(it.s, false)
	if err != nil {
		return it.fail(err)
	}
	return key, val, true
}

// Err returns the terminal error, nil after a clean end of object.
func (it *ObjectIter) Err() error { return it.err }
