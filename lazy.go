package jetjson

import (
	"github.com/biggeezerdevelopment/jetjson/internal/errs"
)

// LazyValue names a complete JSON value by its raw bytes without parsing
// it. Values produced by Get and the iterators borrow the input slice;
// conversion methods trigger a full parse of just this span.
type LazyValue struct {
	raw       []byte
	validated bool
}

// NewLazyValue wraps raw, which the caller asserts is exactly one JSON
// value (whitespace-trimmed). It starts out unchecked.
func NewLazyValue(raw []byte) LazyValue {
	return LazyValue{raw: raw}
}

// Raw returns the underlying bytes, quotes and all for strings.
func (v LazyValue) Raw() []byte { return v.raw }

// Validated reports whether the span came from a traversal that ran the
// full structural pre-pass.
func (v LazyValue) Validated() bool { return v.validated }

// Exists reports whether the value names anything at all.
func (v LazyValue) Exists() bool { return v.raw != nil }

// ToDocument fully parses the span into a mutable document.
func (v LazyValue) ToDocument(opts Options) (*Document, error) {
	return Parse(v.raw, opts)
}

func (v LazyValue) root(opts Options) (*Node, error) {
	doc, err := v.ToDocument(opts)
	if err != nil {
		return nil, err
	}
	return doc.Root(), nil
}

// AsString decodes the span as a JSON string.
func (v LazyValue) AsString() (string, error) {
	n, err := v.root(Options{})
	if err != nil {
		return "", err
	}
	s, ok := n.Str()
	if !ok {
		return "", errs.New(errs.GetTypeMismatch, v.raw, 0)
	}
	return s, nil
}

// AsInt64 decodes the span as an integer.
func (v LazyValue) AsInt64() (int64, error) {
	n, err := v.root(Options{})
	if err != nil {
		return 0, err
	}
	i, ok := n.Int64()
	if !ok {
		return 0, errs.New(errs.GetTypeMismatch, v.raw, 0)
	}
	return i, nil
}

// AsFloat64 decodes the span as a number.
func (v LazyValue) AsFloat64() (float64, error) {
	n, err := v.root(Options{})
	if err != nil {
		return 0, err
	}
	f, ok := n.Float64()
	if !ok {
		return 0, errs.New(errs.GetTypeMismatch, v.raw, 0)
	}
	return f, nil
}

// AsBool decodes the span as a boolean.
func (v LazyValue) AsBool() (bool, error) {
	n, err := v.root(Options{})
	if err != nil {
		return false, err
	}
	b, ok := n.Bool()
	if !ok {
		return false, errs.New(errs.GetTypeMismatch, v.raw, 0)
	}
	return b, nil
}

// IsNull reports whether the span is the null literal.
func (v LazyValue) IsNull() bool {
	n, err := v.root(Options{})
	return err == nil && n.IsNull()
}
