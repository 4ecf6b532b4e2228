// Package jetjson is a SIMD-flavored JSON core: a streaming validator and
// tokenizer driven by bit-parallel scans over 64-byte windows, an on-demand
// getter that extracts subvalues without materializing their surroundings,
// and an arena-backed mutable document model.
//
// Parsing and serialization are single-threaded and never do I/O; parsing N
// bytes performs O(N) work and O(N) allocations. Parsed documents may be
// read from any number of goroutines as long as none mutates them.
package jetjson

import (
	"sync"

	"github.com/biggeezerdevelopment/jetjson/internal/bitmap"
	"github.com/biggeezerdevelopment/jetjson/internal/parser"
)

var parserPool = sync.Pool{
	New: func() interface{} {
		return parser.New()
	},
}

// Parse validates data as a single JSON document (trailing whitespace
// allowed) and materializes it into an arena-backed document.
func Parse(data []byte, opts Options) (*Document, error) {
	p := parserPool.Get().(*parser.Parser)
	defer parserPool.Put(p)

	b := newBuilder(data)
	if err := p.Parse(data, opts.parserOptions(), b); err != nil {
		return nil, err
	}
	return b.finish()
}

// ParseString is Parse over a string.
func ParseString(s string, opts Options) (*Document, error) {
	return Parse([]byte(s), opts)
}

// ParseVisitor validates data and emits its event stream to v instead of
// building a document.
func ParseVisitor(data []byte, opts Options, v Visitor) error {
	p := parserPool.Get().(*parser.Parser)
	defer parserPool.Put(p)

	return p.Parse(data, opts.parserOptions(), v)
}

// Valid reports whether data is a syntactically valid JSON document.
func Valid(data []byte) bool {
	return validate(data) == nil
}

// validate runs the full structural pre-pass with no document built.
func validate(data []byte) error {
	p := parserPool.Get().(*parser.Parser)
	defer parserPool.Put(p)

	return p.Parse(data, parser.Options{}, nullVisitor{})
}

// nullVisitor discards every event; it drives validation-only passes.
type nullVisitor struct{}

func (nullVisitor) OnNull() error                 { return nil }
func (nullVisitor) OnBool(bool) error             { return nil }
func (nullVisitor) OnInt(int64, []byte) error     { return nil }
func (nullVisitor) OnUint(uint64, []byte) error   { return nil }
func (nullVisitor) OnFloat(float64, []byte) error { return nil }
func (nullVisitor) OnRawNumber([]byte) error      { return nil }
func (nullVisitor) OnString([]byte, bool) error   { return nil }
func (nullVisitor) OnKey([]byte, bool) error      { return nil }
func (nullVisitor) OnArrayBegin() error           { return nil }
func (nullVisitor) OnArrayEnd(int) error          { return nil }
func (nullVisitor) OnObjectBegin() error          { return nil }
func (nullVisitor) OnObjectEnd(int) error         { return nil }

// SIMDCapability reports which vector extension the mask kernels would use
// on this CPU: "avx2", "sse4.2", "neon" or "swar". The answer is fixed at
// process start.
func SIMDCapability() string {
	return bitmap.Capability()
}
