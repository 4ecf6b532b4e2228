package jetjson

import (
	"github.com/biggeezerdevelopment/jetjson/internal/parser"
)

// Options configures parsing, navigation and serialization. The zero value
// is the default: permissive UTF-8, decoded numbers, compact output.
type Options struct {
	// ValidateUTF8 strictly validates UTF-8 in all string contents. When
	// off, invalid sequences pass through untouched, which is unsafe for
	// downstream consumers that assume valid UTF-8.
	ValidateUTF8 bool

	// UTF8Lossy replaces invalid UTF-8 sequences and lone surrogates with
	// U+FFFD instead of failing.
	UTF8Lossy bool

	// ArbitraryPrecision keeps numbers as their exact decimal text
	// (RawNumber nodes) rather than decoding them.
	ArbitraryPrecision bool

	// Validate makes Get and GetMany run a full structural validation
	// pass before skipping. Without it the getter checks only the syntax
	// it traverses; results on malformed input are unspecified but
	// memory-safe.
	Validate bool

	// SortKeys sorts object keys lexicographically on serialization.
	SortKeys bool

	// Pretty emits two-space indentation with one element per line.
	Pretty bool

	// NonTrailingZero serializes floats with integral values without a
	// ".0" suffix.
	NonTrailingZero bool
}

func (o Options) parserOptions() parser.Options {
	return parser.Options{
		ValidateUTF8:       o.ValidateUTF8,
		UTF8Lossy:          o.UTF8Lossy,
		ArbitraryPrecision: o.ArbitraryPrecision,
	}
}
