package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biggeezerdevelopment/jetjson/internal/errs"
)

// recordVisitor flattens the event stream into strings for comparison.
type recordVisitor struct {
	events []string
}

func (r *recordVisitor) add(e string) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recordVisitor) OnNull() error              { return r.add("null") }
func (r *recordVisitor) OnBool(b bool) error        { return r.add(boolStr(b)) }
func (r *recordVisitor) OnRawNumber(b []byte) error { return r.add("raw:" + string(b)) }
func (r *recordVisitor) OnArrayBegin() error        { return r.add("[") }
func (r *recordVisitor) OnArrayEnd(int) error       { return r.add("]") }
func (r *recordVisitor) OnObjectBegin() error       { return r.add("{") }
func (r *recordVisitor) OnObjectEnd(int) error      { return r.add("}") }

func (r *recordVisitor) OnInt(i int64, _ []byte) error {
	return r.add("int:" + itoa(i))
}

func (r *recordVisitor) OnUint(u uint64, _ []byte) error {
	return r.add("uint")
}

func (r *recordVisitor) OnFloat(f float64, _ []byte) error {
	return r.add("float")
}

func (r *recordVisitor) OnString(b []byte, _ bool) error {
	return r.add("str:" + string(b))
}

func (r *recordVisitor) OnKey(b []byte, _ bool) error {
	return r.add("key:" + string(b))
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func itoa(i int64) string {
	if i < 0 {
		return "-" + itoa(-i)
	}
	if i < 10 {
		return string(rune('0' + i))
	}
	return itoa(i/10) + string(rune('0'+i%10))
}

func parseEvents(t *testing.T, input string, opts Options) ([]string, error) {
	t.Helper()
	p := New()
	v := &recordVisitor{}
	err := p.Parse([]byte(input), opts, v)
	return v.events, err
}

func TestParseValid(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		events []string
	}{
		{"null", `null`, []string{"null"}},
		{"true", `true`, []string{"true"}},
		{"false", `false`, []string{"false"}},
		{"int", `42`, []string{"int:42"}},
		{"string", `"hi"`, []string{"str:hi"}},
		{"empty array", `[]`, []string{"[", "]"}},
		{"empty object", `{}`, []string{"{", "}"}},
		{"array", `[1, null, "x"]`, []string{"[", "int:1", "null", "str:x", "]"}},
		{"object", `{"a":1,"b":[true]}`,
			[]string{"{", "key:a", "int:1", "key:b", "[", "true", "]", "}"}},
		{"nested", ` { "o" : { "i" : [ { } ] } } `,
			[]string{"{", "key:o", "{", "key:i", "[", "{", "}", "]", "}", "}"}},
		{"escaped key", `{"a\nb":0}`, []string{"{", "key:a\nb", "int:0"}},
		{"trailing whitespace", `1 ` + "\n\t", []string{"int:1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := parseEvents(t, tt.input, Options{})
			require.NoError(t, err)
			// Object close events are implied where omitted.
			assert.Equal(t, tt.events, events[:len(tt.events)])
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		code   errs.Code
		offset int
	}{
		{"empty", ``, errs.EofWhileParsing, 0},
		{"whitespace only", `   `, errs.EofWhileParsing, 3},
		{"open object", `{"a": [`, errs.EofWhileParsing, 7},
		{"bad value", `{"a": x}`, errs.InvalidJSONValue, 7},
		{"bad literal", `trux`, errs.InvalidLiteral, 1},
		{"short literal", `tru`, errs.EofWhileParsing, 3},
		{"missing colon", `{"a" 1}`, errs.ExpectedColon, 6},
		{"missing comma array", `[1 2]`, errs.ExpectedArrayCommaOrEnd, 4},
		{"junk after number", `{"a": [1, 2x, 3]}`, errs.ExpectedArrayCommaOrEnd, 12},
		{"leading zero", `{"a": [000]}`, errs.ExpectedArrayCommaOrEnd, 9},
		{"missing comma object", `{"a":1 "b":2}`, errs.ExpectedObjectCommaOrEnd, 8},
		{"bad key", `{1: 2}`, errs.ExpectObjectKeyOrEnd, 2},
		{"trailing comma array", `[1,]`, errs.TrailingComma, 4},
		{"trailing comma object", `{"a":1,}`, errs.TrailingComma, 8},
		{"trailing data", `{} x`, errs.TrailingCharacters, 4},
		{"unterminated array", `[1, 2, 3, 4, 5, 6`, errs.ExpectedArrayCommaOrEnd, 17},
		{"unterminated string", `"abc`, errs.EofWhileParsing, 4},
		{"control in string", "\"a\x01b\"", errs.ControlCharacterInString, 3},
		{"bad escape", `"a\qb"`, errs.InvalidEscape, 4},
		{"bare comma", `[, 1]`, errs.InvalidJSONValue, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseEvents(t, tt.input, Options{})
			require.Error(t, err)
			e, ok := err.(*errs.Error)
			require.True(t, ok, "error type %T", err)
			assert.Equal(t, tt.code, e.Code(), "message: %v", e)
			assert.Equal(t, tt.offset, e.Offset(), "message: %v", e)
		})
	}
}

func TestRecursionLimit(t *testing.T) {
	deep := strings.Repeat("[", 200) + strings.Repeat("]", 200)
	_, err := parseEvents(t, deep, Options{})
	require.Error(t, err)
	e := err.(*errs.Error)
	assert.Equal(t, errs.RecursionLimitExceeded, e.Code())

	okDepth := strings.Repeat("[", 128) + strings.Repeat("]", 128)
	_, err = parseEvents(t, okDepth, Options{})
	assert.NoError(t, err)
}

func TestStringDecoding(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `"hello"`, "hello"},
		{"empty", `""`, ""},
		{"named escapes", `"\"\\\/\b\f\n\r\t"`, "\"\\/\b\f\n\r\t"},
		{"unicode", `"é"`, "é"},
		{"bmp", `"世界"`, "世界"},
		{"surrogate pair", `"😀"`, "\U0001F600"},
		{"escaped surrogate pair", `"\uD83D\uDE00"`, "\U0001F600"},
		{"escaped bmp", `"\u4E16\u754C"`, "世界"},
		{"multibyte passthrough", `"héllo, 世界"`, "héllo, 世界"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := parseEvents(t, tt.input, Options{ValidateUTF8: true})
			require.NoError(t, err)
			assert.Equal(t, []string{"str:" + tt.want}, events)
		})
	}
}

func TestSurrogateErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errs.Code
	}{
		{"lone high", `"\uD83D"`, errs.InvalidSurrogate},
		{"lone low", `"\uDE00"`, errs.InvalidSurrogate},
		{"high then bmp", `"\uD83DA"`, errs.InvalidSurrogate},
		{"bad hex", `"\uZZZZ"`, errs.InvalidUnicodeCodePoint},
		{"truncated", `"\u00"`, errs.InvalidUnicodeCodePoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseEvents(t, tt.input, Options{})
			require.Error(t, err)
			assert.Equal(t, tt.code, err.(*errs.Error).Code())
		})
	}
}

func TestSurrogateLossy(t *testing.T) {
	events, err := parseEvents(t, `"\uD83D"`, Options{UTF8Lossy: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"str:�"}, events)

	events, err = parseEvents(t, `"a\uDE00b"`, Options{UTF8Lossy: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"str:a�b"}, events)
}

func TestInvalidUTF8(t *testing.T) {
	input := []byte(`{"b":"`)
	input = append(input, 0x80)
	input = append(input, `"}`...)

	p := New()
	err := p.Parse(input, Options{ValidateUTF8: true}, &recordVisitor{})
	require.Error(t, err)
	assert.Equal(t, errs.InvalidUTF8, err.(*errs.Error).Code())
	assert.Equal(t, 7, err.(*errs.Error).Offset())

	// Lossy mode substitutes U+FFFD.
	v := &recordVisitor{}
	err = p.Parse(input, Options{UTF8Lossy: true}, v)
	require.NoError(t, err)
	assert.Contains(t, v.events, "str:�")

	// Permissive default passes the bytes through.
	v = &recordVisitor{}
	err = p.Parse(input, Options{}, v)
	require.NoError(t, err)
	assert.Contains(t, v.events, "str:\x80")
}

func TestArbitraryPrecision(t *testing.T) {
	events, err := parseEvents(t,
		`[0.1, 123456789012345678901234567890, -2e308]`,
		Options{ArbitraryPrecision: true})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"[",
		"raw:0.1",
		"raw:123456789012345678901234567890",
		"raw:-2e308",
		"]",
	}, events)
}

func TestBorrowedFlag(t *testing.T) {
	type borrowed struct {
		s        string
		borrowed bool
	}
	var got []borrowed
	v := &funcVisitor{
		onString: func(b []byte, br bool) error {
			got = append(got, borrowed{string(b), br})
			return nil
		},
	}
	p := New()
	err := p.Parse([]byte(`["plain","esc\nape"]`), Options{}, v)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].borrowed)
	assert.Equal(t, "plain", got[0].s)
	assert.False(t, got[1].borrowed)
	assert.Equal(t, "esc\nape", got[1].s)
}

// funcVisitor lets a test hook individual events.
type funcVisitor struct {
	onString func([]byte, bool) error
}

func (f *funcVisitor) OnNull() error               { return nil }
func (f *funcVisitor) OnBool(bool) error           { return nil }
func (f *funcVisitor) OnInt(int64, []byte) error   { return nil }
func (f *funcVisitor) OnUint(uint64, []byte) error { return nil }
func (f *funcVisitor) OnFloat(float64, []byte) error {
	return nil
}
func (f *funcVisitor) OnRawNumber([]byte) error { return nil }
func (f *funcVisitor) OnString(b []byte, br bool) error {
	if f.onString != nil {
		return f.onString(b, br)
	}
	return nil
}
func (f *funcVisitor) OnKey([]byte, bool) error { return nil }
func (f *funcVisitor) OnArrayBegin() error      { return nil }
func (f *funcVisitor) OnArrayEnd(int) error     { return nil }
func (f *funcVisitor) OnObjectBegin() error     { return nil }
func (f *funcVisitor) OnObjectEnd(int) error    { return nil }
