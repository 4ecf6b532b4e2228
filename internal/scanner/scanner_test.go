package scanner

import (
	"strings"
	"testing"

	"github.com/biggeezerdevelopment/jetjson/internal/errs"
	"github.com/biggeezerdevelopment/jetjson/internal/reader"
)

func newScanner(input string) (*Scanner, *reader.Reader) {
	r := reader.New([]byte(input))
	return New(r), r
}

func TestSkipWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  byte
		index int
	}{
		{"no space", `{`, '{', 1},
		{"single space", ` {`, '{', 2},
		{"tab newline", "\t\n\r {", '{', 5},
		{"long run", strings.Repeat(" ", 100) + "x", 'x', 101},
		{"exactly window", strings.Repeat(" ", 64) + "[", '[', 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, r := newScanner(tt.input)
			c, ok := s.SkipWhitespace()
			if !ok {
				t.Fatal("unexpected end of input")
			}
			if c != tt.want {
				t.Errorf("got %q, want %q", c, tt.want)
			}
			if r.Index() != tt.index {
				t.Errorf("index = %d, want %d", r.Index(), tt.index)
			}
		})
	}
}

func TestSkipWhitespaceEOF(t *testing.T) {
	for _, input := range []string{"", " ", "   ", strings.Repeat(" ", 200)} {
		s, _ := newScanner(input)
		if c, ok := s.SkipWhitespace(); ok {
			t.Errorf("input %q: expected EOF, got %q", input, c)
		}
	}
}

// The cached nospace bitmap must serve repeated skips inside one window
// without changing results.
func TestSkipWhitespaceCacheReuse(t *testing.T) {
	input := "  a b c   d e"
	s, _ := newScanner(input)
	var got []byte
	for {
		c, ok := s.SkipWhitespace()
		if !ok {
			break
		}
		got = append(got, c)
	}
	if string(got) != "abcde" {
		t.Errorf("got %q, want %q", got, "abcde")
	}
}

func TestSkipString(t *testing.T) {
	tests := []struct {
		name      string
		input     string // cursor starts after the opening quote
		index     int
		hasEscape bool
	}{
		{"plain", `abc" tail`, 4, false},
		{"empty", `" tail`, 1, false},
		{"escaped quote", `a\"b"x`, 5, true},
		{"escaped backslash", `a\\"x`, 4, true},
		{"long", strings.Repeat("x", 100) + `"y`, 101, false},
		{"escape far in", strings.Repeat("x", 70) + `\n" t`, 73, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, r := newScanner(tt.input)
			hasEscape, err := s.SkipString()
			if err != nil {
				t.Fatalf("SkipString failed: %v", err)
			}
			if r.Index() != tt.index {
				t.Errorf("index = %d, want %d", r.Index(), tt.index)
			}
			if hasEscape != tt.hasEscape {
				t.Errorf("hasEscape = %v, want %v", hasEscape, tt.hasEscape)
			}
		})
	}
}

func TestSkipStringUnterminated(t *testing.T) {
	s, _ := newScanner(`abc\" no close`)
	_, err := s.SkipString()
	if err == nil || err.Code() != errs.EofWhileParsing {
		t.Fatalf("expected EOF error, got %v", err)
	}
}

func TestSkipContainer(t *testing.T) {
	tests := []struct {
		name  string
		input string // cursor starts after the opening bracket
		left  byte
		right byte
		index int
	}{
		{"flat object", `"a":1} tail`, '{', '}', 6},
		{"nested", `"a":{"b":{}}} tail`, '{', '}', 13},
		{"braces in strings", `"}":"}{"} tail`, '{', '}', 9},
		{"escaped quote", `"\"}":1} tail`, '{', '}', 8},
		{"array", `1,[2,[3]],4] tail`, '[', ']', 12},
		{"big", strings.Repeat(`{"k":1},`, 30) + `0] tail`, '[', ']', 242},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, r := newScanner(tt.input)
			if err := s.SkipContainer(tt.left, tt.right); err != nil {
				t.Fatalf("SkipContainer failed: %v", err)
			}
			if r.Index() != tt.index {
				t.Errorf("index = %d, want %d", r.Index(), tt.index)
			}
		})
	}
}

func TestSkipContainerUnterminated(t *testing.T) {
	for _, input := range []string{`"a":{"b":1}`, `[1,2`, `"unclosed`} {
		s, _ := newScanner(input)
		err := s.SkipContainer('{', '}')
		if err == nil || err.Code() != errs.EofWhileParsing {
			t.Errorf("input %q: expected EOF error, got %v", input, err)
		}
	}
}

func TestSkipNumberBody(t *testing.T) {
	tests := []struct {
		input string
		index int
	}{
		{"123,rest", 3},
		{"-1.5e+10]", 8},
		{"0", 1},
		{"12345678901234567890123 ", 23},
	}
	for _, tt := range tests {
		s, r := newScanner(tt.input)
		s.SkipNumberBody()
		if r.Index() != tt.index {
			t.Errorf("input %q: index = %d, want %d", tt.input, r.Index(), tt.index)
		}
	}
}

func TestSkipValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		index int
	}{
		{"null", `null,`, 4},
		{"true", `true]`, 4},
		{"false", `false}`, 5},
		{"number", ` -12.5e3,`, 8},
		{"string", `"abc" ,`, 5},
		{"object", `{"a":[1,2],"b":"}"} tail`, 19},
		{"array", ` [[],[{}]] tail`, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, r := newScanner(tt.input)
			if err := s.SkipValue(); err != nil {
				t.Fatalf("SkipValue failed: %v", err)
			}
			if r.Index() != tt.index {
				t.Errorf("index = %d, want %d", r.Index(), tt.index)
			}
		})
	}
}

func TestSkipValueInvalid(t *testing.T) {
	s, _ := newScanner(`xyz`)
	err := s.SkipValue()
	if err == nil || err.Code() != errs.InvalidJSONValue {
		t.Fatalf("expected invalid value error, got %v", err)
	}

	s, _ = newScanner(`trap`)
	err = s.SkipValue()
	if err == nil || err.Code() != errs.InvalidLiteral {
		t.Fatalf("expected invalid literal error, got %v", err)
	}
}
