package reader

import (
	"testing"

	"github.com/biggeezerdevelopment/jetjson/internal/bitmap"
)

func TestCursor(t *testing.T) {
	r := New([]byte("abc"))
	for i, want := range []byte("abc") {
		if r.Index() != i {
			t.Fatalf("index = %d, want %d", r.Index(), i)
		}
		c, ok := r.Next()
		if !ok || c != want {
			t.Fatalf("Next() = (%q, %v), want (%q, true)", c, ok, want)
		}
	}
	if _, ok := r.Next(); ok {
		t.Error("Next past end should fail")
	}

	r.SetIndex(1)
	if c, _ := r.Next(); c != 'b' {
		t.Errorf("after SetIndex(1), Next() = %q, want 'b'", c)
	}
}

// Window loads must zero-pad past the end of the input: that is the
// sentinel guarantee the mask kernels build on.
func TestWindowPadding(t *testing.T) {
	r := New([]byte("xy"))
	var w bitmap.Window
	r.Window(0, &w)
	if w[0] != 'x' || w[1] != 'y' {
		t.Errorf("window prefix = %q", w[:2])
	}
	for i := 2; i < bitmap.WindowSize; i++ {
		if w[i] != 0 {
			t.Fatalf("window[%d] = %#x, want zero padding", i, w[i])
		}
	}

	// A window entirely past the end is all padding.
	r.Window(10, &w)
	for i := range w {
		if w[i] != 0 {
			t.Fatalf("window[%d] = %#x, want zero", i, w[i])
		}
	}
}

func TestWindowReuseIsOverwritten(t *testing.T) {
	r := New([]byte("aaaa"))
	var w bitmap.Window
	r.Window(0, &w)
	r.Reset([]byte("b"))
	r.Window(0, &w)
	if w[0] != 'b' || w[1] != 0 {
		t.Errorf("stale window contents: %q", w[:2])
	}
}
