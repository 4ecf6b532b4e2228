// Package reader provides the byte cursor the scanner and parser share. The
// input is a fully materialized slice; Window loads present a zero-padded
// 64-byte view past the end so mask kernels never read out of bounds.
package reader

import (
	"github.com/biggeezerdevelopment/jetjson/internal/bitmap"
)

type Reader struct {
	data []byte
	pos  int
}

func New(data []byte) *Reader {
	return &Reader{data: data}
}

// Reset points the reader at a new input and rewinds it.
func (r *Reader) Reset(data []byte) {
	r.data = data
	r.pos = 0
}

func (r *Reader) Data() []byte { return r.data }
func (r *Reader) Len() int     { return len(r.data) }
func (r *Reader) Index() int   { return r.pos }

func (r *Reader) SetIndex(i int) {
	r.pos = i
}

// Next consumes and returns the current byte.
func (r *Reader) Next() (byte, bool) {
	if r.pos >= len(r.data) {
		return 0, false
	}
	b := r.data[r.pos]
	r.pos++
	return b, true
}

// At returns the byte at absolute index i. The caller keeps i in bounds.
func (r *Reader) At(i int) byte {
	return r.data[i]
}

// Slice returns data[lo:hi] without copying.
func (r *Reader) Slice(lo, hi int) []byte {
	return r.data[lo:hi]
}

// Window copies the 64 bytes starting at absolute index i into w, padding
// with zero bytes past the end of the input. This is the sentinel-padding
// guarantee the mask kernels rely on.
func (r *Reader) Window(i int, w *bitmap.Window) {
	*w = bitmap.Window{}
	if i < len(r.data) {
		copy(w[:], r.data[i:])
	}
}
