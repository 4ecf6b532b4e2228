package jetjson

import (
	"io"
	"math"
	"math/bits"
	"sort"
	"strconv"
	"sync"

	"github.com/biggeezerdevelopment/jetjson/internal/bitmap"
	"github.com/biggeezerdevelopment/jetjson/internal/errs"
)

const hexDigits = "0123456789abcdef"

var escapeNames = [256]byte{
	'"': '"', '\\': '\\', '\b': 'b', '\f': 'f', '\n': 'n', '\r': 'r', '\t': 't',
}

type encodeState struct {
	buf []byte
}

var encodeStatePool = sync.Pool{
	New: func() interface{} {
		return &encodeState{buf: make([]byte, 0, 4096)}
	},
}

func newEncodeState() *encodeState {
	e := encodeStatePool.Get().(*encodeState)
	e.buf = e.buf[:0]
	return e
}

func (e *encodeState) release() {
	if cap(e.buf) > 1<<20 {
		e.buf = make([]byte, 0, 4096)
	}
	encodeStatePool.Put(e)
}

// Serialize renders the document to JSON text.
func Serialize(doc *Document, opts Options) ([]byte, error) {
	e := newEncodeState()
	defer e.release()

	var err error
	e.buf, err = appendValue(e.buf, doc.Root(), opts, 0)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(e.buf))
	copy(out, e.buf)
	return out, nil
}

// SerializeTo renders the document into w. Sink failures propagate
// unchanged.
func SerializeTo(w io.Writer, doc *Document, opts Options) error {
	out, err := Serialize(doc, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// MarshalJSON serializes with default options, satisfying json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	return Serialize(d, Options{})
}

func appendValue(dst []byte, n *Node, opts Options, depth int) ([]byte, error) {
	switch n.kind {
	case Null:
		return append(dst, "null"...), nil
	case Bool:
		if n.b {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case Int:
		return strconv.AppendInt(dst, int64(n.num), 10), nil
	case Uint:
		return strconv.AppendUint(dst, n.num, 10), nil
	case Float:
		return appendFloat(dst, math.Float64frombits(n.num), opts)
	case RawNumber:
		return append(dst, n.str...), nil
	case String:
		return appendQuoted(dst, n.str), nil
	case Array:
		return appendArray(dst, n, opts, depth)
	case Object:
		return appendObject(dst, n, opts, depth)
	}
	return dst, errs.New(errs.InvalidJSONValue, nil, 0)
}

func appendFloat(dst []byte, f float64, opts Options) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return dst, errs.New(errs.FloatMustBeFinite, nil, 0)
	}
	// Shortest round-trip form; exponent notation only outside the range
	// where plain decimal stays readable.
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if opts.NonTrailingZero || format == 'e' {
		return dst, nil
	}
	for _, c := range dst[start:] {
		if c == '.' {
			return dst, nil
		}
	}
	return append(dst, '.', '0'), nil
}

// appendQuoted writes s as a JSON string. The hot loop classifies whole
// 64-byte windows with a needs-escape bitmap and bulk-copies every clean
// stretch; only bytes under escape bits take the slow emit path.
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	i := 0
	var w bitmap.Window
	for i+bitmap.WindowSize <= len(s) {
		copy(w[:], s[i:])
		mask := bitmap.NeedsEscapeMask(&w)
		if mask == 0 {
			dst = append(dst, s[i:i+bitmap.WindowSize]...)
			i += bitmap.WindowSize
			continue
		}
		clean := bits.TrailingZeros64(mask)
		dst = append(dst, s[i:i+clean]...)
		dst = appendEscapedByte(dst, s[i+clean])
		i += clean + 1
	}
	for ; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' || c < 0x20 {
			dst = appendEscapedByte(dst, c)
			continue
		}
		dst = append(dst, c)
	}
	return append(dst, '"')
}

func appendEscapedByte(dst []byte, c byte) []byte {
	if name := escapeNames[c]; name != 0 {
		return append(dst, '\\', name)
	}
	// Control bytes without a named escape.
	return append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
}

func appendIndent(dst []byte, depth int) []byte {
	dst = append(dst, '\n')
	for i := 0; i < depth; i++ {
		dst = append(dst, ' ', ' ')
	}
	return dst
}

func appendArray(dst []byte, n *Node, opts Options, depth int) ([]byte, error) {
	if len(n.arr) == 0 {
		return append(dst, '[', ']'), nil
	}
	dst = append(dst, '[')
	var err error
	for i := range n.arr {
		if i > 0 {
			dst = append(dst, ',')
		}
		if opts.Pretty {
			dst = appendIndent(dst, depth+1)
		}
		dst, err = appendValue(dst, &n.arr[i], opts, depth+1)
		if err != nil {
			return dst, err
		}
	}
	if opts.Pretty {
		dst = appendIndent(dst, depth)
	}
	return append(dst, ']'), nil
}

func appendObject(dst []byte, n *Node, opts Options, depth int) ([]byte, error) {
	if len(n.obj) == 0 {
		return append(dst, '{', '}'), nil
	}
	members := n.obj
	if opts.SortKeys {
		members = append([]Member(nil), members...)
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Key < members[j].Key
		})
	}
	dst = append(dst, '{')
	var err error
	for i := range members {
		if i > 0 {
			dst = append(dst, ',')
		}
		if opts.Pretty {
			dst = appendIndent(dst, depth+1)
		}
		dst = appendQuoted(dst, members[i].Key)
		dst = append(dst, ':')
		if opts.Pretty {
			dst = append(dst, ' ')
		}
		dst, err = appendValue(dst, &members[i].Value, opts, depth+1)
		if err != nil {
			return dst, err
		}
	}
	if opts.Pretty {
		dst = appendIndent(dst, depth)
	}
	return append(dst, '}'), nil
}

// StreamEncoder turns a visitor event stream directly into JSON text,
// buffering it until Flush writes it to the sink. SortKeys does not apply to
// streams and is ignored.
type StreamEncoder struct {
	w     io.Writer
	opts  Options
	buf   []byte
	stack []streamFrame
	err   error
}

type streamFrame struct {
	object bool
	n      int
}

func NewStreamEncoder(w io.Writer, opts Options) *StreamEncoder {
	return &StreamEncoder{w: w, opts: opts}
}

// Flush writes the buffered document to the sink. Call it after the event
// stream completes; write failures propagate unchanged.
func (e *StreamEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	_, err := e.w.Write(e.buf)
	e.buf = e.buf[:0]
	return err
}

// beforeValue emits the separator and indentation owed before a value (or
// a key) at the current nesting.
func (e *StreamEncoder) beforeValue(isKey bool) {
	if len(e.stack) == 0 {
		return
	}
	top := &e.stack[len(e.stack)-1]
	if top.object && !isKey {
		// Value following its key.
		return
	}
	if top.n > 0 {
		e.buf = append(e.buf, ',')
	}
	if e.opts.Pretty {
		e.buf = appendIndent(e.buf, len(e.stack))
	}
}

func (e *StreamEncoder) countValue() {
	if len(e.stack) > 0 {
		e.stack[len(e.stack)-1].n++
	}
}

func (e *StreamEncoder) OnNull() error {
	e.beforeValue(false)
	e.buf = append(e.buf, "null"...)
	e.countValue()
	return nil
}

func (e *StreamEncoder) OnBool(b bool) error {
	e.beforeValue(false)
	if b {
		e.buf = append(e.buf, "true"...)
	} else {
		e.buf = append(e.buf, "false"...)
	}
	e.countValue()
	return nil
}

func (e *StreamEncoder) OnInt(i int64, _ []byte) error {
	e.beforeValue(false)
	e.buf = strconv.AppendInt(e.buf, i, 10)
	e.countValue()
	return nil
}

func (e *StreamEncoder) OnUint(u uint64, _ []byte) error {
	e.beforeValue(false)
	e.buf = strconv.AppendUint(e.buf, u, 10)
	e.countValue()
	return nil
}

func (e *StreamEncoder) OnFloat(f float64, _ []byte) error {
	e.beforeValue(false)
	var err error
	e.buf, err = appendFloat(e.buf, f, e.opts)
	if err != nil {
		e.err = err
		return err
	}
	e.countValue()
	return nil
}

func (e *StreamEncoder) OnRawNumber(raw []byte) error {
	e.beforeValue(false)
	e.buf = append(e.buf, raw...)
	e.countValue()
	return nil
}

func (e *StreamEncoder) OnString(b []byte, _ bool) error {
	e.beforeValue(false)
	e.buf = appendQuoted(e.buf, string(b))
	e.countValue()
	return nil
}

func (e *StreamEncoder) OnKey(k []byte, _ bool) error {
	e.beforeValue(true)
	e.buf = appendQuoted(e.buf, string(k))
	e.buf = append(e.buf, ':')
	if e.opts.Pretty {
		e.buf = append(e.buf, ' ')
	}
	return nil
}

func (e *StreamEncoder) OnArrayBegin() error {
	e.beforeValue(false)
	e.buf = append(e.buf, '[')
	e.stack = append(e.stack, streamFrame{})
	return nil
}

func (e *StreamEncoder) OnArrayEnd(n int) error {
	e.stack = e.stack[:len(e.stack)-1]
	if e.opts.Pretty && n > 0 {
		e.buf = appendIndent(e.buf, len(e.stack))
	}
	e.buf = append(e.buf, ']')
	e.countValue()
	return nil
}

func (e *StreamEncoder) OnObjectBegin() error {
	e.beforeValue(false)
	e.buf = append(e.buf, '{')
	e.stack = append(e.stack, streamFrame{object: true})
	return nil
}

func (e *StreamEncoder) OnObjectEnd(n int) error {
	e.stack = e.stack[:len(e.stack)-1]
	if e.opts.Pretty && n > 0 {
		e.buf = appendIndent(e.buf, len(e.stack))
	}
	e.buf = append(e.buf, '}')
	e.countValue()
	return nil
}
