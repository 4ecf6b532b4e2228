package jetjson

import (
	"math"

	"github.com/biggeezerdevelopment/jetjson/internal/arena"
	"github.com/biggeezerdevelopment/jetjson/internal/errs"
)

// builder materializes a Document from the tokenizer's event stream.
// Completed values collect in a pre-sized scratch vector; when a container
// ends, its children form a contiguous run at the tail of the scratch and
// are copied into an arena slab in one move, so containers get O(1) child
// access and the children sit cache-adjacent. A syntactically valid JSON of
// L bytes produces at most L/2+2 nodes, so the scratch never reallocates;
// running past it means the input lied and the parse aborts.
type builder struct {
	doc     *Document
	scratch []Node
	json    []byte
}

func newBuilder(data []byte) *builder {
	return &builder{
		doc: &Document{
			arena: arena.NewSized(len(data)),
		},
		scratch: make([]Node, 0, (len(data)+1)/2+2),
		json:    data,
	}
}

func (b *builder) push(n Node) error {
	if len(b.scratch) == cap(b.scratch) {
		return errs.New(errs.NodeBoundExceeded, b.json, len(b.json))
	}
	b.scratch = append(b.scratch, n)
	return nil
}

func (b *builder) finish() (*Document, error) {
	if len(b.scratch) != 1 {
		return nil, errs.New(errs.InvalidJSONValue, b.json, 0)
	}
	b.doc.root = b.scratch[0]
	return b.doc, nil
}

func (b *builder) OnNull() error {
	return b.push(Node{kind: Null})
}

func (b *builder) OnBool(v bool) error {
	return b.push(Node{kind: Bool, b: v})
}

func (b *builder) OnInt(i int64, _ []byte) error {
	return b.push(Node{kind: Int, num: uint64(i)})
}

func (b *builder) OnUint(u uint64, _ []byte) error {
	return b.push(Node{kind: Uint, num: u})
}

func (b *builder) OnFloat(f float64, _ []byte) error {
	return b.push(Node{kind: Float, num: math.Float64bits(f)})
}

func (b *builder) OnRawNumber(raw []byte) error {
	return b.push(Node{kind: RawNumber, str: b.doc.arena.CopyString(raw)})
}

func (b *builder) OnString(s []byte, _ bool) error {
	return b.push(Node{kind: String, str: b.doc.arena.CopyString(s)})
}

// Keys ride the scratch as string nodes until their object closes.
func (b *builder) OnKey(k []byte, _ bool) error {
	return b.push(Node{kind: String, str: b.doc.arena.CopyString(k)})
}

func (b *builder) OnArrayBegin() error { return nil }

func (b *builder) OnArrayEnd(n int) error {
	start := len(b.scratch) - n
	arr := b.doc.allocNodes(n)
	arr = append(arr, b.scratch[start:]...)
	b.scratch = b.scratch[:start]
	return b.push(Node{kind: Array, arr: arr})
}

func (b *builder) OnObjectBegin() error { return nil }

func (b *builder) OnObjectEnd(n int) error {
	start := len(b.scratch) - 2*n
	obj := b.doc.allocMembers(n)
	for i := start; i < len(b.scratch); i += 2 {
		obj = append(obj, Member{
			Key:   b.scratch[i].str,
			Value: b.scratch[i+1],
		})
	}
	b.scratch = b.scratch[:start]
	return b.push(Node{kind: Object, obj: obj})
}
