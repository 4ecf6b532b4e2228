package jetjson

import (
	"math"

	"github.com/biggeezerdevelopment/jetjson/internal/arena"
	"github.com/biggeezerdevelopment/jetjson/internal/errs"
)

// Kind tags a Node variant.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Int
	Uint
	Float
	RawNumber
	String
	Array
	Object
)

var kindNames = [...]string{
	Null: "null", Bool: "bool", Int: "int", Uint: "uint", Float: "float",
	RawNumber: "rawnumber", String: "string", Array: "array", Object: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Node is one value of a document: a tagged variant rather than an
// interface hierarchy, so children stay contiguous and cache-friendly.
// Nodes are owned by the Document whose arena backs their payloads.
type Node struct {
	kind Kind
	b    bool
	num  uint64
	str  string
	arr  []Node
	obj  []Member
}

// Member is one object entry. Duplicate keys are retained in source order.
type Member struct {
	Key   string
	Value Node
}

// Document is a parsed, mutable JSON tree. All node payloads live in the
// document's arena; dropping the document releases everything at once.
// Documents are safe for concurrent readers as long as nothing mutates them.
type Document struct {
	arena *arena.Arena
	root  Node

	nodeChunk   []Node
	memberChunk []Member
}

// NewDocument returns an empty document (root null) with its own arena,
// ready for programmatic construction.
func NewDocument() *Document {
	return &Document{arena: arena.New()}
}

// Root returns the root node. The pointer stays valid for the life of the
// document; mutating methods on Document may be applied to it.
func (d *Document) Root() *Node { return &d.root }

// SetRoot replaces the root with a deep copy of n owned by this document.
func (d *Document) SetRoot(n Node) {
	d.root = d.adopt(n)
}

// allocNodes bump-allocates a node slab with room for capHint children.
func (d *Document) allocNodes(capHint int) []Node {
	if capHint == 0 {
		return nil
	}
	if cap(d.nodeChunk)-len(d.nodeChunk) < capHint {
		sz := 1024
		for sz < capHint {
			sz <<= 1
		}
		d.nodeChunk = make([]Node, 0, sz)
	}
	off := len(d.nodeChunk)
	d.nodeChunk = d.nodeChunk[:off+capHint]
	return d.nodeChunk[off : off : off+capHint]
}

func (d *Document) allocMembers(capHint int) []Member {
	if capHint == 0 {
		return nil
	}
	if cap(d.memberChunk)-len(d.memberChunk) < capHint {
		sz := 512
		for sz < capHint {
			sz <<= 1
		}
		d.memberChunk = make([]Member, 0, sz)
	}
	off := len(d.memberChunk)
	d.memberChunk = d.memberChunk[:off+capHint]
	return d.memberChunk[off : off : off+capHint]
}

// Node constructors. Payloads are copied into the document's arena.

func (d *Document) NewNull() Node         { return Node{kind: Null} }
func (d *Document) NewBool(b bool) Node   { return Node{kind: Bool, b: b} }
func (d *Document) NewInt(i int64) Node   { return Node{kind: Int, num: uint64(i)} }
func (d *Document) NewUint(u uint64) Node { return Node{kind: Uint, num: u} }

func (d *Document) NewFloat(f float64) Node {
	return Node{kind: Float, num: math.Float64bits(f)}
}

func (d *Document) NewString(s string) Node {
	return Node{kind: String, str: d.arena.CopyString([]byte(s))}
}

func (d *Document) NewRawNumber(s string) Node {
	return Node{kind: RawNumber, str: d.arena.CopyString([]byte(s))}
}

func (d *Document) NewArray(children ...Node) Node {
	arr := d.allocNodes(len(children))
	for _, c := range children {
		arr = append(arr, d.adopt(c))
	}
	return Node{kind: Array, arr: arr}
}

func (d *Document) NewObject(members ...Member) Node {
	obj := d.allocMembers(len(members))
	for _, m := range members {
		obj = append(obj, Member{
			Key:   d.arena.CopyString([]byte(m.Key)),
			Value: d.adopt(m.Value),
		})
	}
	return Node{kind: Object, obj: obj}
}

// adopt deep-copies a node into this document. Copying on every insert is
// what keeps the tree acyclic: a subtree can never end up inside itself.
func (d *Document) adopt(n Node) Node {
	switch n.kind {
	case String, RawNumber:
		return Node{kind: n.kind, str: d.arena.CopyString([]byte(n.str))}
	case Array:
		arr := d.allocNodes(len(n.arr))
		for _, c := range n.arr {
			arr = append(arr, d.adopt(c))
		}
		return Node{kind: Array, arr: arr}
	case Object:
		obj := d.allocMembers(len(n.obj))
		for _, m := range n.obj {
			obj = append(obj, Member{
				Key:   d.arena.CopyString([]byte(m.Key)),
				Value: d.adopt(m.Value),
			})
		}
		return Node{kind: Object, obj: obj}
	default:
		return n
	}
}

// Accessors.

func (n *Node) Kind() Kind   { return n.kind }
func (n *Node) IsNull() bool { return n.kind == Null }

func (n *Node) Bool() (bool, bool) {
	return n.b, n.kind == Bool
}

func (n *Node) Int64() (int64, bool) {
	switch n.kind {
	case Int:
		return int64(n.num), true
	case Uint:
		if n.num <= math.MaxInt64 {
			return int64(n.num), true
		}
	}
	return 0, false
}

func (n *Node) Uint64() (uint64, bool) {
	switch n.kind {
	case Uint:
		return n.num, true
	case Int:
		if int64(n.num) >= 0 {
			return n.num, true
		}
	}
	return 0, false
}

func (n *Node) Float64() (float64, bool) {
	switch n.kind {
	case Float:
		return math.Float64frombits(n.num), true
	case Int:
		return float64(int64(n.num)), true
	case Uint:
		return float64(n.num), true
	}
	return 0, false
}

// Str returns the decoded string content of a String node.
func (n *Node) Str() (string, bool) {
	return n.str, n.kind == String
}

// RawNumber returns the exact decimal text of a RawNumber node.
func (n *Node) RawNumber() (string, bool) {
	return n.str, n.kind == RawNumber
}

// Len returns the element count of an array or the member count of an
// object (duplicates included), zero otherwise.
func (n *Node) Len() int {
	switch n.kind {
	case Array:
		return len(n.arr)
	case Object:
		return len(n.obj)
	}
	return 0
}

// Index returns the i-th array element, or nil when out of range or not an
// array.
func (n *Node) Index(i int) *Node {
	if n.kind != Array || i < 0 || i >= len(n.arr) {
		return nil
	}
	return &n.arr[i]
}

// Get returns the value of the last member named key, or nil. Lookup is a
// linear scan in source order; no hash index is built.
func (n *Node) Get(key string) *Node {
	if n.kind != Object {
		return nil
	}
	for i := len(n.obj) - 1; i >= 0; i-- {
		if n.obj[i].Key == key {
			return &n.obj[i].Value
		}
	}
	return nil
}

// Elems returns the array children in source order. The slice must not be
// resized by the caller.
func (n *Node) Elems() []Node {
	if n.kind != Array {
		return nil
	}
	return n.arr
}

// Members returns every object member in source order, duplicate keys
// included.
func (n *Node) Members() []Member {
	if n.kind != Object {
		return nil
	}
	return n.obj
}

// Pointer resolves a path from n, mirroring the on-demand getter over the
// materialized tree. Key steps resolve to the last occurrence.
func (n *Node) Pointer(path ...PathStep) (*Node, error) {
	cur := n
	for _, step := range path {
		if step.isKey {
			if cur.kind != Object {
				return nil, errs.New(errs.GetTypeMismatch, nil, 0)
			}
			next := cur.Get(step.key)
			if next == nil {
				if len(cur.obj) == 0 {
					return nil, errs.New(errs.GetInEmptyObject, nil, 0)
				}
				return nil, errs.New(errs.GetUnknownKeyInObject, nil, 0)
			}
			cur = next
		} else {
			if cur.kind != Array {
				return nil, errs.New(errs.GetTypeMismatch, nil, 0)
			}
			next := cur.Index(step.index)
			if next == nil {
				if len(cur.arr) == 0 {
					return nil, errs.New(errs.GetInEmptyArray, nil, 0)
				}
				return nil, errs.New(errs.GetIndexOutOfArray, nil, 0)
			}
			cur = next
		}
	}
	return cur, nil
}

// Interface converts the subtree to plain Go values: nil, bool, int64,
// uint64, float64, string, []any and map[string]any. Object conversion
// keeps the last value of duplicate keys; RawNumber converts to its text.
func (n *Node) Interface() any {
	switch n.kind {
	case Null:
		return nil
	case Bool:
		return n.b
	case Int:
		return int64(n.num)
	case Uint:
		return n.num
	case Float:
		return math.Float64frombits(n.num)
	case RawNumber, String:
		return n.str
	case Array:
		out := make([]any, len(n.arr))
		for i := range n.arr {
			out[i] = n.arr[i].Interface()
		}
		return out
	case Object:
		out := make(map[string]any, len(n.obj))
		for i := range n.obj {
			out[n.obj[i].Key] = n.obj[i].Value.Interface()
		}
		return out
	}
	return nil
}

// Mutation. The arena is append-only: replaced payloads are not reclaimed
// until the document is dropped.

// Set inserts or replaces the member named key on object node n. A last
// occurrence of key is overwritten in place; otherwise the pair is
// appended. val is deep-copied into the document.
func (d *Document) Set(n *Node, key string, val Node) bool {
	if n.kind != Object {
		return false
	}
	v := d.adopt(val)
	for i := len(n.obj) - 1; i >= 0; i-- {
		if n.obj[i].Key == key {
			n.obj[i].Value = v
			return true
		}
	}
	n.obj = d.appendMember(n.obj, Member{Key: d.arena.CopyString([]byte(key)), Value: v})
	return true
}

// Remove deletes every member named key by linear scan and shift,
// preserving the order of the rest. It reports whether anything was
// removed.
func (d *Document) Remove(n *Node, key string) bool {
	if n.kind != Object {
		return false
	}
	out := n.obj[:0]
	removed := false
	for _, m := range n.obj {
		if m.Key == key {
			removed = true
			continue
		}
		out = append(out, m)
	}
	n.obj = out
	return removed
}

// Push appends a deep copy of val to array node n.
func (d *Document) Push(n *Node, val Node) bool {
	if n.kind != Array {
		return false
	}
	n.arr = d.appendNode(n.arr, d.adopt(val))
	return true
}

// Pop removes and returns the last array element.
func (d *Document) Pop(n *Node) (Node, bool) {
	if n.kind != Array || len(n.arr) == 0 {
		return Node{}, false
	}
	last := n.arr[len(n.arr)-1]
	n.arr = n.arr[:len(n.arr)-1]
	return last, true
}

// SwapRemove removes element i in O(1) by moving the last element into its
// place. Order is not preserved; RemoveIndex is the order-preserving
// variant.
func (d *Document) SwapRemove(n *Node, i int) (Node, bool) {
	if n.kind != Array || i < 0 || i >= len(n.arr) {
		return Node{}, false
	}
	removed := n.arr[i]
	n.arr[i] = n.arr[len(n.arr)-1]
	n.arr = n.arr[:len(n.arr)-1]
	return removed, true
}

// RemoveIndex removes element i preserving the order of the rest.
func (d *Document) RemoveIndex(n *Node, i int) (Node, bool) {
	if n.kind != Array || i < 0 || i >= len(n.arr) {
		return Node{}, false
	}
	removed := n.arr[i]
	copy(n.arr[i:], n.arr[i+1:])
	n.arr = n.arr[:len(n.arr)-1]
	return removed, true
}

// appendNode grows an arena-backed node slice. Growth allocates a fresh
// slab; the old one stays in the arena until the document is dropped.
func (d *Document) appendNode(s []Node, n Node) []Node {
	if len(s) < cap(s) {
		return append(s, n)
	}
	grown := d.allocNodes(grownCap(len(s)))
	grown = append(grown, s...)
	return append(grown, n)
}

func (d *Document) appendMember(s []Member, m Member) []Member {
	if len(s) < cap(s) {
		return append(s, m)
	}
	grown := d.allocMembers(grownCap(len(s)))
	grown = append(grown, s...)
	return append(grown, m)
}

func grownCap(n int) int {
	if n == 0 {
		return 4
	}
	return n * 2
}
