package jetjson

import (
	"github.com/biggeezerdevelopment/jetjson/internal/errs"
	"github.com/biggeezerdevelopment/jetjson/internal/parser"
	"github.com/biggeezerdevelopment/jetjson/internal/reader"
	"github.com/biggeezerdevelopment/jetjson/internal/scanner"
)

// Get locates the subvalue named by path without materializing anything
// around it: containers along the way are skipped bit-parallel and only the
// keys actually compared are decoded. Key steps resolve to the first
// occurrence of the key.
//
// Without opts.Validate only the syntax on the traversed path is checked.
// On malformed input the result is unspecified — it may be an error or a
// nonsensical span — but access stays within data; in particular, invalid
// UTF-8 inside strings is passed through as-is, never repaired.
func Get(data []byte, opts Options, path ...PathStep) (LazyValue, error) {
	if opts.Validate {
		if err := validate(data); err != nil {
			return LazyValue{}, err
		}
	}
	r := reader.New(data)
	s := scanner.New(r)
	for _, step := range path {
		if err := advanceStep(s, step); err != nil {
			return LazyValue{}, err
		}
	}
	return captureValue(s, opts.Validate)
}

// captureValue skips exactly one value and returns its raw span.
func captureValue(s *scanner.Scanner, validated bool) (LazyValue, error) {
	r := s.Reader()
	c, ok := s.SkipWhitespace()
	if !ok {
		return LazyValue{}, errs.New(errs.EofWhileParsing, r.Data(), r.Len())
	}
	start := r.Index() - 1
	if err := s.SkipValueFrom(c); err != nil {
		return LazyValue{}, err
	}
	return LazyValue{raw: r.Slice(start, r.Index()), validated: validated}, nil
}

// advanceStep positions the scanner at the start of the value selected by
// step, leaving the cursor where the value's first significant byte will be
// read next.
func advanceStep(s *scanner.Scanner, step PathStep) error {
	r := s.Reader()
	data := r.Data()
	c, ok := s.SkipWhitespace()
	if !ok {
		return errs.New(errs.EofWhileParsing, data, len(data))
	}

	if step.isKey {
		if c != '{' {
			return errs.New(errs.GetTypeMismatch, data, r.Index())
		}
		c, ok = s.SkipWhitespace()
		if !ok {
			return errs.New(errs.EofWhileParsing, data, len(data))
		}
		if c == '}' {
			return errs.New(errs.GetInEmptyObject, data, r.Index())
		}
		var buf []byte
		for {
			if c != '"' {
				return errs.New(errs.ExpectObjectKeyOrEnd, data, r.Index())
			}
			lo := r.Index()
			hasEscape, serr := s.SkipString()
			if serr != nil {
				return serr
			}
			hi := r.Index() - 1
			match := false
			if !hasEscape {
				match = string(data[lo:hi]) == step.key
			} else {
				dec, uerr := parser.AppendUnescaped(buf[:0], data[lo:hi], data, lo, false)
				if uerr != nil {
					return uerr
				}
				buf = dec
				match = string(dec) == step.key
			}
			c, ok = s.SkipWhitespace()
			if !ok {
				return errs.New(errs.EofWhileParsing, data, len(data))
			}
			if c != ':' {
				return errs.New(errs.ExpectedColon, data, r.Index())
			}
			if match {
				return nil
			}
			if err := s.SkipValue(); err != nil {
				return err
			}
			c, ok = s.SkipWhitespace()
			if !ok {
				return errs.New(errs.ExpectedObjectCommaOrEnd, data, len(data))
			}
			if c == '}' {
				return errs.New(errs.GetUnknownKeyInObject, data, r.Index())
			}
			if c != ',' {
				return errs.New(errs.ExpectedObjectCommaOrEnd, data, r.Index())
			}
			c, ok = s.SkipWhitespace()
			if !ok {
				return errs.New(errs.EofWhileParsing, data, len(data))
			}
		}
	}

	if c != '[' {
		return errs.New(errs.GetTypeMismatch, data, r.Index())
	}
	c, ok = s.SkipWhitespace()
	if !ok {
		return errs.New(errs.EofWhileParsing, data, len(data))
	}
	if c == ']' {
		return errs.New(errs.GetInEmptyArray, data, r.Index())
	}
	for k := 0; ; k++ {
		if k == step.index {
			r.SetIndex(r.Index() - 1)
			return nil
		}
		if err := s.SkipValueFrom(c); err != nil {
			return err
		}
		c, ok = s.SkipWhitespace()
		if !ok {
			return errs.New(errs.ExpectedArrayCommaOrEnd, data, len(data))
		}
		if c == ']' {
			return errs.New(errs.GetIndexOutOfArray, data, r.Index())
		}
		if c != ',' {
			return errs.New(errs.ExpectedArrayCommaOrEnd, data, r.Index())
		}
		c, ok = s.SkipWhitespace()
		if !ok {
			return errs.New(errs.EofWhileParsing, data, len(data))
		}
	}
}

// GetMany evaluates every path in one traversal: the paths' step prefixes
// merge into a prefix tree and shared containers are visited once. Results
// align with paths; any path that fails to resolve fails the whole call.
func GetMany(data []byte, opts Options, paths []Path) ([]LazyValue, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if opts.Validate {
		if err := validate(data); err != nil {
			return nil, err
		}
	}
	root := buildPathTree(paths)
	results := make([]LazyValue, len(paths))
	filled := make([]bool, len(paths))

	r := reader.New(data)
	s := scanner.New(r)
	if err := visitPathTree(s, root, results, filled, opts.Validate); err != nil {
		return nil, err
	}
	for i, ok := range filled {
		if !ok {
			code := errs.GetUnknownKeyInObject
			if last := paths[i][len(paths[i])-1]; !last.isKey {
				code = errs.GetIndexOutOfArray
			}
			return nil, errs.New(code, data, len(data))
		}
	}
	return results, nil
}

type pathTree struct {
	leaves []int
	keys   []keyEdge
	idxs   []idxEdge
}

type keyEdge struct {
	key   string
	child *pathTree
	seen  bool
}

type idxEdge struct {
	idx   int
	child *pathTree
}

func buildPathTree(paths []Path) *pathTree {
	root := &pathTree{}
	for pi, p := range paths {
		cur := root
		for _, st := range p {
			cur = cur.edge(st)
		}
		cur.leaves = append(cur.leaves, pi)
	}
	return root
}

func (t *pathTree) edge(st PathStep) *pathTree {
	if st.isKey {
		for i := range t.keys {
			if t.keys[i].key == st.key {
				return t.keys[i].child
			}
		}
		child := &pathTree{}
		t.keys = append(t.keys, keyEdge{key: st.key, child: child})
		return child
	}
	for i := range t.idxs {
		if t.idxs[i].idx == st.index {
			return t.idxs[i].child
		}
	}
	child := &pathTree{}
	t.idxs = append(t.idxs, idxEdge{idx: st.index, child: child})
	return child
}

// visitPathTree consumes exactly one value, descending into it wherever the
// tree has edges and recording its span for any path terminating here.
func visitPathTree(s *scanner.Scanner, t *pathTree, results []LazyValue, filled []bool, validated bool) error {
	r := s.Reader()
	data := r.Data()
	c, ok := s.SkipWhitespace()
	if !ok {
		return errs.New(errs.EofWhileParsing, data, len(data))
	}
	start := r.Index() - 1

	switch {
	case len(t.keys) > 0 && c == '{':
		if err := visitObjectEdges(s, t, results, filled, validated); err != nil {
			return err
		}
	case len(t.idxs) > 0 && c == '[':
		if err := visitArrayEdges(s, t, results, filled, validated); err != nil {
			return err
		}
	default:
		if len(t.keys) > 0 || len(t.idxs) > 0 {
			return errs.New(errs.GetTypeMismatch, data, r.Index())
		}
		if err := s.SkipValueFrom(c); err != nil {
			return err
		}
	}

	span := LazyValue{raw: r.Slice(start, r.Index()), validated: validated}
	for _, pi := range t.leaves {
		results[pi] = span
		filled[pi] = true
	}
	return nil
}

func visitObjectEdges(s *scanner.Scanner, t *pathTree, results []LazyValue, filled []bool, validated bool) error {
	r := s.Reader()
	data := r.Data()
	c, ok := s.SkipWhitespace()
	if !ok {
		return errs.New(errs.EofWhileParsing, data, len(data))
	}
	if c == '}' {
		return nil
	}
	var buf []byte
	for {
		if c != '"' {
			return errs.New(errs.ExpectObjectKeyOrEnd, data, r.Index())
		}
		lo := r.Index()
		hasEscape, serr := s.SkipString()
		if serr != nil {
			return serr
		}
		hi := r.Index() - 1
		key := data[lo:hi]
		if hasEscape {
			dec, uerr := parser.AppendUnescaped(buf[:0], key, data, lo, false)
			if uerr != nil {
				return uerr
			}
			buf = dec
			key = dec
		}
		var edge *keyEdge
		for i := range t.keys {
			if t.keys[i].key == string(key) {
				edge = &t.keys[i]
				break
			}
		}
		c, ok = s.SkipWhitespace()
		if !ok {
			return errs.New(errs.EofWhileParsing, data, len(data))
		}
		if c != ':' {
			return errs.New(errs.ExpectedColon, data, r.Index())
		}
		if edge != nil && !edge.seen {
			edge.seen = true
			if err := visitPathTree(s, edge.child, results, filled, validated); err != nil {
				return err
			}
		} else if err := s.SkipValue(); err != nil {
			return err
		}
		c, ok = s.SkipWhitespace()
		if !ok {
			return errs.New(errs.ExpectedObjectCommaOrEnd, data, len(data))
		}
		if c == '}' {
			return nil
		}
		if c != ',' {
			return errs.New(errs.ExpectedObjectCommaOrEnd, data, r.Index())
		}
		c, ok = s.SkipWhitespace()
		if !ok {
			return errs.New(errs.EofWhileParsing, data, len(data))
		}
	}
}

func visitArrayEdges(s *scanner.Scanner, t *pathTree, results []LazyValue, filled []bool, validated bool) error {
	r := s.Reader()
	data := r.Data()
	c, ok := s.SkipWhitespace()
	if !ok {
		return errs.New(errs.EofWhileParsing, data, len(data))
	}
	if c == ']' {
		return nil
	}
	for k := 0; ; k++ {
		var edge *idxEdge
		for i := range t.idxs {
			if t.idxs[i].idx == k {
				edge = &t.idxs[i]
				break
			}
		}
		if edge != nil {
			r.SetIndex(r.Index() - 1)
			if err := visitPathTree(s, edge.child, results, filled, validated); err != nil {
				return err
			}
		} else if err := s.SkipValueFrom(c); err != nil {
			return err
		}
		c, ok = s.SkipWhitespace()
		if !ok {
			return errs.New(errs.ExpectedArrayCommaOrEnd, data, len(data))
		}
		if c == ']' {
			return nil
		}
		if c != ',' {
			return errs.New(errs.ExpectedArrayCommaOrEnd, data, r.Index())
		}
		c, ok = s.SkipWhitespace()
		if !ok {
			return errs.New(errs.EofWhileParsing, data, len(data))
		}
	}
}
