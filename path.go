package jetjson

// PathStep addresses one level of a JSON document: an object key or an
// array index.
type PathStep struct {
	key   string
	index int
	isKey bool
}

// Key returns a step selecting the member named k. When the document holds
// duplicate keys, the first occurrence wins during on-demand navigation
// (later members are never scanned).
func Key(k string) PathStep {
	return PathStep{key: k, isKey: true}
}

// Index returns a step selecting the i-th array element, zero-based.
func Index(i int) PathStep {
	return PathStep{index: i}
}

// IsKey reports whether the step is an object-key step.
func (s PathStep) IsKey() bool { return s.isKey }

// Name returns the key of a key step.
func (s PathStep) Name() string { return s.key }

// Position returns the index of an index step.
func (s PathStep) Position() int { return s.index }

// Path is a sequence of steps from the document root to a subvalue.
type Path []PathStep
