package shaderop

import "strings"

// StringTable is an intern arena: it owns immutable string storage for the
// lifetime of one ShaderOp and deduplicates by content. Insert returns the
// canonical copy, so two inserts of equal content yield strings backed by
// the same data pointer and downstream code may compare identity instead of
// content where convenient. Content comparison remains correct either way.
//
// A StringTable is not safe for concurrent use; the parser populates it
// single-threaded and the result is read-only afterwards.
type StringTable struct {
	interned map[string]string
}

// NewStringTable returns an empty intern table.
func NewStringTable() *StringTable {
	return &StringTable{interned: make(map[string]string)}
}

// Insert returns the canonical stored copy of s, interning it on first use.
// The returned string is detached from any buffer s may alias.
func (t *StringTable) Insert(s string) string {
	if t.interned == nil {
		t.interned = make(map[string]string)
	}
	if c, ok := t.interned[s]; ok {
		return c
	}
	c := strings.Clone(s)
	t.interned[c] = c
	return c
}

// Len reports the number of distinct strings stored.
func (t *StringTable) Len() int { return len(t.interned) }
