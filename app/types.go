package app

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// BType defines the type of value stored in BNode.
type BType int

const (
	BString BType = iota
	BInt
	BList
	BDict
)

func (t BType) String() string {
	switch t {
	case BString:
		return "string"
	case BInt:
		return "integer"
	case BList:
		return "list"
	case BDict:
		return "dictionary"
	}

	return fmt.Sprintf("BType(%d)", int(t))
}

// BNode represents a self-referencing structure to hold Bencode values.
//
// Only the field matching Type is meaningful. Dictionary keys are byte
// strings stored as Go strings, so they may hold arbitrary bytes.
// A BNode is never modified after construction; use the New* functions
// to build one.
type BNode struct {
	Type BType
	Str  []byte
	Int  int64
	List []*BNode
	Dict map[string]*BNode
}

// NewInt returns an integer node.
func NewInt(i int64) *BNode {
	return &BNode{Type: BInt, Int: i}
}

// NewBytes returns a byte string node holding a copy of b.
func NewBytes(b []byte) *BNode {
	return &BNode{Type: BString, Str: append([]byte{}, b...)}
}

// NewString returns a byte string node holding the bytes of s.
func NewString(s string) *BNode {
	return &BNode{Type: BString, Str: []byte(s)}
}

// NewList returns a list node. The items slice is copied.
func NewList(items ...*BNode) *BNode {
	l := make([]*BNode, len(items))
	copy(l, items)
	return &BNode{Type: BList, List: l}
}

// NewDict returns a dictionary node. The map is copied.
func NewDict(entries map[string]*BNode) *BNode {
	d := make(map[string]*BNode, len(entries))
	for k, v := range entries {
		d[k] = v
	}
	return &BNode{Type: BDict, Dict: d}
}

// Len returns the byte length of a string, the number of items of a list
// or the number of entries of a dictionary. It returns 0 for integers.
func (n *BNode) Len() int {
	switch n.Type {
	case BString:
		return len(n.Str)
	case BList:
		return len(n.List)
	case BDict:
		return len(n.Dict)
	}
	return 0
}

// Get returns the value stored under key in a dictionary node.
func (n *BNode) Get(key string) (*BNode, bool) {
	if n == nil || n.Type != BDict {
		return nil, false
	}
	v, ok := n.Dict[key]
	return v, ok
}

// Keys returns the dictionary keys in ascending byte order.
func (n *BNode) Keys() []string {
	if n == nil || n.Type != BDict {
		return nil
	}
	keys := maps.Keys(n.Dict)
	slices.Sort(keys)
	return keys
}

// Equal reports whether n and other hold structurally equal values.
// List order is significant, dictionary order is not.
func (n *BNode) Equal(other *BNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Type != other.Type {
		return false
	}

	switch n.Type {
	case BInt:
		return n.Int == other.Int
	case BString:
		return bytes.Equal(n.Str, other.Str)
	case BList:
		if len(n.List) != len(other.List) {
			return false
		}
		for i := range n.List {
			if !n.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	case BDict:
		if len(n.Dict) != len(other.Dict) {
			return false
		}
		for k, v := range n.Dict {
			ov, ok := other.Dict[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	}

	return false
}

// String returns a human readable rendering of the tree, mostly useful
// in test failures and debug logs.
func (n *BNode) String() string {
	var sb strings.Builder
	n.writeTo(&sb)
	return sb.String()
}

func (n *BNode) writeTo(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("<nil>")
		return
	}

	switch n.Type {
	case BInt:
		sb.WriteString(strconv.FormatInt(n.Int, 10))
	case BString:
		sb.WriteString(strconv.Quote(string(n.Str)))
	case BList:
		sb.WriteByte('[')
		for i, item := range n.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.writeTo(sb)
		}
		sb.WriteByte(']')
	case BDict:
		sb.WriteByte('{')
		for i, k := range n.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(": ")
			n.Dict[k].writeTo(sb)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString(n.Type.String())
	}
}
