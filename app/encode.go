package app

import (
	"fmt"
	"strconv"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// EncodeBNode encodes a BNode into its canonical bencoded form.
//
// It panics if the tree is malformed, i.e. holds a nil child or an
// unknown type; trees built by the decoder or the New* functions never are.
func EncodeBNode(node *BNode) []byte {
	return AppendBNode(nil, node)
}

// AppendBNode appends the canonical encoding of node to dst and returns the
// extended buffer.
func AppendBNode(dst []byte, node *BNode) []byte {
	if node == nil {
		panic("bencode: cannot encode nil node")
	}

	switch node.Type {
	case BString:
		return appendString(dst, node.Str)
	case BInt:
		return appendInt(dst, node.Int)
	case BList:
		return appendList(dst, node.List)
	case BDict:
		return appendDict(dst, node.Dict)
	}

	panic(fmt.Sprintf("bencode: unknown node type %v", node.Type))
}

// EncodeBencodeString encodes a byte string into bencode format.
func EncodeBencodeString(s []byte) []byte {
	return appendString(nil, s)
}

// EncodeBencodeInt encodes an integer into bencode format.
func EncodeBencodeInt(i int64) []byte {
	return appendInt(nil, i)
}

// EncodeBencodeList encodes a list of BNodes into bencode format.
func EncodeBencodeList(items []*BNode) []byte {
	return appendList(nil, items)
}

// EncodeBencodeDict encodes a dictionary of BNodes into bencode format,
// with keys in ascending byte order.
func EncodeBencodeDict(dict map[string]*BNode) []byte {
	return appendDict(nil, dict)
}

func appendString(dst []byte, s []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(s)), 10)
	dst = append(dst, ':')
	return append(dst, s...)
}

func appendInt(dst []byte, i int64) []byte {
	dst = append(dst, 'i')
	dst = strconv.AppendInt(dst, i, 10)
	return append(dst, 'e')
}

func appendList(dst []byte, items []*BNode) []byte {
	dst = append(dst, 'l')
	for _, item := range items {
		dst = AppendBNode(dst, item)
	}
	return append(dst, 'e')
}

func appendDict(dst []byte, dict map[string]*BNode) []byte {
	// Go compares strings byte by byte, which is the order bencode wants.
	keys := maps.Keys(dict)
	slices.Sort(keys)

	dst = append(dst, 'd')
	for _, k := range keys {
		dst = strconv.AppendInt(dst, int64(len(k)), 10)
		dst = append(dst, ':')
		dst = append(dst, k...)
		dst = AppendBNode(dst, dict[k])
	}
	return append(dst, 'e')
}
