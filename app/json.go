package app

import (
	"encoding/json"
	"math"
	"unicode/utf8"

	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
)

// ToNative converts a tree into plain Go values: int64, string (or []byte
// when the bytes are not valid UTF-8), []any and map[string]any.
func ToNative(node *BNode) any {
	switch node.Type {
	case BInt:
		return node.Int
	case BString:
		if utf8.Valid(node.Str) {
			return string(node.Str)
		}
		return append([]byte{}, node.Str...)
	case BList:
		l := make([]any, len(node.List))
		for i, item := range node.List {
			l[i] = ToNative(item)
		}
		return l
	case BDict:
		m := make(map[string]any, len(node.Dict))
		for k, v := range node.Dict {
			m[k] = ToNative(v)
		}
		return m
	}

	return nil
}

// FromNative builds a tree from plain Go values. It accepts what ToNative
// returns plus the other integer widths, []string and map[string]string.
func FromNative(v any) (*BNode, error) {
	switch t := v.(type) {
	case *BNode:
		if t == nil {
			return nil, errors.New("nil node")
		}
		return t, nil
	case string:
		return NewString(t), nil
	case []byte:
		return NewBytes(t), nil
	case int:
		return NewInt(int64(t)), nil
	case int8:
		return NewInt(int64(t)), nil
	case int16:
		return NewInt(int64(t)), nil
	case int32:
		return NewInt(int64(t)), nil
	case int64:
		return NewInt(t), nil
	case uint:
		return fromUint(uint64(t))
	case uint8:
		return NewInt(int64(t)), nil
	case uint16:
		return NewInt(int64(t)), nil
	case uint32:
		return NewInt(int64(t)), nil
	case uint64:
		return fromUint(t)
	case []string:
		l := make([]*BNode, len(t))
		for i, s := range t {
			l[i] = NewString(s)
		}
		return &BNode{Type: BList, List: l}, nil
	case []any:
		l := make([]*BNode, len(t))
		for i, item := range t {
			n, err := FromNative(item)
			if err != nil {
				return nil, errors.Wrapf(err, "list item %d", i)
			}
			l[i] = n
		}
		return &BNode{Type: BList, List: l}, nil
	case map[string]string:
		d := make(map[string]*BNode, len(t))
		for k, s := range t {
			d[k] = NewString(s)
		}
		return &BNode{Type: BDict, Dict: d}, nil
	case map[string]any:
		d := make(map[string]*BNode, len(t))
		for k, item := range t {
			n, err := FromNative(item)
			if err != nil {
				return nil, errors.Wrapf(err, "key %q", k)
			}
			d[k] = n
		}
		return &BNode{Type: BDict, Dict: d}, nil
	}

	return nil, errors.Newf("unsupported type %T", v)
}

func fromUint(u uint64) (*BNode, error) {
	if u > math.MaxInt64 {
		return nil, errors.Newf("integer %d overflows int64", u)
	}
	return NewInt(int64(u)), nil
}

// MarshalBNode encodes a BNode into JSON format. Byte strings that are not
// valid UTF-8 are rendered as base64, like any []byte.
func MarshalBNode(node *BNode) ([]byte, error) {
	return json.Marshal(ToNative(node))
}

// FromJSON builds a tree from a JSON document. Objects become dictionaries,
// arrays lists, strings byte strings and integral numbers integers.
// Booleans, null and fractional numbers have no bencode equivalent and
// are rejected, and so is anything but whitespace after the document.
func FromJSON(data []byte) (*BNode, error) {
	value, dataType, end, err := jsonparser.Get(data)
	if err != nil {
		return nil, errors.Wrap(err, "invalid json")
	}
	for i := end; i < len(data); i++ {
		switch data[i] {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return nil, errors.Newf("invalid json: unexpected %q at offset %d after value", data[i], i)
	}
	return parseJSONValue(dataType, value)
}

func parseJSONValue(dataType jsonparser.ValueType, data []byte) (*BNode, error) {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, errors.Wrap(err, "invalid json string")
		}
		return NewString(s), nil
	case jsonparser.Number:
		i, err := jsonparser.ParseInt(data)
		if err != nil {
			return nil, errors.Wrapf(err, "number %s is not a 64-bit integer", data)
		}
		return NewInt(i), nil
	case jsonparser.Array:
		list := make([]*BNode, 0)
		var itemErr error
		_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
			if itemErr != nil {
				return
			}
			if err != nil {
				itemErr = err
				return
			}
			n, err := parseJSONValue(dataType, value)
			if err != nil {
				itemErr = errors.Wrapf(err, "array item %d", len(list))
				return
			}
			list = append(list, n)
		})
		if itemErr != nil {
			return nil, itemErr
		}
		if err != nil {
			return nil, errors.Wrap(err, "invalid json array")
		}
		return &BNode{Type: BList, List: list}, nil
	case jsonparser.Object:
		dict := make(map[string]*BNode)
		err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
			k := string(key)
			if _, ok := dict[k]; ok {
				return errors.Newf("duplicate key %q", k)
			}
			n, err := parseJSONValue(dataType, value)
			if err != nil {
				return errors.Wrapf(err, "key %q", k)
			}
			dict[k] = n
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &BNode{Type: BDict, Dict: dict}, nil
	}

	return nil, errors.Newf("json %s has no bencode equivalent", dataType)
}
