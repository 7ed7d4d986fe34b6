package app

import (
	"bytes"
	"fmt"
	"strconv"
)

type decodeConfig struct {
	maxDepth int
}

// DecodeOption configures the decoder.
type DecodeOption func(*decodeConfig)

// WithMaxDepth caps how deeply lists and dictionaries may nest. A value of
// 0, the default, means no limit: recursion then only stops at the end of
// the input, so untrusted input should always be decoded with a limit.
func WithMaxDepth(n int) DecodeOption {
	return func(c *decodeConfig) {
		if n < 0 {
			n = 0
		}
		c.maxDepth = n
	}
}

func newDecodeConfig(opts []DecodeOption) decodeConfig {
	var cfg decodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// decoder holds the cursor shared by every sub-decoder of a single call.
type decoder struct {
	data     []byte
	pos      int
	depth    int
	maxDepth int
}

// DecodeBencode decodes the single value starting at offset and returns it
// together with the offset of the first byte after it, so back-to-back
// values can be decoded without rescanning.
func DecodeBencode(data []byte, offset int, opts ...DecodeOption) (*BNode, int, error) {
	return decodeAt(data, offset, newDecodeConfig(opts))
}

// DecodeAll decodes every value of data, from offset 0 until the buffer is
// exhausted.
func DecodeAll(data []byte, opts ...DecodeOption) ([]*BNode, error) {
	nodes := make([]*BNode, 0)
	sc := NewScanner(data, opts...)
	for sc.Scan() {
		nodes = append(nodes, sc.Node())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nodes, nil
}

func decodeAt(data []byte, offset int, cfg decodeConfig) (*BNode, int, error) {
	if len(data) == 0 {
		return nil, offset, newDecodeError(ErrEmptyInput, 0, "")
	}
	if offset < 0 || offset >= len(data) {
		return nil, offset, newDecodeError(ErrEmptyInput, offset, fmt.Sprintf("offset outside of %d byte input", len(data)))
	}

	d := decoder{data: data, pos: offset, maxDepth: cfg.maxDepth}
	n, err := d.decode()
	if err != nil {
		return nil, offset, err
	}
	return n, d.pos, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// decode dispatches on the lead byte at the cursor.
func (d *decoder) decode() (*BNode, error) {
	if d.pos >= len(d.data) {
		return nil, newDecodeError(ErrUnterminatedValue, d.pos, "unexpected end of input")
	}

	c := d.data[d.pos]
	switch {
	case c == 'd':
		return d.decodeDict()
	case c == 'l':
		return d.decodeList()
	case c == 'i':
		return d.decodeInt()
	case isDigit(c):
		return d.decodeString()
	}

	err := newDecodeError(ErrInvalidToken, d.pos, "")
	err.Token = c
	return nil, err
}

// decodeString decodes <length>:<bytes>.
func (d *decoder) decodeString() (*BNode, error) {
	start := d.pos

	i := start
	for i < len(d.data) && isDigit(d.data[i]) {
		i++
	}
	if i == len(d.data) {
		return nil, newDecodeError(ErrUnterminatedLength, start, "missing ':' after length")
	}
	if d.data[i] != ':' {
		err := newDecodeError(ErrUnterminatedLength, i, fmt.Sprintf("expected ':', found %q", d.data[i]))
		err.Token = d.data[i]
		return nil, err
	}

	digits := d.data[start:i]
	if len(digits) > 1 && digits[0] == '0' {
		return nil, newDecodeError(ErrMalformedInteger, start, "string length has a leading zero")
	}
	length, err := strconv.Atoi(string(digits))
	if err != nil {
		return nil, newDecodeError(ErrMalformedInteger, start, "string length out of range")
	}

	begin := i + 1
	if remaining := len(d.data) - begin; length > remaining {
		return nil, newDecodeError(ErrTruncatedData, begin, fmt.Sprintf("need %d bytes, %d left", length, remaining))
	}

	str := make([]byte, length)
	copy(str, d.data[begin:begin+length])
	d.pos = begin + length

	return &BNode{Type: BString, Str: str}, nil
}

// decodeInt decodes i<digits>e.
func (d *decoder) decodeInt() (*BNode, error) {
	start := d.pos

	end := bytes.IndexByte(d.data[start+1:], 'e')
	if end < 0 {
		return nil, newDecodeError(ErrUnterminatedValue, start, "integer missing 'e'")
	}
	end += start + 1

	i, msg := parseInteger(d.data[start+1 : end])
	if msg != "" {
		return nil, newDecodeError(ErrMalformedInteger, start, msg)
	}
	d.pos = end + 1

	return &BNode{Type: BInt, Int: i}, nil
}

// parseInteger parses an optionally negative decimal number, rejecting
// padding and negative zero. It returns a reason when s is invalid.
func parseInteger(s []byte) (int64, string) {
	if len(s) == 0 {
		return 0, "empty integer"
	}

	mag := s
	neg := s[0] == '-'
	if neg {
		mag = s[1:]
	}
	if len(mag) == 0 {
		return 0, "missing digits"
	}
	for _, c := range mag {
		if !isDigit(c) {
			return 0, fmt.Sprintf("unexpected character %q", c)
		}
	}
	if mag[0] == '0' {
		if neg {
			return 0, "negative zero"
		}
		if len(mag) > 1 {
			return 0, "leading zero"
		}
	}

	i, err := strconv.ParseInt(string(s), 10, 64)
	if err != nil {
		return 0, "integer out of range"
	}
	return i, ""
}

func (d *decoder) enter() error {
	d.depth++
	if d.maxDepth > 0 && d.depth > d.maxDepth {
		return newDecodeError(ErrNestingTooDeep, d.pos, fmt.Sprintf("limit is %d", d.maxDepth))
	}
	return nil
}

// decodeList decodes l<value>*e.
func (d *decoder) decodeList() (*BNode, error) {
	start := d.pos
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	list := make([]*BNode, 0)
	d.pos++

	for {
		if d.pos >= len(d.data) {
			return nil, newDecodeError(ErrUnterminatedValue, d.pos, fmt.Sprintf("list at offset %d missing 'e'", start))
		}
		if d.data[d.pos] == 'e' {
			d.pos++
			break
		}

		item, err := d.decode()
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}

	return &BNode{Type: BList, List: list}, nil
}

// decodeDict decodes d(<string><value>)*e. Keys may come in any order.
func (d *decoder) decodeDict() (*BNode, error) {
	start := d.pos
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	dict := make(map[string]*BNode)
	d.pos++

	for {
		if d.pos >= len(d.data) {
			return nil, newDecodeError(ErrUnterminatedValue, d.pos, fmt.Sprintf("dictionary at offset %d missing 'e'", start))
		}
		c := d.data[d.pos]
		if c == 'e' {
			d.pos++
			break
		}
		if !isDigit(c) {
			err := newDecodeError(ErrInvalidKeyType, d.pos, "")
			err.Token = c
			return nil, err
		}

		keyStart := d.pos
		key, err := d.decodeString()
		if err != nil {
			return nil, err
		}
		k := string(key.Str)
		if _, ok := dict[k]; ok {
			return nil, newDecodeError(ErrDuplicateKey, keyStart, strconv.Quote(k))
		}

		if d.pos >= len(d.data) {
			return nil, newDecodeError(ErrUnterminatedValue, d.pos, fmt.Sprintf("missing value for key %q", k))
		}
		v, err := d.decode()
		if err != nil {
			return nil, err
		}
		dict[k] = v
	}

	return &BNode{Type: BDict, Dict: dict}, nil
}
