package app

import (
	"bytes"

	"github.com/cockroachdb/errors"
	bencode "github.com/jackpal/bencode-go"
)

// Unmarshal validates data with the strict decoder and then binds it into
// v, which is typically a pointer to a struct whose fields are tagged
// `bencode:"name"`. data must hold exactly one value.
func Unmarshal(data []byte, v any, opts ...DecodeOption) error {
	_, next, err := DecodeBencode(data, 0, opts...)
	if err != nil {
		return err
	}
	if next != len(data) {
		de := newDecodeError(ErrInvalidToken, next, "trailing data after value")
		de.Token = data[next]
		return de
	}

	if err := bencode.Unmarshal(bytes.NewReader(data), v); err != nil {
		return errors.Wrapf(err, "cannot bind into %T", v)
	}
	return nil
}

// Marshal encodes v, typically a tagged struct, and returns its canonical
// encoding.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := bencode.Marshal(&buf, v); err != nil {
		return nil, errors.Wrapf(err, "cannot marshal %T", v)
	}

	node, _, err := DecodeBencode(buf.Bytes(), 0)
	if err != nil {
		return nil, errors.Wrapf(err, "marshaling %T produced invalid bencode", v)
	}
	return EncodeBNode(node), nil
}
