package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/farbodahm/bencode-go/app"
	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// cborMode uses Core Deterministic Encoding so the same tree always
// prints the same hex.
var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("bencode: CBOR encoder initialization failed: " + err.Error())
	}
}

// writeNode prints node to w in the given format, followed by a newline.
func writeNode(w io.Writer, node *app.BNode, format string) error {
	var out []byte
	var err error

	switch format {
	case "json":
		out, err = app.MarshalBNode(node)
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(yamlValue(node))
	case "cbor":
		var raw []byte
		raw, err = cborMode.Marshal(app.ToNative(node))
		out = []byte(hex.EncodeToString(raw) + "\n")
	default:
		return errors.Newf("unknown format %q", format)
	}
	if err != nil {
		return errors.Wrapf(err, "cannot render %s", format)
	}

	_, err = w.Write(out)
	return err
}

// yamlValue is app.ToNative with byte strings that are not valid UTF-8
// tagged !!binary; yaml.v3 would otherwise print a []byte as a list of ints.
func yamlValue(node *app.BNode) any {
	switch node.Type {
	case app.BString:
		if !utf8.Valid(node.Str) {
			return &yaml.Node{
				Kind:  yaml.ScalarNode,
				Tag:   "!!binary",
				Value: base64.StdEncoding.EncodeToString(node.Str),
			}
		}
	case app.BList:
		l := make([]any, len(node.List))
		for i, item := range node.List {
			l[i] = yamlValue(item)
		}
		return l
	case app.BDict:
		m := make(map[string]any, len(node.Dict))
		for k, v := range node.Dict {
			m[k] = yamlValue(v)
		}
		return m
	}
	return app.ToNative(node)
}

// writeNodes prints every node, separating YAML documents with "---".
func writeNodes(w io.Writer, nodes []*app.BNode, format string) error {
	for i, n := range nodes {
		if format == "yaml" && i > 0 {
			if _, err := fmt.Fprintln(w, "---"); err != nil {
				return err
			}
		}
		if err := writeNode(w, n, format); err != nil {
			return err
		}
	}
	return nil
}
