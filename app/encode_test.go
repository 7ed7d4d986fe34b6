package app_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/farbodahm/bencode-go/app"
	"github.com/stretchr/testify/require"
)

func TestEncodeBNode(t *testing.T) {
	tests := []struct {
		name string
		node *app.BNode
		want string
	}{
		{"empty string", app.NewString(""), "0:"},
		{"string", app.NewString("spam"), "4:spam"},
		{"binary", app.NewBytes([]byte{0, 0xff}), "2:\x00\xff"},
		{"zero", app.NewInt(0), "i0e"},
		{"positive", app.NewInt(3), "i3e"},
		{"negative", app.NewInt(-3), "i-3e"},
		{"min int64", app.NewInt(math.MinInt64), "i-9223372036854775808e"},
		{"empty list", app.NewList(), "le"},
		{"list", app.NewList(app.NewString("spam"), app.NewInt(42)), "l4:spami42ee"},
		{"empty dict", app.NewDict(nil), "de"},
		{"sorted keys", app.NewDict(map[string]*app.BNode{
			"b": app.NewInt(1),
			"a": app.NewInt(2),
		}), "d1:ai2e1:bi1ee"},
		{"byte order", app.NewDict(map[string]*app.BNode{
			"a":    app.NewInt(1),
			"B":    app.NewInt(2),
			"\xff": app.NewInt(3),
			"ab":   app.NewInt(4),
		}), "d1:Bi2e1:ai1e2:abi4e1:\xffi3ee"},
		{"nested", app.NewDict(map[string]*app.BNode{
			"info": app.NewDict(map[string]*app.BNode{
				"name":   app.NewString("x"),
				"length": app.NewInt(10),
			}),
		}), "d4:infod6:lengthi10e4:name1:xee"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.want, string(app.EncodeBNode(test.node)))
		})
	}
}

func TestEncodeHelpers(t *testing.T) {
	require.Equal(t, "i-7e", string(app.EncodeBencodeInt(-7)))
	require.Equal(t, "3:foo", string(app.EncodeBencodeString([]byte("foo"))))
	require.Equal(t, "li1ee", string(app.EncodeBencodeList([]*app.BNode{app.NewInt(1)})))
	require.Equal(t, "d1:x0:e", string(app.EncodeBencodeDict(map[string]*app.BNode{"x": app.NewString("")})))

	dst := []byte("prefix")
	require.Equal(t, "prefixi1e", string(app.AppendBNode(dst, app.NewInt(1))))
}

func TestEncodeMalformedTreePanics(t *testing.T) {
	require.Panics(t, func() { app.EncodeBNode(nil) })
	require.Panics(t, func() { app.EncodeBNode(&app.BNode{Type: app.BType(42)}) })
	require.Panics(t, func() { app.EncodeBNode(app.NewList(nil)) })
}

func TestEncodeNonCanonicalInput(t *testing.T) {
	n, _, err := app.DecodeBencode([]byte("d1:bi1e1:ai2ee"), 0)
	require.NoError(t, err)
	require.Equal(t, "d1:ai2e1:bi1ee", string(app.EncodeBNode(n)))
}

// randomNode builds a random tree no deeper than depth.
func randomNode(r *rand.Rand, depth int) *app.BNode {
	kind := r.Intn(4)
	if depth <= 0 {
		kind = r.Intn(2)
	}

	switch kind {
	case 0:
		return app.NewInt(r.Int63() - r.Int63())
	case 1:
		b := make([]byte, r.Intn(16))
		r.Read(b)
		return app.NewBytes(b)
	case 2:
		items := make([]*app.BNode, r.Intn(5))
		for i := range items {
			items[i] = randomNode(r, depth-1)
		}
		return app.NewList(items...)
	default:
		entries := make(map[string]*app.BNode)
		for i := r.Intn(5); i > 0; i-- {
			k := make([]byte, r.Intn(8))
			r.Read(k)
			entries[string(k)] = randomNode(r, depth-1)
		}
		return app.NewDict(entries)
	}
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		v := randomNode(r, 4)
		encoded := app.EncodeBNode(v)

		got, next, err := app.DecodeBencode(encoded, 0)
		require.NoError(t, err, "tree %s", v)
		require.Equal(t, len(encoded), next)
		require.True(t, v.Equal(got), "want %s, got %s", v, got)
		requireTree(t, v, got)

		// canonical form is a fixed point
		require.Equal(t, encoded, app.EncodeBNode(got))
	}
}

func FuzzDecodeBencode(f *testing.F) {
	for _, seed := range []string{
		"i0e", "i-1e", "0:", "4:spam", "le", "de", "l4:spami42ee",
		"d1:bi1e1:ai2ee", "d3:key1:a3:key1:be", "i03e", "5:abc", "llleee",
	} {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		n, next, err := app.DecodeBencode(data, 0, app.WithMaxDepth(64))
		if err != nil {
			var de *app.DecodeError
			require.ErrorAs(t, err, &de)
			return
		}
		require.LessOrEqual(t, next, len(data))

		encoded := app.EncodeBNode(n)
		again, end, err := app.DecodeBencode(encoded, 0)
		require.NoError(t, err)
		require.Equal(t, len(encoded), end)
		require.True(t, n.Equal(again))
		require.Equal(t, encoded, app.EncodeBNode(again))
	})
}
