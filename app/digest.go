package app

import (
	"crypto/sha1"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/zeebo/blake3"
)

// DigestAlgorithm selects the hash used by Digest.
type DigestAlgorithm int

const (
	SHA1 DigestAlgorithm = iota
	BLAKE3
)

func (a DigestAlgorithm) String() string {
	switch a {
	case SHA1:
		return "sha1"
	case BLAKE3:
		return "blake3"
	}
	return "unknown"
}

// ParseDigestAlgorithm parses "sha1" or "blake3", case-insensitively.
func ParseDigestAlgorithm(name string) (DigestAlgorithm, error) {
	switch strings.ToLower(name) {
	case "sha1":
		return SHA1, nil
	case "blake3":
		return BLAKE3, nil
	}
	return 0, errors.Newf("unknown digest algorithm %q", name)
}

// Digest hashes the canonical encoding of node. Two trees that are Equal
// always have the same digest, whatever key order their source bytes used.
// It panics on an algorithm other than SHA1 or BLAKE3.
func Digest(node *BNode, algo DigestAlgorithm) []byte {
	switch algo {
	case SHA1:
		sum := sha1.Sum(EncodeBNode(node))
		return sum[:]
	case BLAKE3:
		sum := blake3.Sum256(EncodeBNode(node))
		return sum[:]
	}

	panic(fmt.Sprintf("bencode: unknown digest algorithm %d", int(algo)))
}

// Lookup follows path through nested dictionaries and returns the node it
// ends on. An empty path returns node itself.
func Lookup(node *BNode, path ...string) (*BNode, error) {
	cur := node
	for i, key := range path {
		if cur.Type != BDict {
			where := "root"
			if i > 0 {
				where = strings.Join(path[:i], ".")
			}
			return nil, errors.Newf("%s: expected dictionary, found %v", where, cur.Type)
		}
		next, ok := cur.Get(key)
		if !ok {
			return nil, errors.Newf("key %q not found", strings.Join(path[:i+1], "."))
		}
		cur = next
	}
	return cur, nil
}
