// Content fingerprints.
//
// A fingerprint is a 16 hex character hash of a document's encoded bytes.
// The algorithm is selectable via Config.HashAlgorithm. Because the
// database fingerprints the same bytes it writes, Database.Fingerprint
// always equals the fingerprint of the file on disk after a commit.
package docfile

import (
	"fmt"
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Hash algorithm constants.
const (
	AlgXXHash3 = 1 // Default, fastest
	AlgFNV1a   = 2 // No external dependencies
	AlgBlake2b = 3 // Best distribution
)

// Fingerprint hashes raw bytes with the given algorithm. Unknown
// algorithms return an empty string.
func Fingerprint(data []byte, alg int) string {
	switch alg {
	case AlgXXHash3:
		return fmt.Sprintf("%016x", xxh3.Hash(data))
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write(data)
		return fmt.Sprintf("%016x", h.Sum64())
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
		h.Write(data)
		return fmt.Sprintf("%016x", h.Sum(nil))
	default:
		return ""
	}
}

// Fingerprint hashes the tree's pretty JSON encoding.
func (t *Tree) Fingerprint(alg int) string {
	out, err := JSONCodec{}.EncodePretty(t)
	if err != nil {
		return ""
	}
	return Fingerprint(out, alg)
}
