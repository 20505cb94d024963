// Fingerprint correctness tests.
//
// A fingerprint is a 16 hex character hash of a document's encoded
// bytes. Callers compare fingerprints to tell whether two documents (or
// a document and the file on disk) hold the same content, so:
//  1. Determinism: the same bytes always give the same fingerprint.
//  2. Output format: exactly 16 lowercase hex characters.
//  3. Sensitivity: different content gives a different fingerprint.
package docfile

import (
	"regexp"
	"testing"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

var allAlgorithms = []int{AlgXXHash3, AlgFNV1a, AlgBlake2b}

func TestFingerprintFormat(t *testing.T) {
	for _, alg := range allAlgorithms {
		result := Fingerprint([]byte("test"), alg)
		if !hexPattern.MatchString(result) {
			t.Errorf("alg %d did not produce 16 hex chars: %q", alg, result)
		}
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	for _, alg := range allAlgorithms {
		h1 := Fingerprint([]byte("foo"), alg)
		h2 := Fingerprint([]byte("foo"), alg)
		if h1 != h2 {
			t.Errorf("alg %d: same input produced different hashes: %q vs %q", alg, h1, h2)
		}
	}
}

func TestFingerprintDifferentInputs(t *testing.T) {
	for _, alg := range allAlgorithms {
		h1 := Fingerprint([]byte("foo"), alg)
		h2 := Fingerprint([]byte("bar"), alg)
		if h1 == h2 {
			t.Errorf("alg %d: different inputs produced same hash: %q", alg, h1)
		}
	}
}

func TestFingerprintDifferentAlgorithms(t *testing.T) {
	h1 := Fingerprint([]byte("foo"), AlgXXHash3)
	h2 := Fingerprint([]byte("foo"), AlgFNV1a)
	h3 := Fingerprint([]byte("foo"), AlgBlake2b)

	if h1 == h2 || h1 == h3 || h2 == h3 {
		t.Errorf("same input with different algs produced same hash: xxh3=%q fnv=%q blake2b=%q", h1, h2, h3)
	}
}

func TestFingerprintEmpty(t *testing.T) {
	for _, alg := range allAlgorithms {
		result := Fingerprint(nil, alg)
		if !hexPattern.MatchString(result) {
			t.Errorf("alg %d: empty input did not produce valid hash: %q", alg, result)
		}
	}
}

func TestFingerprintInvalidAlgorithm(t *testing.T) {
	if result := Fingerprint([]byte("test"), 99); result != "" {
		t.Errorf("invalid alg should return empty string, got: %q", result)
	}
}

func TestTreeFingerprint(t *testing.T) {
	a := NewTree()
	a.Insert("x", "1")
	b := NewTree()
	b.Insert("x", "1")

	if a.Fingerprint(AlgXXHash3) != b.Fingerprint(AlgXXHash3) {
		t.Error("equal trees have different fingerprints")
	}

	b.Insert("x", "2")
	if a.Fingerprint(AlgXXHash3) == b.Fingerprint(AlgXXHash3) {
		t.Error("different trees have the same fingerprint")
	}

	if got, want := a.Fingerprint(AlgFNV1a), Fingerprint([]byte(a.String()), AlgFNV1a); got != want {
		t.Errorf("Fingerprint = %s, want hash of String() %s", got, want)
	}
}
