// Display output tests against golden files.
//
// The display form of values, trees and databases is what the CLI prints
// and what users see, so it is pinned byte for byte. To regenerate after
// an intentional change:
//
//	go test -run Golden -update
package docfile

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestGoldenSubtreeDisplay(t *testing.T) {
	db := openTestDB(t)

	sub := NewTree()
	sub.Insert("b", "c")
	db.InsertTree("id", sub)

	v, err := db.Find("id")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	newGoldie(t).Assert(t, "subtree_display", []byte(v.String()))
}

func TestGoldenDocumentDisplay(t *testing.T) {
	db := openTestDB(t)

	inner := NewTree()
	inner.Insert("inner", "x")
	inner.InsertNumber("level", 2)

	db.Insert("name", "docfile")
	db.InsertNumber("count", 3)
	db.InsertBool("enabled", true)
	db.InsertArray("tags", []string{"a", "b"})
	db.InsertTree("nested", inner)

	newGoldie(t).Assert(t, "document_display", []byte(db.String()))
	newGoldie(t).Assert(t, "document_file", []byte(readFile(t, db.Path())))
}

func TestGoldenArrayDisplay(t *testing.T) {
	tree := NewTree()
	tree.InsertArray("list", []string{"hello", "world"})

	v, _ := tree.Find("list")
	newGoldie(t).Assert(t, "array_display", []byte(v.String()))
}
