package docfile

import (
	"errors"
	"slices"
	"testing"
)

func TestTreeInsertFind(t *testing.T) {
	tree := NewTree()
	tree.Insert("a", "b")

	v, err := tree.Find("a")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if s, _ := v.AsString(); s != "b" {
		t.Errorf("Find = %q, want %q", s, "b")
	}
	if tree.Len() != 1 {
		t.Errorf("Len = %d, want 1", tree.Len())
	}
}

func TestTreeZeroValue(t *testing.T) {
	var tree Tree
	if err := tree.Insert("a", "b"); err != nil {
		t.Fatalf("Insert on zero Tree: %v", err)
	}
	if !tree.Contains("a") {
		t.Error("Contains = false after Insert")
	}
}

func TestTreeOverwriteKeepsPosition(t *testing.T) {
	tree := NewTree()
	tree.Insert("first", "1")
	tree.Insert("second", "2")
	tree.Insert("third", "3")

	tree.InsertBool("first", true)

	if tree.Len() != 3 {
		t.Errorf("Len = %d, want 3", tree.Len())
	}
	want := []string{"first", "second", "third"}
	if got := tree.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
	v, _ := tree.Find("first")
	if v.Kind() != KindBool {
		t.Errorf("Kind = %v, want bool", v.Kind())
	}
}

func TestTreeRemove(t *testing.T) {
	tree := NewTree()
	tree.Insert("a", "1")
	tree.Insert("b", "2")
	tree.Insert("c", "3")

	tree.Remove("b")
	tree.Remove("b")
	tree.Remove("never")

	want := []string{"a", "c"}
	if got := tree.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
	if _, err := tree.Find("b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find removed: got %v, want ErrNotFound", err)
	}

	// A removed key goes to the end when inserted again
	tree.Insert("b", "4")
	want = []string{"a", "c", "b"}
	if got := tree.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
}

func TestTreeNotFoundNeverNull(t *testing.T) {
	tree := NewTree()
	tree.Insert("present", "x")

	v, err := tree.Find("missing")
	if err == nil {
		t.Fatalf("Find missing returned %v with no error", v)
	}
	var nf *KeyNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error %T is not *KeyNotFoundError", err)
	}
	if nf.Error() != `key "missing" does not exist` {
		t.Errorf("message = %q", nf.Error())
	}
}

func TestTreeStoredNull(t *testing.T) {
	tree, err := ParseTree([]byte(`{"n": null}`))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}

	v, err := tree.Find("n")
	if err != nil {
		t.Fatalf("Find stored null: %v", err)
	}
	if !v.IsNull() {
		t.Errorf("Kind = %v, want null", v.Kind())
	}
	if v.String() != "" {
		t.Errorf("String = %q, want empty", v.String())
	}
}

func TestTreeEmptyKey(t *testing.T) {
	tree := NewTree()

	checks := map[string]error{
		"Insert":       tree.Insert("", "v"),
		"InsertNumber": tree.InsertNumber("", 1),
		"InsertBool":   tree.InsertBool("", true),
		"InsertArray":  tree.InsertArray("", nil),
		"InsertTree":   tree.InsertTree("", NewTree()),
	}
	for name, err := range checks {
		if err != ErrEmptyKey {
			t.Errorf("%s: got %v, want ErrEmptyKey", name, err)
		}
	}
	if tree.Len() != 0 {
		t.Errorf("Len = %d, want 0", tree.Len())
	}
}

func TestTreeInsertTreeCopies(t *testing.T) {
	child := NewTree()
	child.Insert("b", "c")
	grandchild := NewTree()
	grandchild.InsertNumber("depth", 2)
	child.InsertTree("deeper", grandchild)

	parent := NewTree()
	parent.InsertTree("id", child)

	// Mutate every level of the source after the insert
	child.Insert("b", "changed")
	grandchild.InsertNumber("depth", 99)
	child.Remove("deeper")

	v, _ := parent.Find("id")
	stored, err := v.AsTree()
	if err != nil {
		t.Fatalf("AsTree: %v", err)
	}
	if s, _ := stored.Find("b"); s.String() != "c" {
		t.Errorf("stored b = %q, want c", s.String())
	}
	deeper, _ := stored.Find("deeper")
	dt, _ := deeper.AsTree()
	if d, _ := dt.Find("depth"); d.String() != "2" {
		t.Errorf("stored depth = %q, want 2", d.String())
	}

	// Mutating a projection does not reach the parent either
	stored.Insert("extra", "x")
	again, _ := parent.Find("id")
	at, _ := again.AsTree()
	if at.Contains("extra") {
		t.Error("AsTree result aliases the stored tree")
	}
}

func TestTreeInsertNil(t *testing.T) {
	tree := NewTree()
	if err := tree.InsertTree("empty", nil); err != nil {
		t.Fatalf("InsertTree nil: %v", err)
	}
	v, _ := tree.Find("empty")
	sub, err := v.AsTree()
	if err != nil {
		t.Fatalf("AsTree: %v", err)
	}
	if sub.Len() != 0 {
		t.Errorf("Len = %d, want 0", sub.Len())
	}
}

func TestTreeInsertArrayCopies(t *testing.T) {
	items := []string{"a", "b"}
	tree := NewTree()
	tree.InsertArray("list", items)
	items[0] = "changed"

	v, _ := tree.Find("list")
	got, _ := v.AsArray()
	got[1] = "also changed"

	v, _ = tree.Find("list")
	again, _ := v.AsArray()
	if !slices.Equal(again, []string{"a", "b"}) {
		t.Errorf("AsArray = %v, want [a b]", again)
	}
}

func TestTreeNestedCountsOnce(t *testing.T) {
	sub := NewTree()
	for _, k := range []string{"a", "b", "c", "d"} {
		sub.Insert(k, k)
	}
	tree := NewTree()
	tree.Insert("top", "x")
	tree.InsertTree("sub", sub)

	if tree.Len() != 2 {
		t.Errorf("Len = %d, want 2", tree.Len())
	}
}

func TestTreeRoundTrip(t *testing.T) {
	sub := NewTree()
	sub.Insert("b", "c")
	sub.InsertArray("empty", []string{})

	tree := NewTree()
	tree.Insert("s", "quote \" backslash \\ newline \n unicode 日本語 <tag> & more")
	tree.InsertNumber("zero", 0)
	tree.InsertNumber("max", ^uint64(0))
	tree.InsertBool("t", true)
	tree.InsertBool("f", false)
	tree.InsertArray("list", []string{"x", "", "z"})
	tree.InsertTree("sub", sub)
	tree.InsertTree("empty-sub", NewTree())
	tree.Insert("gone", "x")
	tree.Remove("gone")

	for _, codec := range []Codec{JSONCodec{}, YAMLCodec{}} {
		for name, encode := range map[string]func(*Tree) ([]byte, error){
			"compact": codec.Encode,
			"pretty":  codec.EncodePretty,
		} {
			raw, err := encode(tree)
			if err != nil {
				t.Fatalf("%T %s: %v", codec, name, err)
			}
			got, err := codec.Decode(raw)
			if err != nil {
				t.Fatalf("%T %s decode: %v\n%s", codec, name, err, raw)
			}
			if !got.Equal(tree) {
				t.Errorf("%T %s round trip =\n%s\nwant:\n%s", codec, name, got, tree)
			}
			if !slices.Equal(got.Keys(), tree.Keys()) {
				t.Errorf("%T %s keys = %v, want %v", codec, name, got.Keys(), tree.Keys())
			}
		}
	}
}

func TestTreeEqual(t *testing.T) {
	a := NewTree()
	a.Insert("x", "1")
	a.InsertNumber("y", 2)

	b := NewTree()
	b.InsertNumber("y", 2)
	b.Insert("x", "1")

	if !a.Equal(b) {
		t.Error("trees with the same entries in different order are not Equal")
	}

	b.InsertNumber("x", 1)
	if a.Equal(b) {
		t.Error("string and number with the same text compare Equal")
	}
	if a.Equal(nil) {
		t.Error("non-empty tree Equal(nil)")
	}
	if !NewTree().Equal(nil) {
		t.Error("empty tree not Equal(nil)")
	}
}

func TestTreeClone(t *testing.T) {
	sub := NewTree()
	sub.Insert("b", "c")
	tree := NewTree()
	tree.InsertTree("sub", sub)

	clone := tree.Clone()
	clone.Insert("extra", "x")
	clone.Remove("sub")

	if tree.Len() != 1 || !tree.Contains("sub") {
		t.Errorf("original changed after mutating clone: %s", tree)
	}
}

func TestTreeString(t *testing.T) {
	if got := NewTree().String(); got != "{}" {
		t.Errorf("empty String = %q, want {}", got)
	}

	tree := NewTree()
	tree.Insert("key", "q")
	if got := tree.String(); got != "{\n  \"key\": \"q\"\n}" {
		t.Errorf("String = %q", got)
	}
}

func TestTreeJSONMarshalers(t *testing.T) {
	tree := NewTree()
	tree.Insert("b", "1")
	tree.Insert("a", "2")

	raw, err := tree.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(raw) != `{"b":"1","a":"2"}` {
		t.Errorf("MarshalJSON = %s", raw)
	}

	var back Tree
	if err := back.UnmarshalJSON(raw); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if !back.Equal(tree) {
		t.Errorf("UnmarshalJSON = %s", &back)
	}

	if err := back.UnmarshalJSON([]byte(`[1]`)); !errors.Is(err, ErrDecode) {
		t.Errorf("UnmarshalJSON array: got %v, want ErrDecode", err)
	}
}
