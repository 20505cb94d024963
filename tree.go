// Ordered document trees.
//
// A Tree maps non-empty string keys to Values and remembers insertion
// order, which is the order keys are written to disk. Overwriting a key
// keeps its original position. Nested trees are stored by copy: once
// InsertTree returns, the parent and the child share nothing, and the
// child can keep being used on its own.
//
// A Tree is not safe for concurrent mutation. Database serialises access
// to its own root.
package docfile

// Tree is an ordered mapping from keys to Values. The zero value is an
// empty tree ready for use.
type Tree struct {
	keys []string
	vals map[string]Value
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{vals: make(map[string]Value)}
}

// ParseTree decodes a JSON object into a new tree.
func ParseTree(raw []byte) (*Tree, error) {
	return JSONCodec{}.Decode(raw)
}

// set writes v under key, keeping the key's position when it already exists.
func (t *Tree) set(key string, v Value) error {
	if key == "" {
		return ErrEmptyKey
	}
	if t.vals == nil {
		t.vals = make(map[string]Value)
	}
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = v
	return nil
}

// Insert creates or overwrites a string entry.
func (t *Tree) Insert(key, value string) error {
	return t.set(key, stringValue(value))
}

// InsertNumber creates or overwrites a number entry.
func (t *Tree) InsertNumber(key string, n uint64) error {
	return t.set(key, numberValue(n))
}

// InsertBool creates or overwrites a boolean entry.
func (t *Tree) InsertBool(key string, b bool) error {
	return t.set(key, boolValue(b))
}

// InsertArray creates or overwrites an array entry. The slice is copied.
func (t *Tree) InsertArray(key string, items []string) error {
	return t.set(key, arrayValue(items))
}

// InsertTree stores a deep copy of child under key. A nil child stores an
// empty object.
func (t *Tree) InsertTree(key string, child *Tree) error {
	return t.set(key, objectValue(child))
}

// Remove deletes key. Removing an absent key does nothing.
func (t *Tree) Remove(key string) {
	if _, ok := t.vals[key]; !ok {
		return
	}
	delete(t.vals, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Find returns the value stored under key, or a *KeyNotFoundError.
func (t *Tree) Find(key string) (Value, error) {
	if t != nil {
		if v, ok := t.vals[key]; ok {
			return v, nil
		}
	}
	return Value{}, &KeyNotFoundError{Key: key}
}

// Contains reports whether key is present.
func (t *Tree) Contains(key string) bool {
	if t == nil {
		return false
	}
	_, ok := t.vals[key]
	return ok
}

// Len returns the number of top-level entries. A nested tree counts once.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the top-level keys in write order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Clone returns a deep copy. Cloning nil yields an empty tree.
func (t *Tree) Clone() *Tree {
	out := NewTree()
	if t == nil {
		return out
	}
	out.keys = make([]string, len(t.keys))
	copy(out.keys, t.keys)
	for k, v := range t.vals {
		if v.kind == KindObject {
			v.obj = v.obj.Clone()
		}
		out.vals[k] = v
	}
	return out
}

// Equal reports whether both trees hold the same keys with equal values.
// Key order is not compared.
func (t *Tree) Equal(o *Tree) bool {
	if t.Len() != o.Len() {
		return false
	}
	for _, k := range t.Keys() {
		ov, ok := o.vals[k]
		if !ok || !t.vals[k].equal(ov) {
			return false
		}
	}
	return true
}

// String returns the pretty-printed JSON form of the tree.
func (t *Tree) String() string {
	out, err := JSONCodec{}.EncodePretty(t)
	if err != nil {
		return ""
	}
	return string(out)
}

// MarshalJSON implements json.Marshaler, preserving key order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return JSONCodec{}.Encode(t)
}

// UnmarshalJSON implements json.Unmarshaler, replacing the tree's contents.
func (t *Tree) UnmarshalJSON(data []byte) error {
	parsed, err := JSONCodec{}.Decode(data)
	if err != nil {
		return err
	}
	*t = *parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler, keeping key order.
func (t *Tree) MarshalYAML() (any, error) {
	return yamlTreeNode(t), nil
}
