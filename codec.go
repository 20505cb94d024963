// Conversion between raw bytes and trees.
//
// The JSON codec writes objects by walking the tree's key list, so the
// output order is always the tree's write order. Decoding validates the
// whole input first and then walks the token stream, which keeps object
// keys in file order (a plain Unmarshal into a map would lose it).
//
// Only the shapes a tree can hold are accepted: objects, strings,
// booleans, null, non-negative integers that fit in a uint64, and arrays
// whose elements are all strings. Anything else is a DecodeError. Strings
// must be valid UTF-8 with paired surrogate escapes; a lone "\ud800" would
// otherwise decode to U+FFFD and be lost on the next write.
//
// Strings are written without HTML escaping so the file stays readable.
package docfile

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	json "github.com/goccy/go-json"
)

// Codec converts between raw bytes and trees. Database uses EncodePretty
// for the persisted file.
type Codec interface {
	Decode(raw []byte) (*Tree, error)
	Encode(t *Tree) ([]byte, error)
	EncodePretty(t *Tree) ([]byte, error)
}

// prettyIndent is the indent used by every pretty printer in the package.
const prettyIndent = "  "

// JSONCodec is the default codec.
type JSONCodec struct{}

// Decode parses an object-rooted JSON document.
func (JSONCodec) Decode(raw []byte) (*Tree, error) {
	if !json.Valid(raw) {
		var probe any
		err := json.Unmarshal(raw, &probe)
		if err == nil {
			err = errors.New("invalid json")
		}
		offset := int64(-1)
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			offset = syntax.Offset
		}
		return nil, &DecodeError{Offset: offset, Err: err}
	}
	if err := checkStrings(raw); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, &DecodeError{Offset: -1, Err: err}
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, decodeErrorf(0, "document root must be an object")
	}
	return decodeObject(dec)
}

// Encode returns the compact form.
func (JSONCodec) Encode(t *Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendTree(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodePretty returns the indented form written to disk.
func (c JSONCodec) EncodePretty(t *Tree) ([]byte, error) {
	compact, err := c.Encode(t)
	if err != nil {
		return nil, err
	}
	return indent(compact)
}

func indent(compact []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", prettyIndent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// prettyValue renders a single value the way EncodePretty would render it
// inside a document.
func prettyValue(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendValue(&buf, v); err != nil {
		return nil, err
	}
	return indent(buf.Bytes())
}

// decodeObject reads key/value pairs up to the closing brace. The opening
// brace has already been consumed.
func decodeObject(dec *json.Decoder) (*Tree, error) {
	t := NewTree()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, &DecodeError{Offset: -1, Err: err}
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return t, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, decodeErrorf(-1, "object key must be a string, got %v", tok)
		}
		if key == "" {
			return nil, decodeErrorf(-1, "object key cannot be empty")
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, &DecodeError{Offset: -1, Err: err}
		}
		v, err := decodeValue(dec, tok)
		if err != nil {
			return nil, err
		}
		// Duplicate keys: the last occurrence wins, as with an overwrite.
		t.set(key, v)
	}
}

func decodeArray(dec *json.Decoder) ([]string, error) {
	items := []string{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, &DecodeError{Offset: -1, Err: err}
		}
		switch tok := tok.(type) {
		case json.Delim:
			if tok == ']' {
				return items, nil
			}
			return nil, decodeErrorf(-1, "array elements must be strings")
		case string:
			items = append(items, tok)
		default:
			return nil, decodeErrorf(-1, "array elements must be strings, got %v", tok)
		}
	}
}

func decodeValue(dec *json.Decoder, tok any) (Value, error) {
	switch tok := tok.(type) {
	case json.Delim:
		switch tok {
		case '{':
			t, err := decodeObject(dec)
			if err != nil {
				return Value{}, err
			}
			return Value{kind: KindObject, obj: t}, nil
		case '[':
			items, err := decodeArray(dec)
			if err != nil {
				return Value{}, err
			}
			return Value{kind: KindArray, arr: items}, nil
		}
		return Value{}, decodeErrorf(-1, "unexpected %v", tok)
	case nil:
		return nullValue(), nil
	case bool:
		return boolValue(tok), nil
	case string:
		return stringValue(tok), nil
	case fmt.Stringer:
		// json.Number under UseNumber
		n, err := strconv.ParseUint(tok.String(), 10, 64)
		if err != nil {
			return Value{}, decodeErrorf(-1, "number %s is not an unsigned integer", tok)
		}
		return numberValue(n), nil
	default:
		return Value{}, decodeErrorf(-1, "unsupported token %v", tok)
	}
}

// checkStrings scans already validated JSON for text that would not survive
// a decode and re-encode unchanged.
func checkStrings(raw []byte) error {
	if !utf8.Valid(raw) {
		return decodeErrorf(-1, "invalid UTF-8")
	}
	inString := false
	high := false // a high surrogate escape is waiting for its low half
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			continue
		}
		if c != '\\' {
			if high {
				return decodeErrorf(int64(i), "unpaired surrogate escape")
			}
			if c == '"' {
				inString = false
			}
			continue
		}
		i++
		if raw[i] != 'u' {
			if high {
				return decodeErrorf(int64(i), "unpaired surrogate escape")
			}
			continue
		}
		r, err := strconv.ParseUint(string(raw[i+1:i+5]), 16, 32)
		if err != nil {
			return decodeErrorf(int64(i), "bad unicode escape")
		}
		i += 4
		switch {
		case r >= 0xD800 && r < 0xDC00:
			if high {
				return decodeErrorf(int64(i), "unpaired surrogate escape")
			}
			high = true
		case r >= 0xDC00 && r < 0xE000:
			if !high {
				return decodeErrorf(int64(i), "unpaired surrogate escape")
			}
			high = false
		default:
			if high {
				return decodeErrorf(int64(i), "unpaired surrogate escape")
			}
		}
	}
	return nil
}

// marshalText encodes a string or string slice without HTML escaping.
func marshalText(v any) ([]byte, error) {
	return json.MarshalWithOption(v, json.DisableHTMLEscape())
}

func appendTree(buf *bytes.Buffer, t *Tree) error {
	buf.WriteByte('{')
	for i, k := range t.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalText(k)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := appendValue(buf, t.vals[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func appendValue(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(strconv.FormatUint(v.n, 10))
	case KindString:
		s, err := marshalText(v.s)
		if err != nil {
			return err
		}
		buf.Write(s)
	case KindArray:
		items := v.arr
		if items == nil {
			items = []string{}
		}
		a, err := marshalText(items)
		if err != nil {
			return err
		}
		buf.Write(a)
	case KindObject:
		return appendTree(buf, v.obj)
	default:
		return fmt.Errorf("unknown kind %d", v.kind)
	}
	return nil
}
