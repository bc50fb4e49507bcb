package value

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	j "github.com/goccy/go-json"
)

// DuplicateFieldError reports an object key that appeared twice in the input.
// Path is the JSON Pointer of the duplicated member.
type DuplicateFieldError struct {
	Path string
	Key  string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("value: duplicate key %q at %s", e.Key, e.Path)
}

// SyntaxError wraps a decoder failure with the JSON Pointer where it happened.
type SyntaxError struct {
	Path string
	Err  error
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("value: syntax error at %s: %v", e.Path, e.Err) }
func (e *SyntaxError) Unwrap() error { return e.Err }

// ParseJSON decodes exactly one JSON document. Numbers keep their literal
// text and duplicate object keys are rejected.
func ParseJSON(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, &SyntaxError{Path: "/", Err: io.ErrUnexpectedEOF}
	}
	// the token stream does not check separators
	if !j.Valid(data) {
		return Value{}, &SyntaxError{Path: "/", Err: errors.New("invalid JSON")}
	}
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return Value{}, &SyntaxError{Path: "/", Err: err}
	}
	v, err := decodeToken(dec, tok, "")
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, &SyntaxError{Path: "/", Err: errors.New("trailing data after document")}
	}
	return v, nil
}

// DecodeJSON reads all of r and parses it as exactly one JSON document.
func DecodeJSON(r io.Reader) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Value{}, err
	}
	return ParseJSON(data)
}

func decodeToken(dec *j.Decoder, tok j.Token, path string) (Value, error) {
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			return decodeObject(dec, path)
		case '[':
			return decodeArray(dec, path)
		}
		return Value{}, &SyntaxError{Path: pointer(path), Err: fmt.Errorf("unexpected delimiter %q", rune(t))}
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case j.Number:
		return Number(string(t))
	case float64:
		return Float(t), nil
	case nil:
		return Null(), nil
	}
	return Value{}, &SyntaxError{Path: pointer(path), Err: fmt.Errorf("unexpected token %T", tok)}
}

func decodeObject(dec *j.Decoder, path string) (Value, error) {
	obj := Object{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return Value{}, &SyntaxError{Path: pointer(path), Err: err}
		}
		key, ok := kt.(string)
		if !ok {
			return Value{}, &SyntaxError{Path: pointer(path), Err: fmt.Errorf("expected object key, got %T", kt)}
		}
		child := path + "/" + EscapePointer(key)
		if _, dup := obj[key]; dup {
			return Value{}, &DuplicateFieldError{Path: child, Key: key}
		}
		vt, err := dec.Token()
		if err != nil {
			return Value{}, &SyntaxError{Path: child, Err: err}
		}
		v, err := decodeToken(dec, vt, child)
		if err != nil {
			return Value{}, err
		}
		obj[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, &SyntaxError{Path: pointer(path), Err: err}
	}
	return ObjectOf(obj), nil
}

func decodeArray(dec *j.Decoder, path string) (Value, error) {
	items := []Value{}
	for i := 0; dec.More(); i++ {
		child := path + "/" + strconv.Itoa(i)
		tok, err := dec.Token()
		if err != nil {
			return Value{}, &SyntaxError{Path: child, Err: err}
		}
		v, err := decodeToken(dec, tok, child)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, &SyntaxError{Path: pointer(path), Err: err}
	}
	return ArrayOf(items...), nil
}

// UnmarshalJSON implements json.Unmarshaler on top of ParseJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	out, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

// MarshalJSON emits compact JSON with object keys in sorted order, so equal
// values always serialize to equal bytes.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON emits the object with sorted keys.
func (o Object) MarshalJSON() ([]byte, error) { return ObjectOf(o).MarshalJSON() }

// UnmarshalJSON accepts only a JSON object.
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := ParseJSON(data)
	if err != nil {
		return err
	}
	obj, ok := v.AsObject()
	if !ok {
		return fmt.Errorf("value: expected object, got %s", v.Kind())
	}
	*o = obj
	return nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.s)
	case KindString:
		b, err := j.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindObject:
		buf.WriteByte('{')
		for i, k := range v.obj.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := j.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := v.obj[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindArray:
		buf.WriteByte('[')
		for i, it := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("value: unknown kind %d", v.kind)
	}
	return nil
}

// MarshalIndentJSON renders v as indented JSON.
func MarshalIndentJSON(v Value, indent string) ([]byte, error) {
	compact, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := j.Indent(&out, compact, "", indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// EscapePointer escapes a key for use as a JSON Pointer segment (RFC 6901).
func EscapePointer(key string) string {
	var b []byte
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '~':
			if b == nil {
				b = append([]byte{}, key[:i]...)
			}
			b = append(b, '~', '0')
		case '/':
			if b == nil {
				b = append([]byte{}, key[:i]...)
			}
			b = append(b, '~', '1')
		default:
			if b != nil {
				b = append(b, key[i])
			}
		}
	}
	if b == nil {
		return key
	}
	return string(b)
}

func pointer(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
