package value

import (
	"fmt"
	"sort"
	"strconv"

	j "github.com/goccy/go-json"
)

// UnsupportedTypeError reports a Go value FromAny cannot represent.
type UnsupportedTypeError struct {
	Path string // JSON Pointer of the offending value
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("value: unsupported Go type %s at %s", e.Type, e.Path)
}

// FromAny converts a generic Go tree (as produced by encoding/json, go-json
// or yaml.v3 decoding into any) into a Value. Values that are already a
// Value or Object are returned as-is.
func FromAny(x any) (Value, error) { return fromAny(x, "") }

func fromAny(x any, path string) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case Object:
		return ObjectOf(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case j.Number: // same type as encoding/json.Number
		return Number(t.String())
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Value{kind: KindNumber, s: strconv.FormatUint(uint64(t), 10)}, nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return Value{kind: KindNumber, s: strconv.FormatUint(t, 10)}, nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case map[string]any:
		obj := make(Object, len(t))
		for k, v := range t {
			cv, err := fromAny(v, path+"/"+EscapePointer(k))
			if err != nil {
				return Value{}, err
			}
			obj[k] = cv
		}
		return ObjectOf(obj), nil
	case map[any]any:
		obj := make(Object, len(t))
		for k, v := range t {
			ks, ok := k.(string)
			if !ok {
				return Value{}, &UnsupportedTypeError{Path: pointer(path), Type: fmt.Sprintf("%T map key", k)}
			}
			cv, err := fromAny(v, path+"/"+EscapePointer(ks))
			if err != nil {
				return Value{}, err
			}
			obj[ks] = cv
		}
		return ObjectOf(obj), nil
	case []any:
		items := make([]Value, len(t))
		for i, v := range t {
			cv, err := fromAny(v, path+"/"+strconv.Itoa(i))
			if err != nil {
				return Value{}, err
			}
			items[i] = cv
		}
		return ArrayOf(items...), nil
	case []string:
		return Strings(t), nil
	case []int:
		return Ints(t), nil
	case []float64:
		return Floats(t), nil
	}
	return Value{}, &UnsupportedTypeError{Path: pointer(path), Type: fmt.Sprintf("%T", x)}
}

// ToAny converts v into plain Go values: nil, bool, string, json.Number,
// map[string]any and []any.
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return j.Number(v.s)
	case KindString:
		return v.s
	case KindObject:
		return v.obj.ToAny()
	case KindArray:
		out := make([]any, len(v.arr))
		for i, it := range v.arr {
			out[i] = it.ToAny()
		}
		return out
	default:
		return nil
	}
}

// ToAny converts o into a map[string]any tree.
func (o Object) ToAny() map[string]any {
	out := make(map[string]any, len(o))
	for k, v := range o {
		out[k] = v.ToAny()
	}
	return out
}

// Walk visits every value under v depth-first in sorted key order, passing
// the JSON Pointer of each node. Returning false from fn stops descent into
// that node's children.
func Walk(v Value, fn func(path string, v Value) bool) { walk(v, "", fn) }

func walk(v Value, path string, fn func(string, Value) bool) {
	if !fn(pointer(path), v) {
		return
	}
	switch v.kind {
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(v.obj[k], path+"/"+EscapePointer(k), fn)
		}
	case KindArray:
		for i, it := range v.arr {
			walk(it, path+"/"+strconv.Itoa(i), fn)
		}
	}
}
