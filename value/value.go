package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind enumerates the shapes a Value can take.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a tagged union over null/bool/number/string/object/array.
// The zero Value is null.
//
// Numbers are held as their literal text so that integers beyond 2^53 and
// decimal spellings survive a decode/encode cycle untouched.
type Value struct {
	kind Kind
	b    bool
	s    string // string payload or number literal
	obj  Object
	arr  []Value
}

// Object is an unordered mapping from keys to values. A missing key means
// "absent"; a key bound to Null() means "explicitly null".
type Object map[string]Value

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps b.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps s.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindNumber, s: strconv.FormatInt(i, 10)} }

// Float wraps a float. NaN and infinities have no structured-data spelling
// and become null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Number wraps a numeric literal. It fails when lit is not a valid number.
func Number(lit string) (Value, error) {
	if !isNumberLiteral(lit) {
		return Value{}, fmt.Errorf("value: invalid number literal %q", lit)
	}
	return Value{kind: KindNumber, s: lit}, nil
}

// MustNumber is Number that panics on an invalid literal.
func MustNumber(lit string) Value {
	v, err := Number(lit)
	if err != nil {
		panic(err)
	}
	return v
}

// ObjectOf wraps o. The map is not copied.
func ObjectOf(o Object) Value {
	if o == nil {
		o = Object{}
	}
	return Value{kind: KindObject, obj: o}
}

// ArrayOf wraps items. The slice is not copied.
func ArrayOf(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// Strings builds an array of strings.
func Strings(ss []string) Value {
	if ss == nil {
		return Null()
	}
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = String(s)
	}
	return ArrayOf(items...)
}

// Ints builds an array of integers.
func Ints(is []int) Value {
	if is == nil {
		return Null()
	}
	items := make([]Value, len(is))
	for i, n := range is {
		items[i] = Int(int64(n))
	}
	return ArrayOf(items...)
}

// Floats builds an array of floats.
func Floats(fs []float64) Value {
	if fs == nil {
		return Null()
	}
	items := make([]Value, len(fs))
	for i, f := range fs {
		items[i] = Float(f)
	}
	return ArrayOf(items...)
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsObject() bool { return v.kind == KindObject }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// NumberText returns the literal text of a number.
func (v Value) NumberText() (string, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return v.s, true
}

// Int64 returns the number as an int64. Integral floats such as "3.0" are
// accepted; fractional values and overflow are not.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	if i, err := strconv.ParseInt(v.s, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// Float64 returns the number as a float64.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// AsObject returns the object payload. The map is shared with v.
func (v Value) AsObject() (Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// AsArray returns the array payload. The slice is shared with v.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindObject:
		return Value{kind: KindObject, obj: v.obj.Clone()}
	case KindArray:
		items := make([]Value, len(v.arr))
		for i, it := range v.arr {
			items[i] = it.Clone()
		}
		return Value{kind: KindArray, arr: items}
	default:
		return v
	}
}

// Equal reports deep equality. Numbers compare by value, so "1" equals
// "1.0"; object key order is irrelevant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindNumber:
		if v.s == o.s {
			return true
		}
		a, aok := v.Float64()
		b, bok := o.Float64()
		return aok && bok && a == b
	case KindObject:
		return v.obj.Equal(o.obj)
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders v as compact JSON. It is meant for messages and logs.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<" + v.kind.String() + ">"
	}
	return string(b)
}

// Get returns the value at key and whether the key is present.
func (o Object) Get(key string) (Value, bool) {
	v, ok := o[key]
	return v, ok
}

// Has reports whether key is present (null counts as present).
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Keys returns the keys in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of o. A nil Object clones to an empty one.
func (o Object) Clone() Object {
	out := make(Object, len(o))
	for k, v := range o {
		out[k] = v.Clone()
	}
	return out
}

// Equal reports deep equality between two objects.
func (o Object) Equal(p Object) bool {
	if len(o) != len(p) {
		return false
	}
	for k, v := range o {
		w, ok := p[k]
		if !ok || !v.Equal(w) {
			return false
		}
	}
	return true
}

// isNumberLiteral checks the JSON number grammar.
func isNumberLiteral(s string) bool {
	i, n := 0, len(s)
	if n == 0 {
		return false
	}
	if s[i] == '-' {
		i++
		if i == n {
			return false
		}
	}
	switch {
	case s[i] == '0':
		i++
	case s[i] >= '1' && s[i] <= '9':
		for i < n && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < n && s[i] == '.' {
		i++
		start := i
		for i < n && isDigit(s[i]) {
			i++
		}
		if i == start {
			return false
		}
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		start := i
		for i < n && isDigit(s[i]) {
			i++
		}
		if i == start {
			return false
		}
	}
	return i == n
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
