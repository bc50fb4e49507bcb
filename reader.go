package modelcfg

import (
	"math"

	"github.com/reoring/modelcfg/value"
)

// Need tells FieldReader how to treat a missing or null field.
type Need uint8

const (
	// Optional keeps the default when the key is missing. Null is a type error.
	Optional Need = iota
	// Required reports a missing or null key.
	Required
	// Nullable keeps the default when the key is missing and stores nil on an
	// explicit null. It applies to the Strings, Ints and Object readers; the
	// scalar readers treat it like Optional.
	Nullable
)

// FieldReader overlays typed payload fields onto a variant's defaults and
// collects Issues for missing or mistyped fields. A missing optional field
// leaves the destination untouched. Unknown keys are ignored.
//
//	r := modelcfg.NewFieldReader(payload)
//	r.Int("horizon", &c.Horizon, modelcfg.Required)
//	r.String("vision_backbone", &c.VisionBackbone, modelcfg.Optional)
//	if err := r.Err(); err != nil { return nil, err }
type FieldReader struct {
	obj    value.Object
	issues Issues
}

// NewFieldReader reads from obj. obj is never modified.
func NewFieldReader(obj value.Object) *FieldReader { return &FieldReader{obj: obj} }

// Err returns the collected Issues, or nil when every field was readable.
func (r *FieldReader) Err() error {
	if len(r.issues) == 0 {
		return nil
	}
	return r.issues
}

// Issues returns the collected issues.
func (r *FieldReader) Issues() Issues { return r.issues }

func (r *FieldReader) lookup(key string, need Need) (value.Value, bool) {
	v, ok := r.obj[key]
	if !ok || (v.IsNull() && need == Required) {
		if need == Required {
			r.issues = AppendIssues(r.issues, IssueAt(key, CodeRequired, nil))
		}
		return value.Value{}, false
	}
	return v, true
}

// null reports whether v is an explicit null the caller may store as nil.
func null(v value.Value, need Need) bool { return need == Nullable && v.IsNull() }

func (r *FieldReader) mistyped(key, expected string, got value.Value) {
	it := IssueAt(key, CodeInvalidType, map[string]string{"expected": expected, "got": got.Kind().String()})
	it.Hint = "expected " + expected
	r.issues = AppendIssues(r.issues, it)
}

// String reads a string field.
func (r *FieldReader) String(key string, dst *string, need Need) {
	v, ok := r.lookup(key, need)
	if !ok {
		return
	}
	s, ok := v.AsString()
	if !ok {
		r.mistyped(key, "string", v)
		return
	}
	*dst = s
}

// Bool reads a boolean field.
func (r *FieldReader) Bool(key string, dst *bool, need Need) {
	v, ok := r.lookup(key, need)
	if !ok {
		return
	}
	b, ok := v.AsBool()
	if !ok {
		r.mistyped(key, "bool", v)
		return
	}
	*dst = b
}

// Int reads an integer field. Integral numbers written as floats ("3.0")
// are accepted.
func (r *FieldReader) Int(key string, dst *int, need Need) {
	v, ok := r.lookup(key, need)
	if !ok {
		return
	}
	n, ok := toInt(v)
	if !ok {
		if v.Kind() == value.KindNumber {
			r.issues = AppendIssues(r.issues, IssueAt(key, CodeOutOfRange, map[string]string{"expected": "integer"}))
			return
		}
		r.mistyped(key, "integer", v)
		return
	}
	*dst = n
}

// Float reads a numeric field.
func (r *FieldReader) Float(key string, dst *float64, need Need) {
	v, ok := r.lookup(key, need)
	if !ok {
		return
	}
	f, ok := v.Float64()
	if !ok {
		if v.Kind() == value.KindNumber {
			r.issues = AppendIssues(r.issues, IssueAt(key, CodeOutOfRange, map[string]string{"expected": "finite number"}))
			return
		}
		r.mistyped(key, "number", v)
		return
	}
	*dst = f
}

// Strings reads an array of strings. The destination receives a fresh slice,
// or nil for a Nullable null.
func (r *FieldReader) Strings(key string, dst *[]string, need Need) {
	v, ok := r.lookup(key, need)
	if !ok {
		return
	}
	if null(v, need) {
		*dst = nil
		return
	}
	items, ok := v.AsArray()
	if !ok {
		r.mistyped(key, "array", v)
		return
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.AsString()
		if !ok {
			r.mistyped(key, "array of strings", it)
			return
		}
		out = append(out, s)
	}
	*dst = out
}

// Ints reads an array of integers. The destination receives a fresh slice,
// or nil for a Nullable null.
func (r *FieldReader) Ints(key string, dst *[]int, need Need) {
	v, ok := r.lookup(key, need)
	if !ok {
		return
	}
	if null(v, need) {
		*dst = nil
		return
	}
	items, ok := v.AsArray()
	if !ok {
		r.mistyped(key, "array", v)
		return
	}
	out := make([]int, 0, len(items))
	for _, it := range items {
		n, ok := toInt(it)
		if !ok {
			r.mistyped(key, "array of integers", it)
			return
		}
		out = append(out, n)
	}
	*dst = out
}

// Object reads a nested object. The destination receives a deep copy so the
// constructed schema never aliases the payload.
func (r *FieldReader) Object(key string, dst *value.Object, need Need) {
	v, ok := r.lookup(key, need)
	if !ok {
		return
	}
	if null(v, need) {
		*dst = nil
		return
	}
	o, ok := v.AsObject()
	if !ok {
		r.mistyped(key, "object", v)
		return
	}
	*dst = o.Clone()
}

func toInt(v value.Value) (int, bool) {
	n, ok := v.Int64()
	if !ok || n > math.MaxInt || n < math.MinInt {
		return 0, false
	}
	return int(n), true
}
