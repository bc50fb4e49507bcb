package modelcfg

import (
	"errors"
	"fmt"

	"github.com/reoring/modelcfg/value"
)

// Codec decodes and encodes the polymorphic model config field.
//
// Resolution order, first match wins:
//
//  1. exact registry hit
//  2. first fallback whose discriminator equals the payload's
//  3. PretrainedConfig built from the raw payload
//
// A constructor failure at step 1 or 2 is returned as-is; it never falls
// through to a later step. A Codec is immutable and safe for concurrent use.
type Codec struct {
	reg       *Registry
	fallbacks []Fallback
}

// NewCodec seals reg and returns a codec over it and the given fallbacks.
// The fallback slice is copied; a nil reg behaves like an empty registry.
func NewCodec(reg *Registry, fallbacks ...Fallback) *Codec {
	if reg == nil {
		reg = NewRegistry()
	}
	reg.Seal()
	fb := make([]Fallback, 0, len(fallbacks))
	for _, f := range fallbacks {
		if f.New == nil {
			continue
		}
		fb = append(fb, f)
	}
	return &Codec{reg: reg, fallbacks: fb}
}

// Registry returns the sealed registry backing the codec.
func (c *Codec) Registry() *Registry { return c.reg }

// Fallbacks returns a copy of the ordered fallback list.
func (c *Codec) Fallbacks() []Fallback { return append([]Fallback(nil), c.fallbacks...) }

// Decode turns a raw field value into a Schema.
//
// raw may be nil, value.Null(), a Schema (returned unchanged), a
// value.Object, an object-kind value.Value, or a map[string]any tree. Any
// other shape fails with *InvalidPayloadShapeError. A nil Schema with a nil
// error means the field was absent.
func (c *Codec) Decode(raw any) (Schema, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case Schema:
		return t, nil
	case value.Object:
		s, _, err := c.Resolve(t)
		return s, err
	case value.Value:
		return c.DecodeValue(t)
	case map[string]any:
		v, err := value.FromAny(t)
		if err != nil {
			var ute *value.UnsupportedTypeError
			if errors.As(err, &ute) {
				return nil, &InvalidPayloadShapeError{Got: ute.Type, Path: ute.Path}
			}
			return nil, &InvalidPayloadShapeError{Got: err.Error()}
		}
		return c.DecodeValue(v)
	}
	return nil, &InvalidPayloadShapeError{Got: fmt.Sprintf("%T", raw)}
}

// DecodeValue is Decode for an already parsed value.
func (c *Codec) DecodeValue(v value.Value) (Schema, error) {
	switch v.Kind() {
	case value.KindNull:
		return nil, nil
	case value.KindObject:
		obj, _ := v.AsObject()
		s, _, err := c.Resolve(obj)
		return s, err
	}
	return nil, &InvalidPayloadShapeError{Got: v.Kind().String()}
}

// Resolve runs the three-tier lookup on a payload and reports which tier
// produced the result.
func (c *Codec) Resolve(payload value.Object) (Schema, Tier, error) {
	d := DiscriminatorOf(payload)
	if ctor, ok := c.reg.Lookup(d); ok {
		s, err := construct(d, ctor, payload)
		if err != nil {
			return nil, TierRegistry, err
		}
		return s, TierRegistry, nil
	}
	for _, f := range c.fallbacks {
		if f.Discriminator != d {
			continue
		}
		s, err := construct(d, f.New, payload)
		if err != nil {
			return nil, TierFallback, err
		}
		return s, TierFallback, nil
	}
	return NewPretrainedConfig(payload), TierGeneric, nil
}

func construct(d string, ctor Constructor, payload value.Object) (Schema, error) {
	s, err := ctor(payload)
	if err != nil {
		return nil, constructionError(d, err)
	}
	if s == nil {
		return nil, constructionError(d, fmt.Errorf("constructor for %q returned no schema", d))
	}
	return s, nil
}

// Encode projects s into a payload. A nil Schema encodes to null. Encode
// never fails.
func (c *Codec) Encode(s Schema) value.Value {
	if s == nil {
		return value.Null()
	}
	return value.ObjectOf(s.Fields())
}

// EncodeTagged is Encode with the discriminator re-embedded, so the output
// decodes back to the same variant. An empty discriminator is not embedded.
func (c *Codec) EncodeTagged(s Schema) value.Value {
	if s == nil {
		return value.Null()
	}
	obj := s.Fields()
	if obj == nil {
		obj = value.Object{}
	}
	if _, ok := obj[DiscriminatorKey]; !ok && s.ModelType() != "" {
		obj[DiscriminatorKey] = value.String(s.ModelType())
	}
	return value.ObjectOf(obj)
}
