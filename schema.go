package modelcfg

import "github.com/reoring/modelcfg/value"

// DiscriminatorKey is the payload key that names the concrete schema.
const DiscriminatorKey = "model_type"

// Schema is a fully constructed model configuration variant.
type Schema interface {
	// ModelType returns the discriminator this variant answers to.
	ModelType() string
	// Fields projects every field the variant owns into a fresh Object.
	// The discriminator is not part of the projection unless the variant
	// owns it.
	Fields() value.Object
}

// Constructor builds a Schema from a payload. The payload includes the
// discriminator key, which constructors ignore. On failure a Constructor
// returns a nil Schema and an error (usually Issues from a FieldReader).
type Constructor func(payload value.Object) (Schema, error)

// Fallback binds a legacy discriminator to its constructor. Fallbacks are
// consulted in order after a registry miss.
type Fallback struct {
	Discriminator string
	New           Constructor
}

// Tier names the resolution step that produced a Schema.
type Tier int

const (
	TierNone     Tier = iota // absent value or passthrough
	TierRegistry             // exact registry hit
	TierFallback             // legacy fallback list
	TierGeneric              // generic escape hatch
)

func (t Tier) String() string {
	switch t {
	case TierRegistry:
		return "registry"
	case TierFallback:
		return "fallback"
	case TierGeneric:
		return "generic"
	default:
		return "none"
	}
}

// DiscriminatorOf extracts the discriminator from a payload. Absent and
// non-string values yield "".
func DiscriminatorOf(payload value.Object) string {
	s, _ := payload[DiscriminatorKey].AsString()
	return s
}

// DroppedFields lists the payload keys that s does not own, excluding the
// discriminator. The result is sorted. These are the keys a decode/encode
// cycle through s loses.
func DroppedFields(payload value.Object, s Schema) []string {
	if s == nil {
		return nil
	}
	owned := s.Fields()
	var out []string
	for _, k := range payload.Keys() {
		if k == DiscriminatorKey {
			continue
		}
		if _, ok := owned[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
