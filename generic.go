package modelcfg

import "github.com/reoring/modelcfg/value"

// PretrainedConfig is the generic variant used when a discriminator matches
// neither the registry nor the fallback list. It owns every key of the
// payload it was built from, the discriminator included, and keeps them
// unchanged.
type PretrainedConfig struct {
	modelType string
	fields    value.Object
}

// NewPretrainedConfig builds the generic variant from a payload. It accepts
// any field shape and never fails.
func NewPretrainedConfig(payload value.Object) *PretrainedConfig {
	return &PretrainedConfig{modelType: DiscriminatorOf(payload), fields: payload.Clone()}
}

func (c *PretrainedConfig) ModelType() string { return c.modelType }

// Fields returns a deep copy of the stored payload.
func (c *PretrainedConfig) Fields() value.Object { return c.fields.Clone() }

// Get returns a single stored field.
func (c *PretrainedConfig) Get(key string) (value.Value, bool) {
	v, ok := c.fields[key]
	if !ok {
		return value.Value{}, false
	}
	return v.Clone(), true
}
