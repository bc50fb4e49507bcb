// Package modelcfg decodes and encodes a polymorphic model configuration
// field whose concrete schema is chosen by a discriminator ("model_type")
// carried inside the payload.
//
// The package provides:
//
// - Registry: discriminator → Constructor, sealed before first use
// - Codec: three-tier resolution (registry, ordered fallbacks, generic)
// - FieldReader: typed field access for constructors, collecting Issues
// - A stable error model via Issues (JSON Pointer, code, message)
//
// Concrete variants live under models/, input parsers under source/, and the
// agent configuration that embeds the field under agent/.
//
// Typical usage:
//
//	reg := modelcfg.NewRegistry()
//	reg.MustRegister("llama", models.LlamaFromPayload)
//	c := modelcfg.NewCodec(reg, models.Fallbacks()...)
//
//	s, err := c.Decode(payload)
//	wire := c.Encode(s)
package modelcfg
