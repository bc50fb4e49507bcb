// Package models holds the concrete model configuration variants and the
// default registry and fallback list that resolve them.
package models

import (
	"sync"

	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/value"
)

// Discriminators of the built-in variants. Matching is case-sensitive.
const (
	DiscriminatorLlama        = "llama"
	DiscriminatorSiglipVision = "siglip_vision_model"
	DiscriminatorDiffusion    = "DP"
	DiscriminatorPI0          = "pi0"
	DiscriminatorRADIO        = "radio"
	DiscriminatorEagle2Chat   = "eagle2_chat"
)

// NewRegistry returns an unsealed registry holding the registry-tier
// variants. Callers may register more before handing it to NewCodec.
func NewRegistry(opts ...modelcfg.RegistryOption) *modelcfg.Registry {
	r := modelcfg.NewRegistry(opts...)
	r.MustRegister(DiscriminatorLlama, LlamaFromPayload)
	r.MustRegister(DiscriminatorSiglipVision, SiglipVisionFromPayload)
	return r
}

// Fallbacks returns the legacy discriminators, in resolution order. Each
// call returns a new slice.
func Fallbacks() []modelcfg.Fallback {
	return append(backboneFallbacks(),
		modelcfg.Fallback{Discriminator: DiscriminatorEagle2Chat, New: Eagle2ChatFromPayload},
	)
}

func backboneFallbacks() []modelcfg.Fallback {
	return []modelcfg.Fallback{
		{Discriminator: DiscriminatorDiffusion, New: DiffusionFromPayload},
		{Discriminator: DiscriminatorPI0, New: PI0FromPayload},
		{Discriminator: DiscriminatorRADIO, New: RADIOFromPayload},
	}
}

// DefaultCodec returns the process-wide codec over NewRegistry and
// Fallbacks.
var DefaultCodec = sync.OnceValue(func() *modelcfg.Codec {
	return modelcfg.NewCodec(NewRegistry(), Fallbacks()...)
})

// backboneCodec resolves the nested configs of eagle2_chat. It cannot
// resolve eagle2_chat itself, which keeps nesting finite.
var backboneCodec = sync.OnceValue(func() *modelcfg.Codec {
	return modelcfg.NewCodec(NewRegistry(), backboneFallbacks()...)
})

// Eagle2ChatFromPayload is the Constructor for DiscriminatorEagle2Chat using
// the built-in backbone variants for its nested configs.
func Eagle2ChatFromPayload(p value.Object) (modelcfg.Schema, error) {
	return Eagle2ChatConstructor(backboneCodec())(p)
}
