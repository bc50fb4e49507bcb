package models

import (
	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/value"
)

// SiglipVisionConfig configures a SigLIP vision tower.
type SiglipVisionConfig struct {
	HiddenSize        int
	IntermediateSize  int
	NumHiddenLayers   int
	NumAttentionHeads int
	NumChannels       int
	ImageSize         int
	PatchSize         int
	HiddenAct         string
	LayerNormEps      float64
	AttentionDropout  float64
}

var _ modelcfg.Schema = (*SiglipVisionConfig)(nil)

func NewSiglipVisionConfig() *SiglipVisionConfig {
	return &SiglipVisionConfig{
		HiddenSize:        768,
		IntermediateSize:  3072,
		NumHiddenLayers:   12,
		NumAttentionHeads: 12,
		NumChannels:       3,
		ImageSize:         224,
		PatchSize:         16,
		HiddenAct:         "gelu_pytorch_tanh",
		LayerNormEps:      1e-6,
	}
}

// SiglipVisionFromPayload is the Constructor for DiscriminatorSiglipVision.
func SiglipVisionFromPayload(p value.Object) (modelcfg.Schema, error) {
	c := NewSiglipVisionConfig()
	r := modelcfg.NewFieldReader(p)
	r.Int("hidden_size", &c.HiddenSize, modelcfg.Required)
	r.Int("intermediate_size", &c.IntermediateSize, modelcfg.Optional)
	r.Int("num_hidden_layers", &c.NumHiddenLayers, modelcfg.Optional)
	r.Int("num_attention_heads", &c.NumAttentionHeads, modelcfg.Optional)
	r.Int("num_channels", &c.NumChannels, modelcfg.Optional)
	r.Int("image_size", &c.ImageSize, modelcfg.Optional)
	r.Int("patch_size", &c.PatchSize, modelcfg.Required)
	r.String("hidden_act", &c.HiddenAct, modelcfg.Optional)
	r.Float("layer_norm_eps", &c.LayerNormEps, modelcfg.Optional)
	r.Float("attention_dropout", &c.AttentionDropout, modelcfg.Optional)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *SiglipVisionConfig) ModelType() string { return DiscriminatorSiglipVision }

func (c *SiglipVisionConfig) Fields() value.Object {
	return value.Object{
		"hidden_size":         value.Int(int64(c.HiddenSize)),
		"intermediate_size":   value.Int(int64(c.IntermediateSize)),
		"num_hidden_layers":   value.Int(int64(c.NumHiddenLayers)),
		"num_attention_heads": value.Int(int64(c.NumAttentionHeads)),
		"num_channels":        value.Int(int64(c.NumChannels)),
		"image_size":          value.Int(int64(c.ImageSize)),
		"patch_size":          value.Int(int64(c.PatchSize)),
		"hidden_act":          value.String(c.HiddenAct),
		"layer_norm_eps":      value.Float(c.LayerNormEps),
		"attention_dropout":   value.Float(c.AttentionDropout),
	}
}
