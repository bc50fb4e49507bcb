package models

import (
	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/value"
)

// LlamaConfig configures a Llama-family language model.
type LlamaConfig struct {
	VocabSize             int
	HiddenSize            int
	IntermediateSize      int
	NumHiddenLayers       int
	NumAttentionHeads     int
	NumKeyValueHeads      int
	HiddenAct             string
	MaxPositionEmbeddings int
	RMSNormEps            float64
	RopeTheta             float64
	TieWordEmbeddings     bool
	Architectures         []string
}

var _ modelcfg.Schema = (*LlamaConfig)(nil)

func NewLlamaConfig() *LlamaConfig {
	return &LlamaConfig{
		VocabSize:             32000,
		HiddenSize:            4096,
		IntermediateSize:      11008,
		NumHiddenLayers:       32,
		NumAttentionHeads:     32,
		NumKeyValueHeads:      32,
		HiddenAct:             "silu",
		MaxPositionEmbeddings: 2048,
		RMSNormEps:            1e-6,
		RopeTheta:             10000,
		Architectures:         []string{},
	}
}

// LlamaFromPayload is the Constructor for DiscriminatorLlama. hidden_size
// and num_hidden_layers are required.
func LlamaFromPayload(p value.Object) (modelcfg.Schema, error) {
	c := NewLlamaConfig()
	r := modelcfg.NewFieldReader(p)
	r.Int("vocab_size", &c.VocabSize, modelcfg.Optional)
	r.Int("hidden_size", &c.HiddenSize, modelcfg.Required)
	r.Int("intermediate_size", &c.IntermediateSize, modelcfg.Optional)
	r.Int("num_hidden_layers", &c.NumHiddenLayers, modelcfg.Required)
	r.Int("num_attention_heads", &c.NumAttentionHeads, modelcfg.Optional)
	// num_key_value_heads defaults to num_attention_heads when unset
	c.NumKeyValueHeads = c.NumAttentionHeads
	r.Int("num_key_value_heads", &c.NumKeyValueHeads, modelcfg.Optional)
	r.String("hidden_act", &c.HiddenAct, modelcfg.Optional)
	r.Int("max_position_embeddings", &c.MaxPositionEmbeddings, modelcfg.Optional)
	r.Float("rms_norm_eps", &c.RMSNormEps, modelcfg.Optional)
	r.Float("rope_theta", &c.RopeTheta, modelcfg.Optional)
	r.Bool("tie_word_embeddings", &c.TieWordEmbeddings, modelcfg.Optional)
	r.Strings("architectures", &c.Architectures, modelcfg.Nullable)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *LlamaConfig) ModelType() string { return DiscriminatorLlama }

func (c *LlamaConfig) Fields() value.Object {
	return value.Object{
		"vocab_size":              value.Int(int64(c.VocabSize)),
		"hidden_size":             value.Int(int64(c.HiddenSize)),
		"intermediate_size":       value.Int(int64(c.IntermediateSize)),
		"num_hidden_layers":       value.Int(int64(c.NumHiddenLayers)),
		"num_attention_heads":     value.Int(int64(c.NumAttentionHeads)),
		"num_key_value_heads":     value.Int(int64(c.NumKeyValueHeads)),
		"hidden_act":              value.String(c.HiddenAct),
		"max_position_embeddings": value.Int(int64(c.MaxPositionEmbeddings)),
		"rms_norm_eps":            value.Float(c.RMSNormEps),
		"rope_theta":              value.Float(c.RopeTheta),
		"tie_word_embeddings":     value.Bool(c.TieWordEmbeddings),
		"architectures":           value.Strings(c.Architectures),
	}
}
