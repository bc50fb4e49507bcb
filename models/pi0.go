package models

import (
	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/value"
)

// PI0Config configures the pi0 flow-matching policy.
type PI0Config struct {
	NObsSteps    int
	ChunkSize    int
	NActionSteps int

	InputFeatures  value.Object
	OutputFeatures value.Object

	MaxStateDim  int
	MaxActionDim int

	ResizeImgsWithPadding []int
	EmptyCameras          int
	AdaptToPiAloha        bool

	TokenizerMaxLength      int
	ProjWidth               int
	NumSteps                int
	UseCache                bool
	AttentionImplementation string

	FreezeVisionEncoder bool
	TrainExpertOnly     bool
	TrainStateProj      bool

	OptimizerLR float64
}

var _ modelcfg.Schema = (*PI0Config)(nil)

// NewPI0Config returns a config holding the default for every field.
func NewPI0Config() *PI0Config {
	return &PI0Config{
		NObsSteps:               1,
		ChunkSize:               50,
		NActionSteps:            50,
		InputFeatures:           value.Object{},
		OutputFeatures:          value.Object{},
		MaxStateDim:             32,
		MaxActionDim:            32,
		ResizeImgsWithPadding:   []int{224, 224},
		TokenizerMaxLength:      48,
		ProjWidth:               1024,
		NumSteps:                10,
		UseCache:                true,
		AttentionImplementation: "eager",
		FreezeVisionEncoder:     true,
		TrainStateProj:          true,
		OptimizerLR:             2.5e-5,
	}
}

// PI0FromPayload is the Constructor for DiscriminatorPI0. chunk_size and
// n_action_steps are required.
func PI0FromPayload(p value.Object) (modelcfg.Schema, error) {
	c := NewPI0Config()
	r := modelcfg.NewFieldReader(p)
	r.Int("n_obs_steps", &c.NObsSteps, modelcfg.Optional)
	r.Int("chunk_size", &c.ChunkSize, modelcfg.Required)
	r.Int("n_action_steps", &c.NActionSteps, modelcfg.Required)
	r.Object("input_features", &c.InputFeatures, modelcfg.Optional)
	r.Object("output_features", &c.OutputFeatures, modelcfg.Optional)
	r.Int("max_state_dim", &c.MaxStateDim, modelcfg.Optional)
	r.Int("max_action_dim", &c.MaxActionDim, modelcfg.Optional)
	r.Ints("resize_imgs_with_padding", &c.ResizeImgsWithPadding, modelcfg.Nullable)
	r.Int("empty_cameras", &c.EmptyCameras, modelcfg.Optional)
	r.Bool("adapt_to_pi_aloha", &c.AdaptToPiAloha, modelcfg.Optional)
	r.Int("tokenizer_max_length", &c.TokenizerMaxLength, modelcfg.Optional)
	r.Int("proj_width", &c.ProjWidth, modelcfg.Optional)
	r.Int("num_steps", &c.NumSteps, modelcfg.Optional)
	r.Bool("use_cache", &c.UseCache, modelcfg.Optional)
	r.String("attention_implementation", &c.AttentionImplementation, modelcfg.Optional)
	r.Bool("freeze_vision_encoder", &c.FreezeVisionEncoder, modelcfg.Optional)
	r.Bool("train_expert_only", &c.TrainExpertOnly, modelcfg.Optional)
	r.Bool("train_state_proj", &c.TrainStateProj, modelcfg.Optional)
	r.Float("optimizer_lr", &c.OptimizerLR, modelcfg.Optional)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *PI0Config) ModelType() string { return DiscriminatorPI0 }

func (c *PI0Config) Fields() value.Object {
	return value.Object{
		"n_obs_steps":              value.Int(int64(c.NObsSteps)),
		"chunk_size":               value.Int(int64(c.ChunkSize)),
		"n_action_steps":           value.Int(int64(c.NActionSteps)),
		"input_features":           value.ObjectOf(c.InputFeatures.Clone()),
		"output_features":          value.ObjectOf(c.OutputFeatures.Clone()),
		"max_state_dim":            value.Int(int64(c.MaxStateDim)),
		"max_action_dim":           value.Int(int64(c.MaxActionDim)),
		"resize_imgs_with_padding": value.Ints(c.ResizeImgsWithPadding),
		"empty_cameras":            value.Int(int64(c.EmptyCameras)),
		"adapt_to_pi_aloha":        value.Bool(c.AdaptToPiAloha),
		"tokenizer_max_length":     value.Int(int64(c.TokenizerMaxLength)),
		"proj_width":               value.Int(int64(c.ProjWidth)),
		"num_steps":                value.Int(int64(c.NumSteps)),
		"use_cache":                value.Bool(c.UseCache),
		"attention_implementation": value.String(c.AttentionImplementation),
		"freeze_vision_encoder":    value.Bool(c.FreezeVisionEncoder),
		"train_expert_only":        value.Bool(c.TrainExpertOnly),
		"train_state_proj":         value.Bool(c.TrainStateProj),
		"optimizer_lr":             value.Float(c.OptimizerLR),
	}
}
