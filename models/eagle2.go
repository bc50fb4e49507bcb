package models

import (
	"strings"

	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/value"
)

// Eagle2ChatConfig configures the Eagle2 vision-language backbone. Its
// vision_config and llm_config are themselves polymorphic model configs and
// are resolved through a codec of their own.
type Eagle2ChatConfig struct {
	VisionConfig modelcfg.Schema
	LLMConfig    modelcfg.Schema

	UseBackboneLora  int
	UseLLMLora       int
	SelectLayer      int
	ForceImageSize   int
	DownsampleRatio  float64
	Template         string
	DynamicImageSize bool
	UseThumbnail     bool
	MinDynamicPatch  int
	MaxDynamicPatch  int
	MLPCheckpoint    bool
	PSVersion        string

	// codec re-encodes the nested configs.
	codec *modelcfg.Codec
}

var _ modelcfg.Schema = (*Eagle2ChatConfig)(nil)

func newEagle2ChatConfig(c *modelcfg.Codec) *Eagle2ChatConfig {
	return &Eagle2ChatConfig{
		SelectLayer:     -1,
		ForceImageSize:  448,
		DownsampleRatio: 0.5,
		MinDynamicPatch: 1,
		MaxDynamicPatch: 6,
		MLPCheckpoint:   true,
		PSVersion:       "v2",
		codec:           c,
	}
}

// Eagle2ChatConstructor returns a Constructor that resolves the nested
// vision_config and llm_config through nested.
func Eagle2ChatConstructor(nested *modelcfg.Codec) modelcfg.Constructor {
	return func(p value.Object) (modelcfg.Schema, error) {
		c := newEagle2ChatConfig(nested)
		var vision, llm value.Object
		r := modelcfg.NewFieldReader(p)
		r.Object("vision_config", &vision, modelcfg.Required)
		r.Object("llm_config", &llm, modelcfg.Required)
		r.Int("use_backbone_lora", &c.UseBackboneLora, modelcfg.Optional)
		r.Int("use_llm_lora", &c.UseLLMLora, modelcfg.Optional)
		r.Int("select_layer", &c.SelectLayer, modelcfg.Optional)
		r.Int("force_image_size", &c.ForceImageSize, modelcfg.Optional)
		r.Float("downsample_ratio", &c.DownsampleRatio, modelcfg.Optional)
		r.String("template", &c.Template, modelcfg.Optional)
		r.Bool("dynamic_image_size", &c.DynamicImageSize, modelcfg.Optional)
		r.Bool("use_thumbnail", &c.UseThumbnail, modelcfg.Optional)
		r.Int("min_dynamic_patch", &c.MinDynamicPatch, modelcfg.Optional)
		r.Int("max_dynamic_patch", &c.MaxDynamicPatch, modelcfg.Optional)
		r.Bool("mlp_checkpoint", &c.MLPCheckpoint, modelcfg.Optional)
		r.String("ps_version", &c.PSVersion, modelcfg.Optional)
		iss := r.Issues()
		if vision != nil {
			s, err := nested.Decode(vision)
			iss = appendNested(iss, "vision_config", err)
			c.VisionConfig = s
		}
		if llm != nil {
			s, err := nested.Decode(llm)
			iss = appendNested(iss, "llm_config", err)
			c.LLMConfig = s
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return c, nil
	}
}

// appendNested re-roots the issues of a nested construction failure under key.
func appendNested(dst modelcfg.Issues, key string, err error) modelcfg.Issues {
	if err == nil {
		return dst
	}
	iss, ok := modelcfg.AsIssues(err)
	if !ok {
		return modelcfg.AppendIssues(dst, modelcfg.Issue{
			Path: "/" + value.EscapePointer(key), Code: modelcfg.CodeInvalidType, Message: err.Error(), Cause: err,
		})
	}
	prefix := "/" + value.EscapePointer(key)
	for _, it := range iss {
		it.Path = prefix + strings.TrimSuffix(it.Path, "/")
		dst = modelcfg.AppendIssues(dst, it)
	}
	return dst
}

func (c *Eagle2ChatConfig) ModelType() string { return DiscriminatorEagle2Chat }

// Fields re-embeds the nested discriminators so vision_config and
// llm_config decode back to the same variants.
func (c *Eagle2ChatConfig) Fields() value.Object {
	return value.Object{
		"vision_config":      c.codec.EncodeTagged(c.VisionConfig),
		"llm_config":         c.codec.EncodeTagged(c.LLMConfig),
		"use_backbone_lora":  value.Int(int64(c.UseBackboneLora)),
		"use_llm_lora":       value.Int(int64(c.UseLLMLora)),
		"select_layer":       value.Int(int64(c.SelectLayer)),
		"force_image_size":   value.Int(int64(c.ForceImageSize)),
		"downsample_ratio":   value.Float(c.DownsampleRatio),
		"template":           value.String(c.Template),
		"dynamic_image_size": value.Bool(c.DynamicImageSize),
		"use_thumbnail":      value.Bool(c.UseThumbnail),
		"min_dynamic_patch":  value.Int(int64(c.MinDynamicPatch)),
		"max_dynamic_patch":  value.Int(int64(c.MaxDynamicPatch)),
		"mlp_checkpoint":     value.Bool(c.MLPCheckpoint),
		"ps_version":         value.String(c.PSVersion),
	}
}
