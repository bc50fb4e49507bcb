package models

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/value"
)

var valueEqual = cmp.Comparer(func(a, b value.Value) bool { return a.Equal(b) })

func mustObject(t *testing.T, js string) value.Object {
	t.Helper()
	v, err := value.ParseJSON([]byte(js))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	obj, ok := v.AsObject()
	if !ok {
		t.Fatalf("not an object: %s", js)
	}
	return obj
}

func TestDefaultCodec_DiffusionExactFields(t *testing.T) {
	payload := mustObject(t, `{
		"model_type": "DP",
		"horizon": 32,
		"n_action_steps": 16,
		"crop_shape": [96, 96],
		"beta_end": 0.03,
		"vision_backbone": "resnet34",
		"input_features": {"observation.state": {"shape": [14]}}
	}`)
	s, tier, err := DefaultCodec().Resolve(payload)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tier != modelcfg.TierFallback {
		t.Fatalf("tier = %s", tier)
	}
	want := NewDiffusionConfig()
	want.Horizon = 32
	want.NActionSteps = 16
	want.CropShape = []int{96, 96}
	want.BetaEnd = 0.03
	want.VisionBackbone = "resnet34"
	want.InputFeatures = value.Object{"observation.state": value.ObjectOf(value.Object{"shape": value.Ints([]int{14})})}
	if diff := cmp.Diff(want, s, valueEqual); diff != "" {
		t.Fatalf("diffusion mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultCodec_PI0ExactFields(t *testing.T) {
	payload := mustObject(t, `{"model_type":"pi0","chunk_size":10,"n_action_steps":5,"use_cache":false,"resize_imgs_with_padding":[256,256]}`)
	s, err := DefaultCodec().Decode(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := NewPI0Config()
	want.ChunkSize = 10
	want.NActionSteps = 5
	want.UseCache = false
	want.ResizeImgsWithPadding = []int{256, 256}
	if diff := cmp.Diff(want, s, valueEqual); diff != "" {
		t.Fatalf("pi0 mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultCodec_UnknownKeepsFields(t *testing.T) {
	payload := mustObject(t, `{"model_type":"unknown_xyz","a":1,"b":{"c":[true,null]},"d":"x"}`)
	s, tier, err := DefaultCodec().Resolve(payload)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tier != modelcfg.TierGeneric {
		t.Fatalf("tier = %s", tier)
	}
	if diff := cmp.Diff(payload, s.Fields(), valueEqual); diff != "" {
		t.Fatalf("generic fields changed (-want +got):\n%s", diff)
	}
}

func TestDefaultCodec_RegistryVariants(t *testing.T) {
	cases := []struct {
		name string
		js   string
		want modelcfg.Schema
	}{
		{
			name: "llama",
			js:   `{"model_type":"llama","hidden_size":2048,"num_hidden_layers":16,"num_attention_heads":16,"architectures":["LlamaForCausalLM"]}`,
			want: func() modelcfg.Schema {
				c := NewLlamaConfig()
				c.HiddenSize, c.NumHiddenLayers, c.NumAttentionHeads, c.NumKeyValueHeads = 2048, 16, 16, 16
				c.Architectures = []string{"LlamaForCausalLM"}
				return c
			}(),
		},
		{
			name: "siglip",
			js:   `{"model_type":"siglip_vision_model","hidden_size":1152,"patch_size":14,"image_size":448}`,
			want: func() modelcfg.Schema {
				c := NewSiglipVisionConfig()
				c.HiddenSize, c.PatchSize, c.ImageSize = 1152, 14, 448
				return c
			}(),
		},
		{
			name: "radio",
			js:   `{"model_type":"radio","version":"radio_v2.5-h","adaptor_names":["clip"]}`,
			want: func() modelcfg.Schema {
				c := NewRADIOConfig()
				c.Version = "radio_v2.5-h"
				c.AdaptorNames = []string{"clip"}
				return c
			}(),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := DefaultCodec().Decode(mustObject(t, tc.js))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(tc.want, s, valueEqual); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVariants_RequiredFields(t *testing.T) {
	cases := []struct {
		js     string
		fields []string
	}{
		{`{"model_type":"DP"}`, []string{"horizon", "n_action_steps"}},
		{`{"model_type":"pi0","chunk_size":"50"}`, []string{"chunk_size", "n_action_steps"}},
		{`{"model_type":"llama","hidden_size":null,"num_hidden_layers":2}`, []string{"hidden_size"}},
		{`{"model_type":"radio","version":3}`, []string{"version"}},
		{`{"model_type":"siglip_vision_model","hidden_size":1.5,"patch_size":14}`, []string{"hidden_size"}},
	}
	for _, tc := range cases {
		s, err := DefaultCodec().Decode(mustObject(t, tc.js))
		if s != nil {
			t.Fatalf("%s: expected nil schema", tc.js)
		}
		var sce *modelcfg.SchemaConstructionError
		if !errors.As(err, &sce) {
			t.Fatalf("%s: expected *SchemaConstructionError, got %v", tc.js, err)
		}
		if diff := cmp.Diff(tc.fields, sce.Fields()); diff != "" {
			t.Fatalf("%s: fields (-want +got):\n%s", tc.js, diff)
		}
	}
}

func TestVariants_EncodeKeepsOwnedFields(t *testing.T) {
	payloads := []string{
		`{"model_type":"DP","horizon":8,"n_action_steps":4,"down_dims":[256,512],"optimizer_lr":0.0001,"unused":1}`,
		`{"model_type":"pi0","chunk_size":10,"n_action_steps":5,"proj_width":512}`,
		`{"model_type":"llama","hidden_size":64,"num_hidden_layers":2,"rope_theta":500000}`,
		`{"model_type":"DP","horizon":16,"n_action_steps":8,"crop_shape":null}`,
		`{"model_type":"pi0","chunk_size":10,"n_action_steps":5,"resize_imgs_with_padding":null}`,
		`{"model_type":"radio","version":"radio_v2.5-h","preferred_resolution":null,"adaptor_names":null}`,
		`{"model_type":"llama","hidden_size":64,"num_hidden_layers":2,"architectures":null}`,
	}
	for _, js := range payloads {
		payload := mustObject(t, js)
		s, err := DefaultCodec().Decode(payload)
		if err != nil {
			t.Fatalf("decode %s: %v", js, err)
		}
		enc := s.Fields()
		for k, v := range payload {
			if k == modelcfg.DiscriminatorKey {
				continue
			}
			got, owned := enc[k]
			if !owned {
				continue
			}
			if !got.Equal(v) {
				t.Fatalf("%s: field %s = %s, want %s", js, k, got, v)
			}
		}
	}
	dropped := modelcfg.DroppedFields(mustObject(t, payloads[0]), mustDecode(t, payloads[0]))
	if diff := cmp.Diff([]string{"unused"}, dropped); diff != "" {
		t.Fatalf("dropped (-want +got):\n%s", diff)
	}
}

func TestVariants_NullOwnedFields(t *testing.T) {
	s := mustDecode(t, `{"model_type":"DP","horizon":16,"n_action_steps":8,"crop_shape":null}`)
	dp := s.(*DiffusionConfig)
	if dp.CropShape != nil {
		t.Fatalf("crop_shape = %v, want nil", dp.CropShape)
	}
	if v := dp.Fields()["crop_shape"]; !v.IsNull() {
		t.Fatalf("crop_shape encoded as %s, want null", v)
	}

	_, err := DefaultCodec().Decode(mustObject(t,
		`{"model_type":"DP","horizon":16,"n_action_steps":8,"crop_shape":null,"kernel_size":null}`))
	var sce *modelcfg.SchemaConstructionError
	if !errors.As(err, &sce) {
		t.Fatalf("expected *SchemaConstructionError, got %v", err)
	}
	if len(sce.Issues) != 1 || sce.Issues[0].Path != "/kernel_size" || sce.Issues[0].Code != modelcfg.CodeInvalidType {
		t.Fatalf("issues = %v", sce.Issues)
	}
}

func mustDecode(t *testing.T, js string) modelcfg.Schema {
	t.Helper()
	s, err := DefaultCodec().Decode(mustObject(t, js))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return s
}

func TestVariants_DefaultsNotShared(t *testing.T) {
	js := `{"model_type":"DP","horizon":8,"n_action_steps":4}`
	a := mustDecode(t, js).(*DiffusionConfig)
	b := mustDecode(t, js).(*DiffusionConfig)
	a.CropShape[0] = 1
	a.DownDims = append(a.DownDims[:0], 7)
	a.InputFeatures["x"] = value.Bool(true)
	if b.CropShape[0] != 84 || b.DownDims[0] != 512 || len(b.InputFeatures) != 0 {
		t.Fatalf("defaults aliased between decodes: %+v", b)
	}
	if NewDiffusionConfig().CropShape[0] != 84 {
		t.Fatalf("constructor defaults mutated")
	}
}

func TestEagle2Chat_Nested(t *testing.T) {
	payload := mustObject(t, `{
		"model_type": "eagle2_chat",
		"vision_config": {"model_type": "siglip_vision_model", "hidden_size": 1152, "patch_size": 14},
		"llm_config": {"model_type": "qwen2", "hidden_size": 1536},
		"downsample_ratio": 0.25,
		"template": "qwen2-chat"
	}`)
	s, tier, err := DefaultCodec().Resolve(payload)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tier != modelcfg.TierFallback {
		t.Fatalf("tier = %s", tier)
	}
	c := s.(*Eagle2ChatConfig)
	if _, ok := c.VisionConfig.(*SiglipVisionConfig); !ok {
		t.Fatalf("vision_config: %T", c.VisionConfig)
	}
	llm, ok := c.LLMConfig.(*modelcfg.PretrainedConfig)
	if !ok || llm.ModelType() != "qwen2" {
		t.Fatalf("llm_config: %T", c.LLMConfig)
	}
	want := newEagle2ChatConfig(nil)
	want.VisionConfig = c.VisionConfig
	want.LLMConfig = c.LLMConfig
	want.DownsampleRatio = 0.25
	want.Template = "qwen2-chat"
	if diff := cmp.Diff(want, c, valueEqual, cmpopts.IgnoreUnexported(Eagle2ChatConfig{}, SiglipVisionConfig{}, modelcfg.PretrainedConfig{})); diff != "" {
		t.Fatalf("eagle mismatch (-want +got):\n%s", diff)
	}

	// Without the outer discriminator the projection is only generic.
	untagged, err := DefaultCodec().Decode(c.Fields())
	if err != nil {
		t.Fatalf("decode untagged: %v", err)
	}
	if _, ok := untagged.(*modelcfg.PretrainedConfig); !ok {
		t.Fatalf("untagged projection resolved to %T", untagged)
	}
	tagged, _ := DefaultCodec().EncodeTagged(c).AsObject()
	round, err := DefaultCodec().Decode(tagged)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if diff := cmp.Diff(c.Fields(), round.Fields(), valueEqual); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestEagle2Chat_NestedFailureIsRerooted(t *testing.T) {
	payload := mustObject(t, `{
		"model_type": "eagle2_chat",
		"vision_config": {"model_type": "siglip_vision_model", "patch_size": 14},
		"llm_config": {"model_type": "eagle2_chat"}
	}`)
	_, err := DefaultCodec().Decode(payload)
	var sce *modelcfg.SchemaConstructionError
	if !errors.As(err, &sce) {
		t.Fatalf("expected *SchemaConstructionError, got %v", err)
	}
	if sce.Discriminator != DiscriminatorEagle2Chat {
		t.Fatalf("discriminator: %q", sce.Discriminator)
	}
	if len(sce.Issues) != 1 || sce.Issues[0].Path != "/vision_config/hidden_size" {
		t.Fatalf("issues: %v", sce.Issues)
	}
}

func TestFallbacks_Order(t *testing.T) {
	var got []string
	for _, f := range DefaultCodec().Fallbacks() {
		got = append(got, f.Discriminator)
	}
	want := []string{DiscriminatorDiffusion, DiscriminatorPI0, DiscriminatorRADIO, DiscriminatorEagle2Chat}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fallback order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{DiscriminatorLlama, DiscriminatorSiglipVision}, DefaultCodec().Registry().Discriminators()); diff != "" {
		t.Fatalf("registry (-want +got):\n%s", diff)
	}
}
