package models

import (
	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/value"
)

// DiffusionConfig configures a diffusion policy head.
type DiffusionConfig struct {
	NObsSteps    int
	Horizon      int
	NActionSteps int

	InputFeatures  value.Object
	OutputFeatures value.Object

	// Vision encoder.
	VisionBackbone             string
	CropShape                  []int
	CropIsRandom               bool
	UseGroupNorm               bool
	SpatialSoftmaxNumKeypoints int

	// U-Net.
	DownDims               []int
	KernelSize             int
	NGroups                int
	DiffusionStepEmbedDim  int
	UseFilmScaleModulation bool

	// Noise scheduler.
	NoiseSchedulerType string
	NumTrainTimesteps  int
	BetaSchedule       string
	BetaStart          float64
	BetaEnd            float64
	PredictionType     string
	ClipSample         bool
	ClipSampleRange    float64

	OptimizerLR float64
}

var _ modelcfg.Schema = (*DiffusionConfig)(nil)

// NewDiffusionConfig returns a config holding the default for every field.
// Each call allocates its own slices and maps.
func NewDiffusionConfig() *DiffusionConfig {
	return &DiffusionConfig{
		NObsSteps:                  2,
		Horizon:                    16,
		NActionSteps:               8,
		InputFeatures:              value.Object{},
		OutputFeatures:             value.Object{},
		VisionBackbone:             "resnet18",
		CropShape:                  []int{84, 84},
		CropIsRandom:               true,
		UseGroupNorm:               true,
		SpatialSoftmaxNumKeypoints: 32,
		DownDims:                   []int{512, 1024, 2048},
		KernelSize:                 5,
		NGroups:                    8,
		DiffusionStepEmbedDim:      128,
		UseFilmScaleModulation:     true,
		NoiseSchedulerType:         "DDPM",
		NumTrainTimesteps:          100,
		BetaSchedule:               "squaredcos_cap_v2",
		BetaStart:                  0.0001,
		BetaEnd:                    0.02,
		PredictionType:             "epsilon",
		ClipSample:                 true,
		ClipSampleRange:            1.0,
		OptimizerLR:                1e-4,
	}
}

// DiffusionFromPayload is the Constructor for DiscriminatorDiffusion.
// horizon and n_action_steps are required.
func DiffusionFromPayload(p value.Object) (modelcfg.Schema, error) {
	c := NewDiffusionConfig()
	r := modelcfg.NewFieldReader(p)
	r.Int("n_obs_steps", &c.NObsSteps, modelcfg.Optional)
	r.Int("horizon", &c.Horizon, modelcfg.Required)
	r.Int("n_action_steps", &c.NActionSteps, modelcfg.Required)
	r.Object("input_features", &c.InputFeatures, modelcfg.Optional)
	r.Object("output_features", &c.OutputFeatures, modelcfg.Optional)
	r.String("vision_backbone", &c.VisionBackbone, modelcfg.Optional)
	r.Ints("crop_shape", &c.CropShape, modelcfg.Nullable)
	r.Bool("crop_is_random", &c.CropIsRandom, modelcfg.Optional)
	r.Bool("use_group_norm", &c.UseGroupNorm, modelcfg.Optional)
	r.Int("spatial_softmax_num_keypoints", &c.SpatialSoftmaxNumKeypoints, modelcfg.Optional)
	r.Ints("down_dims", &c.DownDims, modelcfg.Optional)
	r.Int("kernel_size", &c.KernelSize, modelcfg.Optional)
	r.Int("n_groups", &c.NGroups, modelcfg.Optional)
	r.Int("diffusion_step_embed_dim", &c.DiffusionStepEmbedDim, modelcfg.Optional)
	r.Bool("use_film_scale_modulation", &c.UseFilmScaleModulation, modelcfg.Optional)
	r.String("noise_scheduler_type", &c.NoiseSchedulerType, modelcfg.Optional)
	r.Int("num_train_timesteps", &c.NumTrainTimesteps, modelcfg.Optional)
	r.String("beta_schedule", &c.BetaSchedule, modelcfg.Optional)
	r.Float("beta_start", &c.BetaStart, modelcfg.Optional)
	r.Float("beta_end", &c.BetaEnd, modelcfg.Optional)
	r.String("prediction_type", &c.PredictionType, modelcfg.Optional)
	r.Bool("clip_sample", &c.ClipSample, modelcfg.Optional)
	r.Float("clip_sample_range", &c.ClipSampleRange, modelcfg.Optional)
	r.Float("optimizer_lr", &c.OptimizerLR, modelcfg.Optional)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *DiffusionConfig) ModelType() string { return DiscriminatorDiffusion }

func (c *DiffusionConfig) Fields() value.Object {
	return value.Object{
		"n_obs_steps":                   value.Int(int64(c.NObsSteps)),
		"horizon":                       value.Int(int64(c.Horizon)),
		"n_action_steps":                value.Int(int64(c.NActionSteps)),
		"input_features":                value.ObjectOf(c.InputFeatures.Clone()),
		"output_features":               value.ObjectOf(c.OutputFeatures.Clone()),
		"vision_backbone":               value.String(c.VisionBackbone),
		"crop_shape":                    value.Ints(c.CropShape),
		"crop_is_random":                value.Bool(c.CropIsRandom),
		"use_group_norm":                value.Bool(c.UseGroupNorm),
		"spatial_softmax_num_keypoints": value.Int(int64(c.SpatialSoftmaxNumKeypoints)),
		"down_dims":                     value.Ints(c.DownDims),
		"kernel_size":                   value.Int(int64(c.KernelSize)),
		"n_groups":                      value.Int(int64(c.NGroups)),
		"diffusion_step_embed_dim":      value.Int(int64(c.DiffusionStepEmbedDim)),
		"use_film_scale_modulation":     value.Bool(c.UseFilmScaleModulation),
		"noise_scheduler_type":          value.String(c.NoiseSchedulerType),
		"num_train_timesteps":           value.Int(int64(c.NumTrainTimesteps)),
		"beta_schedule":                 value.String(c.BetaSchedule),
		"beta_start":                    value.Float(c.BetaStart),
		"beta_end":                      value.Float(c.BetaEnd),
		"prediction_type":               value.String(c.PredictionType),
		"clip_sample":                   value.Bool(c.ClipSample),
		"clip_sample_range":             value.Float(c.ClipSampleRange),
		"optimizer_lr":                  value.Float(c.OptimizerLR),
	}
}
