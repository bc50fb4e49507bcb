package models

import (
	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/value"
)

// RADIOConfig configures a RADIO vision backbone.
type RADIOConfig struct {
	Version             string
	PatchSize           int
	MaxResolution       int
	PreferredResolution []int
	AdaptorNames        []string
	Args                value.Object
}

var _ modelcfg.Schema = (*RADIOConfig)(nil)

func NewRADIOConfig() *RADIOConfig {
	return &RADIOConfig{
		PatchSize:           16,
		MaxResolution:       2048,
		PreferredResolution: []int{768, 768},
		AdaptorNames:        []string{},
		Args:                value.Object{},
	}
}

// RADIOFromPayload is the Constructor for DiscriminatorRADIO.
func RADIOFromPayload(p value.Object) (modelcfg.Schema, error) {
	c := NewRADIOConfig()
	r := modelcfg.NewFieldReader(p)
	r.String("version", &c.Version, modelcfg.Required)
	r.Int("patch_size", &c.PatchSize, modelcfg.Optional)
	r.Int("max_resolution", &c.MaxResolution, modelcfg.Optional)
	r.Ints("preferred_resolution", &c.PreferredResolution, modelcfg.Nullable)
	r.Strings("adaptor_names", &c.AdaptorNames, modelcfg.Nullable)
	r.Object("args", &c.Args, modelcfg.Optional)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *RADIOConfig) ModelType() string { return DiscriminatorRADIO }

func (c *RADIOConfig) Fields() value.Object {
	return value.Object{
		"version":              value.String(c.Version),
		"patch_size":           value.Int(int64(c.PatchSize)),
		"max_resolution":       value.Int(int64(c.MaxResolution)),
		"preferred_resolution": value.Ints(c.PreferredResolution),
		"adaptor_names":        value.Strings(c.AdaptorNames),
		"args":                 value.ObjectOf(c.Args.Clone()),
	}
}
