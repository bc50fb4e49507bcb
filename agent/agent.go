// Package agent decodes the agent configuration that carries a polymorphic
// model_cfg alongside agent and server settings.
package agent

import (
	"strings"

	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/models"
	"github.com/reoring/modelcfg/source"
	"github.com/reoring/modelcfg/value"
)

// AgentCfg is a decoded agent configuration.
type AgentCfg struct {
	// AgentType is always upper case.
	AgentType       string
	ModelNameOrPath *string
	// ModelCfg is nil when model_cfg was absent or null.
	ModelCfg      modelcfg.Schema
	ModelKwargs   value.Object
	ServerCfg     *ServerCfg
	AgentSettings value.Object
}

// Resolution describes how model_cfg was decoded.
type Resolution struct {
	Tier modelcfg.Tier
	// Dropped lists payload keys the resolved variant does not own.
	Dropped []string
}

// Encode projects the configuration into a payload that decodes back to the
// same variant.
func (c *AgentCfg) Encode() value.Object {
	return c.encode(models.DefaultCodec())
}

func (c *AgentCfg) encode(codec *modelcfg.Codec) value.Object {
	out := value.Object{
		"agent_type":         value.String(c.AgentType),
		"model_name_or_path": value.Null(),
		"model_cfg":          codec.EncodeTagged(c.ModelCfg),
		"model_kwargs":       value.ObjectOf(c.ModelKwargs.Clone()),
		"server_cfg":         value.Null(),
		"agent_settings":     value.ObjectOf(c.AgentSettings.Clone()),
	}
	if c.ModelNameOrPath != nil {
		out["model_name_or_path"] = value.String(*c.ModelNameOrPath)
	}
	if c.ServerCfg != nil {
		out["server_cfg"] = value.ObjectOf(c.ServerCfg.Fields())
	}
	return out
}

// MarshalJSON encodes the configuration as canonical JSON.
func (c AgentCfg) MarshalJSON() ([]byte, error) {
	return c.Encode().MarshalJSON()
}

// UnmarshalJSON decodes through the default codec.
func (c *AgentCfg) UnmarshalJSON(data []byte) error {
	v, err := source.ParseJSON(data)
	if err != nil {
		return err
	}
	dec, err := DefaultLoader().DecodeValue(v)
	if err != nil {
		return err
	}
	*c = *dec
	return nil
}

func decodeOuter(obj value.Object) (*AgentCfg, modelcfg.Issues) {
	c := &AgentCfg{}
	r := modelcfg.NewFieldReader(obj)
	r.String("agent_type", &c.AgentType, modelcfg.Required)
	var name string
	if v, ok := obj["model_name_or_path"]; ok && !v.IsNull() {
		r.String("model_name_or_path", &name, modelcfg.Optional)
		c.ModelNameOrPath = &name
	}
	r.Object("model_kwargs", &c.ModelKwargs, modelcfg.Nullable)
	r.Object("agent_settings", &c.AgentSettings, modelcfg.Nullable)
	var server value.Object
	r.Object("server_cfg", &server, modelcfg.Nullable)

	iss := r.Issues()
	// A mistyped model_name_or_path leaves an empty name behind.
	if hasIssueAt(iss, "model_name_or_path") {
		c.ModelNameOrPath = nil
	}
	c.AgentType = strings.ToUpper(c.AgentType)
	if c.ModelKwargs == nil {
		c.ModelKwargs = value.Object{}
	}
	if c.AgentSettings == nil {
		c.AgentSettings = value.Object{}
	}
	if server != nil {
		s, siss := decodeServerCfg(server)
		iss = append(iss, reroot("server_cfg", siss)...)
		c.ServerCfg = s
	}
	return c, iss
}

func hasIssueAt(iss modelcfg.Issues, key string) bool {
	for _, it := range iss {
		if it.Field() == key {
			return true
		}
	}
	return false
}

// reroot prefixes every issue path with /key.
func reroot(key string, iss modelcfg.Issues) modelcfg.Issues {
	if len(iss) == 0 {
		return nil
	}
	prefix := "/" + value.EscapePointer(key)
	out := make(modelcfg.Issues, 0, len(iss))
	for _, it := range iss {
		it.Path = prefix + strings.TrimSuffix(it.Path, "/")
		out = append(out, it)
	}
	return out
}
