package agent

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/models"
	"github.com/reoring/modelcfg/source"
	"github.com/reoring/modelcfg/value"
)

func parseObject(t *testing.T, js string) value.Object {
	t.Helper()
	v, err := value.ParseJSON([]byte(js))
	require.NoError(t, err)
	obj, ok := v.AsObject()
	require.True(t, ok)
	return obj
}

func TestLoader_DecodeDefaults(t *testing.T) {
	cfg, err := DefaultLoader().Decode(parseObject(t, `{"agent_type":"pi0"}`))
	require.NoError(t, err)
	require.Equal(t, "PI0", cfg.AgentType)
	require.Nil(t, cfg.ModelNameOrPath)
	require.Nil(t, cfg.ModelCfg)
	require.Nil(t, cfg.ServerCfg)
	require.NotNil(t, cfg.ModelKwargs)
	require.Empty(t, cfg.ModelKwargs)
	require.NotNil(t, cfg.AgentSettings)

	other, err := DefaultLoader().Decode(parseObject(t, `{"agent_type":"dp"}`))
	require.NoError(t, err)
	cfg.ModelKwargs["k"] = value.Int(1)
	require.Empty(t, other.ModelKwargs, "defaults must not be shared")
}

func TestLoader_DecodeFull(t *testing.T) {
	obj := parseObject(t, `{
		"agent_type": "Dp",
		"model_name_or_path": "lerobot/diffusion_pusht",
		"model_cfg": {"model_type": "DP", "horizon": 16, "n_action_steps": 8, "stray": 1},
		"model_kwargs": {"device": "cuda"},
		"server_cfg": {"server_port": 6000},
		"agent_settings": {"fps": 10}
	}`)
	cfg, res, err := DefaultLoader().Inspect(obj)
	require.NoError(t, err)
	require.Equal(t, "DP", cfg.AgentType)
	require.Equal(t, "lerobot/diffusion_pusht", *cfg.ModelNameOrPath)
	dp, ok := cfg.ModelCfg.(*models.DiffusionConfig)
	require.True(t, ok, "model_cfg is %T", cfg.ModelCfg)
	require.Equal(t, 16, dp.Horizon)
	require.Equal(t, modelcfg.TierFallback, res.Tier)
	require.Equal(t, []string{"stray"}, res.Dropped)
	require.Equal(t, &ServerCfg{ServerHost: "localhost", ServerPort: 6000}, cfg.ServerCfg)
	require.True(t, cfg.AgentSettings["fps"].Equal(value.Int(10)))
}

func TestLoader_OuterIssues(t *testing.T) {
	_, err := DefaultLoader().Decode(parseObject(t, `{"model_kwargs": 3, "model_name_or_path": 7}`))
	iss, ok := modelcfg.AsIssues(err)
	require.True(t, ok, "got %v", err)
	paths := make([]string, 0, len(iss))
	for _, it := range iss {
		paths = append(paths, it.Path)
	}
	require.ElementsMatch(t, []string{"/agent_type", "/model_name_or_path", "/model_kwargs"}, paths)
}

func TestLoader_ServerValidation(t *testing.T) {
	cases := []struct {
		js   string
		path string
		code string
	}{
		{`{"server_port": 0}`, "/server_cfg/server_port", modelcfg.CodeOutOfRange},
		{`{"server_port": 70000}`, "/server_cfg/server_port", modelcfg.CodeOutOfRange},
		{`{"server_host": ""}`, "/server_cfg/server_host", modelcfg.CodeRequired},
		{`{"server_host": "bad host!"}`, "/server_cfg/server_host", modelcfg.CodeOutOfRange},
		{`{"server_port": "80"}`, "/server_cfg/server_port", modelcfg.CodeInvalidType},
	}
	for _, tc := range cases {
		obj := parseObject(t, `{"agent_type":"x","server_cfg":`+tc.js+`}`)
		_, err := DefaultLoader().Decode(obj)
		iss, ok := modelcfg.AsIssues(err)
		require.True(t, ok, "%s: %v", tc.js, err)
		require.Len(t, iss, 1, tc.js)
		require.Equal(t, tc.path, iss[0].Path, tc.js)
		require.Equal(t, tc.code, iss[0].Code, tc.js)
	}
	for _, host := range []string{"127.0.0.1", "::1", "policy-server.local", "localhost"} {
		require.NoError(t, (&ServerCfg{ServerHost: host, ServerPort: 80}).Validate(), host)
	}
}

func TestLoader_ModelCfgErrors(t *testing.T) {
	_, err := DefaultLoader().Decode(parseObject(t, `{"agent_type":"x","model_cfg":{"model_type":"pi0"}}`))
	var sce *modelcfg.SchemaConstructionError
	require.ErrorAs(t, err, &sce)
	require.Equal(t, "pi0", sce.Discriminator)
	require.Equal(t, []string{"chunk_size", "n_action_steps"}, sce.Fields())

	_, err = DefaultLoader().Decode(parseObject(t, `{"agent_type":"x","model_cfg":"pi0"}`))
	var shape *modelcfg.InvalidPayloadShapeError
	require.ErrorAs(t, err, &shape)
	require.Equal(t, "string", shape.Got)

	_, err = DefaultLoader().DecodeValue(value.ArrayOf())
	require.True(t, errors.As(err, &shape))
}

func TestAgentCfg_JSONRoundTrip(t *testing.T) {
	in := `{
		"agent_type": "eagle",
		"model_cfg": {
			"model_type": "eagle2_chat",
			"vision_config": {"model_type": "siglip_vision_model", "hidden_size": 1152, "patch_size": 14},
			"llm_config": {"model_type": "qwen2", "hidden_size": 1536, "rope_scaling": null}
		},
		"server_cfg": {"server_host": "10.0.0.2"}
	}`
	var cfg AgentCfg
	require.NoError(t, json.Unmarshal([]byte(in), &cfg))
	require.Equal(t, "EAGLE", cfg.AgentType)

	out, err := json.Marshal(&cfg)
	require.NoError(t, err)

	var again AgentCfg
	require.NoError(t, json.Unmarshal(out, &again))
	require.Equal(t, cfg.ModelCfg.ModelType(), again.ModelCfg.ModelType())
	require.True(t, value.ObjectOf(cfg.Encode()).Equal(value.ObjectOf(again.Encode())),
		"first: %s\nsecond: %s", value.ObjectOf(cfg.Encode()), value.ObjectOf(again.Encode()))

	eagle := again.ModelCfg.(*models.Eagle2ChatConfig)
	llm := eagle.LLMConfig.(*modelcfg.PretrainedConfig)
	v, ok := llm.Get("rope_scaling")
	require.True(t, ok)
	require.True(t, v.IsNull())
	require.Equal(t, 5000, again.ServerCfg.ServerPort)
}

func TestAgentCfg_EncodeShape(t *testing.T) {
	name := "m"
	cfg := &AgentCfg{AgentType: "X", ModelNameOrPath: &name, ModelKwargs: value.Object{}, AgentSettings: value.Object{}}
	enc := cfg.Encode()
	require.ElementsMatch(t,
		[]string{"agent_type", "model_name_or_path", "model_cfg", "model_kwargs", "server_cfg", "agent_settings"},
		enc.Keys())
	require.True(t, enc["model_cfg"].IsNull())
	require.True(t, enc["server_cfg"].IsNull())
	require.True(t, enc["model_name_or_path"].Equal(value.String("m")))
}

func TestAgentCfg_MarshalValue(t *testing.T) {
	cfg, err := DefaultLoader().Decode(parseObject(t,
		`{"agent_type":"dp","model_cfg":{"model_type":"DP","horizon":16,"n_action_steps":8,"crop_shape":null}}`))
	require.NoError(t, err)

	byPtr, err := json.Marshal(cfg)
	require.NoError(t, err)
	byValue, err := json.Marshal(*cfg)
	require.NoError(t, err)
	require.JSONEq(t, string(byPtr), string(byValue))

	v, err := value.ParseJSON(byValue)
	require.NoError(t, err)
	obj, ok := v.AsObject()
	require.True(t, ok)
	require.ElementsMatch(t, cfg.Encode().Keys(), obj.Keys())
	model, ok := obj["model_cfg"].AsObject()
	require.True(t, ok)
	require.True(t, model["crop_shape"].IsNull())
	require.True(t, model["horizon"].Equal(value.Int(16)))
}

func TestLoader_NullOuterFields(t *testing.T) {
	cfg, err := DefaultLoader().Decode(parseObject(t,
		`{"agent_type":"x","model_kwargs":null,"agent_settings":null,"server_cfg":null,"model_name_or_path":null}`))
	require.NoError(t, err)
	require.NotNil(t, cfg.ModelKwargs)
	require.NotNil(t, cfg.AgentSettings)
	require.Nil(t, cfg.ServerCfg)
	require.Nil(t, cfg.ModelNameOrPath)

	_, err = DefaultLoader().Decode(parseObject(t, `{"agent_type":"x","server_cfg":{"server_port":null}}`))
	iss, ok := modelcfg.AsIssues(err)
	require.True(t, ok, "got %v", err)
	require.Equal(t, "/server_cfg/server_port", iss[0].Path)
	require.Equal(t, modelcfg.CodeInvalidType, iss[0].Code)
}

func TestLoader_LoadFileAndBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.yaml")
	body := "agent_type: pi0\nmodel_cfg:\n  model_type: pi0\n  chunk_size: 50\n  n_action_steps: 25\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := DefaultLoader().LoadFile(path)
	require.NoError(t, err)
	pi0, ok := cfg.ModelCfg.(*models.PI0Config)
	require.True(t, ok)
	require.Equal(t, 25, pi0.NActionSteps)

	fromBytes, err := NewLoader(nil).LoadBytes([]byte(body), source.FormatYAML)
	require.NoError(t, err)
	require.Equal(t, cfg.Encode(), fromBytes.Encode())

	_, err = DefaultLoader().LoadFile(filepath.Join(dir, "agent.toml"))
	require.Error(t, err)
}
