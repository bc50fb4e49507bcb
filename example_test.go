package modelcfg_test

import (
	"fmt"

	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/models"
	"github.com/reoring/modelcfg/value"
)

func ExampleCodec_Resolve() {
	codec := models.DefaultCodec()
	for _, js := range []string{
		`{"model_type":"llama","hidden_size":64,"num_hidden_layers":2}`,
		`{"model_type":"DP","horizon":16,"n_action_steps":8}`,
		`{"model_type":"unknown_xyz","anything":[1,2]}`,
	} {
		v, _ := value.ParseJSON([]byte(js))
		obj, _ := v.AsObject()
		s, tier, err := codec.Resolve(obj)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Printf("%s %s %T\n", s.ModelType(), tier, s)
	}
	// Output:
	// llama registry *models.LlamaConfig
	// DP fallback *models.DiffusionConfig
	// unknown_xyz generic *modelcfg.PretrainedConfig
}

func ExampleSchemaConstructionError() {
	v, _ := value.ParseJSON([]byte(`{"model_type":"pi0","chunk_size":"fifty"}`))
	_, err := models.DefaultCodec().DecodeValue(v)
	if sce, ok := err.(*modelcfg.SchemaConstructionError); ok {
		fmt.Println(sce.Discriminator, sce.Fields())
		for _, it := range sce.Issues {
			fmt.Println(it.Code, it.Path)
		}
	}
	// Output:
	// pi0 [chunk_size n_action_steps]
	// invalid_type /chunk_size
	// required /n_action_steps
}
