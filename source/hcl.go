package source

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/i18n"
	"github.com/reoring/modelcfg/value"
)

// ParseHCL decodes an HCL native-syntax document. Top-level attributes
// become object members; unlabeled blocks become nested objects:
//
//	agent_type = "pi0"
//	model_cfg = { model_type = "pi0", chunk_size = 50, n_action_steps = 50 }
//	server_cfg {
//	  server_host = "0.0.0.0"
//	}
//
// Expressions are evaluated without variables or functions.
func ParseHCL(data []byte, filename string) (value.Value, error) {
	if filename == "" {
		filename = "config.hcl"
	}
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return value.Value{}, diagIssues(diags, "/")
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return value.Value{}, fmt.Errorf("source: unexpected HCL body type %T", file.Body)
	}
	obj, err := fromHCLBody(body, "")
	if err != nil {
		return value.Value{}, err
	}
	return value.ObjectOf(obj), nil
}

func fromHCLBody(body *hclsyntax.Body, path string) (value.Object, error) {
	obj := make(value.Object, len(body.Attributes)+len(body.Blocks))
	names := make([]string, 0, len(body.Attributes))
	for name := range body.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		attr := body.Attributes[name]
		child := path + "/" + value.EscapePointer(name)
		cv, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diagIssues(diags, child)
		}
		v, err := fromCty(cv, child)
		if err != nil {
			return nil, err
		}
		obj[name] = v
	}
	for _, blk := range body.Blocks {
		child := path + "/" + value.EscapePointer(blk.Type)
		if len(blk.Labels) > 0 {
			return nil, modelcfg.Issues{{
				Path:    child,
				Code:    modelcfg.CodeParseError,
				Message: i18n.T(modelcfg.CodeParseError, nil),
				Hint:    "labeled blocks are not supported; use an attribute with an object value",
				Params:  map[string]any{"line": blk.TypeRange.Start.Line},
			}}
		}
		if _, dup := obj[blk.Type]; dup {
			return nil, modelcfg.Issues{{
				Path:    child,
				Code:    modelcfg.CodeDuplicateKey,
				Message: i18n.T(modelcfg.CodeDuplicateKey, nil),
				Hint:    "key '" + blk.Type + "' duplicated",
				Params:  map[string]any{"key": blk.Type, "line": blk.TypeRange.Start.Line},
			}}
		}
		nested, err := fromHCLBody(blk.Body, child)
		if err != nil {
			return nil, err
		}
		obj[blk.Type] = value.ObjectOf(nested)
	}
	return obj, nil
}

func fromCty(v cty.Value, path string) (value.Value, error) {
	if v.IsMarked() {
		v, _ = v.Unmark()
	}
	if !v.IsKnown() {
		return value.Value{}, invalidHCLValue(path, "value is not known")
	}
	if v.IsNull() {
		return value.Null(), nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return value.String(v.AsString()), nil
	case ty == cty.Bool:
		return value.Bool(v.True()), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int(nil)
			return value.Number(i.String())
		}
		return value.Number(bf.Text('g', -1))
	case ty.IsObjectType() || ty.IsMapType():
		obj := make(value.Object, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			key := k.AsString()
			child, err := fromCty(ev, path+"/"+value.EscapePointer(key))
			if err != nil {
				return value.Value{}, err
			}
			obj[key] = child
		}
		return value.ObjectOf(obj), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		items := make([]value.Value, 0, v.LengthInt())
		i := 0
		for it := v.ElementIterator(); it.Next(); i++ {
			_, ev := it.Element()
			child, err := fromCty(ev, fmt.Sprintf("%s/%d", path, i))
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, child)
		}
		return value.ArrayOf(items...), nil
	}
	return value.Value{}, invalidHCLValue(path, "unsupported type "+ty.FriendlyName())
}

func invalidHCLValue(path, hint string) error {
	return modelcfg.Issues{{
		Path:    path,
		Code:    modelcfg.CodeInvalidType,
		Message: i18n.T(modelcfg.CodeInvalidType, nil),
		Hint:    hint,
	}}
}

func diagIssues(diags hcl.Diagnostics, path string) error {
	var iss modelcfg.Issues
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		it := modelcfg.Issue{
			Path:    path,
			Code:    modelcfg.CodeParseError,
			Message: d.Summary,
			Hint:    d.Detail,
			Cause:   d,
		}
		if d.Subject != nil {
			it.Params = map[string]any{"line": d.Subject.Start.Line, "column": d.Subject.Start.Column}
		}
		iss = modelcfg.AppendIssues(iss, it)
	}
	return iss
}
