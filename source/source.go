// Package source parses structured configuration input (JSON, YAML, HCL)
// into value.Value trees. Parse failures are reported as modelcfg.Issues.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/i18n"
	"github.com/reoring/modelcfg/value"
)

// Format names an input syntax.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
	FormatHCL
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatHCL:
		return "hcl"
	default:
		return "unknown"
	}
}

// ParseFormat maps a name ("json", "yaml", "yml", "hcl") to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "hcl":
		return FormatHCL, nil
	}
	return FormatUnknown, fmt.Errorf("source: unknown format %q", name)
}

// FormatFromPath picks a Format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatUnknown, fmt.Errorf("source: cannot infer format of %q: no extension", path)
	}
	return ParseFormat(ext)
}

// ParseJSON decodes one JSON document.
func ParseJSON(data []byte) (value.Value, error) {
	v, err := value.ParseJSON(data)
	if err != nil {
		return value.Value{}, toIssues(err)
	}
	return v, nil
}

// ParseYAML decodes the first YAML document.
func ParseYAML(data []byte) (value.Value, error) {
	v, err := value.ParseYAML(data)
	if err != nil {
		return value.Value{}, toIssues(err)
	}
	return v, nil
}

// Parse decodes data in the given format. filename is only used for
// diagnostics.
func Parse(data []byte, f Format, filename string) (value.Value, error) {
	switch f {
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	case FormatHCL:
		return ParseHCL(data, filename)
	}
	return value.Value{}, fmt.Errorf("source: unsupported format %s", f)
}

// ParseFile reads path and parses it according to its extension.
func ParseFile(path string) (value.Value, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return value.Value{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, fmt.Errorf("source: reading %s: %w", path, err)
	}
	v, err := Parse(data, f, path)
	if err != nil {
		return value.Value{}, fmt.Errorf("source: parsing %s: %w", path, err)
	}
	return v, nil
}

func toIssues(err error) error {
	var dup *value.DuplicateFieldError
	if errors.As(err, &dup) {
		return modelcfg.Issues{{
			Path:    dup.Path,
			Code:    modelcfg.CodeDuplicateKey,
			Message: i18n.T(modelcfg.CodeDuplicateKey, nil),
			Hint:    "key '" + dup.Key + "' duplicated",
			Params:  map[string]any{"key": dup.Key},
		}}
	}
	path := "/"
	var se *value.SyntaxError
	if errors.As(err, &se) {
		path = se.Path
	}
	return modelcfg.Issues{{
		Path:    path,
		Code:    modelcfg.CodeParseError,
		Message: i18n.T(modelcfg.CodeParseError, nil),
		Hint:    err.Error(),
		Cause:   err,
	}}
}
