package agent

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/models"
	"github.com/reoring/modelcfg/source"
	"github.com/reoring/modelcfg/value"
)

// Loader decodes agent configurations with a fixed model codec.
type Loader struct {
	Codec *modelcfg.Codec
	log   *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used to report resolution details.
func WithLogger(l *zap.Logger) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.log = l
		}
	}
}

// NewLoader returns a Loader over codec. A nil codec means
// models.DefaultCodec().
func NewLoader(codec *modelcfg.Codec, opts ...LoaderOption) *Loader {
	if codec == nil {
		codec = models.DefaultCodec()
	}
	ld := &Loader{Codec: codec, log: zap.NewNop()}
	for _, o := range opts {
		o(ld)
	}
	return ld
}

// DefaultLoader returns the process-wide loader over models.DefaultCodec.
var DefaultLoader = sync.OnceValue(func() *Loader { return NewLoader(nil) })

// Decode builds an AgentCfg from a parsed object.
func (l *Loader) Decode(obj value.Object) (*AgentCfg, error) {
	c, _, err := l.Inspect(obj)
	return c, err
}

// Inspect is Decode that also reports how model_cfg was resolved.
//
// Field problems outside model_cfg are returned together as Issues. A
// model_cfg failure wraps the codec error, so errors.As still reaches
// *modelcfg.SchemaConstructionError and *modelcfg.InvalidPayloadShapeError.
func (l *Loader) Inspect(obj value.Object) (*AgentCfg, Resolution, error) {
	var res Resolution
	c, iss := decodeOuter(obj)
	if len(iss) > 0 {
		return nil, res, iss
	}
	raw, ok := obj["model_cfg"]
	if !ok || raw.IsNull() {
		return c, res, nil
	}
	payload, ok := raw.AsObject()
	if !ok {
		return nil, res, fmt.Errorf("agent: model_cfg: %w", &modelcfg.InvalidPayloadShapeError{Got: raw.Kind().String()})
	}
	s, tier, err := l.Codec.Resolve(payload)
	if err != nil {
		return nil, res, fmt.Errorf("agent: model_cfg: %w", err)
	}
	c.ModelCfg = s
	res.Tier = tier
	res.Dropped = modelcfg.DroppedFields(payload, s)
	l.log.Debug("model_cfg resolved",
		zap.String("agent_type", c.AgentType),
		zap.String("model_type", s.ModelType()),
		zap.Stringer("tier", tier),
		zap.Strings("dropped", res.Dropped),
	)
	return c, res, nil
}

// DecodeValue is Decode for a value that must be an object.
func (l *Loader) DecodeValue(v value.Value) (*AgentCfg, error) {
	obj, ok := v.AsObject()
	if !ok {
		return nil, &modelcfg.InvalidPayloadShapeError{Got: v.Kind().String()}
	}
	return l.Decode(obj)
}

// LoadBytes parses data in format f and decodes it.
func (l *Loader) LoadBytes(data []byte, f source.Format) (*AgentCfg, error) {
	v, err := source.Parse(data, f, "")
	if err != nil {
		return nil, err
	}
	return l.DecodeValue(v)
}

// LoadFile reads path, picking the format from its extension.
func (l *Loader) LoadFile(path string) (*AgentCfg, error) {
	c, _, err := l.InspectFile(path)
	return c, err
}

// InspectFile is LoadFile that also reports the model_cfg resolution.
func (l *Loader) InspectFile(path string) (*AgentCfg, Resolution, error) {
	v, err := source.ParseFile(path)
	if err != nil {
		return nil, Resolution{}, err
	}
	obj, ok := v.AsObject()
	if !ok {
		return nil, Resolution{}, fmt.Errorf("agent: %s: %w", path, &modelcfg.InvalidPayloadShapeError{Got: v.Kind().String()})
	}
	c, res, err := l.Inspect(obj)
	if err != nil {
		return nil, res, fmt.Errorf("agent: %s: %w", path, err)
	}
	return c, res, nil
}

// Encode projects c using the loader's codec.
func (l *Loader) Encode(c *AgentCfg) value.Object {
	return c.encode(l.Codec)
}
