package agent

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	modelcfg "github.com/reoring/modelcfg"
	"github.com/reoring/modelcfg/i18n"
	"github.com/reoring/modelcfg/value"
)

// ServerCfg locates the policy server an agent talks to.
type ServerCfg struct {
	ServerHost string `json:"server_host" validate:"required,hostname_rfc1123|ip"`
	ServerPort int    `json:"server_port" validate:"min=1,max=65535"`
}

// NewServerCfg returns the defaults: localhost:5000.
func NewServerCfg() *ServerCfg { return &ServerCfg{ServerHost: "localhost", ServerPort: 5000} }

// validate is configured to report JSON tag names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func decodeServerCfg(obj value.Object) (*ServerCfg, modelcfg.Issues) {
	s := NewServerCfg()
	r := modelcfg.NewFieldReader(obj)
	r.String("server_host", &s.ServerHost, modelcfg.Optional)
	r.Int("server_port", &s.ServerPort, modelcfg.Optional)
	if iss := r.Issues(); len(iss) > 0 {
		return nil, iss
	}
	if iss := s.check(); len(iss) > 0 {
		return nil, iss
	}
	return s, nil
}

// Validate checks host and port ranges.
func (s *ServerCfg) Validate() error {
	if iss := s.check(); len(iss) > 0 {
		return iss
	}
	return nil
}

func (s *ServerCfg) check() modelcfg.Issues {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return modelcfg.Issues{{Path: "/", Code: modelcfg.CodeInvalidType, Message: err.Error(), Cause: err}}
	}
	var iss modelcfg.Issues
	for _, fe := range ves {
		code := modelcfg.CodeOutOfRange
		if fe.Tag() == "required" {
			code = modelcfg.CodeRequired
		}
		iss = modelcfg.AppendIssues(iss, modelcfg.Issue{
			Path:    "/" + fe.Field(),
			Code:    code,
			Message: i18n.T(code, nil),
			Hint:    "failed '" + fe.Tag() + "' rule",
			Params:  map[string]any{"rule": fe.Tag(), "param": fe.Param()},
		})
	}
	return iss
}

// Fields projects the server section.
func (s *ServerCfg) Fields() value.Object {
	return value.Object{
		"server_host": value.String(s.ServerHost),
		"server_port": value.Int(int64(s.ServerPort)),
	}
}
