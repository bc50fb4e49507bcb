package modelcfg

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/reoring/modelcfg/i18n"
	"github.com/reoring/modelcfg/value"
)

// Issue codes
const (
	CodeInvalidType           = "invalid_type"
	CodeRequired              = "required"
	CodeOutOfRange            = "out_of_range"
	CodeDuplicateKey          = "duplicate_key"
	CodeDuplicateRegistration = "duplicate_registration"
	CodeInvalidShape          = "invalid_shape"
	CodeParseError            = "parse_error"
)

// Issue represents a single problem found while decoding a payload.
type Issue struct {
	Path    string // JSON Pointer relative to the decoded payload (for example: /horizon).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected kind, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"expected":"number"}).
	Params map[string]any
}

// Field returns the top-level key the issue points at, or "" for the root.
func (it Issue) Field() string {
	p := strings.TrimPrefix(it.Path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return strings.ReplaceAll(strings.ReplaceAll(p, "~1", "/"), "~0", "~")
}

// Issues is a collection of problems that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required at /horizon
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssueAt creates an Issue for key with a translated message.
func IssueAt(key, code string, data map[string]string) Issue {
	it := Issue{Path: "/" + value.EscapePointer(key), Code: code, Message: i18n.T(code, data)}
	if len(data) > 0 {
		it.Params = make(map[string]any, len(data))
		for k, v := range data {
			it.Params[k] = v
		}
	}
	return it
}

// ErrRegistrySealed is returned by Register once the registry has been sealed.
var ErrRegistrySealed = errors.New("modelcfg: registry is sealed")

// ErrNilConstructor is returned when registering a nil Constructor.
var ErrNilConstructor = errors.New("modelcfg: nil constructor")

// DuplicateKeyError is returned when a discriminator is registered twice.
type DuplicateKeyError struct {
	Discriminator string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("modelcfg: discriminator %q already registered", e.Discriminator)
}

// Issue projects the error into the Issues model.
func (e *DuplicateKeyError) Issue() Issue {
	return Issue{
		Path:    "/" + value.EscapePointer(e.Discriminator),
		Code:    CodeDuplicateRegistration,
		Message: i18n.T(CodeDuplicateRegistration, nil),
		Params:  map[string]any{"discriminator": e.Discriminator},
	}
}

// SchemaConstructionError reports that a recognized discriminator carried a
// structurally invalid payload.
type SchemaConstructionError struct {
	Discriminator string
	Issues        Issues
}

func (e *SchemaConstructionError) Error() string {
	return fmt.Sprintf("modelcfg: cannot construct %q: %s", e.Discriminator, e.Issues.Error())
}

// Unwrap exposes the Issues to errors.As.
func (e *SchemaConstructionError) Unwrap() error { return e.Issues }

// Fields returns the offending top-level keys, sorted and deduplicated.
func (e *SchemaConstructionError) Fields() []string {
	seen := make(map[string]struct{}, len(e.Issues))
	out := make([]string, 0, len(e.Issues))
	for _, it := range e.Issues {
		f := it.Field()
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// InvalidPayloadShapeError reports a raw field value that is neither absent,
// an already-constructed Schema, nor an object.
type InvalidPayloadShapeError struct {
	Got  string // value kind or Go type
	Path string // set when the offending value is nested inside a Go map payload
}

func (e *InvalidPayloadShapeError) Error() string {
	if e.Path != "" && e.Path != "/" {
		return fmt.Sprintf("modelcfg: invalid payload shape at %s: unsupported %s", e.Path, e.Got)
	}
	return fmt.Sprintf("modelcfg: invalid payload shape: expected object, got %s", e.Got)
}

// Issue projects the error into the Issues model.
func (e *InvalidPayloadShapeError) Issue() Issue {
	path := e.Path
	if path == "" {
		path = "/"
	}
	return Issue{
		Path:    path,
		Code:    CodeInvalidShape,
		Message: i18n.T(CodeInvalidShape, map[string]string{"expected": "object", "got": e.Got}),
		Params:  map[string]any{"got": e.Got},
	}
}

// constructionError converts whatever a Constructor returned into a
// SchemaConstructionError.
func constructionError(discriminator string, err error) *SchemaConstructionError {
	var sce *SchemaConstructionError
	if errors.As(err, &sce) {
		if sce.Discriminator == "" {
			return &SchemaConstructionError{Discriminator: discriminator, Issues: sce.Issues}
		}
		return sce
	}
	if iss, ok := AsIssues(err); ok {
		return &SchemaConstructionError{Discriminator: discriminator, Issues: iss}
	}
	return &SchemaConstructionError{
		Discriminator: discriminator,
		Issues:        Issues{{Path: "/", Code: CodeInvalidType, Message: err.Error(), Cause: err}},
	}
}
