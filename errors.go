package verity

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Diagnostic codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType    = "invalid_type"
	CodeNullNotAllowed = "null_not_allowed"
	CodeRequired       = "required"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeTooShort       = "too_short"
	CodeTooLong        = "too_long"
	CodePattern        = "pattern"
	CodeInvalidFormat  = "invalid_format"
	// Business/context checks
	CodeBusinessRule = "business_rule"
	CodeUniqueness   = "uniqueness"
	CodeConflict     = "conflict"
	CodeExpired      = "expired"
)

// Error represents a single validation diagnostic. The path is kept in its
// structured form and rendered to text only on demand.
type Error struct {
	Path    *Path  // location inside the input graph (nil means root)
	Code    string // one of the codes listed above, or a caller-defined code
	Message string
	Cause   error // optional: underlying error
	// Params carries structured parameters (e.g., {"min":1, "got":42})
	// for observability.
	Params map[string]any
	// Rule optionally records the rule name that produced this diagnostic.
	Rule string
}

// Error implements the error interface for a single diagnostic.
func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Code, e.Path.String())
}

// MarshalJSON emits the {path, code, message} wire triple, rendering the path
// with the default formatting.
func (e Error) MarshalJSON() ([]byte, error) {
	type wire struct {
		Path    string `json:"path"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Rule    string `json:"rule,omitempty"`
	}
	return json.Marshal(wire{Path: e.Path.String(), Code: e.Code, Message: e.Message, Rule: e.Rule})
}

// Errors is an ordered collection of validation diagnostics that implements
// error. Duplicates are kept: every failing rule or branch contributes its
// own entry.
type Errors []Error

// Error summarizes the first few diagnostics.
func (es Errors) Error() string {
	if len(es) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(es)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := es[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path.String())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendErrors appends diagnostics to the destination, initializing the slice
// only when there is something to add, so the common valid path allocates
// nothing.
func AppendErrors(dst Errors, more ...Error) Errors {
	if len(more) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(Errors, 0, len(more))
	}
	return append(dst, more...)
}

// AsErrors extracts Errors from an error using errors.As internally.
func AsErrors(err error) (Errors, bool) {
	if err == nil {
		return nil, false
	}
	var es Errors
	if errors.As(err, &es) {
		return es, true
	}
	return nil, false
}

// ConfigError reports a schema-authoring mistake, such as a missing or
// ambiguous context factory. It describes the schema, not the input, so it
// aborts the in-flight validation call instead of joining the diagnostic
// list.
type ConfigError struct {
	Op     string // operation that detected the fault
	Detail string
}

func (e *ConfigError) Error() string {
	return "verity: " + e.Op + ": " + e.Detail
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ErrNotApplicable is returned by a context factory to signal that it does
// not apply to the value's shape. Resolution skips the factory; any other
// error from a factory is a genuine fault and aborts the call.
var ErrNotApplicable = errors.New("verity: context factory not applicable")
