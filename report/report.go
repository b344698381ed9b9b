// Package report flattens validation diagnostics into serializable entries
// for API responses, logs, and tooling. Paths render once at the edge with
// the formatting of the consumer's choice; the structured form stays inside
// the engine.
package report

import (
	json "github.com/goccy/go-json"
	yaml "gopkg.in/yaml.v3"

	verity "github.com/verity-go/verity"
)

// Entry is one flattened diagnostic.
type Entry struct {
	Path    string `json:"path" yaml:"path"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Rule    string `json:"rule,omitempty" yaml:"rule,omitempty"`
}

// Report is the serializable outcome of one validation call. Entries keep
// the engine's deterministic order and are never deduplicated.
type Report struct {
	Valid  bool    `json:"valid" yaml:"valid"`
	Errors []Entry `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// FromErrors flattens errs, rendering each path with f (nil means the default
// formatting).
func FromErrors(errs verity.Errors, f *verity.Formatting) Report {
	r := Report{Valid: len(errs) == 0}
	if len(errs) == 0 {
		return r
	}
	r.Errors = make([]Entry, 0, len(errs))
	for _, e := range errs {
		r.Errors = append(r.Errors, Entry{
			Path:    e.Path.Render(f),
			Code:    e.Code,
			Message: e.Message,
			Rule:    e.Rule,
		})
	}
	return r
}

// Of builds a report from a result with default formatting.
func Of[T any](res verity.Result[T]) Report {
	return FromErrors(res.Errors(), nil)
}

// JSON encodes the report via goccy/go-json.
func (r Report) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// YAML encodes the report via gopkg.in/yaml.v3.
func (r Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
