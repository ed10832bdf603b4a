package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://fluentplan/responses.json"

// Issue is one problem found in a submitted response set.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError reports every issue found in a response set.
type ValidationError struct {
	Issues []Issue
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return fmt.Sprintf("invalid responses: %v", e.Err)
	}
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Path + ": " + is.Message
	}
	return "invalid responses: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Schema returns a JSON Schema describing a (possibly partial) response set
// for the catalog. Unknown question IDs and off-catalog values are rejected.
func Schema() map[string]any {
	props := make(map[string]any, len(catalog))
	for _, q := range catalog {
		props[q.ID] = questionSchema(q)
	}
	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

func questionSchema(q Question) map[string]any {
	switch q.Kind {
	case KindMultiple:
		return map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string", "enum": optionIDs(q.Options)},
			"uniqueItems": true,
		}
	case KindSlider:
		s := map[string]any{"type": "integer"}
		if q.Slider != nil {
			s["minimum"] = q.Slider.Min
			s["maximum"] = q.Slider.Max
		}
		return s
	case KindLanguage:
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"language":       map[string]any{"type": "string", "enum": optionIDs(q.Languages)},
				"timeline":       map[string]any{"type": "string", "enum": optionIDs(q.Options)},
				"customLanguage": map[string]any{"type": "string", "maxLength": 64},
			},
			"required":             []any{"language", "timeline"},
			"additionalProperties": false,
		}
	default:
		return map[string]any{"type": "string", "enum": optionIDs(q.Options)}
	}
}

func optionIDs(opts []Option) []any {
	ids := make([]any, len(opts))
	for i, o := range opts {
		ids[i] = o.ID
	}
	return ids
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	// Round-trip through JSON so the compiler sees plain JSON values.
	defBytes, err := json.Marshal(Schema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var def any
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(schemaURL)
})

// Validate checks raw JSON against the catalog schema. It returns a
// *ValidationError describing every violation.
func Validate(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile response schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return &ValidationError{Issues: schemaIssues(err), Err: err}
	}
	return nil
}

// ValidateSet checks an in-memory response set against the catalog.
func ValidateSet(rs ResponseSet) error {
	raw, err := json.Marshal(rs)
	if err != nil {
		return fmt.Errorf("encode responses: %w", err)
	}
	return Validate(raw)
}

// Parse validates raw JSON and decodes it into a response set.
func Parse(raw []byte) (ResponseSet, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}
	var rs ResponseSet
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, &ValidationError{Err: err}
	}
	return rs, nil
}

func schemaIssues(err error) []Issue {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	var issues []Issue
	for _, unit := range verr.BasicOutput().Errors {
		if unit.Error == nil {
			continue
		}
		msg := unit.Error.String()
		if msg == "" || strings.HasPrefix(msg, "validation failed") {
			continue
		}
		path := unit.InstanceLocation
		if path == "" {
			path = "/"
		}
		issues = append(issues, Issue{Path: path, Message: msg})
	}
	return issues
}
