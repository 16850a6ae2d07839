// Package schema generates the JSON Schema for navbuilder configuration files
// and validates raw configuration documents against it.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"

	"git.home.luguber.info/inful/navbuilder/internal/config"
)

const resourceName = "navbuilder.schema.json"

// Reflect builds the schema for config.Config.
func Reflect() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		// Unknown keys are typos; Plugins opts out for pass-through plugins.
		AllowAdditionalProperties:  false,
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		Anonymous:                  true,
		FieldNameTag:               "yaml",
	}
	s := r.Reflect(&config.Config{})
	s.Title = "navbuilder configuration"
	s.Description = "Site, theme and navigation settings for a VuePress theme-hope blog."
	return s
}

// Generate returns the schema as indented JSON.
func Generate() ([]byte, error) {
	return json.MarshalIndent(Reflect(), "", "  ")
}

// Validator checks raw configuration documents against the generated schema.
type Validator struct {
	schema *validator.Schema
}

// NewValidator compiles the generated schema.
func NewValidator() (*Validator, error) {
	data, err := Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}

	compiler := validator.NewCompiler()
	if err := compiler.AddResource(resourceName, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Violation is one schema failure at an instance location.
type Violation struct {
	Location string
	Message  string
}

// Error lists every violation found in a document.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = fmt.Sprintf("- %s: %s", v.Location, v.Message)
	}
	return "schema validation failed:\n" + strings.Join(lines, "\n")
}

// Validate checks doc, which must use the JSON data model
// (map[string]any, []any, float64, string, bool, nil).
// Failures are returned as *Error.
func (v *Validator) Validate(doc any) error {
	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}
	verr, ok := err.(*validator.ValidationError)
	if !ok {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	out := &Error{}
	collect(verr, &out.Violations)
	return out
}

// collect gathers the leaf failures; intermediate nodes only summarize them.
func collect(err *validator.ValidationError, into *[]Violation) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*into = append(*into, Violation{Location: loc, Message: err.Message})
		return
	}
	for _, cause := range err.Causes {
		collect(cause, into)
	}
}
