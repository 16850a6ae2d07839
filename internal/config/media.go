package config

import (
	"fmt"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Media is a social link on the blog author card. It is written either as a
// plain URL or mail address, or as a record with a custom icon.
type Media struct {
	Icon string
	Link string
}

type mediaRecord struct {
	Icon string `yaml:"icon"`
	Link string `yaml:"link"`
}

// MarshalYAML writes icon-less media as a bare URL.
func (m Media) MarshalYAML() (any, error) {
	if m.Icon == "" {
		return m.Link, nil
	}
	return mediaRecord(m), nil
}

// UnmarshalYAML accepts a URL string or an {icon, link} mapping.
func (m *Media) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*m = Media{Link: value.Value}
		return nil
	case yaml.MappingNode:
		var rec mediaRecord
		if err := value.Decode(&rec); err != nil {
			return err
		}
		*m = Media(rec)
		return nil
	default:
		return fmt.Errorf("line %d: media must be a URL or an {icon, link} record", value.Line)
	}
}

// JSONSchema describes both media forms.
func (Media) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("icon", &jsonschema.Schema{Type: "string", MinLength: ptr[uint64](1)})
	props.Set("link", &jsonschema.Schema{Type: "string", MinLength: ptr[uint64](1)})
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string", MinLength: ptr[uint64](1)},
			{
				Type:                 "object",
				Properties:           props,
				Required:             []string{"icon", "link"},
				AdditionalProperties: jsonschema.FalseSchema,
			},
		},
	}
}

// Toggle switches a plugin on or off. A plugin given an options record is
// enabled, and the options are kept as written.
type Toggle struct {
	Enabled bool
	Options map[string]any
}

// MarshalYAML writes a bare boolean unless options were given.
func (t Toggle) MarshalYAML() (any, error) {
	if t.Options == nil {
		return t.Enabled, nil
	}
	return t.Options, nil
}

// UnmarshalYAML accepts a boolean or an options mapping.
func (t *Toggle) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var on bool
		if err := value.Decode(&on); err != nil {
			return fmt.Errorf("line %d: plugin switch must be a boolean or an options record", value.Line)
		}
		*t = Toggle{Enabled: on}
		return nil
	case yaml.MappingNode:
		opts := map[string]any{}
		if err := value.Decode(&opts); err != nil {
			return err
		}
		*t = Toggle{Enabled: true, Options: opts}
		return nil
	default:
		return fmt.Errorf("line %d: plugin switch must be a boolean or an options record", value.Line)
	}
}

// JSONSchema describes both switch forms.
func (Toggle) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "boolean"},
			{Type: "object"},
		},
	}
}

// Passwords is one password or a list of them.
type Passwords []string

// UnmarshalYAML accepts a single string as a one-element list.
func (p *Passwords) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		if value.Tag == "!!null" {
			*p = nil
			return nil
		}
		*p = Passwords{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*p = list
	return nil
}

// JSONSchema describes both password forms.
func (Passwords) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
	}
}

func ptr[T any](v T) *T { return &v }
