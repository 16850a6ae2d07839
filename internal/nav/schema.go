package nav

import "github.com/invopop/jsonschema"

const entryRef = "#/$defs/Entry"

// JSONSchema describes Entry as a path string or a record.
func (Entry) JSONSchema() *jsonschema.Schema {
	str := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{Type: "string", Description: desc}
	}

	props := jsonschema.NewProperties()
	props.Set("text", str("Label shown in the menu"))
	props.Set("icon", str("Icon name or class"))
	props.Set("link", str("Page path or absolute URL"))
	props.Set("prefix", str("Path prepended to children links"))
	props.Set("activeMatch", str("Regular expression marking the entry active"))
	props.Set("collapsible", &jsonschema.Schema{Type: "boolean"})
	props.Set("expanded", &jsonschema.Schema{Type: "boolean"})
	props.Set("children", &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "array", Items: &jsonschema.Schema{Ref: entryRef}},
			{Const: StructureSentinel},
		},
	})

	return &jsonschema.Schema{
		Description: "Navigation entry: a page path or a record",
		OneOf: []*jsonschema.Schema{
			{Type: "string", MinLength: ptr(uint64(1))},
			{
				Type:                 "object",
				Properties:           props,
				Required:             []string{"text"},
				AdditionalProperties: jsonschema.FalseSchema,
			},
		},
	}
}

// JSONSchema describes Sidebar as prefix keys mapped to "structure" or a list.
func (Sidebar) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:          "object",
		Description:   "Sidebar menus keyed by URL prefix",
		PropertyNames: &jsonschema.Schema{Pattern: "^/"},
		AdditionalProperties: &jsonschema.Schema{
			OneOf: []*jsonschema.Schema{
				{Const: StructureSentinel},
				{Type: "array", Items: &jsonschema.Schema{Ref: entryRef}},
			},
		},
	}
}

func ptr[T any](v T) *T { return &v }
