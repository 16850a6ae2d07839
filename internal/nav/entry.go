package nav

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// StructureSentinel asks the site framework to derive a menu from the
// content directory layout instead of an explicit list.
const StructureSentinel = "structure"

// Entry is a single navigable item.
//
// A bare entry only sets Path. A record sets Text and any of the other fields.
type Entry struct {
	Path string

	Text              string
	Icon              string
	Link              string
	Prefix            string
	ActiveMatch       string
	Collapsible       bool
	Expanded          bool
	Children          []Entry
	ChildrenStructure bool
}

// Page returns a bare entry pointing at path.
func Page(path string) Entry {
	return Entry{Path: path}
}

// IsBare reports whether the entry is a plain path string.
func (e Entry) IsBare() bool {
	return e.Path != ""
}

// Target returns the unresolved link of the entry.
func (e Entry) Target() string {
	if e.IsBare() {
		return e.Path
	}
	return e.Link
}

// HasChildren reports whether the entry nests other entries.
func (e Entry) HasChildren() bool {
	return len(e.Children) > 0 || e.ChildrenStructure
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := e
	out.Children = cloneEntries(e.Children)
	return out
}

func cloneEntries(in []Entry) []Entry {
	if in == nil {
		return nil
	}
	out := make([]Entry, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// entryRecord is the mapping form of Entry on the wire.
type entryRecord struct {
	Text        string `yaml:"text,omitempty" json:"text,omitempty"`
	Icon        string `yaml:"icon,omitempty" json:"icon,omitempty"`
	Link        string `yaml:"link,omitempty" json:"link,omitempty"`
	Prefix      string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	ActiveMatch string `yaml:"activeMatch,omitempty" json:"activeMatch,omitempty"`
	Collapsible bool   `yaml:"collapsible,omitempty" json:"collapsible,omitempty"`
	Expanded    bool   `yaml:"expanded,omitempty" json:"expanded,omitempty"`
	Children    any    `yaml:"children,omitempty" json:"children,omitempty"`
}

func (e Entry) record() entryRecord {
	rec := entryRecord{
		Text:        e.Text,
		Icon:        e.Icon,
		Link:        e.Link,
		Prefix:      e.Prefix,
		ActiveMatch: e.ActiveMatch,
		Collapsible: e.Collapsible,
		Expanded:    e.Expanded,
	}
	switch {
	case e.ChildrenStructure:
		rec.Children = StructureSentinel
	case len(e.Children) > 0:
		rec.Children = e.Children
	}
	return rec
}

// ErrEmptyEntry is returned when a bare entry is an empty string.
var ErrEmptyEntry = errors.New("navigation entry is an empty string")

// MarshalYAML emits bare entries as strings and records as mappings.
func (e Entry) MarshalYAML() (any, error) {
	if e.IsBare() {
		return e.Path, nil
	}
	return e.record(), nil
}

// UnmarshalYAML accepts a string or a mapping.
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.AliasNode:
		return e.UnmarshalYAML(value.Alias)
	case yaml.ScalarNode:
		if value.ShortTag() != "!!str" {
			return fmt.Errorf("line %d: navigation entry must be a string or a mapping, got %s", value.Line, value.ShortTag())
		}
		if value.Value == "" {
			return fmt.Errorf("line %d: %w", value.Line, ErrEmptyEntry)
		}
		*e = Entry{Path: value.Value}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Text        string    `yaml:"text"`
			Icon        string    `yaml:"icon"`
			Link        string    `yaml:"link"`
			Prefix      string    `yaml:"prefix"`
			ActiveMatch string    `yaml:"activeMatch"`
			Collapsible bool      `yaml:"collapsible"`
			Expanded    bool      `yaml:"expanded"`
			Children    yaml.Node `yaml:"children"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		out := Entry{
			Text:        raw.Text,
			Icon:        raw.Icon,
			Link:        raw.Link,
			Prefix:      raw.Prefix,
			ActiveMatch: raw.ActiveMatch,
			Collapsible: raw.Collapsible,
			Expanded:    raw.Expanded,
		}
		if err := decodeYAMLChildren(&raw.Children, &out); err != nil {
			return err
		}
		*e = out
		return nil
	default:
		return fmt.Errorf("line %d: navigation entry must be a string or a mapping", value.Line)
	}
}

func decodeYAMLChildren(node *yaml.Node, out *Entry) error {
	switch node.Kind {
	case 0:
		return nil
	case yaml.AliasNode:
		return decodeYAMLChildren(node.Alias, out)
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return nil
		}
		if node.Value != StructureSentinel {
			return fmt.Errorf("line %d: children must be a list or %q, got %q", node.Line, StructureSentinel, node.Value)
		}
		out.ChildrenStructure = true
		return nil
	case yaml.SequenceNode:
		children := make([]Entry, 0, len(node.Content))
		if err := node.Decode(&children); err != nil {
			return err
		}
		out.Children = children
		return nil
	default:
		return fmt.Errorf("line %d: children must be a list or %q", node.Line, StructureSentinel)
	}
}

// MarshalJSON mirrors MarshalYAML.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.IsBare() {
		return json.Marshal(e.Path)
	}
	return json.Marshal(e.record())
}

// UnmarshalJSON accepts a string or an object.
func (e *Entry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("navigation entry is empty")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if s == "" {
			return ErrEmptyEntry
		}
		*e = Entry{Path: s}
		return nil
	case '{':
		var raw struct {
			entryRecord
			Children json.RawMessage `json:"children"`
		}
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		out := Entry{
			Text:        raw.Text,
			Icon:        raw.Icon,
			Link:        raw.Link,
			Prefix:      raw.Prefix,
			ActiveMatch: raw.ActiveMatch,
			Collapsible: raw.Collapsible,
			Expanded:    raw.Expanded,
		}
		children := bytes.TrimSpace(raw.Children)
		switch {
		case len(children) == 0 || bytes.Equal(children, []byte("null")):
		case children[0] == '"':
			var s string
			if err := json.Unmarshal(children, &s); err != nil {
				return err
			}
			if s != StructureSentinel {
				return fmt.Errorf("children must be a list or %q, got %q", StructureSentinel, s)
			}
			out.ChildrenStructure = true
		default:
			if err := json.Unmarshal(children, &out.Children); err != nil {
				return err
			}
		}
		*e = out
		return nil
	default:
		return fmt.Errorf("navigation entry must be a string or an object, got %s", string(trimmed))
	}
}
