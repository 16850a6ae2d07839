package nav

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrDuplicatePrefix is returned when a sidebar prefix is declared twice.
var ErrDuplicatePrefix = errors.New("duplicate sidebar prefix")

// SidebarItem is one prefix of a sidebar with its menu.
type SidebarItem struct {
	Prefix    string
	Structure bool
	Entries   []Entry
}

// Clone returns a deep copy of the item.
func (it SidebarItem) Clone() SidebarItem {
	return SidebarItem{Prefix: it.Prefix, Structure: it.Structure, Entries: cloneEntries(it.Entries)}
}

// Sidebar is an ordered mapping from URL prefix to menu.
type Sidebar struct {
	items []SidebarItem
	index map[string]int
}

// NewSidebar builds a sidebar from items, rejecting duplicate prefixes.
func NewSidebar(items ...SidebarItem) (*Sidebar, error) {
	s := &Sidebar{}
	for _, it := range items {
		if err := s.Add(it); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends an item. Prefixes are unique.
func (s *Sidebar) Add(item SidebarItem) error {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, exists := s.index[item.Prefix]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePrefix, item.Prefix)
	}
	s.index[item.Prefix] = len(s.items)
	s.items = append(s.items, item)
	return nil
}

// AddStructure declares prefix as auto-derived from the content directory.
func (s *Sidebar) AddStructure(prefix string) error {
	return s.Add(SidebarItem{Prefix: prefix, Structure: true})
}

// AddEntries declares prefix with an explicit menu.
func (s *Sidebar) AddEntries(prefix string, entries ...Entry) error {
	return s.Add(SidebarItem{Prefix: prefix, Entries: entries})
}

// Len returns the number of prefixes.
func (s *Sidebar) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the items in declaration order.
func (s *Sidebar) Items() []SidebarItem {
	if s == nil {
		return nil
	}
	out := make([]SidebarItem, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the item declared for prefix.
func (s *Sidebar) Get(prefix string) (SidebarItem, bool) {
	if s == nil {
		return SidebarItem{}, false
	}
	i, ok := s.index[prefix]
	if !ok {
		return SidebarItem{}, false
	}
	return s.items[i], true
}

// Prefixes returns the declared prefixes in order.
func (s *Sidebar) Prefixes() []string {
	out := make([]string, 0, s.Len())
	for _, it := range s.Items() {
		out = append(out, it.Prefix)
	}
	return out
}

// Clone returns a deep copy.
func (s *Sidebar) Clone() *Sidebar {
	out := &Sidebar{}
	for _, it := range s.Items() {
		_ = out.Add(it.Clone())
	}
	return out
}

func (it SidebarItem) wireValue() any {
	if it.Structure {
		return StructureSentinel
	}
	if it.Entries == nil {
		return []Entry{}
	}
	return it.Entries
}

// MarshalYAML emits a mapping in declaration order.
func (s *Sidebar) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, it := range s.Items() {
		var value yaml.Node
		if err := value.Encode(it.wireValue()); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: it.Prefix},
			&value,
		)
	}
	return node, nil
}

// UnmarshalYAML decodes a mapping, keeping key order and rejecting duplicates.
func (s *Sidebar) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.AliasNode {
		return s.UnmarshalYAML(value.Alias)
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: sidebar must be a mapping of prefix to menu", value.Line)
	}
	out := Sidebar{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: sidebar prefix must be a string", key.Line)
		}
		item := SidebarItem{Prefix: key.Value}
		if val.Kind == yaml.AliasNode {
			val = val.Alias
		}
		switch val.Kind {
		case yaml.ScalarNode:
			if val.Value != StructureSentinel {
				return fmt.Errorf("line %d: sidebar %q must be %q or a list, got %q", val.Line, key.Value, StructureSentinel, val.Value)
			}
			item.Structure = true
		case yaml.SequenceNode:
			entries := make([]Entry, 0, len(val.Content))
			if err := val.Decode(&entries); err != nil {
				return err
			}
			item.Entries = entries
		default:
			return fmt.Errorf("line %d: sidebar %q must be %q or a list", val.Line, key.Value, StructureSentinel)
		}
		if err := out.Add(item); err != nil {
			return fmt.Errorf("line %d: %w", key.Line, err)
		}
	}
	*s = out
	return nil
}

// MarshalJSON emits an object in declaration order.
func (s *Sidebar) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, it := range s.Items() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(it.Prefix)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(it.wireValue())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, keeping key order and rejecting duplicates.
func (s *Sidebar) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("sidebar must be an object of prefix to menu")
	}
	out := Sidebar{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		prefix, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		item := SidebarItem{Prefix: prefix}
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '"' {
			var sentinel string
			if err := json.Unmarshal(raw, &sentinel); err != nil {
				return err
			}
			if sentinel != StructureSentinel {
				return fmt.Errorf("sidebar %q must be %q or a list, got %q", prefix, StructureSentinel, sentinel)
			}
			item.Structure = true
		} else if err := json.Unmarshal(raw, &item.Entries); err != nil {
			return fmt.Errorf("sidebar %q: %w", prefix, err)
		}
		if err := out.Add(item); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	*s = out
	return nil
}
