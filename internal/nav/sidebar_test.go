package nav

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSidebar_AddRejectsDuplicatePrefix(t *testing.T) {
	s := &Sidebar{}
	require.NoError(t, s.AddStructure("/posts/"))
	err := s.AddEntries("/posts/", Page("a.md"))
	require.ErrorIs(t, err, ErrDuplicatePrefix)
	assert.Equal(t, 1, s.Len())

	_, err = NewSidebar(SidebarItem{Prefix: "/"}, SidebarItem{Prefix: "/"})
	require.ErrorIs(t, err, ErrDuplicatePrefix)
}

func TestSidebar_DecodeYAML_KeepsOrder(t *testing.T) {
	input := `
/: structure
/category/: structure
/tag/: structure
/posts/:
  - README.md
  - text: Go
    prefix: go/
    children: structure
`
	var s Sidebar
	require.NoError(t, yaml.Unmarshal([]byte(input), &s))
	assert.Equal(t, []string{"/", "/category/", "/tag/", "/posts/"}, s.Prefixes())

	posts, ok := s.Get("/posts/")
	require.True(t, ok)
	assert.False(t, posts.Structure)
	require.Len(t, posts.Entries, 2)
	assert.True(t, posts.Entries[1].ChildrenStructure)
}

func TestSidebar_DecodeYAML_DuplicateKey(t *testing.T) {
	input := "/: structure\n/posts/: structure\n/posts/: [a.md]\n"
	var s Sidebar
	err := yaml.Unmarshal([]byte(input), &s)
	require.ErrorIs(t, err, ErrDuplicatePrefix)
	assert.Contains(t, err.Error(), "line 3")
}

func TestSidebar_DecodeYAML_BadSentinel(t *testing.T) {
	var s Sidebar
	err := yaml.Unmarshal([]byte("/: auto\n"), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"structure"`)
}

func TestSidebar_Marshal_PreservesOrder(t *testing.T) {
	s, err := NewSidebar(
		SidebarItem{Prefix: "/zeta/", Structure: true},
		SidebarItem{Prefix: "/alpha/", Entries: []Entry{Page("a.md")}},
		SidebarItem{Prefix: "/", Structure: true},
	)
	require.NoError(t, err)

	y, err := yaml.Marshal(s)
	require.NoError(t, err)
	var decoded Sidebar
	require.NoError(t, yaml.Unmarshal(y, &decoded))
	assert.Equal(t, []string{"/zeta/", "/alpha/", "/"}, decoded.Prefixes())
	assert.Contains(t, string(y), "/zeta/: structure")

	j, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"/zeta/":"structure","/alpha/":["a.md"],"/":"structure"}`, string(j))

	var back Sidebar
	require.NoError(t, json.Unmarshal(j, &back))
	assert.Equal(t, s.Prefixes(), back.Prefixes())
}

func TestSidebar_UnmarshalJSON_DuplicateKey(t *testing.T) {
	var s Sidebar
	err := json.Unmarshal([]byte(`{"/":"structure","/":"structure"}`), &s)
	require.ErrorIs(t, err, ErrDuplicatePrefix)
}
