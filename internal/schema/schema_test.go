package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/navbuilder/internal/config"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	require.NoError(t, err)
	return v
}

func decode(t *testing.T, src string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(src), &doc))
	return doc
}

func violations(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	locs := make([]string, 0, len(serr.Violations))
	for _, v := range serr.Violations {
		locs = append(locs, v.Location)
	}
	return locs
}

func TestGenerate(t *testing.T) {
	data, err := Generate()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", doc["$schema"])
	assert.Equal(t, []any{"site"}, doc["required"])

	defs, ok := doc["$defs"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, defs, "Entry")
	assert.Contains(t, defs, "Sidebar")
	assert.Contains(t, defs, "Theme")
}

func TestValidate_ExampleConfig(t *testing.T) {
	data, err := yaml.Marshal(config.Example())
	require.NoError(t, err)

	cfg, err := config.Parse(data, newValidator(t))
	require.NoError(t, err)
	assert.Len(t, cfg.Theme.Navbar, 4)
}

func TestValidate_SiteConfig(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "icestream32.yaml"))
	require.NoError(t, err)

	cfg, err := config.Parse(data, newValidator(t))
	require.NoError(t, err)

	assert.Equal(t, "ICESTREAM32", cfg.Site.Title)
	assert.Equal(t, config.Media{Link: "icestream32@163.com"}, cfg.Theme.Blog.Medias["Email"])
	assert.Equal(t, []string{"/", "/category/", "/tag/", "/posts/"}, cfg.Theme.Sidebar.Prefixes())
	assert.True(t, cfg.Theme.Plugins.Blog.Enabled)
	assert.True(t, cfg.Theme.Plugins.MdEnhance.Features["plantuml"])
	assert.True(t, cfg.Theme.HotReload)
}

func TestValidate_PluginToggles(t *testing.T) {
	v := newValidator(t)
	require.NoError(t, v.Validate(decode(t, `{"site": {"title": "Blog"}, "theme": {"plugins": {"blog": {"excerptLength": 0}, "prismjs": false}}}`)))
	assert.Contains(t, violations(t, v.Validate(decode(t, `{"site": {"title": "Blog"}, "theme": {"plugins": {"prismjs": "yes"}}}`))), "/theme/plugins/prismjs")
}

func TestValidate_Navbar(t *testing.T) {
	v := newValidator(t)

	require.NoError(t, v.Validate(decode(t, `{
		"site": {"title": "Blog"},
		"theme": {"navbar": ["/", {"text": "Posts", "icon": "book", "link": "/posts/README.md"},
			{"text": "Go", "prefix": "/go/", "children": "structure"}]}
	}`)))

	assert.Contains(t, violations(t, v.Validate(decode(t, `{"site": {"title": "Blog"}, "theme": {"navbar": [42]}}`))), "/theme/navbar/0")
	assert.Contains(t, violations(t, v.Validate(decode(t, `{"site": {"title": "Blog"}, "theme": {"navbar": [""]}}`))), "/theme/navbar/0")
	assert.Contains(t, violations(t, v.Validate(decode(t, `{"site": {"title": "Blog"}, "theme": {"navbar": [{"link": "/x/"}]}}`))), "/theme/navbar/0")
	assert.Contains(t, violations(t, v.Validate(decode(t, `{"site": {"title": "Blog"}, "theme": {"navbar": [{"text": "x", "url": "/x/"}]}}`))), "/theme/navbar/0")
	assert.Contains(t, violations(t, v.Validate(decode(t, `{"site": {"title": "Blog"}, "theme": {"navbar": [{"text": "x", "children": "auto"}]}}`))), "/theme/navbar/0/children")
}

func TestValidate_Sidebar(t *testing.T) {
	v := newValidator(t)

	require.NoError(t, v.Validate(decode(t, `{"site": {"title": "Blog"}, "theme": {"sidebar": {"/": "structure", "/posts/": ["a.md"]}}}`)))

	assert.Contains(t, violations(t, v.Validate(decode(t, `{"site": {"title": "Blog"}, "theme": {"sidebar": {"/": "auto"}}}`))), "/theme/sidebar/~1")
	assert.NotEmpty(t, violations(t, v.Validate(decode(t, `{"site": {"title": "Blog"}, "theme": {"sidebar": {"posts/": "structure"}}}`))))
}

func TestValidate_UnknownKeys(t *testing.T) {
	v := newValidator(t)

	assert.Contains(t, violations(t, v.Validate(decode(t, `{"site": {"title": "Blog"}, "theme": {"colour": "blue"}}`))), "/theme")
	assert.Contains(t, violations(t, v.Validate(decode(t, `{"site": {}}`))), "/site")

	require.NoError(t, v.Validate(decode(t, `{"site": {"title": "Blog"}, "theme": {"plugins": {"feed": {"rss": true}, "mdEnhance": {"tasklist": true}}}}`)))
	assert.NotEmpty(t, violations(t, v.Validate(decode(t, `{"site": {"title": "Blog"}, "theme": {"plugins": {"mdEnhance": {"tasklist": "yes"}}}}`))))
}
