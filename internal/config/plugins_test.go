package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValidatePlugins_Nil(t *testing.T) {
	assert.NoError(t, ValidatePlugins(nil))
	assert.NoError(t, ValidatePlugins(&Plugins{}))
}

func TestValidatePlugins(t *testing.T) {
	tests := []struct {
		name    string
		plugins Plugins
		want    []string
	}{
		{
			name:    "shiki themes need both modes",
			plugins: Plugins{Shiki: &Shiki{Themes: &ShikiThemes{Light: "one-light"}}},
			want:    []string{"theme.plugins.shiki.themes.dark"},
		},
		{
			name:    "negative copyright trigger",
			plugins: Plugins{Copyright: &Copyright{TriggerLength: -1}},
			want:    []string{"theme.plugins.copyright.triggerLength"},
		},
		{
			name:    "unknown component",
			plugins: Plugins{Components: &Components{Components: []string{"Badge", "Carousel"}}},
			want:    []string{"theme.plugins.components.components[1]"},
		},
		{
			name:    "math renderer",
			plugins: Plugins{MarkdownMath: &MarkdownMath{Type: "latex"}},
			want:    []string{"theme.plugins.markdownMath.type"},
		},
		{
			name:    "stylize matcher",
			plugins: Plugins{MdEnhance: &MarkdownEnhance{Stylize: []StylizeRule{{Replace: &StylizeReplace{}}}}},
			want:    []string{"theme.plugins.mdEnhance.stylize[0].matcher", "theme.plugins.mdEnhance.stylize[0].replace.tag"},
		},
		{
			name:    "giscus fields",
			plugins: Plugins{Comment: &Comment{Provider: "Giscus", Repo: "icestream32/blog"}},
			want: []string{
				"theme.plugins.comment.repoId",
				"theme.plugins.comment.category",
				"theme.plugins.comment.categoryId",
			},
		},
		{
			name:    "waline server",
			plugins: Plugins{Comment: &Comment{Provider: "Waline", ServerURL: "waline.example.com"}},
			want:    []string{"theme.plugins.comment.serverURL"},
		},
		{
			name:    "twikoo env",
			plugins: Plugins{Comment: &Comment{Provider: "Twikoo"}},
			want:    []string{"theme.plugins.comment.envId"},
		},
		{
			name:    "unknown provider",
			plugins: Plugins{Comment: &Comment{Provider: "Disqus"}},
			want:    []string{"theme.plugins.comment.provider"},
		},
		{
			name:    "docsearch credentials",
			plugins: Plugins{Docsearch: &Docsearch{AppID: "app"}},
			want:    []string{"theme.plugins.docsearch.apiKey", "theme.plugins.docsearch.indexName"},
		},
		{
			name:    "icon assets",
			plugins: Plugins{Icon: &IconPlugin{Assets: "material"}},
			want:    []string{"theme.plugins.icon.assets"},
		},
		{
			name:    "reveal plugins",
			plugins: Plugins{Revealjs: &Revealjs{Plugins: []string{"zoom", "laser"}}},
			want:    []string{"theme.plugins.revealjs.plugins[1]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fields(t, ValidatePlugins(&tt.plugins)))
		})
	}
}

func TestValidatePlugins_ValidComment(t *testing.T) {
	p := &Plugins{Comment: &Comment{
		Provider:   "Giscus",
		Repo:       "icestream32/blog",
		RepoID:     "R_1",
		Category:   "Announcements",
		CategoryID: "DIC_1",
	}}
	assert.NoError(t, ValidatePlugins(p))
}

func TestPlugins_ExtraSurvivesRoundTrip(t *testing.T) {
	var p Plugins
	require.NoError(t, yaml.Unmarshal([]byte("prismjs: true\nfeed:\n  rss: true\nsitemap: false\n"), &p))
	assert.Equal(t, map[string]any{"feed": map[string]any{"rss": true}, "sitemap": false}, p.Extra)

	out, err := yaml.Marshal(&p)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, map[string]any{"prismjs": true, "feed": map[string]any{"rss": true}, "sitemap": false}, back)
}

func TestMedia_YAML(t *testing.T) {
	var m map[string]Media
	require.NoError(t, yaml.Unmarshal([]byte("a: https://a.example\nb:\n  icon: b.svg\n  link: https://b.example\n"), &m))
	assert.Equal(t, Media{Link: "https://a.example"}, m["a"])
	assert.Equal(t, Media{Icon: "b.svg", Link: "https://b.example"}, m["b"])

	var bad Media
	assert.Error(t, yaml.Unmarshal([]byte("[x]"), &bad))

	out, err := yaml.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(out), "a: https://a.example\n")
}

func TestToggle_YAML(t *testing.T) {
	var p Plugins
	require.NoError(t, yaml.Unmarshal([]byte("blog:\n  excerptLength: 0\nprismjs: false\nmarkdownTab: true\n"), &p))
	assert.Equal(t, &Toggle{Enabled: true, Options: map[string]any{"excerptLength": 0}}, p.Blog)
	assert.Equal(t, &Toggle{Enabled: false}, p.Prismjs)
	assert.Equal(t, &Toggle{Enabled: true}, p.MarkdownTab)

	out, err := yaml.Marshal(&p)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, map[string]any{"excerptLength": 0}, back["blog"])
	assert.Equal(t, false, back["prismjs"])
	assert.Equal(t, true, back["markdownTab"])

	var bad Plugins
	assert.Error(t, yaml.Unmarshal([]byte("prismjs: sometimes\n"), &bad))
	assert.Error(t, yaml.Unmarshal([]byte("blog: [a]\n"), &bad))
}
