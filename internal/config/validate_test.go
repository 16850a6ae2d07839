package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{Site: Site{Title: "Blog"}}
	applyDefaults(cfg)
	return cfg
}

func fields(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	fe, ok := err.(FieldErrors)
	require.True(t, ok, "expected FieldErrors, got %T", err)
	out := make([]string, len(fe))
	for i, e := range fe {
		out[i] = e.Field
	}
	return out
}

func TestValidate_Example(t *testing.T) {
	require.NoError(t, Validate(Example()))
}

func TestValidate_Site(t *testing.T) {
	cfg := validConfig()
	cfg.Site.Base = "/blog"
	cfg.Site.Lang = "!!"
	cfg.Site.Title = " "
	assert.Equal(t, []string{"site.base", "site.lang", "site.title"}, fields(t, Validate(cfg)))
}

func TestValidate_Hostname(t *testing.T) {
	for _, bad := range []string{"www.icestream32.cn", "ftp://example.com", "https://", "https://exa mple.com"} {
		cfg := validConfig()
		cfg.Theme.Hostname = bad
		assert.Equal(t, []string{"theme.hostname"}, fields(t, Validate(cfg)), bad)
	}
	cfg := validConfig()
	cfg.Theme.Hostname = "https://bücher.example"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_IconAssets(t *testing.T) {
	for _, good := range []string{"fontawesome-with-brands", "iconify", "//at.alicdn.com/t/font.css", "https://example.com/icons.css"} {
		cfg := validConfig()
		cfg.Theme.IconAssets = good
		assert.NoError(t, Validate(cfg), good)
	}
	cfg := validConfig()
	cfg.Theme.IconAssets = "material"
	assert.Equal(t, []string{"theme.iconAssets"}, fields(t, Validate(cfg)))
}

func TestValidate_MediasAndEncrypt(t *testing.T) {
	cfg := validConfig()
	cfg.Theme.Blog = &Blog{Medias: map[string]Media{
		"Email":  {Link: "icestream32@163.com"},
		"Gmail":  {Link: "mailto:ice1601334224@gmail.com"},
		"GitHub": {Link: "https://github.com/icestream32"},
		"Named":  {Link: "Ice <icestream32@163.com>"},
		"QQ":     {Link: "wpa.qq.com"},
		"WeChat": {Icon: "wechat.svg"},
	}}
	cfg.Theme.Encrypt = &Encrypt{Config: map[string]Passwords{
		"notes/": {"x"},
		"/ok/":   {""},
	}}
	assert.Equal(t, []string{
		"theme.blog.medias.Named",
		"theme.blog.medias.QQ",
		"theme.blog.medias.WeChat",
		`theme.encrypt.config["/ok/"][0]`,
		`theme.encrypt.config["notes/"]`,
	}, fields(t, Validate(cfg)))
}

func TestValidate_DocsDir(t *testing.T) {
	for _, bad := range []string{"../outside", "..", "docs/../../x", "/abs/src"} {
		cfg := validConfig()
		cfg.Theme.DocsDir = bad
		assert.Equal(t, []string{"theme.docsDir"}, fields(t, Validate(cfg)), bad)
	}
	for _, good := range []string{"src", "my..docs", "docs/v1..2", "site/../src", "."} {
		cfg := validConfig()
		cfg.Theme.DocsDir = good
		assert.NoError(t, Validate(cfg), good)
	}
}
