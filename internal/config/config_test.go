package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/navbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/navbuilder/internal/nav"
)

const siteConfig = `
site:
  lang: zh-CN
  title: ICESTREAM32
  description: icestream32 的博客
theme:
  hostname: https://www.icestream32.cn
  author:
    name: icestream32
    url: https://www.icestream32.cn
  navbar:
    - /
    - text: 博客文章
      icon: book
      link: /posts/README.md
  sidebar:
    /: structure
    /posts/: structure
  blog:
    medias:
      Email: mailto:icestream32@163.com
      VuePressThemeHope:
        icon: https://theme-hope-assets.vuejs.press/logo.svg
        link: https://theme-hope.vuejs.press
  encrypt:
    config:
      /notes/private/: secret
  plugins:
    shiki:
      themes:
        light: one-light
        dark: one-dark-pro
    prismjs: true
    components:
      components: [Badge, VPCard]
    mdEnhance:
      align: true
      tasklist: true
      stylize:
        - matcher: Recommended
    feed:
      rss: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "navbuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_SiteConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, siteConfig), WithoutEnvFiles())
	require.NoError(t, err)

	assert.Equal(t, "ICESTREAM32", cfg.Site.Title)
	assert.Equal(t, "zh-CN", cfg.Site.Lang)
	require.Len(t, cfg.Theme.Navbar, 2)
	assert.Equal(t, nav.Page("/"), cfg.Theme.Navbar[0])
	assert.Equal(t, "/posts/README.md", cfg.Theme.Navbar[1].Link)
	assert.Equal(t, []string{"/", "/posts/"}, cfg.Theme.Sidebar.Prefixes())

	medias := cfg.Theme.Blog.Medias
	assert.Equal(t, Media{Link: "mailto:icestream32@163.com"}, medias["Email"])
	assert.Equal(t, "https://theme-hope.vuejs.press", medias["VuePressThemeHope"].Link)
	assert.Equal(t, Passwords{"secret"}, cfg.Theme.Encrypt.Config["/notes/private/"])

	p := cfg.Theme.Plugins
	require.NotNil(t, p)
	assert.Equal(t, "one-dark-pro", p.Shiki.Themes.Dark)
	assert.Equal(t, &Toggle{Enabled: true}, p.Prismjs)
	assert.Equal(t, map[string]bool{"align": true, "tasklist": true}, p.MdEnhance.Features)
	assert.Equal(t, "Recommended", p.MdEnhance.Stylize[0].Matcher)
	assert.Equal(t, map[string]any{"rss": true}, p.Extra["feed"])
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "site:\n  title: Blog\n"), WithoutEnvFiles())
	require.NoError(t, err)

	assert.Equal(t, DefaultBase, cfg.Site.Base)
	assert.Equal(t, DefaultLang, cfg.Site.Lang)
	assert.Equal(t, DefaultDocsDir, cfg.Theme.DocsDir)
	assert.Equal(t, DefaultIconAssets, cfg.Theme.IconAssets)
	assert.True(t, cfg.Theme.DisplaysFooter())
}

func TestLoad_DisplayFooterFalseIsKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, "site:\n  title: Blog\ntheme:\n  displayFooter: false\n"), WithoutEnvFiles())
	require.NoError(t, err)
	assert.False(t, cfg.Theme.DisplaysFooter())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), WithoutEnvFiles())
	require.Error(t, err)
	assert.Equal(t, ferrors.CategoryNotFound, ferrors.GetCategory(err))
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(writeConfig(t, "site: [unclosed\n"), WithoutEnvFiles())
	require.Error(t, err)
	assert.Equal(t, ferrors.CategoryConfig, ferrors.GetCategory(err))

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	path, _ := ce.Context().GetString("path")
	assert.NotEmpty(t, path)
}

func TestLoad_DuplicateSidebarPrefix(t *testing.T) {
	_, err := Load(writeConfig(t, "site:\n  title: Blog\ntheme:\n  sidebar:\n    /: structure\n    /: structure\n"), WithoutEnvFiles())
	require.Error(t, err)
	assert.ErrorIs(t, err, nav.ErrDuplicatePrefix)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("NAVBUILDER_TEST_TITLE", "From Env")
	cfg, err := Load(writeConfig(t, "site:\n  title: ${NAVBUILDER_TEST_TITLE}\n"), WithoutEnvFiles())
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Site.Title)
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	const key = "NAVBUILDER_TEST_DOTENV_HOST"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=https://blog.example.org\n"), 0o644))
	path := filepath.Join(dir, "navbuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  title: Blog\ntheme:\n  hostname: ${"+key+"}\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.org", cfg.Theme.Hostname)
}

type recordingChecker struct {
	doc any
	err error
}

func (c *recordingChecker) Validate(doc any) error {
	c.doc = doc
	return c.err
}

func TestLoad_SchemaChecker(t *testing.T) {
	path := writeConfig(t, "site:\n  title: Blog\n")

	ok := &recordingChecker{}
	_, err := Load(path, WithoutEnvFiles(), WithSchema(ok))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"site": map[string]any{"title": "Blog"}}, ok.doc)

	failing := &recordingChecker{err: errors.New("/site: missing title")}
	_, err = Load(path, WithoutEnvFiles(), WithSchema(failing))
	require.Error(t, err)
	assert.Equal(t, ferrors.CategorySchema, ferrors.GetCategory(err))
}

func TestLoad_InvalidSettings(t *testing.T) {
	_, err := Load(writeConfig(t, "site:\n  title: Blog\n  base: docs\n"), WithoutEnvFiles())
	require.Error(t, err)
	assert.Equal(t, ferrors.CategoryValidation, ferrors.GetCategory(err))

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "site.base", fe[0].Field)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navbuilder.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path, WithoutEnvFiles())
	require.NoError(t, err)
	assert.Equal(t, Example().Site, cfg.Site)
	assert.Equal(t, Example().Theme.Navbar, cfg.Theme.Navbar)
	assert.Equal(t, []string{"/", "/posts/"}, cfg.Theme.Sidebar.Prefixes())
	assert.Equal(t, Example().Theme.Plugins.MdEnhance, cfg.Theme.Plugins.MdEnhance)

	err = Init(path, false)
	require.Error(t, err)
	assert.Equal(t, ferrors.CategoryConfig, ferrors.GetCategory(err))

	require.NoError(t, Init(path, true))
}

func TestContentRoot(t *testing.T) {
	cfg := &Config{Theme: Theme{DocsDir: "docs/src"}}
	assert.Equal(t, filepath.Join("site", "docs", "src"), ContentRoot(filepath.Join("site", DefaultPath), cfg))
	assert.Equal(t, "src", ContentRoot(DefaultPath, &Config{Theme: Theme{DocsDir: DefaultDocsDir}}))
}
