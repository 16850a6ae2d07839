package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
)

// Plugins configures the theme plugins. Keys without a typed field are kept
// in Extra and passed through untouched.
type Plugins struct {
	Shiki         *Shiki           `yaml:"shiki,omitempty"`
	Prismjs       *Toggle          `yaml:"prismjs,omitempty"`
	Watermark     *Watermark       `yaml:"watermark,omitempty"`
	Copyright     *Copyright       `yaml:"copyright,omitempty"`
	Blog          *Toggle          `yaml:"blog,omitempty"`
	Components    *Components      `yaml:"components,omitempty"`
	MarkdownImage *MarkdownImage   `yaml:"markdownImage,omitempty"`
	MarkdownMath  *MarkdownMath    `yaml:"markdownMath,omitempty"`
	MarkdownTab   *Toggle          `yaml:"markdownTab,omitempty"`
	MdEnhance     *MarkdownEnhance `yaml:"mdEnhance,omitempty"`
	Comment       *Comment         `yaml:"comment,omitempty"`
	Docsearch     *Docsearch       `yaml:"docsearch,omitempty"`
	Slimsearch    *Slimsearch      `yaml:"slimsearch,omitempty"`
	Icon          *IconPlugin      `yaml:"icon,omitempty"`
	Revealjs      *Revealjs        `yaml:"revealjs,omitempty"`
	Extra         map[string]any   `yaml:",inline"`
}

// JSONSchemaExtend lets unknown plugins through.
func (Plugins) JSONSchemaExtend(s *jsonschema.Schema) {
	s.AdditionalProperties = nil
}

// Shiki configures code highlighting with shiki.
type Shiki struct {
	Theme  string       `yaml:"theme,omitempty"`
	Themes *ShikiThemes `yaml:"themes,omitempty"`
}

// ShikiThemes selects separate light and dark themes.
type ShikiThemes struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// Watermark configures the page watermark.
type Watermark struct {
	Enabled bool   `yaml:"enabled"`
	Content string `yaml:"content,omitempty"`
}

// Copyright configures the copy notice appended to copied text.
type Copyright struct {
	Global        bool   `yaml:"global,omitempty"`
	TriggerLength int    `yaml:"triggerLength,omitempty"`
	Author        string `yaml:"author,omitempty"`
	License       string `yaml:"license,omitempty"`
}

// Components lists the registered markdown components.
type Components struct {
	Components []string `yaml:"components,omitempty"`
}

// MarkdownImage toggles image syntax extensions.
type MarkdownImage struct {
	Figure   bool `yaml:"figure,omitempty"`
	Lazyload bool `yaml:"lazyload,omitempty"`
	Mark     bool `yaml:"mark,omitempty"`
	Size     bool `yaml:"size,omitempty"`
}

// MarkdownMath selects the math renderer.
type MarkdownMath struct {
	Type string `yaml:"type"`
}

// MarkdownEnhance is a feature toggle map plus stylize rules.
type MarkdownEnhance struct {
	Stylize  []StylizeRule   `yaml:"stylize,omitempty"`
	Features map[string]bool `yaml:",inline"`
}

// JSONSchemaExtend allows any boolean feature toggle.
func (MarkdownEnhance) JSONSchemaExtend(s *jsonschema.Schema) {
	s.AdditionalProperties = &jsonschema.Schema{Type: "boolean"}
}

// StylizeRule rewrites matching inline tokens.
type StylizeRule struct {
	Matcher string          `yaml:"matcher"`
	Replace *StylizeReplace `yaml:"replace,omitempty"`
}

// StylizeReplace is the element a matched token becomes.
type StylizeReplace struct {
	Tag     string            `yaml:"tag"`
	Attrs   map[string]string `yaml:"attrs,omitempty"`
	Content string            `yaml:"content,omitempty"`
}

// Comment configures the comment service.
type Comment struct {
	Provider   string `yaml:"provider"`
	Repo       string `yaml:"repo,omitempty"`
	RepoID     string `yaml:"repoId,omitempty"`
	Category   string `yaml:"category,omitempty"`
	CategoryID string `yaml:"categoryId,omitempty"`
	ServerURL  string `yaml:"serverURL,omitempty"`
	EnvID      string `yaml:"envId,omitempty"`
}

// Docsearch configures Algolia DocSearch.
type Docsearch struct {
	AppID     string `yaml:"appId"`
	APIKey    string `yaml:"apiKey"`
	IndexName string `yaml:"indexName"`
}

// Slimsearch configures the local search index.
type Slimsearch struct {
	Indexing   bool `yaml:"indexing,omitempty"`
	Suggestion bool `yaml:"suggestion,omitempty"`
}

// IconPlugin configures icon rendering.
type IconPlugin struct {
	Assets string `yaml:"assets,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
}

// Revealjs configures slide rendering.
type Revealjs struct {
	Plugins []string `yaml:"plugins,omitempty"`
	Themes  []string `yaml:"themes,omitempty"`
}

var (
	knownComponents = []string{
		"ArtPlayer", "Badge", "BiliBili", "CodePen", "FontIcon", "PDF", "Share",
		"SiteInfo", "StackBlitz", "VPBanner", "VPCard", "VidStack", "XiGua",
	}
	knownRevealPlugins = []string{"highlight", "math", "search", "notes", "zoom"}
	mathRenderers      = []string{"katex", "mathjax"}
)

// ValidatePlugins checks the typed plugin settings.
func ValidatePlugins(p *Plugins) error {
	v := &validator{}
	v.plugins("theme.plugins", p)
	return v.err()
}

func (v *validator) plugins(field string, p *Plugins) {
	if p == nil {
		return
	}
	if s := p.Shiki; s != nil {
		if s.Themes != nil {
			v.require(field+".shiki.themes.light", s.Themes.Light)
			v.require(field+".shiki.themes.dark", s.Themes.Dark)
		}
	}
	if c := p.Copyright; c != nil && c.TriggerLength < 0 {
		v.add(field+".copyright.triggerLength", "must not be negative")
	}
	if c := p.Components; c != nil {
		for i, name := range c.Components {
			if !slices.Contains(knownComponents, name) {
				v.add(fmt.Sprintf("%s.components.components[%d]", field, i),
					"unknown component %q (known: %s)", name, strings.Join(knownComponents, ", "))
			}
		}
	}
	if m := p.MarkdownMath; m != nil && !slices.Contains(mathRenderers, m.Type) {
		v.add(field+".markdownMath.type", "must be one of %s, got %q", strings.Join(mathRenderers, ", "), m.Type)
	}
	if e := p.MdEnhance; e != nil {
		for i, rule := range e.Stylize {
			loc := fmt.Sprintf("%s.mdEnhance.stylize[%d]", field, i)
			v.require(loc+".matcher", rule.Matcher)
			if rule.Replace != nil {
				v.require(loc+".replace.tag", rule.Replace.Tag)
			}
		}
	}
	if c := p.Comment; c != nil {
		v.comment(field+".comment", c)
	}
	if d := p.Docsearch; d != nil {
		v.require(field+".docsearch.appId", d.AppID)
		v.require(field+".docsearch.apiKey", d.APIKey)
		v.require(field+".docsearch.indexName", d.IndexName)
	}
	if i := p.Icon; i != nil && i.Assets != "" {
		v.iconAssets(field+".icon.assets", i.Assets)
	}
	if r := p.Revealjs; r != nil {
		for i, name := range r.Plugins {
			if !slices.Contains(knownRevealPlugins, name) {
				v.add(fmt.Sprintf("%s.revealjs.plugins[%d]", field, i), "unknown reveal.js plugin %q", name)
			}
		}
	}
}

func (v *validator) comment(field string, c *Comment) {
	switch c.Provider {
	case "Giscus":
		v.require(field+".repo", c.Repo)
		v.require(field+".repoId", c.RepoID)
		v.require(field+".category", c.Category)
		v.require(field+".categoryId", c.CategoryID)
	case "Waline", "Artalk":
		v.require(field+".serverURL", c.ServerURL)
		if c.ServerURL != "" {
			v.httpURL(field+".serverURL", c.ServerURL)
		}
	case "Twikoo":
		v.require(field+".envId", c.EnvID)
	case "":
		v.add(field+".provider", "is required")
	default:
		v.add(field+".provider", "unknown provider %q (known: Giscus, Waline, Artalk, Twikoo)", c.Provider)
	}
}
