package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/navbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/navbuilder/internal/logfields"
	"git.home.luguber.info/inful/navbuilder/internal/nav"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "navbuilder.yaml"

// Config is the site configuration: global site settings plus the theme block.
type Config struct {
	Site  Site  `yaml:"site" jsonschema:"required,description=Global site settings"`
	Theme Theme `yaml:"theme,omitempty" jsonschema:"description=Theme settings including navigation and plugins"`
}

// Site holds the settings shared by every page.
type Site struct {
	Base        string `yaml:"base,omitempty" jsonschema:"description=URL base path the site is deployed under,default=/"`
	Lang        string `yaml:"lang,omitempty" jsonschema:"description=BCP 47 language tag,default=en-US"`
	Title       string `yaml:"title" jsonschema:"required,minLength=1,description=Site title"`
	Description string `yaml:"description,omitempty" jsonschema:"description=Site description used in meta tags"`
}

// Theme is the theme-level configuration.
type Theme struct {
	Hostname      string            `yaml:"hostname,omitempty" jsonschema:"description=Absolute URL the site is served from"`
	Author        *Author           `yaml:"author,omitempty"`
	IconAssets    string            `yaml:"iconAssets,omitempty" jsonschema:"description=Icon asset set or stylesheet URL,default=fontawesome"`
	Logo          string            `yaml:"logo,omitempty"`
	Repo          string            `yaml:"repo,omitempty" jsonschema:"description=Source repository as owner/name or URL"`
	DocsDir       string            `yaml:"docsDir,omitempty" jsonschema:"description=Content directory relative to the repository root,default=src"`
	DocsBranch    string            `yaml:"docsBranch,omitempty"`
	Navbar        []nav.Entry       `yaml:"navbar,omitempty" jsonschema:"description=Top navigation bar"`
	Sidebar       *nav.Sidebar      `yaml:"sidebar,omitempty" jsonschema:"description=Sidebar menus keyed by URL prefix"`
	Footer        string            `yaml:"footer,omitempty"`
	License       string            `yaml:"license,omitempty"`
	DisplayFooter *bool             `yaml:"displayFooter,omitempty" jsonschema:"default=true"`
	Blog          *Blog             `yaml:"blog,omitempty"`
	Encrypt       *Encrypt          `yaml:"encrypt,omitempty"`
	MetaLocales   map[string]string `yaml:"metaLocales,omitempty"`
	HotReload     bool              `yaml:"hotReload,omitempty"`
	Plugins       *Plugins          `yaml:"plugins,omitempty"`
}

// Author identifies the site author.
type Author struct {
	Name  string `yaml:"name" jsonschema:"required,minLength=1"`
	URL   string `yaml:"url,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// Blog configures the blog homepage and author card.
type Blog struct {
	Description string           `yaml:"description,omitempty"`
	Intro       string           `yaml:"intro,omitempty"`
	Avatar      string           `yaml:"avatar,omitempty"`
	Medias      map[string]Media `yaml:"medias,omitempty" jsonschema:"description=Social links shown on the author card"`
}

// Encrypt configures password protected paths.
type Encrypt struct {
	Global bool                 `yaml:"global,omitempty"`
	Admin  Passwords            `yaml:"admin,omitempty"`
	Config map[string]Passwords `yaml:"config,omitempty" jsonschema:"description=Passwords keyed by protected path"`
}

// DisplaysFooter reports the effective displayFooter value.
func (t Theme) DisplaysFooter() bool {
	return t.DisplayFooter == nil || *t.DisplayFooter
}

// ContentRoot returns the content directory of cfg, which was loaded from
// path. DocsDir is relative to the directory holding the configuration file.
func ContentRoot(path string, cfg *Config) string {
	return filepath.Join(filepath.Dir(path), filepath.FromSlash(cfg.Theme.DocsDir))
}

// DocumentChecker validates the raw configuration document before it is used.
type DocumentChecker interface {
	Validate(doc any) error
}

type loadOptions struct {
	checker  DocumentChecker
	envFiles bool
}

// LoadOption customizes Load.
type LoadOption func(*loadOptions)

// WithSchema checks the raw document with c after decoding.
func WithSchema(c DocumentChecker) LoadOption {
	return func(o *loadOptions) { o.checker = c }
}

// WithoutEnvFiles skips loading .env files.
func WithoutEnvFiles() LoadOption {
	return func(o *loadOptions) { o.envFiles = false }
}

// Load reads, decodes and validates the configuration at path.
func Load(path string, opts ...LoadOption) (*Config, error) {
	o := loadOptions{envFiles: true}
	for _, opt := range opts {
		opt(&o)
	}

	if o.envFiles {
		loadEnvFiles()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, errors.FileSystemError("failed to read config file").WithCause(err).
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))), o.checker)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	slog.Debug("Configuration loaded", logfields.Config(path))
	return cfg, nil
}

// Parse decodes a configuration document, applies defaults and validates it.
// A nil checker skips the schema check.
func Parse(data []byte, checker DocumentChecker) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigError("failed to parse configuration").WithCause(err).Build()
	}

	if checker != nil {
		doc, err := genericDocument(data)
		if err != nil {
			return nil, errors.SchemaError("configuration is not a plain YAML document").WithCause(err).Build()
		}
		if err := checker.Validate(doc); err != nil {
			return nil, errors.SchemaError("configuration does not match the schema").WithCause(err).Build()
		}
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, errors.ValidationError("invalid configuration").WithCause(err).Build()
	}
	return &cfg, nil
}

// genericDocument converts YAML into the JSON data model schema validators expect.
func genericDocument(data []byte) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("convert to JSON: %w", err)
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
