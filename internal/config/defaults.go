package config

// Default values applied to settings left empty.
const (
	DefaultBase       = "/"
	DefaultLang       = "en-US"
	DefaultDocsDir    = "src"
	DefaultIconAssets = "fontawesome"
)

func applyDefaults(cfg *Config) {
	if cfg.Site.Base == "" {
		cfg.Site.Base = DefaultBase
	}
	if cfg.Site.Lang == "" {
		cfg.Site.Lang = DefaultLang
	}
	if cfg.Theme.DocsDir == "" {
		cfg.Theme.DocsDir = DefaultDocsDir
	}
	if cfg.Theme.IconAssets == "" {
		cfg.Theme.IconAssets = DefaultIconAssets
	}
	if cfg.Theme.DisplayFooter == nil {
		on := true
		cfg.Theme.DisplayFooter = &on
	}
}
