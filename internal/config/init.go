package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/navbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/navbuilder/internal/nav"
)

// Example returns a starter configuration for a personal blog.
func Example() *Config {
	sidebar, _ := nav.NewSidebar(
		nav.SidebarItem{Prefix: "/", Structure: true},
		nav.SidebarItem{Prefix: "/posts/", Structure: true},
	)
	on := true
	return &Config{
		Site: Site{
			Base:        "/",
			Lang:        "zh-CN",
			Title:       "ICESTREAM32",
			Description: "icestream32 的博客",
		},
		Theme: Theme{
			Hostname:   "https://www.icestream32.cn",
			Author:     &Author{Name: "icestream32", URL: "https://www.icestream32.cn"},
			IconAssets: "fontawesome",
			Logo:       "/logo.png",
			DocsDir:    "src",
			Navbar: []nav.Entry{
				nav.Page("/"),
				{Text: "博客文章", Icon: "book", Link: "/posts/README.md"},
				{Text: "读书笔记", Icon: "fa-solid fa-pencil", Link: "/notes/README.md"},
				{Text: "音乐", Icon: "music", Link: "/music/README.md"},
			},
			Sidebar:       sidebar,
			Footer:        "default footer",
			License:       "CC BY-NC-SA 4.0",
			DisplayFooter: &on,
			Blog: &Blog{
				Description: "a software engineer",
				Medias: map[string]Media{
					"Email":  {Link: "icestream32@163.com"},
					"GitHub": {Link: "https://github.com/icestream32"},
				},
			},
			MetaLocales: map[string]string{"editLink": "在 GitHub 上编辑此页"},
			Plugins: &Plugins{
				Shiki:      &Shiki{Themes: &ShikiThemes{Light: "one-light", Dark: "one-dark-pro"}},
				Watermark:  &Watermark{Enabled: false},
				Copyright:  &Copyright{TriggerLength: 100},
				Blog:       &Toggle{Enabled: true},
				Components: &Components{Components: []string{"Badge", "VPCard"}},
				MarkdownImage: &MarkdownImage{
					Figure:   true,
					Lazyload: true,
					Size:     true,
				},
				MarkdownTab: &Toggle{Enabled: true},
				MdEnhance: &MarkdownEnhance{
					Features: map[string]bool{
						"align": true, "attrs": true, "component": true, "demo": true,
						"include": true, "mark": true, "spoiler": true, "sub": true,
						"sup": true, "tasklist": true, "vPre": true,
					},
					Stylize: []StylizeRule{{
						Matcher: "Recommended",
						Replace: &StylizeReplace{
							Tag:     "Badge",
							Attrs:   map[string]string{"type": "tip"},
							Content: "Recommended",
						},
					}},
				},
			},
		},
	}
}

// Init writes the example configuration to path. An existing file is only
// replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return errors.InternalError("failed to marshal example config").WithCause(err).Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.FileSystemError("failed to write config file").WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
