package config

import (
	"fmt"
	"maps"
	"net/mail"
	"net/url"
	"path"
	"slices"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/text/language"
)

// FieldError describes one invalid setting.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors is every invalid setting found in a configuration.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

var iconAssetSets = []string{"fontawesome", "fontawesome-with-brands", "iconfont", "iconify"}

type validator struct {
	errs FieldErrors
}

func (v *validator) add(field, format string, args ...any) {
	v.errs = append(v.errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) require(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

func (v *validator) httpURL(field, raw string) {
	u, err := url.Parse(raw)
	if err != nil {
		v.add(field, "invalid URL: %v", err)
		return
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		v.add(field, "must be an absolute http(s) URL, got %q", raw)
		return
	}
	if u.Host == "" {
		v.add(field, "URL %q has no host", raw)
		return
	}
	if _, err := idna.Lookup.ToASCII(u.Hostname()); err != nil {
		v.add(field, "invalid host in %q: %v", raw, err)
	}
}

func (v *validator) iconAssets(field, value string) {
	if slices.Contains(iconAssetSets, value) {
		return
	}
	if strings.HasPrefix(value, "//") {
		value = "https:" + value
	}
	if u, err := url.Parse(value); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return
	}
	v.add(field, "must be one of %s or a stylesheet URL, got %q", strings.Join(iconAssetSets, ", "), value)
}

// Validate checks site and theme settings, plugins included. Navigation is
// checked separately by the resolver since it needs the content tree.
// The returned error is FieldErrors.
func Validate(cfg *Config) error {
	v := &validator{}

	base := cfg.Site.Base
	if !strings.HasPrefix(base, "/") || !strings.HasSuffix(base, "/") {
		v.add("site.base", "must start and end with /, got %q", base)
	}
	if _, err := language.Parse(cfg.Site.Lang); err != nil {
		v.add("site.lang", "invalid language tag %q: %v", cfg.Site.Lang, err)
	}
	v.require("site.title", cfg.Site.Title)

	t := cfg.Theme
	if t.Hostname != "" {
		v.httpURL("theme.hostname", t.Hostname)
	}
	if t.Author != nil {
		v.require("theme.author.name", t.Author.Name)
		if t.Author.URL != "" {
			v.httpURL("theme.author.url", t.Author.URL)
		}
	}
	v.iconAssets("theme.iconAssets", t.IconAssets)
	if !isRelativeInside(t.DocsDir) {
		v.add("theme.docsDir", "must be a relative path inside the repository, got %q", t.DocsDir)
	}
	if t.Blog != nil {
		for _, name := range slices.Sorted(maps.Keys(t.Blog.Medias)) {
			v.media("theme.blog.medias."+name, t.Blog.Medias[name])
		}
	}
	if t.Encrypt != nil {
		for _, p := range slices.Sorted(maps.Keys(t.Encrypt.Config)) {
			field := fmt.Sprintf("theme.encrypt.config[%q]", p)
			if !strings.HasPrefix(p, "/") {
				v.add(field, "protected path must start with /")
			}
			v.passwords(field, t.Encrypt.Config[p])
		}
		if len(t.Encrypt.Admin) > 0 {
			v.passwords("theme.encrypt.admin", t.Encrypt.Admin)
		}
	}
	v.plugins("theme.plugins", t.Plugins)

	return v.err()
}

func (v *validator) media(field string, m Media) {
	if m.Link == "" {
		v.add(field, "link is required")
		return
	}
	if isMailAddress(m.Link) {
		return
	}
	u, err := url.Parse(m.Link)
	if err != nil || u.Scheme == "" {
		v.add(field, "link %q must be an absolute URL or a mail address", m.Link)
	}
}

// isMailAddress reports whether s is a bare address such as name@host.
func isMailAddress(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// isRelativeInside reports whether p is a relative slash path that stays
// below its base directory.
func isRelativeInside(p string) bool {
	if strings.HasPrefix(p, "/") {
		return false
	}
	clean := path.Clean(p)
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

func (v *validator) passwords(field string, p Passwords) {
	if len(p) == 0 {
		v.add(field, "needs at least one password")
	}
	for i, pw := range p {
		if pw == "" {
			v.add(fmt.Sprintf("%s[%d]", field, i), "password is empty")
		}
	}
}
