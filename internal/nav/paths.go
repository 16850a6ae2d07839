package nav

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
)

var (
	errEmptyPath      = errors.New("path is empty")
	errHostRelative   = errors.New("path starting with // is a protocol-relative URL, add a scheme")
	errOutsideRoot    = errors.New("path escapes the site root")
	errPrefixSyntax   = errors.New("prefix must be a plain path without scheme, query or fragment")
	errUnsupportedURL = errors.New("unsupported URL scheme")
)

// checkSyntax rejects characters that never belong in a site path.
func checkSyntax(p string) error {
	if p == "" {
		return errEmptyPath
	}
	for _, r := range p {
		switch {
		case r == '\\':
			return fmt.Errorf("path %q contains a backslash", p)
		case unicode.IsSpace(r):
			return fmt.Errorf("path %q contains whitespace", p)
		case unicode.IsControl(r):
			return fmt.Errorf("path %q contains a control character", p)
		}
	}
	if strings.HasPrefix(p, "//") {
		return errHostRelative
	}
	if _, err := url.PathUnescape(p); err != nil {
		return fmt.Errorf("path %q has a malformed escape: %w", p, err)
	}
	return nil
}

// IsExternal reports whether link carries a URL scheme.
func IsExternal(link string) bool {
	u, err := url.Parse(link)
	return err == nil && u.Scheme != ""
}

// checkExternal validates an absolute URL link.
func checkExternal(link string) error {
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", link, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("URL %q has no host", link)
		}
		if _, err := idna.Lookup.ToASCII(u.Hostname()); err != nil {
			return fmt.Errorf("URL %q has an invalid host: %w", link, err)
		}
		return nil
	case "mailto":
		if u.Opaque == "" {
			return fmt.Errorf("mailto link %q has no address", link)
		}
		return nil
	default:
		return fmt.Errorf("%w %q in %q", errUnsupportedURL, u.Scheme, link)
	}
}

// checkPrefix validates the syntax of a prefix (sidebar key or entry prefix).
func checkPrefix(p string) error {
	if err := checkSyntax(p); err != nil {
		return err
	}
	if strings.ContainsAny(p, "?#") || IsExternal(p) {
		return errPrefixSyntax
	}
	return nil
}

// splitFragment separates "#anchor" from an internal link.
func splitFragment(link string) (string, string) {
	if i := strings.IndexByte(link, '#'); i >= 0 {
		return link[:i], link[i:]
	}
	return link, ""
}

// resolvePath joins rel onto base the way the theme concatenates prefixes:
// a leading slash anchors at the site root, anything else is appended to base.
// The result is cleaned and keeps a trailing slash.
func resolvePath(base, rel string) (string, error) {
	joined := rel
	if !strings.HasPrefix(rel, "/") {
		if base == "" {
			base = "/"
		}
		joined = base + rel
	}
	if escapesRoot(joined) {
		return "", errOutsideRoot
	}
	cleaned := path.Clean(joined)
	if strings.HasSuffix(joined, "/") && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned, nil
}

// escapesRoot reports whether a rooted path climbs above "/" at any point.
func escapesRoot(p string) bool {
	depth := 0
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return true
			}
		default:
			depth++
		}
	}
	return false
}

// CanonicalRoute maps a resolved internal path to the route it renders at,
// so "/posts/README.md" and "/posts/" compare equal.
func CanonicalRoute(p string) string {
	p, _ = splitFragment(p)
	if p == "" {
		return "/"
	}
	dir, file := path.Split(p)
	lower := strings.ToLower(file)
	switch {
	case lower == "readme.md" || lower == "index.md" || lower == "index.html":
		return dir
	case strings.HasSuffix(lower, ".md"):
		return dir + file[:len(file)-len(".md")]
	case strings.HasSuffix(lower, ".html"):
		return dir + file[:len(file)-len(".html")]
	}
	return p
}
