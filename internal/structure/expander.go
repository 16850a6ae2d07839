// Package structure derives sidebar menus from the content directory tree.
package structure

import (
	"cmp"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/navbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/navbuilder/internal/logfields"
	"git.home.luguber.info/inful/navbuilder/internal/markdown"
	"git.home.luguber.info/inful/navbuilder/internal/nav"
)

const readme = "README.md"

// Options configures an Expander.
type Options struct {
	// Lang selects the collation used to sort untitled-order entries.
	Lang string
}

// Expander lists a content directory as navigation entries.
type Expander struct {
	fsys fs.FS
	tag  language.Tag
}

// NewExpander creates an expander over fsys, which is rooted at the site root.
func NewExpander(fsys fs.FS, opts Options) *Expander {
	tag := language.English
	if opts.Lang != "" {
		if t, err := language.Parse(opts.Lang); err == nil {
			tag = t
		}
	}
	return &Expander{fsys: fsys, tag: tag}
}

// pageMeta is the frontmatter read from each page.
type pageMeta struct {
	Title      string   `yaml:"title"`
	ShortTitle string   `yaml:"shortTitle"`
	Icon       string   `yaml:"icon"`
	Order      *int     `yaml:"order"`
	Index      *bool    `yaml:"index"`
	Dir        *dirMeta `yaml:"dir"`
}

// dirMeta is the `dir` block of a README.md, describing its directory.
type dirMeta struct {
	Text        string `yaml:"text"`
	Icon        string `yaml:"icon"`
	Order       *int   `yaml:"order"`
	Collapsible *bool  `yaml:"collapsible"`
	Expanded    *bool  `yaml:"expanded"`
	Link        *bool  `yaml:"link"`
	Index       *bool  `yaml:"index"`
}

func (m pageMeta) text() string {
	return cmp.Or(m.ShortTitle, m.Title)
}

func (m pageMeta) excluded() bool {
	return m.Index != nil && !*m.Index
}

// item is an entry waiting to be ordered.
type item struct {
	entry nav.Entry
	order *int
	name  string
}

// Expand lists the directory behind prefix. Pages become links, directories
// become groups whose children are expanded recursively.
func (e *Expander) Expand(prefix string) ([]nav.Entry, error) {
	dir := strings.Trim(path.Clean("/"+prefix), "/")
	if dir == "" {
		dir = "."
	}
	entries, err := e.expandDir(dir)
	if err != nil {
		return nil, err
	}
	slog.Debug("Expanded structure", logfields.Prefix(prefix), logfields.Entries(len(entries)))
	return entries, nil
}

func (e *Expander) expandDir(dir string) ([]nav.Entry, error) {
	listing, err := fs.ReadDir(e.fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var items []item
	for _, de := range listing {
		name := de.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if de.IsDir() {
			it, ok, err := e.group(path.Join(dir, name), name)
			if err != nil {
				return nil, err
			}
			if ok {
				items = append(items, it)
			}
			continue
		}
		if !isMarkdown(name) || strings.EqualFold(name, readme) {
			continue
		}
		meta, heading, err := e.readPage(path.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if meta.excluded() {
			continue
		}
		text := cmp.Or(meta.text(), heading, strings.TrimSuffix(name, path.Ext(name)))
		items = append(items, item{
			entry: nav.Entry{Text: text, Icon: meta.Icon, Link: name},
			order: meta.Order,
			name:  name,
		})
	}

	e.sort(items)
	out := make([]nav.Entry, len(items))
	for i, it := range items {
		out[i] = it.entry
	}
	return out, nil
}

// group turns a subdirectory into a group entry. Directories without pages
// and directories excluded by their README are dropped.
func (e *Expander) group(dir, name string) (item, bool, error) {
	var meta pageMeta
	var heading string
	hasReadme := false
	if _, err := fs.Stat(e.fsys, path.Join(dir, readme)); err == nil {
		m, h, err := e.readPage(path.Join(dir, readme))
		if err != nil {
			return item{}, false, err
		}
		meta, heading, hasReadme = m, h, true
	}
	d := dirMeta{}
	if meta.Dir != nil {
		d = *meta.Dir
	}
	if meta.excluded() || (d.Index != nil && !*d.Index) {
		return item{}, false, nil
	}

	children, err := e.expandDir(dir)
	if err != nil {
		return item{}, false, err
	}
	if len(children) == 0 && !hasReadme {
		return item{}, false, nil
	}

	entry := nav.Entry{
		Text:     cmp.Or(d.Text, meta.text(), heading, name),
		Icon:     cmp.Or(d.Icon, meta.Icon),
		Prefix:   name + "/",
		Children: children,
	}
	if hasReadme && (d.Link == nil || *d.Link) {
		entry.Link = name + "/"
	}
	if d.Collapsible != nil {
		entry.Collapsible = *d.Collapsible
	}
	if d.Expanded != nil {
		entry.Expanded = *d.Expanded
	}
	if len(children) == 0 {
		entry.Prefix = ""
		entry.Children = nil
	}

	order := d.Order
	if order == nil {
		order = meta.Order
	}
	return item{entry: entry, order: order, name: name}, true, nil
}

func (e *Expander) readPage(name string) (pageMeta, string, error) {
	var meta pageMeta
	data, err := fs.ReadFile(e.fsys, name)
	if err != nil {
		return meta, "", fmt.Errorf("read %s: %w", name, err)
	}
	doc, err := frontmatter.Split(data)
	if err != nil {
		return meta, "", fmt.Errorf("%s: %w", name, err)
	}
	if err := frontmatter.Decode(doc.Frontmatter, &meta); err != nil {
		return meta, "", fmt.Errorf("%s: invalid frontmatter: %w", name, err)
	}
	heading := ""
	if meta.text() == "" {
		heading = markdown.FirstHeading(doc.Body)
	}
	return meta, heading, nil
}

// sort puts non-negative orders first (ascending), then unordered entries by
// collated text, then negative orders (ascending).
func (e *Expander) sort(items []item) {
	col := collate.New(e.tag)
	rank := func(it item) int {
		switch {
		case it.order == nil:
			return 1
		case *it.order >= 0:
			return 0
		default:
			return 2
		}
	}
	slices.SortStableFunc(items, func(a, b item) int {
		if c := cmp.Compare(rank(a), rank(b)); c != 0 {
			return c
		}
		if a.order != nil && b.order != nil {
			if c := cmp.Compare(*a.order, *b.order); c != 0 {
				return c
			}
		} else if c := col.CompareString(a.entry.Text, b.entry.Text); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
}

func isMarkdown(name string) bool {
	return strings.EqualFold(path.Ext(name), ".md")
}
