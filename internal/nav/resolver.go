package nav

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"
)

// Expander replaces a "structure" sentinel with an explicit menu.
type Expander interface {
	Expand(prefix string) ([]Entry, error)
}

// Options configures a Resolver.
type Options struct {
	// ContentRoot is the directory the site root "/" maps to.
	ContentRoot string
	// FS overrides the filesystem rooted at ContentRoot.
	FS fs.FS
	// CheckTargets warns about internal .md links without a file.
	CheckTargets bool
	// Expander, when set, turns "structure" sentinels into explicit entries.
	Expander Expander
}

// Resolved is the validated navigation, same shape as the input.
type Resolved struct {
	Navbar   []Entry
	Sidebar  *Sidebar
	Warnings []Problem
}

// EntryCount returns the number of entries across navbar and sidebar.
func (r *Resolved) EntryCount() int {
	n := countEntries(r.Navbar)
	for _, it := range r.Sidebar.Items() {
		n += countEntries(it.Entries)
	}
	return n
}

func countEntries(entries []Entry) int {
	n := len(entries)
	for _, e := range entries {
		n += countEntries(e.Children)
	}
	return n
}

// Resolver validates navigation against the content tree.
type Resolver struct {
	opts Options
	fsys fs.FS
}

// NewResolver creates a resolver. Without ContentRoot or FS every
// "structure" sentinel is reported as a missing directory.
func NewResolver(opts Options) *Resolver {
	fsys := opts.FS
	if fsys == nil && opts.ContentRoot != "" {
		fsys = os.DirFS(opts.ContentRoot)
	}
	return &Resolver{opts: opts, fsys: fsys}
}

// resolution collects problems for a single Resolve call.
type resolution struct {
	*Resolver
	problems []Problem
}

func (r *resolution) report(loc string, code Code, sev Severity, format string, args ...any) {
	r.problems = append(r.problems, Problem{
		Location: loc,
		Code:     code,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Resolve validates navbar and sidebar. Input is never modified.
// It fails with *ValidationError if any error-level problem is found.
func (r *Resolver) Resolve(navbar []Entry, sidebar *Sidebar) (*Resolved, error) {
	res := &resolution{Resolver: r}

	out := &Resolved{
		Navbar:  res.entries("navbar", "/", navbar),
		Sidebar: &Sidebar{},
	}

	for _, item := range sidebar.Items() {
		loc := "sidebar[" + strconv.Quote(item.Prefix) + "]"
		resolved := res.sidebarItem(loc, item)
		if err := out.Sidebar.Add(resolved); err != nil {
			res.report(loc, CodeDuplicatePrefix, SeverityError, "prefix %q is declared more than once", item.Prefix)
		}
	}

	verr := &ValidationError{Problems: res.problems}
	if len(verr.Errors()) > 0 {
		return nil, verr
	}
	out.Warnings = verr.Warnings()
	return out, nil
}

func (r *resolution) sidebarItem(loc string, item SidebarItem) SidebarItem {
	out := SidebarItem{Prefix: item.Prefix, Structure: item.Structure}

	base, ok := r.prefix(loc, "/", item.Prefix)
	if !ok {
		return item.Clone()
	}
	if !strings.HasPrefix(item.Prefix, "/") || !strings.HasSuffix(item.Prefix, "/") {
		r.report(loc, CodeInvalidPath, SeverityError, "sidebar prefix %q must start and end with /", item.Prefix)
		return item.Clone()
	}
	if base != item.Prefix {
		r.report(loc, CodeInvalidPath, SeverityError, "sidebar prefix %q is not in clean form, use %q", item.Prefix, base)
		return item.Clone()
	}

	if item.Structure {
		if expanded, ok := r.structure(loc, base); ok && expanded != nil {
			out.Structure = false
			out.Entries = r.entries(loc, base, expanded)
		}
		return out
	}
	out.Entries = r.entries(loc, base, item.Entries)
	return out
}

// structure checks a "structure" sentinel and expands it when configured.
func (r *resolution) structure(loc, dir string) ([]Entry, bool) {
	if !r.dirExists(dir) {
		r.report(loc, CodeMissingDirectory, SeverityError, "%q is used for %s but no content directory exists", StructureSentinel, dir)
		return nil, false
	}
	if r.opts.Expander == nil {
		return nil, true
	}
	entries, err := r.opts.Expander.Expand(dir)
	if err != nil {
		r.report(loc, CodeExpandFailed, SeverityError, "cannot derive menu for %s: %v", dir, err)
		return nil, false
	}
	return entries, true
}

func (r *resolution) dirExists(dir string) bool {
	if r.fsys == nil {
		return false
	}
	name := strings.Trim(path.Clean(dir), "/")
	if name == "" {
		name = "."
	}
	info, err := fs.Stat(r.fsys, name)
	return err == nil && info.IsDir()
}

// prefix validates p and resolves it against base.
func (r *resolution) prefix(loc, base, p string) (string, bool) {
	if err := checkPrefix(p); err != nil {
		r.report(loc, CodeInvalidPath, SeverityError, "invalid prefix %q: %v", p, err)
		return "", false
	}
	resolved, err := resolvePath(base, p)
	if err != nil {
		r.report(loc, CodeOutsideRoot, SeverityError, "prefix %q resolves outside the site root", p)
		return "", false
	}
	return resolved, true
}

// link validates an entry link and returns the key used for sibling comparison.
func (r *resolution) link(loc, base, link string) (string, bool) {
	if err := checkSyntax(link); err != nil {
		r.report(loc, CodeInvalidPath, SeverityError, "invalid link %q: %v", link, err)
		return "", false
	}
	if IsExternal(link) {
		if err := checkExternal(link); err != nil {
			r.report(loc, CodeInvalidPath, SeverityError, "invalid link: %v", err)
			return "", false
		}
		return link, true
	}

	target, fragment := splitFragment(link)
	if target == "" {
		return link, true // same-page anchor
	}
	resolved, err := resolvePath(base, target)
	if err != nil {
		if errors.Is(err, errOutsideRoot) {
			r.report(loc, CodeOutsideRoot, SeverityError, "link %q resolves outside the site root", link)
		} else {
			r.report(loc, CodeInvalidPath, SeverityError, "invalid link %q: %v", link, err)
		}
		return "", false
	}
	if r.opts.CheckTargets && r.fsys != nil && strings.HasSuffix(strings.ToLower(resolved), ".md") {
		if _, err := fs.Stat(r.fsys, strings.TrimPrefix(resolved, "/")); err != nil {
			r.report(loc, CodeMissingTarget, SeverityWarning, "link %q points at %s which does not exist", link, resolved)
		}
	}
	return CanonicalRoute(resolved) + fragment, true
}

// entries validates siblings and returns a deep copy.
func (r *resolution) entries(loc, base string, in []Entry) []Entry {
	if in == nil {
		return nil
	}
	out := make([]Entry, 0, len(in))
	seen := make(map[string]string, len(in))
	for i, e := range in {
		eloc := loc + "[" + strconv.Itoa(i) + "]"
		resolved, key := r.entry(eloc, base, e)
		if key != "" {
			if first, dup := seen[key]; dup {
				r.report(eloc, CodeDuplicateLink, SeverityError, "link %q duplicates sibling %s", e.Target(), first)
			} else {
				seen[key] = eloc
			}
		}
		out = append(out, resolved)
	}
	return out
}

func (r *resolution) entry(loc, base string, e Entry) (Entry, string) {
	if e.IsBare() {
		key, _ := r.link(loc, base, e.Path)
		return e, key
	}

	out := e.Clone()
	if strings.TrimSpace(e.Text) == "" {
		r.report(loc, CodeMissingText, SeverityError, "entry has no text")
	}
	if e.Icon != "" && strings.TrimSpace(e.Icon) == "" {
		r.report(loc+".icon", CodeBlankIcon, SeverityWarning, "icon is blank")
	}

	var key string
	if e.Link != "" {
		key, _ = r.link(loc+".link", base, e.Link)
	}

	childBase := base
	if e.Prefix != "" {
		resolved, ok := r.prefix(loc+".prefix", base, e.Prefix)
		if !ok {
			return out, key
		}
		if !strings.HasSuffix(resolved, "/") {
			r.report(loc+".prefix", CodePrefixSlash, SeverityWarning, "prefix %q does not end with /, children are appended verbatim", e.Prefix)
		}
		childBase = resolved
	}

	switch {
	case e.ChildrenStructure:
		if expanded, ok := r.structure(loc+".children", childBase); ok && expanded != nil {
			out.ChildrenStructure = false
			out.Children = r.entries(loc+".children", childBase, expanded)
		}
	case len(e.Children) > 0:
		out.Children = r.entries(loc+".children", childBase, e.Children)
	case e.Link == "":
		r.report(loc, CodeEmptyEntry, SeverityWarning, "entry %q has neither link nor children", e.Text)
	}
	return out, key
}
