// Package nav models the navbar and sidebar of a site and validates them.
//
// A navigation entry is either a bare page path ("/") or a record carrying a
// label, optional icon, link, prefix and children. A sidebar maps URL prefixes
// to either the "structure" sentinel or an explicit list of entries.
//
// Resolver checks paths, sibling links and structure directories and returns
// the same shape back. Any error-level problem fails the whole resolution.
package nav
