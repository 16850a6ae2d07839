// Package build runs one navigation resolution end to end.
//
// A run loads the site configuration, resolves navbar and sidebar against the
// content directory, collects every issue into a lint.Result and optionally
// emits the normalized document. The CLI commands and the watcher both route
// through Service.
package build
