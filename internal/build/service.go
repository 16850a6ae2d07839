package build

import (
	"time"

	"git.home.luguber.info/inful/navbuilder/internal/lint"
	"git.home.luguber.info/inful/navbuilder/internal/output"
)

// Request contains the inputs of one resolution run.
type Request struct {
	// ConfigPath is the site configuration file.
	ConfigPath string

	// OutputPath receives the emitted document. Empty skips writing.
	OutputPath string

	// Format of the emitted document.
	Format output.Format

	Options Options
}

// Options modifies run behavior.
type Options struct {
	// ExpandStructure replaces "structure" sidebar menus with entries
	// derived from the content directory.
	ExpandStructure bool

	// DetectRepo fills theme.repo from the git origin remote when unset.
	DetectRepo bool

	// CheckTargets warns about internal .md links without a file.
	CheckTargets bool
}

// Result contains the outcome of a run.
type Result struct {
	RunID  string
	Status Status

	// Report holds every issue found, errors and warnings alike.
	Report *lint.Result

	// Document is the normalized navigation. Nil when the run failed.
	Document *output.Document

	// ContentRoot is the directory the site root maps to.
	ContentRoot string

	// Written reports whether OutputPath was replaced. A file already
	// carrying the same fingerprint is left alone.
	Written bool

	Duration  time.Duration
	StartTime time.Time
	EndTime   time.Time
}

// Status represents the outcome of a run.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusWarning   Status = "warning"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsSuccess returns true if a document was produced.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess || s == StatusWarning
}
