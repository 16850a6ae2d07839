package lint

// Severity indicates the importance level of an issue.
type Severity int

const (
	// SeverityInfo indicates informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that should be fixed but still produce output.
	SeverityWarning
	// SeverityError indicates issues that stop navigation from being emitted.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue is a single problem found in a configuration.
type Issue struct {
	FilePath string   // Configuration file the issue belongs to
	Location string   // Setting or navigation location, e.g. navbar[1].link
	Severity Severity // Issue severity level
	Rule     string   // Rule identifier (e.g., "duplicate-link")
	Message  string   // Brief description of the issue
	Fix      string   // Suggested fix
}

// Result contains all issues found in one run.
type Result struct {
	Issues       []Issue
	EntriesTotal int // Navigation entries checked
}

// Add appends issues to the result.
func (r *Result) Add(issues ...Issue) {
	r.Issues = append(r.Issues, issues...)
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	return r.WarningCount() > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	return r.count(SeverityWarning)
}

func (r *Result) count(sev Severity) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			count++
		}
	}
	return count
}

// ExitCode is 2 with errors, 1 with only warnings and 0 otherwise.
func (r *Result) ExitCode() int {
	switch {
	case r.HasErrors():
		return 2
	case r.HasWarnings():
		return 1
	default:
		return 0
	}
}
