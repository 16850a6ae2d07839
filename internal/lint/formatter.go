package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, configPath string) error
}

const (
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiReset  = "\033[0m"
)

// TextFormatter formats results as human-readable text.
type TextFormatter struct {
	useColor bool
}

// NewTextFormatter creates a text formatter.
func NewTextFormatter(useColor bool) *TextFormatter {
	return &TextFormatter{useColor: useColor}
}

// Format outputs results in human-readable text format.
func (f *TextFormatter) Format(w io.Writer, result *Result, configPath string) error {
	p := &printer{w: w}

	p.printf("Checking navigation in: %s\n", configPath)
	p.println(strings.Repeat("━", 60))
	p.println()

	for _, issue := range result.Issues {
		f.formatIssue(p, issue)
		p.println()
	}

	p.println(strings.Repeat("━", 60))
	p.printf("Results:\n")
	p.printf("  %d entr%s checked\n", result.EntriesTotal, pluralize(result.EntriesTotal, "y", "ies"))
	if n := result.ErrorCount(); n > 0 {
		p.printf("  %d error%s (no output written)\n", n, pluralize(n, "", "s"))
	}
	if n := result.WarningCount(); n > 0 {
		p.printf("  %d warning%s (should fix)\n", n, pluralize(n, "", "s"))
	}
	p.println()

	switch {
	case result.HasErrors():
		p.println("❌ Navigation has errors and cannot be emitted.")
	case result.HasWarnings():
		p.println("⚠️  Navigation has warnings. Consider fixing before publishing.")
	default:
		p.println("✨ Navigation is valid!")
	}
	p.println()
	return p.err
}

// formatIssue formats a single issue.
func (f *TextFormatter) formatIssue(p *printer, issue Issue) {
	icon, color := "ℹ", ""
	switch issue.Severity {
	case SeverityError:
		icon, color = "✗", ansiRed
	case SeverityWarning:
		icon, color = "⚠", ansiYellow
	}
	if f.useColor && color != "" {
		icon = color + icon + ansiReset
	}

	where := issue.Location
	if where == "" {
		where = issue.FilePath
	}
	p.printf("%s %s\n", icon, where)
	p.printf("  %s [%s]: %s\n", issue.Severity, issue.Rule, issue.Message)
	if issue.Fix != "" {
		p.printf("  Fix: %s\n", issue.Fix)
	}
}

// printer remembers the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *printer) println(args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintln(p.w, args...)
	}
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	Config       string      `json:"config"`
	EntriesTotal int         `json:"entries_total"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	Issues       []JSONIssue `json:"issues"`
}

// JSONIssue represents a single issue in JSON format.
type JSONIssue struct {
	FilePath string `json:"file_path"`
	Location string `json:"location,omitempty"`
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Format outputs results in JSON format.
func (f *JSONFormatter) Format(w io.Writer, result *Result, configPath string) error {
	output := JSONOutput{
		Config:       configPath,
		EntriesTotal: result.EntriesTotal,
		ErrorCount:   result.ErrorCount(),
		WarningCount: result.WarningCount(),
		Issues:       make([]JSONIssue, 0, len(result.Issues)),
	}
	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, JSONIssue{
			FilePath: issue.FilePath,
			Location: issue.Location,
			Severity: issue.Severity.String(),
			Rule:     issue.Rule,
			Message:  issue.Message,
			Fix:      issue.Fix,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string, useColor bool) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewTextFormatter(useColor)
	}
}

func pluralize(count int, one, many string) string {
	if count == 1 {
		return one
	}
	return many
}
