package lint

import (
	"errors"

	"git.home.luguber.info/inful/navbuilder/internal/config"
	"git.home.luguber.info/inful/navbuilder/internal/nav"
	"git.home.luguber.info/inful/navbuilder/internal/schema"
)

const (
	RuleInvalidSetting = "invalid-setting"
	RuleSchema         = "schema"
)

var fixes = map[nav.Code]string{
	nav.CodeInvalidPath:      "Use a site path such as /posts/ or an absolute http(s) URL",
	nav.CodeOutsideRoot:      "Remove the .. segments that climb above the site root",
	nav.CodeDuplicateLink:    "Remove one of the entries or point it at a different page",
	nav.CodeDuplicatePrefix:  "Merge the two sidebar menus into one",
	nav.CodeMissingDirectory: "Create the directory under the content root or list the entries explicitly",
	nav.CodeMissingText:      "Add a text field",
	nav.CodeEmptyEntry:       "Add a link or children",
	nav.CodeMissingTarget:    "Create the page or correct the link",
	nav.CodeBlankIcon:        "Remove the icon field or name an icon",
	nav.CodePrefixSlash:      "End the prefix with /",
	nav.CodeExpandFailed:     "Check that the directory is readable and its pages have valid frontmatter",
}

// FromProblems converts resolver problems into issues for file.
func FromProblems(file string, problems []nav.Problem) []Issue {
	issues := make([]Issue, 0, len(problems))
	for _, p := range problems {
		sev := SeverityWarning
		if p.Severity == nav.SeverityError {
			sev = SeverityError
		}
		issues = append(issues, Issue{
			FilePath: file,
			Location: p.Location,
			Severity: sev,
			Rule:     string(p.Code),
			Message:  p.Message,
			Fix:      fixes[p.Code],
		})
	}
	return issues
}

// FromError extracts issues from a load or resolve failure. It reports false
// when err carries no itemized problems.
func FromError(file string, err error) ([]Issue, bool) {
	var verr *nav.ValidationError
	if errors.As(err, &verr) {
		return FromProblems(file, verr.Problems), true
	}

	var fields config.FieldErrors
	if errors.As(err, &fields) {
		issues := make([]Issue, 0, len(fields))
		for _, fe := range fields {
			issues = append(issues, Issue{
				FilePath: file,
				Location: fe.Field,
				Severity: SeverityError,
				Rule:     RuleInvalidSetting,
				Message:  fe.Message,
			})
		}
		return issues, true
	}

	var serr *schema.Error
	if errors.As(err, &serr) {
		issues := make([]Issue, 0, len(serr.Violations))
		for _, v := range serr.Violations {
			issues = append(issues, Issue{
				FilePath: file,
				Location: v.Location,
				Severity: SeverityError,
				Rule:     RuleSchema,
				Message:  v.Message,
				Fix:      "Run `navbuilder schema` to see the accepted structure",
			})
		}
		return issues, true
	}
	return nil, false
}
