package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/navbuilder/internal/build"
	"git.home.luguber.info/inful/navbuilder/internal/lint"
	"git.home.luguber.info/inful/navbuilder/internal/schema"
)

// Global carries the output streams shared by all commands.
type Global struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewGlobal writes to the process streams.
func NewGlobal() *Global {
	return &Global{Stdout: os.Stdout, Stderr: os.Stderr}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Site configuration file" default:"navbuilder.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Validate ValidateCmd `cmd:"" default:"1" help:"Validate site configuration and navigation"`
	Resolve  ResolveCmd  `cmd:"" help:"Resolve navigation and emit the normalized document"`
	Watch    WatchCmd    `cmd:"" help:"Resolve navigation whenever the configuration or content changes"`
	Schema   SchemaCmd   `cmd:"" help:"Print the JSON Schema of the configuration file"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ExitError ends the process with Code after the command already reported why.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// exitFor turns a report exit code into an error, nil for success.
func exitFor(code int) error {
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code}
}

// ResolveFlags are shared by commands that run the resolver.
type ResolveFlags struct {
	ExpandStructure bool `help:"Replace \"structure\" sidebar menus with entries derived from the content directory"`
	CheckTargets    bool `default:"true" negatable:"" help:"Warn about .md links whose file does not exist"`
}

func (f ResolveFlags) options() build.Options {
	return build.Options{ExpandStructure: f.ExpandStructure, CheckTargets: f.CheckTargets}
}

// newService builds the resolve service with the configuration schema.
func newService() (*build.Service, error) {
	v, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	return build.NewService().WithSchema(v), nil
}

// reportOrError prints result's report to w. Errors without itemized issues
// are returned unchanged for the CLI error adapter.
func reportOrError(w io.Writer, format string, configPath string, result *build.Result, err error) (bool, error) {
	if err != nil && len(result.Report.Issues) == 0 {
		return false, err
	}
	if ferr := lint.NewFormatter(format, isColorSupported(w)).Format(w, result.Report, configPath); ferr != nil {
		return false, fmt.Errorf("formatting report: %w", ferr)
	}
	return true, nil
}

// isColorSupported checks if w is a terminal that accepts color output.
func isColorSupported(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if fileInfo, err := f.Stat(); err != nil || (fileInfo.Mode()&os.ModeCharDevice) == 0 {
		return false
	}

	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	term := os.Getenv("TERM")
	return term != "dumb" && term != ""
}
