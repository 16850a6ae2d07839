package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/navbuilder/internal/build"
	"git.home.luguber.info/inful/navbuilder/internal/output"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	Output     string `short:"o" help:"Write the document to this file instead of stdout" type:"path"`
	Format     string `help:"Document format (yaml or json). Defaults to the output file extension"`
	DetectRepo bool   `help:"Fill theme.repo from the git origin remote when it is unset"`
	ResolveFlags
}

// documentFormat picks the format from the flag, then the output extension.
func documentFormat(flag, outputPath string) (output.Format, error) {
	if flag == "" {
		return output.FormatForPath(outputPath), nil
	}
	return output.ParseFormat(flag)
}

// Run resolves navigation and emits it. Issues go to stderr so stdout holds
// only the document.
func (r *ResolveCmd) Run(g *Global, root *CLI) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	format, err := documentFormat(r.Format, r.Output)
	if err != nil {
		return err
	}
	opts := r.options()
	opts.DetectRepo = r.DetectRepo

	result, err := svc.Run(context.Background(), build.Request{
		ConfigPath: root.Config,
		OutputPath: r.Output,
		Format:     format,
		Options:    opts,
	})
	if err != nil || result.Report.HasWarnings() {
		printed, rerr := reportOrError(g.Stderr, "text", root.Config, result, err)
		if !printed {
			return rerr
		}
		if err != nil {
			return exitFor(result.Report.ExitCode())
		}
	}

	if r.Output == "" {
		if err := output.Write(g.Stdout, *result.Document, format); err != nil {
			return fmt.Errorf("write navigation: %w", err)
		}
		return nil
	}
	if result.Written {
		_, _ = fmt.Fprintf(g.Stderr, "Wrote %s\n", r.Output)
	} else {
		_, _ = fmt.Fprintf(g.Stderr, "%s is up to date\n", r.Output)
	}
	return nil
}
