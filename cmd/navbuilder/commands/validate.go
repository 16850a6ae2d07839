package commands

import (
	"context"

	"git.home.luguber.info/inful/navbuilder/internal/build"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Format string `short:"f" default:"text" help:"Report format (text or json)" enum:"text,json"`
	ResolveFlags
}

// Run checks the configuration and prints a report. Exit code 1 means
// warnings only, 2 means errors.
func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	result, err := svc.Run(context.Background(), build.Request{
		ConfigPath: root.Config,
		Options:    v.options(),
	})
	printed, rerr := reportOrError(g.Stdout, v.Format, root.Config, result, err)
	if !printed {
		return rerr
	}
	return exitFor(result.Report.ExitCode())
}
