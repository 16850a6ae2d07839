package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/navbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/navbuilder/internal/schema"
)

// SchemaCmd implements the 'schema' command.
type SchemaCmd struct {
	Output string `short:"o" help:"Write the schema to this file instead of stdout" type:"path"`
}

func (s *SchemaCmd) Run(g *Global, _ *CLI) error {
	data, err := schema.Generate()
	if err != nil {
		return errors.InternalError("failed to generate schema").WithCause(err).Build()
	}
	data = append(data, '\n')

	if s.Output == "" {
		_, err = g.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(s.Output, data, 0o644); err != nil {
		return errors.FileSystemError("failed to write schema").WithCause(err).
			WithContext("path", s.Output).
			Build()
	}
	_, _ = fmt.Fprintf(g.Stderr, "Wrote %s\n", s.Output)
	return nil
}
