package main

import (
	"fmt"

	"github.com/subspace-lab/fluentdoc"
)

// Run executes the toc command.
func (c *TocCmd) Run(cli *CLI, deps *Dependencies) error {
	guide, err := fluentdoc.ParseGuide(cli.Guide)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fluentdoc.ErrorMessage(err))
		return err
	}

	entries, err := deps.Engine.ListToc(deps.Ctx, guide, cli.Release, c.Filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fluentdoc.ErrorMessage(err))
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No matching entries.")
		return nil
	}

	for _, entry := range entries {
		number := entry.Number
		if number == "" {
			number = "-"
		}
		fmt.Fprintf(deps.Stdout, "%-10s %s  [%s]\n", number, entry.Title, entry.Path)
	}

	return nil
}
