package main

import (
	"fmt"
	"io"

	"github.com/subspace-lab/fluentdoc"
	"github.com/subspace-lab/fluentdoc/fs"
	"github.com/subspace-lab/fluentdoc/retrieve"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(cli *CLI, deps *Dependencies) error {
	guide, err := fluentdoc.ParseGuide(cli.Guide)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fluentdoc.ErrorMessage(err))
		return err
	}

	path := c.Path
	if c.Key != "" {
		section, err := fluentdoc.LookupSection(c.Key)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", fluentdoc.ErrorMessage(err))
			return err
		}
		guide = section.Guide
		path = section.Path
	}
	if path == "" {
		err := fluentdoc.Errorf(fluentdoc.EINVALID, "a content path or --key is required")
		fmt.Fprintf(deps.Stderr, "error: %s\n", fluentdoc.ErrorMessage(err))
		return err
	}

	res, err := deps.Engine.FetchPath(deps.Ctx, guide, cli.Release, path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fluentdoc.ErrorMessage(err))
		return err
	}

	return emitResult(deps.Stdout, c.Output, res)
}

// Run executes the find command.
func (c *FindCmd) Run(cli *CLI, deps *Dependencies) error {
	guide, err := fluentdoc.ParseGuide(cli.Guide)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fluentdoc.ErrorMessage(err))
		return err
	}

	filter := joinQuery(c.Query)
	if filter == "" {
		err := fluentdoc.Errorf(fluentdoc.EINVALID, "a query is required")
		fmt.Fprintf(deps.Stderr, "error: %s\n", fluentdoc.ErrorMessage(err))
		return err
	}

	res, err := deps.Engine.FetchFilter(deps.Ctx, guide, cli.Release, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fluentdoc.ErrorMessage(err))
		return err
	}

	return emitResult(deps.Stdout, c.Output, res)
}

// emitResult writes the fetched fragment to a file with frontmatter, or
// prints the full text to stdout for piping.
func emitResult(stdout io.Writer, output string, res *retrieve.Result) error {
	if output == "" {
		fmt.Fprintln(stdout, res.Fragment.Text)
		return nil
	}

	if err := fs.WriteFragment(output, res.Fragment); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s (%d bytes, source %s)\n", output, len(res.Fragment.Text), res.Source)
	return nil
}

func joinQuery(terms []string) string {
	out := ""
	for _, term := range terms {
		if out != "" {
			out += " "
		}
		out += term
	}
	return out
}
