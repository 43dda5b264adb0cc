package main

import (
	"fmt"

	"github.com/subspace-lab/fluentdoc"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	var (
		retrievals []*fluentdoc.Retrieval
		err        error
	)
	if c.Path != "" {
		retrievals, err = deps.History.PathRetrievals(deps.Ctx, c.Path, c.Limit)
	} else {
		retrievals, err = deps.History.RecentRetrievals(deps.Ctx, c.Limit)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fluentdoc.ErrorMessage(err))
		return err
	}

	if len(retrievals) == 0 {
		fmt.Fprintln(deps.Stdout, "No retrievals recorded.")
		return nil
	}

	for _, r := range retrievals {
		checksum := r.Checksum
		if checksum == "" {
			checksum = "-"
		}
		fmt.Fprintf(deps.Stdout, "%s  %-7s %-9s %-16s %s  [%s]\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Source,
			r.Outcome,
			checksum,
			r.Path,
			r.Version,
		)
	}

	return nil
}
