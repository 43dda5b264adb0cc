package main

import (
	"fmt"

	"github.com/subspace-lab/fluentdoc"
)

// Run executes the sections command.
func (c *SectionsCmd) Run(deps *Dependencies) error {
	for _, section := range fluentdoc.KnownSections() {
		fmt.Fprintf(deps.Stdout, "%-20s %-7s %s\n", section.Key, section.Guide, section.Title)
	}
	return nil
}

// Run executes the releases command.
func (c *ReleasesCmd) Run(deps *Dependencies) error {
	for _, release := range fluentdoc.Releases() {
		marker := ""
		if release.Release == fluentdoc.DefaultRelease {
			marker = "  (default)"
		}
		fmt.Fprintf(deps.Stdout, "%-10s %s%s\n", release.Release, release.Code, marker)
	}
	return nil
}
