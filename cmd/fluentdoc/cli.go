package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/subspace-lab/fluentdoc"
	"github.com/subspace-lab/fluentdoc/retrieve"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Engine  *retrieve.Engine
	History fluentdoc.HistoryService
	Logger  *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Guide     string `help:"Guide to use: theory, user or tui" default:"theory"`
	Release   string `help:"Fluent release, e.g. '2025 R2' or 'v252'" default:"${default_release}"`
	Verbose   bool   `short:"v" help:"Enable verbose logging"`
	Headless  bool   `default:"true" negatable:"" help:"Run the browser headless"`
	DB        string `help:"History database path" env:"FLUENTDOC_DB"`
	Snapshots string `help:"TOC snapshot directory" env:"FLUENTDOC_SNAPSHOTS"`
	Extractor string `help:"Content extractor for mirror pages" enum:"trafilatura,readability" default:"trafilatura"`

	Fetch    FetchCmd    `cmd:"" help:"Fetch a section by content path or well-known key"`
	Find     FindCmd     `cmd:"" help:"Find the best-matching section for a query and fetch it"`
	Toc      TocCmd      `cmd:"" help:"List table-of-contents entries from the local snapshot"`
	Sections SectionsCmd `cmd:"" help:"List well-known section keys"`
	Releases ReleasesCmd `cmd:"" help:"List supported Fluent releases"`
	History  HistoryCmd  `cmd:"" help:"Show past retrievals"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	Path   string `arg:"" optional:"" help:"Content path, e.g. flu_th/flu_th_sec_turb_kw_sst.html"`
	Key    string `short:"k" help:"Well-known section key (see 'fluentdoc sections')"`
	Output string `short:"o" help:"Write the fragment to a file instead of stdout"`
}

// FindCmd is the "find" subcommand.
type FindCmd struct {
	Query  []string `arg:"" help:"Filter terms matched against section titles"`
	Output string   `short:"o" help:"Write the fragment to a file instead of stdout"`
}

// TocCmd is the "toc" subcommand.
type TocCmd struct {
	Filter string `short:"f" help:"Only list entries whose titles match"`
}

// SectionsCmd is the "sections" subcommand.
type SectionsCmd struct{}

// ReleasesCmd is the "releases" subcommand.
type ReleasesCmd struct{}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit int    `short:"n" default:"20" help:"Maximum rows to show"`
	Path  string `help:"Only show retrievals of one content path"`
}
