// Command tocsync regenerates TOC snapshots from the live portal and
// verifies the curated mirror map. It is the maintenance companion to
// fluentdoc: the retrieval engine itself never discovers.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/subspace-lab/fluentdoc"
	"github.com/subspace-lab/fluentdoc/fs"
	"github.com/subspace-lab/fluentdoc/goquery"
	fluenthttp "github.com/subspace-lab/fluentdoc/http"
	"github.com/subspace-lab/fluentdoc/rod"
	fluentslog "github.com/subspace-lab/fluentdoc/slog"
	"github.com/subspace-lab/fluentdoc/tocsync"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode mirrors the fluentdoc binary's mapping so scripts can share
// error handling between the two.
func exitCode(err error) int {
	switch fluentdoc.ErrorCode(err) {
	case "":
		return 0
	case fluentdoc.EINVALID, fluentdoc.ENOTESTABLISHED:
		return 2
	case fluentdoc.ENOTFOUND:
		return 3
	case fluentdoc.EBLOCKED:
		return 4
	case fluentdoc.EUNAVAILABLE, fluentdoc.ETIMEOUT:
		return 5
	default:
		return 1
	}
}

// Main represents the program.
type Main struct {
	SnapshotDir string
	BaseURL     string
	MirrorBase  string

	// Browser driver factory, replaceable in tests.
	NewDriver func(resolver *fluentdoc.Resolver, opts ...rod.Option) (SessionDriver, error)
}

// SessionDriver is what the sync walk needs from the browser driver.
type SessionDriver interface {
	fluentdoc.SessionManager
	fluentdoc.FrameNavigator
	Close() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		SnapshotDir: defaultSnapshotDir(),
		BaseURL:     envOr("FLUENTDOC_BASE_URL", fluentdoc.DefaultBaseURL),
		MirrorBase:  os.Getenv("FLUENTDOC_MIRROR_BASE"),
		NewDriver: func(resolver *fluentdoc.Resolver, opts ...rod.Option) (SessionDriver, error) {
			return rod.NewDriver(resolver, opts...)
		},
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tocsync"),
		kong.Description("Maintain fluentdoc TOC snapshots and the mirror map."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{"default_release": fluentdoc.DefaultRelease},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fluentdoc.Errorf(fluentdoc.EINVALID, "no command specified. Run 'tocsync --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return fluentdoc.Errorf(fluentdoc.EINVALID, "%s", err.Error())
	}

	logLevel := slog.LevelWarn
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))
	deps.Logger = logger

	if cli.Snapshots != "" {
		m.SnapshotDir = cli.Snapshots
	}

	resolver := &fluentdoc.Resolver{BaseURL: m.BaseURL}
	deps.Mirrors = fluentdoc.DefaultMirrorMap()
	if m.MirrorBase != "" {
		deps.Mirrors = fluentdoc.DefaultMirrorMapAt(m.MirrorBase)
	}

	var snapshots fluentdoc.SnapshotStore = fs.NewSnapshotStore(m.SnapshotDir)
	if cli.Verbose {
		snapshots = fluentslog.NewLoggingSnapshotStore(snapshots, logger)
	}

	if cmd == "sync" {
		var opts []rod.Option
		if !cli.Headless {
			opts = append(opts, rod.WithHeaded())
		}
		driver, err := m.NewDriver(resolver, opts...)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer driver.Close()

		deps.Syncer = &tocsync.Syncer{
			Sessions:  driver,
			Frames:    driver,
			Parser:    goquery.NewTocParser(),
			Snapshots: snapshots,
			Resolver:  resolver,
			Logger:    logger,
		}
	}

	return kongCtx.Run(cli, deps)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultSnapshotDir() string {
	if dir := os.Getenv("FLUENTDOC_SNAPSHOTS"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "snapshots"
	}
	dir := filepath.Join(home, ".fluentdoc", "snapshots")
	_ = os.MkdirAll(dir, 0755)
	return dir
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Syncer  *tocsync.Syncer
	Mirrors *fluentdoc.MirrorMap
	Logger  *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose   bool   `short:"v" help:"Enable verbose logging"`
	Headless  bool   `default:"true" negatable:"" help:"Run the browser headless"`
	Snapshots string `help:"TOC snapshot directory" env:"FLUENTDOC_SNAPSHOTS"`

	Sync         SyncCmd         `cmd:"" help:"Walk a guide's TOC on the portal and replace its snapshot"`
	VerifyMirror VerifyMirrorCmd `cmd:"" name:"verify-mirror" help:"Check each curated mirror path against the live mirror"`
}

// SyncCmd is the "sync" subcommand.
type SyncCmd struct {
	Guide    string `help:"Guide to sync: theory, user or tui" default:"theory"`
	Release  string `help:"Fluent release" default:"${default_release}"`
	MaxPages int    `help:"Maximum TOC pages to visit" default:"50"`
	Depth    int    `help:"Maximum TOC depth below the guide root" default:"2"`
}

// VerifyMirrorCmd is the "verify-mirror" subcommand.
type VerifyMirrorCmd struct {
	Concurrency int `short:"c" default:"4" help:"Concurrent mirror probes"`
}

// Run executes the sync command.
func (c *SyncCmd) Run(cli *CLI, deps *Dependencies) error {
	guide, err := fluentdoc.ParseGuide(c.Guide)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fluentdoc.ErrorMessage(err))
		return err
	}

	deps.Syncer.MaxPages = c.MaxPages
	deps.Syncer.MaxDepth = c.Depth

	res, err := deps.Syncer.Sync(deps.Ctx, guide, c.Release)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fluentdoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Synced %d entries from %d pages to %s\n",
		res.Entries, res.PagesVisited, res.SnapshotPath)
	return nil
}

// Run executes the verify-mirror command.
func (c *VerifyMirrorCmd) Run(deps *Dependencies) error {
	probe := fluenthttp.NewProbe(nil, c.Concurrency)

	report, err := probe.Verify(deps.Ctx, deps.Mirrors)
	if err != nil {
		return err
	}

	for _, path := range report.Covered {
		fmt.Fprintf(deps.Stdout, "ok       %s\n", path)
	}
	for _, path := range report.Missing {
		fmt.Fprintf(deps.Stdout, "missing  %s\n", path)
	}
	fmt.Fprintf(deps.Stdout, "%d covered, %d missing\n", len(report.Covered), len(report.Missing))

	if len(report.Missing) > 0 {
		return fluentdoc.Errorf(fluentdoc.EUNAVAILABLE, "%d mirror paths are no longer served", len(report.Missing))
	}
	return nil
}
