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
	"github.com/subspace-lab/fluentdoc/htmltomarkdown"
	fluenthttp "github.com/subspace-lab/fluentdoc/http"
	"github.com/subspace-lab/fluentdoc/readability"
	"github.com/subspace-lab/fluentdoc/retrieve"
	"github.com/subspace-lab/fluentdoc/rod"
	fluentslog "github.com/subspace-lab/fluentdoc/slog"
	"github.com/subspace-lab/fluentdoc/sqlite"
	"github.com/subspace-lab/fluentdoc/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitCode(err))
	}
}

// Exit codes. Distinct codes let scripted callers tell a missing section
// from an access block without parsing stderr.
const (
	ExitOK          = 0
	ExitInternal    = 1
	ExitUsage       = 2
	ExitNotFound    = 3
	ExitBlocked     = 4
	ExitUnavailable = 5
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch fluentdoc.ErrorCode(err) {
	case "":
		return ExitOK
	case fluentdoc.EINVALID, fluentdoc.ENOTESTABLISHED:
		return ExitUsage
	case fluentdoc.ENOTFOUND:
		return ExitNotFound
	case fluentdoc.EBLOCKED:
		return ExitBlocked
	case fluentdoc.EUNAVAILABLE, fluentdoc.ETIMEOUT:
		return ExitUnavailable
	default:
		return ExitInternal
	}
}

// Main represents the program.
type Main struct {
	// Paths and endpoints. Set before calling Run().
	DBPath      string
	SnapshotDir string
	BaseURL     string
	MirrorBase  string

	// SQLite database used by the history service.
	DB *sqlite.DB

	// Browser driver factory, replaceable in tests.
	NewDriver func(resolver *fluentdoc.Resolver, opts ...rod.Option) (SessionDriver, error)
}

// SessionDriver is what the fetch path needs from the browser driver.
type SessionDriver interface {
	fluentdoc.SessionManager
	fluentdoc.FrameNavigator
	Close() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:      defaultDBPath(),
		SnapshotDir: defaultSnapshotDir(),
		BaseURL:     envOr("FLUENTDOC_BASE_URL", fluentdoc.DefaultBaseURL),
		MirrorBase:  os.Getenv("FLUENTDOC_MIRROR_BASE"),
		NewDriver: func(resolver *fluentdoc.Resolver, opts ...rod.Option) (SessionDriver, error) {
			return rod.NewDriver(resolver, opts...)
		},
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
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
		kong.Name("fluentdoc"),
		kong.Description("Retrieve sections of the ANSYS Fluent documentation."),
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
		return fluentdoc.Errorf(fluentdoc.EINVALID, "no command specified. Run 'fluentdoc --help' to see available commands")
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

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	if cli.Snapshots != "" {
		m.SnapshotDir = cli.Snapshots
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set FLUENTDOC_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.History = sqlite.NewHistoryService(m.DB)

	resolver := &fluentdoc.Resolver{BaseURL: m.BaseURL}
	mirrors := fluentdoc.DefaultMirrorMap()
	if m.MirrorBase != "" {
		mirrors = fluentdoc.DefaultMirrorMapAt(m.MirrorBase)
	}

	var snapshots fluentdoc.SnapshotStore = fs.NewSnapshotStore(m.SnapshotDir)
	if cli.Verbose {
		snapshots = fluentslog.NewLoggingSnapshotStore(snapshots, logger)
	}

	engine := &retrieve.Engine{
		Snapshots: snapshots,
		Resolver:  resolver,
		Mirrors:   mirrors,
		History:   deps.History,
	}
	deps.Engine = engine

	// Only fetch and find navigate; everything else stays browser-free.
	if cmd == "fetch" || cmd == "find" {
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
		defer engine.Close()

		engine.Sessions = driver
		engine.Frames = driver
		if cli.Verbose {
			engine.Sessions = rod.NewLoggingSessionManager(driver, logger)
			engine.Frames = rod.NewLoggingNavigator(driver, logger)
		}

		var extractor fluentdoc.Extractor = trafilatura.NewExtractor()
		if cli.Extractor == "readability" {
			extractor = readability.NewExtractor()
		}
		var mirror fluentdoc.MirrorFetcher = fluenthttp.NewMirrorClient(
			extractor,
			htmltomarkdown.NewConverter(),
		)
		if cli.Verbose {
			mirror = fluentslog.NewLoggingMirrorFetcher(mirror, logger)
		}
		engine.Mirror = mirror
	}

	return kongCtx.Run(cli, deps)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDBPath() string {
	if path := os.Getenv("FLUENTDOC_DB"); path != "" {
		return path
	}
	return filepath.Join(configDir(), "fluentdoc.db")
}

func defaultSnapshotDir() string {
	if dir := os.Getenv("FLUENTDOC_SNAPSHOTS"); dir != "" {
		return dir
	}
	return filepath.Join(configDir(), "snapshots")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	dir := filepath.Join(home, ".fluentdoc")
	_ = os.MkdirAll(dir, 0755)
	return dir
}
