// Package cli wires the reqtty command line: the dashboard itself on the
// root command plus the import and version subcommands.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andyrewlee/reqtty/internal/config"
	"github.com/andyrewlee/reqtty/internal/logging"
)

// Version info, set from ldflags by the binary.
var version, commit, date = "dev", "none", "unknown"

// SetVersionInfo records build metadata for --version and the version
// subcommand.
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

type options struct {
	config      string // config directory or a config.json path
	requests    string
	command     string
	requestPane string
	debug       bool
}

// NewRootCommand builds the reqtty command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "reqtty",
		Short: "Terminal dashboard for a list of HTTP requests",
		Long: `reqtty shows the requests saved in requests.json next to a URL field and
a request pane that hosts an interactive command (nano by default) or a
built-in body editor. Arrow keys move between regions, Enter focuses one,
Esc steps back out and quits from navigation.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context(), opts)
		},
	}
	root.Version = version
	root.SetVersionTemplate(versionLine() + "\n")

	persistent := root.PersistentFlags()
	persistent.StringVar(&opts.config, "config", "", "config directory or config.json path (default ~/.reqtty)")
	persistent.StringVar(&opts.requests, "requests", "", "requests file (default requests.json next to the config)")
	persistent.BoolVar(&opts.debug, "debug", false, "write debug-level logs")

	root.Flags().StringVar(&opts.command, "command", "", "command hosted in the request pane")
	root.Flags().StringVar(&opts.requestPane, "request-pane", "", `request pane kind, "terminal" or "editor"`)

	root.AddCommand(newImportCommand(opts), newVersionCommand())
	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func versionLine() string {
	return fmt.Sprintf("reqtty %s (commit: %s, built: %s)", version, commit, date)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionLine())
		},
	}
}

func (o *options) paths() (*config.Paths, error) {
	var paths *config.Paths
	switch {
	case o.config == "":
		p, err := config.DefaultPaths()
		if err != nil {
			return nil, err
		}
		paths = p
	case strings.EqualFold(filepath.Ext(o.config), ".json"):
		paths = config.PathsAt(filepath.Dir(o.config))
		paths.ConfigPath = o.config
	default:
		paths = config.PathsAt(o.config)
	}
	if o.requests != "" {
		paths.RequestsPath = o.requests
	}
	return paths, nil
}

// loadConfig reads config.json and applies the command line on top.
func (o *options) loadConfig() (*config.Config, error) {
	paths, err := o.paths()
	if err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	cfg, err := config.LoadFrom(paths)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if c := strings.TrimSpace(o.command); c != "" {
		cfg.Command = c
	}
	if o.requestPane != "" {
		if err := cfg.SetRequestPane(o.requestPane); err != nil {
			return nil, err
		}
	}
	if err := cfg.Paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("create %s: %w", cfg.Paths.Home, err)
	}
	return cfg, nil
}

func (o *options) initLogging(cfg *config.Config) {
	level := logging.LevelInfo
	if o.debug {
		level = logging.LevelDebug
	}
	if err := logging.Initialize(cfg.Paths.LogsRoot, level); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logging: %v\n", err)
	}
}
