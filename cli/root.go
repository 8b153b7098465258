// ABOUTME: Root cobra command and shared runtime wiring
// ABOUTME: Loads config, builds the zap logger, metrics registry and backend gateway for subcommands
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/harperreed/friendlog/api"
	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/config"
)

// Options customise the command tree. Zero values use the real process
// streams and backend.
type Options struct {
	Version string
	Stdout  io.Writer
	Stderr  io.Writer
	// Gateway replaces the HTTP backend client, for tests.
	Gateway app.Gateway
	// IsTerminal reports whether stdin is interactive; the bare command
	// launches the terminal UI only when it is.
	IsTerminal func() bool
}

// runtime is what PersistentPreRunE prepares for every subcommand.
type runtime struct {
	opts     Options
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	gw       app.Gateway

	configPath string
	apiURL     string
	verbose    bool
}

// NewRootCommand builds the friendlog command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.IsTerminal == nil {
		opts.IsTerminal = func() bool { return false }
	}

	rt := &runtime{opts: opts}

	root := &cobra.Command{
		Use:           "friendlog",
		Short:         "friendlog - keep track of the people you care about",
		Long:          "friendlog logs meetups, calls, video chats and texts with your friends\nand shows who you haven't talked to in a while.",
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.opts.IsTerminal() {
				return rt.runTUI(cmd, args)
			}
			return cmd.Help()
		},
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	root.PersistentFlags().StringVar(&rt.apiURL, "api-url", "", "Backend base URL (overrides config and "+config.EnvAPIURL+")")
	root.PersistentFlags().StringVar(&rt.configPath, "config", "", "Config file path (default $XDG_CONFIG_HOME/friendlog/config.json)")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newFriendsCommand(rt),
		newInteractionsCommand(rt),
		newStatsCommand(rt),
		newTUICommand(rt),
		newWebCommand(rt),
		newMCPCommand(rt),
		newConfigCommand(rt),
	)
	return root
}

func (rt *runtime) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return err
	}
	if rt.apiURL != "" {
		cfg.APIBaseURL = rt.apiURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	rt.cfg = cfg

	logger, err := rt.newLogger(cmd)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	rt.logger = logger

	rt.registry = prometheus.NewRegistry()
	rt.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if rt.opts.Gateway != nil {
		rt.gw = rt.opts.Gateway
		return nil
	}
	client, err := api.New(api.Config{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    time.Duration(cfg.Timeout),
		Logger:     logger,
		Registerer: rt.registry,
	})
	if err != nil {
		return err
	}
	rt.gw = client
	return nil
}

// newLogger logs JSON to stderr, except for the terminal UI where stderr
// belongs to the screen and logs go to the state-dir log file.
func (rt *runtime) newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(rt.cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if rt.verbose {
		level = zapcore.DebugLevel
	}

	if rt.opts.Gateway != nil {
		// An injected gateway means an embedded or test run; stay quiet.
		return zap.NewNop(), nil
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if usesScreen(cmd, rt.opts.IsTerminal()) {
		path, err := config.LogPath()
		if err != nil {
			return zap.NewNop(), nil
		}
		zc.OutputPaths = []string{path}
		zc.ErrorOutputPaths = []string{path}
	}
	return zc.Build()
}

func usesScreen(cmd *cobra.Command, terminal bool) bool {
	switch cmd.Name() {
	case "tui":
		return true
	case "friendlog":
		return terminal
	}
	return false
}

func (rt *runtime) out() io.Writer {
	return rt.opts.Stdout
}

func (rt *runtime) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(rt.opts.Stdout, format, args...)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
