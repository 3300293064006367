package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ironsheep/fractal-tools-mcp/internal/config"
	"github.com/ironsheep/fractal-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// cli carries the state shared by all commands.
type cli struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	server.Version = Version
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "fractal-mcp",
		Short: "MCP server and renderer for Mandelbrot and Julia sets",
		Long: `fractal-mcp computes escape-time grids for the Mandelbrot and Julia sets.

Run without a command to serve the MCP protocol over stdin/stdout. Configure
it in your MCP client (e.g., Claude Desktop). Logs go to stderr.

Environment variables:
  FRACTAL_MCP_LOG_LEVEL=debug    Log level (debug, info, warn, error)
  FRACTAL_MCP_WORKERS=4          Parallel row bands per computation
  FRACTAL_MCP_OUTPUT_DIR=/out    Directory for relative output paths`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		Args: cobra.NoArgs,
		RunE: c.runServe,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file; built-in defaults apply when unset or missing")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the MCP protocol over stdin/stdout",
			Args:  cobra.NoArgs,
			RunE:  c.runServe,
		},
		newRenderCmd(c),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger before any command runs.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	c.cfg = cfg

	logger, err := newLogger(cfg.Logging.Level, c.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.logger = logger
	return nil
}

// newLogger builds a production zap logger on stderr; stdout carries the
// MCP protocol.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		zc.Level = lvl
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func (c *cli) runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c.logger.Info("fractal MCP server starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit),
		zap.Int("workers", c.cfg.Workers),
		zap.Int("cache_size", c.cfg.CacheSize),
	)

	srv := server.NewWithIO(c.cfg, c.logger, cmd.InOrStdin(), cmd.OutOrStdout())
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	c.logger.Info("fractal MCP server stopped")
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fractal-mcp %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}
