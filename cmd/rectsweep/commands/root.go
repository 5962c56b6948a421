// Package commands implements the rectsweep CLI.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rectsweep/internal/observability"
	"github.com/Sumatoshi-tech/rectsweep/pkg/config"
	"github.com/Sumatoshi-tech/rectsweep/pkg/version"
)

const serveCommandName = "serve"

var errNoRuntime = errors.New("command runtime not initialized")

// runtime is what every subcommand gets from the root pre-run hook.
type runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	providers observability.Providers
	sweep     *observability.SweepMetrics
}

type runtimeKey struct{}

func runtimeFrom(cmd *cobra.Command) (*runtime, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtime)
	if !ok {
		return nil, errNoRuntime
	}

	return rt, nil
}

type rootOptions struct {
	configPath string
	verbose    bool
	quiet      bool
	logJSON    bool
}

// NewRootCommand builds the rectsweep command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "rectsweep",
		Short: "Decompose free space around rectangular obstructions",
		Long: `rectsweep covers the part of a base rectangle that is not blocked by
obstructions with a set of axis-aligned rectangles, using a vertical sweep.

Commands:
  decompose  Decompose one scene
  visible    Compute visible regions of stacked windows
  preview    Show a decomposition in the terminal
  serve      Run the HTTP API`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return teardown(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: rectsweep.yaml in ., ./config, /etc/rectsweep)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress output")
	flags.BoolVar(&opts.logJSON, "log-json", false, "emit logs as JSON")

	rootCmd.AddCommand(
		newDecomposeCommand(),
		newVisibleCommand(),
		newPreviewCommand(),
		newServeCommand(),
		newVersionCommand(),
	)

	return rootCmd
}

func (opts *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	switch {
	case opts.quiet:
		cfg.Logging.Level = "error"
	case opts.verbose:
		cfg.Logging.Level = "debug"
	}

	if opts.logJSON {
		cfg.Logging.Format = config.LogFormatJSON
	}

	mode := observability.ModeCLI
	if cmd.Name() == serveCommandName {
		mode = observability.ModeServe
	}

	obsCfg, err := observability.ConfigFrom(cfg, mode, version.Version)
	if err != nil {
		return err
	}

	obsCfg.LogWriter = cmd.ErrOrStderr()

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	sweepMetrics, err := observability.NewSweepMetrics(providers.Meter)
	if err != nil {
		return errors.Join(err, providers.Shutdown(context.Background()))
	}

	slog.SetDefault(providers.Logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cmd.SetContext(context.WithValue(ctx, runtimeKey{}, &runtime{
		cfg:       cfg,
		logger:    providers.Logger,
		providers: providers,
		sweep:     sweepMetrics,
	}))

	return nil
}

func teardown(cmd *cobra.Command) error {
	rt, err := runtimeFrom(cmd)
	if err != nil {
		return nil //nolint:nilerr // nothing was set up
	}

	err = rt.providers.Shutdown(context.WithoutCancel(cmd.Context()))
	if err != nil {
		return fmt.Errorf("shutdown observability: %w", err)
	}

	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rectsweep %s\n", version.String())
		},
	}
}
