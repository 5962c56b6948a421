package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rectsweep/internal/observability"
	"github.com/Sumatoshi-tech/rectsweep/internal/server"
)

// ServeCommand runs the HTTP API.
type ServeCommand struct {
	host string
	port int
}

func newServeCommand() *cobra.Command {
	sc := &ServeCommand{}

	cmd := &cobra.Command{
		Use:   serveCommandName,
		Short: "Run the HTTP API",
		Long: `Serve POST /v1/decompose and POST /v1/visible, plus /healthz, /readyz
and Prometheus /metrics. Stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: sc.run,
	}

	cmd.Flags().StringVar(&sc.host, "host", "", "Listen host (overrides server.host)")
	cmd.Flags().IntVarP(&sc.port, "port", "p", 0, "Listen port (overrides server.port)")

	return cmd
}

func (sc *ServeCommand) run(cmd *cobra.Command, _ []string) error {
	rt, err := runtimeFrom(cmd)
	if err != nil {
		return err
	}

	cfg := rt.cfg.Server
	if sc.host != "" {
		cfg.Host = sc.host
	}

	if sc.port != 0 {
		cfg.Port = sc.port
	}

	red, err := observability.NewREDMetrics(rt.providers.Meter)
	if err != nil {
		return fmt.Errorf("create request metrics: %w", err)
	}

	srv := server.New(server.Options{
		Config:         cfg,
		Workers:        rt.cfg.Visible.Workers,
		Logger:         rt.logger,
		Tracer:         rt.providers.Tracer,
		RED:            red,
		Sweep:          rt.sweep,
		MetricsHandler: rt.providers.MetricsHandler,
	})

	return srv.Run(cmd.Context())
}
