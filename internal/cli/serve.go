package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/snapshare/internal/server"
	"github.com/matzehuels/snapshare/pkg/buildinfo"
	"github.com/matzehuels/snapshare/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for hosts and guests.

Settings come from the config file and environment (MONGO_URL, REDIS_ADDR,
CONVERSION_CLIENT_ID, CONVERSION_API_KEY, PUBLIC_URL, CORS_ORIGINS, ...).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := loggerFromContext(ctx)
			if cfg.Log.Format == "json" {
				logger.SetFormatter(log.JSONFormatter)
			}
			if cfg.Log.Level != "" {
				if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
					logger.SetLevel(level)
				}
			}

			if cfg.Telemetry.Enabled {
				shutdown, err := observability.InitTelemetry(ctx, observability.TelemetryConfig{
					ServiceName:    appName,
					ServiceVersion: buildinfo.Version,
					UseStdout:      cfg.Telemetry.Stdout,
				})
				if err != nil {
					return err
				}
				defer shutdown(context.WithoutCancel(ctx))
				hooks := observability.NewTracingHooks()
				observability.SetFlipbookHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
			}

			a, err := openApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			if cfg.Conversion.ClientID == "" || cfg.Conversion.APIKey == "" {
				logger.Warn("conversion credentials not configured; flipbook builds will fail")
			}

			srv := server.New(server.Deps{
				Events:      a.events,
				Photos:      a.photos,
				Sessions:    a.sessions,
				Blobs:       a.blobs,
				Cache:       a.cache,
				Keyer:       a.keyer,
				Flipbooks:   a.runner,
				PublicURL:   cfg.Server.PublicURL,
				CORSOrigins: cfg.Server.CORSOrigins,
				Logger:      logger,
			})
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
