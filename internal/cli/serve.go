package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/notediagram/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		origins []string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render and notes HTTP API",
		Long: `Serve exposes the diagram catalog, themes, rendering and note storage over
HTTP. The store and cache backends come from the [store] and [cache]
sections of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()

			store, err := cfg.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			listen := server.ListenConfig{
				Addr:         cfg.Server.Addr,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}
			if cmd.Flags().Changed("addr") {
				listen.Addr = addr
			}
			if !cmd.Flags().Changed("origin") {
				origins = cfg.Server.AllowedOrigins
			}

			printKeyValue("Address", listen.Addr)
			printKeyValue("Store", cfg.Store.Backend)
			printKeyValue("Cache", cfg.Cache.Backend)
			srv := server.New(runner, store,
				server.WithLogger(c.Logger),
				server.WithDefaults(cfg.RenderOptions()),
				server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
				server.WithAllowedOrigins(origins...),
			)
			return srv.Run(ctx, listen)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringArrayVar(&origins, "origin", nil, "allowed CORS origin (repeatable)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	return cmd
}
