package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/photobooth/internal/server"
)

// serveCommand creates the serve command running the kiosk HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the kiosk HTTP API",
		Long: `Serve the kiosk HTTP API used by the web booth front end.

Sessions live in memory and are discarded after the configured idle period.
When booth.capture_dir is set, photos written into that directory by a
tethered camera are used for countdown captures.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			runner := c.newRunner(ctx, cfg, noCache)
			defer runner.Close()

			srv := server.New(cfg, runner, c.Logger)
			p := out(cmd)
			p.info("Serving on %s", StyleLink.Render("http://"+cfg.Server.Addr))
			if cfg.Booth.CaptureDir != "" {
				p.detail("Capture directory: %s", cfg.Booth.CaptureDir)
			}
			if cfg.Cache.Prefix != "" {
				p.detail("Cache prefix: %s", cfg.Cache.Prefix)
			}
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}
