package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/maplabel/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the placement API over HTTP",
		Long: `Serve runs an HTTP server that places scenes posted to /v1/place and
answers with the placement document, or with an SVG or PNG drawing when
?format= is given. Results share the configured cache.`,
		Example: `  maplabel serve --addr :9090
  curl -X POST --data-binary @city.json localhost:9090/v1/place`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), c.serveAddr(addr), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// serveAddr picks the flag, then the config file, then the default.
func (c *CLI) serveAddr(flag string) string {
	switch {
	case flag != "":
		return flag
	case c.Config.Server.Addr != "":
		return c.Config.Server.Addr
	}
	return server.DefaultAddr
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	printInfo("Serving on %s", StyleLink.Render("http://"+displayHost(addr)))
	printDetail("POST /v1/place · GET /healthz")
	return server.New(runner, server.WithLogger(c.Logger)).ListenAndServe(ctx, addr)
}

// displayHost turns ":8080" into "localhost:8080".
func displayHost(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
