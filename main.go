package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mohfalahisnan/honorer/app/users"
	"github.com/mohfalahisnan/honorer/framework/app"
	"github.com/mohfalahisnan/honorer/framework/config"
)

type cli struct {
	envFiles []string
	asJSON   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("honorer failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "honorer",
		Short:         "Module-based HTTP application",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&c.envFiles, "env", nil, ".env files to load (default .env)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  c.serve,
	}
	routes := &cobra.Command{
		Use:   "routes",
		Short: "List the routes of every module",
		RunE:  c.routes,
	}
	routes.Flags().BoolVar(&c.asJSON, "json", false, "print routes as JSON")

	root.AddCommand(serve, routes)
	return root
}

// bootstrap builds the application and registers the modules.
func (c *cli) bootstrap(ctx context.Context) (*app.Application, error) {
	application, err := app.New(config.Load(c.envFiles...))
	if err != nil {
		return nil, err
	}
	if err := users.Declare(application.Modules); err != nil {
		return nil, err
	}
	if err := application.Bootstrap(ctx, users.Module); err != nil {
		return nil, err
	}
	return application, nil
}

func (c *cli) serve(cmd *cobra.Command, _ []string) error {
	application, err := c.bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	return application.Run(cmd.Context())
}

func (c *cli) routes(cmd *cobra.Command, _ []string) error {
	application, err := c.bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Shutdown(context.Background())
	return printRoutes(cmd.OutOrStdout(), application, c.asJSON)
}

func printRoutes(out io.Writer, application *app.Application, asJSON bool) error {
	routes := application.Routes()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(routes)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tHANDLER")
	for _, r := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Method, r.Path, r.Handler)
	}
	return tw.Flush()
}
