package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"foodgram-pages/internal/buildinfo"
	"foodgram-pages/internal/config"
	"foodgram-pages/internal/http/server"
	"foodgram-pages/internal/render"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "foodgram-pages",
		Short:        "Serves the Foodgram informational pages",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve(loadConfig(configPath))
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (defaults to $CONFIG_PATH or "+config.DefaultPath+")")
	cmd.AddCommand(serveCmd(&configPath), exportCmd(&configPath), versionCmd())
	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve(loadConfig(*configPath))
		},
	}
}

func exportCmd(configPath *string) *cobra.Command {
	var out string

	c := &cobra.Command{
		Use:   "export",
		Short: "Write the pages as static HTML files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if *configPath != "" || os.Getenv("CONFIG_PATH") != "" {
				cfg = loadConfig(*configPath)
			}

			site, err := server.BuildSite(cfg)
			if err != nil {
				return err
			}
			all := site.Catalog.All()
			if err := render.Export(out, all, site.Rendered); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d pages to %s\n", len(all), out)
			return nil
		},
	}

	c.Flags().StringVarP(&out, "out", "o", "", "output directory (required)")
	_ = c.MarkFlagRequired("out")
	return c
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}
