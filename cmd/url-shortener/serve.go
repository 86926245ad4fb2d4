package main

import (
	"github.com/spf13/cobra"
	"github.com/vadimbarashkov/url-shortener-api/internal/app"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations, create the default user and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			logger := app.NewLogger(cfg)

			if err := app.Run(cmd.Context(), cfg, logger); err != nil {
				logger.Error("server stopped", "err", err)
				return err
			}

			return nil
		},
	}
}
