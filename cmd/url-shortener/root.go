package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vadimbarashkov/url-shortener-api/internal/config"
)

type rootOptions struct {
	configPath string
	envFile    string
}

func (o *rootOptions) load() (*config.Config, error) {
	return config.Load(o.configPath, o.envFile)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "url-shortener",
		Short:        "url-shortener serves an API key protected URL shortening API.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("CONFIG_PATH"), "YAML config file path")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with settings overrides")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newUserCmd(opts))

	return cmd
}
