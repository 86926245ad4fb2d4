package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vadimbarashkov/url-shortener-api/internal/app"
	"github.com/vadimbarashkov/url-shortener-api/internal/entity"
)

func newUserCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}

	cmd.AddCommand(newUserCreateCmd(opts))

	return cmd
}

func newUserCreateCmd(opts *rootOptions) *cobra.Command {
	var username, apiKey string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user and print its API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			user, err := app.CreateUser(cmd.Context(), cfg, username, apiKey)
			if err != nil {
				if errors.Is(err, entity.ErrUserExists) {
					return fmt.Errorf("user %q already exists", username)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\napi key: %s\n", user.Username, user.ID, user.APIKey)

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "user name, at most 50 characters")
	cmd.Flags().StringVarP(&apiKey, "api-key", "k", "", "API key; generated when empty")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}
