package main

import (
	"fmt"
	"os"

	"github.com/aussiebroadwan/soapbox/internal/api/app"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()

	root := &cobra.Command{
		Use:           "soapbox",
		Short:         "Soapbox social API",
		Version:       app.BuildVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		// Running the binary without a subcommand starts the server.
		RunE: serve.RunE,
	}

	root.AddCommand(serve, newMigrateCommand(), newUsersCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "serve",
		Short:         "Run the HTTP API",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(app.LoadConfig())
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run()
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "migrate",
		Short:         "Apply pending database migrations",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.LoadConfig()
			logger := app.NewLogger(cfg)

			v, err := app.Migrate(cfg)
			if err != nil {
				return err
			}
			logger.Info("database migrated", "file", cfg.DatabaseFile, "version", v)
			return nil
		},
	}
}

func newUsersCommand() *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}
	users.AddCommand(newCreateAdminCommand())
	return users
}

func newCreateAdminCommand() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:           "create-admin",
		Short:         "Create an admin account",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.LoadConfig()
			logger := app.NewLogger(cfg)

			u, err := app.CreateAdmin(cmd.Context(), cfg, username, email, password)
			if err != nil {
				return err
			}
			logger.Info("admin created", "user_id", u.ID, "username", u.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
