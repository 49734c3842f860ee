package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mediaportal/portal-backend/internal/app"
	"github.com/mediaportal/portal-backend/internal/config"
	"github.com/mediaportal/portal-backend/internal/migration"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

type cliState struct {
	env   string
	cfg   *config.Config
	infra *app.Infra
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Maintenance commands for the media portal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadDotEnv()
			if state.env == "" {
				state.env = os.Getenv("APP_ENV")
			}
			pkglogger.InitStructured(state.env)

			cfg, err := config.Load(config.PathForEnv(state.env))
			if err != nil {
				return err
			}
			state.cfg = cfg
			infra, err := app.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			state.infra = infra
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if state.infra != nil {
				state.infra.Close()
			}
		},
	}
	root.PersistentFlags().StringVar(&state.env, "env", "", "config environment (configs/config.<env>.yaml); defaults to APP_ENV")

	root.AddCommand(
		newMigrateCmd(state),
		newReindexCmd(state),
		newPruneVersionsCmd(state),
		newCreateAdminCmd(state),
	)
	return root
}

func newMigrateCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table and seed default categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := migration.Run(state.infra.DB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
			return nil
		},
	}
}

func newReindexCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from published content",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svcs := app.NewServices(state.cfg, state.infra, nil)
			n, err := svcs.Search.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d documents\n", n)
			return nil
		},
	}
}

func newPruneVersionsCmd(state *cliState) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune-versions",
		Short: "Keep only the newest N versions of every content item",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if keep == 0 {
				keep = state.cfg.Versioning.KeepCount
			}
			svcs := app.NewServices(state.cfg, state.infra, nil)
			n, err := svcs.Versions.PruneAll(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d versions (keep=%d)\n", n, keep)
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 0, "versions to keep per content item (default versioning.keep_count)")
	return cmd
}

func newCreateAdminCmd(state *cliState) *cobra.Command {
	var email, username, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an ADMIN account or promote an existing one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			created, err := migration.EnsureAdmin(cmd.Context(), state.infra.DB, email, username, password)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s\n", email)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is an admin\n", email)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&username, "username", "admin", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password (or ADMIN_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
