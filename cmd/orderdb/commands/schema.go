package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNotConfirmed = errors.New("refusing to continue without --yes")

func newInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Create the order, host and variable tables",
		Long: `Create all tables and indexes under the configured prefix.
Running install on an existing schema changes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Schema().Install(cmd.Context()); err != nil {
				return fmt.Errorf("failed to install schema: %w", err)
			}
			zap.S().Named("orderdb").Infow("schema installed", "tables", a.store.Schema().Tables())
			return nil
		},
	}
}

func newUninstallCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Drop all tables including their content",
		Example: `  # Drop the tables of a second daemon instance
  orderdb uninstall --table-prefix staging_ --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Schema().Uninstall(cmd.Context()); err != nil {
				return fmt.Errorf("failed to uninstall schema: %w", err)
			}
			zap.S().Named("orderdb").Infow("schema dropped", "prefix", a.store.Schema().TablePrefix())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm dropping the tables")

	return cmd
}

func newClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every order with its hosts and variables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Schema().Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear database: %w", err)
			}
			zap.S().Named("orderdb").Info("database cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deleting all orders")

	return cmd
}
