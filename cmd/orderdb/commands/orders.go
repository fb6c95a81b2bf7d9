package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "github.com/exscriptd/orderdb/api/v1"
	"github.com/exscriptd/orderdb/internal/services"
)

// filterFlags are the order filters shared by list, count and export.
type filterFlags struct {
	ids      []int64
	services []string
	statuses []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64SliceVar(&f.ids, "id", nil, "filter by order id, repeatable")
	cmd.Flags().StringSliceVar(&f.services, "service", nil, "filter by service name, repeatable")
	cmd.Flags().StringSliceVar(&f.statuses, "status", nil, "filter by status, repeatable")
}

func (f *filterFlags) params() services.OrderListParams {
	return services.OrderListParams{
		IDs:      f.ids,
		Services: f.services,
		Statuses: f.statuses,
	}
}

func newListCommand() *cobra.Command {
	var (
		filters    filterFlags
		limit      uint64
		offset     uint64
		shallow    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Example: `  # Twenty newest backup or restore orders that are still new
  orderdb list --service backup,restore --status new --limit 20

  # Second page without hosts
  orderdb list --limit 20 --offset 20 --shallow`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			params := filters.params()
			params.Limit = limit
			params.Offset = offset
			params.Shallow = shallow

			result, err := a.orders.List(cmd.Context(), params)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), v1.NewOrderListFromModel(result.Orders))
			}
			return printOrderTable(cmd.OutOrStdout(), result.Orders, result.Total)
		},
	}

	filters.register(cmd)
	cmd.Flags().Uint64Var(&limit, "limit", 20, "maximum number of orders, 0 for all")
	cmd.Flags().Uint64Var(&offset, "offset", 0, "number of orders to skip")
	cmd.Flags().BoolVar(&shallow, "shallow", false, "do not load hosts and variables")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}

func newShowCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one order with its hosts and variables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			order, err := a.orders.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), v1.NewOrderFromModel(order))
			}
			return printOrder(cmd.OutOrStdout(), order)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}

func newCountCommand() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count orders matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.orders.Count(cmd.Context(), filters.params())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	filters.register(cmd)

	return cmd
}

func newCloseOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "close-open",
		Short: "Stamp the current time into every order that is not closed",
		Long: `Set the closed timestamp of every open order to now. Order statuses are
left as they are. Typically run when the daemon starts, so that orders of a
previous run that never finished are marked as closed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.orders.CloseOpen(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d order(s) closed\n", n)
			return nil
		},
	}
}

func newExportCommand() *cobra.Command {
	var (
		filters filterFlags
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export orders to an XLSX workbook",
		Example: `  # Export all failed orders
  orderdb export --status failed --out failed.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Create(outFile)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outFile, err)
			}

			if err := a.orders.Export(cmd.Context(), f, filters.params()); err != nil {
				_ = f.Close()
				_ = os.Remove(outFile)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}

			zap.S().Named("orderdb").Infow("orders exported", "file", outFile)
			return nil
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVarP(&outFile, "out", "o", "orders.xlsx", "output file")

	return cmd
}
