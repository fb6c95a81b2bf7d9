package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"github.com/exscriptd/orderdb/internal/models"
)

var (
	openColor   = color.New(color.FgYellow)
	closedColor = color.New(color.FgGreen)
	headerColor = color.New(color.Bold)
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printOrderTable(w io.Writer, orders []*models.Order, total int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerColor.Sprint("ID\tSERVICE\tSTATUS\tCREATED\tCLOSED\tHOSTS"))
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n",
			o.ID, o.Service, statusText(o), formatTime(&o.Created), formatTime(o.Closed), len(o.Hosts))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d order(s)\n", len(orders), total)
	return err
}

func printOrder(w io.Writer, o *models.Order) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", o.ID)
	fmt.Fprintf(tw, "Service:\t%s\n", o.Service)
	fmt.Fprintf(tw, "Status:\t%s\n", statusText(o))
	fmt.Fprintf(tw, "Created:\t%s\n", formatTime(&o.Created))
	fmt.Fprintf(tw, "Closed:\t%s\n", formatTime(o.Closed))
	fmt.Fprintf(tw, "Created by:\t%s\n", o.CreatedBy)
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, h := range o.Hosts {
		fmt.Fprintf(w, "\n%s %s (%s)\n", headerColor.Sprint("Host"), h.Address(), h.Name())
		vars := h.All()
		for _, name := range h.VariableNames() {
			b, err := json.Marshal(vars[name])
			if err != nil {
				return fmt.Errorf("failed to encode variable %q: %w", name, err)
			}
			fmt.Fprintf(w, "  %s = %s\n", name, b)
		}
	}
	return nil
}

// statusText colours the status by whether the order is closed.
func statusText(o *models.Order) string {
	if o.IsClosed() {
		return closedColor.Sprint(o.Status)
	}
	return openColor.Sprint(o.Status)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
