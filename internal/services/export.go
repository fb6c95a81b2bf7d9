package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/exscriptd/orderdb/internal/models"
)

const (
	ordersSheet = "Orders"
	hostsSheet  = "Hosts"
)

var (
	orderHeader = []any{"ID", "Service", "Status", "Created", "Closed", "Created By", "Hosts"}
	hostHeader  = []any{"Order ID", "Host ID", "Address", "Name", "Variable", "Value"}
)

// Export writes the matching orders as an XLSX workbook with one sheet of
// orders and one row per host variable on a second sheet.
func (s *OrderService) Export(ctx context.Context, w io.Writer, params OrderListParams) error {
	params.Shallow = false
	result, err := s.List(ctx, params)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			zap.S().Named("order_service").Errorw("failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(hostsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeOrders(f, result.Orders); err != nil {
		return err
	}
	if err := writeHosts(f, result.Orders); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeOrders(f *excelize.File, orders []*models.Order) error {
	sw, err := f.NewStreamWriter(ordersSheet)
	if err != nil {
		return err
	}

	if err := sw.SetRow("A1", orderHeader); err != nil {
		return err
	}
	for i, o := range orders {
		closed := ""
		if o.Closed != nil {
			closed = o.Closed.Format(time.RFC3339)
		}
		row := []any{o.ID, o.Service, o.Status, o.Created.Format(time.RFC3339), closed, o.CreatedBy, len(o.Hosts)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func writeHosts(f *excelize.File, orders []*models.Order) error {
	sw, err := f.NewStreamWriter(hostsSheet)
	if err != nil {
		return err
	}

	if err := sw.SetRow("A1", hostHeader); err != nil {
		return err
	}
	rowIdx := 2
	for _, o := range orders {
		for _, h := range o.Hosts {
			names := h.VariableNames()
			if len(names) == 0 {
				names = []string{""}
			}
			vars := h.All()
			for _, name := range names {
				value := ""
				if name != "" {
					b, err := json.Marshal(vars[name])
					if err != nil {
						return fmt.Errorf("failed to encode variable %q: %w", name, err)
					}
					value = string(b)
				}
				cell, err := excelize.CoordinatesToCellName(1, rowIdx)
				if err != nil {
					return err
				}
				if err := sw.SetRow(cell, []any{o.ID, h.ID, h.Address(), h.Name(), name, value}); err != nil {
					return err
				}
				rowIdx++
			}
		}
	}
	return sw.Flush()
}
