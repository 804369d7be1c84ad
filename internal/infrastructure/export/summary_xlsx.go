// Package export renders inventory reports as downloadable files.
package export

import (
	"fmt"
	"io"

	appinventory "github.com/itemtrack/backend/internal/application/inventory"
	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the media type of generated workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SummarySheet is the name of the worksheet holding the summary
const SummarySheet = "Summary"

var summaryHeader = []interface{}{
	"Item type ID",
	"Item type",
	"In inventory",
	"With employee",
	"Sold",
	"Total",
}

// SummaryFileName returns the attachment name for a summary generated at the given time
func SummaryFileName(summary *appinventory.SummaryResponse) string {
	return fmt.Sprintf("inventory_summary_%s.xlsx", summary.GeneratedAt.UTC().Format("20060102_150405"))
}

// WriteSummaryXLSX writes one row per item type followed by a totals row
func WriteSummaryXLSX(w io.Writer, summary *appinventory.SummaryResponse) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := f.SetSheetRow(SummarySheet, "A1", &summaryHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetRowStyle(SummarySheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	var totals appinventory.TypeSummaryResponse
	row := 2
	for _, t := range summary.Types {
		values := []interface{}{
			t.ItemTypeID.String(),
			t.ItemTypeName,
			t.InInventory,
			t.WithEmployee,
			t.Sold,
			t.Total,
		}
		if err := setRow(f, row, values); err != nil {
			return err
		}
		totals.InInventory += t.InInventory
		totals.WithEmployee += t.WithEmployee
		totals.Sold += t.Sold
		totals.Total += t.Total
		row++
	}

	totalRow := []interface{}{"", "Total", totals.InInventory, totals.WithEmployee, totals.Sold, totals.Total}
	if err := setRow(f, row, totalRow); err != nil {
		return err
	}
	if err := f.SetRowStyle(SummarySheet, row, row, bold); err != nil {
		return fmt.Errorf("style totals: %w", err)
	}

	generated := []interface{}{"Generated at", summary.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")}
	if err := setRow(f, row+2, generated); err != nil {
		return err
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 38); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "C", "F", 14); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetPanes(SummarySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if err := f.SetSheetRow(SummarySheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
