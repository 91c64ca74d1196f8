package render

import (
	"fmt"
	"io"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/dto"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// XLSX writes the report as a workbook: a summary sheet with the status
// breakdown and one sheet of records per collection.
func (r *Renderer) XLSX(w io.Writer, report dto.BookingReport) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}

	f.SetCellValue(summarySheet, "A1", "Bookings report")
	f.SetCellValue(summarySheet, "A2", "From")
	f.SetCellValue(summarySheet, "B2", report.From.Format(time.DateOnly))
	f.SetCellValue(summarySheet, "A3", "To")
	f.SetCellValue(summarySheet, "B3", report.To.Format(time.DateOnly))
	f.SetCellValue(summarySheet, "A4", "Generated")
	f.SetCellValue(summarySheet, "B4", report.GeneratedAt.Format(time.RFC3339))
	_ = f.SetCellStyle(summarySheet, "A1", "A1", bold)

	row := 6
	setRow(f, summarySheet, row, []any{"Collection", "Status", "Count", "Share %"})
	_ = f.SetCellStyle(summarySheet, cellName(1, row), cellName(4, row), bold)
	row++

	for _, c := range report.Collections {
		if c.Err != nil {
			setRow(f, summarySheet, row, []any{c.Title, "unavailable: " + c.Err.Error()})
			row++
			continue
		}
		setRow(f, summarySheet, row, []any{c.Title, "TOTAL", c.Total(), 100})
		_ = f.SetCellStyle(summarySheet, cellName(1, row), cellName(4, row), bold)
		row++
		for _, b := range c.Buckets() {
			setRow(f, summarySheet, row, []any{c.Title, b.Status, b.Count, b.Percent})
			row++
		}

		sheet := sheetName(c.Title)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("xlsx sheet %s: %w", sheet, err)
		}
		header := make([]any, len(c.Columns))
		for i, h := range c.Columns {
			header[i] = h
		}
		setRow(f, sheet, 1, header)
		if len(c.Columns) > 0 {
			_ = f.SetCellStyle(sheet, cellName(1, 1), cellName(len(c.Columns), 1), bold)
		}
		for i, rec := range c.Rows {
			cells := rec.RowCells()
			values := make([]any, len(cells))
			for j, v := range cells {
				values[j] = v
			}
			setRow(f, sheet, i+2, values)
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "B", 22)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) {
	_ = f.SetSheetRow(sheet, cellName(1, row), &values)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// sheetName trims a title to the 31 characters a sheet name may hold.
func sheetName(title string) string {
	r := []rune(title)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
