package main

import (
	"fmt"
	"io"
	"os"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/views"

	"github.com/spf13/cobra"
)

func (c *console) reportsCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{Use: "reports", Short: "Bookings report for a date range"}
	cmd.PersistentFlags().StringVar(&from, "from", "", "first day, YYYY-MM-DD (required)")
	cmd.PersistentFlags().StringVar(&to, "to", "", "last day, YYYY-MM-DD (required)")

	build := func(cmd *cobra.Command) (dto.BookingReport, error) {
		f, t, err := views.ParseRange(from, to)
		if err != nil {
			return dto.BookingReport{}, err
		}
		return views.NewReportsView(c.app.Bookings, c.app.Client, c.log).Build(cmd.Context(), f, t)
	}

	var output string
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Print status counts per collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := build(cmd)
			if err != nil {
				return err
			}
			for _, col := range report.Collections {
				if col.Err != nil {
					fmt.Fprintf(c.out, "%s: unavailable (%s)\n\n", col.Title, friendly(col.Err))
					continue
				}
				fmt.Fprintf(c.out, "%s: %d\n", col.Title, col.Total())
				if col.Truncated {
					fmt.Fprintf(c.out, "  only the first %d records were counted\n", views.ReportItemCap)
				}
				tw := newTable(c.out, "  STATUS", "COUNT", "SHARE")
				for _, b := range col.Buckets() {
					row(tw, "  "+b.Status, b.Count, fmt.Sprintf("%d%%", b.Percent))
				}
				tw.Flush()
				fmt.Fprintln(c.out)
			}
			fmt.Fprintf(c.out, "Total records: %d\n", report.GrandTotal())
			return nil
		},
	}

	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Write the printable HTML report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := build(cmd)
			if err != nil {
				return err
			}
			link := fmt.Sprintf("%s/reports/bookings/print?from=%s&to=%s", c.cfg.Srv.PublicBaseURL, from, to)
			return c.writeOutput(output, func(w io.Writer) error {
				return c.app.Renderer.PrintHTML(w, report, dto.PrintOptions{
					CompanyName: c.cfg.Srv.CompanyName,
					LinkURL:     link,
					PrintDelay:  views.PrintDelay,
				})
			})
		},
	}

	xlsx := &cobra.Command{
		Use:   "xlsx",
		Short: "Write the report as an Excel workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" || output == "-" {
				return fmt.Errorf("--output file is required for a workbook")
			}
			report, err := build(cmd)
			if err != nil {
				return err
			}
			return c.writeOutput(output, func(w io.Writer) error {
				return c.app.Renderer.XLSX(w, report)
			})
		},
	}

	for _, sub := range []*cobra.Command{printCmd, xlsx} {
		sub.Flags().StringVarP(&output, "output", "o", "", "file to write, - or empty for stdout")
	}
	cmd.AddCommand(summary, printCmd, xlsx)
	return cmd
}

// writeOutput renders into path, or stdout for "" and "-". A failed render
// removes the partial file.
func (c *console) writeOutput(path string, render func(io.Writer) error) error {
	if path == "" || path == "-" {
		return render(c.out)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}
