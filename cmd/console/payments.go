package main

import (
	"fmt"
	"io"
	"strings"

	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/views"
	"nolsaf-admin/internal/apiclient"

	"github.com/spf13/cobra"
)

func (c *console) paymentsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "payments", Short: "Owner invoice payments"}
	cmd.AddCommand(c.paymentsListCmd(), c.paymentsMarkPaidCmd(), c.paymentsExportCmd(), c.paymentsReceiptCmd())
	return cmd
}

func (c *console) paymentsView() *views.PaymentsView {
	return views.NewPaymentsView(c.app.Payments, c.app.Client, c.app.Journal, c.log)
}

// openTab mounts the view with an optional search and switches to tab.
func (c *console) openTab(cmd *cobra.Command, v *views.PaymentsView, tab, q string) error {
	t := model.PaymentTab(strings.ToLower(strings.TrimSpace(tab)))
	if !t.Valid() {
		return fmt.Errorf("--tab must be waiting or paid")
	}
	v.List.SetFilter("q", strings.TrimSpace(q))
	if err := v.Mount(cmd.Context()); err != nil {
		return err
	}
	if t == v.Tab() {
		return nil
	}
	return v.SetTab(cmd.Context(), t)
}

func (c *console) paymentsListCmd() *cobra.Command {
	var (
		tab, q string
		page   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payments of a tab with the tab counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := c.paymentsView()
			if err := c.openTab(cmd, v, tab, q); err != nil {
				return err
			}
			if err := turnPage(cmd, v.List, page); err != nil {
				return err
			}

			if s, err := v.Summary(); err == nil {
				fmt.Fprintf(c.out, "waiting: %d   paid: %d\n\n", s.Waiting, s.Paid)
			} else {
				fmt.Fprintf(c.out, "counts unavailable: %s\n\n", friendly(err))
			}

			tw := newTable(c.out, "ID", "INVOICE", "OWNER", "PROPERTY", "AMOUNT", "METHOD", "STATUS", "PAID")
			for _, p := range v.List.Visible() {
				owner, property := "-", "-"
				if p.Owner != nil {
					owner = orDash(p.Owner.Name)
				}
				if p.Property != nil {
					property = orDash(p.Property.Title)
				}
				row(tw, p.ID, orDash(p.InvoiceNumber), owner, property, strings.TrimSpace(p.Currency+" "+p.Amount.StringFixed(2)),
					orDash(p.Method), p.Status, day(p.PaidAt))
			}
			tw.Flush()
			footer(c.out, v.List.Page(), v.List.PageCount(), v.List.Total())
			return nil
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(model.TabWaiting), "waiting or paid")
	cmd.Flags().StringVarP(&q, "query", "q", "", "free text search")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func (c *console) paymentsMarkPaidCmd() *cobra.Command {
	var (
		ids       []string
		all       bool
		reference string
	)
	cmd := &cobra.Command{
		Use:   "mark-paid",
		Short: "Mark waiting payments as paid with one shared reference",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := c.paymentsView()
			if err := v.Mount(cmd.Context()); err != nil {
				return err
			}
			if all {
				v.ToggleAll()
			}
			for _, raw := range ids {
				id, err := apiclient.ParseID(raw)
				if err != nil {
					return err
				}
				v.Toggle(id)
			}

			res, err := v.MarkPaid(cmd.Context(), reference)
			if err != nil {
				return friendly(err)
			}
			fmt.Fprintln(c.out, res.String())
			for id, e := range res.Errors {
				fmt.Fprintf(c.out, "  payment %d: %s\n", id, friendly(e))
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d of %d payments failed", res.Failed, res.Failed+res.Succeeded)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "payment ids, comma separated")
	cmd.Flags().BoolVar(&all, "all", false, "select every payment on the first waiting page")
	cmd.Flags().StringVar(&reference, "reference", "", "payment reference shared by all (required)")
	return cmd
}

func (c *console) paymentsExportCmd() *cobra.Command {
	var (
		tab, q, output string
		ids            []string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the payments CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := c.paymentsView()
			if err := c.openTab(cmd, v, tab, q); err != nil {
				return err
			}
			opts := views.ExportOptions{SelectedOnly: len(ids) > 0}
			for _, raw := range ids {
				id, err := apiclient.ParseID(raw)
				if err != nil {
					return err
				}
				v.Toggle(id)
			}
			return c.writeOutput(output, func(w io.Writer) error {
				return friendly(v.ExportCSV(cmd.Context(), w, opts))
			})
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(model.TabWaiting), "waiting or paid")
	cmd.Flags().StringVarP(&q, "query", "q", "", "free text search")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "only these payment ids")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, - or empty for stdout")
	return cmd
}

func (c *console) paymentsReceiptCmd() *cobra.Command {
	var (
		output string
		pdf    bool
	)
	cmd := &cobra.Command{
		Use:   "receipt ID",
		Short: "Render a payment receipt as HTML or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := apiclient.ParseID(args[0])
			if err != nil {
				return err
			}
			receipt, err := c.paymentsView().Receipt(cmd.Context(), id, c.cfg.Srv.CompanyName)
			if err != nil {
				return friendly(err)
			}
			return c.writeOutput(output, func(w io.Writer) error {
				if pdf {
					return c.app.Renderer.ReceiptPDF(w, receipt)
				}
				return c.app.Renderer.ReceiptHTML(w, receipt)
			})
		},
	}
	cmd.Flags().BoolVar(&pdf, "pdf", false, "render a PDF instead of HTML")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, - or empty for stdout")
	return cmd
}
