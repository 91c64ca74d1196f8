package main

import (
	"context"
	"fmt"
	"strings"

	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/views"
	"nolsaf-admin/internal/apiclient"

	"github.com/spf13/cobra"
)

func (c *console) tripsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "trips", Short: "Browse and manage scheduled driver trips"}
	cmd.AddCommand(
		c.tripsListCmd(),
		c.tripsShowCmd(),
		c.tripsAssignCmd(),
		c.tripsReasonCmd("unassign", "Remove the driver from a trip", (*views.TripsView).Unassign),
		c.tripsReasonCmd("cancel", fmt.Sprintf("Cancel a trip (reason of at least %d characters)", views.MinCancelReason), (*views.TripsView).Cancel),
	)
	return cmd
}

func (c *console) tripsView() *views.TripsView {
	return views.NewTripsView(c.app.Trips, c.app.Client, c.app.Journal, c.log)
}

func (c *console) tripsListCmd() *cobra.Command {
	var (
		f    views.TripFilters
		sort []string
		page int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trips",
		Long:  "List trips. --sort takes a column and is repeated to cycle its direction: once for ascending, twice for descending.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := c.tripsView()
			if err := v.Apply(cmd.Context(), f); err != nil {
				return err
			}
			if err := turnPage(cmd, v.List, page); err != nil {
				return err
			}
			for _, col := range sort {
				v.ToggleSort(strings.TrimSpace(col))
			}

			if v.Empty() {
				fmt.Fprintln(c.out, views.EmptyTrips)
				return nil
			}

			tw := newTable(c.out, "ID", "CODE", "DRIVER", "PASSENGER", "PICKUP", "DROPOFF", "SCHEDULED", "AMOUNT", "STATUS")
			for _, t := range v.Rows() {
				passenger := ""
				if t.Passenger != nil {
					passenger = t.Passenger.Name
				}
				driver := t.DriverName()
				if driver == "" {
					driver = "(unassigned)"
				}
				row(tw, t.ID, orDash(t.TripCode), driver, orDash(passenger), orDash(t.PickupLocation), orDash(t.DropoffLocation),
					day(t.ScheduledAt), strings.TrimSpace(t.Currency+" "+t.Amount.StringFixed(2)), t.Status.Icon()+" "+string(t.Status))
			}
			tw.Flush()
			footer(c.out, v.List.Page(), v.List.PageCount(), v.List.Total())

			fmt.Fprintln(c.out, "\nStatus on this page")
			hw := newTable(c.out, "  STATUS", "COUNT")
			for _, h := range v.Histogram() {
				row(hw, "  "+string(h.Status), h.Count)
			}
			hw.Flush()
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Status, "status", "", "trip status, e.g. PENDING or CANCELED")
	cmd.Flags().StringVarP(&f.Q, "query", "q", "", "free text search")
	cmd.Flags().StringVar(&f.From, "from", "", "first scheduled day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.To, "to", "", "last scheduled day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.MinAmount, "min-amount", "", "lowest amount")
	cmd.Flags().StringVar(&f.MaxAmount, "max-amount", "", "highest amount")
	cmd.Flags().StringSliceVar(&sort, "sort", nil, "column to sort by (repeatable)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func (c *console) tripsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one trip with its assignment history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := c.tripsView()
			if err := v.ViewDetails(cmd.Context(), args[0]); err != nil {
				return friendly(err)
			}
			c.printTrip(v.Detail.Item())
			return nil
		},
	}
}

func (c *console) printTrip(t model.TripDetailsResponse) {
	driver := t.DriverName()
	if driver == "" {
		driver = "(unassigned)"
	}
	fmt.Fprintf(c.out, "Trip #%d  %s  %s %s\n", t.ID, orDash(t.TripCode), t.Status.Icon(), t.Status)
	fmt.Fprintf(c.out, "Driver: %s\n", driver)
	if t.Passenger != nil {
		fmt.Fprintf(c.out, "Passenger: %s\n", orDash(t.Passenger.Name))
	}
	fmt.Fprintf(c.out, "Route: %s -> %s on %s\n", orDash(t.PickupLocation), orDash(t.DropoffLocation), day(t.ScheduledAt))
	fmt.Fprintf(c.out, "Amount: %s %s   Payment: %s %s\n", t.Currency, t.Amount.StringFixed(2), orDash(t.PaymentMethod), orDash(t.PaymentStatus))
	if t.Notes != "" {
		fmt.Fprintf(c.out, "Notes: %s\n", t.Notes)
	}
	if len(t.AssignmentAudits) > 0 {
		fmt.Fprintln(c.out, "\nAssignment history")
		tw := newTable(c.out, "  WHEN", "ACTION", "BY", "REASON")
		for _, a := range t.AssignmentAudits {
			row(tw, "  "+a.CreatedAt.Format("2006-01-02 15:04"), a.Action, orDash(a.AdminName), orDash(a.Reason))
		}
		tw.Flush()
	}
}

func (c *console) tripsAssignCmd() *cobra.Command {
	var (
		driverID int64
		reason   string
	)
	cmd := &cobra.Command{
		Use:   "assign ID",
		Short: "Assign a driver to a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := apiclient.ParseID(args[0])
			if err != nil {
				return err
			}
			if driverID <= 0 {
				return fmt.Errorf("--driver must be a positive id")
			}
			v := c.tripsView()
			if err := v.Detail.OpenID(cmd.Context(), id); err != nil {
				return friendly(err)
			}
			if err := v.Assign(cmd.Context(), id, driverID, reason); err != nil {
				return friendly(err)
			}
			c.printTrip(v.Detail.Item())
			return nil
		},
	}
	cmd.Flags().Int64Var(&driverID, "driver", 0, "driver id")
	cmd.Flags().StringVar(&reason, "reason", "", "why the driver is assigned (required)")
	_ = cmd.MarkFlagRequired("driver")
	return cmd
}

func (c *console) tripsReasonCmd(name, short string, act func(*views.TripsView, context.Context, int64, string) error) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   name + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := apiclient.ParseID(args[0])
			if err != nil {
				return err
			}
			v := c.tripsView()
			if err := v.Detail.OpenID(cmd.Context(), id); err != nil {
				return friendly(err)
			}
			if err := act(v, cmd.Context(), id, reason); err != nil {
				return friendly(err)
			}
			c.printTrip(v.Detail.Item())
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded with the change (required)")
	return cmd
}
