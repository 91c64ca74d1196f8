package main

import (
	"fmt"
	"net/url"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/views"
	"nolsaf-admin/internal/apiclient"

	"github.com/spf13/cobra"
)

func (c *console) driversCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "drivers", Short: "Driver levels and support messages"}
	cmd.AddCommand(
		c.driversListCmd(),
		c.driversShowCmd(),
		c.driversMessagesCmd(),
		c.driversRespondCmd(),
		c.driversResolveCmd(),
		c.driversWatchCmd(),
	)
	return cmd
}

func (c *console) driverLevelsView() *views.DriverLevelsView {
	return views.NewDriverLevelsView(c.app.DriverLevels, c.app.Client, c.app.Journal, c.log)
}

func (c *console) driversListCmd() *cobra.Command {
	var (
		q        string
		page     int
		driverID string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List drivers with their level progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := c.driverLevelsView()
			query := url.Values{}
			if driverID != "" {
				query.Set("driverId", driverID)
			}
			v.Drivers.SetFilter("q", strings.TrimSpace(q))
			if err := v.Mount(cmd.Context(), query); err != nil {
				return err
			}
			if err := turnPage(cmd, v.Drivers, page); err != nil {
				return err
			}

			tw := newTable(c.out, "ID", "NAME", "TIER", "TRIPS", "EARNINGS", "RATING", "PROGRESS")
			for _, d := range v.Drivers.Visible() {
				row(tw, d.ID, orDash(d.Name), d.Tier(), d.TotalTrips, fmt.Sprintf("%.0f", d.TotalEarnings),
					fmt.Sprintf("%.1f", d.AverageRating), percent(d.OverallProgress()))
			}
			tw.Flush()
			footer(c.out, v.Drivers.Page(), v.Drivers.PageCount(), v.Drivers.Total())

			if v.Driver.IsOpen() {
				if err := v.Driver.Err(); err != nil {
					return fmt.Errorf("driver %s: %w", driverID, err)
				}
				fmt.Fprintln(c.out)
				c.printDriver(v.Driver.Item())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&q, "query", "q", "", "free text search")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&driverID, "driver-id", "", "also open this driver's detail")
	return cmd
}

func (c *console) driversShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one driver's level detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := c.driverLevelsView()
			if err := v.ViewDriver(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.printDriver(v.Driver.Item())
			return nil
		},
	}
}

func (c *console) printDriver(d model.DriverWithLevel) {
	fmt.Fprintf(c.out, "Driver #%d  %s  (%s tier)\n", d.ID, orDash(d.Name), d.Tier())
	fmt.Fprintf(c.out, "Contact: %s  %s\n", orDash(d.Email), orDash(d.Phone))
	fmt.Fprintf(c.out, "Overall progress: %s\n", percent(d.OverallProgress()))
	tw := newTable(c.out, "  METRIC", "VALUE", "PROGRESS")
	row(tw, "  earnings", fmt.Sprintf("%.0f", d.TotalEarnings), percent(model.ClampPercent(d.Progress.Earnings)))
	row(tw, "  trips", d.TotalTrips, percent(model.ClampPercent(d.Progress.Trips)))
	row(tw, "  rating", fmt.Sprintf("%.1f", d.AverageRating), percent(model.ClampPercent(d.Progress.Rating)))
	row(tw, "  reviews", d.TotalReviews, percent(model.ClampPercent(d.Progress.Reviews)))
	row(tw, "  goals", d.GoalsCompleted, percent(model.ClampPercent(d.Progress.Goals)))
	tw.Flush()
	if len(d.LevelBenefits) > 0 {
		fmt.Fprintf(c.out, "Benefits: %s\n", strings.Join(d.LevelBenefits, ", "))
	}
}

func (c *console) driversMessagesCmd() *cobra.Command {
	var (
		status string
		page   int
	)
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List driver level support messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := c.driverLevelsView()
			ctx := cmd.Context()
			if err := v.SetTab(ctx, views.TabMessages); err != nil {
				return err
			}
			if status != "" {
				if err := v.SetMessageStatus(ctx, status); err != nil {
					return err
				}
			}
			if err := turnPage(cmd, v.Messages, page); err != nil {
				return err
			}
			c.printMessages(v.Messages.Visible())
			footer(c.out, v.Messages.Page(), v.Messages.PageCount(), v.Messages.Total())
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "PENDING, RESPONDED or RESOLVED")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func (c *console) printMessages(msgs []model.DriverLevelMessage) {
	tw := newTable(c.out, "ID", "DRIVER", "SUBJECT", "STATUS", "REPLIES", "RECEIVED")
	for _, m := range msgs {
		driver := strconv.FormatInt(m.DriverID, 10)
		if m.Driver != nil && m.Driver.Name != "" {
			driver = m.Driver.Name
		}
		row(tw, m.ID, driver, orDash(m.Subject), m.Status, len(m.Responses), m.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func (c *console) driversRespondCmd() *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "respond ID",
		Short: "Reply to a driver message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := apiclient.ParseID(args[0])
			if err != nil {
				return err
			}
			if err := c.driverLevelsView().Respond(cmd.Context(), id, text); err != nil {
				return friendly(err)
			}
			fmt.Fprintf(c.out, "responded to message %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "response text (required)")
	return cmd
}

func (c *console) driversResolveCmd() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "resolve ID",
		Short: "Resolve a driver message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := apiclient.ParseID(args[0])
			if err != nil {
				return err
			}
			if err := c.driverLevelsView().Resolve(cmd.Context(), id, note); err != nil {
				return friendly(err)
			}
			fmt.Fprintf(c.out, "resolved message %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "resolution note (required)")
	return cmd
}

func (c *console) driversWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow new driver messages live until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sub, err := c.app.Events()
			if err != nil {
				return err
			}
			if sub == nil {
				return fmt.Errorf("live events are disabled (EVENTS_TRANSPORT=none)")
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			v := c.driverLevelsView()
			if err := v.SetTab(ctx, views.TabMessages); err != nil {
				return err
			}
			v.Toast.OnChange(func(text string, visible bool) {
				if visible {
					fmt.Fprintf(c.out, "\n>> %s\n", text)
					c.printMessages(v.Messages.Visible())
				}
			})
			fmt.Fprintf(c.out, "watching %s events, Ctrl-C to stop\n", c.cfg.Events.Transport)
			v.Watch(ctx, sub)
			return nil
		},
	}
}
