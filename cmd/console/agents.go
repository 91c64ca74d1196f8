package main

import (
	"fmt"
	"strconv"
	"strings"

	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/views"
	"nolsaf-admin/internal/apiclient"

	"github.com/spf13/cobra"
)

func (c *console) agentsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "agents", Short: "Browse agents and change their status"}
	cmd.AddCommand(c.agentsListCmd(), c.agentsShowCmd(), c.agentsStatusCmd())
	return cmd
}

func (c *console) agentsView() *views.AgentsView {
	return views.NewAgentsView(c.app.Agents, c.app.Client, c.app.Journal, c.log)
}

func (c *console) agentsListCmd() *cobra.Command {
	var (
		f         views.AgentFilters
		available string
		page      int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if available != "" {
				b, err := strconv.ParseBool(available)
				if err != nil {
					return fmt.Errorf("--available must be true or false")
				}
				f.Available = &b
			}
			v := c.agentsView()
			defer v.Close()
			if err := v.Apply(cmd.Context(), f); err != nil {
				return err
			}
			if err := turnPage(cmd, v.List, page); err != nil {
				return err
			}

			tw := newTable(c.out, "ID", "NAME", "STATUS", "LEVEL", "EDUCATION", "AVAILABLE", "WORKLOAD", "RATING", "PROMOTION")
			for _, a := range v.List.Visible() {
				promotion := "-"
				if a.PromotionProgress != nil {
					promotion = percent(a.PromotionProgress.Overall())
				}
				row(tw, a.ID, orDash(a.Name()), a.Status, orDash(a.Level), orDash(a.EducationLevel),
					a.IsAvailable, percent(a.WorkloadPercent()), fmt.Sprintf("%.1f", a.AverageRating), promotion)
			}
			tw.Flush()
			footer(c.out, v.List.Page(), v.List.PageCount(), v.List.Total())
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Status, "status", "", "ACTIVE, INACTIVE or SUSPENDED")
	cmd.Flags().StringVarP(&f.Q, "query", "q", "", "free text search")
	cmd.Flags().StringVar(&f.Education, "education", "", "education level")
	cmd.Flags().StringVar(&f.Specialization, "specialization", "", "specialization")
	cmd.Flags().StringVar(&available, "available", "", "true or false")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func (c *console) agentsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := c.agentsView()
			defer v.Close()
			if err := v.ViewDetails(cmd.Context(), args[0]); err != nil {
				return err
			}
			a := v.Detail.Item()

			fmt.Fprintf(c.out, "Agent #%d  %s\n", a.ID, orDash(a.Name()))
			fmt.Fprintf(c.out, "Status: %s   Level: %s   Available: %t\n", a.Status, orDash(a.Level), a.IsAvailable)
			fmt.Fprintf(c.out, "Education: %s   Experience: %d years\n", orDash(a.EducationLevel), a.YearsOfExperience)
			fmt.Fprintf(c.out, "Languages: %s\n", orDash(strings.Join(a.Languages, ", ")))
			fmt.Fprintf(c.out, "Specializations: %s\n", orDash(strings.Join(a.Specializations, ", ")))
			fmt.Fprintf(c.out, "Areas: %s\n", orDash(strings.Join(a.AreasOfOperation, ", ")))
			fmt.Fprintf(c.out, "Workload: %d/%d (%s)   Completed: %d   Rating: %.1f from %d reviews\n",
				a.CurrentActiveRequests, a.MaxActiveRequests, percent(a.WorkloadPercent()),
				a.TotalCompletedRequests, a.AverageRating, a.TotalReviews)

			if p := a.PromotionProgress; p != nil {
				fmt.Fprintf(c.out, "\nPromotion %s -> %s: %s overall", orDash(p.CurrentLevel), orDash(p.NextLevel), percent(p.Overall()))
				if p.EligibleForPromotion {
					fmt.Fprint(c.out, " (eligible)")
				}
				fmt.Fprintln(c.out)
				tw := newTable(c.out, "  COMPONENT", "PROGRESS")
				row(tw, "  requests", percent(model.ClampPercent(p.RequestsProgress)))
				row(tw, "  rating", percent(model.ClampPercent(p.RatingProgress)))
				row(tw, "  reviews", percent(model.ClampPercent(p.ReviewsProgress)))
				row(tw, "  revenue", percent(model.ClampPercent(p.RevenueProgress)))
				row(tw, "  experience", percent(model.ClampPercent(p.ExperienceProgress)))
				tw.Flush()
			}

			if len(a.AssignedPlanRequests) > 0 {
				fmt.Fprintln(c.out, "\nAssigned plan requests")
				tw := newTable(c.out, "  ID", "ROLE", "TRIP", "DESTINATION", "STATUS")
				for _, r := range a.AssignedPlanRequests {
					row(tw, "  "+strconv.FormatInt(r.ID, 10), orDash(r.Role), orDash(r.TripType), orDash(r.Destination), r.Status)
				}
				tw.Flush()
			}
			return nil
		},
	}
}

func (c *console) agentsStatusCmd() *cobra.Command {
	var status, reason string
	cmd := &cobra.Command{
		Use:   "status ID",
		Short: "Change an agent's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := apiclient.ParseID(args[0])
			if err != nil {
				return err
			}
			v := c.agentsView()
			defer v.Close()
			st := model.AgentStatus(strings.ToUpper(strings.TrimSpace(status)))
			if err := v.ChangeStatus(cmd.Context(), id, st, reason); err != nil {
				return friendly(err)
			}
			fmt.Fprintf(c.out, "agent %d is now %s\n", id, st)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "to", "", "ACTIVE, INACTIVE or SUSPENDED")
	cmd.Flags().StringVar(&reason, "reason", "", "why the status changes (required)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// turnPage moves a loaded list to page and reloads when the page changed.
func turnPage[T any](cmd *cobra.Command, l *views.ListState[T], page int) error {
	if page <= 1 {
		return nil
	}
	if l.SetPage(page) == 1 {
		return nil
	}
	return l.Load(cmd.Context())
}
