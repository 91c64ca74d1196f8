package main

import (
	"fmt"
	"strconv"

	"nolsaf-admin/internal/admin-console/core/views"

	"github.com/spf13/cobra"
)

func (c *console) passengersCmd() *cobra.Command {
	var (
		f    views.PassengerFilters
		page int
	)
	cmd := &cobra.Command{
		Use:   "passengers",
		Short: "Search group-stay passengers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := views.NewPassengersView(c.app.Bookings, c.app.Client, c.log)
			if err := v.Submit(cmd.Context(), f); err != nil {
				return err
			}
			if err := turnPage(cmd, v.List, page); err != nil {
				return err
			}

			tw := newTable(c.out, "#", "NAME", "PHONE", "NATIONALITY", "GENDER", "AGE", "BOOKING", "GROUP", "DESTINATION", "STATUS")
			for _, p := range v.List.Visible() {
				age := "-"
				if p.Age != nil {
					age = strconv.Itoa(*p.Age)
				}
				booking, group, dest, status := "-", "-", "-", "-"
				if b := p.Booking; b != nil {
					booking = fmt.Sprintf("#%d", b.ID)
					group, dest, status = orDash(b.GroupType), orDash(b.Destination), orDash(b.Status)
				}
				row(tw, p.SequenceNumber, orDash(p.FullName()), views.MaskPhone(p.Phone), orDash(p.Nationality), orDash(p.Gender),
					age, booking, group, dest, status)
			}
			tw.Flush()
			footer(c.out, v.List.Page(), v.List.PageCount(), v.List.Total())
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Q, "query", "q", "", "name, phone or email")
	cmd.Flags().StringVar(&f.BookingStatus, "booking-status", "", "booking status")
	cmd.Flags().StringVar(&f.GroupType, "group-type", "", "group type")
	cmd.Flags().StringVar(&f.Nationality, "nationality", "", "nationality")
	cmd.Flags().StringVar(&f.Gender, "gender", "", "gender")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}
