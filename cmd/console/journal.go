package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (c *console) journalCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recent admin actions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := c.app.Journal.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := newTable(c.out, "AT", "ACTION", "ENTITY", "OUTCOME", "REASON", "DETAIL")
			for _, e := range entries {
				row(tw, e.At.Local().Format(time.DateTime), e.Action, fmt.Sprintf("%s #%d", e.Entity, e.EntityID),
					e.Outcome, orDash(e.Reason), orDash(e.Detail))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "entries to show")
	return cmd
}
