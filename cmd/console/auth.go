package main

import (
	"fmt"
	"strings"
	"time"

	"nolsaf-admin/internal/apiclient"

	"github.com/spf13/cobra"
)

// storageKey is the first key the token resolver reads.
const storageKey = "token"

func (c *console) loginCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a session token for later commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("--token is required")
			}
			claims, err := apiclient.ParseClaims(token)
			if err != nil {
				return err
			}
			if err := c.app.Storage.Set(storageKey, token); err != nil {
				return fmt.Errorf("store token: %w", err)
			}
			fmt.Fprintf(c.out, "signed in as %s (%s)\n", orDash(claims.UserID), orDash(claims.Role))
			if claims.Expired(time.Now()) {
				fmt.Fprintln(c.out, "warning: this token is already expired")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "session JWT")
	return cmd
}

func (c *console) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Storage.Delete(storageKey); err != nil {
				return fmt.Errorf("remove token: %w", err)
			}
			fmt.Fprintln(c.out, "signed out")
			return nil
		},
	}
}

func (c *console) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the session the console will use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, ok := c.app.Client.Tokens().Resolve()
			if !ok {
				fmt.Fprintln(c.out, "not signed in")
				return nil
			}
			claims, err := apiclient.ParseClaims(token)
			if err != nil {
				return err
			}
			expires := "never"
			if !claims.ExpiresAt.IsZero() {
				expires = claims.ExpiresAt.Format(time.RFC3339)
			}
			fmt.Fprintf(c.out, "user %s, role %s, expires %s\n", orDash(claims.UserID), orDash(claims.Role), expires)
			return nil
		},
	}
}
