package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	adminconsole "nolsaf-admin/internal/admin-console"
	"nolsaf-admin/internal/apiclient"
	"nolsaf-admin/internal/config"
	"nolsaf-admin/internal/mylogger"

	"github.com/spf13/cobra"
)

func main() {
	ctx := context.Background()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// console carries what every subcommand shares.
type console struct {
	cfg *config.Config
	log mylogger.Logger
	app *adminconsole.App
	out io.Writer
	in  io.Reader
}

// skipApp marks commands that do not need the wired App.
const skipApp = "skip-app"

func newRootCmd() *cobra.Command {
	c := &console{}

	root := &cobra.Command{
		Use:           "console",
		Short:         "NoLSAF admin back-office console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.Close()
		},
	}

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.agentsCmd(),
		c.driversCmd(),
		c.tripsCmd(),
		c.passengersCmd(),
		c.reportsCmd(),
		c.paymentsCmd(),
		c.onboardCmd(),
		c.journalCmd(),
		c.serveCmd(),
	)
	return root
}

func (c *console) setup(cmd *cobra.Command) error {
	c.out = cmd.OutOrStdout()
	c.in = cmd.InOrStdin()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	mylog, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.cfg = cfg
	c.log = mylog

	if cmd.Annotations[skipApp] != "" {
		return nil
	}
	app, err := adminconsole.New(cmd.Context(), mylog, cfg)
	if err != nil {
		return err
	}
	c.app = app
	return nil
}

func (c *console) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "serve",
		Short:       "Serve printable reports, receipts and exports on CONSOLE_PORT",
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.log.Action("console_started").Info("console server starting")
			return adminconsole.Execute(cmd.Context(), c.log, c.cfg)
		},
	}
}

// friendly prefers the backend's message over the wrapped error chain.
func friendly(err error) error {
	if msg := apiclient.Message(err, ""); msg != "" {
		return errors.New(msg)
	}
	return err
}
