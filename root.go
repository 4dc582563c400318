package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "admitere",
		Short:         "Administrare admitere: consola si comenzi peste API-ul de admin",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.flags.apiURL, "api-url", "", "Admin API base URL (default $ADMITERE_API_URL)")
	flags.StringVar(&a.flags.logLevel, "log-level", "", "Log level (default $LOG_LEVEL)")
	flags.StringVar(&a.flags.sessionDB, "session-db", "", "Session cookie store (default $ADMITERE_SESSION_DB)")

	cmd.AddCommand(newConsoleCmd(a))
	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newWhoamiCmd(a))
	cmd.AddCommand(newPreflightCmd(a))
	for _, entity := range newEntityCmds(a) {
		cmd.AddCommand(entity)
	}
	cmd.AddCommand(newRezultateCmd(a))
	cmd.AddCommand(newRapoarteCmd(a))
	cmd.AddCommand(newProcesareCmd(a))
	cmd.AddCommand(newImportCmd(a))
	cmd.AddCommand(newFakeBackendCmd(a))
	return cmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	stop()
	if err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
