package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/nonsonwune/admitere_admin/internal/fakebackend"
	"github.com/nonsonwune/admitere_admin/logging"
)

func newFakeBackendCmd(a *app) *cobra.Command {
	var (
		addr string
		demo bool
	)
	cmd := &cobra.Command{
		Use:    "fake-backend",
		Short:  "In-memory admin backend for local development",
		Hidden: true,
		Args:   cobra.NoArgs,
		// No client, config or session store: this command is the server.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			level := a.flags.logLevel
			if level == "" {
				level = "info"
			}
			logger := logging.New(level, cmd.ErrOrStderr())
			opts := []fakebackend.Option{fakebackend.WithLogger(logger)}
			if demo {
				opts = append(opts, fakebackend.WithDemoData())
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           fakebackend.New(opts...),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx := cmd.Context()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
			logger.WithField("addr", addr).Info("Fake backend listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return withCode(exitUsage, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().BoolVar(&demo, "demo", true, "Seed faculties, programs and candidates")
	return cmd
}
