package main

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/config"
	"github.com/nonsonwune/admitere_admin/logging"
	"github.com/nonsonwune/admitere_admin/session"
)

type rootFlags struct {
	apiURL    string
	logLevel  string
	sessionDB string
}

// app carries what every command shares. setup fills it before any command runs.
type app struct {
	flags rootFlags

	cfg    *config.Config
	logger *logrus.Logger
	client *apiclient.Client
	store  *session.Store
	gate   *session.Gate
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.DefaultEnvFiles)
	if err != nil {
		return withCode(exitUsage, err)
	}
	if a.flags.apiURL != "" {
		cfg.APIBaseURL = a.flags.apiURL
	}
	if a.flags.logLevel != "" {
		cfg.LogLevel = a.flags.logLevel
	}
	if a.flags.sessionDB != "" {
		cfg.SessionDBPath = a.flags.sessionDB
	}
	if err := cfg.Validate(); err != nil {
		return withCode(exitUsage, err)
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.LogLevel, cmd.ErrOrStderr())

	a.client, err = apiclient.New(cfg.APIBaseURL,
		apiclient.WithLogger(a.logger),
		apiclient.WithTimeout(cfg.HTTPTimeout),
		apiclient.WithRequestIDHeader(cfg.RequestIDHeader),
	)
	if err != nil {
		return withCode(exitUsage, err)
	}
	if a.store, err = session.OpenStore(cfg.SessionDBPath); err != nil {
		a.logger.WithError(err).Warn("Session store unavailable, the session will not be kept")
		a.store = nil
	}
	a.gate = session.NewGate(a.client, a.store, a.logger)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.logger != nil {
			a.logger.WithError(err).Warn("close session store")
		}
		a.store = nil
	}
}

// requireSession restores the stored session or fails with the session exit code.
func (a *app) requireSession(ctx context.Context) (*session.Context, error) {
	sc, err := a.gate.Mount(ctx)
	if err != nil {
		return nil, withCode(exitSession, errors.Wrap(err, "nu esti autentificat, ruleaza `admitere login`"))
	}
	return sc, nil
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
