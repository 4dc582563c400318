// Package session guards the admin area: it checks the backend session before any
// protected view is shown and hands the signed-in admin to those views.
package session

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/models"
)

// ErrUnauthenticated means the caller must go to the login screen.
var ErrUnauthenticated = errors.New("sesiune inexistenta sau expirata")

type authError struct {
	cause error
}

func (e *authError) Error() string {
	if e.cause == nil {
		return ErrUnauthenticated.Error()
	}
	return ErrUnauthenticated.Error() + ": " + e.cause.Error()
}

func (e *authError) Is(target error) bool { return target == ErrUnauthenticated }

func (e *authError) Unwrap() error { return e.cause }

// Context is the signed-in admin, passed explicitly to every protected view.
type Context struct {
	Admin   models.Admin
	revoked atomic.Bool
}

// Valid reports whether the context has not been logged out.
func (c *Context) Valid() bool {
	return c != nil && !c.revoked.Load()
}

type Gate struct {
	client *apiclient.Client
	store  *Store
	logger logrus.FieldLogger
}

// NewGate creates a gate. store may be nil, in which case cookies live only in memory.
func NewGate(client *apiclient.Client, store *Store, logger logrus.FieldLogger) *Gate {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Gate{client: client, store: store, logger: logger.WithField("component", "session")}
}

// Mount verifies the session. Any failure yields ErrUnauthenticated.
func (g *Gate) Mount(ctx context.Context) (*Context, error) {
	if g.store != nil {
		cookies, err := g.store.Load(g.client.BaseURL())
		if err != nil {
			g.logger.WithError(err).Warn("could not restore session cookies")
		} else if len(cookies) > 0 {
			g.client.SetCookies(cookies)
		}
	}
	admin, err := apiclient.Get[models.Admin](ctx, g.client, models.PathMe, nil)
	if err != nil {
		return nil, &authError{cause: err}
	}
	if admin == nil {
		return nil, &authError{}
	}
	return &Context{Admin: *admin}, nil
}

// Login authenticates and persists the session cookie.
func (g *Gate) Login(ctx context.Context, email, parola string) (*Context, error) {
	admin, err := apiclient.Post[models.Admin](ctx, g.client, models.PathLogin, map[string]string{
		"email":  strings.TrimSpace(email),
		"parola": parola,
	})
	if err != nil {
		return nil, err
	}
	if admin == nil {
		// Some backends answer 204; fall back to asking who we are.
		return g.Mount(ctx)
	}
	if g.store != nil {
		if err := g.store.Save(g.client.BaseURL(), g.client.Cookies()); err != nil {
			g.logger.WithError(err).Warn("could not persist session cookies")
		}
	}
	return &Context{Admin: *admin}, nil
}

// Logout ends the session. The context and stored cookies are dropped whatever the
// backend answers; its error is returned only for display.
func (g *Gate) Logout(ctx context.Context, sc *Context) error {
	_, err := g.client.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: models.PathLogout}, nil)
	if sc != nil {
		sc.revoked.Store(true)
	}
	g.client.ClearCookies()
	if g.store != nil {
		if clearErr := g.store.Clear(g.client.BaseURL()); clearErr != nil {
			g.logger.WithError(clearErr).Warn("could not clear stored session")
		}
	}
	return err
}
