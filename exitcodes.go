package main

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/forms"
	"github.com/nonsonwune/admitere_admin/session"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitRemote     = 4
	exitSession    = 5
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}

// classify maps a failure to its exit code, showing msg in place of the raw error.
func classify(err error, msg string) error {
	if err == nil {
		return nil
	}
	if msg == "" {
		msg = err.Error()
	}
	var verrs forms.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return withCode(exitValidation, errors.New(msg))
	case errors.Is(err, session.ErrUnauthenticated), apiclient.StatusOf(err) == http.StatusUnauthorized:
		return withCode(exitSession, errors.New(msg))
	}
	return withCode(exitRemote, errors.New(msg))
}
