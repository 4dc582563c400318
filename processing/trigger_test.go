package processing

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/models"
)

func newTrigger(t *testing.T, handler http.HandlerFunc, opts ...Option) *Trigger {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client, err := apiclient.New(srv.URL, apiclient.WithLogger(logger))
	require.NoError(t, err)
	return NewTrigger(client, logger, opts...)
}

func TestRun_SetsBanner(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	tr := newTrigger(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, models.PathProcesare, r.URL.Path)
		_, _ = w.Write([]byte(`{"dosareProcesate":10,"dosareAdmise":7,"dosareNealocate":3}`))
	}, WithClock(func() time.Time { return now }))

	res, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, res.DosareAdmise)

	b := tr.Banner()
	assert.Equal(t, "Procesare finalizata: 10 dosare, 7 admisi, 3 respinsi.", b.Message())
	assert.True(t, b.Visible(now.Add(9*time.Second)))
	assert.False(t, b.Visible(now.Add(10*time.Second)))
	assert.False(t, tr.Running())
}

func TestRun_SecondRunWhileInFlightIsRejected(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	arrived := make(chan struct{}, 1)
	tr := newTrigger(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		arrived <- struct{}{}
		<-release
		_, _ = w.Write([]byte(`{"dosareProcesate":1,"dosareAdmise":1,"dosareNealocate":0}`))
	})

	done := make(chan error, 1)
	go func() {
		_, err := tr.Run(context.Background())
		done <- err
	}()
	<-arrived
	assert.True(t, tr.Running())

	_, err := tr.Run(context.Background())
	assert.ErrorIs(t, err, ErrInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())

	// sequential re-runs are fine
	go func() { <-arrived }()
	_, err = tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRun_NewRunHidesPreviousBanner(t *testing.T) {
	var fail atomic.Bool
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	release := make(chan struct{})
	arrived := make(chan struct{}, 1)
	tr := newTrigger(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			arrived <- struct{}{}
			<-release
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Procesare esuata"}`))
			return
		}
		_, _ = w.Write([]byte(`{"dosareProcesate":2,"dosareAdmise":1,"dosareNealocate":1}`))
	}, WithClock(func() time.Time { return now }))

	_, err := tr.Run(context.Background())
	require.NoError(t, err)
	require.True(t, tr.Banner().Visible(now))

	fail.Store(true)
	done := make(chan error, 1)
	go func() {
		_, err := tr.Run(context.Background())
		done <- err
	}()
	<-arrived
	assert.False(t, tr.Banner().Visible(now))

	close(release)
	require.Error(t, <-done)
	assert.Equal(t, "Procesare esuata", tr.Error())
	assert.Equal(t, Banner{}, tr.Banner())
	assert.False(t, tr.Running())
}

func TestBanner_ZeroValueHidden(t *testing.T) {
	assert.False(t, Banner{}.Visible(time.Now()))
}
