package preflight

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/internal/fakebackend"
	"github.com/nonsonwune/admitere_admin/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestVerify_FakeBackendServesEverything(t *testing.T) {
	srv := httptest.NewServer(fakebackend.New(fakebackend.WithLogger(quietLogger())))
	t.Cleanup(srv.Close)
	client, err := apiclient.New(srv.URL, apiclient.WithLogger(quietLogger()))
	require.NoError(t, err)

	require.NoError(t, Verify(context.Background(), client))
}

func TestCheck_ReportsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case models.PathFacultati:
			_, _ = w.Write([]byte(`[]`))
		case models.PathAdmini:
			w.WriteHeader(http.StatusUnauthorized)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	client, err := apiclient.New(srv.URL, apiclient.WithLogger(quietLogger()))
	require.NoError(t, err)

	missing, err := Check(context.Background(), client, []string{models.PathOptiuni, models.PathFacultati, models.PathAdmini, models.PathDosare})
	require.NoError(t, err)
	assert.Equal(t, []string{models.PathDosare, models.PathOptiuni}, missing)

	err = Verify(context.Background(), client)
	var me *MissingEndpointsError
	require.ErrorAs(t, err, &me)
	assert.NotContains(t, me.Paths, models.PathFacultati)
	assert.Contains(t, me.Paths, models.PathRezultate)
}

func TestCheck_UnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	client, err := apiclient.New(url, apiclient.WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = Check(context.Background(), client, []string{models.PathFacultati})
	require.Error(t, err)
	assert.True(t, apiclient.IsTransport(err))
}
