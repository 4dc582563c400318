package search

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/models"
)

func newSelect(t *testing.T, handler http.HandlerFunc) *Select {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client, err := apiclient.New(srv.URL, apiclient.WithLogger(logger))
	require.NoError(t, err)
	return NewSelect(client, logger)
}

func facultatiHandler(queries *[]string, mu *sync.Mutex) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		*queries = append(*queries, r.URL.RawQuery)
		mu.Unlock()
		_, _ = w.Write([]byte(`[{"id":1,"nume":"Facultatea de Litere"},{"id":2,"nume":"Litere"}]`))
	}
}

func TestSelect_TypeQueryChoose(t *testing.T) {
	var (
		mu      sync.Mutex
		queries []string
	)
	s := newSelect(t, facultatiHandler(&queries, &mu))
	ctx := context.Background()

	ticket := s.Type("lit")
	require.NotZero(t, ticket)
	assert.Equal(t, Idle, s.Snapshot().State)

	require.NoError(t, s.Query(ctx, ticket))
	v := s.Snapshot()
	assert.Equal(t, SuggestionsShown, v.State)
	require.Len(t, v.Suggestions, 2)
	assert.Equal(t, "Litere", v.Suggestions[0].Nume)
	assert.Nil(t, v.FacultateID)
	assert.Equal(t, []string{"q=lit"}, queries)

	s.Choose(v.Suggestions[0])
	v = s.Snapshot()
	assert.Equal(t, Resolved, v.State)
	require.NotNil(t, v.FacultateID)
	assert.Equal(t, int64(2), *v.FacultateID)
	assert.Equal(t, "Litere", v.Text)
	assert.Empty(t, v.Suggestions)

	// a keystroke invalidates the resolved id
	s.Type("Litere ")
	v = s.Snapshot()
	assert.Nil(t, v.FacultateID)
	assert.Equal(t, Idle, v.State)
}

func TestSelect_StaleTicketIsDropped(t *testing.T) {
	var (
		mu      sync.Mutex
		queries []string
	)
	s := newSelect(t, facultatiHandler(&queries, &mu))
	ctx := context.Background()

	old := s.Type("l")
	latest := s.Type("li")

	require.NoError(t, s.Query(ctx, old))
	assert.Empty(t, queries)
	assert.Equal(t, Idle, s.Snapshot().State)

	require.NoError(t, s.Query(ctx, latest))
	assert.Equal(t, SuggestionsShown, s.Snapshot().State)
	assert.Equal(t, []string{"q=li"}, queries)
}

func TestSelect_BlankTextIsIdleWithoutRequest(t *testing.T) {
	var (
		mu      sync.Mutex
		queries []string
	)
	s := newSelect(t, facultatiHandler(&queries, &mu))

	assert.Zero(t, s.Type("   "))
	assert.Equal(t, Idle, s.Snapshot().State)
	assert.Empty(t, queries)

	// focusing the field lists every faculty
	require.NoError(t, s.Query(context.Background(), s.Open()))
	assert.Equal(t, []string{""}, queries)
	assert.Len(t, s.Snapshot().Suggestions, 2)
}

func TestSelect_ClearingTextWhileOpenListsEveryFaculty(t *testing.T) {
	var (
		mu      sync.Mutex
		queries []string
	)
	s := newSelect(t, facultatiHandler(&queries, &mu))
	ctx := context.Background()

	require.NoError(t, s.Query(ctx, s.Type("lit")))
	require.Equal(t, SuggestionsShown, s.Snapshot().State)

	ticket := s.Type("")
	require.NotZero(t, ticket)
	require.NoError(t, s.Query(ctx, ticket))

	v := s.Snapshot()
	assert.Equal(t, SuggestionsShown, v.State)
	assert.Len(t, v.Suggestions, 2)
	assert.Nil(t, v.FacultateID)
	assert.Equal(t, []string{"q=lit", ""}, queries)
}

func TestSelect_DismissKeepsResolvedID(t *testing.T) {
	s := newSelect(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	s.Preset(5, "Drept")
	s.Dismiss()
	v := s.Snapshot()
	assert.Equal(t, Resolved, v.State)
	require.NotNil(t, v.FacultateID)
	assert.Equal(t, int64(5), *v.FacultateID)

	s.Clear()
	v = s.Snapshot()
	assert.Equal(t, Idle, v.State)
	assert.Nil(t, v.FacultateID)
	assert.Empty(t, v.Text)
}

func TestSelect_FailureSetsErrorAndReturnsToIdle(t *testing.T) {
	s := newSelect(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Cautare indisponibila"}`))
	})

	require.Error(t, s.Query(context.Background(), s.Type("x")))
	v := s.Snapshot()
	assert.Equal(t, Idle, v.State)
	assert.Equal(t, "Cautare indisponibila", v.Error)
}

func TestSelect_DebouncedQueryRunsOnceForBurst(t *testing.T) {
	var (
		mu      sync.Mutex
		queries []string
	)
	s := newSelect(t, facultatiHandler(&queries, &mu))
	updates := make(chan View, 4)
	s.Debounce(context.Background(), NewDebouncer(20*time.Millisecond), func(v View) { updates <- v })

	s.Type("l")
	s.Type("li")
	s.Type("lit")

	select {
	case v := <-updates:
		assert.Equal(t, SuggestionsShown, v.State)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced query did not run")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"q=lit"}, queries)
}

func TestRank(t *testing.T) {
	items := []models.Facultate{
		{ID: 1, Nume: "Facultatea de Drept"},
		{ID: 2, Nume: "Facultatea de Litere"},
		{ID: 3, Nume: "Litere"},
	}
	got := Rank("litere", items)
	require.Len(t, got, 3)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
	assert.Equal(t, int64(1), got[2].ID)

	assert.Equal(t, items, Rank("", items))
}
