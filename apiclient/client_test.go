package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int64  `json:"id"`
	Nume string `json:"nume"`
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c, err := New(srv.URL, WithLogger(logger))
	require.NoError(t, err)
	return c, srv
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New("localhost")
	require.Error(t, err)
	_, err = New("")
	require.Error(t, err)
}

func TestDo_NoContentIsAbsence(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	out := item{ID: 7}
	ok, err := c.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/api/admin/facultati/7"}, &out)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(7), out.ID)

	got, err := Put[item](context.Background(), c, "/api/admin/facultati/7", item{Nume: "x"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDo_DecodesJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"nume":"Litere"},{"id":2,"nume":"Drept"}]`))
	})

	items, err := List[item](context.Background(), c, "/api/admin/facultati", nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Litere", items[0].Nume)
	assert.Equal(t, "Drept", items[1].Nume)
}

func TestList_EmptyBodyYieldsEmptySlice(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	items, err := List[item](context.Background(), c, "/api/admin/facultati", nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDo_ErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "envelope", status: http.StatusBadRequest, body: `{"error":"Facultatea exista deja."}`, want: "Facultatea exista deja."},
		{name: "raw text", status: http.StatusInternalServerError, body: "database down\n", want: "database down"},
		{name: "empty body", status: http.StatusBadGateway, body: "", want: GenericMessage},
		{name: "empty error field", status: http.StatusBadRequest, body: `{"error":""}`, want: GenericMessage},
		{name: "json without error", status: http.StatusInternalServerError, body: `{"message":"boom","status":500}`, want: GenericMessage},
		{name: "json array", status: http.StatusInternalServerError, body: `["boom"]`, want: GenericMessage},
		{name: "non-string error", status: http.StatusConflict, body: `{"error":{"code":1}}`, want: `{"code":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := Get[item](context.Background(), c, "/x", nil)
			require.Error(t, err)
			assert.Equal(t, tt.want, Message(err))
			assert.Equal(t, tt.status, StatusOf(err))
			assert.False(t, IsTransport(err))
		})
	}
}

func TestDo_MalformedSuccessBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":`))
	})

	_, err := Get[item](context.Background(), c, "/x", nil)
	require.Error(t, err)
	assert.Equal(t, GenericMessage, Message(err))
	assert.Equal(t, http.StatusOK, StatusOf(err))
}

func TestDo_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := New(base, WithLogger(logrus.New()))
	require.NoError(t, err)
	_, err = Get[item](context.Background(), c, "/x", nil)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, GenericMessage, Message(err))
}

func TestDo_RequestShape(t *testing.T) {
	var (
		gotMethod, gotCT, gotReqID, gotQuery string
		gotBody                              map[string]any
	)
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotCT = r.Header.Get("Content-Type")
		gotReqID = r.Header.Get("X-Request-ID")
		gotQuery = r.URL.RawQuery
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":3,"nume":"Litere"}`))
	})

	created, err := Post[item](context.Background(), c, "/api/admin/facultati", map[string]string{"nume": "Litere"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotCT)
	assert.Len(t, gotReqID, 36)
	assert.Equal(t, "Litere", gotBody["nume"])

	_, err = c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/api/admin/candidati",
		Query:  url.Values{"nume": {"Pop"}},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "nume=Pop", gotQuery)
	assert.Empty(t, gotCT)
}

func TestDo_SendsCookies(t *testing.T) {
	var seen string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc", Path: "/"})
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"id":1,"email":"a@b.ro"}`))
			return
		}
		if ck, err := r.Cookie("JSESSIONID"); err == nil {
			seen = ck.Value
		}
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/auth/login", Body: map[string]string{}}, nil)
	require.NoError(t, err)
	_, err = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/auth/me"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", seen)
	require.Len(t, c.Cookies(), 1)

	c.ClearCookies()
	assert.Empty(t, c.Cookies())
}

func TestSetCookies_RestoresSession(t *testing.T) {
	var seen string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("JSESSIONID"); err == nil {
			seen = ck.Value
		}
		w.WriteHeader(http.StatusNoContent)
	})

	c.SetCookies([]*http.Cookie{{Name: "JSESSIONID", Value: "restored"}})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/auth/me"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "restored", seen)
}

func TestURL(t *testing.T) {
	c, err := New("http://localhost:8080/")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/admin/rapoarte/inscrieri-program.csv",
		c.URL("/api/admin/rapoarte/inscrieri-program.csv", nil))
	assert.Equal(t, "http://localhost:8080/api/admin/rapoarte/inscrieri-program.pdf?end=2024-12-31&start=2024-01-01",
		c.URL("/api/admin/rapoarte/inscrieri-program.pdf", url.Values{"start": {"2024-01-01"}, "end": {"2024-12-31"}}))
}

func TestStream(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") == "bad" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Interval invalid."}`))
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("program,inscrisi\nInformatica,3\n"))
	})

	var buf bytes.Buffer
	n, err := c.Stream(context.Background(), "/export.csv", nil, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Contains(t, buf.String(), "Informatica,3")

	buf.Reset()
	_, err = c.Stream(context.Background(), "/export.csv", url.Values{"start": {"bad"}}, &buf)
	require.Error(t, err)
	assert.Equal(t, "Interval invalid.", Message(err))
	assert.Zero(t, buf.Len())
}

func TestItemPath(t *testing.T) {
	assert.Equal(t, "/api/admin/facultati/12", ItemPath("/api/admin/facultati", 12))
}

func TestDo_LogsErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Facultatea exista deja."}`))
	}))
	t.Cleanup(srv.Close)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	c, err := New(srv.URL, WithLogger(logger))
	require.NoError(t, err)

	_, err = c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/admin/facultati", Body: item{Nume: "Drept"}}, nil)
	require.Error(t, err)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.DebugLevel, last.Level)
	assert.Equal(t, "/api/admin/facultati", last.Data["path"])
	assert.Contains(t, last.Message, `status=409 message="Facultatea exista deja."`)
}
