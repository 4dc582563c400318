package resource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/forms"
	"github.com/nonsonwune/admitere_admin/internal/fakebackend"
	"github.com/nonsonwune/admitere_admin/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// backend starts a fake backend and returns a client already logged in.
func backend(t *testing.T, opts ...fakebackend.Option) (*apiclient.Client, *fakebackend.Server) {
	t.Helper()
	fb := fakebackend.New(append([]fakebackend.Option{fakebackend.WithLogger(quietLogger())}, opts...)...)
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL, apiclient.WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = client.Do(context.Background(), apiclient.Request{
		Method: http.MethodPost,
		Path:   models.PathLogin,
		Body:   map[string]string{"email": fakebackend.DefaultAdminEmail, "parola": fakebackend.DefaultAdminParola},
	}, nil)
	require.NoError(t, err)
	return client, fb
}

// countingServer answers every request with handler and counts the calls.
func countingServer(t *testing.T, handler http.HandlerFunc) (*apiclient.Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	client, err := apiclient.New(srv.URL, apiclient.WithLogger(quietLogger()))
	require.NoError(t, err)
	return client, &calls
}

func TestFacultati_CreateEditDelete(t *testing.T) {
	client, _ := backend(t)
	ctx := context.Background()
	c := NewFacultati(client, quietLogger())

	require.NoError(t, c.Load(ctx))
	assert.Empty(t, c.Snapshot().Items)

	c.SetForm(func(d *forms.FacultateDraft) { d.Nume = "Litere" })
	require.NoError(t, c.Submit(ctx))

	s := c.Snapshot()
	require.Len(t, s.Items, 1)
	assert.Equal(t, "Litere", s.Items[0].Nume)
	assert.Equal(t, forms.FacultateDraft{}, s.Form)
	assert.Nil(t, s.EditingID)
	assert.Empty(t, s.Error)

	c.StartEdit(s.Items[0])
	s = c.Snapshot()
	require.True(t, s.Editing())
	assert.Equal(t, s.Items[0].ID, *s.EditingID)
	assert.Equal(t, "Litere", s.Form.Nume)

	c.SetForm(func(d *forms.FacultateDraft) { d.Nume = "Litere si Arte" })
	require.NoError(t, c.Submit(ctx))
	s = c.Snapshot()
	require.Len(t, s.Items, 1)
	assert.Equal(t, "Litere si Arte", s.Items[0].Nume)
	assert.False(t, s.Editing())

	require.NoError(t, c.Delete(ctx, s.Items[0].ID))
	assert.Empty(t, c.Snapshot().Items)
}

func submitDraft[T, D, P any](c *Controller[T, D, P], draft D) (string, error) {
	c.SetForm(func(d *D) { *d = draft })
	err := c.Submit(context.Background())
	return c.Snapshot().Error, err
}

func TestSubmit_BlankRequiredFieldNeverCallsBackend(t *testing.T) {
	program := func(edit func(*forms.ProgramDraft)) forms.ProgramDraft {
		d := forms.ProgramDraft{FacultateID: "1", Nume: "Informatica", LocuriBuget: "10", LocuriTaxa: "5"}
		edit(&d)
		return d
	}
	candidat := func(edit func(*forms.CandidatDraft)) forms.CandidatDraft {
		d := forms.CandidatDraft{Nume: "Pop", Prenume: "Ana", Email: "ana@x.ro"}
		edit(&d)
		return d
	}
	optiune := func(edit func(*forms.OptiuneDraft)) forms.OptiuneDraft {
		d := forms.OptiuneDraft{DosarID: "1", ProgramID: "2", Prioritate: "1"}
		edit(&d)
		return d
	}
	admin := func(edit func(*forms.AdminDraft)) forms.AdminDraft {
		d := forms.AdminDraft{Email: "root@x.ro", Parola: "secret"}
		edit(&d)
		return d
	}

	tests := []struct {
		name string
		want string
		run  func(client *apiclient.Client, blank string) (string, error)
	}{
		{"facultate nume", "Introdu un nume pentru facultate.", func(cl *apiclient.Client, b string) (string, error) {
			return submitDraft(NewFacultati(cl, quietLogger()), forms.FacultateDraft{Nume: b})
		}},
		{"program nume", "Introdu numele programului.", func(cl *apiclient.Client, b string) (string, error) {
			return submitDraft(NewPrograme(cl, quietLogger()), program(func(d *forms.ProgramDraft) { d.Nume = b }))
		}},
		{"program facultate", "Campul facultate este obligatoriu.", func(cl *apiclient.Client, b string) (string, error) {
			return submitDraft(NewPrograme(cl, quietLogger()), program(func(d *forms.ProgramDraft) { d.FacultateID = b }))
		}},
		{"program locuri buget", "Campul locuri buget este obligatoriu.", func(cl *apiclient.Client, b string) (string, error) {
			return submitDraft(NewPrograme(cl, quietLogger()), program(func(d *forms.ProgramDraft) { d.LocuriBuget = b }))
		}},
		{"program locuri taxa", "Campul locuri taxa este obligatoriu.", func(cl *apiclient.Client, b string) (string, error) {
			return submitDraft(NewPrograme(cl, quietLogger()), program(func(d *forms.ProgramDraft) { d.LocuriTaxa = b }))
		}},
		{"candidat nume", "Completeaza nume, prenume si email.", func(cl *apiclient.Client, b string) (string, error) {
			return submitDraft(NewCandidati(cl, quietLogger()), candidat(func(d *forms.CandidatDraft) { d.Nume = b }))
		}},
		{"candidat prenume", "Completeaza nume, prenume si email.", func(cl *apiclient.Client, b string) (string, error) {
			return submitDraft(NewCandidati(cl, quietLogger()), candidat(func(d *forms.CandidatDraft) { d.Prenume = b }))
		}},
		{"candidat email", "Completeaza nume, prenume si email.", func(cl *apiclient.Client, b string) (string, error) {
			return submitDraft(NewCandidati(cl, quietLogger()), candidat(func(d *forms.CandidatDraft) { d.Email = b }))
		}},
		{"dosar candidat", "Campul candidat ID este obligatoriu.", func(cl *apiclient.Client, b string) (string, error) {
			return submitDraft(NewDosare(cl, quietLogger()), forms.DosarDraft{CandidatID: b, Status: "IN_LUCRU"})
		}},
		{"optiune dosar", "Campul dosar ID este obligatoriu.", func(cl *apiclient.Client, b string) (string, error) {
			return submitDraft(NewOptiuni(cl, quietLogger()).Controller, optiune(func(d *forms.OptiuneDraft) { d.DosarID = b }))
		}},
		{"optiune program", "Campul program ID este obligatoriu.", func(cl *apiclient.Client, b string) (string, error) {
			return submitDraft(NewOptiuni(cl, quietLogger()).Controller, optiune(func(d *forms.OptiuneDraft) { d.ProgramID = b }))
		}},
		{"optiune prioritate", "Campul prioritate este obligatoriu.", func(cl *apiclient.Client, b string) (string, error) {
			return submitDraft(NewOptiuni(cl, quietLogger()).Controller, optiune(func(d *forms.OptiuneDraft) { d.Prioritate = b }))
		}},
		{"admin email", "Introdu emailul administratorului.", func(cl *apiclient.Client, b string) (string, error) {
			return submitDraft(NewAdmini(cl, quietLogger()), admin(func(d *forms.AdminDraft) { d.Email = b }))
		}},
		{"admin parola on create", "Parola este obligatorie la creare.", func(cl *apiclient.Client, b string) (string, error) {
			return submitDraft(NewAdmini(cl, quietLogger()), admin(func(d *forms.AdminDraft) { d.Parola = b }))
		}},
	}
	for _, tt := range tests {
		for _, blank := range []string{"", "   "} {
			t.Run(fmt.Sprintf("%s/%q", tt.name, blank), func(t *testing.T) {
				client, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusCreated)
				})

				msg, err := tt.run(client, blank)

				var verrs forms.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Equal(t, tt.want, msg)
				assert.Zero(t, calls.Load())
			})
		}
	}
}

func TestSubmit_RemoteFailureKeepsFormAndEditState(t *testing.T) {
	client, _ := backend(t)
	ctx := context.Background()
	c := NewFacultati(client, quietLogger())

	for _, nume := range []string{"Drept", "Litere"} {
		c.SetForm(func(d *forms.FacultateDraft) { d.Nume = nume })
		require.NoError(t, c.Submit(ctx))
	}
	items := c.Snapshot().Items
	require.Len(t, items, 2)

	c.StartEdit(items[1])
	c.SetForm(func(d *forms.FacultateDraft) { d.Nume = "Drept" })
	require.Error(t, c.Submit(ctx))

	s := c.Snapshot()
	assert.Equal(t, "Date invalide sau duplicate", s.Error)
	assert.Equal(t, "Drept", s.Form.Nume)
	require.NotNil(t, s.EditingID)
	assert.Equal(t, items[1].ID, *s.EditingID)

	c.CancelEdit()
	s = c.Snapshot()
	assert.Nil(t, s.EditingID)
	assert.Empty(t, s.Form.Nume)
}

func TestDelete_FailureLeavesListAsIs(t *testing.T) {
	client, _ := backend(t, fakebackend.WithDemoData())
	ctx := context.Background()
	c := NewFacultati(client, quietLogger())
	require.NoError(t, c.Load(ctx))
	before := c.Snapshot().Items
	require.NotEmpty(t, before)

	// every demo faculty still has programs
	require.Error(t, c.Delete(ctx, before[0].ID))
	s := c.Snapshot()
	assert.Equal(t, "Date invalide sau duplicate", s.Error)
	assert.Equal(t, before, s.Items)
}

func TestLoad_FailureKeepsPreviousItems(t *testing.T) {
	var fail atomic.Bool
	client, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"nume":"Litere"}]`))
	})
	c := NewFacultati(client, quietLogger())
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	fail.Store(true)
	require.Error(t, c.Load(ctx))

	s := c.Snapshot()
	assert.Equal(t, apiclient.GenericMessage, s.Error)
	require.Len(t, s.Items, 1)
	assert.Equal(t, "Litere", s.Items[0].Nume)

	fail.Store(false)
	require.NoError(t, c.Load(ctx))
	assert.Empty(t, c.Snapshot().Error)
}

func TestDispose_DropsLateResponse(t *testing.T) {
	release := make(chan struct{})
	arrived := make(chan struct{})
	client, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		_, _ = w.Write([]byte(`[{"id":1,"nume":"Litere"}]`))
	})
	c := NewFacultati(client, quietLogger())

	done := make(chan error, 1)
	go func() { done <- c.Load(context.Background()) }()
	<-arrived
	c.Dispose()
	close(release)

	assert.ErrorIs(t, <-done, ErrDisposed)
	assert.Empty(t, c.Snapshot().Items)
	assert.ErrorIs(t, c.Load(context.Background()), ErrDisposed)
}

func TestLoad_OlderResponseIsDropped(t *testing.T) {
	releaseSlow := make(chan struct{})
	slowArrived := make(chan struct{})
	client, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "slow" {
			close(slowArrived)
			<-releaseSlow
			_, _ = w.Write([]byte(`[{"id":1,"nume":"Vechi"}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":2,"nume":"Nou"}]`))
	})
	c := NewFacultati(client, quietLogger())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.LoadWith(ctx, map[string][]string{"q": {"slow"}}) }()
	<-slowArrived
	require.NoError(t, c.LoadWith(ctx, nil))
	close(releaseSlow)
	require.NoError(t, <-done)

	s := c.Snapshot()
	require.Len(t, s.Items, 1)
	assert.Equal(t, "Nou", s.Items[0].Nume)
}

func TestPrograme_FilterValidationBlocksRequest(t *testing.T) {
	client, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	c := NewPrograme(client, quietLogger())

	f := forms.ProgramFilter{BugetMin: "50", BugetMax: "10"}
	require.Error(t, c.ApplyFilter(context.Background(), f.Query))
	assert.Equal(t, "Buget minim nu poate fi mai mare decat buget maxim.", c.Snapshot().Error)
	assert.Zero(t, calls.Load())
}

func TestPrograme_FilterAndJoinedView(t *testing.T) {
	client, _ := backend(t, fakebackend.WithDemoData())
	ctx := context.Background()
	c := NewPrograme(client, quietLogger())

	f := forms.ProgramFilter{BugetMin: "2"}
	require.NoError(t, c.ApplyFilter(ctx, f.Query))
	s := c.Snapshot()
	require.Len(t, s.Items, 1)
	assert.Equal(t, "Limba si literatura romana", s.Items[0].Nume)
	assert.Equal(t, "Facultatea de Litere", s.Items[0].FacultateNume)
	assert.Equal(t, "2", s.Filter.Get("locuriBugetMin"))

	// later reloads keep the filter
	require.NoError(t, c.Load(ctx))
	assert.Len(t, c.Snapshot().Items, 1)

	require.NoError(t, c.LoadWith(ctx, nil))
	assert.Len(t, c.Snapshot().Items, 3)
}

func TestCandidati_FilterAndBlankPasswordIsNull(t *testing.T) {
	client, _ := backend(t)
	ctx := context.Background()
	c := NewCandidati(client, quietLogger())

	c.SetForm(func(d *forms.CandidatDraft) {
		*d = forms.CandidatDraft{Nume: "Pop", Prenume: "Ana", Email: "ana@x.ro"}
	})
	require.NoError(t, c.Submit(ctx))
	c.SetForm(func(d *forms.CandidatDraft) {
		*d = forms.CandidatDraft{Nume: "Ionescu", Prenume: "Dan", Email: "dan@x.ro", Parola: "secret"}
	})
	require.NoError(t, c.Submit(ctx))

	require.NoError(t, c.LoadWith(ctx, forms.CandidatFilter{Nume: "pop"}.Query()))
	s := c.Snapshot()
	require.Len(t, s.Items, 1)
	assert.Nil(t, s.Items[0].ParolaHash)

	require.NoError(t, c.LoadWith(ctx, forms.CandidatFilter{Email: "dan@"}.Query()))
	s = c.Snapshot()
	require.Len(t, s.Items, 1)
	assert.NotNil(t, s.Items[0].ParolaHash)
}

func TestDosare_DefaultStatusAndOptionalMedie(t *testing.T) {
	client, _ := backend(t)
	ctx := context.Background()
	cand := NewCandidati(client, quietLogger())
	cand.SetForm(func(d *forms.CandidatDraft) {
		*d = forms.CandidatDraft{Nume: "Pop", Prenume: "Ana", Email: "ana@x.ro"}
	})
	require.NoError(t, cand.Submit(ctx))
	candidatID := cand.Snapshot().Items[0].ID

	c := NewDosare(client, quietLogger())
	assert.Equal(t, "IN_LUCRU", c.Snapshot().Form.Status)
	c.SetForm(func(d *forms.DosarDraft) { d.CandidatID = formatID(candidatID) })
	require.NoError(t, c.Submit(ctx))

	s := c.Snapshot()
	require.Len(t, s.Items, 1)
	assert.Equal(t, models.DosarInLucru, s.Items[0].Status)
	assert.Nil(t, s.Items[0].Medie)
	assert.Equal(t, "Pop", s.Items[0].CandidatNume)
	assert.Equal(t, "IN_LUCRU", s.Form.Status)
}

func TestAdmini_EditWithBlankPasswordKeepsPassword(t *testing.T) {
	client, _ := backend(t)
	ctx := context.Background()
	c := NewAdmini(client, quietLogger())

	c.SetForm(func(d *forms.AdminDraft) { d.Email = "nou@x.ro" })
	require.Error(t, c.Submit(ctx))
	assert.Equal(t, "Parola este obligatorie la creare.", c.Snapshot().Error)

	c.SetForm(func(d *forms.AdminDraft) { d.Parola = "parola1" })
	require.NoError(t, c.Submit(ctx))

	var created models.Admin
	for _, a := range c.Snapshot().Items {
		if a.Email == "nou@x.ro" {
			created = a
		}
	}
	require.NotZero(t, created.ID)

	c.StartEdit(created)
	assert.Empty(t, c.Snapshot().Form.Parola)
	c.SetForm(func(d *forms.AdminDraft) { d.Email = "redenumit@x.ro" })
	require.NoError(t, c.Submit(ctx))

	other, err := apiclient.New(client.BaseURL(), apiclient.WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = other.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   models.PathLogin,
		Body:   map[string]string{"email": "redenumit@x.ro", "parola": "parola1"},
	}, nil)
	require.NoError(t, err)
}
