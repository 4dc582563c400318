package resource

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsonwune/admitere_admin/forms"
	"github.com/nonsonwune/admitere_admin/internal/fakebackend"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestOptiuni_LoadResolvesLookup(t *testing.T) {
	client, _ := backend(t, fakebackend.WithDemoData())
	ctx := context.Background()
	c := NewOptiuni(client, quietLogger())

	require.NoError(t, c.Load(ctx))
	s := c.Snapshot()
	require.NotEmpty(t, s.Items)

	l := c.Lookup()
	first := s.Items[0]
	assert.Equal(t, "ana.popescu@example.ro", l.Dosar(first.DosarID))
	assert.Equal(t, "Informatica", l.Program(first.ProgramID))
	assert.Equal(t, "-", l.Dosar(99999))
	assert.Equal(t, "-", l.Program(99999))
}

func TestOptiuni_CreateThroughController(t *testing.T) {
	client, _ := backend(t, fakebackend.WithDemoData())
	ctx := context.Background()
	c := NewOptiuni(client, quietLogger())
	require.NoError(t, c.Load(ctx))
	existing := c.Snapshot().Items[0]

	c.SetForm(func(d *forms.OptiuneDraft) {
		*d = forms.OptiuneDraft{DosarID: formatID(existing.DosarID), ProgramID: "x", Prioritate: "3"}
	})
	require.Error(t, c.Submit(ctx))
	assert.Equal(t, "Campul program ID trebuie sa fie numeric.", c.Snapshot().Error)

	before := len(c.Snapshot().Items)
	c.SetForm(func(d *forms.OptiuneDraft) { d.ProgramID = formatID(existing.ProgramID) })
	require.NoError(t, c.Submit(ctx))
	assert.Len(t, c.Snapshot().Items, before+1)
}

func TestBuildOptiuniLookup_SkipsCandidatesWithoutDossier(t *testing.T) {
	client, _ := backend(t, fakebackend.WithDemoData())
	l, err := BuildOptiuniLookup(context.Background(), client)
	require.NoError(t, err)
	assert.Len(t, l.DosarEmail, 4)
	assert.Len(t, l.ProgramNume, 3)
}
