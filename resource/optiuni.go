package resource

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/forms"
	"github.com/nonsonwune/admitere_admin/models"
)

// OptiuniLookup resolves the ids shown on the options page to readable names.
type OptiuniLookup struct {
	DosarEmail  map[int64]string
	ProgramNume map[int64]string
}

// Dosar returns the candidate email behind a dossier, or "-".
func (l OptiuniLookup) Dosar(id int64) string {
	if email, ok := l.DosarEmail[id]; ok {
		return email
	}
	return "-"
}

// Program returns the program name, or "-".
func (l OptiuniLookup) Program(id int64) string {
	if name, ok := l.ProgramNume[id]; ok {
		return name
	}
	return "-"
}

// BuildOptiuniLookup loads dossiers, candidates and programs in parallel.
func BuildOptiuniLookup(ctx context.Context, client *apiclient.Client) (OptiuniLookup, error) {
	var (
		dosare    []models.DosarView
		candidati []models.Candidat
		programe  []models.ProgramStudiuView
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		dosare, err = apiclient.List[models.DosarView](gctx, client, models.PathDosare, nil)
		return err
	})
	g.Go(func() (err error) {
		candidati, err = apiclient.List[models.Candidat](gctx, client, models.PathCandidati, nil)
		return err
	})
	g.Go(func() (err error) {
		programe, err = apiclient.List[models.ProgramStudiuView](gctx, client, models.PathPrograme, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return OptiuniLookup{}, err
	}

	emailByCandidat := make(map[int64]string, len(candidati))
	for _, c := range candidati {
		emailByCandidat[c.ID] = c.Email
	}
	l := OptiuniLookup{
		DosarEmail:  make(map[int64]string, len(dosare)),
		ProgramNume: make(map[int64]string, len(programe)),
	}
	for _, d := range dosare {
		if email := emailByCandidat[d.CandidatID]; email != "" {
			l.DosarEmail[d.ID] = email
		}
	}
	for _, p := range programe {
		l.ProgramNume[p.ID] = p.Nume
	}
	return l, nil
}

// Optiuni is the options page controller. Each load also refreshes the lookup.
type Optiuni struct {
	*Controller[models.Optiune, forms.OptiuneDraft, forms.OptiunePayload]

	mu     sync.Mutex
	lookup OptiuniLookup
}

func NewOptiuni(client *apiclient.Client, logger logrus.FieldLogger) *Optiuni {
	o := &Optiuni{}
	o.Controller = NewController(client, Binding[models.Optiune, forms.OptiuneDraft, forms.OptiunePayload]{
		Path:  models.PathOptiuni,
		ID:    func(op models.Optiune) int64 { return op.ID },
		Empty: func() forms.OptiuneDraft { return forms.OptiuneDraft{} },
		Parse: func(d forms.OptiuneDraft, _ bool) (forms.OptiunePayload, forms.ValidationErrors) {
			return d.Parse()
		},
		DraftFrom: forms.OptiuneDraftFrom,
		Related: func(ctx context.Context) (func(), error) {
			l, err := BuildOptiuniLookup(ctx, client)
			if err != nil {
				return nil, err
			}
			return func() { o.setLookup(l) }, nil
		},
	}, logger)
	return o
}

func (o *Optiuni) Lookup() OptiuniLookup {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lookup
}

func (o *Optiuni) setLookup(l OptiuniLookup) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lookup = l
}
