// Package reports loads the read-only admission reports and results.
package reports

import (
	"context"
	"io"
	"net/url"
	"sync"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/models"
)

// ErrDisposed is returned by loads on a view whose page has been left.
var ErrDisposed = errors.New("view disposed")

type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts the export formats the backend renders.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatPDF:
		return Format(s), nil
	}
	return "", errors.Errorf("format necunoscut: %q", s)
}

// Snapshot is a copy of the report view state.
type Snapshot struct {
	Filter    Filter
	Programe  []models.RaportInscrieriProgram
	Facultati []models.RaportFacultate
	Error     string
}

// View holds both reports for one filter. They are always replaced together.
type View struct {
	client *apiclient.Client
	logger logrus.FieldLogger

	mu        sync.Mutex
	filter    Filter
	query     url.Values
	programe  []models.RaportInscrieriProgram
	facultati []models.RaportFacultate
	err       string
	issued    uint64
	applied   uint64
	disposed  bool
}

func NewView(client *apiclient.Client, logger logrus.FieldLogger) *View {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &View{client: client, logger: logger.WithField("component", "rapoarte")}
}

// Load validates f and fetches both reports in parallel.
func (v *View) Load(ctx context.Context, f Filter) error {
	query, errs := f.Query()
	v.mu.Lock()
	if v.disposed {
		v.mu.Unlock()
		return ErrDisposed
	}
	if !errs.OK() {
		v.err = errs.First()
		v.mu.Unlock()
		return errs
	}
	v.err = ""
	v.issued++
	gen := v.issued
	v.mu.Unlock()

	var (
		programe  []models.RaportInscrieriProgram
		facultati []models.RaportFacultate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		programe, err = apiclient.List[models.RaportInscrieriProgram](gctx, v.client, models.PathRaportInscrieri, query)
		return err
	})
	g.Go(func() (err error) {
		facultati, err = apiclient.List[models.RaportFacultate](gctx, v.client, models.PathRaportFacultati, query)
		return err
	})
	err := g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return ErrDisposed
	}
	if gen < v.applied {
		return nil
	}
	v.applied = gen
	if err != nil {
		v.err = apiclient.Message(err)
		if v.err == "" {
			v.err = "Nu pot incarca rapoartele."
		}
		return err
	}
	v.filter, v.query = f, query
	v.programe, v.facultati = programe, facultati
	return nil
}

// Dispose drops every response that resolves afterwards.
func (v *View) Dispose() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.disposed = true
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot{
		Filter:    v.filter,
		Programe:  append([]models.RaportInscrieriProgram(nil), v.programe...),
		Facultati: append([]models.RaportFacultate(nil), v.facultati...),
		Error:     v.err,
	}
}

// SortedFacultati orders the faculty report by name, ignoring case and diacritics.
func (v *View) SortedFacultati() []models.RaportFacultate {
	out := v.Snapshot().Facultati
	sortRomanian(out, func(r models.RaportFacultate) string { return r.FacultateNume },
		collate.IgnoreCase, collate.IgnoreDiacritics)
	return out
}

// MaxBar is the largest admitted or rejected count, at least 1, used to scale bars.
func (v *View) MaxBar() int {
	best := 1
	for _, r := range v.Snapshot().Facultati {
		best = max(best, r.Admisi, r.Respinsi)
	}
	return best
}

// ExportURL is the backend link for the enrolment report in the given format, with the
// filter last loaded.
func (v *View) ExportURL(format Format) string {
	v.mu.Lock()
	query := v.query
	v.mu.Unlock()
	return v.client.URL(exportPath(format), query)
}

// Download streams the backend export into w.
func (v *View) Download(ctx context.Context, format Format, w io.Writer) (int64, error) {
	v.mu.Lock()
	query := v.query
	v.mu.Unlock()
	return v.client.Stream(ctx, exportPath(format), query, w)
}

func exportPath(format Format) string {
	return models.PathRaportInscrieri + "." + string(format)
}
