package reports

import (
	"context"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/models"
)

// NoFaculty heads the group of results without an allocated program.
const NoFaculty = "Fara facultate"

type Group struct {
	Facultate string
	Items     []models.RezultatAdmitere
}

// Results is the processed-applications page.
type Results struct {
	client *apiclient.Client
	logger logrus.FieldLogger

	mu       sync.Mutex
	items    []models.RezultatAdmitere
	err      string
	issued   uint64
	applied  uint64
	disposed bool
}

func NewResults(client *apiclient.Client, logger logrus.FieldLogger) *Results {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Results{client: client, logger: logger.WithField("component", "rezultate")}
}

func (r *Results) Load(ctx context.Context) error {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return ErrDisposed
	}
	r.err = ""
	r.issued++
	gen := r.issued
	r.mu.Unlock()

	items, err := apiclient.List[models.RezultatAdmitere](ctx, r.client, models.PathRezultate, nil)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return ErrDisposed
	}
	if gen < r.applied {
		return nil
	}
	r.applied = gen
	if err != nil {
		r.err = apiclient.Message(err)
		if r.err == "" {
			r.err = "Nu pot incarca rezultatele."
		}
		return err
	}
	r.items = items
	return nil
}

// Dispose drops every response that resolves afterwards.
func (r *Results) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disposed = true
}

func (r *Results) Items() []models.RezultatAdmitere {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.RezultatAdmitere(nil), r.items...)
}

func (r *Results) Error() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Grouped splits results by faculty name, groups in Romanian order, items in server order.
func (r *Results) Grouped() []Group {
	var groups []Group
	index := map[string]int{}
	for _, item := range r.Items() {
		key := NoFaculty
		if item.FacultateNume != nil {
			key = *item.FacultateNume
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Facultate: key})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	sortRomanian(groups, func(g Group) string { return g.Facultate })
	return groups
}

// FormatMedie renders a mark with two decimals, or "-" when there is none.
func FormatMedie(m *float64) string {
	if m == nil {
		return "-"
	}
	return strconv.FormatFloat(*m, 'f', 2, 64)
}
