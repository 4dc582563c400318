package fakebackend

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nonsonwune/admitere_admin/models"
)

// Store holds the backend's records in memory. All access goes through its mutex.
type Store struct {
	mu  sync.Mutex
	seq map[string]int64
	now func() time.Time

	facultati map[int64]models.Facultate
	programe  map[int64]models.ProgramStudiu
	candidati map[int64]models.Candidat
	dosare    map[int64]models.Dosar
	optiuni   map[int64]models.Optiune
	admini    map[int64]models.Admin
	parole    map[int64]string
	sessions  map[string]int64
	rezultate []models.RezultatAdmitere
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:       now,
		seq:       map[string]int64{},
		facultati: map[int64]models.Facultate{},
		programe:  map[int64]models.ProgramStudiu{},
		candidati: map[int64]models.Candidat{},
		dosare:    map[int64]models.Dosar{},
		optiuni:   map[int64]models.Optiune{},
		admini:    map[int64]models.Admin{},
		parole:    map[int64]string{},
		sessions:  map[string]int64{},
	}
}

// Collections number their records independently, like per-table identity columns.
const (
	tableFacultati = "facultati"
	tablePrograme  = "programe"
	tableCandidati = "candidati"
	tableDosare    = "dosare"
	tableOptiuni   = "optiuni"
	tableAdmini    = "admini"
)

func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func sortedByID[T any](m map[int64]T) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// AddAdmin registers an administrator able to log in.
func (s *Store) AddAdmin(email, parola string) models.Admin {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := models.Admin{ID: s.nextID(tableAdmini), Email: email, CreatedAt: s.now().UTC()}
	s.admini[a.ID] = a
	s.parole[a.ID] = parola
	return a
}

func (s *Store) login(email, parola string) (models.Admin, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admini {
		if strings.EqualFold(a.Email, email) && s.parole[a.ID] == parola {
			sid := uuid.NewString()
			s.sessions[sid] = a.ID
			return a, sid, true
		}
	}
	return models.Admin{}, "", false
}

func (s *Store) session(sid string) (models.Admin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessions[sid]
	if !ok {
		return models.Admin{}, false
	}
	a, ok := s.admini[id]
	return a, ok
}

func (s *Store) logout(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
}

func (s *Store) facultateView(p models.ProgramStudiu) models.ProgramStudiuView {
	return models.ProgramStudiuView{ProgramStudiu: p, FacultateNume: s.facultati[p.FacultateID].Nume}
}

func (s *Store) programViews() []models.ProgramStudiuView {
	programe := sortedByID(s.programe)
	out := make([]models.ProgramStudiuView, 0, len(programe))
	for _, p := range programe {
		out = append(out, s.facultateView(p))
	}
	return out
}

func (s *Store) dosarView(d models.Dosar) models.DosarView {
	c := s.candidati[d.CandidatID]
	return models.DosarView{Dosar: d, CandidatNume: c.Nume, CandidatPrenume: c.Prenume}
}

func sortByName[T any](items []T, name func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		return strings.Compare(strings.ToLower(name(a)), strings.ToLower(name(b)))
	})
}

// SeedDemo fills the store with a small data set for local runs.
func (s *Store) SeedDemo() {
	s.mu.Lock()
	defer s.mu.Unlock()

	facultate := func(nume string) int64 {
		f := models.Facultate{ID: s.nextID(tableFacultati), Nume: nume}
		s.facultati[f.ID] = f
		return f.ID
	}
	program := func(facultateID int64, nume string, buget, taxa int) int64 {
		p := models.ProgramStudiu{ID: s.nextID(tablePrograme), FacultateID: facultateID, Nume: nume, LocuriBuget: buget, LocuriTaxa: taxa}
		s.programe[p.ID] = p
		return p.ID
	}
	candidat := func(nume, prenume, email string) int64 {
		c := models.Candidat{ID: s.nextID(tableCandidati), Nume: nume, Prenume: prenume, Email: email}
		s.candidati[c.ID] = c
		return c.ID
	}
	dosar := func(candidatID int64, medie float64, programe ...int64) {
		m := medie
		d := models.Dosar{ID: s.nextID(tableDosare), CandidatID: candidatID, Status: models.DosarValidat, Medie: &m, CreatedAt: s.now().UTC().Truncate(time.Second)}
		s.dosare[d.ID] = d
		for i, p := range programe {
			o := models.Optiune{ID: s.nextID(tableOptiuni), DosarID: d.ID, ProgramID: p, Prioritate: i + 1}
			s.optiuni[o.ID] = o
		}
	}

	info := facultate("Facultatea de Informatica")
	litere := facultate("Facultatea de Litere")
	stiinte := facultate("Facultatea de Stiinte Economice")
	cs := program(info, "Informatica", 1, 1)
	ro := program(litere, "Limba si literatura romana", 2, 0)
	ec := program(stiinte, "Economie generala", 1, 1)

	dosar(candidat("Popescu", "Ana", "ana.popescu@example.ro"), 9.4, cs, ro)
	dosar(candidat("Ionescu", "Mihai", "mihai.ionescu@example.ro"), 8.75, cs, ec)
	dosar(candidat("Georgescu", "Ioana", "ioana.georgescu@example.ro"), 8.1, cs)
	dosar(candidat("Stan", "Radu", "radu.stan@example.ro"), 7.3, ro)
}
