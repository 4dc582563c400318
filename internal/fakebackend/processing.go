package fakebackend

import (
	"slices"
	"strings"
	"time"

	"github.com/nonsonwune/admitere_admin/models"
)

const (
	statusAdmis   = "ADMIS"
	statusRespins = "RESPINS"
)

// process allocates VALIDAT dossiers with a mark, best mark first, to the first option
// with seats left. Results replace the previous run.
func (s *Store) process() models.ProcesareAdmitereResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dosare []models.Dosar
	for _, d := range s.dosare {
		if d.Status == models.DosarValidat && d.Medie != nil {
			dosare = append(dosare, d)
		}
	}
	slices.SortFunc(dosare, func(a, b models.Dosar) int {
		switch {
		case *a.Medie > *b.Medie:
			return -1
		case *a.Medie < *b.Medie:
			return 1
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})

	optiuni := s.optiuniByDosar()
	locuri := make(map[int64]int, len(s.programe))
	for id, p := range s.programe {
		locuri[id] = p.LocuriBuget + p.LocuriTaxa
	}

	var res models.ProcesareAdmitereResult
	rezultate := make([]models.RezultatAdmitere, 0, len(dosare))
	for _, d := range dosare {
		res.DosareProcesate++
		var shown *models.Optiune
		admis := false
		for i, o := range optiuni[d.ID] {
			if i == 0 {
				shown = &optiuni[d.ID][0]
			}
			if locuri[o.ProgramID] <= 0 {
				continue
			}
			locuri[o.ProgramID]--
			shown = &optiuni[d.ID][i]
			admis = true
			break
		}
		if admis {
			res.DosareAdmise++
		} else {
			res.DosareNealocate++
		}

		c := s.candidati[d.CandidatID]
		r := models.RezultatAdmitere{
			DosarID:         d.ID,
			CandidatID:      d.CandidatID,
			CandidatNume:    c.Nume,
			CandidatPrenume: c.Prenume,
			Medie:           d.Medie,
			CreatedAt:       d.CreatedAt,
			Status:          statusRespins,
		}
		if admis {
			r.Status = statusAdmis
		}
		if shown != nil {
			prioritate := shown.Prioritate
			r.Prioritate = &prioritate
			if p, ok := s.programe[shown.ProgramID]; ok {
				id, nume := p.ID, p.Nume
				facultate := s.facultati[p.FacultateID].Nume
				r.ProgramID, r.ProgramNume, r.FacultateNume = &id, &nume, &facultate
			}
		}
		rezultate = append(rezultate, r)
	}
	s.rezultate = rezultate
	return res
}

func (s *Store) optiuniByDosar() map[int64][]models.Optiune {
	out := map[int64][]models.Optiune{}
	for _, o := range sortedByID(s.optiuni) {
		out[o.DosarID] = append(out[o.DosarID], o)
	}
	for id := range out {
		slices.SortStableFunc(out[id], func(a, b models.Optiune) int { return a.Prioritate - b.Prioritate })
	}
	return out
}

// dateRange bounds results by the calendar day of their creation. Zero values are open.
type dateRange struct {
	start, end time.Time
}

func (r dateRange) contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if !r.start.IsZero() && day.Before(r.start) {
		return false
	}
	if !r.end.IsZero() && day.After(r.end) {
		return false
	}
	return true
}

func (s *Store) results(r dateRange) []models.RezultatAdmitere {
	out := make([]models.RezultatAdmitere, 0, len(s.rezultate))
	for _, rez := range s.rezultate {
		if r.contains(rez.CreatedAt) {
			out = append(out, rez)
		}
	}
	return out
}

func (s *Store) raportInscrieri(r dateRange) []models.RaportInscrieriProgram {
	s.mu.Lock()
	defer s.mu.Unlock()

	inscrisi := map[int64]int{}
	for _, rez := range s.results(r) {
		if rez.Status == statusAdmis && rez.ProgramID != nil {
			inscrisi[*rez.ProgramID]++
		}
	}
	views := s.programViews()
	out := make([]models.RaportInscrieriProgram, 0, len(views))
	for _, p := range views {
		out = append(out, models.RaportInscrieriProgram{
			ProgramID:     p.ID,
			ProgramNume:   p.Nume,
			FacultateNume: p.FacultateNume,
			Inscrisi:      inscrisi[p.ID],
		})
	}
	slices.SortStableFunc(out, func(a, b models.RaportInscrieriProgram) int {
		if c := strings.Compare(strings.ToLower(a.FacultateNume), strings.ToLower(b.FacultateNume)); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.ProgramNume), strings.ToLower(b.ProgramNume))
	})
	return out
}

// raportFacultati counts admissions per faculty. A rejected dossier counts against the
// faculty of its first option.
func (s *Store) raportFacultati(r dateRange) []models.RaportFacultate {
	s.mu.Lock()
	defer s.mu.Unlock()

	rezultate := s.results(r)
	if len(rezultate) == 0 {
		return []models.RaportFacultate{}
	}
	byFaculty := map[string]*models.RaportFacultate{}
	for _, p := range s.programViews() {
		if _, ok := byFaculty[p.FacultateNume]; !ok {
			byFaculty[p.FacultateNume] = &models.RaportFacultate{FacultateNume: p.FacultateNume}
		}
	}
	get := func(name string) *models.RaportFacultate {
		if _, ok := byFaculty[name]; !ok {
			byFaculty[name] = &models.RaportFacultate{FacultateNume: name}
		}
		return byFaculty[name]
	}

	optiuni := s.optiuniByDosar()
	for _, rez := range rezultate {
		switch rez.Status {
		case statusAdmis:
			if rez.FacultateNume != nil {
				get(*rez.FacultateNume).Admisi++
			}
		case statusRespins:
			first := optiuni[rez.DosarID]
			if len(first) == 0 {
				continue
			}
			p, ok := s.programe[first[0].ProgramID]
			if !ok {
				continue
			}
			get(s.facultati[p.FacultateID].Nume).Respinsi++
		}
	}

	names := make([]string, 0, len(byFaculty))
	for name := range byFaculty {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]models.RaportFacultate, 0, len(names))
	for _, name := range names {
		out = append(out, *byFaculty[name])
	}
	return out
}
