package fakebackend

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nonsonwune/admitere_admin/models"
)

const (
	msgDateIncomplete = "Date incomplete"
	msgIntegrity      = "Date invalide sau duplicate"
)

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "ID invalid")
		return 0, false
	}
	return id, true
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// --- auth ---

type loginRequest struct {
	Email  *string `json:"email"`
	Parola *string `json:"parola"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || trimmed(req.Email) == "" || trimmed(req.Parola) == "" {
		fail(c, http.StatusBadRequest, "Date de autentificare lipsa")
		return
	}
	admin, sid, ok := s.Store.login(trimmed(req.Email), *req.Parola)
	if !ok {
		fail(c, http.StatusUnauthorized, "Credentiale invalide")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sid, 0, "/", "", false, true)
	c.JSON(http.StatusOK, admin)
}

func (s *Server) me(c *gin.Context) {
	sid, _ := c.Cookie(SessionCookie)
	admin, ok := s.Store.session(sid)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (s *Server) logout(c *gin.Context) {
	if sid, err := c.Cookie(SessionCookie); err == nil {
		s.Store.logout(sid)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// --- facultati ---

type facultateRequest struct {
	Nume *string `json:"nume"`
}

func (s *Server) listFacultati(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	all := sortedByID(s.Store.facultati)
	if q == "" {
		c.JSON(http.StatusOK, all)
		return
	}
	out := []models.Facultate{}
	for _, f := range all {
		if containsFold(f.Nume, q) {
			out = append(out, f)
		}
	}
	sortByName(out, func(f models.Facultate) string { return f.Nume })
	c.JSON(http.StatusOK, out)
}

func (s *Server) createFacultate(c *gin.Context) {
	var req facultateRequest
	if err := c.ShouldBindJSON(&req); err != nil || trimmed(req.Nume) == "" {
		fail(c, http.StatusBadRequest, "Nume lipsa")
		return
	}
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	if s.Store.facultateNameTaken(trimmed(req.Nume), 0) {
		fail(c, http.StatusBadRequest, msgIntegrity)
		return
	}
	f := models.Facultate{ID: s.Store.nextID(tableFacultati), Nume: trimmed(req.Nume)}
	s.Store.facultati[f.ID] = f
	c.JSON(http.StatusCreated, f)
}

func (s *Server) updateFacultate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req facultateRequest
	_ = c.ShouldBindJSON(&req)
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	f, found := s.Store.facultati[id]
	if !found {
		fail(c, http.StatusNotFound, "Facultate inexistenta")
		return
	}
	if trimmed(req.Nume) == "" {
		fail(c, http.StatusBadRequest, "Nume lipsa")
		return
	}
	if s.Store.facultateNameTaken(trimmed(req.Nume), id) {
		fail(c, http.StatusBadRequest, msgIntegrity)
		return
	}
	f.Nume = trimmed(req.Nume)
	s.Store.facultati[id] = f
	c.JSON(http.StatusOK, f)
}

func (s *Server) deleteFacultate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	if _, found := s.Store.facultati[id]; !found {
		fail(c, http.StatusNotFound, "Facultate inexistenta")
		return
	}
	for _, p := range s.Store.programe {
		if p.FacultateID == id {
			fail(c, http.StatusBadRequest, msgIntegrity)
			return
		}
	}
	delete(s.Store.facultati, id)
	c.Status(http.StatusNoContent)
}

func (st *Store) facultateNameTaken(nume string, except int64) bool {
	for _, f := range st.facultati {
		if f.ID != except && strings.EqualFold(f.Nume, nume) {
			return true
		}
	}
	return false
}

// --- programe-studiu ---

type programRequest struct {
	FacultateID *int64  `json:"facultateId"`
	Nume        *string `json:"nume"`
	LocuriBuget *int    `json:"locuriBuget"`
	LocuriTaxa  *int    `json:"locuriTaxa"`
}

func (r programRequest) valid() bool {
	return r.FacultateID != nil && trimmed(r.Nume) != "" && r.LocuriBuget != nil && r.LocuriTaxa != nil &&
		*r.LocuriBuget >= 0 && *r.LocuriTaxa >= 0
}

func (s *Server) listPrograme(c *gin.Context) {
	bounds := [4]*int{}
	for i, key := range []string{"locuriBugetMin", "locuriBugetMax", "locuriTaxaMin", "locuriTaxaMax"} {
		raw := strings.TrimSpace(c.Query(key))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "Parametru invalid: "+key)
			return
		}
		bounds[i] = &n
	}
	within := func(v int, lo, hi *int) bool {
		return (lo == nil || v >= *lo) && (hi == nil || v <= *hi)
	}

	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	out := []models.ProgramStudiuView{}
	for _, p := range s.Store.programViews() {
		if within(p.LocuriBuget, bounds[0], bounds[1]) && within(p.LocuriTaxa, bounds[2], bounds[3]) {
			out = append(out, p)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createProgram(c *gin.Context) {
	var req programRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.valid() {
		fail(c, http.StatusBadRequest, msgDateIncomplete)
		return
	}
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	if _, ok := s.Store.facultati[*req.FacultateID]; !ok {
		fail(c, http.StatusBadRequest, msgIntegrity)
		return
	}
	p := models.ProgramStudiu{
		ID:          s.Store.nextID(tablePrograme),
		FacultateID: *req.FacultateID,
		Nume:        trimmed(req.Nume),
		LocuriBuget: *req.LocuriBuget,
		LocuriTaxa:  *req.LocuriTaxa,
	}
	s.Store.programe[p.ID] = p
	c.JSON(http.StatusCreated, s.Store.facultateView(p))
}

func (s *Server) updateProgram(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req programRequest
	_ = c.ShouldBindJSON(&req)
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	p, found := s.Store.programe[id]
	if !found {
		fail(c, http.StatusNotFound, "Program inexistent")
		return
	}
	if !req.valid() {
		fail(c, http.StatusBadRequest, msgDateIncomplete)
		return
	}
	if _, ok := s.Store.facultati[*req.FacultateID]; !ok {
		fail(c, http.StatusBadRequest, msgIntegrity)
		return
	}
	p.FacultateID, p.Nume = *req.FacultateID, trimmed(req.Nume)
	p.LocuriBuget, p.LocuriTaxa = *req.LocuriBuget, *req.LocuriTaxa
	s.Store.programe[id] = p
	c.JSON(http.StatusOK, s.Store.facultateView(p))
}

func (s *Server) deleteProgram(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	if _, found := s.Store.programe[id]; !found {
		fail(c, http.StatusNotFound, "Program inexistent")
		return
	}
	for _, o := range s.Store.optiuni {
		if o.ProgramID == id {
			fail(c, http.StatusBadRequest, msgIntegrity)
			return
		}
	}
	delete(s.Store.programe, id)
	c.Status(http.StatusNoContent)
}

// --- candidati ---

type candidatRequest struct {
	Nume    *string `json:"nume"`
	Prenume *string `json:"prenume"`
	Email   *string `json:"email"`
	Parola  *string `json:"parola"`
}

func (r candidatRequest) valid() bool {
	return trimmed(r.Nume) != "" && trimmed(r.Prenume) != "" && trimmed(r.Email) != ""
}

func hashParola(p string) *string {
	h := "{noop}" + p
	return &h
}

func (s *Server) listCandidati(c *gin.Context) {
	nume := strings.TrimSpace(c.Query("nume"))
	prenume := strings.TrimSpace(c.Query("prenume"))
	email := strings.TrimSpace(c.Query("email"))
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	out := []models.Candidat{}
	for _, cand := range sortedByID(s.Store.candidati) {
		if containsFold(cand.Nume, nume) && containsFold(cand.Prenume, prenume) && containsFold(cand.Email, email) {
			out = append(out, cand)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createCandidat(c *gin.Context) {
	var req candidatRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.valid() {
		fail(c, http.StatusBadRequest, msgDateIncomplete)
		return
	}
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	if s.Store.candidatEmailTaken(trimmed(req.Email), 0) {
		fail(c, http.StatusBadRequest, msgIntegrity)
		return
	}
	cand := models.Candidat{
		ID:      s.Store.nextID(tableCandidati),
		Nume:    trimmed(req.Nume),
		Prenume: trimmed(req.Prenume),
		Email:   trimmed(req.Email),
	}
	if p := trimmed(req.Parola); p != "" {
		cand.ParolaHash = hashParola(p)
	}
	s.Store.candidati[cand.ID] = cand
	c.JSON(http.StatusCreated, cand)
}

func (s *Server) updateCandidat(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req candidatRequest
	_ = c.ShouldBindJSON(&req)
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	cand, found := s.Store.candidati[id]
	if !found {
		fail(c, http.StatusNotFound, "Candidat inexistent")
		return
	}
	if !req.valid() {
		fail(c, http.StatusBadRequest, msgDateIncomplete)
		return
	}
	if s.Store.candidatEmailTaken(trimmed(req.Email), id) {
		fail(c, http.StatusBadRequest, msgIntegrity)
		return
	}
	cand.Nume, cand.Prenume, cand.Email = trimmed(req.Nume), trimmed(req.Prenume), trimmed(req.Email)
	if p := trimmed(req.Parola); p != "" {
		cand.ParolaHash = hashParola(p)
	}
	s.Store.candidati[id] = cand
	c.JSON(http.StatusOK, cand)
}

func (s *Server) deleteCandidat(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	if _, found := s.Store.candidati[id]; !found {
		fail(c, http.StatusNotFound, "Candidat inexistent")
		return
	}
	for _, d := range s.Store.dosare {
		if d.CandidatID == id {
			fail(c, http.StatusBadRequest, msgIntegrity)
			return
		}
	}
	delete(s.Store.candidati, id)
	c.Status(http.StatusNoContent)
}

func (st *Store) candidatEmailTaken(email string, except int64) bool {
	for _, cand := range st.candidati {
		if cand.ID != except && strings.EqualFold(cand.Email, email) {
			return true
		}
	}
	return false
}

// --- dosare ---

type dosarRequest struct {
	CandidatID *int64   `json:"candidatId"`
	Status     *string  `json:"status"`
	Medie      *float64 `json:"medie"`
}

func (r dosarRequest) status() (models.DosarStatus, bool) {
	if r.Status == nil || trimmed(r.Status) == "" {
		return models.DosarInLucru, true
	}
	st := models.DosarStatus(trimmed(r.Status))
	return st, st.Valid()
}

func (s *Server) listDosare(c *gin.Context) {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	out := []models.DosarView{}
	for _, d := range sortedByID(s.Store.dosare) {
		out = append(out, s.Store.dosarView(d))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createDosar(c *gin.Context) {
	var req dosarRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CandidatID == nil {
		fail(c, http.StatusBadRequest, msgDateIncomplete)
		return
	}
	status, ok := req.status()
	if !ok {
		fail(c, http.StatusBadRequest, msgDateIncomplete)
		return
	}
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	if _, found := s.Store.candidati[*req.CandidatID]; !found {
		fail(c, http.StatusBadRequest, msgIntegrity)
		return
	}
	d := models.Dosar{
		ID:         s.Store.nextID(tableDosare),
		CandidatID: *req.CandidatID,
		Status:     status,
		Medie:      req.Medie,
		CreatedAt:  s.Store.now().UTC().Truncate(time.Second),
	}
	s.Store.dosare[d.ID] = d
	c.JSON(http.StatusCreated, s.Store.dosarView(d))
}

func (s *Server) updateDosar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dosarRequest
	_ = c.ShouldBindJSON(&req)
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	d, found := s.Store.dosare[id]
	if !found {
		fail(c, http.StatusNotFound, "Dosar inexistent")
		return
	}
	status, valid := req.status()
	if req.CandidatID == nil || !valid {
		fail(c, http.StatusBadRequest, msgDateIncomplete)
		return
	}
	if _, found := s.Store.candidati[*req.CandidatID]; !found {
		fail(c, http.StatusBadRequest, msgIntegrity)
		return
	}
	d.CandidatID, d.Status, d.Medie = *req.CandidatID, status, req.Medie
	s.Store.dosare[id] = d
	c.JSON(http.StatusOK, s.Store.dosarView(d))
}

func (s *Server) deleteDosar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	if _, found := s.Store.dosare[id]; !found {
		fail(c, http.StatusNotFound, "Dosar inexistent")
		return
	}
	for oid, o := range s.Store.optiuni {
		if o.DosarID == id {
			delete(s.Store.optiuni, oid)
		}
	}
	delete(s.Store.dosare, id)
	c.Status(http.StatusNoContent)
}

// --- optiuni ---

type optiuneRequest struct {
	DosarID    *int64 `json:"dosarId"`
	ProgramID  *int64 `json:"programId"`
	Prioritate *int   `json:"prioritate"`
}

func (r optiuneRequest) valid() bool {
	return r.DosarID != nil && r.ProgramID != nil && r.Prioritate != nil
}

func (st *Store) optiuneRefsExist(r optiuneRequest) bool {
	_, dosar := st.dosare[*r.DosarID]
	_, program := st.programe[*r.ProgramID]
	return dosar && program
}

func (s *Server) listOptiuni(c *gin.Context) {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	c.JSON(http.StatusOK, sortedByID(s.Store.optiuni))
}

func (s *Server) createOptiune(c *gin.Context) {
	var req optiuneRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.valid() {
		fail(c, http.StatusBadRequest, msgDateIncomplete)
		return
	}
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	if !s.Store.optiuneRefsExist(req) {
		fail(c, http.StatusBadRequest, msgIntegrity)
		return
	}
	o := models.Optiune{ID: s.Store.nextID(tableOptiuni), DosarID: *req.DosarID, ProgramID: *req.ProgramID, Prioritate: *req.Prioritate}
	s.Store.optiuni[o.ID] = o
	c.JSON(http.StatusCreated, o)
}

func (s *Server) updateOptiune(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req optiuneRequest
	_ = c.ShouldBindJSON(&req)
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	o, found := s.Store.optiuni[id]
	if !found {
		fail(c, http.StatusNotFound, "Optiune inexistenta")
		return
	}
	if !req.valid() {
		fail(c, http.StatusBadRequest, msgDateIncomplete)
		return
	}
	if !s.Store.optiuneRefsExist(req) {
		fail(c, http.StatusBadRequest, msgIntegrity)
		return
	}
	o.DosarID, o.ProgramID, o.Prioritate = *req.DosarID, *req.ProgramID, *req.Prioritate
	s.Store.optiuni[id] = o
	c.JSON(http.StatusOK, o)
}

func (s *Server) deleteOptiune(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	if _, found := s.Store.optiuni[id]; !found {
		fail(c, http.StatusNotFound, "Optiune inexistenta")
		return
	}
	delete(s.Store.optiuni, id)
	c.Status(http.StatusNoContent)
}

// --- admini ---

type adminRequest struct {
	Email  *string `json:"email"`
	Parola *string `json:"parola"`
}

func (s *Server) listAdmini(c *gin.Context) {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	c.JSON(http.StatusOK, sortedByID(s.Store.admini))
}

func (s *Server) createAdmin(c *gin.Context) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil || trimmed(req.Email) == "" || trimmed(req.Parola) == "" {
		fail(c, http.StatusBadRequest, "Email si parola sunt necesare")
		return
	}
	s.Store.mu.Lock()
	if s.Store.adminEmailTaken(trimmed(req.Email), 0) {
		s.Store.mu.Unlock()
		fail(c, http.StatusBadRequest, msgIntegrity)
		return
	}
	s.Store.mu.Unlock()
	c.JSON(http.StatusCreated, s.Store.AddAdmin(trimmed(req.Email), *req.Parola))
}

// updateAdmin keeps the current password when parola is absent or blank.
func (s *Server) updateAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req adminRequest
	_ = c.ShouldBindJSON(&req)
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	a, found := s.Store.admini[id]
	if !found {
		fail(c, http.StatusNotFound, "Admin inexistent")
		return
	}
	if trimmed(req.Email) == "" {
		fail(c, http.StatusBadRequest, "Email lipsa")
		return
	}
	if s.Store.adminEmailTaken(trimmed(req.Email), id) {
		fail(c, http.StatusBadRequest, msgIntegrity)
		return
	}
	a.Email = trimmed(req.Email)
	s.Store.admini[id] = a
	if trimmed(req.Parola) != "" {
		s.Store.parole[id] = *req.Parola
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) deleteAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	if _, found := s.Store.admini[id]; !found {
		fail(c, http.StatusNotFound, "Admin inexistent")
		return
	}
	delete(s.Store.admini, id)
	delete(s.Store.parole, id)
	for sid, aid := range s.Store.sessions {
		if aid == id {
			delete(s.Store.sessions, sid)
		}
	}
	c.Status(http.StatusNoContent)
}

func (st *Store) adminEmailTaken(email string, except int64) bool {
	for _, a := range st.admini {
		if a.ID != except && strings.EqualFold(a.Email, email) {
			return true
		}
	}
	return false
}
