package models

import "time"

// RezultatAdmitere is one processed application, computed by the backend.
// Program and faculty fields are nil for unallocated dossiers.
type RezultatAdmitere struct {
	DosarID         int64     `json:"dosarId"`
	CandidatID      int64     `json:"candidatId"`
	CandidatNume    string    `json:"candidatNume"`
	CandidatPrenume string    `json:"candidatPrenume"`
	Medie           *float64  `json:"medie"`
	CreatedAt       time.Time `json:"createdAt"`
	Prioritate      *int      `json:"prioritate"`
	Status          string    `json:"status"`
	ProgramID       *int64    `json:"programId"`
	ProgramNume     *string   `json:"programNume"`
	FacultateNume   *string   `json:"facultateNume"`
}

// ProcesareAdmitereResult holds the counts returned by POST /api/admin/procesare.
type ProcesareAdmitereResult struct {
	DosareProcesate int `json:"dosareProcesate"`
	DosareAdmise    int `json:"dosareAdmise"`
	DosareNealocate int `json:"dosareNealocate"`
}

// RaportInscrieriProgram counts enrolments per program.
type RaportInscrieriProgram struct {
	ProgramID     int64  `json:"programId"`
	ProgramNume   string `json:"programNume"`
	FacultateNume string `json:"facultateNume"`
	Inscrisi      int    `json:"inscrisi"`
}

// RaportFacultate counts admitted and rejected candidates per faculty.
type RaportFacultate struct {
	FacultateNume string `json:"facultateNume"`
	Admisi        int    `json:"admisi"`
	Respinsi      int    `json:"respinsi"`
}
