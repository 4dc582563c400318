package models

import "time"

// DosarStatus is the lifecycle state of an admission file.
type DosarStatus string

const (
	DosarInLucru DosarStatus = "IN_LUCRU"
	DosarTrimis  DosarStatus = "TRIMIS"
	DosarValidat DosarStatus = "VALIDAT"
)

// DosarStatuses lists the statuses in the order the forms offer them.
var DosarStatuses = []DosarStatus{DosarInLucru, DosarTrimis, DosarValidat}

// Valid reports whether s is one of the known statuses.
func (s DosarStatus) Valid() bool {
	for _, known := range DosarStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Dosar is a candidate's admission file.
type Dosar struct {
	ID         int64       `json:"id"`
	CandidatID int64       `json:"candidatId"`
	Status     DosarStatus `json:"status"`
	Medie      *float64    `json:"medie"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// DosarView is the joined shape listed by the backend.
type DosarView struct {
	Dosar
	CandidatNume    string `json:"candidatNume"`
	CandidatPrenume string `json:"candidatPrenume"`
}
