package models

// Facultate represents a faculty as returned by /api/admin/facultati.
type Facultate struct {
	ID   int64  `json:"id"`
	Nume string `json:"nume"`
}
