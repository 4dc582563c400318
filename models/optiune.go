package models

// Optiune is a ranked program choice inside a dossier. Lower Prioritate is preferred.
type Optiune struct {
	ID         int64 `json:"id"`
	DosarID    int64 `json:"dosarId"`
	ProgramID  int64 `json:"programId"`
	Prioritate int   `json:"prioritate"`
}
