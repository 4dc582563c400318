package models

// Candidat represents the candidati table
type Candidat struct {
	ID         int64   `json:"id"`
	Nume       string  `json:"nume"`
	Prenume    string  `json:"prenume"`
	Email      string  `json:"email"`
	ParolaHash *string `json:"parolaHash,omitempty"`
}

// FullName returns "Nume Prenume" the way lists display candidates.
func (c Candidat) FullName() string {
	return c.Nume + " " + c.Prenume
}
