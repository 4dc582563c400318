package models

// ProgramStudiu represents a study program with its seat capacities.
type ProgramStudiu struct {
	ID          int64  `json:"id"`
	FacultateID int64  `json:"facultateId"`
	Nume        string `json:"nume"`
	LocuriBuget int    `json:"locuriBuget"`
	LocuriTaxa  int    `json:"locuriTaxa"`
}

// ProgramStudiuView is the joined shape listed by the backend, carrying the faculty name.
type ProgramStudiuView struct {
	ProgramStudiu
	FacultateNume string `json:"facultateNume"`
}
