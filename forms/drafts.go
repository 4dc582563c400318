package forms

import (
	"strconv"
	"strings"

	"github.com/nonsonwune/admitere_admin/models"
)

type FacultateDraft struct {
	Nume string
}

type FacultatePayload struct {
	Nume string `json:"nume" validate:"required"`
}

func (d FacultateDraft) Parse() (FacultatePayload, ValidationErrors) {
	p := FacultatePayload{Nume: strings.TrimSpace(d.Nume)}
	if p.Nume == "" {
		return p, ValidationErrors{{Field: "nume", Message: "Introdu un nume pentru facultate."}}
	}
	return p, check(p, nil)
}

func FacultateDraftFrom(f models.Facultate) FacultateDraft {
	return FacultateDraft{Nume: f.Nume}
}

// ProgramDraft edits a study program. FacultateNume is display text for the faculty
// autocomplete; only FacultateID is sent.
type ProgramDraft struct {
	FacultateID   string
	FacultateNume string
	Nume          string
	LocuriBuget   string
	LocuriTaxa    string
}

type ProgramPayload struct {
	FacultateID int64  `json:"facultateId" validate:"gt=0"`
	Nume        string `json:"nume" validate:"required"`
	LocuriBuget int    `json:"locuriBuget" validate:"gte=0"`
	LocuriTaxa  int    `json:"locuriTaxa" validate:"gte=0"`
}

var programLabels = map[string]string{
	"facultateId": "facultate",
	"nume":        "nume",
	"locuriBuget": "locuri buget",
	"locuriTaxa":  "locuri taxa",
}

func (d ProgramDraft) Parse() (ProgramPayload, ValidationErrors) {
	var errs ValidationErrors
	p := ProgramPayload{Nume: strings.TrimSpace(d.Nume)}
	if p.Nume == "" {
		errs.add("nume", "Introdu numele programului.")
	}
	p.FacultateID = requiredInt(&errs, "facultateId", programLabels["facultateId"], d.FacultateID)
	p.LocuriBuget = int(requiredInt(&errs, "locuriBuget", programLabels["locuriBuget"], d.LocuriBuget))
	p.LocuriTaxa = int(requiredInt(&errs, "locuriTaxa", programLabels["locuriTaxa"], d.LocuriTaxa))
	if !errs.OK() {
		return p, errs
	}
	return p, check(p, programLabels)
}

func ProgramDraftFrom(p models.ProgramStudiuView) ProgramDraft {
	return ProgramDraft{
		FacultateID:   strconv.FormatInt(p.FacultateID, 10),
		FacultateNume: p.FacultateNume,
		Nume:          p.Nume,
		LocuriBuget:   strconv.Itoa(p.LocuriBuget),
		LocuriTaxa:    strconv.Itoa(p.LocuriTaxa),
	}
}

type CandidatDraft struct {
	Nume    string
	Prenume string
	Email   string
	Parola  string
}

// CandidatPayload always carries parola; a blank password is sent as null.
type CandidatPayload struct {
	Nume    string  `json:"nume" validate:"required"`
	Prenume string  `json:"prenume" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Parola  *string `json:"parola"`
}

func (d CandidatDraft) Parse() (CandidatPayload, ValidationErrors) {
	p := CandidatPayload{
		Nume:    strings.TrimSpace(d.Nume),
		Prenume: strings.TrimSpace(d.Prenume),
		Email:   strings.TrimSpace(d.Email),
		Parola:  optionalString(d.Parola),
	}
	if p.Nume == "" || p.Prenume == "" || p.Email == "" {
		return p, ValidationErrors{{Field: "nume", Message: "Completeaza nume, prenume si email."}}
	}
	return p, check(p, map[string]string{"email": "email"})
}

func CandidatDraftFrom(c models.Candidat) CandidatDraft {
	return CandidatDraft{Nume: c.Nume, Prenume: c.Prenume, Email: c.Email}
}

type DosarDraft struct {
	CandidatID string
	Status     string
	Medie      string
}

// NewDosarDraft returns the empty dossier form, preset to IN_LUCRU.
func NewDosarDraft() DosarDraft {
	return DosarDraft{Status: string(models.DosarInLucru)}
}

type DosarPayload struct {
	CandidatID int64              `json:"candidatId" validate:"gt=0"`
	Status     models.DosarStatus `json:"status" validate:"required,oneof=IN_LUCRU TRIMIS VALIDAT"`
	Medie      *float64           `json:"medie" validate:"omitnil,gte=0"`
}

var dosarLabels = map[string]string{
	"candidatId": "candidat ID",
	"status":     "status",
	"medie":      "medie",
}

func (d DosarDraft) Parse() (DosarPayload, ValidationErrors) {
	var errs ValidationErrors
	p := DosarPayload{Status: models.DosarStatus(strings.TrimSpace(d.Status))}
	if p.Status == "" {
		p.Status = models.DosarInLucru
	}
	p.CandidatID = requiredInt(&errs, "candidatId", dosarLabels["candidatId"], d.CandidatID)
	p.Medie = optionalFloat(&errs, "medie", dosarLabels["medie"], d.Medie)
	if !errs.OK() {
		return p, errs
	}
	return p, check(p, dosarLabels)
}

func DosarDraftFrom(d models.DosarView) DosarDraft {
	draft := DosarDraft{
		CandidatID: strconv.FormatInt(d.CandidatID, 10),
		Status:     string(d.Status),
	}
	if d.Medie != nil {
		draft.Medie = strconv.FormatFloat(*d.Medie, 'f', -1, 64)
	}
	return draft
}

type OptiuneDraft struct {
	DosarID    string
	ProgramID  string
	Prioritate string
}

type OptiunePayload struct {
	DosarID    int64 `json:"dosarId" validate:"gt=0"`
	ProgramID  int64 `json:"programId" validate:"gt=0"`
	Prioritate int   `json:"prioritate" validate:"gte=0"`
}

var optiuneLabels = map[string]string{
	"dosarId":    "dosar ID",
	"programId":  "program ID",
	"prioritate": "prioritate",
}

func (d OptiuneDraft) Parse() (OptiunePayload, ValidationErrors) {
	var errs ValidationErrors
	var p OptiunePayload
	p.DosarID = requiredInt(&errs, "dosarId", optiuneLabels["dosarId"], d.DosarID)
	p.ProgramID = requiredInt(&errs, "programId", optiuneLabels["programId"], d.ProgramID)
	p.Prioritate = int(requiredInt(&errs, "prioritate", optiuneLabels["prioritate"], d.Prioritate))
	if !errs.OK() {
		return p, errs
	}
	return p, check(p, optiuneLabels)
}

func OptiuneDraftFrom(o models.Optiune) OptiuneDraft {
	return OptiuneDraft{
		DosarID:    strconv.FormatInt(o.DosarID, 10),
		ProgramID:  strconv.FormatInt(o.ProgramID, 10),
		Prioritate: strconv.Itoa(o.Prioritate),
	}
}

type AdminDraft struct {
	Email  string
	Parola string
}

// AdminPayload omits parola entirely when it is nil, which the backend reads as
// "keep the current password".
type AdminPayload struct {
	Email  string  `json:"email" validate:"required,email"`
	Parola *string `json:"parola,omitempty"`
}

// Parse requires a password on create only. On edit a blank password is left out of the payload.
func (d AdminDraft) Parse(editing bool) (AdminPayload, ValidationErrors) {
	p := AdminPayload{Email: strings.TrimSpace(d.Email)}
	if p.Email == "" {
		return p, ValidationErrors{{Field: "email", Message: "Introdu emailul administratorului."}}
	}
	parola := strings.TrimSpace(d.Parola)
	if parola == "" {
		if !editing {
			return p, ValidationErrors{{Field: "parola", Message: "Parola este obligatorie la creare."}}
		}
	} else {
		p.Parola = &parola
	}
	return p, check(p, map[string]string{"email": "email"})
}

func AdminDraftFrom(a models.Admin) AdminDraft {
	return AdminDraft{Email: a.Email}
}
