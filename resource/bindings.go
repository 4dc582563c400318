package resource

import (
	"github.com/sirupsen/logrus"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/forms"
	"github.com/nonsonwune/admitere_admin/models"
)

type (
	Facultati = Controller[models.Facultate, forms.FacultateDraft, forms.FacultatePayload]
	Programe  = Controller[models.ProgramStudiuView, forms.ProgramDraft, forms.ProgramPayload]
	Candidati = Controller[models.Candidat, forms.CandidatDraft, forms.CandidatPayload]
	Dosare    = Controller[models.DosarView, forms.DosarDraft, forms.DosarPayload]
	Admini    = Controller[models.Admin, forms.AdminDraft, forms.AdminPayload]
)

func NewFacultati(client *apiclient.Client, logger logrus.FieldLogger) *Facultati {
	return NewController(client, Binding[models.Facultate, forms.FacultateDraft, forms.FacultatePayload]{
		Path:  models.PathFacultati,
		ID:    func(f models.Facultate) int64 { return f.ID },
		Empty: func() forms.FacultateDraft { return forms.FacultateDraft{} },
		Parse: func(d forms.FacultateDraft, _ bool) (forms.FacultatePayload, forms.ValidationErrors) {
			return d.Parse()
		},
		DraftFrom: forms.FacultateDraftFrom,
	}, logger)
}

func NewPrograme(client *apiclient.Client, logger logrus.FieldLogger) *Programe {
	return NewController(client, Binding[models.ProgramStudiuView, forms.ProgramDraft, forms.ProgramPayload]{
		Path:  models.PathPrograme,
		ID:    func(p models.ProgramStudiuView) int64 { return p.ID },
		Empty: func() forms.ProgramDraft { return forms.ProgramDraft{} },
		Parse: func(d forms.ProgramDraft, _ bool) (forms.ProgramPayload, forms.ValidationErrors) {
			return d.Parse()
		},
		DraftFrom: forms.ProgramDraftFrom,
	}, logger)
}

func NewCandidati(client *apiclient.Client, logger logrus.FieldLogger) *Candidati {
	return NewController(client, Binding[models.Candidat, forms.CandidatDraft, forms.CandidatPayload]{
		Path:  models.PathCandidati,
		ID:    func(c models.Candidat) int64 { return c.ID },
		Empty: func() forms.CandidatDraft { return forms.CandidatDraft{} },
		Parse: func(d forms.CandidatDraft, _ bool) (forms.CandidatPayload, forms.ValidationErrors) {
			return d.Parse()
		},
		DraftFrom: forms.CandidatDraftFrom,
	}, logger)
}

func NewDosare(client *apiclient.Client, logger logrus.FieldLogger) *Dosare {
	return NewController(client, Binding[models.DosarView, forms.DosarDraft, forms.DosarPayload]{
		Path:  models.PathDosare,
		ID:    func(d models.DosarView) int64 { return d.ID },
		Empty: forms.NewDosarDraft,
		Parse: func(d forms.DosarDraft, _ bool) (forms.DosarPayload, forms.ValidationErrors) {
			return d.Parse()
		},
		DraftFrom: forms.DosarDraftFrom,
	}, logger)
}

func NewAdmini(client *apiclient.Client, logger logrus.FieldLogger) *Admini {
	return NewController(client, Binding[models.Admin, forms.AdminDraft, forms.AdminPayload]{
		Path:      models.PathAdmini,
		ID:        func(a models.Admin) int64 { return a.ID },
		Empty:     func() forms.AdminDraft { return forms.AdminDraft{} },
		Parse:     forms.AdminDraft.Parse,
		DraftFrom: forms.AdminDraftFrom,
	}, logger)
}
