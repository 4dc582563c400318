package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nonsonwune/admitere_admin/forms"
	"github.com/nonsonwune/admitere_admin/models"
	"github.com/nonsonwune/admitere_admin/reports"
	"github.com/nonsonwune/admitere_admin/resource"
	"github.com/nonsonwune/admitere_admin/search"
)

func (c *Console) facultatiPage(ctx context.Context) error {
	return runCrud(ctx, c, crudPage[models.Facultate, forms.FacultateDraft, forms.FacultatePayload]{
		title:   "Facultati",
		ctrl:    resource.NewFacultati(c.client, c.logger),
		headers: []string{"ID", "Nume"},
		row: func(f models.Facultate) []string {
			return []string{formatID(f.ID), f.Nume}
		},
		fill: func(_ context.Context, d *forms.FacultateDraft, _ bool) (err error) {
			d.Nume, err = c.promptDefault("Nume", d.Nume)
			return err
		},
	})
}

func (c *Console) programePage(ctx context.Context) error {
	ctrl := resource.NewPrograme(c.client, c.logger)
	sel, debouncer := c.newSelect(ctx)
	defer debouncer.Stop()

	return runCrud(ctx, c, crudPage[models.ProgramStudiuView, forms.ProgramDraft, forms.ProgramPayload]{
		title:   "Programe studiu",
		ctrl:    ctrl,
		headers: []string{"ID", "Nume", "Facultate", "Locuri buget", "Locuri taxa"},
		row: func(p models.ProgramStudiuView) []string {
			return []string{formatID(p.ID), p.Nume, p.FacultateNume, strconv.Itoa(p.LocuriBuget), strconv.Itoa(p.LocuriTaxa)}
		},
		fill: func(ctx context.Context, d *forms.ProgramDraft, editing bool) (err error) {
			if d.Nume, err = c.promptDefault("Nume", d.Nume); err != nil {
				return err
			}
			if err = c.chooseFacultate(sel, debouncer, d); err != nil {
				return err
			}
			if d.LocuriBuget, err = c.promptDefault("Locuri buget", d.LocuriBuget); err != nil {
				return err
			}
			d.LocuriTaxa, err = c.promptDefault("Locuri taxa", d.LocuriTaxa)
			return err
		},
		filter: func(ctx context.Context) error {
			var f forms.ProgramFilter
			for _, field := range []struct {
				label string
				dst   *string
			}{
				{"Buget minim", &f.BugetMin},
				{"Buget maxim", &f.BugetMax},
				{"Taxa minima", &f.TaxaMin},
				{"Taxa maxima", &f.TaxaMax},
			} {
				v, err := c.prompt(field.label)
				if err != nil {
					return err
				}
				*field.dst = v
			}
			return c.ignoreRemote(ctrl.ApplyFilter(ctx, f.Query))
		},
	})
}

// chooseFacultate runs the faculty autocomplete for the program form. Only a chosen
// suggestion sets the faculty id; typed text alone leaves it empty.
func (c *Console) chooseFacultate(sel *search.Select, debouncer *search.Debouncer, d *forms.ProgramDraft) error {
	if id, err := strconv.ParseInt(d.FacultateID, 10, 64); err == nil {
		sel.Preset(id, d.FacultateNume)
	} else {
		sel.Clear()
	}
	text, err := c.promptDefault("Facultate (cauta)", sel.Snapshot().Text)
	if err != nil {
		return err
	}
	if text == sel.Snapshot().Text && sel.Snapshot().FacultateID != nil {
		return nil
	}

	if sel.Type(text) == 0 {
		sel.Open()
	}
	debouncer.Flush()
	view := sel.Snapshot()
	if view.Error != "" {
		c.fail(view.Error)
	}
	for i, f := range view.Suggestions {
		c.println(fmt.Sprintf("%d. %s", i+1, f.Nume))
	}
	if len(view.Suggestions) == 0 {
		c.println("Nicio facultate gasita.")
	} else {
		answer, err := c.prompt("Alege facultatea (0 renunta)")
		if err != nil {
			return err
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(view.Suggestions) {
			sel.Choose(view.Suggestions[n-1])
		} else {
			sel.Dismiss()
		}
	}

	view = sel.Snapshot()
	d.FacultateID, d.FacultateNume = "", ""
	if view.FacultateID != nil {
		d.FacultateID = formatID(*view.FacultateID)
		d.FacultateNume = view.Text
	}
	return nil
}

func (c *Console) candidatiPage(ctx context.Context) error {
	ctrl := resource.NewCandidati(c.client, c.logger)
	return runCrud(ctx, c, crudPage[models.Candidat, forms.CandidatDraft, forms.CandidatPayload]{
		title:   "Candidati",
		ctrl:    ctrl,
		headers: []string{"ID", "Nume", "Prenume", "Email"},
		row: func(cand models.Candidat) []string {
			return []string{formatID(cand.ID), cand.Nume, cand.Prenume, cand.Email}
		},
		fill: func(_ context.Context, d *forms.CandidatDraft, _ bool) (err error) {
			if d.Nume, err = c.promptDefault("Nume", d.Nume); err != nil {
				return err
			}
			if d.Prenume, err = c.promptDefault("Prenume", d.Prenume); err != nil {
				return err
			}
			if d.Email, err = c.promptDefault("Email", d.Email); err != nil {
				return err
			}
			d.Parola, err = c.prompt("Parola (optional)")
			return err
		},
		filter: func(ctx context.Context) error {
			var f forms.CandidatFilter
			var err error
			if f.Nume, err = c.prompt("Nume"); err != nil {
				return err
			}
			if f.Prenume, err = c.prompt("Prenume"); err != nil {
				return err
			}
			if f.Email, err = c.prompt("Email"); err != nil {
				return err
			}
			return c.ignoreRemote(ctrl.LoadWith(ctx, f.Query()))
		},
	})
}

func (c *Console) dosarePage(ctx context.Context) error {
	statuses := make([]string, len(models.DosarStatuses))
	for i, s := range models.DosarStatuses {
		statuses[i] = string(s)
	}
	return runCrud(ctx, c, crudPage[models.DosarView, forms.DosarDraft, forms.DosarPayload]{
		title:   "Dosare",
		ctrl:    resource.NewDosare(c.client, c.logger),
		headers: []string{"ID", "Candidat", "Status", "Medie", "Creat"},
		row: func(d models.DosarView) []string {
			return []string{
				formatID(d.ID),
				fmt.Sprintf("%s %s (#%d)", d.CandidatNume, d.CandidatPrenume, d.CandidatID),
				string(d.Status),
				reports.FormatMedie(d.Medie),
				d.CreatedAt.Format("2006-01-02"),
			}
		},
		fill: func(_ context.Context, d *forms.DosarDraft, _ bool) (err error) {
			if d.CandidatID, err = c.promptDefault("Candidat ID", d.CandidatID); err != nil {
				return err
			}
			status, err := c.promptDefault("Status ("+strings.Join(statuses, "/")+")", d.Status)
			if err != nil {
				return err
			}
			d.Status = strings.ToUpper(status)
			d.Medie, err = c.promptDefault("Medie (- sterge)", d.Medie)
			return err
		},
	})
}

func (c *Console) optiuniPage(ctx context.Context) error {
	o := resource.NewOptiuni(c.client, c.logger)
	return runCrud(ctx, c, crudPage[models.Optiune, forms.OptiuneDraft, forms.OptiunePayload]{
		title:   "Optiuni",
		ctrl:    o.Controller,
		headers: []string{"ID", "Dosar", "Program", "Prioritate"},
		row: func(op models.Optiune) []string {
			lookup := o.Lookup()
			return []string{
				formatID(op.ID),
				fmt.Sprintf("#%d %s", op.DosarID, lookup.Dosar(op.DosarID)),
				fmt.Sprintf("#%d %s", op.ProgramID, lookup.Program(op.ProgramID)),
				strconv.Itoa(op.Prioritate),
			}
		},
		fill: func(_ context.Context, d *forms.OptiuneDraft, _ bool) (err error) {
			if d.DosarID, err = c.promptDefault("Dosar ID", d.DosarID); err != nil {
				return err
			}
			if d.ProgramID, err = c.promptDefault("Program ID", d.ProgramID); err != nil {
				return err
			}
			d.Prioritate, err = c.promptDefault("Prioritate", d.Prioritate)
			return err
		},
	})
}

func (c *Console) adminiPage(ctx context.Context) error {
	return runCrud(ctx, c, crudPage[models.Admin, forms.AdminDraft, forms.AdminPayload]{
		title:   "Administratori",
		ctrl:    resource.NewAdmini(c.client, c.logger),
		headers: []string{"ID", "Email", "Creat"},
		row: func(a models.Admin) []string {
			return []string{formatID(a.ID), a.Email, a.CreatedAt.Format("2006-01-02")}
		},
		fill: func(_ context.Context, d *forms.AdminDraft, editing bool) (err error) {
			if d.Email, err = c.promptDefault("Email", d.Email); err != nil {
				return err
			}
			label := "Parola"
			if editing {
				label = "Parola (gol = neschimbata)"
			}
			d.Parola, err = c.prompt(label)
			return err
		},
	})
}
