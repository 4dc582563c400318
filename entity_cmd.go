package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/forms"
	"github.com/nonsonwune/admitere_admin/models"
	"github.com/nonsonwune/admitere_admin/reports"
	"github.com/nonsonwune/admitere_admin/resource"
)

// field is one form field exposed as a flag on create and update.
type field[D any] struct {
	name  string
	usage string
	set   func(d *D, v string)
}

// entity describes the list/create/update/delete commands of one admin collection.
type entity[T, D, P any] struct {
	use   string
	short string
	// open builds the page controller and the row renderer, which may depend on data
	// the controller loads.
	open    func(client *apiclient.Client, logger logrus.FieldLogger) (*resource.Controller[T, D, P], func(T) []string)
	headers []string
	fields  []field[D]
	// filter, when set, registers list flags and returns the query builder.
	filter func(cmd *cobra.Command) func() (url.Values, forms.ValidationErrors)
}

func (e entity[T, D, P]) command(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   e.use,
		Short: e.short,
	}
	cmd.AddCommand(e.listCmd(a), e.createCmd(a), e.updateCmd(a), e.deleteCmd(a))
	return cmd
}

func (e entity[T, D, P]) listCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Listeaza " + e.use,
		Args:  cobra.NoArgs,
	}
	var build func() (url.Values, forms.ValidationErrors)
	if e.filter != nil {
		build = e.filter(cmd)
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if _, err := a.requireSession(ctx); err != nil {
			return err
		}
		ctrl, row := e.open(a.client, a.logger)
		defer ctrl.Dispose()

		var err error
		if build != nil {
			err = ctrl.ApplyFilter(ctx, build)
		} else {
			err = ctrl.Load(ctx)
		}
		if err != nil {
			return classify(err, ctrl.Snapshot().Error)
		}
		e.render(cmd, ctrl.Snapshot().Items, row)
		return nil
	}
	return cmd
}

func (e entity[T, D, P]) createCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Adauga in " + e.use,
		Args:  cobra.NoArgs,
	}
	values := e.bindFields(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return e.submit(cmd, a, 0, values)
	}
	return cmd
}

func (e entity[T, D, P]) updateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Modifica o inregistrare din " + e.use + "; campurile omise raman neschimbate",
		Args:  cobra.ExactArgs(1),
	}
	values := e.bindFields(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return e.submit(cmd, a, id, values)
	}
	return cmd
}

func (e entity[T, D, P]) deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Sterge o inregistrare din " + e.use,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			ctrl, _ := e.open(a.client, a.logger)
			defer ctrl.Dispose()
			if err := ctrl.Delete(ctx, id); err != nil {
				return classify(err, ctrl.Snapshot().Error)
			}
			fmt.Fprintf(out(cmd), "Sters %d.\n", id)
			return nil
		},
	}
}

func (e entity[T, D, P]) bindFields(cmd *cobra.Command) map[string]*string {
	values := make(map[string]*string, len(e.fields))
	for _, f := range e.fields {
		values[f.name] = cmd.Flags().String(f.name, "", f.usage)
	}
	return values
}

// submit creates (id 0) or updates id. Updates start from the stored item, so only the
// flags given on the command line change.
func (e entity[T, D, P]) submit(cmd *cobra.Command, a *app, id int64, values map[string]*string) error {
	ctx := cmd.Context()
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}
	ctrl, row := e.open(a.client, a.logger)
	defer ctrl.Dispose()

	if id != 0 {
		if err := ctrl.Load(ctx); err != nil {
			return classify(err, ctrl.Snapshot().Error)
		}
		item, ok := ctrl.Find(id)
		if !ok {
			return withCode(exitUsage, errors.Errorf("%s: nu exista inregistrarea %d", e.use, id))
		}
		ctrl.StartEdit(item)
	}
	ctrl.SetForm(func(d *D) {
		for _, f := range e.fields {
			if cmd.Flags().Changed(f.name) {
				f.set(d, *values[f.name])
			}
		}
	})
	if err := ctrl.Submit(ctx); err != nil {
		return classify(err, ctrl.Snapshot().Error)
	}
	fmt.Fprintln(out(cmd), "Salvat.")
	e.render(cmd, ctrl.Snapshot().Items, row)
	return nil
}

func (e entity[T, D, P]) render(cmd *cobra.Command, items []T, row func(T) []string) {
	table := tablewriter.NewWriter(out(cmd))
	table.SetHeader(e.headers)
	table.SetAutoWrapText(false)
	for _, item := range items {
		table.Append(row(item))
	}
	table.Render()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, withCode(exitUsage, errors.Errorf("ID invalid: %q", s))
	}
	return id, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func staticRows[T, D, P any](newCtrl func(*apiclient.Client, logrus.FieldLogger) *resource.Controller[T, D, P], row func(T) []string) func(*apiclient.Client, logrus.FieldLogger) (*resource.Controller[T, D, P], func(T) []string) {
	return func(client *apiclient.Client, logger logrus.FieldLogger) (*resource.Controller[T, D, P], func(T) []string) {
		return newCtrl(client, logger), row
	}
}

func newEntityCmds(a *app) []*cobra.Command {
	return []*cobra.Command{
		entity[models.Facultate, forms.FacultateDraft, forms.FacultatePayload]{
			use:     "facultati",
			short:   "Facultati",
			headers: []string{"ID", "Nume"},
			open: staticRows(resource.NewFacultati, func(f models.Facultate) []string {
				return []string{formatID(f.ID), f.Nume}
			}),
			fields: []field[forms.FacultateDraft]{
				{"nume", "Numele facultatii", func(d *forms.FacultateDraft, v string) { d.Nume = v }},
			},
		}.command(a),

		entity[models.ProgramStudiuView, forms.ProgramDraft, forms.ProgramPayload]{
			use:     "programe",
			short:   "Programe de studiu",
			headers: []string{"ID", "Nume", "Facultate", "Locuri buget", "Locuri taxa"},
			open: staticRows(resource.NewPrograme, func(p models.ProgramStudiuView) []string {
				return []string{formatID(p.ID), p.Nume, p.FacultateNume, strconv.Itoa(p.LocuriBuget), strconv.Itoa(p.LocuriTaxa)}
			}),
			fields: []field[forms.ProgramDraft]{
				{"nume", "Numele programului", func(d *forms.ProgramDraft, v string) { d.Nume = v }},
				{"facultate-id", "ID-ul facultatii", func(d *forms.ProgramDraft, v string) { d.FacultateID = v }},
				{"locuri-buget", "Locuri la buget", func(d *forms.ProgramDraft, v string) { d.LocuriBuget = v }},
				{"locuri-taxa", "Locuri cu taxa", func(d *forms.ProgramDraft, v string) { d.LocuriTaxa = v }},
			},
			filter: func(cmd *cobra.Command) func() (url.Values, forms.ValidationErrors) {
				var f forms.ProgramFilter
				cmd.Flags().StringVar(&f.BugetMin, "buget-min", "", "Locuri buget minim")
				cmd.Flags().StringVar(&f.BugetMax, "buget-max", "", "Locuri buget maxim")
				cmd.Flags().StringVar(&f.TaxaMin, "taxa-min", "", "Locuri taxa minime")
				cmd.Flags().StringVar(&f.TaxaMax, "taxa-max", "", "Locuri taxa maxime")
				return func() (url.Values, forms.ValidationErrors) { return f.Query() }
			},
		}.command(a),

		entity[models.Candidat, forms.CandidatDraft, forms.CandidatPayload]{
			use:     "candidati",
			short:   "Candidati",
			headers: []string{"ID", "Nume", "Prenume", "Email"},
			open: staticRows(resource.NewCandidati, func(c models.Candidat) []string {
				return []string{formatID(c.ID), c.Nume, c.Prenume, c.Email}
			}),
			fields: []field[forms.CandidatDraft]{
				{"nume", "Nume", func(d *forms.CandidatDraft, v string) { d.Nume = v }},
				{"prenume", "Prenume", func(d *forms.CandidatDraft, v string) { d.Prenume = v }},
				{"email", "Email", func(d *forms.CandidatDraft, v string) { d.Email = v }},
				{"parola", "Parola (optional)", func(d *forms.CandidatDraft, v string) { d.Parola = v }},
			},
			filter: func(cmd *cobra.Command) func() (url.Values, forms.ValidationErrors) {
				var f forms.CandidatFilter
				cmd.Flags().StringVar(&f.Nume, "nume", "", "Filtru nume")
				cmd.Flags().StringVar(&f.Prenume, "prenume", "", "Filtru prenume")
				cmd.Flags().StringVar(&f.Email, "email", "", "Filtru email")
				return func() (url.Values, forms.ValidationErrors) { return f.Query(), nil }
			},
		}.command(a),

		entity[models.DosarView, forms.DosarDraft, forms.DosarPayload]{
			use:     "dosare",
			short:   "Dosare de admitere",
			headers: []string{"ID", "Candidat", "Status", "Medie"},
			open: staticRows(resource.NewDosare, func(d models.DosarView) []string {
				return []string{formatID(d.ID), d.CandidatNume + " " + d.CandidatPrenume, string(d.Status), reports.FormatMedie(d.Medie)}
			}),
			fields: []field[forms.DosarDraft]{
				{"candidat-id", "ID-ul candidatului", func(d *forms.DosarDraft, v string) { d.CandidatID = v }},
				{"status", "IN_LUCRU, TRIMIS sau VALIDAT", func(d *forms.DosarDraft, v string) { d.Status = v }},
				{"medie", "Media; gol o sterge", func(d *forms.DosarDraft, v string) { d.Medie = v }},
			},
		}.command(a),

		entity[models.Optiune, forms.OptiuneDraft, forms.OptiunePayload]{
			use:     "optiuni",
			short:   "Optiunile dosarelor",
			headers: []string{"ID", "Dosar", "Program", "Prioritate"},
			open: func(client *apiclient.Client, logger logrus.FieldLogger) (*resource.Controller[models.Optiune, forms.OptiuneDraft, forms.OptiunePayload], func(models.Optiune) []string) {
				o := resource.NewOptiuni(client, logger)
				return o.Controller, func(op models.Optiune) []string {
					l := o.Lookup()
					return []string{
						formatID(op.ID),
						fmt.Sprintf("#%d %s", op.DosarID, l.Dosar(op.DosarID)),
						fmt.Sprintf("#%d %s", op.ProgramID, l.Program(op.ProgramID)),
						strconv.Itoa(op.Prioritate),
					}
				}
			},
			fields: []field[forms.OptiuneDraft]{
				{"dosar-id", "ID-ul dosarului", func(d *forms.OptiuneDraft, v string) { d.DosarID = v }},
				{"program-id", "ID-ul programului", func(d *forms.OptiuneDraft, v string) { d.ProgramID = v }},
				{"prioritate", "Prioritatea optiunii", func(d *forms.OptiuneDraft, v string) { d.Prioritate = v }},
			},
		}.command(a),

		entity[models.Admin, forms.AdminDraft, forms.AdminPayload]{
			use:     "admini",
			short:   "Administratori",
			headers: []string{"ID", "Email"},
			open: staticRows(resource.NewAdmini, func(ad models.Admin) []string {
				return []string{formatID(ad.ID), ad.Email}
			}),
			fields: []field[forms.AdminDraft]{
				{"email", "Email", func(d *forms.AdminDraft, v string) { d.Email = v }},
				{"parola", "Parola; obligatorie la creare, omisa la modificare o pastreaza", func(d *forms.AdminDraft, v string) { d.Parola = v }},
			},
		}.command(a),
	}
}
