package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/importer"
	"github.com/nonsonwune/admitere_admin/processing"
	"github.com/nonsonwune/admitere_admin/reports"
)

const barWidth = 30

func (c *Console) rezultatePage(ctx context.Context) error {
	c.title("=== Rezultate ===")
	res := reports.NewResults(c.client, c.logger)
	defer res.Dispose()
	if err := res.Load(ctx); err != nil {
		c.fail(res.Error())
		return c.ignoreRemote(err)
	}
	groups := res.Grouped()
	if len(groups) == 0 {
		c.println("Nu exista rezultate. Ruleaza procesarea mai intai.")
		return nil
	}
	for _, g := range groups {
		c.section(g.Facultate)
		rows := make([][]string, 0, len(g.Items))
		for _, r := range g.Items {
			program, prioritate := "-", "-"
			if r.ProgramNume != nil {
				program = *r.ProgramNume
			}
			if r.Prioritate != nil {
				prioritate = strconv.Itoa(*r.Prioritate)
			}
			rows = append(rows, []string{
				formatID(r.DosarID),
				r.CandidatNume + " " + r.CandidatPrenume,
				reports.FormatMedie(r.Medie),
				r.Status,
				program,
				prioritate,
			})
		}
		c.table([]string{"Dosar", "Candidat", "Medie", "Status", "Program", "Prioritate"}, rows)
	}
	return nil
}

func (c *Console) rapoartePage(ctx context.Context) error {
	c.title("=== Rapoarte ===")
	view := reports.NewView(c.client, c.logger)
	defer view.Dispose()
	for {
		start, err := c.prompt("Data start (AAAA-LL-ZZ, optional)")
		if err != nil {
			return err
		}
		end, err := c.prompt("Data final (AAAA-LL-ZZ, optional)")
		if err != nil {
			return err
		}
		if err := view.Load(ctx, reports.Filter{Start: start, End: end}); err != nil {
			c.fail(view.Snapshot().Error)
			if err := c.ignoreRemote(err); err != nil {
				return err
			}
		} else {
			c.renderReports(view)
		}

		c.println("1. Schimba intervalul")
		c.println("2. Exporta (csv/pdf/xlsx)")
		c.println("0. Inapoi")
		choice, err := c.prompt("Alege")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			continue
		case "2":
			if err := c.exportReports(ctx, view); err != nil {
				return err
			}
		}
		return nil
	}
}

func (c *Console) renderReports(view *reports.View) {
	snap := view.Snapshot()
	c.section("Inscrieri pe program")
	rows := make([][]string, 0, len(snap.Programe))
	for _, r := range snap.Programe {
		rows = append(rows, []string{formatID(r.ProgramID), r.ProgramNume, r.FacultateNume, strconv.Itoa(r.Inscrisi)})
	}
	c.table([]string{"Program ID", "Program", "Facultate", "Inscrisi"}, rows)

	c.section("Rezultate pe facultati")
	scale := view.MaxBar()
	rows = rows[:0]
	for _, r := range view.SortedFacultati() {
		rows = append(rows, []string{
			r.FacultateNume,
			strconv.Itoa(r.Admisi),
			strconv.Itoa(r.Respinsi),
			bar(r.Admisi, scale, "#") + bar(r.Respinsi, scale, "."),
		})
	}
	c.table([]string{"Facultate", "Admisi", "Respinsi", ""}, rows)
}

func bar(n, scale int, glyph string) string {
	return strings.Repeat(glyph, n*barWidth/scale)
}

func (c *Console) exportReports(ctx context.Context, view *reports.View) error {
	answer, err := c.prompt("Format (csv/pdf/xlsx)")
	if err != nil {
		return err
	}
	answer = strings.ToLower(answer)
	if err := os.MkdirAll(c.opts.ExportDir, 0o755); err != nil {
		c.fail(err.Error())
		return nil
	}
	path := filepath.Join(c.opts.ExportDir, "raport_inscrieri_"+c.opts.Now().Format("20060102_150405")+"."+answer)

	if answer == "xlsx" {
		if err := writeFile(path, view.WriteXLSX); err != nil {
			c.fail(err.Error())
			return nil
		}
		c.success("Raport salvat in %s", path)
		return nil
	}
	format, err := reports.ParseFormat(answer)
	if err != nil {
		c.fail(err.Error())
		return nil
	}
	c.println("Link:", view.ExportURL(format))
	err = writeFile(path, func(w io.Writer) error {
		_, err := view.Download(ctx, format, w)
		return err
	})
	if err != nil {
		c.fail(exportMessage(err))
		return c.ignoreRemote(err)
	}
	c.success("Raport salvat in %s", path)
	return nil
}

// writeFile removes path again when write fails.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create export file")
	}
	werr := write(f)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(path)
	}
	return werr
}

func exportMessage(err error) string {
	if msg := apiclient.Message(err); msg != "" {
		return msg
	}
	return "Exportul a esuat."
}

func (c *Console) procesare(ctx context.Context) error {
	yes, err := c.confirm("Pornesti procesarea admiterii?")
	if err != nil || !yes {
		return err
	}
	if _, err := c.trigger.Run(ctx); err != nil {
		if errors.Is(err, processing.ErrInFlight) {
			c.fail("Procesarea este deja in curs.")
			return nil
		}
		c.fail(c.trigger.Error())
		return c.ignoreRemote(err)
	}
	c.success("%s", c.trigger.Banner().Message())
	return nil
}

func (c *Console) importPage(ctx context.Context) error {
	c.title("=== Import candidati ===")
	path, err := c.prompt("Calea fisierului (csv sau xlsx)")
	if err != nil {
		return err
	}
	validateOnly, err := c.confirm("Doar validare, fara creare?")
	if err != nil {
		return err
	}
	c.println(fmt.Sprintf("Folosesc %d workeri.", c.opts.WorkerCount))

	table, err := importer.ReadFile(path)
	if err != nil {
		c.fail(err.Error())
		return nil
	}
	imp := importer.NewDataImporter(c.client, importer.ImportConfig{
		SourceFile:   path,
		WorkerCount:  c.opts.WorkerCount,
		MaxRetries:   importer.MaxRetries,
		ValidateOnly: validateOnly,
	}, c.logger)
	res, err := imp.Import(ctx, table)
	if err != nil {
		c.fail(err.Error())
		return c.ignoreRemote(err)
	}

	c.success("Procesate %d randuri: %d reusite, %d esuate.", res.Total, res.Success, res.Failed())
	if res.Failed() == 0 {
		return nil
	}
	rows := make([][]string, 0, len(res.Failures))
	for _, f := range res.Failures {
		rows = append(rows, []string{strconv.Itoa(f.RowNumber), f.Email, f.ErrorCode, f.FailReason})
	}
	c.table([]string{"Rand", "Email", "Cod", "Eroare"}, rows)
	saved, err := importer.SaveFailedRecords(c.opts.FailedDir, table.Headers, res.Failures, c.opts.Now())
	if err != nil {
		c.fail(err.Error())
		return nil
	}
	c.println("Randurile esuate au fost salvate in", saved)
	return nil
}
