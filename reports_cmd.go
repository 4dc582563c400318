package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/nonsonwune/admitere_admin/processing"
	"github.com/nonsonwune/admitere_admin/reports"
)

func newRezultateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rezultate",
		Short: "Rezultatele admiterii, grupate pe facultati",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			res := reports.NewResults(a.client, a.logger)
			if err := res.Load(ctx); err != nil {
				return classify(err, res.Error())
			}
			for _, g := range res.Grouped() {
				fmt.Fprintf(out(cmd), "\n%s\n", g.Facultate)
				table := tablewriter.NewWriter(out(cmd))
				table.SetHeader([]string{"Dosar", "Candidat", "Medie", "Status", "Program"})
				table.SetAutoWrapText(false)
				for _, r := range g.Items {
					program := "-"
					if r.ProgramNume != nil {
						program = *r.ProgramNume
					}
					table.Append([]string{formatID(r.DosarID), r.CandidatNume + " " + r.CandidatPrenume,
						reports.FormatMedie(r.Medie), r.Status, program})
				}
				table.Render()
			}
			return nil
		},
	}
}

func newRapoarteCmd(a *app) *cobra.Command {
	var (
		filter reports.Filter
		export string
		output string
	)
	cmd := &cobra.Command{
		Use:   "rapoarte",
		Short: "Rapoartele de inscrieri si rezultate, optional exportate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if export != "" && export != "xlsx" {
				if _, err := reports.ParseFormat(export); err != nil {
					return withCode(exitUsage, err)
				}
			}
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			view := reports.NewView(a.client, a.logger)
			if err := view.Load(ctx, filter); err != nil {
				return classify(err, view.Snapshot().Error)
			}
			if export == "" {
				renderReports(out(cmd), view)
				return nil
			}

			if output == "" {
				output = filepath.Join(a.cfg.ExportDir, "raport_inscrieri."+export)
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return withCode(exitUsage, errors.Wrap(err, "create export directory"))
			}
			f, err := os.Create(output)
			if err != nil {
				return withCode(exitUsage, errors.Wrap(err, "create export file"))
			}
			if export == "xlsx" {
				err = view.WriteXLSX(f)
			} else {
				_, err = view.Download(ctx, reports.Format(export), f)
			}
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(output)
				return classify(err, "")
			}
			fmt.Fprintf(out(cmd), "Raport salvat in %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Start, "start", "", "Data start (AAAA-LL-ZZ)")
	cmd.Flags().StringVar(&filter.End, "end", "", "Data final (AAAA-LL-ZZ)")
	cmd.Flags().StringVar(&export, "export", "", "Exporta raportul de inscrieri: csv, pdf sau xlsx")
	cmd.Flags().StringVar(&output, "out", "", "Fisierul exportului (implicit in $ADMITERE_EXPORT_DIR)")
	return cmd
}

func renderReports(w io.Writer, view *reports.View) {
	snap := view.Snapshot()
	fmt.Fprintln(w, "Inscrieri pe program")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Program ID", "Program", "Facultate", "Inscrisi"})
	table.SetAutoWrapText(false)
	for _, r := range snap.Programe {
		table.Append([]string{formatID(r.ProgramID), r.ProgramNume, r.FacultateNume, strconv.Itoa(r.Inscrisi)})
	}
	table.Render()

	fmt.Fprintln(w, "\nRezultate pe facultati")
	table = tablewriter.NewWriter(w)
	table.SetHeader([]string{"Facultate", "Admisi", "Respinsi"})
	table.SetAutoWrapText(false)
	for _, r := range view.SortedFacultati() {
		table.Append([]string{r.FacultateNume, strconv.Itoa(r.Admisi), strconv.Itoa(r.Respinsi)})
	}
	table.Render()
}

func newProcesareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "procesare",
		Short: "Porneste procesarea admiterii pe backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			trigger := processing.NewTrigger(a.client, a.logger, processing.WithBannerTTL(a.cfg.BannerTTL))
			if _, err := trigger.Run(ctx); err != nil {
				return classify(err, trigger.Error())
			}
			fmt.Fprintln(out(cmd), trigger.Banner().Message())
			return nil
		},
	}
}
