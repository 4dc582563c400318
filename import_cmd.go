package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/nonsonwune/admitere_admin/importer"
)

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Importuri in masa",
	}

	var (
		validateOnly bool
		failedDir    string
	)
	candidati := &cobra.Command{
		Use:   "candidati FILE",
		Short: "Creeaza candidati dintr-un fisier CSV sau XLSX (nume, prenume, email, parola)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			table, err := importer.ReadFile(args[0])
			if err != nil {
				return withCode(exitValidation, err)
			}
			if !validateOnly {
				if _, err := a.requireSession(ctx); err != nil {
					return err
				}
			}
			imp := importer.NewDataImporter(a.client, importer.ImportConfig{
				SourceFile:   args[0],
				WorkerCount:  a.cfg.WorkerCount,
				MaxRetries:   importer.MaxRetries,
				ValidateOnly: validateOnly,
			}, a.logger)
			res, err := imp.Import(ctx, table)
			if err != nil {
				return withCode(exitValidation, err)
			}

			fmt.Fprintf(out(cmd), "Procesate %d randuri: %d reusite, %d esuate.\n", res.Total, res.Success, res.Failed())
			if res.Failed() == 0 {
				return nil
			}
			t := tablewriter.NewWriter(out(cmd))
			t.SetHeader([]string{"Rand", "Email", "Cod", "Eroare"})
			t.SetAutoWrapText(false)
			for _, f := range res.Failures {
				t.Append([]string{strconv.Itoa(f.RowNumber), f.Email, f.ErrorCode, f.FailReason})
			}
			t.Render()
			saved, err := importer.SaveFailedRecords(failedDir, table.Headers, res.Failures, time.Now())
			if err != nil {
				a.logger.WithError(err).Warn("Could not save failed rows")
			} else {
				fmt.Fprintf(out(cmd), "Randurile esuate au fost salvate in %s\n", saved)
			}
			return withCode(exitValidation, errors.Errorf("%d randuri nu au putut fi importate", res.Failed()))
		},
	}
	candidati.Flags().BoolVar(&validateOnly, "validate-only", false, "Valideaza randurile fara sa creeze candidati")
	candidati.Flags().StringVar(&failedDir, "failed-dir", "failed_imports", "Directorul pentru randurile esuate")

	cmd.AddCommand(candidati)
	return cmd
}
